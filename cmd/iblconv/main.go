package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/exp/slices"

	"softibl/libutil"
)

// logLevel is a flag.Value accepting debug, info, warn or error.
type logLevel struct {
	level slog.Level
}

func (l *logLevel) String() string {
	return strings.ToLower(l.level.String())
}

func (l *logLevel) Set(s string) error {
	return l.level.UnmarshalText([]byte(s))
}

type commonArgs struct {
	out     string
	log     logLevel
	quiet   bool
	supress bool
}

var cargs *commonArgs

type command struct {
	Run   func(self *command)
	Name  string
	Help  string
	Flags *flag.FlagSet
}

var commands = []*command{}

func printGeneralUsage() {
	exe := filepath.Base(os.Args[0])
	fmt.Fprintf(os.Stderr, "Usage: %s <command> [arguments]\n\n", exe)
	fmt.Fprintf(os.Stderr, "The commands are:\n\n")
	longest := slices.MaxFunc(commands, func(a, b *command) int {
		return len(a.Name) - len(b.Name)
	})
	for _, c := range commands {
		fmt.Fprintf(os.Stderr, "    %*s%s\n", -len(longest.Name)-4, c.Name, c.Help)
	}
	fmt.Fprintln(os.Stderr, "")
	os.Exit(1)
}

func printCommandUsage(cmd *command, suffix string) {
	exe := filepath.Base(os.Args[0])
	fmt.Fprintf(os.Stderr, "Usage: %s %s [arguments]%s\n\n", exe, cmd.Name, suffix)
	fmt.Fprintf(os.Stderr, "The arguments are:\n\n")
	cmd.Flags.SetOutput(os.Stderr)
	cmd.Flags.PrintDefaults()
	os.Exit(1)
}

func findCommand(name string) *command {
	i := slices.IndexFunc(commands, func(c *command) bool {
		return strings.EqualFold(c.Name, name)
	})
	if i < 0 {
		return nil
	}
	return commands[i]
}

func main() {
	commands = append(commands,
		createBakeCommand(),
		createPreviewCommand(),
		createInfoCommand(),
	)
	slices.SortFunc(commands, func(a, b *command) int {
		return strings.Compare(a.Name, b.Name)
	})

	if len(os.Args) < 2 {
		printGeneralUsage()
	}
	cmd := findCommand(os.Args[1])
	if cmd == nil {
		printGeneralUsage()
	}

	harderr(cmd.Flags.Parse(os.Args[2:]))
	cmd.Run(cmd)
}

func registerCommonFlags(flags *flag.FlagSet, args *commonArgs) {
	flags.Var(&args.log, "log", "the log level; debug, info, warn or error")
	flags.BoolVar(&args.quiet, "quiet", args.quiet, "disables progress output and informational logging")
	flags.BoolVar(&args.quiet, "q", args.quiet, "shorthand for quiet")
	flags.BoolVar(&args.supress, "supress", args.supress, "disables soft error logging")
}

// registerOutFlag is used by the commands that write files into a directory.
func registerOutFlag(flags *flag.FlagSet, args *commonArgs) {
	flags.StringVar(&args.out, "out", args.out, "the output directory")
	flags.StringVar(&args.out, "o", args.out, "shorthand for out")
}

// setCommonArgs installs the logger.
func setCommonArgs(args *commonArgs) {
	cargs = args

	level := args.log.level
	if args.quiet && level < slog.LevelWarn {
		level = slog.LevelWarn
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	libutil.SetLogger(slog.New(handler))
}

// setOutDir defaults the output directory to the working directory and checks it exists.
func setOutDir(args *commonArgs) {
	if args.out == "" {
		var err error
		args.out, err = os.Getwd()
		harderr(err)
	}

	if _, err := os.Stat(args.out); err != nil {
		harderr(fmt.Errorf("cannot stat output directory: %w", err))
	}
}

// gatherInputFiles expands the globs into a sorted list without duplicates.
func gatherInputFiles(globs []string) []string {
	matched := []string{}
	for _, g := range globs {
		m, err := filepath.Glob(g)
		softerr(err)
		matched = append(matched, m...)
	}
	slices.Sort(matched)
	return slices.Compact(matched)
}

// baseName strips the directory, the lz4 suffix and the extension.
func baseName(p string) string {
	name := strings.TrimSuffix(filepath.Base(p), ".lz4")
	return strings.TrimSuffix(name, filepath.Ext(name))
}

func close(closer io.Closer) {
	closer.Close()
}

func softerr(err error) bool {
	if err != nil && !cargs.supress {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return true
	}
	return false
}

func harderr(err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
