package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"softibl/librender"
	"softibl/libscn"
)

type bakeArgs struct {
	commonArgs
	index    string
	config   string
	cache    string
	debug    bool
	compress bool
	workers  int
}

func createBakeCommand() *command {

	args := bakeArgs{
		index: "probes.json",
	}

	flags := flag.NewFlagSet("bake", flag.ExitOnError)

	registerCommonFlags(flags, &args.commonArgs)

	flags.StringVar(&args.index, "index", args.index, "the probe index json file")
	flags.StringVar(&args.index, "i", args.index, "shorthand for index")
	flags.StringVar(&args.config, "config", args.config, "optional json config file")
	flags.StringVar(&args.cache, "cache", args.cache, "the cache directory, overrides the config")
	flags.BoolVar(&args.debug, "debug", args.debug, "also write rgbe copies and png previews")
	flags.BoolVar(&args.compress, "compress", args.compress, "write lz4 compressed cache files")
	flags.IntVar(&args.workers, "workers", args.workers, "concurrently shaded rows, 0 uses all cpus")

	return &command{
		Name: "bake",
		Help: "compute or load the ibl artifacts of probes, all probes when no name is given",
		Run: func(self *command) {
			if args.index == "" {
				printCommandUsage(self, " [probe...]")
			}
			setCommonArgs(&args.commonArgs)

			runBake(args, self.Flags.Args())
		},
		Flags: flags,
	}
}

func loadBakeConfig(args bakeArgs) (libscn.Config, error) {
	cfg := libscn.DefaultConfig()
	if args.config != "" {
		file, err := os.Open(args.config)
		if err != nil {
			return cfg, err
		}
		defer close(file)
		cfg, err = libscn.LoadConfig(file)
		if err != nil {
			return cfg, err
		}
	}
	if args.cache != "" {
		cfg.CacheDir = args.cache
	}
	cfg.Debug = cfg.Debug || args.debug
	cfg.Compress = cfg.Compress || args.compress
	return cfg, nil
}

func runBake(args bakeArgs, names []string) {
	cfg, err := loadBakeConfig(args)
	harderr(err)

	pack := libscn.NewSourcePack()
	harderr(pack.AddIndexFile(args.index))

	if len(names) == 0 {
		names = pack.Names()
	}

	dev := librender.NewSoftDevice()
	dev.Workers = args.workers
	manager := libscn.NewManager(dev, cfg, pack, librender.NewSphere(32, 64, 1), nil)
	defer manager.Release()

	success := 0
	start := time.Now()
	for i, name := range names {
		if !cargs.quiet {
			fmt.Printf("Baking probe %d/%d %q ...\n", i+1, len(names), name)
		}
		err := manager.EnsureLoaded(name)
		softerr(err)
		if err == nil {
			success++
		}
	}
	if !cargs.quiet {
		took := float32(time.Since(start).Milliseconds()) / 1000
		fmt.Printf("Baked %d/%d probes in %.3f seconds\n", success, len(names), took)
	}
}
