package main

import (
	"flag"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"softibl/libio"
)

func createInfoCommand() *command {

	args := commonArgs{}

	flags := flag.NewFlagSet("info", flag.ExitOnError)

	registerCommonFlags(flags, &args)

	return &command{
		Name: "info",
		Help: "print the headers of .hdr, .ywtd and .cube files",
		Run: func(self *command) {
			if len(self.Flags.Args()) == 0 {
				printCommandUsage(self, " <files...>")
			}
			setCommonArgs(&args)

			for _, file := range gatherInputFiles(self.Flags.Args()) {
				softerr(printInfo(file))
			}
		},
		Flags: flags,
	}
}

func printInfo(file string) error {
	name := strings.TrimSuffix(file, ".lz4")
	switch filepath.Ext(name) {
	case ".cube":
		return printCubeInfo(file)
	case ".hdr":
		return printRgbeInfo(file)
	default:
		return printChainInfo(file)
	}
}

func printChainInfo(file string) error {
	chain, err := libio.ReadMipChainFile(file)
	if err != nil {
		return err
	}
	fmt.Printf("%s: %dx%d %v, %d levels\n", file, chain.Width, chain.Height, chain.Format, len(chain.Levels))
	for _, lvl := range chain.Levels {
		fmt.Printf("  level %d: %dx%d, %d bytes\n", lvl.Level, lvl.Width, lvl.Height, lvl.Bytes())
	}
	return nil
}

func printCubeInfo(file string) error {
	chains, err := libio.ReadCubeFiles(file)
	if err != nil {
		return err
	}
	c := chains[0]
	fmt.Printf("%s: cube %dx%d %v, %d levels\n", file, c.Width, c.Height, c.Format, len(c.Levels))
	return nil
}

func printRgbeInfo(file string) error {
	reader, err := libio.OpenFile(file)
	if err != nil {
		return err
	}
	defer close(reader)

	// the header is always small, the pixels are not needed
	buf := make([]byte, 4096)
	n, err := io.ReadFull(reader, buf)
	if err != nil && err != io.ErrUnexpectedEOF {
		return err
	}
	header, _, err := libio.ParseRgbeHeader(buf[:n])
	if err != nil {
		return err
	}
	fmt.Printf("%s: %dx%d %v, exposure %g, gamma %g\n", file, header.Width, header.Height,
		header.Format, header.Exposure, header.Gamma)
	return nil
}
