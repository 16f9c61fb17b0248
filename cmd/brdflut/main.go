package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"softibl/ibl"
	"softibl/libio"
	"softibl/librender"
)

var args = struct {
	samples int
	size    int
	preview bool
	workers int
}{
	samples: 1024,
	size:    512,
	preview: false,
}

func printGeneralUsage() {
	exe := filepath.Base(os.Args[0])
	fmt.Fprintf(os.Stderr, "Usage: %s [arguments] <out.ywtd[.lz4]>\n\n", exe)
	fmt.Fprintf(os.Stderr, "The arguments are:\n\n")
	flag.CommandLine.SetOutput(os.Stderr)
	flag.PrintDefaults()
	os.Exit(1)
}

func main() {
	flag.IntVar(&args.samples, "samples", args.samples, "samples of the integral")
	flag.IntVar(&args.size, "size", args.size, "size of the lut")
	flag.BoolVar(&args.preview, "preview", args.preview, "generate a png preview next to the lut")
	flag.IntVar(&args.workers, "workers", args.workers, "concurrently shaded rows, 0 uses all cpus")

	flag.Parse()

	if flag.NArg() != 1 {
		printGeneralUsage()
	}

	dev := librender.NewSoftDevice()
	dev.Workers = args.workers

	lut, err := ibl.NewBrdfIntegrator(args.size, args.samples).Generate(dev)
	harderr(err)
	defer lut.Release()

	chain := libio.NewMipChain(lut, 0)

	file, err := libio.CreateFile(flag.Arg(0))
	harderr(err)
	err = libio.EncodeMipChain(file, chain)
	harderr(err)
	harderr(file.Close())

	if args.preview {
		filename := strings.TrimSuffix(flag.Arg(0), ".lz4")
		filename = strings.TrimSuffix(filename, filepath.Ext(filename))

		img := libio.ComposePreview(chain.Levels, libio.PreviewOptions{Gamma: 1, Scale: 1})
		file, err := os.Create(filename + ".png")
		harderr(err)
		defer file.Close()

		err = libio.EncodePreview(file, img)
		harderr(err)
	}
}

func harderr(err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
