package main

import (
	"flag"
	"fmt"
	"path/filepath"
	"strings"

	"softibl/libio"
	"softibl/librender"
)

type previewArgs struct {
	commonArgs
	gamma    float64
	scale    float64
	reinhard bool
	maxWidth int
}

func createPreviewCommand() *command {

	args := previewArgs{
		gamma: 2.2,
		scale: 1.0,
	}

	flags := flag.NewFlagSet("preview", flag.ExitOnError)

	registerCommonFlags(flags, &args.commonArgs)
	registerOutFlag(flags, &args.commonArgs)

	flags.Float64Var(&args.gamma, "gamma", args.gamma, "the gamma value used for tone mapping")
	flags.Float64Var(&args.scale, "scale", args.scale, "the brightness value used for tone mapping")
	flags.BoolVar(&args.reinhard, "reinhard", args.reinhard, "apply reinhard tone mapping before gamma")
	flags.IntVar(&args.maxWidth, "max-width", args.maxWidth, "scale previews down to this width, 0 disables it")

	return &command{
		Name: "preview",
		Help: "create png previews of .cube and .ywtd cache files",
		Run: func(self *command) {
			if len(self.Flags.Args()) == 0 {
				printCommandUsage(self, " <files...>")
			}
			setCommonArgs(&args.commonArgs)
			setOutDir(&args.commonArgs)

			runPreview(args, self.Flags.Args())
		},
		Flags: flags,
	}
}

func runPreview(args previewArgs, inputs []string) {
	files := gatherInputFiles(inputs)

	opts := libio.PreviewOptions{
		Gamma:    float32(args.gamma),
		Scale:    float32(args.scale),
		Reinhard: args.reinhard,
		MaxWidth: args.maxWidth,
	}

	for i, file := range files {
		if !cargs.quiet {
			fmt.Printf("Processing file %d/%d %q ...\n", i+1, len(files), filepath.Base(file))
		}

		var err error
		if strings.HasSuffix(file, ".cube") {
			err = previewCube(file, args.out, opts)
		} else {
			err = previewChain(file, args.out, opts)
		}
		softerr(err)
	}
}

// previewCube writes one strip of all six faces per level.
func previewCube(file, out string, opts libio.PreviewOptions) error {
	chains, err := libio.ReadCubeFiles(file)
	if err != nil {
		return err
	}

	base := baseName(file)
	for l := range chains[0].Levels {
		surfaces := make([]*librender.MipLevel, len(chains))
		for f, chain := range chains {
			surfaces[f] = chain.Levels[l]
		}
		name := filepath.Join(out, fmt.Sprintf("%s_m%d.png", base, l))
		if err := writePreview(name, surfaces, opts); err != nil {
			return err
		}
	}
	return nil
}

// previewChain writes one image per level of a single mip chain.
func previewChain(file, out string, opts libio.PreviewOptions) error {
	chain, err := libio.ReadMipChainFile(file)
	if err != nil {
		return err
	}

	base := baseName(file)
	for l, lvl := range chain.Levels {
		name := filepath.Join(out, fmt.Sprintf("%s_m%d.png", base, l))
		if err := writePreview(name, []*librender.MipLevel{lvl}, opts); err != nil {
			return err
		}
	}
	return nil
}

func writePreview(name string, surfaces []*librender.MipLevel, opts libio.PreviewOptions) error {
	img := libio.ComposePreview(surfaces, opts)
	file, err := libio.CreateFile(name)
	if err != nil {
		return err
	}
	if err := libio.EncodePreview(file, img); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
