package libio

import (
	goimg "image"
	"image/png"
	"io"

	"golang.org/x/image/draw"

	"softibl/librender"
)

type PreviewOptions struct {
	Gamma float32
	Scale float32
	// MaxWidth scales the preview down to at most this many pixels, 0 disables it.
	MaxWidth int
	Reinhard bool
}

func levelImage(lvl *librender.MipLevel, opts PreviewOptions) *goimg.RGBA {
	img := NewFloatImage(lvl.Pix, lvl.Channels, lvl.Width, lvl.Height)
	if opts.Reinhard {
		// tone map a copy, the level stays untouched
		img = NewFloatImage(append([]float32(nil), lvl.Pix...), lvl.Channels, lvl.Width, lvl.Height)
		img.Reinhard()
	}
	return img.ToRGBA(opts.Gamma, opts.Scale)
}

// ComposePreview tone maps the surfaces and places them side by side, top aligned.
func ComposePreview(surfaces []*librender.MipLevel, opts PreviewOptions) *goimg.RGBA {
	if opts.Gamma == 0 {
		opts.Gamma = 1
	}
	if opts.Scale == 0 {
		opts.Scale = 1
	}

	width, height := 0, 0
	for _, lvl := range surfaces {
		width += lvl.Width
		if lvl.Height > height {
			height = lvl.Height
		}
	}

	strip := goimg.NewRGBA(goimg.Rect(0, 0, width, height))
	x := 0
	for _, lvl := range surfaces {
		src := levelImage(lvl, opts)
		r := goimg.Rect(x, 0, x+lvl.Width, lvl.Height)
		draw.Draw(strip, r, src, goimg.Point{}, draw.Src)
		x += lvl.Width
	}

	if opts.MaxWidth <= 0 || width <= opts.MaxWidth {
		return strip
	}

	scaledHeight := height * opts.MaxWidth / width
	if scaledHeight < 1 {
		scaledHeight = 1
	}
	scaled := goimg.NewRGBA(goimg.Rect(0, 0, opts.MaxWidth, scaledHeight))
	draw.CatmullRom.Scale(scaled, scaled.Bounds(), strip, strip.Bounds(), draw.Src, nil)
	return scaled
}

func EncodePreview(w io.Writer, img goimg.Image) error {
	return png.Encode(w, img)
}
