package libio

import (
	goimg "image"

	"github.com/chewxy/math32"
)

// FloatImage holds Channels floats per pixel, row 0 is the top row.
type FloatImage struct {
	Channels      int
	Width, Height int
	Pix           []float32
}

func NewFloatImage(pix []float32, channels int, width, height int) *FloatImage {
	return &FloatImage{
		Channels: channels,
		Width:    width,
		Height:   height,
		Pix:      pix,
	}
}

func (img *FloatImage) Count() int {
	return img.Width * img.Height
}

// toChannels drops or appends channels, appended channels take their default or 0.
func toChannels[P ~[]E, E any](srcCh, dstCh int, count int, pix P, defaults ...E) P {
	if srcCh == dstCh {
		return pix
	}

	if len(defaults) < dstCh {
		defaults = append(defaults, make([]E, dstCh-len(defaults))...)
	}

	dst := make([]E, count*dstCh)
	n := srcCh
	if dstCh < n {
		n = dstCh
	}
	for i := 0; i < count; i++ {
		copy(dst[i*dstCh:i*dstCh+n], pix[i*srcCh:i*srcCh+n])
		for c := n; c < dstCh; c++ {
			dst[i*dstCh+c] = defaults[c]
		}
	}
	return dst
}

// ToChannels returns img itself when the channel count does not change.
func (img *FloatImage) ToChannels(nr int, defaults ...float32) *FloatImage {
	if nr == img.Channels {
		return img
	}
	dst := toChannels(img.Channels, nr, img.Count(), img.Pix, defaults...)
	return NewFloatImage(dst, nr, img.Width, img.Height)
}

// Reinhard applies x/(1+x) to the color channels in place.
func (img *FloatImage) Reinhard() {
	colors := img.Channels
	if colors > 3 {
		colors = 3
	}
	for i := 0; i < img.Count(); i++ {
		for c := 0; c < colors; c++ {
			v := img.Pix[i*img.Channels+c]
			img.Pix[i*img.Channels+c] = v / (1 + v)
		}
	}
}

// ToRGBA tone maps the color channels with scale and gamma. Missing color
// channels are black, alpha is opaque unless the image has four channels.
func (img *FloatImage) ToRGBA(gamma, scale float32) *goimg.RGBA {
	rgba := goimg.NewRGBA(goimg.Rect(0, 0, img.Width, img.Height))
	invGamma := 1.0 / gamma

	for i := 0; i < img.Count(); i++ {
		src := img.Pix[i*img.Channels : (i+1)*img.Channels]
		dst := rgba.Pix[i*4 : i*4+4]
		dst[3] = 0xff
		for c, v := range src {
			if c == 3 {
				v = math32.Max(0, math32.Min(v, 1))
				dst[c] = uint8(v*0xff + 0.5)
				continue
			}
			dst[c] = uint8(tonemap(v, invGamma, scale)*0xff + 0.5)
		}
	}

	return rgba
}

func tonemap(value, invGamma, scale float32) float32 {
	value = math32.Max(0.0, value)
	value = math32.Pow(value*scale, invGamma)
	return math32.Min(value, 1.0)
}
