package librender

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// SampleCube samples a cube texture in direction dir. lod is ignored unless the
// sampler enables mip filtering.
func SampleCube(tex *Texture, sampler Sampler, dir mgl32.Vec3, lod float32) [4]float32 {
	face, u, v := CubeFaceUV(dir)
	// faces never wrap into each other
	sampler.WrapS, sampler.WrapT = WrapClamp, WrapClamp
	return sampleLevels(tex.faces[face], sampler, u, v, lod)
}

func Sample2D(tex *Texture, sampler Sampler, uv mgl32.Vec2, lod float32) [4]float32 {
	return sampleLevels(tex.faces[0], sampler, uv[0], uv[1], lod)
}

func sampleLevels(levels []*MipLevel, sampler Sampler, u, v, lod float32) [4]float32 {
	if !sampler.MipFilter || len(levels) == 1 || lod <= 0 {
		return sampleLevel(levels[0], sampler, u, v)
	}

	maxLod := float32(len(levels) - 1)
	if lod >= maxLod {
		return sampleLevel(levels[len(levels)-1], sampler, u, v)
	}

	l0f, frac := math32.Modf(lod)
	l0 := int(l0f)
	a := sampleLevel(levels[l0], sampler, u, v)
	if frac == 0 {
		return a
	}
	b := sampleLevel(levels[l0+1], sampler, u, v)
	for c := range a {
		a[c] = a[c]*(1-frac) + b[c]*frac
	}
	return a
}

func sampleLevel(lvl *MipLevel, sampler Sampler, u, v float32) [4]float32 {
	if sampler.Filter == FilterNearest {
		x := wrapIndex(int(math32.Floor(u*float32(lvl.Width))), lvl.Width, sampler.WrapS)
		y := wrapIndex(int(math32.Floor(v*float32(lvl.Height))), lvl.Height, sampler.WrapT)
		return texel(lvl, x, y)
	}
	return sampleBilinear(lvl, sampler.WrapS, sampler.WrapT, u, v)
}

func wrapIndex(i, n int, wrap Wrap) int {
	if wrap == WrapRepeat {
		i %= n
		if i < 0 {
			i += n
		}
		return i
	}
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

func texel(lvl *MipLevel, x, y int) (color [4]float32) {
	color[3] = 1
	i := lvl.Index(x, y)
	for c := 0; c < lvl.Channels; c++ {
		color[c] = lvl.Pix[i+c]
	}
	return color
}

func sampleBilinear(lvl *MipLevel, wrapS, wrapT Wrap, u, v float32) [4]float32 {
	// -0.5 to adjust for the pixel center offset
	u = u*float32(lvl.Width) - 0.5
	v = v*float32(lvl.Height) - 0.5
	ufloor := math32.Floor(u)
	vfloor := math32.Floor(v)
	ufrac, vfrac := u-ufloor, v-vfloor

	x0 := wrapIndex(int(ufloor), lvl.Width, wrapS)
	x1 := wrapIndex(int(ufloor)+1, lvl.Width, wrapS)
	y0 := wrapIndex(int(vfloor), lvl.Height, wrapT)
	y1 := wrapIndex(int(vfloor)+1, lvl.Height, wrapT)

	c00 := texel(lvl, x0, y0)
	c10 := texel(lvl, x1, y0)
	c01 := texel(lvl, x0, y1)
	c11 := texel(lvl, x1, y1)

	var result [4]float32
	for c := range result {
		h0 := c00[c]*(1.0-ufrac) + c10[c]*ufrac
		h1 := c01[c]*(1.0-ufrac) + c11[c]*ufrac
		result[c] = h0*(1.0-vfrac) + h1*vfrac
	}
	return result
}
