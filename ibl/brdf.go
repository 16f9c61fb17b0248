package ibl

import (
	"fmt"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"softibl/librender"
	"softibl/libutil"
)

// IntegrateBrdf returns the scale (A) and bias (B) applied to F0 by the split sum
// specular term for a view angle and roughness.
func IntegrateBrdf(nDotV, roughness float32, samples []mgl32.Vec2) (a, b float32) {
	v := mgl32.Vec3{math32.Sqrt(math32.Max(1.0-nDotV*nDotV, 0)), 0, nDotV}
	n := mgl32.Vec3{0, 0, 1}

	for _, xi := range samples {
		h := ImportanceSampleGGX(xi, n, roughness)
		l := reflect(v.Mul(-1), h).Normalize()

		nDotL := math32.Max(l.Z(), 0)
		nDotH := math32.Max(h.Z(), 0)
		vDotH := math32.Max(v.Dot(h), 0)

		if nDotL > 0 && nDotH > 0 {
			g := GeometrySmith(n, v, l, roughness)
			gVis := (g * vDotH) / (nDotH * nDotV)
			fc := math32.Pow(1.0-vDotH, 5.0)

			a += (1.0 - fc) * gVis
			b += fc * gVis
		}
	}

	count := float32(len(samples))
	return a / count, b / count
}

// BrdfIntegrator renders the two channel BRDF lookup table indexed by (N·V, roughness).
type BrdfIntegrator struct {
	Size    int
	Samples int
}

func NewBrdfIntegrator(size, samples int) *BrdfIntegrator {
	if samples <= 0 {
		samples = DefaultSampleCount
	}
	return &BrdfIntegrator{Size: size, Samples: samples}
}

// Generate returns a single level RG texture. The caller owns it.
func (b *BrdfIntegrator) Generate(dev librender.Device) (*librender.Texture, error) {
	var cleanup libutil.Cleanup
	defer cleanup.Release()

	lut, err := dev.CreateTexture2D(b.Size, b.Size, 1, librender.FormatRG32F)
	if err != nil {
		return nil, err
	}
	cleanup.Add(lut)

	rt, err := dev.CreateRenderTarget(b.Size, b.Size, librender.FormatRG32F)
	if err != nil {
		return nil, err
	}
	defer rt.Release()

	samples := generateHammersleySequence(b.Samples)

	dev.BindRenderTarget(rt)
	defer dev.BindRenderTarget(nil)

	err = dev.DrawFullscreen(func(frag *librender.Fragment, out []float32) {
		out[0], out[1] = IntegrateBrdf(frag.UV.X(), frag.UV.Y(), samples)
	})
	if err != nil {
		return nil, fmt.Errorf("could not integrate brdf: %w", err)
	}

	if err := dev.CopyRenderTarget(rt, lut, 0, 0); err != nil {
		return nil, fmt.Errorf("could not copy brdf lut: %w", err)
	}

	cleanup.Keep()
	return lut, nil
}
