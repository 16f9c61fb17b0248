package ibl

import (
	"fmt"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"softibl/librender"
	"softibl/libutil"
)

const DefaultSampleCount = 1024

func generateHammersleySequence(count int) []mgl32.Vec2 {
	samples := make([]mgl32.Vec2, count)
	for i := range samples {
		samples[i] = Hammersley(uint32(i), uint32(count))
	}
	return samples
}

// SpecularPrefilter convolves the environment with the GGX lobe of one
// roughness per mip level, level m holding roughness m/(Levels-1).
type SpecularPrefilter struct {
	Size    int
	Levels  int
	Samples int
	// tangent space half vectors per level
	lobes [][]mgl32.Vec3
}

func NewSpecularPrefilter(size, levels, samples int) *SpecularPrefilter {
	if samples <= 0 {
		samples = DefaultSampleCount
	}
	return &SpecularPrefilter{
		Size:    size,
		Levels:  levels,
		Samples: samples,
	}
}

func (p *SpecularPrefilter) Roughness(level int) float32 {
	if p.Levels <= 1 {
		return 0
	}
	return float32(level) / float32(p.Levels-1)
}

func (p *SpecularPrefilter) generateLobes() {
	seq := generateHammersleySequence(p.Samples)
	p.lobes = make([][]mgl32.Vec3, p.Levels)
	// roughness 0 reflects along the normal only
	p.lobes[0] = []mgl32.Vec3{{0, 0, 1}}
	for l := 1; l < p.Levels; l++ {
		roughness := p.Roughness(l)
		p.lobes[l] = make([]mgl32.Vec3, len(seq))
		for i, xi := range seq {
			p.lobes[l][i] = importanceSampleGGXTangent(xi, roughness)
		}
	}
}

func (p *SpecularPrefilter) shader(level, envSize int) librender.FragmentShader {
	roughness := p.Roughness(level)
	lobe := p.lobes[level]

	return func(frag *librender.Fragment, out []float32) {
		if frag.Local.Len() == 0 {
			writeColor(out, [4]float32{})
			return
		}
		n := frag.Local.Normalize()
		v := n
		frame := newTangentFrame(n)

		var color mgl32.Vec3
		var totalWeight float32
		for _, s := range lobe {
			h := frame.toWorld(s).Normalize()
			hDotV := h.Dot(v)
			l := reflect(v.Mul(-1), h).Normalize()

			nDotL := n.Dot(l)
			if nDotL <= 0 {
				continue
			}

			lod := PrefilterSourceLod(roughness, math32.Max(n.Dot(h), 0), math32.Max(hDotV, 0), len(lobe), envSize)
			c := frag.SampleCube(0, l, lod)
			color = color.Add(mgl32.Vec3{c[0], c[1], c[2]}.Mul(nDotL))
			totalWeight += nDotL
		}

		if totalWeight > 0 {
			color = color.Mul(1 / totalWeight)
		} else {
			c := frag.SampleCube(0, n, 0)
			color = mgl32.Vec3{c[0], c[1], c[2]}
		}
		writeColor(out, [4]float32{color[0], color[1], color[2], 1})
	}
}

// Prefilter returns a RGB cube texture with one mip level per roughness bucket. The caller owns it.
func (p *SpecularPrefilter) Prefilter(dev librender.Device, env *librender.Texture, proxy *librender.Mesh) (*librender.Texture, error) {
	if err := checkProxy(proxy); err != nil {
		return nil, err
	}
	if p.Levels < 1 || p.Levels > MaxPrefilterLevels {
		return nil, fmt.Errorf("prefilter levels %d outside [1, %d]", p.Levels, MaxPrefilterLevels)
	}
	if p.lobes == nil {
		p.generateLobes()
	}

	var cleanup libutil.Cleanup
	defer cleanup.Release()

	prefiltered, err := dev.CreateCubeTexture(p.Size, p.Levels, librender.FormatRGB32F)
	if err != nil {
		return nil, err
	}
	cleanup.Add(prefiltered)

	dev.BindTexture(0, env, librender.TrilinearClamp)
	defer dev.BindTexture(0, nil, librender.Sampler{})

	for level := 0; level < p.Levels; level++ {
		size := librender.MipSize(p.Size, level)
		rt, err := dev.CreateRenderTarget(size, size, librender.FormatRGB32F)
		if err != nil {
			return nil, err
		}
		err = renderCube(dev, rt, prefiltered, level, proxy, p.shader(level, env.Size()))
		rt.Release()
		if err != nil {
			return nil, fmt.Errorf("could not prefilter level %d: %w", level, err)
		}
	}

	cleanup.Keep()
	return prefiltered, nil
}
