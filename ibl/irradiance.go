package ibl

import (
	"fmt"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"softibl/librender"
	"softibl/libutil"
)

// DefaultIrradianceStep is the angular step of the hemisphere sum in radians.
const DefaultIrradianceStep = 0.025

type hemisphereSample struct {
	// z is 'up'
	dir    mgl32.Vec3
	weight float32
}

// generateHemisphereSamples lays a regular grid over theta in [0, pi/2) and phi in [0, 2pi).
func generateHemisphereSamples(step float32) []hemisphereSample {
	thetaCount := int(math32.Ceil((0.5 * math32.Pi) / step))
	phiCount := int(math32.Ceil((2.0 * math32.Pi) / step))

	samples := make([]hemisphereSample, 0, thetaCount*phiCount)
	for p := 0; p < phiCount; p++ {
		phi := float32(p) * step
		for t := 0; t < thetaCount; t++ {
			theta := float32(t) * step
			sinTheta, cosTheta := math32.Sin(theta), math32.Cos(theta)
			samples = append(samples, hemisphereSample{
				dir: mgl32.Vec3{
					sinTheta * math32.Cos(phi),
					sinTheta * math32.Sin(phi),
					cosTheta,
				},
				weight: cosTheta * sinTheta,
			})
		}
	}
	return samples
}

// IrradianceConvolver integrates the cosine weighted hemisphere of every output
// direction with a brute force Riemann sum.
type IrradianceConvolver struct {
	Size    int
	samples []hemisphereSample
}

func NewIrradianceConvolver(size int, step float32) *IrradianceConvolver {
	if step <= 0 {
		step = DefaultIrradianceStep
	}
	return &IrradianceConvolver{
		Size:    size,
		samples: generateHemisphereSamples(step),
	}
}

func (conv *IrradianceConvolver) shade(frag *librender.Fragment, out []float32) {
	if frag.Local.Len() == 0 {
		writeColor(out, [4]float32{})
		return
	}
	n := frag.Local.Normalize()

	up := mgl32.Vec3{0, 1, 0}
	if math32.Abs(n.Y()) >= 0.999 {
		up = mgl32.Vec3{0, 0, 1}
	}
	right := up.Cross(n).Normalize()
	up = n.Cross(right)

	var color mgl32.Vec3
	for _, s := range conv.samples {
		dir := right.Mul(s.dir[0]).Add(up.Mul(s.dir[1])).Add(n.Mul(s.dir[2]))
		c := frag.SampleCube(0, dir, 0)
		color = color.Add(mgl32.Vec3{c[0], c[1], c[2]}.Mul(s.weight))
	}
	color = color.Mul(math32.Pi / float32(len(conv.samples)))

	writeColor(out, [4]float32{color[0], color[1], color[2], 1})
}

// Convolve returns a single level RGB irradiance cube texture. The caller owns it.
func (conv *IrradianceConvolver) Convolve(dev librender.Device, env *librender.Texture, proxy *librender.Mesh) (*librender.Texture, error) {
	if err := checkProxy(proxy); err != nil {
		return nil, err
	}

	var cleanup libutil.Cleanup
	defer cleanup.Release()

	irradiance, err := dev.CreateCubeTexture(conv.Size, 1, librender.FormatRGB32F)
	if err != nil {
		return nil, err
	}
	cleanup.Add(irradiance)

	rt, err := dev.CreateRenderTarget(conv.Size, conv.Size, librender.FormatRGB32F)
	if err != nil {
		return nil, err
	}
	defer rt.Release()

	dev.BindTexture(0, env, librender.LinearClamp)
	defer dev.BindTexture(0, nil, librender.Sampler{})

	if err := renderCube(dev, rt, irradiance, 0, proxy, conv.shade); err != nil {
		return nil, fmt.Errorf("could not convolve irradiance: %w", err)
	}

	cleanup.Keep()
	return irradiance, nil
}
