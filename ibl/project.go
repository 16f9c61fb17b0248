package ibl

import (
	"fmt"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"softibl/libio"
	"softibl/librender"
	"softibl/libutil"
)

// 1/(2pi), 1/pi
var invAtan = [2]float32{0.15915494309, 0.31830988618}

// EquirectUV maps a normalized direction to equirectangular texture coordinates.
// v = 0 is the top row of the source image, looking along +Y.
func EquirectUV(dir mgl32.Vec3) mgl32.Vec2 {
	u := math32.Atan2(dir.Z(), dir.X())*-invAtan[0] + 0.5
	v := math32.Acos(math32.Max(-1, math32.Min(dir.Y(), 1))) * invAtan[1]
	return mgl32.Vec2{u, v}
}

func equirectShader(frag *librender.Fragment, out []float32) {
	dir := frag.Local
	if dir.Len() == 0 {
		writeColor(out, [4]float32{})
		return
	}
	writeColor(out, frag.Sample2D(0, EquirectUV(dir.Normalize()), 0))
}

// Projector renders an equirectangular image onto the faces of a cube texture
// and builds the cube's minification chain.
type Projector struct {
	Size int
}

func NewProjector(size int) *Projector {
	return &Projector{Size: size}
}

// Project returns a RGB cube texture with a full mip chain. The caller owns it.
func (p *Projector) Project(dev librender.Device, src *libio.FloatImage, proxy *librender.Mesh) (env *librender.Texture, err error) {
	if err := checkProxy(proxy); err != nil {
		return nil, err
	}
	if src == nil || src.Width <= 0 || src.Height <= 0 {
		return nil, fmt.Errorf("invalid equirectangular source")
	}

	var cleanup libutil.Cleanup
	defer cleanup.Release()

	srcTex, err := dev.CreateTexture2D(src.Width, src.Height, 1, librender.FormatRGB32F)
	if err != nil {
		return nil, err
	}
	defer srcTex.Release()

	if err := dev.Upload(srcTex, 0, 0, src.ToChannels(3).Pix); err != nil {
		return nil, fmt.Errorf("could not upload equirectangular source: %w", err)
	}

	env, err = dev.CreateCubeTexture(p.Size, librender.FullMipCount(p.Size, p.Size), librender.FormatRGB32F)
	if err != nil {
		return nil, err
	}
	cleanup.Add(env)

	rt, err := dev.CreateRenderTarget(p.Size, p.Size, librender.FormatRGB32F)
	if err != nil {
		return nil, err
	}
	defer rt.Release()

	dev.BindTexture(0, srcTex, librender.EquirectSampler)
	defer dev.BindTexture(0, nil, librender.Sampler{})

	if err := renderCube(dev, rt, env, 0, proxy, equirectShader); err != nil {
		return nil, err
	}

	if err := dev.GenerateMipmaps(env); err != nil {
		return nil, fmt.Errorf("could not generate environment mip chain: %w", err)
	}

	cleanup.Keep()
	return env, nil
}
