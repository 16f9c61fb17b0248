package librender

import "github.com/go-gl/mathgl/mgl32"

// Device is the rendering interface consumed by the precompute stages.
// Resource creation returns owned results; the caller releases them.
type Device interface {
	CreateRenderTarget(width, height int, format Format) (*RenderTarget, error)
	CreateTexture2D(width, height, levels int, format Format) (*Texture, error)
	CreateCubeTexture(size, levels int, format Format) (*Texture, error)

	BindRenderTarget(rt *RenderTarget)
	SetTransforms(world, view, projection mgl32.Mat4)
	BindTexture(unit int, tex *Texture, sampler Sampler)

	// Draw shades every render target pixel covered by the mesh.
	Draw(mesh *Mesh, shader FragmentShader) error
	// DrawFullscreen shades every render target pixel; no transforms are applied.
	DrawFullscreen(shader FragmentShader) error

	CopyRenderTarget(rt *RenderTarget, dst *Texture, face CubeFace, level int) error
	Upload(dst *Texture, face CubeFace, level int, pix []float32) error
	GenerateMipmaps(tex *Texture) error
}

// FragmentShader writes the color of one fragment into out, which has one
// float per render target channel.
type FragmentShader func(frag *Fragment, out []float32)

const MaxTextureUnits = 4

type Filter int

const (
	FilterLinear = Filter(iota)
	FilterNearest
)

type Wrap int

const (
	WrapClamp = Wrap(iota)
	WrapRepeat
)

type Sampler struct {
	Filter Filter
	// MipFilter enables linear filtering between mip levels.
	MipFilter    bool
	WrapS, WrapT Wrap
}

var (
	LinearClamp       = Sampler{Filter: FilterLinear}
	TrilinearClamp    = Sampler{Filter: FilterLinear, MipFilter: true}
	EquirectSampler   = Sampler{Filter: FilterLinear, WrapS: WrapRepeat, WrapT: WrapClamp}
	NearestClampNoMip = Sampler{Filter: FilterNearest}
)

type binding struct {
	tex     *Texture
	sampler Sampler
}

// Fragment carries the inputs of one fragment shader invocation.
type Fragment struct {
	X, Y int
	// Local is the interpolated local-space position, for Draw.
	Local mgl32.Vec3
	// UV is the normalized render target coordinate, for DrawFullscreen.
	UV    mgl32.Vec2
	units *[MaxTextureUnits]binding
}

// SampleCube samples the cube texture bound to unit at the given level of detail.
func (frag *Fragment) SampleCube(unit int, dir mgl32.Vec3, lod float32) [4]float32 {
	b := frag.units[unit]
	if b.tex == nil || b.tex.Released() || !b.tex.desc.Cube {
		return [4]float32{0, 0, 0, 1}
	}
	return SampleCube(b.tex, b.sampler, dir, lod)
}

// Sample2D samples the 2D texture bound to unit at the given level of detail.
func (frag *Fragment) Sample2D(unit int, uv mgl32.Vec2, lod float32) [4]float32 {
	b := frag.units[unit]
	if b.tex == nil || b.tex.Released() || b.tex.desc.Cube {
		return [4]float32{0, 0, 0, 1}
	}
	return Sample2D(b.tex, b.sampler, uv, lod)
}
