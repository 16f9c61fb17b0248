package librender

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/sync/errgroup"
)

var ErrNoRenderTarget = errors.New("no render target bound")

// SoftDevice is a Device that rasterizes on the CPU.
//
// Fragments of a draw are independent, so rows are shaded concurrently.
// Shaders must not share mutable state.
type SoftDevice struct {
	// MaxTextureSize limits the edge length of every allocation.
	MaxTextureSize int
	// Workers limits the number of concurrently shaded rows, 0 means GOMAXPROCS.
	Workers int

	target            *RenderTarget
	world, view, proj mgl32.Mat4
	units             [MaxTextureUnits]binding
}

func NewSoftDevice() *SoftDevice {
	return &SoftDevice{
		MaxTextureSize: 16384,
		world:          mgl32.Ident4(),
		view:           mgl32.Ident4(),
		proj:           mgl32.Ident4(),
	}
}

func (dev *SoftDevice) CreateRenderTarget(width, height int, format Format) (*RenderTarget, error) {
	desc := TextureDesc{Width: width, Height: height, Levels: 1, Format: format}
	if err := desc.validate(dev.MaxTextureSize); err != nil {
		return nil, fmt.Errorf("could not create render target: %w", err)
	}
	return &RenderTarget{
		format: format,
		color:  NewMipLevel(0, width, height, format.Channels()),
	}, nil
}

func (dev *SoftDevice) CreateTexture2D(width, height, levels int, format Format) (*Texture, error) {
	desc := TextureDesc{Width: width, Height: height, Levels: levels, Format: format}
	if err := desc.validate(dev.MaxTextureSize); err != nil {
		return nil, fmt.Errorf("could not create 2d texture: %w", err)
	}
	return newTexture(desc), nil
}

func (dev *SoftDevice) CreateCubeTexture(size, levels int, format Format) (*Texture, error) {
	desc := TextureDesc{Width: size, Height: size, Levels: levels, Format: format, Cube: true}
	if err := desc.validate(dev.MaxTextureSize); err != nil {
		return nil, fmt.Errorf("could not create cube texture: %w", err)
	}
	return newTexture(desc), nil
}

func (dev *SoftDevice) BindRenderTarget(rt *RenderTarget) {
	dev.target = rt
}

func (dev *SoftDevice) SetTransforms(world, view, projection mgl32.Mat4) {
	dev.world, dev.view, dev.proj = world, view, projection
}

func (dev *SoftDevice) BindTexture(unit int, tex *Texture, sampler Sampler) {
	dev.units[unit] = binding{tex: tex, sampler: sampler}
}

// Draw shades the pixels covered by the mesh. The mesh is treated as a closed
// proxy surface: each fragment receives the point where its view ray leaves the
// mesh's bounding sphere, which is exact for spheres and boxes seen from inside.
func (dev *SoftDevice) Draw(mesh *Mesh, shader FragmentShader) error {
	if mesh.Empty() {
		return fmt.Errorf("cannot draw empty mesh")
	}
	center, radius := mesh.BoundingSphere()

	inv := dev.proj.Mul4(dev.view).Mul4(dev.world).Inv()

	return dev.shade(func(frag *Fragment, ndcX, ndcY float32) bool {
		near := inv.Mul4x1(mgl32.Vec4{ndcX, ndcY, -1, 1})
		far := inv.Mul4x1(mgl32.Vec4{ndcX, ndcY, 1, 1})
		if near[3] == 0 || far[3] == 0 {
			return false
		}
		origin := near.Vec3().Mul(1 / near[3])
		dir := far.Vec3().Mul(1 / far[3]).Sub(origin)
		if dir.Len() == 0 {
			return false
		}
		dir = dir.Normalize()

		// far intersection of origin + t*dir with the bounding sphere
		oc := origin.Sub(center)
		b := oc.Dot(dir)
		c := oc.Dot(oc) - radius*radius
		disc := b*b - c
		if disc < 0 {
			return false
		}
		t := -b + math32.Sqrt(disc)
		if t < 0 {
			return false
		}
		frag.Local = origin.Add(dir.Mul(t))
		return true
	}, shader)
}

func (dev *SoftDevice) DrawFullscreen(shader FragmentShader) error {
	return dev.shade(func(frag *Fragment, ndcX, ndcY float32) bool {
		frag.Local = mgl32.Vec3{ndcX, ndcY, 0}
		return true
	}, shader)
}

// shade runs the shader for every render target pixel accepted by setup.
// Row 0 is the bottom row in normalized device coordinates.
func (dev *SoftDevice) shade(setup func(frag *Fragment, ndcX, ndcY float32) bool, shader FragmentShader) error {
	rt := dev.target
	if rt == nil || rt.color == nil {
		return ErrNoRenderTarget
	}
	color := rt.color
	w, h := color.Width, color.Height

	workers := dev.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	var group errgroup.Group
	group.SetLimit(workers)
	for y := 0; y < h; y++ {
		y := y
		group.Go(func() error {
			frag := Fragment{Y: y, units: &dev.units}
			v := (float32(y) + 0.5) / float32(h)
			for x := 0; x < w; x++ {
				u := (float32(x) + 0.5) / float32(w)
				frag.X = x
				frag.UV = mgl32.Vec2{u, v}
				if !setup(&frag, u*2-1, v*2-1) {
					continue
				}
				shader(&frag, color.Texel(x, y))
			}
			return nil
		})
	}
	return group.Wait()
}

func (dev *SoftDevice) CopyRenderTarget(rt *RenderTarget, dst *Texture, face CubeFace, level int) error {
	if rt == nil || rt.color == nil {
		return ErrNoRenderTarget
	}
	if dst.Released() {
		return ErrReleased
	}
	lvl := dst.Level(face, level)
	if lvl == nil {
		return fmt.Errorf("texture has no surface for face %v level %d", face, level)
	}
	if rt.format != dst.desc.Format {
		return fmt.Errorf("%w: cannot copy %v render target into %v texture", ErrInvalidFormat, rt.format, dst.desc.Format)
	}
	if rt.color.Width != lvl.Width || rt.color.Height != lvl.Height {
		return fmt.Errorf("render target is %dx%d but face %v level %d is %dx%d", rt.color.Width, rt.color.Height, face, level, lvl.Width, lvl.Height)
	}
	copy(lvl.Pix, rt.color.Pix)
	return nil
}

func (dev *SoftDevice) Upload(dst *Texture, face CubeFace, level int, pix []float32) error {
	if dst.Released() {
		return ErrReleased
	}
	lvl := dst.Level(face, level)
	if lvl == nil {
		return fmt.Errorf("texture has no surface for face %v level %d", face, level)
	}
	if len(pix) != len(lvl.Pix) {
		return fmt.Errorf("upload of %d floats into face %v level %d of %d floats", len(pix), face, level, len(lvl.Pix))
	}
	copy(lvl.Pix, pix)
	return nil
}

// GenerateMipmaps fills every level below 0 with a 2x2 box filter of the previous level.
func (dev *SoftDevice) GenerateMipmaps(tex *Texture) error {
	if tex.Released() {
		return ErrReleased
	}
	for _, levels := range tex.faces {
		for l := 1; l < len(levels); l++ {
			downsample(levels[l-1], levels[l])
		}
	}
	return nil
}

func downsample(src, dst *MipLevel) {
	for y := 0; y < dst.Height; y++ {
		y0 := y * 2
		y1 := y0 + 1
		if y1 >= src.Height {
			y1 = src.Height - 1
		}
		if y0 >= src.Height {
			y0 = src.Height - 1
		}
		for x := 0; x < dst.Width; x++ {
			x0 := x * 2
			x1 := x0 + 1
			if x1 >= src.Width {
				x1 = src.Width - 1
			}
			if x0 >= src.Width {
				x0 = src.Width - 1
			}
			out := dst.Texel(x, y)
			a, b, c, d := src.Texel(x0, y0), src.Texel(x1, y0), src.Texel(x0, y1), src.Texel(x1, y1)
			for ch := range out {
				out[ch] = (a[ch] + b[ch] + c[ch] + d[ch]) * 0.25
			}
		}
	}
}
