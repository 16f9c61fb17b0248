package librender

import (
	"fmt"

	"github.com/chewxy/math32"
)

// MipLevel is one level of a texture face. Pix is row-major with Channels floats per texel.
type MipLevel struct {
	Level         int
	Width, Height int
	Channels      int
	Pix           []float32
}

func NewMipLevel(level, width, height, channels int) *MipLevel {
	return &MipLevel{
		Level:    level,
		Width:    width,
		Height:   height,
		Channels: channels,
		Pix:      make([]float32, width*height*channels),
	}
}

// Index calculates the tuple index of texel (x, y).
func (lvl *MipLevel) Index(x, y int) int {
	return (x + y*lvl.Width) * lvl.Channels
}

func (lvl *MipLevel) Texel(x, y int) []float32 {
	i := lvl.Index(x, y)
	return lvl.Pix[i : i+lvl.Channels : i+lvl.Channels]
}

// Bytes returns the payload size in bytes.
func (lvl *MipLevel) Bytes() int {
	return len(lvl.Pix) * 4
}

// MipSize returns max(1, size >> level).
func MipSize(size, level int) int {
	size >>= level
	if size < 1 {
		return 1
	}
	return size
}

// FullMipCount returns the number of levels of a complete chain for the largest dimension.
func FullMipCount(width, height int) int {
	max := width
	if height > max {
		max = height
	}
	if max < 1 {
		return 0
	}
	return int(math32.Log2(float32(max))) + 1
}

type TextureDesc struct {
	Width, Height int
	Levels        int
	Format        Format
	Cube          bool
}

func (desc TextureDesc) Faces() int {
	if desc.Cube {
		return 6
	}
	return 1
}

func (desc TextureDesc) LevelSize(level int) (width, height int) {
	return MipSize(desc.Width, level), MipSize(desc.Height, level)
}

func (desc TextureDesc) validate(maxSize int) error {
	if !desc.Format.Valid() {
		return fmt.Errorf("%w: %v", ErrInvalidFormat, desc.Format)
	}
	if desc.Width <= 0 || desc.Height <= 0 || desc.Width > maxSize || desc.Height > maxSize {
		return fmt.Errorf("%w: size %dx%d outside [1, %d]", ErrAllocation, desc.Width, desc.Height, maxSize)
	}
	if desc.Cube && desc.Width != desc.Height {
		return fmt.Errorf("%w: cube faces must be square, got %dx%d", ErrAllocation, desc.Width, desc.Height)
	}
	full := FullMipCount(desc.Width, desc.Height)
	if desc.Levels < 1 || desc.Levels > full {
		return fmt.Errorf("%w: %d mip levels outside [1, %d]", ErrAllocation, desc.Levels, full)
	}
	return nil
}

// Texture is a 2D or cube texture with an explicit mip chain held in host memory.
type Texture struct {
	desc  TextureDesc
	faces [][]*MipLevel
}

func newTexture(desc TextureDesc) *Texture {
	channels := desc.Format.Channels()
	faces := make([][]*MipLevel, desc.Faces())
	for f := range faces {
		faces[f] = make([]*MipLevel, desc.Levels)
		for l := 0; l < desc.Levels; l++ {
			w, h := desc.LevelSize(l)
			faces[f][l] = NewMipLevel(l, w, h, channels)
		}
	}
	return &Texture{desc: desc, faces: faces}
}

func (tex *Texture) Desc() TextureDesc {
	return tex.desc
}

func (tex *Texture) Levels() int {
	return tex.desc.Levels
}

func (tex *Texture) Size() int {
	return tex.desc.Width
}

func (tex *Texture) Released() bool {
	return tex.faces == nil
}

// Level returns the surface of a face and level. Face is ignored for 2D textures.
func (tex *Texture) Level(face CubeFace, level int) *MipLevel {
	if tex.faces == nil {
		return nil
	}
	if !tex.desc.Cube {
		face = 0
	}
	if int(face) < 0 || int(face) >= len(tex.faces) || level < 0 || level >= tex.desc.Levels {
		return nil
	}
	return tex.faces[face][level]
}

// Face returns the full mip chain of a face.
func (tex *Texture) Face(face CubeFace) []*MipLevel {
	if tex.faces == nil {
		return nil
	}
	if !tex.desc.Cube {
		face = 0
	}
	return tex.faces[face]
}

func (tex *Texture) Release() {
	tex.faces = nil
}

type RenderTarget struct {
	format Format
	color  *MipLevel
}

func (rt *RenderTarget) Format() Format {
	return rt.format
}

func (rt *RenderTarget) Color() *MipLevel {
	return rt.color
}

func (rt *RenderTarget) Release() {
	rt.color = nil
}
