package libio

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"softibl/librender"
)

const MagicNumberYWTD = 0x59575444

// Largest dimension accepted when decoding, guards allocations on corrupt headers.
const maxMipDimension = 1 << 15

var (
	ErrBadMagic      = errors.New("bad magic number")
	ErrMipDimensions = errors.New("mip dimensions do not match the chain")
)

// MipHeader is written packed and little endian, 14 bytes.
type MipHeader struct {
	Check    uint32
	Width    uint32
	Height   uint32
	Format   int8
	MipCount uint8
}

// MipLevelHeader precedes every payload, 13 bytes.
type MipLevelHeader struct {
	Level       uint8
	Width       uint32
	Height      uint32
	PayloadSize uint32
}

const (
	mipHeaderSize      = 14
	mipLevelHeaderSize = 13
)

type MipChain struct {
	Width  int
	Height int
	Format librender.Format
	Levels []*librender.MipLevel
}

// NewMipChain collects the levels of one face of a texture.
func NewMipChain(tex *librender.Texture, face librender.CubeFace) *MipChain {
	desc := tex.Desc()
	return &MipChain{
		Width:  desc.Width,
		Height: desc.Height,
		Format: desc.Format,
		Levels: tex.Face(face),
	}
}

func (chain *MipChain) validate() error {
	if !chain.Format.Valid() {
		return fmt.Errorf("%w: %d", librender.ErrInvalidFormat, chain.Format)
	}
	if len(chain.Levels) == 0 || len(chain.Levels) > 255 {
		return fmt.Errorf("%w: %d levels", ErrMipDimensions, len(chain.Levels))
	}
	ch := chain.Format.Channels()
	for i, lvl := range chain.Levels {
		w, h := librender.MipSize(chain.Width, i), librender.MipSize(chain.Height, i)
		if lvl.Width != w || lvl.Height != h {
			return fmt.Errorf("%w: level %d is %dx%d, expected %dx%d", ErrMipDimensions, i, lvl.Width, lvl.Height, w, h)
		}
		if len(lvl.Pix) != w*h*ch {
			return fmt.Errorf("%w: level %d has %d floats, expected %d", ErrMipDimensions, i, len(lvl.Pix), w*h*ch)
		}
	}
	return nil
}

// MipContainerSize is the exact number of bytes EncodeMipChainInto writes.
func MipContainerSize(chain *MipChain) int {
	size := mipHeaderSize
	for _, lvl := range chain.Levels {
		size += mipLevelHeaderSize + 4*len(lvl.Pix)
	}
	return size + mipLevelHeaderSize
}

func EncodeMipChainInto(buf []byte, chain *MipChain) (int, error) {
	if err := chain.validate(); err != nil {
		return 0, err
	}

	bw := &BinaryWriter{Dst: &sliceWriter{buf: buf}, Order: binary.LittleEndian}

	header := MipHeader{
		Check:    MagicNumberYWTD,
		Width:    uint32(chain.Width),
		Height:   uint32(chain.Height),
		Format:   int8(chain.Format),
		MipCount: uint8(len(chain.Levels)),
	}
	if !bw.WriteRef(&header) {
		return bw.Written, fmt.Errorf("could not write mip header: %w", bw.Err)
	}

	for i, lvl := range chain.Levels {
		lh := MipLevelHeader{
			Level:       uint8(i),
			Width:       uint32(lvl.Width),
			Height:      uint32(lvl.Height),
			PayloadSize: uint32(4 * len(lvl.Pix)),
		}
		bw.WriteRef(&lh)
		bw.WriteRef(lvl.Pix)
		if bw.Err != nil {
			return bw.Written, fmt.Errorf("could not write mip level %d: %w", i, bw.Err)
		}
	}

	terminator := MipLevelHeader{Level: uint8(len(chain.Levels))}
	if !bw.WriteRef(&terminator) {
		return bw.Written, fmt.Errorf("could not write mip terminator: %w", bw.Err)
	}

	return bw.Written, nil
}

func EncodeMipChain(w io.Writer, chain *MipChain) error {
	buf := make([]byte, MipContainerSize(chain))
	n, err := EncodeMipChainInto(buf, chain)
	if err != nil {
		return err
	}
	_, err = w.Write(buf[:n])
	return err
}

func DecodeMipChain(r io.Reader) (chain *MipChain, err error) {
	br := &BinaryReader{
		Src:   r,
		Order: binary.LittleEndian,
	}

	defer func() {
		if br.Err != nil {
			if errors.Is(br.Err, io.EOF) || errors.Is(br.Err, io.ErrUnexpectedEOF) {
				err = fmt.Errorf("%v: %w", err, ErrTruncated)
			} else {
				err = fmt.Errorf("%v: %w", err, br.Err)
			}
			chain = nil
		}
	}()

	header := MipHeader{}
	if !br.ReadRef(&header) {
		return nil, fmt.Errorf("could not read mip header")
	}

	if header.Check != MagicNumberYWTD {
		return nil, fmt.Errorf("%w: %#08x", ErrBadMagic, header.Check)
	}

	format := librender.Format(header.Format)
	if !format.Valid() {
		return nil, fmt.Errorf("%w: %d", librender.ErrInvalidFormat, header.Format)
	}

	if header.Width == 0 || header.Height == 0 || header.Width > maxMipDimension || header.Height > maxMipDimension {
		return nil, fmt.Errorf("%w: base size %dx%d", ErrMipDimensions, header.Width, header.Height)
	}
	if header.MipCount == 0 {
		return nil, fmt.Errorf("%w: no mip levels", ErrMipDimensions)
	}

	chain = &MipChain{
		Width:  int(header.Width),
		Height: int(header.Height),
		Format: format,
		Levels: make([]*librender.MipLevel, header.MipCount),
	}

	ch := format.Channels()
	for i := range chain.Levels {
		lh := MipLevelHeader{}
		if !br.ReadRef(&lh) {
			return nil, fmt.Errorf("could not read mip level %d header at byte %d", i, br.Offset)
		}

		w, h := librender.MipSize(chain.Width, i), librender.MipSize(chain.Height, i)
		if int(lh.Level) != i || int(lh.Width) != w || int(lh.Height) != h {
			return nil, fmt.Errorf("%w: level %d header says level %d at %dx%d, expected %dx%d",
				ErrMipDimensions, i, lh.Level, lh.Width, lh.Height, w, h)
		}
		if int(lh.PayloadSize) != w*h*ch*4 {
			return nil, fmt.Errorf("%w: level %d payload is %d bytes, expected %d",
				ErrMipDimensions, i, lh.PayloadSize, w*h*ch*4)
		}

		payload, ok := br.ReadLimited(int(lh.PayloadSize))
		if !ok {
			return nil, fmt.Errorf("could not read mip level %d payload at byte %d", i, br.Offset)
		}
		lvl := librender.NewMipLevel(i, w, h, ch)
		if err := binary.Read(bytes.NewReader(payload), br.Order, lvl.Pix); err != nil {
			return nil, fmt.Errorf("could not decode mip level %d payload: %w", i, err)
		}
		chain.Levels[i] = lvl
	}

	terminator := MipLevelHeader{}
	if !br.ReadRef(&terminator) {
		return nil, fmt.Errorf("could not read mip terminator at byte %d", br.Offset)
	}
	if terminator.PayloadSize != 0 {
		return nil, fmt.Errorf("%w: missing terminator after %d levels", ErrMipDimensions, len(chain.Levels))
	}

	return chain, nil
}
