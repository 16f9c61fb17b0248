package libio_test

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"

	"softibl/libio"
	"softibl/librender"
)

func testChain() *libio.MipChain {
	values := randomFloats(4*2*3+2*1*3+1*1*3, -10, 10)
	chain := &libio.MipChain{Width: 4, Height: 2, Format: librender.FormatRGB32F}
	for l := 0; l < 3; l++ {
		w, h := librender.MipSize(4, l), librender.MipSize(2, l)
		lvl := librender.NewMipLevel(l, w, h, 3)
		n := copy(lvl.Pix, values)
		values = values[n:]
		chain.Levels = append(chain.Levels, lvl)
	}
	return chain
}

func TestMipChainRoundTrip(t *testing.T) {
	chain := testChain()

	size := libio.MipContainerSize(chain)
	if size != 198 {
		t.Errorf("container size should be 198 but was %d\n", size)
	}

	buf := new(bytes.Buffer)
	if err := libio.EncodeMipChain(buf, chain); err != nil {
		t.Fatal(err)
	}
	data := buf.Bytes()
	if len(data) != size {
		t.Errorf("encoded size should be %d but was %d\n", size, len(data))
	}
	if !bytes.Equal(data[:4], []byte{0x44, 0x54, 0x57, 0x59}) {
		t.Errorf("magic bytes incorrect: %v\n", data[:4])
	}

	decoded, err := libio.DecodeMipChain(bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	if decoded.Width != 4 || decoded.Height != 2 || decoded.Format != librender.FormatRGB32F || len(decoded.Levels) != 3 {
		t.Fatalf("decoded chain header incorrect: %dx%d %v %d levels\n", decoded.Width, decoded.Height, decoded.Format, len(decoded.Levels))
	}
	for l, lvl := range decoded.Levels {
		for i, v := range lvl.Pix {
			if v != chain.Levels[l].Pix[i] {
				t.Errorf("level %d float %d should be %.4f but was %.4f\n", l, i, chain.Levels[l].Pix[i], v)
			}
		}
	}
}

func TestEncodeMipChainInto(t *testing.T) {
	chain := testChain()

	if _, err := libio.EncodeMipChainInto(make([]byte, 100), chain); err == nil {
		t.Error("encoding into a short buffer should fail")
	}

	chain.Levels[1].Pix = chain.Levels[1].Pix[:3]
	if _, err := libio.EncodeMipChainInto(make([]byte, 198), chain); !errors.Is(err, libio.ErrMipDimensions) {
		t.Errorf("error should be %v but was %v\n", libio.ErrMipDimensions, err)
	}
}

func TestDecodeMipChainCorrupt(t *testing.T) {
	buf := new(bytes.Buffer)
	if err := libio.EncodeMipChain(buf, testChain()); err != nil {
		t.Fatal(err)
	}
	valid := buf.Bytes()

	corrupt := func(at int, value byte) []byte {
		data := bytes.Clone(valid)
		data[at] = value
		return data
	}

	cases := []struct {
		name string
		data []byte
		err  error
	}{
		{"magic", corrupt(0, 0), libio.ErrBadMagic},
		{"format", corrupt(12, 7), librender.ErrInvalidFormat},
		// width of level 1, stored after the 14 byte header and level 0
		{"level width", corrupt(124, 3), libio.ErrMipDimensions},
		// payload size of level 0
		{"payload size", corrupt(23, 95), libio.ErrMipDimensions},
		{"terminator", corrupt(len(valid)-4, 1), libio.ErrMipDimensions},
		{"truncated", valid[:len(valid)-13], libio.ErrTruncated},
		{"truncated payload", valid[:50], libio.ErrTruncated},
	}

	for _, c := range cases {
		_, err := libio.DecodeMipChain(bytes.NewReader(c.data))
		if !errors.Is(err, c.err) {
			t.Errorf("%s: error should be %v but was %v\n", c.name, c.err, err)
		}
	}
}

func TestDecodeMipChainHugeLevel(t *testing.T) {
	// a 3 GiB level is announced but only 8 payload bytes follow
	buf := new(bytes.Buffer)
	header := libio.MipHeader{
		Check:    libio.MagicNumberYWTD,
		Width:    16384,
		Height:   16384,
		Format:   int8(librender.FormatRGB32F),
		MipCount: 1,
	}
	level := libio.MipLevelHeader{Width: 16384, Height: 16384, PayloadSize: 16384 * 16384 * 3 * 4}
	if err := binary.Write(buf, binary.LittleEndian, &header); err != nil {
		t.Fatal(err)
	}
	if err := binary.Write(buf, binary.LittleEndian, &level); err != nil {
		t.Fatal(err)
	}
	buf.Write(make([]byte, 8))

	chain, err := libio.DecodeMipChain(buf)
	if !errors.Is(err, libio.ErrTruncated) || chain != nil {
		t.Errorf("error should be %v but was %v\n", libio.ErrTruncated, err)
	}
}
