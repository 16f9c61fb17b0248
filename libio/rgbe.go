package libio

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/chewxy/math32"
)

// Largest width or height accepted when parsing a header, guards allocations on corrupt files.
const maxRgbeDimension = 1 << 16

var (
	ErrBadHeader     = errors.New("malformed rgbe header")
	ErrScanlineWidth = errors.New("rle scanline width mismatch")
	ErrBadRun        = errors.New("bad rle run")
	ErrTruncated     = errors.New("unexpected end of data")
)

type RgbeFormat int

const (
	RgbeFormatRGBE RgbeFormat = iota
	RgbeFormatXYZE
)

func (f RgbeFormat) String() string {
	if f == RgbeFormatXYZE {
		return "32-bit_rle_xyze"
	}
	return "32-bit_rle_rgbe"
}

type RgbeHeader struct {
	Format   RgbeFormat
	Exposure float32
	Gamma    float32
	Width    int
	Height   int
}

// RgbeImage holds three floats per pixel, row 0 is the top scanline.
type RgbeImage struct {
	RgbeHeader
	Pix []float32
}

func NewRgbeImage(width, height int, pix []float32) *RgbeImage {
	if pix == nil {
		pix = make([]float32, width*height*3)
	}
	return &RgbeImage{
		RgbeHeader: RgbeHeader{
			Exposure: 1,
			Gamma:    1,
			Width:    width,
			Height:   height,
		},
		Pix: pix,
	}
}

func (img *RgbeImage) ToFloatImage() *FloatImage {
	return NewFloatImage(img.Pix, 3, img.Width, img.Height)
}

func formatHeaderFloat(v float32) string {
	return strconv.FormatFloat(float64(v), 'g', -1, 32)
}

// EncodeRgbe writes the radiance header followed by flat, non rle scanlines.
func EncodeRgbe(w io.Writer, img *RgbeImage) error {
	if img.Width <= 0 || img.Height <= 0 {
		return fmt.Errorf("invalid rgbe dimensions %dx%d", img.Width, img.Height)
	}
	if len(img.Pix) != img.Width*img.Height*3 {
		return fmt.Errorf("rgbe pixel count %d does not match %dx%d", len(img.Pix)/3, img.Width, img.Height)
	}

	var sb strings.Builder
	sb.WriteString("#?RADIANCE\n")
	sb.WriteString("FORMAT=" + img.Format.String() + "\n")
	sb.WriteString("EXPOSURE=" + formatHeaderFloat(img.Exposure) + "\n")
	sb.WriteString("GAMMA=" + formatHeaderFloat(img.Gamma) + "\n")
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("-Y %d +X %d\n", img.Height, img.Width))

	if _, err := io.WriteString(w, sb.String()); err != nil {
		return fmt.Errorf("could not write rgbe header: %w", err)
	}

	if err := EncodeRgbePixels(w, img.Pix, false); err != nil {
		return fmt.Errorf("could not write rgbe pixels: %w", err)
	}
	return nil
}

func EncodeRgbePixels(w io.Writer, data []float32, hasAlpha bool) error {
	// 16 kib
	components := 4
	rsize := 16384
	if !hasAlpha {
		components = 3
		// 12 kib
		rsize = 12288
	}
	buf := make([]byte, 16384)

	if len(data)%components != 0 {
		return fmt.Errorf("source not a multiple of %d floats", components)
	}

	for i := 0; i < len(data); i += rsize {
		j := i + rsize
		if j > len(data) {
			j = len(data)
		}
		n := encodeRgbeChunk(components, data[i:j], buf)

		if _, err := w.Write(buf[:n]); err != nil {
			return err
		}
	}
	return nil
}

func encodeRgbeChunk(components int, data []float32, buf []byte) int {
	n := 0
	for i := 0; i+components <= len(data); i += components {
		encodeRgbePixel(data[i], data[i+1], data[i+2], buf[n:n+4])
		n += 4
	}
	return n
}

func encodeRgbePixel(r, g, b float32, dst []byte) {
	v := math32.Max(r, math32.Max(g, b))
	if !(v >= 1e-32) {
		dst[0], dst[1], dst[2], dst[3] = 0, 0, 0, 0
		return
	}

	frac, exp := math32.Frexp(v)
	scale := frac * 256 / v
	// rounding the largest channel can reach 256
	if math32.Floor(v*scale+0.5) > 255 {
		scale *= 0.5
		exp++
	}
	if exp+128 > 255 {
		dst[0], dst[1], dst[2], dst[3] = 255, 255, 255, 255
		return
	}

	dst[0] = quantize(r * scale)
	dst[1] = quantize(g * scale)
	dst[2] = quantize(b * scale)
	dst[3] = byte(exp + 128)
}

func quantize(v float32) byte {
	v = math32.Floor(v + 0.5)
	if !(v > 0) {
		return 0
	}
	if v > 255 {
		return 255
	}
	return byte(v)
}

func decodeRgbeChunk(components int, data []byte, buf []float32) (n int) {
	for i := 0; i+4 <= len(data); i += 4 {
		px := buf[n : n+components]
		e := data[i+3]
		if e == 0 {
			px[0], px[1], px[2] = 0, 0, 0
		} else {
			f := math32.Ldexp(1, int(e)-136)
			px[0] = float32(data[i]) * f
			px[1] = float32(data[i+1]) * f
			px[2] = float32(data[i+2]) * f
		}
		if components == 4 {
			px[3] = 1
		}
		n += components
	}
	return n
}

func nextLine(data []byte, off int) (line string, next int, ok bool) {
	end := bytes.IndexByte(data[off:], '\n')
	if end < 0 {
		return "", off, false
	}
	return string(data[off : off+end]), off + end + 1, true
}

// ParseRgbeHeader reads the header lines and the resolution line.
// It returns the offset of the first pixel byte.
func ParseRgbeHeader(data []byte) (RgbeHeader, int, error) {
	header := RgbeHeader{Exposure: 1, Gamma: 1}

	line, off, ok := nextLine(data, 0)
	if !ok {
		return header, 0, ErrTruncated
	}
	if !strings.HasPrefix(line, "#?") {
		return header, 0, fmt.Errorf("%w: missing magic", ErrBadHeader)
	}

	for {
		line, off, ok = nextLine(data, off)
		if !ok {
			return header, 0, ErrTruncated
		}
		if line == "" {
			break
		}

		key, value, found := strings.Cut(line, "=")
		switch {
		case strings.HasPrefix(line, "#") || !found:
			continue
		case key == "FORMAT":
			switch value {
			case RgbeFormatRGBE.String():
				header.Format = RgbeFormatRGBE
			case RgbeFormatXYZE.String():
				header.Format = RgbeFormatXYZE
			default:
				return header, 0, fmt.Errorf("%w: unsupported format %q", ErrBadHeader, value)
			}
		case key == "EXPOSURE":
			f, err := strconv.ParseFloat(strings.TrimSpace(value), 32)
			if err != nil {
				return header, 0, fmt.Errorf("%w: exposure: %v", ErrBadHeader, err)
			}
			header.Exposure = float32(f)
		case key == "GAMMA":
			f, err := strconv.ParseFloat(strings.TrimSpace(value), 32)
			if err != nil {
				return header, 0, fmt.Errorf("%w: gamma: %v", ErrBadHeader, err)
			}
			header.Gamma = float32(f)
		}
	}

	line, off, ok = nextLine(data, off)
	if !ok {
		return header, 0, ErrTruncated
	}
	fields := strings.Fields(line)
	if len(fields) != 4 || fields[0] != "-Y" || fields[2] != "+X" {
		return header, 0, fmt.Errorf("%w: unsupported orientation %q", ErrBadHeader, line)
	}
	h, errH := strconv.Atoi(fields[1])
	w, errW := strconv.Atoi(fields[3])
	if errH != nil || errW != nil || h <= 0 || w <= 0 || h > maxRgbeDimension || w > maxRgbeDimension {
		return header, 0, fmt.Errorf("%w: invalid resolution %q", ErrBadHeader, line)
	}
	header.Width = w
	header.Height = h

	return header, off, nil
}

func DecodeRgbe(r io.Reader) (*RgbeImage, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return DecodeRgbeBytes(data)
}

func DecodeRgbeBytes(data []byte) (*RgbeImage, error) {
	header, off, err := ParseRgbeHeader(data)
	if err != nil {
		return nil, err
	}

	if need := header.Height * minScanlineSize(header.Width); len(data)-off < need {
		return nil, fmt.Errorf("%w: %d pixel bytes for %d scanlines, need at least %d",
			ErrTruncated, len(data)-off, header.Height, need)
	}

	img := &RgbeImage{
		RgbeHeader: header,
		Pix:        make([]float32, header.Width*header.Height*3),
	}

	scan := make([]byte, header.Width*4)
	stride := header.Width * 3
	for y := 0; y < header.Height; y++ {
		n, err := readScanline(data[off:], header.Width, scan)
		if err != nil {
			return nil, fmt.Errorf("scanline %d: %w", y, err)
		}
		off += n
		decodeRgbeChunk(3, scan, img.Pix[y*stride:(y+1)*stride])
	}

	return img, nil
}

// rleWidth reports whether scanlines of this width may be run length encoded.
func rleWidth(width int) bool {
	return width >= 8 && width <= 0x7fff
}

// minScanlineSize is the smallest number of bytes a scanline can be encoded in.
// An rle plane needs one two byte run per 127 pixels.
func minScanlineSize(width int) int {
	if !rleWidth(width) {
		return width * 4
	}
	return 4 + 4*2*((width+126)/127)
}

// readScanline fills scan with width rgbe quads and returns the number of bytes consumed.
func readScanline(data []byte, width int, scan []byte) (int, error) {
	flat := !rleWidth(width) || len(data) < 4 ||
		data[0] != 2 || data[1] != 2 || data[2]&0x80 != 0
	if flat {
		if len(data) < width*4 {
			return 0, ErrTruncated
		}
		copy(scan, data[:width*4])
		return width * 4, nil
	}

	if int(data[2])<<8|int(data[3]) != width {
		return 0, ErrScanlineWidth
	}

	pos := 4
	for plane := 0; plane < 4; plane++ {
		ptr := 0
		for ptr < width {
			if pos >= len(data) {
				return 0, ErrTruncated
			}
			count := int(data[pos])
			pos++

			if count > 128 {
				count -= 128
				if count > width-ptr {
					return 0, fmt.Errorf("%w: run of %d exceeds %d remaining", ErrBadRun, count, width-ptr)
				}
				if pos >= len(data) {
					return 0, ErrTruncated
				}
				value := data[pos]
				pos++
				for i := 0; i < count; i++ {
					scan[(ptr+i)*4+plane] = value
				}
			} else {
				if count == 0 || count > width-ptr {
					return 0, fmt.Errorf("%w: literal of %d with %d remaining", ErrBadRun, count, width-ptr)
				}
				if pos+count > len(data) {
					return 0, ErrTruncated
				}
				for i := 0; i < count; i++ {
					scan[(ptr+i)*4+plane] = data[pos+i]
				}
				pos += count
			}
			ptr += count
		}
	}

	return pos, nil
}
