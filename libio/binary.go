package libio

import (
	"encoding/binary"
	"errors"
	"io"
)

// BinaryReader decodes fixed size values. It keeps the first error it
// encounters and every later read is a no-op.
type BinaryReader struct {
	Order binary.ByteOrder
	Src   io.Reader
	// Offset counts the bytes of all successful reads.
	Offset int
	Err    error
}

func (br *BinaryReader) ReadRef(data any) (ok bool) {
	if br.Err != nil {
		return false
	}
	size := binary.Size(data)
	err := binary.Read(br.Src, br.Order, data)
	if errors.Is(err, io.EOF) && size > 0 {
		err = io.ErrUnexpectedEOF
	}
	br.Err = err
	if err == nil {
		br.Offset += size
	}
	return err == nil
}

// ReadLimited reads exactly n bytes. The result grows with the data that
// arrives, so a corrupt size cannot force a large allocation.
func (br *BinaryReader) ReadLimited(n int) (data []byte, ok bool) {
	if br.Err != nil {
		return nil, false
	}
	data, err := io.ReadAll(io.LimitReader(br.Src, int64(n)))
	if err == nil && len(data) < n {
		err = io.ErrUnexpectedEOF
	}
	br.Err = err
	if err != nil {
		return nil, false
	}
	br.Offset += n
	return data, true
}

// BinaryWriter is the writing counterpart of BinaryReader.
type BinaryWriter struct {
	Order   binary.ByteOrder
	Dst     io.Writer
	Written int
	Err     error
}

func (bw *BinaryWriter) WriteRef(data any) (ok bool) {
	if bw.Err != nil {
		return false
	}
	err := binary.Write(bw.Dst, bw.Order, data)
	bw.Err = err
	if err == nil {
		bw.Written += binary.Size(data)
	}
	return err == nil
}

var errShortBuffer = errors.New("destination buffer too small")

// sliceWriter writes into a fixed, caller provided buffer.
type sliceWriter struct {
	buf []byte
	n   int
}

func (sw *sliceWriter) Write(p []byte) (int, error) {
	if len(p) > len(sw.buf)-sw.n {
		return 0, errShortBuffer
	}
	copy(sw.buf[sw.n:], p)
	sw.n += len(p)
	return len(p), nil
}
