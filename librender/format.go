package librender

import (
	"errors"
	"fmt"
)

var (
	ErrAllocation    = errors.New("texture allocation failed")
	ErrInvalidFormat = errors.New("invalid texture format")
	ErrReleased      = errors.New("resource already released")
)

// Format is a channel-float pixel format. The value equals the channel count,
// which is also the tag stored in the raw mip container.
type Format int8

const (
	FormatR32F = Format(iota + 1)
	FormatRG32F
	FormatRGB32F
	FormatRGBA32F
)

func (f Format) Valid() bool {
	return f >= FormatR32F && f <= FormatRGBA32F
}

func (f Format) Channels() int {
	if !f.Valid() {
		return 0
	}
	return int(f)
}

func (f Format) String() string {
	switch f {
	case FormatR32F:
		return "R32F"
	case FormatRG32F:
		return "RG32F"
	case FormatRGB32F:
		return "RGB32F"
	case FormatRGBA32F:
		return "RGBA32F"
	default:
		return fmt.Sprintf("Format(%d)", int8(f))
	}
}
