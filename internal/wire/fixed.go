// Package wire provides low-level encoding primitives for the fuzz-run wire format.
package wire

import "errors"

// ErrTruncated indicates the input data ended before a fixed-width field could
// be fully read.
var ErrTruncated = errors.New("autodrive: truncated fixed-width field")

// Size constants for fixed-width fields used by the fuzz-run codec.
const (
	Fixed16Size = 2
	Fixed32Size = 4
	Fixed64Size = 8
)

// AppendFixed16 appends a 16-bit value in little-endian format.
func AppendFixed16(buf []byte, v uint16) []byte {
	return append(buf, byte(v), byte(v>>8))
}

// AppendFixed32 appends a 32-bit value in little-endian format.
func AppendFixed32(buf []byte, v uint32) []byte {
	return append(buf,
		byte(v),
		byte(v>>8),
		byte(v>>16),
		byte(v>>24),
	)
}

// AppendFixed64 appends a 64-bit value in little-endian format.
func AppendFixed64(buf []byte, v uint64) []byte {
	return append(buf,
		byte(v),
		byte(v>>8),
		byte(v>>16),
		byte(v>>24),
		byte(v>>32),
		byte(v>>40),
		byte(v>>48),
		byte(v>>56),
	)
}

// DecodeFixed16 decodes a little-endian 16-bit value.
func DecodeFixed16(data []byte) (uint16, error) {
	if len(data) < Fixed16Size {
		return 0, ErrTruncated
	}
	return uint16(data[0]) | uint16(data[1])<<8, nil
}

// DecodeFixed32 decodes a little-endian 32-bit value.
func DecodeFixed32(data []byte) (uint32, error) {
	if len(data) < Fixed32Size {
		return 0, ErrTruncated
	}
	return uint32(data[0]) | uint32(data[1])<<8 | uint32(data[2])<<16 | uint32(data[3])<<24, nil
}

// DecodeFixed64 decodes a little-endian 64-bit value.
func DecodeFixed64(data []byte) (uint64, error) {
	if len(data) < Fixed64Size {
		return 0, ErrTruncated
	}
	v := uint64(data[0]) | uint64(data[1])<<8 | uint64(data[2])<<16 | uint64(data[3])<<24 |
		uint64(data[4])<<32 | uint64(data[5])<<40 | uint64(data[6])<<48 | uint64(data[7])<<56
	return v, nil
}

// PutFixed32 writes a 32-bit value to buf in little-endian format.
// The buffer must have at least Fixed32Size bytes available.
func PutFixed32(buf []byte, v uint32) {
	buf[0] = byte(v)
	buf[1] = byte(v >> 8)
	buf[2] = byte(v >> 16)
	buf[3] = byte(v >> 24)
}

// PutFixed64 writes a 64-bit value to buf in little-endian format.
// The buffer must have at least Fixed64Size bytes available.
func PutFixed64(buf []byte, v uint64) {
	buf[0] = byte(v)
	buf[1] = byte(v >> 8)
	buf[2] = byte(v >> 16)
	buf[3] = byte(v >> 24)
	buf[4] = byte(v >> 32)
	buf[5] = byte(v >> 40)
	buf[6] = byte(v >> 48)
	buf[7] = byte(v >> 56)
}

// VariantWidth returns the narrowest of {1, 2, 4, 8} bytes the source
// implementation's nested range match would pick for a union with
// fieldCount candidate fields: the first arm whose bound is at least
// fieldCount fires, and the bounds are the integer maxima (255, 65535,
// 4294967295), not the nearest power of two. A union of exactly 256
// fields therefore gets a 2-byte variant, not 1, even though a single
// byte could represent every index 0..255 — that quirk is load-bearing:
// the decoder must reproduce it exactly or the buffer misaligns.
func VariantWidth(fieldCount int) int {
	switch {
	case fieldCount <= 0xFF:
		return 1
	case fieldCount <= 0xFFFF:
		return 2
	case fieldCount <= 0xFFFFFFFF:
		return 4
	default:
		return 8
	}
}

// AppendVariant appends a union variant index using the given width (1, 2, 4 or 8).
func AppendVariant(buf []byte, variant uint64, width int) []byte {
	switch width {
	case 1:
		return append(buf, byte(variant))
	case 2:
		return AppendFixed16(buf, uint16(variant))
	case 4:
		return AppendFixed32(buf, uint32(variant))
	default:
		return AppendFixed64(buf, variant)
	}
}

// DecodeVariant decodes a union variant index of the given width.
func DecodeVariant(data []byte, width int) (uint64, error) {
	switch width {
	case 1:
		if len(data) < 1 {
			return 0, ErrTruncated
		}
		return uint64(data[0]), nil
	case 2:
		v, err := DecodeFixed16(data)
		return uint64(v), err
	case 4:
		v, err := DecodeFixed32(data)
		return uint64(v), err
	default:
		return DecodeFixed64(data)
	}
}
