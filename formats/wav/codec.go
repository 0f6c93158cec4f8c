// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/ik5/wavchan/sample"
	"github.com/ik5/wavchan/utils"
)

// decodeFunc turns the first bytes of b into one sample.
type decodeFunc[T sample.Numeric] func(b []byte) T

// encodeFunc writes one sample into the first bytes of dst.
type encodeFunc[T sample.Numeric] func(dst []byte, v T)

func decodeWith[R, T sample.Numeric](read func([]byte) R) decodeFunc[T] {
	conv := sample.NewConverter[R, T]().Func()
	return func(b []byte) T { return conv(read(b)) }
}

func encodeWith[T, W sample.Numeric](write func([]byte, W)) encodeFunc[T] {
	conv := sample.NewConverter[T, W]().Func()
	return func(dst []byte, v T) { write(dst, conv(v)) }
}

// decoderFor returns the decoder for the on-disk layout described by
// bitDepth and format. Float data is only recognised at 32 and 64 bits;
// narrower float-tagged data decodes as integers.
func decoderFor[T sample.Numeric](bitDepth int, format Format) (decodeFunc[T], error) {
	isFloat := format == FloatingPoint

	switch bitDepth {
	case 8:
		return decodeWith[uint8, T](func(b []byte) uint8 { return b[0] }), nil
	case 16:
		return decodeWith[int16, T](func(b []byte) int16 {
			return int16(binary.LittleEndian.Uint16(b))
		}), nil
	case 24:
		// The three bytes fill bits 8-31, scaling the sample to 32-bit range.
		return decodeWith[int32, T](func(b []byte) int32 {
			return int32(uint32(b[0])<<8 | uint32(b[1])<<16 | uint32(b[2])<<24)
		}), nil
	case 32:
		if isFloat {
			return decodeWith[float32, T](func(b []byte) float32 {
				return math.Float32frombits(binary.LittleEndian.Uint32(b))
			}), nil
		}
		return decodeWith[int32, T](func(b []byte) int32 {
			return int32(binary.LittleEndian.Uint32(b))
		}), nil
	case 64:
		if isFloat {
			return decodeWith[float64, T](func(b []byte) float64 {
				return math.Float64frombits(binary.LittleEndian.Uint64(b))
			}), nil
		}
		return decodeWith[int64, T](func(b []byte) int64 {
			return int64(binary.LittleEndian.Uint64(b))
		}), nil
	default:
		return nil, fmt.Errorf("%w: unsupported bit depth %d", ErrUnrecognisedFormat, bitDepth)
	}
}

// encoderFor mirrors decoderFor.
func encoderFor[T sample.Numeric](bitDepth int, format Format) (encodeFunc[T], error) {
	isFloat := format == FloatingPoint

	switch bitDepth {
	case 8:
		return encodeWith[T](func(dst []byte, v uint8) { dst[0] = v }), nil
	case 16:
		return encodeWith[T](func(dst []byte, v int16) {
			binary.LittleEndian.PutUint16(dst, uint16(v))
		}), nil
	case 24:
		return encodeWith[T](func(dst []byte, v int32) {
			w := utils.Clamp(utils.RoundShift(int64(v), 8), 24)
			dst[0], dst[1], dst[2] = byte(w), byte(w>>8), byte(w>>16)
		}), nil
	case 32:
		if isFloat {
			return encodeWith[T](func(dst []byte, v float32) {
				binary.LittleEndian.PutUint32(dst, math.Float32bits(v))
			}), nil
		}
		return encodeWith[T](func(dst []byte, v int32) {
			binary.LittleEndian.PutUint32(dst, uint32(v))
		}), nil
	case 64:
		if isFloat {
			return encodeWith[T](func(dst []byte, v float64) {
				binary.LittleEndian.PutUint64(dst, math.Float64bits(v))
			}), nil
		}
		return encodeWith[T](func(dst []byte, v int64) {
			binary.LittleEndian.PutUint64(dst, uint64(v))
		}), nil
	default:
		return nil, fmt.Errorf("%w: unsupported bit depth %d", ErrInvalidArgument, bitDepth)
	}
}
