// SPDX-License-Identifier: EPL-2.0

package sample

import (
	"fmt"

	"github.com/go-audio/audio"
	"github.com/ik5/wavchan/utils"
)

// FromIntBuffer converts a go-audio integer buffer into samples of type T.
// The buffer keeps WAVE conventions: 8-bit data is unsigned and 24-bit data
// sits in the low three bytes of each int.
func FromIntBuffer[T Numeric](buf *audio.IntBuffer) ([]T, error) {
	if buf == nil {
		return nil, ErrInvalidArgument
	}

	switch buf.SourceBitDepth {
	case 8:
		return fromInts[uint8, T](buf.Data, 0), nil
	case 16:
		return fromInts[int16, T](buf.Data, 0), nil
	case 24:
		return fromInts[int32, T](buf.Data, 8), nil
	case 32:
		return fromInts[int32, T](buf.Data, 0), nil
	default:
		return nil, fmt.Errorf("%w: %d-bit int buffer", ErrUnsupportedSampleType, buf.SourceBitDepth)
	}
}

func fromInts[F integer, T Numeric](data []int, shift uint) []T {
	c := NewConverter[F, T]()
	out := make([]T, len(data))
	for i, v := range data {
		out[i] = c.fn(F(v << shift))
	}
	return out
}

// FromFloat32Buffer converts a go-audio float32 buffer into samples of type T.
func FromFloat32Buffer[T Numeric](buf *audio.Float32Buffer) ([]T, error) {
	if buf == nil {
		return nil, ErrInvalidArgument
	}
	return NewConverter[float32, T]().ConvertSlice(buf.Data), nil
}

// ToIntBuffer rescales samples into a go-audio integer buffer of the given
// bit depth, ready for go-audio/wav's encoder.
func ToIntBuffer[F Numeric](samples []F, format *audio.Format, bitDepth int) (*audio.IntBuffer, error) {
	var data []int
	switch bitDepth {
	case 8:
		data = toInts(NewConverter[F, uint8](), samples, 0)
	case 16:
		data = toInts(NewConverter[F, int16](), samples, 0)
	case 24:
		data = toInts(NewConverter[F, int32](), samples, 8)
	case 32:
		data = toInts(NewConverter[F, int32](), samples, 0)
	default:
		return nil, fmt.Errorf("%w: %d-bit int buffer", ErrUnsupportedSampleType, bitDepth)
	}

	return &audio.IntBuffer{
		Format:         format,
		Data:           data,
		SourceBitDepth: bitDepth,
	}, nil
}

func toInts[F Numeric, T integer](c *Converter[F, T], samples []F, shift uint) []int {
	out := make([]int, len(samples))
	for i, v := range samples {
		w := int64(c.fn(v))
		if shift > 0 {
			w = utils.Clamp(utils.RoundShift(w, shift), 32-shift)
		}
		out[i] = int(w)
	}
	return out
}
