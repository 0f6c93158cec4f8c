// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"
	"slices"

	"github.com/ik5/wavchan/sample"
)

// Downmix averages chs into one lazy mono view. Channels of different
// lengths are cut to the shortest. A single channel is returned as is.
func Downmix(chs ...sample.View[float32]) (sample.View[float32], error) {
	if len(chs) == 0 {
		return nil, ErrNoChannels
	}

	frames := 0
	for i, c := range chs {
		if c == nil {
			return nil, fmt.Errorf("%w: channel %d is nil", sample.ErrInvalidArgument, i)
		}
		if n := c.Len(); i == 0 || n < frames {
			frames = n
		}
	}
	if len(chs) == 1 {
		return chs[0], nil
	}

	chs = slices.Clone(chs)

	switch len(chs) {
	case 2:
		l, r := chs[0], chs[1]
		return sample.Fixed(frames, func(i int) float32 {
			return (l.At(i) + r.At(i)) * 0.5
		}), nil
	default:
		inv := 1 / float32(len(chs))
		return sample.Fixed(frames, func(i int) float32 {
			var sum float32
			for _, c := range chs {
				sum += c.At(i)
			}
			return sum * inv
		}), nil
	}
}
