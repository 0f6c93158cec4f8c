// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"

	"github.com/ik5/wavchan/sample"
)

// lowPassAlpha is the coefficient of the one-pole filter applied before
// downsampling.
const lowPassAlpha = 0.5

// Resample converts v from srcRate to dstRate with Catmull-Rom
// interpolation. The result is lazy when upsampling. Downsampling first
// filters the whole input, so v is read once up front.
//
// The output has ceil(len * dstRate / srcRate) samples.
func Resample(v sample.View[float32], srcRate, dstRate int) (sample.View[float32], error) {
	if v == nil {
		return nil, sample.ErrInvalidArgument
	}
	if srcRate <= 0 || dstRate <= 0 {
		return nil, fmt.Errorf("%w: %d Hz to %d Hz", ErrInvalidRate, srcRate, dstRate)
	}
	if srcRate == dstRate {
		return v, nil
	}

	ratio := float64(srcRate) / float64(dstRate)
	if ratio > 1 {
		v = lowPass(v, lowPassAlpha)
	}

	n := v.Len()
	if n == 0 {
		return sample.Slice[float32]{}, nil
	}
	out := int((int64(n)*int64(dstRate) + int64(srcRate) - 1) / int64(srcRate))

	last := n - 1
	at := func(i int) float32 { return v.At(min(max(i, 0), last)) }

	return sample.Fixed(out, func(j int) float32 {
		pos := float64(j) * ratio
		i := int(pos)
		return catmullRom(at(i-1), at(i), at(i+1), at(i+2), float32(pos-float64(i)))
	}), nil
}

// catmullRom interpolates between y1 and y2 at x in [0, 1].
func catmullRom(y0, y1, y2, y3, x float32) float32 {
	a := -0.5*y0 + 1.5*y1 - 1.5*y2 + 0.5*y3
	b := y0 - 2.5*y1 + 2*y2 - 0.5*y3
	c := 0.5 * (y2 - y0)
	return ((a*x+b)*x+c)*x + y1
}

// lowPass runs y[n] = alpha*x[n] + (1-alpha)*y[n-1], seeded with the
// first sample.
func lowPass(v sample.View[float32], alpha float32) sample.Slice[float32] {
	out := make(sample.Slice[float32], v.Len())
	var y float32
	for i := range out {
		x := v.At(i)
		if i == 0 {
			y = x
		} else {
			y = alpha*x + (1-alpha)*y
		}
		out[i] = y
	}
	return out
}
