// SPDX-License-Identifier: EPL-2.0

package utils

import (
	"math"
	"strconv"
)

// MinFixed is the most negative value of a signed bits-wide integer.
func MinFixed(bits uint) int64 {
	return int64(-1) << (bits - 1)
}

// MaxFixed is the most positive value of a signed bits-wide integer.
func MaxFixed(bits uint) int64 {
	return ^MinFixed(bits)
}

// Clamp limits v to the signed range of a bits-wide integer.
func Clamp(v int64, bits uint) int64 {
	if bits >= 64 {
		return v
	}
	if lo := MinFixed(bits); v < lo {
		return lo
	}
	if hi := MaxFixed(bits); v > hi {
		return hi
	}
	return v
}

// RoundShift divides v by 2^n, rounding half away from zero.
// Shifts of 64 or more always produce 0.
func RoundShift(v int64, n uint) int64 {
	switch {
	case n == 0:
		return v
	case n >= 64:
		return 0
	}

	neg := v < 0
	m := uint64(v)
	if neg {
		m = -m
	}

	// m <= 2^63 and half <= 2^62, so the sum cannot wrap.
	q := (m + uint64(1)<<(n-1)) >> n
	if neg {
		return -int64(q)
	}
	return int64(q)
}

// FloatToFixed scales x by 2^(bits-1), rounds half away from zero and
// clamps the result to a signed bits-wide integer. NaN maps to 0.
func FloatToFixed(x float64, bits uint) int64 {
	if math.IsNaN(x) {
		return 0
	}

	r := math.Round(math.Ldexp(x, int(bits)-1))
	switch {
	case r < math.Ldexp(-1, int(bits)-1):
		return MinFixed(bits)
	case r >= math.Ldexp(1, int(bits)-1):
		return MaxFixed(bits)
	}
	return int64(r)
}

// FixedToFloat maps a signed bits-wide integer onto [-1, 1).
func FixedToFloat(v int64, bits uint) float64 {
	return math.Ldexp(float64(v), 1-int(bits))
}

// RoundSignificant rounds x to the given number of significant decimal
// digits. NaN and infinities pass through.
func RoundSignificant(x float64, digits int) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) || x == 0 {
		return x
	}
	r, err := strconv.ParseFloat(strconv.FormatFloat(x, 'g', digits, 64), 64)
	if err != nil {
		return x
	}
	return r
}
