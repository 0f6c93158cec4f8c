// SPDX-License-Identifier: EPL-2.0

// Package sample converts audio samples between numeric representations.
//
// Eleven representations are supported: the signed and unsigned integers
// of 8, 16, 32 and 64 bits, float32, float64 and decimal.Decimal from
// github.com/shopspring/decimal. Every pair has a conversion function,
// built once per process and looked up in constant time.
//
// # Scaling Rules
//
// Integers are treated as fixed-point fractions of their full range:
//
//   - Narrowing an integer divides by 2^(Δbits) and rounds to nearest,
//     widening multiplies by 2^(Δbits).
//   - Unsigned integers are re-centred by half their range, so uint8 128
//     is silence and maps to int8 0.
//   - Integer to float divides by 2^(bits-1), giving a value in [-1, 1).
//   - Float to integer multiplies by 2^(bits-1), rounds to nearest and
//     clamps to the destination range. NaN becomes silence.
//   - float32 to float64 is a plain cast. float64 to float32 also rounds to
//     seven significant decimal digits.
//
// Ties always round half away from zero: int16 128 becomes int8 1 and
// int16 -128 becomes int8 -1.
//
// # Usage
//
//	c := sample.NewConverter[int16, float32]()
//	f := c.Convert(16384) // 0.5
//
//	out, err := c.ConvertView(sample.Slice[int16](pcm))
//
// # Views
//
// View is the read-only sequence contract used across the module. Slice
// adapts a Go slice and Func adapts a computed source; Converter.Lazy
// converts on access without copying.
package sample
