// SPDX-License-Identifier: EPL-2.0

package sample

import (
	"math"
	"math/big"
	"sync"

	"github.com/ik5/wavchan/utils"
	"github.com/shopspring/decimal"
)

// float32Digits is the number of significant decimal digits kept when a
// wider value is narrowed to float32.
const float32Digits = 7

type integer interface {
	int8 | uint8 | int16 | uint16 | int32 | uint32 | int64 | uint64
}

// table holds one func(F) T per (from, to) pair, typed as any.
type table [kindCount][kindCount]any

var conversions = sync.OnceValue(buildTable)

func buildTable() *table {
	t := new(table)

	intRow[int8](t)
	intRow[uint8](t)
	intRow[int16](t)
	intRow[uint16](t)
	intRow[int32](t)
	intRow[uint32](t)
	intRow[int64](t)
	intRow[uint64](t)
	floatRow[float32](t)
	floatRow[float64](t)
	decimalRow(t)

	return t
}

func put[F, T Numeric](t *table, fn func(F) T) {
	t[KindOf[F]()][KindOf[T]()] = fn
}

// Converter rescales samples of type F into type T. The zero value is not
// usable; build one with NewConverter.
type Converter[F, T Numeric] struct {
	fn func(F) T
}

// NewConverter returns the converter for F to T. The underlying 11x11
// table is built once per process and shared by every converter.
func NewConverter[F, T Numeric]() *Converter[F, T] {
	fn := conversions()[KindOf[F]()][KindOf[T]()].(func(F) T)
	return &Converter[F, T]{fn: fn}
}

// Convert rescales a single sample.
func (c *Converter[F, T]) Convert(v F) T { return c.fn(v) }

// Func exposes the conversion as a plain function.
func (c *Converter[F, T]) Func() func(F) T { return c.fn }

// ConvertView rescales every sample of v into a new slice.
func (c *Converter[F, T]) ConvertView(v View[F]) ([]T, error) {
	if v == nil {
		return nil, ErrInvalidArgument
	}
	out := make([]T, v.Len())
	for i := range out {
		out[i] = c.fn(v.At(i))
	}
	return out, nil
}

// ConvertSlice rescales s into a new slice. A nil slice yields nil.
func (c *Converter[F, T]) ConvertSlice(s []F) []T {
	if s == nil {
		return nil
	}
	out := make([]T, len(s))
	for i, v := range s {
		out[i] = c.fn(v)
	}
	return out
}

// Lazy returns a view that converts on access.
func (c *Converter[F, T]) Lazy(v View[F]) (*Func[T], error) {
	if v == nil {
		return nil, ErrInvalidArgument
	}
	return &Func[T]{
		count: v.Len,
		get:   func(i int) T { return c.fn(v.At(i)) },
	}, nil
}

// Convert rescales a single sample from F to T.
func Convert[F, T Numeric](v F) T {
	return NewConverter[F, T]().fn(v)
}

// Lookup returns the conversion function for a pair of kinds. The result
// is a func(F) T for the Go types matching from and to.
func Lookup(from, to Kind) (any, error) {
	if !from.Valid() || !to.Valid() {
		return nil, ErrUnsupportedSampleType
	}
	return conversions()[from][to], nil
}

func intRow[F integer](t *table) {
	k := KindOf[F]()
	bits := uint(k.Bits())
	centre := centreFunc[F](bits, k.Signed())

	fixedTargets(t, func(v F, to uint) int64 {
		return rescale(centre(v), bits, to)
	})

	pow5 := decimalPow(5, bits-1)
	put(t, func(v F) float32 { return float32(utils.FixedToFloat(centre(v), bits)) })
	put(t, func(v F) float64 { return utils.FixedToFloat(centre(v), bits) })
	put(t, func(v F) decimal.Decimal {
		// c / 2^(n) == c * 5^n / 10^n, which keeps the result exact.
		return decimal.NewFromInt(centre(v)).Mul(pow5).Shift(-int32(bits - 1))
	})
}

func floatRow[F float32 | float64](t *table) {
	fixedTargets(t, func(v F, to uint) int64 {
		return utils.FloatToFixed(float64(v), to)
	})

	narrow := KindOf[F]() == Float64
	put(t, func(v F) float32 {
		if narrow {
			return float32(utils.RoundSignificant(float64(v), float32Digits))
		}
		return float32(v)
	})
	put(t, func(v F) float64 { return float64(v) })
	put(t, func(v F) decimal.Decimal {
		if narrow {
			return floatToDecimal(float64(v), decimal.NewFromFloat)
		}
		return floatToDecimal(float32(v), decimal.NewFromFloat32)
	})
}

func decimalRow(t *table) {
	var scales [65]decimal.Decimal
	for _, bits := range []uint{8, 16, 32, 64} {
		scales[bits] = decimalPow(2, bits-1)
	}

	fixedTargets(t, func(d decimal.Decimal, to uint) int64 {
		r := d.Mul(scales[to]).Round(0)
		if lo := decimal.NewFromInt(utils.MinFixed(to)); r.LessThan(lo) {
			return utils.MinFixed(to)
		}
		if hi := decimal.NewFromInt(utils.MaxFixed(to)); r.GreaterThan(hi) {
			return utils.MaxFixed(to)
		}
		return r.IntPart()
	})

	put(t, func(d decimal.Decimal) float32 {
		return float32(utils.RoundSignificant(d.InexactFloat64(), float32Digits))
	})
	put(t, func(d decimal.Decimal) float64 { return d.InexactFloat64() })
	put(t, func(d decimal.Decimal) decimal.Decimal { return d })
}

// fixedTargets fills every integer column of F's row. toFixed returns the
// sample as a signed value of the requested width.
func fixedTargets[F Numeric](t *table, toFixed func(v F, bits uint) int64) {
	fixedCell[F, int8](t, toFixed)
	fixedCell[F, uint8](t, toFixed)
	fixedCell[F, int16](t, toFixed)
	fixedCell[F, uint16](t, toFixed)
	fixedCell[F, int32](t, toFixed)
	fixedCell[F, uint32](t, toFixed)
	fixedCell[F, int64](t, toFixed)
	fixedCell[F, uint64](t, toFixed)
}

func fixedCell[F Numeric, T integer](t *table, toFixed func(F, uint) int64) {
	k := KindOf[T]()
	bits := uint(k.Bits())
	out := uncentreFunc[T](bits, k.Signed())
	put(t, func(v F) T { return out(toFixed(v, bits)) })
}

// centreFunc maps a sample onto the signed range of its width. Unsigned
// samples are shifted down by half their range.
func centreFunc[F integer](bits uint, signed bool) func(F) int64 {
	if signed {
		return func(v F) int64 { return int64(v) }
	}
	half := uint64(1) << (bits - 1)
	return func(v F) int64 { return int64(uint64(v) - half) }
}

func uncentreFunc[T integer](bits uint, signed bool) func(int64) T {
	if signed {
		return func(v int64) T { return T(v) }
	}
	half := uint64(1) << (bits - 1)
	return func(v int64) T { return T(uint64(v) + half) }
}

// rescale moves a signed from-bit value to a signed to-bit value.
func rescale(v int64, from, to uint) int64 {
	switch {
	case to > from:
		return v << (to - from)
	case to < from:
		return utils.Clamp(utils.RoundShift(v, from-to), to)
	default:
		return v
	}
}

func decimalPow(base int64, exp uint) decimal.Decimal {
	p := new(big.Int).Exp(big.NewInt(base), big.NewInt(int64(exp)), nil)
	return decimal.NewFromBigInt(p, 0)
}

// floatToDecimal maps NaN to zero and infinities to full scale.
func floatToDecimal[F float32 | float64](v F, conv func(F) decimal.Decimal) decimal.Decimal {
	f := float64(v)
	switch {
	case math.IsNaN(f):
		return decimal.Zero
	case math.IsInf(f, 1):
		return decimal.NewFromInt(1)
	case math.IsInf(f, -1):
		return decimal.NewFromInt(-1)
	}
	return conv(v)
}
