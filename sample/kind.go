// SPDX-License-Identifier: EPL-2.0

package sample

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Numeric is the closed set of sample representations supported by the
// conversion engine.
type Numeric interface {
	int8 | uint8 | int16 | uint16 | int32 | uint32 | int64 | uint64 |
		float32 | float64 | decimal.Decimal
}

// Kind tags one of the Numeric types at runtime.
type Kind uint8

const (
	Int8 Kind = iota
	Uint8
	Int16
	Uint16
	Int32
	Uint32
	Int64
	Uint64
	Float32
	Float64
	Decimal

	kindCount
)

var kindNames = [kindCount]string{
	Int8:    "int8",
	Uint8:   "uint8",
	Int16:   "int16",
	Uint16:  "uint16",
	Int32:   "int32",
	Uint32:  "uint32",
	Int64:   "int64",
	Uint64:  "uint64",
	Float32: "float32",
	Float64: "float64",
	Decimal: "decimal",
}

// Kinds returns every supported kind in declaration order.
func Kinds() []Kind {
	out := make([]Kind, 0, kindCount)
	for k := range kindCount {
		out = append(out, k)
	}
	return out
}

// Valid reports whether k is one of the supported kinds.
func (k Kind) Valid() bool { return k < kindCount }

func (k Kind) String() string {
	if !k.Valid() {
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
	return kindNames[k]
}

// Bits is the natural container width of the kind. Decimal reports 0.
func (k Kind) Bits() int {
	switch k {
	case Int8, Uint8:
		return 8
	case Int16, Uint16:
		return 16
	case Int32, Uint32, Float32:
		return 32
	case Int64, Uint64, Float64:
		return 64
	default:
		return 0
	}
}

// Signed reports whether the kind can hold negative values.
func (k Kind) Signed() bool {
	switch k {
	case Uint8, Uint16, Uint32, Uint64:
		return false
	default:
		return k.Valid()
	}
}

// Float reports whether the kind is a non fixed-point representation.
func (k Kind) Float() bool {
	return k == Float32 || k == Float64 || k == Decimal
}

// ParseKind maps a kind name ("int16", "float32", ...) back to its Kind.
// The aliases "byte" and "sbyte" are accepted for uint8 and int8.
func ParseKind(s string) (Kind, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	switch name {
	case "byte":
		return Uint8, nil
	case "sbyte":
		return Int8, nil
	}
	for k, n := range kindNames {
		if n == name {
			return Kind(k), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnsupportedSampleType, s)
}

// KindOf returns the Kind of the type parameter.
func KindOf[T Numeric]() Kind {
	var zero T
	switch any(zero).(type) {
	case int8:
		return Int8
	case uint8:
		return Uint8
	case int16:
		return Int16
	case uint16:
		return Uint16
	case int32:
		return Int32
	case uint32:
		return Uint32
	case int64:
		return Int64
	case uint64:
		return Uint64
	case float32:
		return Float32
	case float64:
		return Float64
	default:
		return Decimal
	}
}
