// SPDX-License-Identifier: EPL-2.0

// Package channel describes speaker positions and maps WAVE speaker masks
// to the order channels are interleaved on disk.
package channel

import (
	"fmt"
	"strconv"
	"strings"
)

// Position is a speaker position flag as used by WAVE_FORMAT_EXTENSIBLE.
// Mono is a standalone sentinel and never appears inside a mask.
type Position uint32

const (
	Mono               Position = 0x0
	FrontLeft          Position = 0x1
	FrontRight         Position = 0x2
	FrontCenter        Position = 0x4
	LowFrequency       Position = 0x8
	BackLeft           Position = 0x10
	BackRight          Position = 0x20
	FrontLeftOfCenter  Position = 0x40
	FrontRightOfCenter Position = 0x80
	BackCenter         Position = 0x100
	SideLeft           Position = 0x200
	SideRight          Position = 0x400
	TopCenter          Position = 0x800
	TopFrontLeft       Position = 0x1000
	TopFrontCenter     Position = 0x2000
	TopFrontRight      Position = 0x4000
	TopBackLeft        Position = 0x8000
	TopBackCenter      Position = 0x10000
	TopBackRight       Position = 0x20000
	Custom             Position = 0x80000000
)

var positions = []struct {
	pos   Position
	name  string
	short string
}{
	{FrontLeft, "FrontLeft", "fl"},
	{FrontRight, "FrontRight", "fr"},
	{FrontCenter, "FrontCenter", "fc"},
	{LowFrequency, "LowFrequency", "lfe"},
	{BackLeft, "BackLeft", "bl"},
	{BackRight, "BackRight", "br"},
	{FrontLeftOfCenter, "FrontLeftOfCenter", "flc"},
	{FrontRightOfCenter, "FrontRightOfCenter", "frc"},
	{BackCenter, "BackCenter", "bc"},
	{SideLeft, "SideLeft", "sl"},
	{SideRight, "SideRight", "sr"},
	{TopCenter, "TopCenter", "tc"},
	{TopFrontLeft, "TopFrontLeft", "tfl"},
	{TopFrontCenter, "TopFrontCenter", "tfc"},
	{TopFrontRight, "TopFrontRight", "tfr"},
	{TopBackLeft, "TopBackLeft", "tbl"},
	{TopBackCenter, "TopBackCenter", "tbc"},
	{TopBackRight, "TopBackRight", "tbr"},
	{Custom, "Custom", "custom"},
}

// Positions returns every mask position in ascending flag order. Mono is
// not included.
func Positions() []Position {
	out := make([]Position, len(positions))
	for i, p := range positions {
		out[i] = p.pos
	}
	return out
}

// Valid reports whether p is Mono or a single known flag.
func (p Position) Valid() bool {
	if p == Mono {
		return true
	}
	for _, e := range positions {
		if e.pos == p {
			return true
		}
	}
	return false
}

func (p Position) String() string {
	if p == Mono {
		return "Mono"
	}
	for _, e := range positions {
		if e.pos == p {
			return e.name
		}
	}
	return fmt.Sprintf("Position(%#x)", uint32(p))
}

// ParsePosition accepts a full name ("FrontLeft"), a short name ("fl") or
// a hexadecimal flag value ("0x2"). Matching is case-insensitive.
func ParsePosition(s string) (Position, error) {
	name := strings.TrimSpace(s)
	if strings.EqualFold(name, "mono") {
		return Mono, nil
	}
	for _, e := range positions {
		if strings.EqualFold(name, e.name) || strings.EqualFold(name, e.short) {
			return e.pos, nil
		}
	}
	if v, err := strconv.ParseUint(name, 0, 32); err == nil {
		if p := Position(v); p.Valid() {
			return p, nil
		}
	}
	return Mono, fmt.Errorf("%w: %q", ErrUnknownPosition, s)
}

// MarshalText implements encoding.TextMarshaler.
func (p Position) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Position) UnmarshalText(text []byte) error {
	v, err := ParsePosition(string(text))
	if err != nil {
		return err
	}
	*p = v
	return nil
}
