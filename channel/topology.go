// SPDX-License-Identifier: EPL-2.0

package channel

import "strings"

// eightChannelMask is the mask used for 8-channel files that carry none:
// the 5.1 speakers plus BackCenter and SideLeft.
const eightChannelMask = 0x33F

// Resolve returns the positions set in mask, in ascending flag order, which
// is also the order their samples are interleaved in a frame. A zero mask
// resolves to a single Mono channel.
func Resolve(mask uint32) []Position {
	if mask == 0 {
		return []Position{Mono}
	}
	var out []Position
	for _, e := range positions {
		if mask&uint32(e.pos) != 0 {
			out = append(out, e.pos)
		}
	}
	return out
}

// IndexOf returns the interleave index of p within list, or -1 when p is
// absent. The index is p's rank among the list's positions in ascending
// flag order, so list does not need to be sorted.
func IndexOf(p Position, list []Position) int {
	rank, found := 0, false
	for _, q := range list {
		switch {
		case q == p:
			found = true
		case q < p:
			rank++
		}
	}
	if !found {
		return -1
	}
	return rank
}

// Contains reports whether p is one of list's positions.
func Contains(p Position, list []Position) bool {
	return IndexOf(p, list) >= 0
}

// InferMask synthesizes a speaker mask for files that do not declare one.
// One channel maps to Mono (mask 0), eight channels to the fixed 0x33F
// layout and any other count to the first n positions.
func InferMask(n int) uint32 {
	switch {
	case n <= 1:
		return 0
	case n == 8:
		return eightChannelMask
	}
	var mask uint32
	for i, e := range positions {
		if i == n {
			break
		}
		mask |= uint32(e.pos)
	}
	return mask
}

// MaskOf ORs positions into a speaker mask. Mono contributes nothing.
func MaskOf(ps ...Position) uint32 {
	var mask uint32
	for _, p := range ps {
		mask |= uint32(p)
	}
	return mask
}

// FormatMask renders a mask as "FrontLeft|FrontRight". A zero mask renders
// as "Mono".
func FormatMask(mask uint32) string {
	names := make([]string, 0, 4)
	for _, p := range Resolve(mask) {
		names = append(names, p.String())
	}
	return strings.Join(names, "|")
}
