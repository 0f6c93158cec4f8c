// SPDX-License-Identifier: EPL-2.0

package sample

import (
	"iter"
	"slices"
)

// View is a countable, indexable sequence of samples. It does not own
// storage; implementations sit on top of slices, lists or computed sources.
type View[T Numeric] interface {
	// Len is the number of samples in the view.
	Len() int
	// At returns the sample at index i. Indexes outside [0, Len()) panic,
	// exactly like a slice index would.
	At(i int) T
}

// Mutable is a View that can also be modified in place.
type Mutable[T Numeric] interface {
	View[T]
	Set(i int, v T)
	Append(v T)
	RemoveAt(i int)
}

// Slice is a slice-backed view. Use *Slice when mutation is needed.
type Slice[T Numeric] []T

func (s Slice[T]) Len() int   { return len(s) }
func (s Slice[T]) At(i int) T { return s[i] }

func (s *Slice[T]) Set(i int, v T) { (*s)[i] = v }
func (s *Slice[T]) Append(v T)     { *s = append(*s, v) }
func (s *Slice[T]) RemoveAt(i int) { *s = slices.Delete(*s, i, i+1) }

// Func is a read-only view backed by a getter, for computed sources.
type Func[T Numeric] struct {
	count func() int
	get   func(int) T
}

// NewFunc builds a view from a count and a getter. Both must be non-nil.
func NewFunc[T Numeric](count func() int, get func(i int) T) (*Func[T], error) {
	if count == nil || get == nil {
		return nil, ErrInvalidArgument
	}
	return &Func[T]{count: count, get: get}, nil
}

// Fixed builds a computed view of a known length.
func Fixed[T Numeric](n int, get func(i int) T) *Func[T] {
	return &Func[T]{count: func() int { return n }, get: get}
}

func (f *Func[T]) Len() int   { return f.count() }
func (f *Func[T]) At(i int) T { return f.get(i) }

// Values returns a lazy iterator over v in index order. Every call
// returns a fresh iterator.
func Values[T Numeric](v View[T]) iter.Seq[T] {
	return func(yield func(T) bool) {
		if v == nil {
			return
		}
		for i := range v.Len() {
			if !yield(v.At(i)) {
				return
			}
		}
	}
}

// Collect copies a view into a new slice.
func Collect[T Numeric](v View[T]) []T {
	if v == nil {
		return nil
	}
	if s, ok := v.(Slice[T]); ok {
		return slices.Clone([]T(s))
	}
	out := make([]T, v.Len())
	for i := range out {
		out[i] = v.At(i)
	}
	return out
}
