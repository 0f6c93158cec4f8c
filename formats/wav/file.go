// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"errors"
	"fmt"
	"io"
	"iter"
	"os"
	"runtime"

	"github.com/ik5/wavchan/channel"
	"github.com/ik5/wavchan/sample"
)

// File opens every channel of a WAVE source, one ChannelReader per
// position in the resolved topology.
type File[T sample.Numeric] struct {
	meta    Metadata
	order   []channel.Position
	readers map[channel.Position]*ChannelReader[T]
	closer  io.Closer
	cleanup runtime.Cleanup
	closed  bool
}

// Open opens the WAVE file at path. Each channel gets its own file handle.
func Open[T sample.Numeric](path string, opts ...Option) (*File[T], error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w", err)
	}
	st, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("%w", err)
	}
	size := st.Size()

	meta, err := ReadMetadata(f, size)
	if err != nil {
		f.Close()
		return nil, err
	}

	wf := &File[T]{
		meta:    meta,
		order:   meta.Positions(),
		readers: make(map[channel.Position]*ChannelReader[T]),
	}

	// The first reader takes over the handle used for the header.
	for i, pos := range wf.order {
		src := f
		if i > 0 {
			if src, err = os.Open(path); err != nil {
				wf.Close()
				return nil, fmt.Errorf("%w", err)
			}
		}

		cr, err := newChannelReader[T](src, src, size, &meta, pos, opts)
		if err != nil {
			src.Close()
			wf.Close()
			return nil, err
		}
		wf.readers[pos] = cr
	}
	return wf, nil
}

// NewFile opens every channel of r, a source of size bytes. The readers
// share r; if r is an io.Closer it is closed once by File.Close, or
// immediately if construction fails.
func NewFile[T sample.Numeric](r io.ReaderAt, size int64, opts ...Option) (*File[T], error) {
	if r == nil {
		return nil, ErrInvalidArgument
	}
	closer, _ := r.(io.Closer)

	wf, err := newFile[T](r, size, opts)
	if err != nil {
		if closer != nil {
			closer.Close()
		}
		return nil, err
	}
	if closer != nil {
		wf.closer = closer
		wf.cleanup = runtime.AddCleanup(wf, func(c io.Closer) { c.Close() }, closer)
	}
	return wf, nil
}

func newFile[T sample.Numeric](r io.ReaderAt, size int64, opts []Option) (*File[T], error) {
	meta, err := ReadMetadata(r, size)
	if err != nil {
		return nil, err
	}

	wf := &File[T]{
		meta:    meta,
		order:   meta.Positions(),
		readers: make(map[channel.Position]*ChannelReader[T]),
	}
	for _, pos := range wf.order {
		cr, err := newChannelReader[T](r, nil, size, &meta, pos, opts)
		if err != nil {
			return nil, err
		}
		wf.readers[pos] = cr
	}
	return wf, nil
}

// Metadata returns the parsed header.
func (f *File[T]) Metadata() Metadata { return f.meta }

// Positions lists the channels in on-disk order.
func (f *File[T]) Positions() []channel.Position {
	return append([]channel.Position(nil), f.order...)
}

// Has reports whether the file carries a channel at pos.
func (f *File[T]) Has(pos channel.Position) bool {
	_, ok := f.readers[pos]
	return ok
}

// Channel returns the reader for pos.
func (f *File[T]) Channel(pos channel.Position) (*ChannelReader[T], error) {
	if f.closed {
		return nil, ErrClosed
	}
	cr, ok := f.readers[pos]
	if !ok {
		return nil, fmt.Errorf("%w: %v", ErrChannelNotFound, pos)
	}
	return cr, nil
}

// Channels iterates the readers in on-disk order.
func (f *File[T]) Channels() iter.Seq2[channel.Position, *ChannelReader[T]] {
	return func(yield func(channel.Position, *ChannelReader[T]) bool) {
		for _, pos := range f.order {
			cr, ok := f.readers[pos]
			if !ok {
				continue
			}
			if !yield(pos, cr) {
				return
			}
		}
	}
}

// Close closes every channel reader and the shared source, if any. It is
// safe to call more than once.
func (f *File[T]) Close() error {
	if f.closed {
		return nil
	}
	f.closed = true

	var errs []error
	for _, pos := range f.order {
		if cr, ok := f.readers[pos]; ok {
			errs = append(errs, cr.Close())
		}
	}
	if f.closer != nil {
		f.cleanup.Stop()
		if err := f.closer.Close(); err != nil {
			errs = append(errs, fmt.Errorf("%w", err))
		}
	}
	return errors.Join(errs...)
}
