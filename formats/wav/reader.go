// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"errors"
	"fmt"
	"io"
	"iter"
	"os"
	"runtime"
	"time"

	"github.com/go-audio/audio"
	"github.com/ik5/wavchan/channel"
	"github.com/ik5/wavchan/sample"
	"github.com/mudler/xlog"
)

// readChunkFrames bounds a single ReadAt call.
const readChunkFrames = 8192

// ChannelReader gives random access to the samples of one channel,
// converted to T. Decoded samples are cached in a window that slides to
// wherever the last miss happened.
//
// A ChannelReader is not safe for concurrent use.
type ChannelReader[T sample.Numeric] struct {
	r       io.ReaderAt
	closer  io.Closer
	cleanup runtime.Cleanup
	closed  bool

	meta   Metadata
	pos    channel.Position
	decode decodeFunc[T]
	offset int // byte offset of this channel inside a frame
	stride int // bytes per frame
	count  int
	window int // samples per cache refill

	start   int // absolute index of cache[0]
	cache   []T
	scratch []byte
}

// OpenChannel opens the WAVE file at path and reads channel pos from it.
// The file is closed by Close, or immediately if construction fails.
func OpenChannel[T sample.Numeric](path string, pos channel.Position, opts ...Option) (*ChannelReader[T], error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w", err)
	}
	st, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("%w", err)
	}

	cr, err := newChannelReader[T](f, f, st.Size(), nil, pos, opts)
	if err != nil {
		f.Close()
		return nil, err
	}
	return cr, nil
}

// NewChannelReader reads channel pos from r, a source of size bytes. If r
// is an io.Closer the reader takes ownership of it, closing it on Close or
// when construction fails.
func NewChannelReader[T sample.Numeric](r io.ReaderAt, size int64, pos channel.Position, opts ...Option) (*ChannelReader[T], error) {
	if r == nil {
		return nil, ErrInvalidArgument
	}
	closer, _ := r.(io.Closer)

	cr, err := newChannelReader[T](r, closer, size, nil, pos, opts)
	if err != nil {
		if closer != nil {
			closer.Close()
		}
		return nil, err
	}
	return cr, nil
}

// newChannelReader parses meta when it is nil. closer may be nil for
// readers that share a source.
func newChannelReader[T sample.Numeric](r io.ReaderAt, closer io.Closer, size int64, meta *Metadata, pos channel.Position, opts []Option) (*ChannelReader[T], error) {
	o, err := newReaderOptions(opts)
	if err != nil {
		return nil, err
	}

	if meta == nil {
		m, err := ReadMetadata(r, size)
		if err != nil {
			return nil, err
		}
		meta = &m
	}

	index := channel.IndexOf(pos, meta.Positions())
	if index < 0 {
		return nil, fmt.Errorf("%w: %v not in %s", ErrChannelNotFound, pos, channel.FormatMask(meta.SpeakerMask))
	}

	decode, err := decoderFor[T](int(meta.BitDepth), meta.Format)
	if err != nil {
		return nil, err
	}

	cr := &ChannelReader[T]{
		r:      r,
		closer: closer,
		meta:   *meta,
		pos:    pos,
		decode: decode,
		offset: index * meta.ByteDepth(),
		stride: meta.FrameSize(),
		count:  meta.Samples(),
		window: max(o.bufferCapacity/meta.trueByteDepth(), 1),
	}

	if cr.count > 0 {
		if err := cr.refill(0); err != nil {
			return nil, err
		}
	}

	if closer != nil {
		cr.cleanup = runtime.AddCleanup(cr, func(c io.Closer) { c.Close() }, closer)
	}
	return cr, nil
}

// Len is the number of samples in the channel.
func (c *ChannelReader[T]) Len() int { return c.count }

// Duration is the playing time of the channel.
func (c *ChannelReader[T]) Duration() time.Duration { return c.meta.Duration() }

// Metadata returns the parsed header of the underlying file.
func (c *ChannelReader[T]) Metadata() Metadata { return c.meta }

// Position is the speaker position this reader decodes.
func (c *ChannelReader[T]) Position() channel.Position { return c.pos }

// Format describes the source as a go-audio format.
func (c *ChannelReader[T]) Format() *audio.Format { return c.meta.AudioFormat() }

// At returns sample i, refilling the cache from i when it is not cached.
func (c *ChannelReader[T]) At(i int) (T, error) {
	var zero T
	if c.closed {
		return zero, ErrClosed
	}
	if i < 0 || i >= c.count {
		return zero, fmt.Errorf("%w: %d not in [0, %d)", ErrIndexOutOfRange, i, c.count)
	}

	if i < c.start || i >= c.start+len(c.cache) {
		if err := c.refill(i); err != nil {
			return zero, err
		}
	}
	return c.cache[i-c.start], nil
}

// Range returns samples [start, end). Spans larger than the cache window
// are decoded directly without touching the cache.
func (c *ChannelReader[T]) Range(start, end int) ([]T, error) {
	if c.closed {
		return nil, ErrClosed
	}
	if start < 0 || start > end || end > c.count {
		return nil, fmt.Errorf("%w: [%d, %d) not in [0, %d]", ErrIndexOutOfRange, start, end, c.count)
	}

	n := end - start
	if n > c.window {
		out := make([]T, n)
		got, err := c.decodeRun(start, out)
		if err != nil {
			return nil, err
		}
		if got < n {
			return nil, fmt.Errorf("%w", io.ErrUnexpectedEOF)
		}
		return out, nil
	}

	if start < c.start || end > c.start+len(c.cache) {
		if err := c.refill(start); err != nil {
			return nil, err
		}
		if end > c.start+len(c.cache) {
			return nil, fmt.Errorf("%w", io.ErrUnexpectedEOF)
		}
	}

	out := make([]T, n)
	copy(out, c.cache[start-c.start:end-c.start])
	return out, nil
}

// LoadAll decodes the whole channel.
func (c *ChannelReader[T]) LoadAll() ([]T, error) {
	return c.Range(0, c.count)
}

// All iterates every sample in index order. The sequence stops after the
// first error. Each call starts from index 0.
func (c *ChannelReader[T]) All() iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		for i := range c.count {
			v, err := c.At(i)
			if err != nil {
				var zero T
				yield(zero, err)
				return
			}
			if !yield(v, nil) {
				return
			}
		}
	}
}

// Close releases the source. It is safe to call more than once.
func (c *ChannelReader[T]) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	c.cache = nil
	c.scratch = nil
	if c.closer == nil {
		return nil
	}

	c.cleanup.Stop()
	if err := c.closer.Close(); err != nil {
		return fmt.Errorf("%w", err)
	}
	return nil
}

// refill replaces the cache with the window starting at i.
func (c *ChannelReader[T]) refill(i int) error {
	n := min(c.window, c.count-i)
	if cap(c.cache) < n {
		c.cache = make([]T, n)
	}
	c.cache = c.cache[:n]

	got, err := c.decodeRun(i, c.cache)
	if err != nil {
		c.cache = c.cache[:0]
		return err
	}
	if got == 0 {
		c.cache = c.cache[:0]
		return fmt.Errorf("%w", io.ErrUnexpectedEOF)
	}

	c.start = i
	c.cache = c.cache[:got]
	xlog.Debug("wav cache refill", "position", c.pos, "start", i, "samples", got)
	return nil
}

// decodeRun fills dst with samples from index start on. It stops early,
// without error, if the source ends.
func (c *ChannelReader[T]) decodeRun(start int, dst []T) (int, error) {
	done := 0
	for done < len(dst) {
		frames := min(len(dst)-done, readChunkFrames)
		need := frames * c.stride
		if cap(c.scratch) < need {
			c.scratch = make([]byte, need)
		}
		buf := c.scratch[:need]

		off := int64(c.meta.HeaderSize) + int64(start+done)*int64(c.stride)
		n, err := c.r.ReadAt(buf, off)

		whole := n / c.stride
		for k := range whole {
			dst[done+k] = c.decode(buf[k*c.stride+c.offset:])
		}
		done += whole

		if err != nil {
			if errors.Is(err, io.EOF) {
				return done, nil
			}
			return done, fmt.Errorf("%w", err)
		}
		if whole < frames {
			return done, nil
		}
	}
	return done, nil
}
