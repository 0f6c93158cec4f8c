// SPDX-License-Identifier: EPL-2.0

package wav

import "fmt"

const (
	// DefaultBufferCapacity is the reader cache size in bytes.
	DefaultBufferCapacity = 1 << 20
	// MinBufferCapacity is the smallest accepted reader cache size.
	MinBufferCapacity = 4096
)

// Option configures a ChannelReader or File.
type Option func(*readerOptions)

type readerOptions struct {
	bufferCapacity int
}

// WithBufferCapacity sets how many bytes of decoded samples a reader keeps
// cached. Values below MinBufferCapacity are rejected at construction.
func WithBufferCapacity(bytes int) Option {
	return func(o *readerOptions) { o.bufferCapacity = bytes }
}

func newReaderOptions(opts []Option) (readerOptions, error) {
	o := readerOptions{bufferCapacity: DefaultBufferCapacity}
	for _, opt := range opts {
		opt(&o)
	}
	if o.bufferCapacity < MinBufferCapacity {
		return o, fmt.Errorf("%w: buffer capacity %d is below %d bytes",
			ErrInvalidArgument, o.bufferCapacity, MinBufferCapacity)
	}
	return o, nil
}

// WriterOption configures a Writer.
type WriterOption func(*writerOptions)

type writerOptions struct {
	bitDepth  int    // 0 infers from the sample type
	validBits int    // 0 means bitDepth
	format    Format // Unknown infers from the sample type
}

// WithBitDepth fixes the on-disk bit depth: 8, 16, 24, 32 or 64.
func WithBitDepth(bits int) WriterOption {
	return func(o *writerOptions) { o.bitDepth = bits }
}

// WithValidBits sets the valid-bits field of extensible headers.
func WithValidBits(bits int) WriterOption {
	return func(o *writerOptions) { o.validBits = bits }
}

// WithFormat selects PCM or FloatingPoint output.
func WithFormat(f Format) WriterOption {
	return func(o *writerOptions) { o.format = f }
}

func newWriterOptions(opts []WriterOption) (writerOptions, error) {
	var o writerOptions
	for _, opt := range opts {
		opt(&o)
	}

	switch o.bitDepth {
	case 0, 8, 16, 24, 32, 64:
	default:
		return o, fmt.Errorf("%w: unsupported bit depth %d", ErrInvalidArgument, o.bitDepth)
	}
	switch o.format {
	case Unknown, PCM, FloatingPoint:
	default:
		return o, fmt.Errorf("%w: unsupported format %d", ErrInvalidArgument, o.format)
	}
	if o.validBits < 0 || (o.bitDepth > 0 && o.validBits > o.bitDepth) {
		return o, fmt.Errorf("%w: %d valid bits for %d-bit samples", ErrInvalidArgument, o.validBits, o.bitDepth)
	}
	return o, nil
}
