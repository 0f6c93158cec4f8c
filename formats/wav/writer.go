// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"cmp"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"slices"

	"github.com/ik5/wavchan/channel"
	"github.com/ik5/wavchan/sample"
	"github.com/mudler/xlog"
)

// writeChunkBytes is the size of each Write issued while streaming data.
const writeChunkBytes = 8192

// subFormatSuffix follows the format code in the extensible sub-format GUID.
var subFormatSuffix = [14]byte{0x00, 0x00, 0x00, 0x00, 0x10, 0x00, 0x80, 0x00, 0x00, 0xAA, 0x00, 0x38, 0x9B, 0x71}

// Channel is one pending channel of a Writer.
type Channel[T sample.Numeric] struct {
	Position channel.Position
	Samples  sample.View[T]
}

// Writer collects channels and serializes them as a single WAVE file on
// Flush. A Writer can be flushed once.
type Writer[T sample.Numeric] struct {
	w        io.Writer
	closer   io.Closer
	rate     uint32
	opts     writerOptions
	channels []Channel[T]
	flushed  bool
	closed   bool
}

// NewWriter returns a writer that emits to w. If w is an io.Closer the
// writer owns it and closes it once Flush has written to it, or on Close.
func NewWriter[T sample.Numeric](w io.Writer, sampleRate int, opts ...WriterOption) (*Writer[T], error) {
	if w == nil {
		return nil, ErrInvalidArgument
	}
	wr, err := newWriter[T](sampleRate, opts)
	if err != nil {
		return nil, err
	}
	wr.w = w
	wr.closer, _ = w.(io.Closer)
	return wr, nil
}

// Create returns a writer for a new file at path.
func Create[T sample.Numeric](path string, sampleRate int, opts ...WriterOption) (*Writer[T], error) {
	wr, err := newWriter[T](sampleRate, opts)
	if err != nil {
		return nil, err
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("%w", err)
	}
	wr.w, wr.closer = f, f
	return wr, nil
}

func newWriter[T sample.Numeric](sampleRate int, opts []WriterOption) (*Writer[T], error) {
	if sampleRate <= 0 || uint64(sampleRate) > math.MaxUint32 {
		return nil, fmt.Errorf("%w: sample rate %d", ErrInvalidArgument, sampleRate)
	}
	o, err := newWriterOptions(opts)
	if err != nil {
		return nil, err
	}
	return &Writer[T]{rate: uint32(sampleRate), opts: o}, nil
}

// Add queues samples for pos. The channel set is validated by Flush.
func (w *Writer[T]) Add(pos channel.Position, samples sample.View[T]) error {
	switch {
	case w.flushed:
		return ErrAlreadyFlushed
	case w.closed:
		return ErrClosed
	case samples == nil:
		return fmt.Errorf("%w: nil samples for %v", ErrInvalidArgument, pos)
	}
	w.channels = append(w.channels, Channel[T]{Position: pos, Samples: samples})
	return nil
}

// Remove drops every pending channel at pos and reports whether any was
// present.
func (w *Writer[T]) Remove(pos channel.Position) bool {
	n := len(w.channels)
	w.channels = slices.DeleteFunc(w.channels, func(c Channel[T]) bool { return c.Position == pos })
	return len(w.channels) != n
}

// Channels returns the pending channels in the order they were added.
func (w *Writer[T]) Channels() []Channel[T] {
	return slices.Clone(w.channels)
}

// Layout reports the bit depth and format Flush will write, after
// inference from T.
func (w *Writer[T]) Layout() (bitDepth int, format Format) {
	k := sample.KindOf[T]()

	format = w.opts.format
	if format == Unknown {
		format = PCM
		if k.Float() {
			format = FloatingPoint
		}
	}

	bitDepth = w.opts.bitDepth
	if bitDepth == 0 {
		bitDepth = k.Bits()
		if bitDepth == 0 {
			bitDepth = 64
		}
	}
	if format == FloatingPoint && bitDepth < 32 {
		bitDepth = 32
	}
	return bitDepth, format
}

// Flush validates the channel set, then writes the header and the
// interleaved samples. The underlying stream is closed afterwards. A
// validation error leaves the writer usable; once writing has started,
// Flush is terminal even if the write fails.
func (w *Writer[T]) Flush() error {
	switch {
	case w.flushed:
		return ErrAlreadyFlushed
	case w.closed:
		return ErrClosed
	}
	if err := validateChannels(w.channels); err != nil {
		return err
	}

	bitDepth, format := w.Layout()
	encode, err := encoderFor[T](bitDepth, format)
	if err != nil {
		return err
	}

	data := Interleave(w.channels)
	width := bitDepth / 8
	dataSize := uint64(data.Len()) * uint64(width)

	mono := len(w.channels) == 1 && w.channels[0].Position == channel.Mono
	header := w.header(bitDepth, format, mono, uint32(dataSize))
	if uint64(len(header))+dataSize > MaxSize {
		return fmt.Errorf("%w: %d bytes of audio", ErrUnsupportedSize, dataSize)
	}

	// Once bytes reach the stream the writer is spent, even on failure.
	w.flushed = true
	if err := w.write(header, data, encode, width); err != nil {
		return errors.Join(err, w.Close())
	}

	xlog.Debug("wav flushed", "channels", len(w.channels), "bits", bitDepth, "format", format, "bytes", dataSize)

	return w.Close()
}

// Close releases the underlying stream without writing. It is safe to call
// more than once.
func (w *Writer[T]) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	if w.closer == nil {
		return nil
	}
	if err := w.closer.Close(); err != nil {
		return fmt.Errorf("%w", err)
	}
	return nil
}

func (w *Writer[T]) write(header []byte, data sample.View[T], encode encodeFunc[T], width int) error {
	if _, err := w.w.Write(header); err != nil {
		return fmt.Errorf("%w", err)
	}
	return writeSamples(w.w, data, encode, width)
}

func validateChannels[T sample.Numeric](chs []Channel[T]) error {
	if len(chs) == 0 {
		return fmt.Errorf("%w: no channels", ErrInvalidAudioData)
	}

	seen := make(map[channel.Position]bool, len(chs))
	for _, c := range chs {
		switch {
		case !c.Position.Valid():
			return fmt.Errorf("%w: %v is not a single speaker position", ErrInvalidAudioData, c.Position)
		case c.Samples == nil || c.Samples.Len() == 0:
			return fmt.Errorf("%w: %v has no samples", ErrInvalidAudioData, c.Position)
		case c.Position == channel.Mono && len(chs) > 1:
			return fmt.Errorf("%w: Mono cannot be combined with other channels", ErrInvalidAudioData)
		case seen[c.Position]:
			return fmt.Errorf("%w: duplicate channel %v", ErrInvalidAudioData, c.Position)
		}
		seen[c.Position] = true
	}
	return nil
}

// header builds the RIFF, fmt and data chunk headers.
func (w *Writer[T]) header(bitDepth int, format Format, mono bool, dataSize uint32) []byte {
	n := uint16(len(w.channels))
	width := uint16(bitDepth / 8)

	fmtSize, riffExtra := uint32(16), uint32(0)
	if !mono {
		fmtSize, riffExtra = 40, 22
	}

	header := make([]byte, 20+fmtSize+8)

	copy(header[0:4], "RIFF")
	binary.LittleEndian.PutUint32(header[4:8], dataSize+36+riffExtra)
	copy(header[8:12], "WAVE")

	copy(header[12:16], "fmt ")
	binary.LittleEndian.PutUint32(header[16:20], fmtSize)
	code := uint16(format)
	if !mono {
		code = formatExtensible
	}
	binary.LittleEndian.PutUint16(header[20:22], code)
	binary.LittleEndian.PutUint16(header[22:24], n)
	binary.LittleEndian.PutUint32(header[24:28], w.rate)
	binary.LittleEndian.PutUint32(header[28:32], w.rate*uint32(n)*uint32(width))
	binary.LittleEndian.PutUint16(header[32:34], n*width)
	binary.LittleEndian.PutUint16(header[34:36], uint16(bitDepth))

	off := 36
	if !mono {
		validBits := w.opts.validBits
		if validBits == 0 || validBits > bitDepth {
			validBits = bitDepth
		}
		mask := uint32(0)
		for _, c := range w.channels {
			mask |= uint32(c.Position)
		}

		binary.LittleEndian.PutUint16(header[36:38], extensionSize)
		binary.LittleEndian.PutUint16(header[38:40], uint16(validBits))
		binary.LittleEndian.PutUint32(header[40:44], mask)
		binary.LittleEndian.PutUint16(header[44:46], uint16(format))
		copy(header[46:60], subFormatSuffix[:])
		off = 60
	}

	copy(header[off:off+4], "data")
	binary.LittleEndian.PutUint32(header[off+4:off+8], dataSize)
	return header
}

// writeSamples encodes data and writes it in chunks of writeChunkBytes.
func writeSamples[T sample.Numeric](w io.Writer, data sample.View[T], encode encodeFunc[T], width int) error {
	total := data.Len()
	if total == 0 {
		return nil
	}

	per := max(writeChunkBytes/width, 1)
	buf := make([]byte, min(total, per)*width)

	for i := 0; i < total; i += per {
		end := min(i+per, total)
		chunk := buf[:(end-i)*width]
		for j := i; j < end; j++ {
			encode(chunk[(j-i)*width:], data.At(j))
		}
		if _, err := w.Write(chunk); err != nil {
			return fmt.Errorf("%w", err)
		}
	}
	return nil
}

// Interleave returns a lazy view of chs in on-disk order: frames of one
// sample per channel, channels ascending by position, truncated to the
// shortest channel. A single channel is returned as is.
func Interleave[T sample.Numeric](chs []Channel[T]) sample.View[T] {
	if len(chs) == 1 {
		return chs[0].Samples
	}

	sorted := slices.Clone(chs)
	slices.SortStableFunc(sorted, func(a, b Channel[T]) int {
		return cmp.Compare(a.Position, b.Position)
	})

	frames := 0
	for i, c := range sorted {
		if n := c.Samples.Len(); i == 0 || n < frames {
			frames = n
		}
	}

	n := len(sorted)
	return sample.Fixed(frames*n, func(i int) T {
		return sorted[i%n].Samples.At(i / n)
	})
}
