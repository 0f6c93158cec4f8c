// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"math"
	"path/filepath"
	"slices"
	"testing"

	"github.com/ik5/wavchan/channel"
	"github.com/ik5/wavchan/sample"
	"github.com/shopspring/decimal"
)

func ramp[T sample.Numeric](n int, f func(i int) T) sample.Slice[T] {
	out := make(sample.Slice[T], n)
	for i := range out {
		out[i] = f(i)
	}
	return out
}

// TestWriter_StereoScenario writes 100 frames of float32 stereo as 16-bit PCM.
func TestWriter_StereoScenario(t *testing.T) {
	t.Parallel()

	left := ramp(100, func(i int) float32 { return float32(i) / 100 })
	right := ramp(100, func(i int) float32 { return -float32(i) / 100 })

	out := new(closeBuffer)
	w, err := NewWriter[float32](out, 48000, WithBitDepth(16), WithFormat(PCM))
	if err != nil {
		t.Fatalf("NewWriter() error = %v, want nil", err)
	}
	if err := w.Add(channel.FrontRight, right); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if err := w.Add(channel.FrontLeft, left); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if err := w.Flush(); err != nil {
		t.Fatalf("Flush() error = %v, want nil", err)
	}

	b := out.Bytes()
	if len(b) != 468 {
		t.Fatalf("file is %d bytes, want 468", len(b))
	}
	if got := binary.LittleEndian.Uint32(b[4:8]); got != 458 {
		t.Errorf("RIFF size = %d, want 458", got)
	}
	if got := binary.LittleEndian.Uint32(b[64:68]); got != 400 {
		t.Errorf("data size = %d, want 400", got)
	}
	if out.closed != 1 {
		t.Errorf("sink closed %d times, want 1", out.closed)
	}

	checks := []struct {
		name string
		got  uint32
		want uint32
	}{
		{"fmt size", binary.LittleEndian.Uint32(b[16:20]), 40},
		{"format tag", uint32(binary.LittleEndian.Uint16(b[20:22])), formatExtensible},
		{"channels", uint32(binary.LittleEndian.Uint16(b[22:24])), 2},
		{"sample rate", binary.LittleEndian.Uint32(b[24:28]), 48000},
		{"byte rate", binary.LittleEndian.Uint32(b[28:32]), 48000 * 4},
		{"block align", uint32(binary.LittleEndian.Uint16(b[32:34])), 4},
		{"bits", uint32(binary.LittleEndian.Uint16(b[34:36])), 16},
		{"extension size", uint32(binary.LittleEndian.Uint16(b[36:38])), 22},
		{"valid bits", uint32(binary.LittleEndian.Uint16(b[38:40])), 16},
		{"mask", binary.LittleEndian.Uint32(b[40:44]), 3},
		{"sub-format", uint32(binary.LittleEndian.Uint16(b[44:46])), uint32(PCM)},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s = %d, want %d", c.name, c.got, c.want)
		}
	}
	if !bytes.Equal(b[46:60], subFormatSuffix[:]) {
		t.Errorf("GUID suffix = % x", b[46:60])
	}
	if string(b[60:64]) != "data" {
		t.Errorf("data tag = %q", b[60:64])
	}

	// frame 10: left 0.1, right -0.1
	l := int16(binary.LittleEndian.Uint16(b[68+40:]))
	r := int16(binary.LittleEndian.Uint16(b[68+42:]))
	if l != 3277 || r != -3277 {
		t.Errorf("frame 10 = (%d, %d), want (3277, -3277)", l, r)
	}

	meta, err := parse(b)
	if err != nil {
		t.Fatalf("ParseHeader() on written file error = %v", err)
	}
	if meta.Samples() != 100 || meta.SpeakerMask != 3 || meta.HeaderSize != 68 {
		t.Errorf("ParseHeader() = %+v", meta)
	}
}

func TestWriter_Mono(t *testing.T) {
	t.Parallel()

	out := new(bytes.Buffer)
	w, err := NewWriter[int16](out, 8000)
	if err != nil {
		t.Fatalf("NewWriter() error = %v", err)
	}
	if err := w.Add(channel.Mono, sample.Slice[int16]{1, -2, 3}); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if err := w.Flush(); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}

	b := out.Bytes()
	if len(b) != 44+6 {
		t.Fatalf("file is %d bytes, want 50", len(b))
	}
	if got := binary.LittleEndian.Uint32(b[4:8]); got != 42 {
		t.Errorf("RIFF size = %d, want 42", got)
	}
	if got := binary.LittleEndian.Uint32(b[16:20]); got != 16 {
		t.Errorf("fmt size = %d, want 16", got)
	}
	if got := binary.LittleEndian.Uint16(b[20:22]); got != uint16(PCM) {
		t.Errorf("format tag = %d, want 1", got)
	}
	if !bytes.Equal(b[44:], []byte{1, 0, 0xFE, 0xFF, 3, 0}) {
		t.Errorf("data = % x", b[44:])
	}
}

// A single non-mono channel still gets an extensible header.
func TestWriter_SingleSpeaker(t *testing.T) {
	t.Parallel()

	out := new(bytes.Buffer)
	w, err := NewWriter[int16](out, 8000)
	if err != nil {
		t.Fatalf("NewWriter() error = %v", err)
	}
	if err := w.Add(channel.FrontCenter, sample.Slice[int16]{7}); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if err := w.Flush(); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}

	meta, err := parse(out.Bytes())
	if err != nil {
		t.Fatalf("ParseHeader() error = %v", err)
	}
	if !meta.Extensible || meta.SpeakerMask != uint32(channel.FrontCenter) {
		t.Errorf("ParseHeader() = %+v, want extensible FrontCenter", meta)
	}
}

func TestWriter_Validation(t *testing.T) {
	t.Parallel()

	one := sample.Slice[int16]{1}

	tests := []struct {
		name     string
		channels []Channel[int16]
	}{
		{name: "no channels"},
		{name: "combined position", channels: []Channel[int16]{{channel.FrontLeft | channel.FrontRight, one}}},
		{name: "unknown position", channels: []Channel[int16]{{channel.Position(0x40000), one}}},
		{name: "empty samples", channels: []Channel[int16]{{channel.FrontLeft, sample.Slice[int16]{}}}},
		{name: "mono with others", channels: []Channel[int16]{{channel.Mono, one}, {channel.FrontLeft, one}}},
		{name: "duplicate", channels: []Channel[int16]{{channel.FrontLeft, one}, {channel.FrontLeft, one}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			out := new(closeBuffer)
			w, err := NewWriter[int16](out, 8000)
			if err != nil {
				t.Fatalf("NewWriter() error = %v", err)
			}
			for _, c := range tt.channels {
				if err := w.Add(c.Position, c.Samples); err != nil {
					t.Fatalf("Add() error = %v", err)
				}
			}

			if err := w.Flush(); !errors.Is(err, ErrInvalidAudioData) {
				t.Errorf("Flush() error = %v, want ErrInvalidAudioData", err)
			}
			if out.Len() != 0 || out.closed != 0 {
				t.Errorf("failed Flush() wrote %d bytes and closed %d times", out.Len(), out.closed)
			}
		})
	}
}

func TestWriter_Lifecycle(t *testing.T) {
	t.Parallel()

	out := new(closeBuffer)
	w, err := NewWriter[int16](out, 8000)
	if err != nil {
		t.Fatalf("NewWriter() error = %v", err)
	}

	if err := w.Add(channel.FrontLeft, nil); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("Add(nil) error = %v, want ErrInvalidArgument", err)
	}
	w.Add(channel.FrontLeft, sample.Slice[int16]{1})
	w.Add(channel.BackLeft, sample.Slice[int16]{2})
	w.Add(channel.FrontRight, sample.Slice[int16]{3})

	if !w.Remove(channel.BackLeft) {
		t.Error("Remove(BackLeft) = false, want true")
	}
	if w.Remove(channel.BackLeft) {
		t.Error("second Remove(BackLeft) = true, want false")
	}

	got := w.Channels()
	if len(got) != 2 || got[0].Position != channel.FrontLeft || got[1].Position != channel.FrontRight {
		t.Errorf("Channels() = %v", got)
	}

	if err := w.Flush(); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}
	if err := w.Flush(); !errors.Is(err, ErrAlreadyFlushed) {
		t.Errorf("second Flush() error = %v, want ErrAlreadyFlushed", err)
	}
	if err := w.Add(channel.FrontCenter, sample.Slice[int16]{1}); !errors.Is(err, ErrAlreadyFlushed) {
		t.Errorf("Add() after Flush error = %v, want ErrAlreadyFlushed", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("Close() after Flush error = %v", err)
	}
	if out.closed != 1 {
		t.Errorf("sink closed %d times, want 1", out.closed)
	}
}

func TestWriter_CloseWithoutFlush(t *testing.T) {
	t.Parallel()

	out := new(closeBuffer)
	w, err := NewWriter[int16](out, 8000)
	if err != nil {
		t.Fatalf("NewWriter() error = %v", err)
	}
	w.Add(channel.Mono, sample.Slice[int16]{1})

	if err := w.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := w.Flush(); !errors.Is(err, ErrClosed) {
		t.Errorf("Flush() after Close error = %v, want ErrClosed", err)
	}
	if err := w.Add(channel.Mono, sample.Slice[int16]{1}); !errors.Is(err, ErrClosed) {
		t.Errorf("Add() after Close error = %v, want ErrClosed", err)
	}
	if out.Len() != 0 || out.closed != 1 {
		t.Errorf("wrote %d bytes, closed %d times", out.Len(), out.closed)
	}
}

func TestWriter_FailedFlushIsTerminal(t *testing.T) {
	t.Parallel()

	out := &failingSink{failAt: 2}
	w, err := NewWriter[int16](out, 8000)
	if err != nil {
		t.Fatalf("NewWriter() error = %v", err)
	}
	w.Add(channel.FrontLeft, sample.Slice[int16]{1, 2, 3})
	w.Add(channel.FrontRight, sample.Slice[int16]{4, 5, 6})

	if err := w.Flush(); !errors.Is(err, errDiskFull) {
		t.Fatalf("Flush() error = %v, want %v", err, errDiskFull)
	}
	written := out.Len()

	if err := w.Flush(); !errors.Is(err, ErrAlreadyFlushed) {
		t.Errorf("second Flush() error = %v, want ErrAlreadyFlushed", err)
	}
	if err := w.Add(channel.FrontCenter, sample.Slice[int16]{1}); err == nil {
		t.Error("Add() after failed Flush error = nil")
	}
	if out.Len() != written {
		t.Errorf("sink grew from %d to %d bytes after the failed Flush", written, out.Len())
	}
	if bytes.Count(out.Bytes(), []byte("RIFF")) > 1 {
		t.Error("sink holds more than one RIFF header")
	}
	if out.closed != 1 {
		t.Errorf("sink closed %d times, want 1", out.closed)
	}
}

func TestWriter_ValidationErrorKeepsWriterUsable(t *testing.T) {
	t.Parallel()

	out := new(closeBuffer)
	w, err := NewWriter[int16](out, 8000)
	if err != nil {
		t.Fatalf("NewWriter() error = %v", err)
	}
	if err := w.Flush(); err == nil {
		t.Fatal("Flush() with no channels error = nil")
	}
	if out.Len() != 0 || out.closed != 0 {
		t.Fatalf("wrote %d bytes, closed %d times after a validation error", out.Len(), out.closed)
	}

	w.Add(channel.Mono, sample.Slice[int16]{1})
	if err := w.Flush(); err != nil {
		t.Fatalf("Flush() error = %v, want nil", err)
	}
	if out.closed != 1 {
		t.Errorf("sink closed %d times, want 1", out.closed)
	}
}

func TestNewWriter_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		w    io.Writer
		rate int
		opts []WriterOption
	}{
		{name: "nil writer", rate: 8000},
		{name: "zero rate", w: io.Discard},
		{name: "negative rate", w: io.Discard, rate: -1},
		{name: "rate overflow", w: io.Discard, rate: math.MaxInt},
		{name: "bit depth", w: io.Discard, rate: 8000, opts: []WriterOption{WithBitDepth(12)}},
		{name: "format", w: io.Discard, rate: 8000, opts: []WriterOption{WithFormat(Format(2))}},
		{name: "valid bits", w: io.Discard, rate: 8000, opts: []WriterOption{WithBitDepth(16), WithValidBits(20)}},
		{name: "negative valid bits", w: io.Discard, rate: 8000, opts: []WriterOption{WithValidBits(-1)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if _, err := NewWriter[int16](tt.w, tt.rate, tt.opts...); !errors.Is(err, ErrInvalidArgument) {
				t.Errorf("NewWriter() error = %v, want ErrInvalidArgument", err)
			}
		})
	}
}

func layoutOf[T sample.Numeric](opts ...WriterOption) (int, Format) {
	w, err := NewWriter[T](io.Discard, 8000, opts...)
	if err != nil {
		panic(err)
	}
	return w.Layout()
}

func TestWriter_Layout(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		layout func() (int, Format)
		bits   int
		format Format
	}{
		{"uint8", func() (int, Format) { return layoutOf[uint8]() }, 8, PCM},
		{"int16", func() (int, Format) { return layoutOf[int16]() }, 16, PCM},
		{"uint16", func() (int, Format) { return layoutOf[uint16]() }, 16, PCM},
		{"int32", func() (int, Format) { return layoutOf[int32]() }, 32, PCM},
		{"int64", func() (int, Format) { return layoutOf[int64]() }, 64, PCM},
		{"float32", func() (int, Format) { return layoutOf[float32]() }, 32, FloatingPoint},
		{"float64", func() (int, Format) { return layoutOf[float64]() }, 64, FloatingPoint},
		{"decimal", func() (int, Format) { return layoutOf[decimal.Decimal]() }, 64, FloatingPoint},
		{"float32 as pcm", func() (int, Format) { return layoutOf[float32](WithFormat(PCM)) }, 32, PCM},
		{"int16 as float", func() (int, Format) { return layoutOf[int16](WithFormat(FloatingPoint)) }, 32, FloatingPoint},
		{"narrow float", func() (int, Format) { return layoutOf[float64](WithBitDepth(16)) }, 32, FloatingPoint},
		{"explicit 24", func() (int, Format) { return layoutOf[int16](WithBitDepth(24)) }, 24, PCM},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			bits, format := tt.layout()
			if bits != tt.bits || format != tt.format {
				t.Errorf("Layout() = %d, %v, want %d, %v", bits, format, tt.bits, tt.format)
			}
		})
	}
}

func TestInterleave(t *testing.T) {
	t.Parallel()

	chs := []Channel[int16]{
		{channel.BackLeft, sample.Slice[int16]{30, 31, 32}},
		{channel.FrontLeft, sample.Slice[int16]{10, 11}},
		{channel.FrontRight, sample.Slice[int16]{20, 21, 22, 23}},
	}

	got := sample.Collect(Interleave(chs))
	if want := []int16{10, 20, 30, 11, 21, 31}; !slices.Equal(got, want) {
		t.Errorf("Interleave() = %v, want %v", got, want)
	}

	single := sample.Slice[int16]{1, 2}
	if v := Interleave([]Channel[int16]{{channel.Mono, single}}); v.Len() != 2 || v.At(1) != 2 {
		t.Errorf("Interleave(single) = %v", sample.Collect(v))
	}

	// caller order is left untouched
	if chs[0].Position != channel.BackLeft {
		t.Error("Interleave() reordered its argument")
	}
}

func TestWriter_Truncation(t *testing.T) {
	t.Parallel()

	out := new(bytes.Buffer)
	w, _ := NewWriter[int16](out, 8000)
	w.Add(channel.FrontLeft, sample.Slice[int16]{1, 2, 3, 4})
	w.Add(channel.FrontRight, sample.Slice[int16]{5, 6})
	if err := w.Flush(); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}

	meta, err := parse(out.Bytes())
	if err != nil {
		t.Fatalf("ParseHeader() error = %v", err)
	}
	if meta.AudioLength != 8 || meta.Samples() != 2 {
		t.Errorf("AudioLength = %d, Samples() = %d, want 8, 2", meta.AudioLength, meta.Samples())
	}
}

func TestWriter_Chunked(t *testing.T) {
	t.Parallel()

	// more than one writeChunkBytes buffer of 24-bit frames
	const n = 5000
	left := ramp(n, func(i int) int32 { return int32(i) << 8 })
	right := ramp(n, func(i int) int32 { return -int32(i) << 8 })

	out := new(bytes.Buffer)
	w, err := NewWriter[int32](out, 96000, WithBitDepth(24), WithValidBits(20))
	if err != nil {
		t.Fatalf("NewWriter() error = %v", err)
	}
	w.Add(channel.FrontLeft, left)
	w.Add(channel.FrontRight, right)
	if err := w.Flush(); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}

	b := out.Bytes()
	if got := binary.LittleEndian.Uint32(b[64:68]); got != n*2*3 {
		t.Errorf("data size = %d, want %d", got, n*2*3)
	}
	if len(b) != 68+n*2*3 {
		t.Errorf("file is %d bytes, want %d", len(b), 68+n*2*3)
	}

	f, err := NewFile[int32](bytes.NewReader(b), int64(len(b)))
	if err != nil {
		t.Fatalf("NewFile() error = %v", err)
	}
	defer f.Close()

	if f.Metadata().ValidBits != 20 {
		t.Errorf("ValidBits = %d, want 20", f.Metadata().ValidBits)
	}
	for pos, want := range map[channel.Position]sample.Slice[int32]{channel.FrontLeft: left, channel.FrontRight: right} {
		cr, err := f.Channel(pos)
		if err != nil {
			t.Fatalf("Channel(%v) error = %v", pos, err)
		}
		got, err := cr.LoadAll()
		if err != nil {
			t.Fatalf("LoadAll() error = %v", err)
		}
		if !slices.Equal(got, []int32(want)) {
			t.Errorf("%v does not round-trip", pos)
		}
	}
}

func TestWriter_Create(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "out.wav")
	w, err := Create[float64](path, 22050)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	src := sample.Slice[float64]{0, 0.5, -0.25, 1}
	w.Add(channel.Mono, src)
	if err := w.Flush(); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}

	cr, err := OpenChannel[float64](path, channel.Mono)
	if err != nil {
		t.Fatalf("OpenChannel() error = %v", err)
	}
	defer cr.Close()

	if cr.Metadata().Format != FloatingPoint || cr.Metadata().BitDepth != 64 {
		t.Errorf("Metadata() = %+v, want 64-bit float", cr.Metadata())
	}
	got, err := cr.LoadAll()
	if err != nil {
		t.Fatalf("LoadAll() error = %v", err)
	}
	if !slices.Equal(got, []float64(src)) {
		t.Errorf("LoadAll() = %v, want %v", got, src)
	}

	if _, err := Create[int16](filepath.Join(t.TempDir(), "missing", "x.wav"), 8000); err == nil {
		t.Error("Create() in a missing directory succeeded")
	}
}
