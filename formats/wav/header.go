// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/go-audio/audio"
	"github.com/ik5/wavchan/channel"
	"github.com/ik5/wavchan/sample"
)

// Format is the sample encoding declared by the fmt chunk.
type Format uint16

const (
	Unknown       Format = 0
	PCM           Format = 1
	FloatingPoint Format = 3
)

func (f Format) String() string {
	switch f {
	case PCM:
		return "PCM"
	case FloatingPoint:
		return "FloatingPoint"
	default:
		return "Unknown"
	}
}

const (
	formatExtensible = 0xFFFE
	extensionSize    = 22

	// headerScan is how much of a source is inspected for fmt and data.
	headerScan = 1024

	// MaxSize is the largest source or output addressable by RIFF's
	// 32-bit size fields.
	MaxSize = math.MaxUint32
)

// Metadata is the parsed WAVE header. It is immutable once returned.
type Metadata struct {
	SampleRate  uint32
	BitDepth    uint16
	ValidBits   uint16
	Format      Format
	Channels    uint16
	AudioLength uint64 // bytes of sample data, whole frames only
	SpeakerMask uint32 // declared or inferred; 0 only for mono files
	HeaderSize  uint32 // offset of the first sample byte
	Extensible  bool
}

// ByteDepth is the on-disk size of one sample.
func (m Metadata) ByteDepth() int { return int(m.BitDepth) / 8 }

// FrameSize is the on-disk size of one frame across all channels.
func (m Metadata) FrameSize() int { return m.ByteDepth() * int(m.Channels) }

// trueByteDepth sizes the cache window. Float data counts at least 32 bits.
func (m Metadata) trueByteDepth() int {
	if m.Format == FloatingPoint {
		return max(32, int(m.BitDepth)) / 8
	}
	return m.ByteDepth()
}

// Samples is the number of samples in each channel.
func (m Metadata) Samples() int {
	if m.FrameSize() == 0 {
		return 0
	}
	return int(m.AudioLength / uint64(m.FrameSize()))
}

// Duration is the playing time of the data chunk.
func (m Metadata) Duration() time.Duration {
	if m.SampleRate == 0 {
		return 0
	}
	return time.Duration(m.Samples()) * time.Second / time.Duration(m.SampleRate)
}

// Positions resolves the speaker mask into the on-disk channel order. A
// mask naming more positions than there are channels is cut short.
func (m Metadata) Positions() []channel.Position {
	ps := channel.Resolve(m.SpeakerMask)
	if len(ps) > int(m.Channels) {
		ps = ps[:m.Channels]
	}
	return ps
}

// Kind is the numeric type samples decode to before any conversion.
func (m Metadata) Kind() sample.Kind {
	isFloat := m.Format == FloatingPoint
	switch m.BitDepth {
	case 8:
		return sample.Uint8
	case 16:
		return sample.Int16
	case 32:
		if isFloat {
			return sample.Float32
		}
		return sample.Int32
	case 64:
		if isFloat {
			return sample.Float64
		}
		return sample.Int64
	default:
		return sample.Int32
	}
}

// AudioFormat describes the stream as a go-audio format.
func (m Metadata) AudioFormat() *audio.Format {
	return &audio.Format{
		NumChannels: int(m.Channels),
		SampleRate:  int(m.SampleRate),
	}
}

// ReadMetadata parses the header of a source of the given total size.
func ReadMetadata(r io.ReaderAt, size int64) (Metadata, error) {
	if r == nil || size < 0 {
		return Metadata{}, ErrInvalidArgument
	}
	if size > MaxSize {
		return Metadata{}, fmt.Errorf("%w: %d bytes", ErrUnsupportedSize, size)
	}

	head := make([]byte, min(size, headerScan))
	n, err := r.ReadAt(head, 0)
	if err != nil && !(errors.Is(err, io.EOF) && n == len(head)) {
		return Metadata{}, fmt.Errorf("%w", err)
	}

	return ParseHeader(head, size)
}

// ParseHeader parses the first bytes of a WAVE source. total is the size
// of the whole source and bounds the audio length.
func ParseHeader(head []byte, total int64) (Metadata, error) {
	if total > MaxSize {
		return Metadata{}, fmt.Errorf("%w: %d bytes", ErrUnsupportedSize, total)
	}
	if len(head) > headerScan {
		head = head[:headerScan]
	}

	if len(head) < 12 || !bytes.Equal(head[0:4], []byte("RIFF")) || !bytes.Equal(head[8:12], []byte("WAVE")) {
		return Metadata{}, fmt.Errorf("%w: missing RIFF/WAVE tags", ErrUnrecognisedFormat)
	}

	fmtOff, dataOff := -1, -1
	for off := 12; off+8 <= len(head); {
		id := string(head[off : off+4])
		size := int(binary.LittleEndian.Uint32(head[off+4 : off+8]))
		if id == "fmt " && fmtOff < 0 {
			fmtOff = off
		}
		if id == "data" {
			dataOff = off
			break
		}
		off += 8 + size + size&1
	}
	if fmtOff < 0 {
		return Metadata{}, fmt.Errorf("%w: no fmt chunk", ErrUnrecognisedFormat)
	}
	if dataOff < 0 {
		return Metadata{}, fmt.Errorf("%w: no data chunk in the first %d bytes", ErrUnrecognisedFormat, headerScan)
	}

	// p is the start of the fmt payload.
	p := fmtOff + 8
	fmtSize := int(binary.LittleEndian.Uint32(head[fmtOff+4:]))
	if fmtSize < 16 || p+16 > len(head) {
		return Metadata{}, fmt.Errorf("%w: short fmt chunk", ErrUnrecognisedFormat)
	}

	code := binary.LittleEndian.Uint16(head[p:])
	m := Metadata{
		Channels:   binary.LittleEndian.Uint16(head[p+2:]),
		SampleRate: binary.LittleEndian.Uint32(head[p+4:]),
		BitDepth:   binary.LittleEndian.Uint16(head[p+14:]),
		HeaderSize: uint32(dataOff + 8),
	}

	switch code {
	case uint16(PCM), uint16(FloatingPoint):
		m.Format = Format(code)
	case formatExtensible:
		m.Extensible = true
		if fmtSize >= 40 && p+40 <= len(head) && binary.LittleEndian.Uint16(head[p+16:]) == extensionSize {
			if sub := Format(head[p+24]); sub == PCM || sub == FloatingPoint {
				m.Format = sub
				m.ValidBits = binary.LittleEndian.Uint16(head[p+18:])
				m.SpeakerMask = binary.LittleEndian.Uint32(head[p+20:])
				if m.ValidBits == 0 {
					return Metadata{}, fmt.Errorf("%w: valid bits is 0", ErrUnrecognisedFormat)
				}
			}
		}
	}

	if m.ValidBits == 0 {
		m.ValidBits = m.BitDepth
	}
	if m.SpeakerMask == 0 {
		m.SpeakerMask = channel.InferMask(int(m.Channels))
	}

	if err := m.validate(); err != nil {
		return Metadata{}, err
	}

	remaining := max(total-int64(m.HeaderSize), 0)
	length := uint64(remaining)
	if declared := binary.LittleEndian.Uint32(head[dataOff+4:]); declared != 0 && int64(declared) <= remaining {
		length = uint64(declared)
	}
	m.AudioLength = length - length%uint64(m.FrameSize())

	return m, nil
}

func (m Metadata) validate() error {
	switch {
	case m.BitDepth == 0:
		return fmt.Errorf("%w: bit depth is 0", ErrUnrecognisedFormat)
	case m.BitDepth != 8 && m.BitDepth != 16 && m.BitDepth != 24 && m.BitDepth != 32 && m.BitDepth != 64:
		return fmt.Errorf("%w: unsupported bit depth %d", ErrUnrecognisedFormat, m.BitDepth)
	case m.Channels == 0:
		return fmt.Errorf("%w: no channels", ErrUnrecognisedFormat)
	case m.Format == Unknown:
		return fmt.Errorf("%w: only PCM and IEEE float are supported", ErrUnrecognisedFormat)
	case m.ValidBits > m.BitDepth:
		return fmt.Errorf("%w: %d valid bits in %d-bit samples", ErrUnrecognisedFormat, m.ValidBits, m.BitDepth)
	case m.SampleRate == 0:
		return fmt.Errorf("%w: sample rate is 0", ErrUnrecognisedFormat)
	}
	return nil
}
