// SPDX-License-Identifier: EPL-2.0

package audiotest

import (
	"bytes"
	"encoding/binary"
)

// Format codes used in the fmt chunk.
const (
	FormatPCM        = 1
	FormatFloat      = 3
	FormatExtensible = 0xFFFE
)

// Chunk is an extra RIFF sub-chunk placed between fmt and data.
type Chunk struct {
	ID   string
	Data []byte
}

// Header describes a WAVE file to synthesize. Extension fields are only
// written when Format is FormatExtensible.
type Header struct {
	Format     uint16
	Channels   uint16
	SampleRate uint32
	BitDepth   uint16

	ExtraSize uint16 // 0 writes 22
	ValidBits uint16
	Mask      uint32
	SubFormat uint16

	// ZeroDataSize writes 0 in the data size field, as streaming writers do.
	ZeroDataSize bool
	Chunks       []Chunk
}

var subFormatSuffix = []byte{0x00, 0x00, 0x00, 0x00, 0x10, 0x00, 0x80, 0x00, 0x00, 0xAA, 0x00, 0x38, 0x9B, 0x71}

// BuildWAVE assembles a complete RIFF WAVE file around data.
func BuildWAVE(h Header, data []byte) []byte {
	fmtChunk := new(bytes.Buffer)
	blockAlign := h.Channels * (h.BitDepth / 8)
	binary.Write(fmtChunk, binary.LittleEndian, h.Format)
	binary.Write(fmtChunk, binary.LittleEndian, h.Channels)
	binary.Write(fmtChunk, binary.LittleEndian, h.SampleRate)
	binary.Write(fmtChunk, binary.LittleEndian, h.SampleRate*uint32(blockAlign))
	binary.Write(fmtChunk, binary.LittleEndian, blockAlign)
	binary.Write(fmtChunk, binary.LittleEndian, h.BitDepth)

	if h.Format == FormatExtensible {
		extra := h.ExtraSize
		if extra == 0 {
			extra = 22
		}
		binary.Write(fmtChunk, binary.LittleEndian, extra)
		binary.Write(fmtChunk, binary.LittleEndian, h.ValidBits)
		binary.Write(fmtChunk, binary.LittleEndian, h.Mask)
		binary.Write(fmtChunk, binary.LittleEndian, h.SubFormat)
		fmtChunk.Write(subFormatSuffix)
	}

	body := new(bytes.Buffer)
	body.WriteString("WAVE")
	writeChunk(body, "fmt ", fmtChunk.Bytes())
	for _, c := range h.Chunks {
		writeChunk(body, c.ID, c.Data)
	}

	body.WriteString("data")
	size := uint32(len(data))
	if h.ZeroDataSize {
		size = 0
	}
	binary.Write(body, binary.LittleEndian, size)
	body.Write(data)

	out := new(bytes.Buffer)
	out.WriteString("RIFF")
	binary.Write(out, binary.LittleEndian, uint32(body.Len()))
	out.Write(body.Bytes())
	return out.Bytes()
}

// PCM16 builds a canonical 16-bit PCM file from interleaved samples.
func PCM16(sampleRate, channels int, samples []int16) []byte {
	return BuildWAVE(Header{
		Format:     FormatPCM,
		Channels:   uint16(channels),
		SampleRate: uint32(sampleRate),
		BitDepth:   16,
	}, Bytes(samples))
}

func writeChunk(buf *bytes.Buffer, id string, data []byte) {
	buf.WriteString(id)
	binary.Write(buf, binary.LittleEndian, uint32(len(data)))
	buf.Write(data)
	if len(data)%2 == 1 {
		buf.WriteByte(0)
	}
}

// Bytes encodes fixed-size values (or slices of them) little-endian.
func Bytes(values ...any) []byte {
	buf := new(bytes.Buffer)
	for _, v := range values {
		binary.Write(buf, binary.LittleEndian, v)
	}
	return buf.Bytes()
}

// Int24 packs values into 3-byte little-endian samples.
func Int24(values ...int32) []byte {
	out := make([]byte, 0, len(values)*3)
	for _, v := range values {
		out = append(out, byte(v), byte(v>>8), byte(v>>16))
	}
	return out
}
