// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"errors"
	"fmt"
	"io"

	"github.com/go-audio/riff"
)

// ChunkInfo describes one RIFF sub-chunk.
type ChunkInfo struct {
	ID     string
	Size   int   // payload size, including the pad byte of odd chunks
	Offset int64 // offset of the chunk header from the start of the file
}

// ListChunks walks the sub-chunks of a RIFF WAVE stream. It reads r to the
// end and does not decode any chunk.
func ListChunks(r io.Reader) ([]ChunkInfo, error) {
	if r == nil {
		return nil, ErrInvalidArgument
	}

	p := riff.New(r)
	if err := p.ParseHeaders(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnrecognisedFormat, err)
	}
	if p.Format != riff.WavFormatID {
		return nil, fmt.Errorf("%w: RIFF form %q", ErrUnrecognisedFormat, p.Format[:])
	}

	var out []ChunkInfo
	off := int64(12)
	for {
		ch, err := p.NextChunk()
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				return out, nil
			}
			return out, fmt.Errorf("%w", err)
		}

		out = append(out, ChunkInfo{ID: string(ch.ID[:]), Size: ch.Size, Offset: off})
		off += 8 + int64(ch.Size)
		ch.Drain()
	}
}
