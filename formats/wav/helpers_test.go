// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"bytes"
	"errors"
	"sync"

	"github.com/ik5/wavchan/internal/audiotest"
)

// closeReader counts Close calls on an in-memory source.
type closeReader struct {
	*bytes.Reader
	closed int
}

func newCloseReader(b []byte) *closeReader {
	return &closeReader{Reader: bytes.NewReader(b)}
}

func (r *closeReader) Close() error {
	r.closed++
	return nil
}

// signalReader closes done on its first Close.
type signalReader struct {
	*bytes.Reader
	once sync.Once
	done chan struct{}
}

func newSignalReader(b []byte) *signalReader {
	return &signalReader{Reader: bytes.NewReader(b), done: make(chan struct{})}
}

func (r *signalReader) Close() error {
	r.once.Do(func() { close(r.done) })
	return nil
}

// closeBuffer counts Close calls on an in-memory sink.
type closeBuffer struct {
	bytes.Buffer
	closed int
}

func (b *closeBuffer) Close() error {
	b.closed++
	return nil
}

var errDiskFull = errors.New("disk full")

// failingSink accepts failAt-1 writes, then fails every later one.
type failingSink struct {
	closeBuffer
	writes int
	failAt int
}

func (s *failingSink) Write(p []byte) (int, error) {
	s.writes++
	if s.writes >= s.failAt {
		return 0, errDiskFull
	}
	return s.Buffer.Write(p)
}

func pcmHeader(channels, bits int) audiotest.Header {
	return audiotest.Header{
		Format:     audiotest.FormatPCM,
		Channels:   uint16(channels),
		SampleRate: 8000,
		BitDepth:   uint16(bits),
	}
}

func extensibleHeader(channels, bits int, mask uint32, sub uint16) audiotest.Header {
	return audiotest.Header{
		Format:     audiotest.FormatExtensible,
		Channels:   uint16(channels),
		SampleRate: 48000,
		BitDepth:   uint16(bits),
		ValidBits:  uint16(bits),
		Mask:       mask,
		SubFormat:  sub,
	}
}

// parse runs ParseHeader over a complete in-memory file.
func parse(b []byte) (Metadata, error) {
	return ParseHeader(b, int64(len(b)))
}
