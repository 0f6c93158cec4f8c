// SPDX-License-Identifier: EPL-2.0

package audiotest

import (
	"math"

	"github.com/ik5/wavchan/sample"
	"github.com/ik5/wavchan/utils"
)

// Signal is a deterministic multi-channel test waveform. Values are in
// [-1, 1].
type Signal struct {
	SampleRate int
	Channels   int
	Samples    int // per channel
	wave       func(sample int, channel int) float64
}

// NewSignal creates a signal from a waveform function of sample index and
// channel.
func NewSignal(sampleRate, channels, samples int, wave func(sample int, channel int) float64) *Signal {
	return &Signal{
		SampleRate: sampleRate,
		Channels:   channels,
		Samples:    samples,
		wave:       wave,
	}
}

// Silence is all zeros.
func Silence(sampleRate, channels, samples int) *Signal {
	return NewSignal(sampleRate, channels, samples, func(int, int) float64 { return 0 })
}

// Sine is a full-scale sine starting at phase zero on every channel.
func Sine(sampleRate, channels, samples int, frequency float64) *Signal {
	return NewSignal(sampleRate, channels, samples, func(sample int, _ int) float64 {
		t := float64(sample) / float64(sampleRate)
		return math.Sin(2 * math.Pi * frequency * t)
	})
}

// Constant holds value on every channel.
func Constant(sampleRate, channels, samples int, value float64) *Signal {
	return NewSignal(sampleRate, channels, samples, func(int, int) float64 { return value })
}

// Ramp rises linearly from -1 towards 1. Odd channels are inverted so
// every channel of a stereo pair is distinguishable.
func Ramp(sampleRate, channels, samples int) *Signal {
	return NewSignal(sampleRate, channels, samples, func(sample int, channel int) float64 {
		v := -1 + 2*float64(sample)/float64(samples)
		if channel%2 == 1 {
			return -v
		}
		return v
	})
}

// At returns one sample of one channel.
func (s *Signal) At(sample, channel int) float64 { return s.wave(sample, channel) }

// Channel renders a single channel.
func (s *Signal) Channel(channel int) []float64 {
	out := make([]float64, s.Samples)
	for i := range out {
		out[i] = s.wave(i, channel)
	}
	return out
}

// View renders a single channel as float32 samples.
func (s *Signal) View(channel int) sample.Slice[float32] {
	out := make(sample.Slice[float32], s.Samples)
	for i := range out {
		out[i] = float32(s.wave(i, channel))
	}
	return out
}

// Interleaved renders every channel in frame order.
func (s *Signal) Interleaved() []float64 {
	out := make([]float64, 0, s.Samples*s.Channels)
	for i := range s.Samples {
		for ch := range s.Channels {
			out = append(out, s.wave(i, ch))
		}
	}
	return out
}

// PCM16 renders the interleaved signal as little-endian 16-bit PCM bytes.
func (s *Signal) PCM16() []byte {
	vs := s.Interleaved()
	out := make([]int16, len(vs))
	for i, v := range vs {
		out[i] = int16(utils.FloatToFixed(v, 16))
	}
	return Bytes(out)
}
