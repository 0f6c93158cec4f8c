// SPDX-License-Identifier: EPL-2.0

// Package wavchan reads and writes multi-channel WAVE audio one channel at
// a time, with samples in any of eleven numeric representations.
//
// This package offers one-call helpers over the subpackages. Use them
// directly for more control:
//   - sample: views over sample storage and the conversion engine
//   - channel: speaker positions and mask resolution
//   - formats/wav: header parsing, channel readers and the writer
//   - audio: downmixing and resampling
//
// # Supported Formats
//
// PCM at 8, 16, 24, 32 and 64 bits and IEEE float at 32 and 64 bits, in
// canonical or WAVE_FORMAT_EXTENSIBLE headers. Sample types are int8,
// uint8, int16, uint16, int32, uint32, int64, uint64, float32, float64 and
// decimal.Decimal. Integers are full-scale fixed point; floats and
// decimals are in [-1, 1].
//
// # Quick Start
//
// Read one channel of a file:
//
//	left, err := wavchan.ReadChannel[float32]("stereo.wav", channel.FrontLeft)
//
// Write channels to a new file:
//
//	err := wavchan.WriteChannels("out.wav", 48000, map[channel.Position][]float32{
//	    channel.FrontLeft:  left,
//	    channel.FrontRight: right,
//	}, wav.WithBitDepth(24))
//
// Mix a whole file down to 16-bit mono at another rate:
//
//	pcm16, err := wavchan.ResampleToMono16("surround.wav", 8000)
//
// # Conversion
//
// Every pair of sample types converts through a table built once per
// process:
//
//	v := sample.Convert[int16, float32](16384) // 0.5
//	c := sample.NewConverter[float32, uint8]()
//	b := c.Convert(-1) // 0
//
// Narrowing rounds half away from zero and clamps to the target range.
//
// See the individual subpackages for more detailed documentation.
package wavchan
