// SPDX-License-Identifier: EPL-2.0

// Package wav reads and writes multi-channel RIFF WAVE files one channel
// at a time.
//
// # Supported Formats
//
//   - PCM at 8 (unsigned), 16, 24, 32 and 64 bits
//   - IEEE float at 32 and 64 bits
//   - WAVE_FORMAT_EXTENSIBLE headers with a speaker mask
//   - Any sample rate and up to 19 speaker positions
//
// Sources and outputs are limited to MaxSize bytes, the reach of RIFF's
// 32-bit size fields.
//
// # Reading Channels
//
// A ChannelReader decodes one channel and converts every sample to the
// requested type through the sample package:
//
//	r, err := wav.OpenChannel[float32]("surround.wav", channel.FrontLeft)
//	if err != nil {
//	    // Handle error
//	}
//	defer r.Close()
//
//	v, err := r.At(1000)           // random access
//	block, err := r.Range(0, 4096) // contiguous run
//	for s, err := range r.All() {  // sequential
//	    ...
//	}
//
// Samples are cached in a window of WithBufferCapacity bytes (1 MiB by
// default). A miss moves the window so it starts at the requested index.
//
// Use File to open every channel at once:
//
//	f, err := wav.Open[int16]("stereo.wav")
//	left, err := f.Channel(channel.FrontLeft)
//
// Files without a speaker mask get one inferred from their channel count:
// stereo is FrontLeft|FrontRight, eight channels is the fixed 0x33F layout
// (5.1 plus BackCenter and SideLeft), and a single channel is Mono.
//
// # Writing Channels
//
// A Writer collects one sample.View per position and writes them on Flush:
//
//	w, err := wav.Create[float32]("out.wav", 48000, wav.WithBitDepth(16))
//	w.Add(channel.FrontLeft, sample.Slice[float32](left))
//	w.Add(channel.FrontRight, sample.Slice[float32](right))
//	err = w.Flush()
//
// Channels are interleaved in ascending position order and truncated to
// the shortest one. A lone Mono channel gets the canonical 44-byte header,
// everything else an extensible header carrying the speaker mask. Without
// options the bit depth and format follow the sample type.
//
// # Error Handling
//
// Errors wrap the sentinels in errors.go and are matched with errors.Is:
//
//	if errors.Is(err, wav.ErrChannelNotFound) {
//	    ...
//	}
//
// I/O errors from the underlying source are returned wrapped, unchanged
// in identity.
package wav
