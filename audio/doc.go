// SPDX-License-Identifier: EPL-2.0

// Package audio provides simple processing on decoded channels.
//
// Everything here works on sample.View[float32] values in [-1, 1] and
// returns views, so steps chain without copying where they can.
//
// # Channel Mixing
//
// Downmix averages any number of channels into one:
//
//	mono, err := audio.Downmix(left, right)
//
// Stereo takes a dedicated path. Channels of unequal length are cut to the
// shortest.
//
// # Resampling
//
// Resample changes the sample rate with Catmull-Rom cubic interpolation:
//
//	out, err := audio.Resample(mono, 44100, 8000)
//
// Upsampling is computed on demand. Downsampling runs a one-pole low-pass
// filter over the input first, which reads and copies it once.
//
// # Typical Pipeline
//
//	f, _ := wav.Open[float32]("stereo.wav")
//	l, _ := f.Channel(channel.FrontLeft)
//	r, _ := f.Channel(channel.FrontRight)
//	left, _ := l.LoadAll()
//	right, _ := r.LoadAll()
//
//	mono, _ := audio.Downmix(sample.Slice[float32](left), sample.Slice[float32](right))
//	out, _ := audio.Resample(mono, int(f.Metadata().SampleRate), 8000)
//	pcm, _ := sample.NewConverter[float32, int16]().ConvertView(out)
package audio
