// SPDX-License-Identifier: EPL-2.0

package wavchan

import (
	"fmt"

	"github.com/ik5/wavchan/audio"
	"github.com/ik5/wavchan/channel"
	"github.com/ik5/wavchan/formats/wav"
	"github.com/ik5/wavchan/sample"
)

// ReadChannel loads every sample of channel pos from the WAVE file at path.
func ReadChannel[T sample.Numeric](path string, pos channel.Position, opts ...wav.Option) ([]T, error) {
	r, err := wav.OpenChannel[T](path, pos, opts...)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	return r.LoadAll()
}

// WriteChannels writes channels to a new WAVE file at path. Channels are
// laid out in position order whatever the map order.
func WriteChannels[T sample.Numeric](path string, sampleRate int, channels map[channel.Position][]T, opts ...wav.WriterOption) error {
	w, err := wav.Create[T](path, sampleRate, opts...)
	if err != nil {
		return err
	}

	for pos, samples := range channels {
		if err := w.Add(pos, sample.Slice[T](samples)); err != nil {
			w.Close()
			return err
		}
	}
	if err := w.Flush(); err != nil {
		w.Close()
		return err
	}
	return nil
}

// ResampleToMono16 reads every channel of the WAVE file at path, averages
// them to mono, resamples to targetRate and returns 16-bit PCM.
func ResampleToMono16(path string, targetRate int, opts ...wav.Option) ([]int16, error) {
	f, err := wav.Open[float32](path, opts...)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var chs []sample.View[float32]
	for pos, r := range f.Channels() {
		samples, err := r.LoadAll()
		if err != nil {
			return nil, fmt.Errorf("%v: %w", pos, err)
		}
		chs = append(chs, sample.Slice[float32](samples))
	}

	mono, err := audio.Downmix(chs...)
	if err != nil {
		return nil, err
	}
	out, err := audio.Resample(mono, int(f.Metadata().SampleRate), targetRate)
	if err != nil {
		return nil, err
	}
	return sample.NewConverter[float32, int16]().ConvertView(out)
}
