// SPDX-License-Identifier: EPL-2.0

package cli

import (
	"github.com/ik5/wavchan"
	"github.com/ik5/wavchan/channel"
	"github.com/ik5/wavchan/formats/wav"
	"github.com/ik5/wavchan/sample"
	"github.com/mudler/xlog"
)

type ExtractCMD struct {
	File    string `arg:"" type:"existingfile" help:"Source WAVE file"`
	Channel string `short:"c" required:"" help:"Speaker position to extract: a name, short name or hex flag"`
	Output  string `short:"o" required:"" type:"path" help:"Mono WAVE file to write"`
	Bits    int    `env:"WAVCHAN_BITS" default:"0" help:"Output bit depth: 8, 16, 24, 32 or 64 (0 keeps the source depth)"`
	Format  string `default:"source" enum:"source,pcm,float" help:"Output sample format [${enum}]"`
}

func (c *ExtractCMD) Run(ctx *Context) error {
	pos, err := channel.ParsePosition(c.Channel)
	if err != nil {
		return err
	}
	format, err := parseFormat(c.Format)
	if err != nil {
		return err
	}
	meta, err := readMetadata(c.File)
	if err != nil {
		return err
	}

	bits := c.Bits
	if bits == 0 {
		bits = int(meta.BitDepth)
	}
	if format == wav.Unknown {
		format = meta.Format
	}

	// Integer sources go through int64 so no precision is lost on the way.
	if meta.Format == wav.FloatingPoint {
		return extract[float64](ctx, c, pos, bits, format)
	}
	return extract[int64](ctx, c, pos, bits, format)
}

func extract[T sample.Numeric](ctx *Context, c *ExtractCMD, pos channel.Position, bits int, format wav.Format) error {
	r, err := wav.OpenChannel[T](c.File, pos, ctx.readerOptions()...)
	if err != nil {
		return err
	}
	defer r.Close()

	samples, err := r.LoadAll()
	if err != nil {
		return err
	}

	err = wavchan.WriteChannels(c.Output, int(r.Metadata().SampleRate),
		map[channel.Position][]T{channel.Mono: samples},
		wav.WithBitDepth(bits), wav.WithFormat(format))
	if err != nil {
		return err
	}

	xlog.Info("channel extracted", "position", pos, "samples", len(samples), "bits", bits, "output", c.Output)
	return nil
}
