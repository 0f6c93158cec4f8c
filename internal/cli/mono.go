// SPDX-License-Identifier: EPL-2.0

package cli

import (
	"github.com/ik5/wavchan"
	"github.com/ik5/wavchan/channel"
	"github.com/mudler/xlog"
)

type MonoCMD struct {
	File   string `arg:"" type:"existingfile" help:"Source WAVE file"`
	Output string `short:"o" required:"" type:"path" help:"Mono 16-bit WAVE file to write"`
	Rate   int    `short:"r" env:"WAVCHAN_RATE" default:"8000" help:"Output sample rate in Hz"`
}

func (c *MonoCMD) Run(ctx *Context) error {
	pcm16, err := wavchan.ResampleToMono16(c.File, c.Rate, ctx.readerOptions()...)
	if err != nil {
		return err
	}
	if err := wavchan.WriteChannels(c.Output, c.Rate, map[channel.Position][]int16{channel.Mono: pcm16}); err != nil {
		return err
	}

	xlog.Info("mixed down", "samples", len(pcm16), "rate", c.Rate, "output", c.Output)
	return nil
}
