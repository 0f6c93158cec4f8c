// SPDX-License-Identifier: EPL-2.0

package cli

import (
	"fmt"

	"github.com/ik5/wavchan/channel"
)

type InfoCMD struct {
	File string `arg:"" type:"existingfile" help:"WAVE file to inspect"`
}

func (c *InfoCMD) Run(ctx *Context) error {
	meta, err := readMetadata(c.File)
	if err != nil {
		return err
	}

	format := meta.Format.String()
	if meta.Extensible {
		format += " (extensible)"
	}
	bits := fmt.Sprint(meta.BitDepth)
	if meta.ValidBits != meta.BitDepth {
		bits = fmt.Sprintf("%d (%d valid)", meta.BitDepth, meta.ValidBits)
	}

	out := ctx.stdout()
	fmt.Fprintf(out, "File:        %s\n", c.File)
	fmt.Fprintf(out, "Format:      %s\n", format)
	fmt.Fprintf(out, "Sample rate: %d Hz\n", meta.SampleRate)
	fmt.Fprintf(out, "Bit depth:   %s\n", bits)
	fmt.Fprintf(out, "Channels:    %d (%s)\n", meta.Channels, channel.FormatMask(meta.SpeakerMask))
	fmt.Fprintf(out, "Samples:     %d\n", meta.Samples())
	fmt.Fprintf(out, "Duration:    %v\n", meta.Duration())
	return nil
}
