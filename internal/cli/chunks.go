// SPDX-License-Identifier: EPL-2.0

package cli

import (
	"fmt"
	"os"

	"github.com/ik5/wavchan/formats/wav"
)

type ChunksCMD struct {
	File string `arg:"" type:"existingfile" help:"WAVE file to inspect"`
}

func (c *ChunksCMD) Run(ctx *Context) error {
	f, err := os.Open(c.File)
	if err != nil {
		return fmt.Errorf("%w", err)
	}
	defer f.Close()

	chunks, err := wav.ListChunks(f)
	if err != nil {
		return err
	}

	out := ctx.stdout()
	fmt.Fprintf(out, "%-4s %10s %10s\n", "ID", "OFFSET", "SIZE")
	for _, ch := range chunks {
		fmt.Fprintf(out, "%-4s %10d %10d\n", ch.ID, ch.Offset, ch.Size)
	}
	return nil
}
