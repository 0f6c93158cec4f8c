// SPDX-License-Identifier: EPL-2.0

package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/ik5/wavchan/channel"
	"github.com/ik5/wavchan/formats/wav"
	"github.com/ik5/wavchan/sample"
	"github.com/mudler/xlog"
)

type MergeCMD struct {
	Inputs []string `arg:"" help:"Channels as position=file pairs, e.g. fl=left.wav fr=right.wav"`
	Output string   `short:"o" required:"" type:"path" help:"Multi-channel WAVE file to write"`
	Bits   int      `env:"WAVCHAN_BITS" default:"0" help:"Output bit depth: 8, 16, 24, 32 or 64 (0 keeps the widest input)"`
	Format string   `default:"source" enum:"source,pcm,float" help:"Output sample format [${enum}]"`
}

// mergeInput is one parsed position=file pair.
type mergeInput struct {
	pos  channel.Position
	path string
	meta wav.Metadata
}

func (c *MergeCMD) Run(ctx *Context) error {
	format, err := parseFormat(c.Format)
	if err != nil {
		return err
	}

	inputs := make([]mergeInput, 0, len(c.Inputs))
	for _, arg := range c.Inputs {
		in, err := parseMergeInput(arg)
		if err != nil {
			return err
		}
		if len(inputs) > 0 && in.meta.SampleRate != inputs[0].meta.SampleRate {
			return fmt.Errorf("%w: %s is %d Hz, %s is %d Hz", wav.ErrInvalidArgument,
				in.path, in.meta.SampleRate, inputs[0].path, inputs[0].meta.SampleRate)
		}
		inputs = append(inputs, in)
	}
	if len(inputs) == 0 {
		return fmt.Errorf("%w: no inputs", wav.ErrInvalidArgument)
	}

	bits, anyFloat := c.Bits, false
	for _, in := range inputs {
		if c.Bits == 0 {
			bits = max(bits, int(in.meta.BitDepth))
		}
		anyFloat = anyFloat || in.meta.Format == wav.FloatingPoint
	}
	if format == wav.Unknown {
		format = wav.PCM
		if anyFloat {
			format = wav.FloatingPoint
		}
	}

	if anyFloat {
		return merge[float64](ctx, c, inputs, bits, format)
	}
	return merge[int64](ctx, c, inputs, bits, format)
}

func parseMergeInput(arg string) (mergeInput, error) {
	name, path, ok := strings.Cut(arg, "=")
	if !ok || path == "" {
		return mergeInput{}, fmt.Errorf("%w: %q is not position=file", wav.ErrInvalidArgument, arg)
	}
	pos, err := channel.ParsePosition(name)
	if err != nil {
		return mergeInput{}, err
	}
	meta, err := readMetadata(path)
	if err != nil {
		return mergeInput{}, fmt.Errorf("%s: %w", path, err)
	}
	return mergeInput{pos: pos, path: path, meta: meta}, nil
}

// merge takes the first channel of every input. The output is only created
// once every input has been read, and removed again if writing fails.
func merge[T sample.Numeric](ctx *Context, c *MergeCMD, inputs []mergeInput, bits int, format wav.Format) error {
	channels := make([][]T, len(inputs))
	for i, in := range inputs {
		samples, err := readFirstChannel[T](ctx, in)
		if err != nil {
			return fmt.Errorf("%s: %w", in.path, err)
		}
		channels[i] = samples
	}

	w, err := wav.Create[T](c.Output, int(inputs[0].meta.SampleRate), wav.WithBitDepth(bits), wav.WithFormat(format))
	if err != nil {
		return err
	}
	if err := writeMerged(w, inputs, channels); err != nil {
		w.Close()
		os.Remove(c.Output)
		return err
	}

	xlog.Info("channels merged", "channels", len(inputs), "bits", bits, "format", format, "output", c.Output)
	return nil
}

func writeMerged[T sample.Numeric](w *wav.Writer[T], inputs []mergeInput, channels [][]T) error {
	for i, in := range inputs {
		if err := w.Add(in.pos, sample.Slice[T](channels[i])); err != nil {
			return err
		}
	}
	return w.Flush()
}

func readFirstChannel[T sample.Numeric](ctx *Context, in mergeInput) ([]T, error) {
	r, err := wav.OpenChannel[T](in.path, in.meta.Positions()[0], ctx.readerOptions()...)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	return r.LoadAll()
}
