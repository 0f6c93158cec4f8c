// SPDX-License-Identifier: EPL-2.0

// Package cli holds the wavchan command line.
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/ik5/wavchan/formats/wav"
	"github.com/joho/godotenv"
	"github.com/mudler/xlog"
)

// Context carries the global flags into every command.
type Context struct {
	LogLevel       string `env:"WAVCHAN_LOG_LEVEL" default:"info" enum:"error,warn,info,debug" help:"Set the level of logs to output [${enum}]"`
	LogFormat      string `env:"WAVCHAN_LOG_FORMAT" default:"default" enum:"default,text,json" help:"Set the format of logs to output [${enum}]"`
	BufferCapacity int    `env:"WAVCHAN_BUFFER_CAPACITY" default:"1048576" help:"Bytes of decoded samples cached per channel"`

	Out io.Writer `kong:"-"`
}

// CLI is the root of the command tree.
type CLI struct {
	Context `embed:""`

	Info    InfoCMD    `cmd:"" help:"Show the format and speaker layout of a WAVE file"`
	Chunks  ChunksCMD  `cmd:"" help:"List the RIFF chunks of a WAVE file"`
	Extract ExtractCMD `cmd:"" help:"Copy one channel of a WAVE file to a mono file"`
	Merge   MergeCMD   `cmd:"" help:"Combine mono files into one multi-channel file"`
	Mono    MonoCMD    `cmd:"" help:"Mix every channel down to 16-bit mono at a new sample rate"`
}

func (c *Context) stdout() io.Writer {
	if c.Out == nil {
		return os.Stdout
	}
	return c.Out
}

func (c *Context) readerOptions() []wav.Option {
	return []wav.Option{wav.WithBufferCapacity(c.BufferCapacity)}
}

// LoadEnvFiles loads every file that exists, without overriding variables
// already set, and returns the ones it loaded.
func LoadEnvFiles(files ...string) []string {
	var loaded []string
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		xlog.Debug("env file found, loading environment variables from file", "envFile", f)
		if err := godotenv.Load(f); err != nil {
			xlog.Error("failed to load environment variables from file", "error", err, "envFile", f)
			continue
		}
		loaded = append(loaded, f)
	}
	return loaded
}

// readMetadata parses the header of the WAVE file at path.
func readMetadata(path string) (wav.Metadata, error) {
	f, err := os.Open(path)
	if err != nil {
		return wav.Metadata{}, fmt.Errorf("%w", err)
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return wav.Metadata{}, fmt.Errorf("%w", err)
	}
	return wav.ReadMetadata(f, st.Size())
}

// parseFormat maps the --format flag. "source" yields wav.Unknown, which
// lets the caller keep the source format.
func parseFormat(s string) (wav.Format, error) {
	switch s {
	case "", "source":
		return wav.Unknown, nil
	case "pcm":
		return wav.PCM, nil
	case "float":
		return wav.FloatingPoint, nil
	default:
		return wav.Unknown, fmt.Errorf("%w: format %q", wav.ErrInvalidArgument, s)
	}
}
