// SPDX-License-Identifier: EPL-2.0

package main

import (
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"
	"github.com/ik5/wavchan/internal/cli"
	"github.com/mudler/xlog"
)

func main() {
	// Start at info; the level from the flags is applied after parsing.
	xlog.SetLogger(xlog.NewLogger(xlog.LogLevel("info"), "text"))

	envFiles := []string{".env", "wavchan.env"}
	if home, err := os.UserHomeDir(); err == nil {
		envFiles = append(envFiles, filepath.Join(home, ".config/wavchan.env"))
	}
	cli.LoadEnvFiles(envFiles...)

	var app cli.CLI
	ctx := kong.Parse(&app,
		kong.Name("wavchan"),
		kong.Description("Inspect, split and merge multi-channel WAVE files."),
		kong.UsageOnError(),
	)

	xlog.SetLogger(xlog.NewLogger(xlog.LogLevel(app.LogLevel), app.LogFormat))
	app.Out = os.Stdout

	if err := ctx.Run(&app.Context); err != nil {
		xlog.Fatal("Error running wavchan", "error", err)
	}
}
