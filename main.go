// grok - Chat with Grok in the terminal, with inline LaTeX images.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"context"
	"log"
	"os"

	"pkt.systems/psi"
	"pkt.systems/pslog"

	"github.com/jeranaias/grok-cli/internal/cli"
)

func main() {
	psi.Run(submain)
}

// submain runs the command tree under a context that is cancelled on
// SIGINT or SIGTERM.
func submain(ctx context.Context) int {
	// Errors only by default so logs never interleave with chat output.
	logger := pslog.LoggerFromEnv(
		pslog.WithEnvWriter(os.Stderr),
		pslog.WithEnvOptions(pslog.Options{Mode: pslog.ModeConsole, MinLevel: pslog.ErrorLevel}),
	)
	ctx = pslog.ContextWithLogger(ctx, logger)
	log.SetOutput(pslog.LogLogger(logger).Writer())
	log.SetFlags(0)

	root := cli.NewRootCommand()
	root.SetArgs(os.Args[1:])

	if err := root.ExecuteContext(ctx); err != nil {
		cli.PrintError(os.Stderr, err)
		return cli.ExitCode(err)
	}
	return cli.ExitSuccess
}
