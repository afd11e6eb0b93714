// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// terminal.go - Terminal detection and handling for grok.
//
// USABILITY: TTY detection for proper terminal handling

package cli

import (
	"io"
	"os"

	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// =============================================================================
// TTY DETECTION
// =============================================================================

// IsStdoutTTY returns true if stdout is a terminal.
// Spinners and inline images are only drawn on a terminal.
func IsStdoutTTY() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// =============================================================================
// COLOR OUTPUT CONTROL
// =============================================================================

// ColorProfile returns the termenv profile for a ui.color setting.
// "never" disables color, "always" forces 256 colors even when piped,
// and "auto" detects from the terminal and environment.
func ColorProfile(mode string) termenv.Profile {
	switch mode {
	case "never":
		return termenv.Ascii
	case "always":
		// Profiles order from richest (TrueColor) to poorest (Ascii).
		if p := termenv.ColorProfile(); p < termenv.ANSI256 {
			return p
		}
		return termenv.ANSI256
	default:
		if !IsStdoutTTY() {
			return termenv.Ascii
		}
		return termenv.EnvColorProfile()
	}
}

// =============================================================================
// SCREEN CONTROL
// =============================================================================

// ClearScreen erases the terminal and moves the cursor home.
func ClearScreen(w io.Writer) {
	termenv.NewOutput(w).ClearScreen()
}
