// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// errors.go - Error presentation for grok.
//
// STANDARDIZED PATTERN:
//   - Commands return errors; main decides how to display them
//   - Turn errors are shown inline and never end the session
//   - Known backend failures carry a hint for the user

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/jeranaias/grok-cli/internal/config"
	"github.com/jeranaias/grok-cli/internal/ui/styles"
	"github.com/jeranaias/grok-cli/internal/xai"
)

// =============================================================================
// EXIT CODES
// =============================================================================

const (
	// ExitSuccess indicates successful execution
	ExitSuccess = 0
	// ExitGeneralError indicates a general/unknown error
	ExitGeneralError = 1
	// ExitConfigError indicates configuration file or settings error
	ExitConfigError = 3
	// ExitAuthError indicates a missing or rejected API key
	ExitAuthError = 4
)

// ExitCode maps an error returned by a command to a process exit code.
func ExitCode(err error) int {
	var verrs config.ValidateErrors
	switch {
	case err == nil:
		return ExitSuccess
	case errors.As(err, &verrs):
		return ExitConfigError
	case errors.Is(err, xai.ErrNotConfigured), errors.Is(err, xai.ErrAuthFailed):
		return ExitAuthError
	default:
		return ExitGeneralError
	}
}

// PrintError writes err to w in the error style.
func PrintError(w io.Writer, err error) {
	fmt.Fprintln(w, styles.RenderError(describeError(err)))
}

// describeError returns the user-facing text for err, with a hint for
// the failures a user can fix.
func describeError(err error) string {
	var hint string
	switch {
	case errors.Is(err, xai.ErrNotConfigured):
		hint = "set XAI_API_KEY, pass --key, or add api_key under [backend] in the config file"
	case errors.Is(err, xai.ErrAuthFailed):
		hint = "check that your API key is valid"
	case errors.Is(err, xai.ErrRateLimited):
		hint = "wait a moment and try again"
	case errors.Is(err, xai.ErrModelNotFound):
		hint = "check backend.model in the config file"
	case errors.Is(err, xai.ErrInsufficientCredits):
		hint = "add credits to your xAI account"
	case errors.Is(err, context.DeadlineExceeded):
		return "request timed out"
	}
	if hint == "" {
		return err.Error()
	}
	return fmt.Sprintf("%v (%s)", err, hint)
}
