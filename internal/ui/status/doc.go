// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package status shows a transient spinner while a blocking task runs.
//
// The spinner is a small bubbletea program that reads no input, so it can
// share the terminal with a line editor between prompts.
//
//	resp, err := status.Run(ctx, status.Options{Output: os.Stdout, Message: "Thinking"},
//	    func(ctx context.Context) (*model.Response, error) {
//	        return backend.Exchange(ctx, msgs, opts)
//	    })
package status
