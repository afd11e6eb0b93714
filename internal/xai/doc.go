// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package xai provides the xAI Grok chat completions client.
//
// The API is OpenAI-compatible: the full transcript is POSTed to
// /chat/completions and the first choice is the reply. Rate limiting and
// server errors are retried with exponential backoff; authentication,
// billing and model errors map to sentinel errors usable with errors.Is.
//
//	client := xai.NewClient(os.Getenv("XAI_API_KEY")).WithModel("grok-4")
//	resp, err := client.Exchange(ctx, transcript.Messages(), model.GenerationOptions{})
//	if errors.Is(err, xai.ErrAuthFailed) {
//	    // prompt for a new key
//	}
package xai
