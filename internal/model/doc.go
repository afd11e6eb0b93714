// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversations and messages.
//
// # Key Types
//
//   - Role: Message role enumeration (system, user, assistant)
//   - Message: Immutable message value with ID, role, content and timestamp
//   - Transcript: Append-only history seeded with one system message
//   - Response: New messages returned by one backend exchange
//   - GenerationOptions: Optional sampling settings for an exchange
//
// # Usage
//
//	t := model.NewTranscript(systemPrompt)
//	t.AppendUser("What is the derivative of x^2?")
//	resp, err := backend.Exchange(ctx, t.Messages(), model.GenerationOptions{})
//	if err == nil {
//	    t.Append(resp.Messages...)
//	}
package model
