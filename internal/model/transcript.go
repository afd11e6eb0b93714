// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

// =============================================================================
// TRANSCRIPT TYPE
// =============================================================================

// Transcript is the append-only conversation history of a chat session.
//
// It is seeded with exactly one system message that is never removed. There
// is intentionally no way to delete or edit entries.
// Not safe for concurrent use; the session loop is its only owner.
type Transcript struct {
	messages []Message
}

// NewTranscript creates a transcript seeded with the given system prompt.
func NewTranscript(systemPrompt string) *Transcript {
	return &Transcript{
		messages: []Message{NewSystemMessage(systemPrompt)},
	}
}

// Append adds messages to the end of the transcript.
func (t *Transcript) Append(msgs ...Message) {
	t.messages = append(t.messages, msgs...)
}

// AppendUser creates a user message, appends it and returns it.
func (t *Transcript) AppendUser(content string) Message {
	msg := NewUserMessage(content)
	t.Append(msg)
	return msg
}

// Messages returns a copy of the transcript in order.
func (t *Transcript) Messages() []Message {
	out := make([]Message, len(t.messages))
	copy(out, t.messages)
	return out
}

// Len returns the number of messages, including the system message.
func (t *Transcript) Len() int {
	return len(t.messages)
}

// CountByRole returns how many messages were sent by role.
func (t *Transcript) CountByRole(role Role) int {
	n := 0
	for _, msg := range t.messages {
		if msg.role == role {
			n++
		}
	}
	return n
}
