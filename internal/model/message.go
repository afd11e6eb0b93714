// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jeranaias/grok-cli/internal/util"
)

// =============================================================================
// ROLE TYPE
// =============================================================================

// Role represents the sender of a message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// Valid reports whether r is one of the roles the backend understands.
func (r Role) Valid() bool {
	switch r {
	case RoleSystem, RoleUser, RoleAssistant:
		return true
	}
	return false
}

// =============================================================================
// MESSAGE TYPE
// =============================================================================

// Message is a single conversation entry. Messages are values and are never
// mutated after construction; the unexported fields enforce that outside
// this package.
type Message struct {
	id        string
	role      Role
	content   string
	timestamp time.Time
}

// NewMessage creates a new message with a generated ID.
func NewMessage(role Role, content string) Message {
	return Message{
		id:        uuid.NewString(),
		role:      role,
		content:   content,
		timestamp: time.Now(),
	}
}

// NewSystemMessage creates a new system message.
func NewSystemMessage(content string) Message {
	return NewMessage(RoleSystem, content)
}

// NewUserMessage creates a new user message.
func NewUserMessage(content string) Message {
	return NewMessage(RoleUser, content)
}

// NewAssistantMessage creates a new assistant message.
func NewAssistantMessage(content string) Message {
	return NewMessage(RoleAssistant, content)
}

// ID returns the message identifier.
func (m Message) ID() string { return m.id }

// Role returns who sent the message.
func (m Message) Role() Role { return m.role }

// Content returns the message text.
func (m Message) Content() string { return m.content }

// Timestamp returns the creation time.
func (m Message) Timestamp() time.Time { return m.timestamp }

// IsEmpty returns true if the message has no visible content.
func (m Message) IsEmpty() bool {
	return strings.TrimSpace(m.content) == ""
}

// Preview returns a single-line version of the content truncated to maxWidth
// terminal columns.
func (m Message) Preview(maxWidth int) string {
	return util.TruncateWidth(util.OneLine(m.content), maxWidth)
}

// =============================================================================
// RESPONSE TYPE
// =============================================================================

// Response is the result of one backend exchange.
type Response struct {
	// Messages are the new messages produced by the backend, in order.
	Messages []Message

	// Text is the primary reply text (the first assistant message).
	Text string
}

// NewResponse builds a Response whose Text is taken from the first
// non-empty assistant message.
func NewResponse(messages ...Message) *Response {
	resp := &Response{Messages: messages}
	for _, msg := range messages {
		if msg.Role() == RoleAssistant && !msg.IsEmpty() {
			resp.Text = msg.Content()
			break
		}
	}
	return resp
}

// GenerationOptions are optional per-exchange sampling settings. Nil or
// zero fields leave the backend default in place.
type GenerationOptions struct {
	Temperature *float64
	MaxTokens   int
}
