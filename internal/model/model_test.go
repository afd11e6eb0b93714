// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// =============================================================================
// TRANSCRIPT TESTS
// =============================================================================

func TestTranscript_SeededWithSystemMessage(t *testing.T) {
	tr := NewTranscript("be terse")

	require.Equal(t, 1, tr.Len())
	msgs := tr.Messages()
	require.Equal(t, RoleSystem, msgs[0].Role())
	require.Equal(t, "be terse", msgs[0].Content())
	require.Equal(t, 1, tr.CountByRole(RoleSystem))
}

func TestTranscript_AppendOnly(t *testing.T) {
	tr := NewTranscript("sys")
	user := tr.AppendUser("hi")
	tr.Append(NewAssistantMessage("hello"), NewAssistantMessage("again"))

	msgs := tr.Messages()
	require.Len(t, msgs, 4)
	require.Equal(t, user.ID(), msgs[1].ID())
	require.Equal(t, RoleAssistant, msgs[3].Role())
	require.Equal(t, 2, tr.CountByRole(RoleAssistant))

	// Mutating the returned slice must not affect the transcript.
	msgs[0] = NewUserMessage("evil")
	require.Equal(t, RoleSystem, tr.Messages()[0].Role())
}

func TestMessage_UniqueIDs(t *testing.T) {
	a := NewUserMessage("x")
	b := NewUserMessage("x")
	require.NotEmpty(t, a.ID())
	require.NotEqual(t, a.ID(), b.ID())
}

func TestMessage_Preview(t *testing.T) {
	msg := NewUserMessage("line one\nline   two")
	require.Equal(t, "line one line two", msg.Preview(80))
	require.Equal(t, "line...", msg.Preview(7))
}

func TestRole(t *testing.T) {
	tests := []struct {
		role  Role
		valid bool
	}{
		{RoleUser, true},
		{RoleAssistant, true},
		{RoleSystem, true},
		{Role("tool"), false},
	}

	for _, tc := range tests {
		t.Run(tc.role.String(), func(t *testing.T) {
			require.Equal(t, tc.valid, tc.role.Valid())
		})
	}
}

// =============================================================================
// RESPONSE TESTS
// =============================================================================

func TestNewResponse_TextFromFirstAssistant(t *testing.T) {
	resp := NewResponse(
		NewAssistantMessage("  "),
		NewAssistantMessage("answer"),
		NewAssistantMessage("later"),
	)
	require.Len(t, resp.Messages, 3)
	require.Equal(t, "answer", resp.Text)
}

func TestNewResponse_Empty(t *testing.T) {
	resp := NewResponse()
	require.Empty(t, resp.Messages)
	require.Empty(t, resp.Text)
}
