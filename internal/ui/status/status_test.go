// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package status

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/require"
)

func TestRun_DisabledCallsFnDirectly(t *testing.T) {
	var buf bytes.Buffer
	got, err := Run(context.Background(), Options{Output: &buf, Disabled: true},
		func(context.Context) (int, error) { return 42, nil })
	require.NoError(t, err)
	require.Equal(t, 42, got)
	require.Empty(t, buf.String())
}

func TestRun_NilOutputCallsFnDirectly(t *testing.T) {
	got, err := Run(context.Background(), Options{},
		func(context.Context) (string, error) { return "ok", nil })
	require.NoError(t, err)
	require.Equal(t, "ok", got)
}

func TestRun_ReturnsResultAndError(t *testing.T) {
	var buf bytes.Buffer
	boom := errors.New("boom")

	got, err := Run(context.Background(), Options{Output: &buf, Message: "Waiting"},
		func(context.Context) (int, error) {
			time.Sleep(50 * time.Millisecond)
			return 7, boom
		})
	require.ErrorIs(t, err, boom)
	require.Equal(t, 7, got)
}

func TestRun_CancelledContextWaitsForFn(t *testing.T) {
	var buf bytes.Buffer
	ctx, cancel := context.WithCancel(context.Background())

	started := make(chan struct{})
	go func() {
		<-started
		cancel()
	}()

	_, err := Run(ctx, Options{Output: &buf},
		func(ctx context.Context) (int, error) {
			close(started)
			<-ctx.Done()
			return 0, ctx.Err()
		})
	require.ErrorIs(t, err, context.Canceled)
}

func TestModel_View(t *testing.T) {
	m := newModel("", true)
	view := ansi.Strip(m.View())
	require.Contains(t, view, "Thinking...")
	require.Contains(t, view, "(0s)")

	next, cmd := m.Update(doneMsg{})
	require.NotNil(t, cmd)
	require.Empty(t, next.View())
}

func TestFormatElapsed(t *testing.T) {
	require.Equal(t, "0s", formatElapsed(200*time.Millisecond))
	require.Equal(t, "59s", formatElapsed(59*time.Second))
	require.Equal(t, "2m05s", formatElapsed(125*time.Second))
}
