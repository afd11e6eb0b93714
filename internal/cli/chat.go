// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// chat.go - Interactive chat session for grok.
//
// USABILITY: Line editing with history, inline math images
//
// Interactive Commands (during chat):
//   clear, cls          Clear the screen (conversation is kept)
//   Ctrl+C, Ctrl+D      Exit chat

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/peterh/liner"
	"golang.org/x/text/unicode/norm"
	"pkt.systems/pslog"

	"github.com/jeranaias/grok-cli/internal/model"
	"github.com/jeranaias/grok-cli/internal/ui/status"
	"github.com/jeranaias/grok-cli/internal/util"
)

// maxLogWidth bounds free text in debug fields.
const maxLogWidth = 160

// =============================================================================
// COLLABORATORS
// =============================================================================

// LineReader reads one line of user input.
type LineReader interface {
	ReadLine(prompt string) (string, error)
}

// Backend exchanges the transcript for a reply.
type Backend interface {
	Exchange(ctx context.Context, messages []model.Message, opts model.GenerationOptions) (*model.Response, error)
}

// ResponseRenderer writes reply text to the terminal.
type ResponseRenderer interface {
	Render(ctx context.Context, text string) error
}

// =============================================================================
// SESSION STATE
// =============================================================================

// ChatSession holds the state for an interactive chat session.
// The transcript is owned by the session and only grows.
type ChatSession struct {
	// ID tags log lines for this session
	ID string

	// Conversation history, seeded with the system prompt
	Transcript *model.Transcript

	// Options passed with every exchange
	Options model.GenerationOptions

	Input    LineReader
	Backend  Backend
	Renderer ResponseRenderer
	Out      io.Writer

	// Banner is printed once before the first prompt
	Banner string

	// Spinner shows a status line while waiting for the backend
	Spinner bool

	// Clear erases the terminal for the clear directive
	Clear func(io.Writer)
}

// NewChatSession creates a session seeded with SystemPrompt.
func NewChatSession(input LineReader, backend Backend, renderer ResponseRenderer, out io.Writer) *ChatSession {
	return &ChatSession{
		ID:         uuid.NewString(),
		Transcript: model.NewTranscript(SystemPrompt),
		Input:      input,
		Backend:    backend,
		Renderer:   renderer,
		Out:        out,
		Clear:      ClearScreen,
	}
}

// =============================================================================
// MAIN LOOP
// =============================================================================

// Run reads and answers input until ctx is cancelled or the user
// interrupts the prompt. Turn failures are reported inline and never end
// the loop. Run returns nil on interruption; only an unexpected input
// error is returned.
func (s *ChatSession) Run(ctx context.Context) error {
	log := pslog.Ctx(ctx).With("session", s.ID)
	ctx = pslog.ContextWithLogger(ctx, log)

	if s.Banner != "" {
		fmt.Fprintln(s.Out, s.Banner)
	}

	for {
		if ctx.Err() != nil {
			log.Debug("session cancelled")
			return nil
		}

		line, err := s.readLine(ctx)
		if err != nil {
			if ctx.Err() != nil || isInterrupt(err) {
				log.Debug("session ended", "reason", err)
				return nil
			}
			return fmt.Errorf("read input: %w", err)
		}

		input := normalizeInput(line)
		switch {
		case input == "":
			continue
		case isClearDirective(input):
			s.Clear(s.Out)
			continue
		}

		s.turn(ctx, input)
	}
}

// lineResult carries one ReadLine outcome across goroutines.
type lineResult struct {
	line string
	err  error
}

// readLine reads on a background goroutine so cancellation unblocks the
// loop even while the reader is waiting on the terminal.
func (s *ChatSession) readLine(ctx context.Context) (string, error) {
	ch := make(chan lineResult, 1)
	go func() {
		line, err := s.Input.ReadLine(UserMarker)
		ch <- lineResult{line: line, err: err}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-ch:
		return r.line, r.err
	}
}

// turn runs one request/response cycle. All failures are reported and
// swallowed; a cancelled exchange renders nothing.
func (s *ChatSession) turn(ctx context.Context, input string) {
	log := pslog.Ctx(ctx)

	prompt := s.Transcript.AppendUser(input)
	messages := s.Transcript.Messages()
	log.Debug("exchange starting",
		"prompt", prompt.Preview(maxLogWidth),
		"turn", s.Transcript.CountByRole(model.RoleUser),
	)

	start := time.Now()
	resp, err := status.Run(ctx, status.Options{
		Output:    s.Out,
		Message:   "Thinking",
		Disabled:  !s.Spinner,
		ShowTimer: true,
	}, func(ctx context.Context) (*model.Response, error) {
		return s.Backend.Exchange(ctx, messages, s.Options)
	})
	if err != nil {
		if ctx.Err() != nil {
			log.Debug("exchange cancelled", "elapsed", time.Since(start))
			return
		}
		log.Debug("exchange failed", "err", logField(err), "elapsed", time.Since(start))
		PrintError(s.Out, err)
		return
	}

	s.Transcript.Append(resp.Messages...)
	log.Debug("exchange done", "elapsed", time.Since(start), "messages", len(resp.Messages), "transcript", s.Transcript.Len())

	if resp.Text == "" {
		return
	}
	fmt.Fprint(s.Out, AssistantMarker)
	if err := s.Renderer.Render(ctx, resp.Text); err != nil {
		log.Debug("render failed", "err", logField(err))
		PrintError(s.Out, err)
	}
}

// =============================================================================
// INPUT HELPERS
// =============================================================================

// normalizeInput trims surrounding whitespace and composes the text to NFC
// so visually identical input is sent identically.
func normalizeInput(line string) string {
	return norm.NFC.String(strings.TrimSpace(line))
}

// isClearDirective reports whether input asks to clear the screen.
func isClearDirective(input string) bool {
	return strings.EqualFold(input, "clear") || strings.EqualFold(input, "cls")
}

// logField flattens err to one bounded line for debug output.
func logField(err error) string {
	return util.TruncateWidth(util.OneLine(err.Error()), maxLogWidth)
}

// isInterrupt reports whether err means the user left the prompt.
func isInterrupt(err error) bool {
	return errors.Is(err, io.EOF) || errors.Is(err, liner.ErrPromptAborted)
}
