// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package status

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/grok-cli/internal/ui/styles"
)

// =============================================================================
// OPTIONS
// =============================================================================

// Options configures a status indicator.
type Options struct {
	// Output receives the spinner frames. Nil disables the spinner.
	Output io.Writer
	// Message is shown next to the spinner
	Message string
	// Disabled runs the task without any indicator
	Disabled bool
	// ShowTimer appends the elapsed time
	ShowTimer bool
}

// =============================================================================
// RUN
// =============================================================================

// doneMsg tells the model the task has finished.
type doneMsg struct{}

// Run executes fn while a spinner animates on opts.Output. The spinner line
// is cleared before Run returns. The result of fn is returned unchanged.
func Run[T any](ctx context.Context, opts Options, fn func(context.Context) (T, error)) (T, error) {
	if opts.Disabled || opts.Output == nil {
		return fn(ctx)
	}

	type result struct {
		value T
		err   error
	}

	p := tea.NewProgram(
		newModel(opts.Message, opts.ShowTimer),
		tea.WithInput(nil),
		tea.WithOutput(opts.Output),
		tea.WithoutSignalHandler(),
		tea.WithContext(ctx),
	)

	done := make(chan result, 1)
	go func() {
		v, err := fn(ctx)
		done <- result{value: v, err: err}
		p.Send(doneMsg{})
	}()

	// The program stops on doneMsg or when ctx ends; either way fn owns the
	// outcome, so its result is awaited and the program error is ignored.
	_, _ = p.Run()
	r := <-done
	return r.value, r.err
}

// =============================================================================
// MODEL
// =============================================================================

// model is the bubbletea model behind Run.
type model struct {
	spinner   spinner.Model
	message   string
	showTimer bool
	startTime time.Time
	done      bool
}

func newModel(message string, showTimer bool) model {
	s := spinner.New()
	// ACCESSIBILITY: ASCII frames render on every terminal font
	s.Spinner = spinner.Spinner{
		Frames: []string{"|", "/", "-", "\\"},
		FPS:    time.Second / 10,
	}
	s.Style = lipgloss.NewStyle().Foreground(styles.Purple)

	if message == "" {
		message = "Thinking"
	}
	return model{
		spinner:   s,
		message:   message,
		showTimer: showTimer,
		startTime: time.Now(),
	}
}

// Init starts the animation.
func (m model) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update advances frames until the task reports completion.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg.(type) {
	case doneMsg:
		m.done = true
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)
	return m, cmd
}

// View renders one status line, or nothing once the task is done.
func (m model) View() string {
	if m.done {
		return ""
	}

	result := m.spinner.View() + " " +
		lipgloss.NewStyle().Foreground(styles.TextSecondary).Render(m.message) +
		lipgloss.NewStyle().Foreground(styles.Purple).Render("...")

	if m.showTimer {
		result += lipgloss.NewStyle().
			Foreground(styles.TextMuted).
			Render(" (" + formatElapsed(time.Since(m.startTime)) + ")")
	}
	return result
}

// formatElapsed formats a duration for the status line.
func formatElapsed(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	return fmt.Sprintf("%dm%02ds", int(d.Minutes()), int(d.Seconds())%60)
}
