// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package render

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/x/ansi"
	"pkt.systems/pslog"

	"github.com/jeranaias/grok-cli/internal/markup"
	"github.com/jeranaias/grok-cli/internal/termimg"
	"github.com/jeranaias/grok-cli/internal/ui/styles"
	"github.com/jeranaias/grok-cli/internal/util"
)

const (
	// fallbackRule separates a partial rich render from the plain reply.
	fallbackRule = "─"

	// fallbackRuleWidth is the width of the rule above a plain fallback.
	fallbackRuleWidth = 24

	// maxLogWidth bounds error text in debug log fields.
	maxLogWidth = 160
)

// Formatter resolves reply markup into styled segments.
type Formatter func(text string) ([]markup.Segment, error)

// Pipeline renders one reply: format, scan, then sequence. Any fault in
// those steps, including a panic, falls back to writing the reply as
// plain escaped text.
type Pipeline struct {
	out      io.Writer
	format   Formatter
	renderer BlockRenderer
	encoder  termimg.Encoder
}

// NewPipeline creates a pipeline writing to out.
func NewPipeline(out io.Writer, renderer BlockRenderer, encoder termimg.Encoder) *Pipeline {
	return &Pipeline{
		out:      out,
		format:   markup.Parse,
		renderer: renderer,
		encoder:  encoder,
	}
}

// WithFormatter replaces the markup formatter.
func (p *Pipeline) WithFormatter(f Formatter) *Pipeline {
	p.format = f
	return p
}

// Render writes text to the terminal. It returns an error only when the
// plain fallback itself cannot be written.
func (p *Pipeline) Render(ctx context.Context, text string) error {
	tw := &trackingWriter{w: p.out}
	err := p.rich(ctx, tw, text)
	if err == nil {
		return nil
	}
	pslog.Ctx(ctx).Debug("rich render failed, writing plain reply",
		"err", util.TruncateWidth(util.OneLine(err.Error()), maxLogWidth),
		"partial", tw.n > 0)
	return p.fallback(tw, text)
}

func (p *Pipeline) rich(ctx context.Context, w io.Writer, text string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("render panic: %v", r)
		}
	}()

	segs, err := p.format(text)
	if err != nil {
		return fmt.Errorf("format: %w", err)
	}
	seq := NewSequencer(w, p.renderer, p.encoder)
	if err := seq.Emit(ctx, Scan(segs)); err != nil {
		return fmt.Errorf("emit: %w", err)
	}
	return seq.Finish()
}

// fallback writes text as plain escaped output. When the rich pass
// already wrote part of the reply, the plain copy starts on its own line
// below a rule so the partial output reads as abandoned.
func (p *Pipeline) fallback(tw *trackingWriter, text string) error {
	var b strings.Builder
	if tw.n > 0 {
		if tw.last != '\n' {
			b.WriteString("\n")
		}
		b.WriteString(styles.RenderMuted(util.Rule(fallbackRule, fallbackRuleWidth)))
		b.WriteString("\n")
	}
	b.WriteString(Escape(text))
	b.WriteString("\n")
	if _, err := io.WriteString(p.out, b.String()); err != nil {
		return fmt.Errorf("write reply: %w", err)
	}
	return nil
}

// trackingWriter counts bytes written and remembers the last one.
type trackingWriter struct {
	w    io.Writer
	n    int
	last byte
}

func (t *trackingWriter) Write(b []byte) (int, error) {
	n, err := t.w.Write(b)
	if n > 0 {
		t.n += n
		t.last = b[n-1]
	}
	return n, err
}

// Escape strips terminal escape sequences and control characters other
// than newline and tab, so reply text cannot drive the terminal.
func Escape(text string) string {
	text = ansi.Strip(text)
	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return r
		}
		if r < 0x20 || r == 0x7f || (r >= 0x80 && r < 0xa0) {
			return -1
		}
		return r
	}, text)
}
