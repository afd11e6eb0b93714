// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package render

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"pkt.systems/pslog"

	"github.com/jeranaias/grok-cli/internal/termimg"
	"github.com/jeranaias/grok-cli/internal/ui/styles"
)

// Sequencer writes spans to a terminal strictly in order. Block spans are
// rendered synchronously, so nothing after a block is written before the
// block has resolved.
type Sequencer struct {
	out      io.Writer
	renderer BlockRenderer
	encoder  termimg.Encoder

	// lineStart is true when the cursor is at column zero.
	lineStart bool
}

// NewSequencer creates a sequencer. A nil encoder means the terminal
// cannot show images: block sources are written dimmed and the renderer
// is never called.
func NewSequencer(out io.Writer, renderer BlockRenderer, encoder termimg.Encoder) *Sequencer {
	return &Sequencer{
		out:       out,
		renderer:  renderer,
		encoder:   encoder,
		lineStart: true,
	}
}

// Emit writes spans in order. Only write errors are returned; render and
// encode failures degrade to text for that block.
func (s *Sequencer) Emit(ctx context.Context, spans []Span) error {
	for i, span := range spans {
		var err error
		switch span.Kind {
		case SpanPlain:
			err = s.writePlain(span)
		case SpanBlock:
			err = s.writeBlock(ctx, span.Block)
		default:
			err = fmt.Errorf("span %d: unknown kind %d", i, span.Kind)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// Finish terminates the current line if output did not end with one.
func (s *Sequencer) Finish() error {
	if s.lineStart {
		return nil
	}
	return s.write("\n")
}

func (s *Sequencer) writePlain(span Span) error {
	for _, seg := range span.Segments {
		if err := s.write(seg.Render()); err != nil {
			return err
		}
	}
	return nil
}

func (s *Sequencer) writeBlock(ctx context.Context, block string) error {
	log := pslog.Ctx(ctx)

	if s.encoder == nil || s.renderer == nil {
		return s.writeSource(block)
	}

	result := s.renderer.RenderBlock(ctx, block)
	if !result.OK() {
		log.Debug("latex block failed", "reason", result.Reason)
		return s.writeFailure(result)
	}

	// Encode fully before writing so a failed encode leaves no partial
	// escape sequence on the terminal.
	var img bytes.Buffer
	if err := s.encoder.Encode(&img, result.Image); err != nil {
		log.Debug("latex block encode failed", "err", err)
		return s.writeFailure(RenderedBlock{Source: block, Reason: err.Error()})
	}

	if err := s.newline(); err != nil {
		return err
	}
	if err := s.write("\n"); err != nil {
		return err
	}
	if _, err := s.out.Write(img.Bytes()); err != nil {
		return err
	}
	return s.write("\n\n")
}

func (s *Sequencer) writeFailure(result RenderedBlock) error {
	if err := s.newline(); err != nil {
		return err
	}
	if err := s.write(styles.RenderError(result.Reason) + "\n"); err != nil {
		return err
	}
	return s.writeSource(result.Source)
}

func (s *Sequencer) writeSource(source string) error {
	if err := s.newline(); err != nil {
		return err
	}
	lines := strings.Split(source, "\n")
	for i, line := range lines {
		lines[i] = styles.RenderMuted(line)
	}
	return s.write(strings.Join(lines, "\n") + "\n")
}

// newline moves to column zero if needed.
func (s *Sequencer) newline() error {
	if s.lineStart {
		return nil
	}
	return s.write("\n")
}

func (s *Sequencer) write(text string) error {
	if text == "" {
		return nil
	}
	if _, err := io.WriteString(s.out, text); err != nil {
		return err
	}
	s.lineStart = strings.HasSuffix(text, "\n")
	return nil
}
