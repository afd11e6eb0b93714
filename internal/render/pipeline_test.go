// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package render

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/grok-cli/internal/markup"
	"github.com/jeranaias/grok-cli/internal/util"
)

func TestPipeline_RendersMarkupAndBlocks(t *testing.T) {
	var out bytes.Buffer
	r := &fakeRenderer{out: &out}
	p := NewPipeline(&out, r, fakeEncoder{})

	err := p.Render(context.Background(), "[bold]Euler[/]:\n```latex\ne^{i\\pi} + 1 = 0\n```\nNeat.")
	require.NoError(t, err)

	require.Equal(t, []string{`e^{i\pi} + 1 = 0`}, r.calls)
	require.Equal(t, "Euler:\n\n<IMG1>\n\n\nNeat.\n", ansi.Strip(out.String()))
}

func TestPipeline_PlainReplyEndsWithNewline(t *testing.T) {
	var out bytes.Buffer
	p := NewPipeline(&out, &fakeRenderer{}, fakeEncoder{})

	require.NoError(t, p.Render(context.Background(), "just text"))
	require.Equal(t, "just text\n", out.String())
}

func TestPipeline_MalformedMarkupFallsBack(t *testing.T) {
	var out bytes.Buffer
	r := &fakeRenderer{}
	p := NewPipeline(&out, r, fakeEncoder{})

	text := "closing [/] first \x1b[31mred\x1b[0m ```latex\nx\n```"
	require.NoError(t, p.Render(context.Background(), text))

	require.Equal(t, "closing [/] first red ```latex\nx\n```\n", out.String())
	require.Empty(t, r.calls)
}

func TestPipeline_FormatterPanicFallsBack(t *testing.T) {
	var out bytes.Buffer
	p := NewPipeline(&out, &fakeRenderer{}, fakeEncoder{}).
		WithFormatter(func(string) ([]markup.Segment, error) { panic("formatter bug") })

	require.NoError(t, p.Render(context.Background(), "[bold]hello[/]"))
	require.Equal(t, "[bold]hello[/]\n", out.String())
}

func TestPipeline_SequencerPanicFallsBack(t *testing.T) {
	var out bytes.Buffer
	r := &fakeRenderer{panicOn: "boom"}
	p := NewPipeline(&out, r, fakeEncoder{})

	require.NoError(t, p.Render(context.Background(), "pre ```latex boom``` post"))

	// The partial "pre " is left behind; the plain copy starts on a new
	// line under a rule instead of continuing the same line.
	rule := util.Rule(fallbackRule, fallbackRuleWidth)
	require.Equal(t, "pre \n"+rule+"\npre ```latex boom``` post\n", ansi.Strip(out.String()))
	require.Equal(t, 1, strings.Count(ansi.Strip(out.String()), "pre "+rule))
}

func TestPipeline_PartialOutputEndingInNewlineFallsBackBelowRule(t *testing.T) {
	var out bytes.Buffer
	r := &fakeRenderer{panicOn: "boom"}
	p := NewPipeline(&out, r, fakeEncoder{})

	require.NoError(t, p.Render(context.Background(), "intro\n```latex\nboom\n```"))

	rule := util.Rule(fallbackRule, fallbackRuleWidth)
	require.Equal(t, "intro\n"+rule+"\nintro\n```latex\nboom\n```\n", ansi.Strip(out.String()))
}

func TestPipeline_FallbackWriteErrorReturned(t *testing.T) {
	p := NewPipeline(errWriter{}, &fakeRenderer{}, fakeEncoder{})
	require.Error(t, p.Render(context.Background(), "anything"))
}

func TestEscape(t *testing.T) {
	require.Equal(t, "abc\n\td", Escape("a\x1b[1mb\x07c\r\n\td"))
	require.Equal(t, "日本語 ok", Escape("日本語 ok"))
}
