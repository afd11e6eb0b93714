// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package render

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jeranaias/grok-cli/internal/markup"
)

func seg(text string) markup.Segment {
	return markup.Segment{Text: text}
}

func boldSeg(text string) markup.Segment {
	return markup.Segment{Text: text, Style: markup.Style{Bold: true}}
}

func blockCount(spans []Span) int {
	n := 0
	for _, s := range spans {
		if s.Kind == SpanBlock {
			n++
		}
	}
	return n
}

// =============================================================================
// SCAN TESTS
// =============================================================================

func TestScan_EmptyReply(t *testing.T) {
	require.Empty(t, Scan(nil))
	require.Empty(t, Scan([]markup.Segment{}))
}

func TestScan_NoBlocksPassesSegmentsThrough(t *testing.T) {
	segs := []markup.Segment{seg("Hello "), boldSeg("world"), seg("!\n```go\nfmt.Println()\n```")}
	spans := Scan(segs)
	require.Equal(t, []Span{PlainSpan(segs...)}, spans)
}

func TestScan_SingleBlock(t *testing.T) {
	spans := Scan([]markup.Segment{seg("See:\n```latex\nE = mc^2\n```\ndone")})
	require.Equal(t, []Span{
		PlainSpan(seg("See:\n")),
		BlockSpan("E = mc^2"),
		PlainSpan(seg("\ndone")),
	}, spans)
}

func TestScan_FlushesBufferBeforeBlock(t *testing.T) {
	intro := boldSeg("Intro. ")
	spans := Scan([]markup.Segment{intro, seg("text ```latex x ``` tail"), seg(" more")})
	require.Equal(t, []Span{
		PlainSpan(intro),
		PlainSpan(seg("text ")),
		BlockSpan("x"),
		PlainSpan(seg(" tail")),
		PlainSpan(seg(" more")),
	}, spans)
}

func TestScan_PrologKeepsStyle(t *testing.T) {
	spans := Scan([]markup.Segment{boldSeg("hi ```latex\nx\n``` bye")})
	require.Equal(t, []Span{
		PlainSpan(boldSeg("hi ")),
		BlockSpan("x"),
		PlainSpan(boldSeg(" bye")),
	}, spans)
}

func TestScan_WhitespaceOnlyPrologAndEpilogDropped(t *testing.T) {
	spans := Scan([]markup.Segment{seg("  \n```latex\n\\frac{a}{b}\n```\n\n")})
	require.Equal(t, []Span{BlockSpan(`\frac{a}{b}`)}, spans)
}

func TestScan_MultipleBlocksInOneSegment(t *testing.T) {
	spans := Scan([]markup.Segment{seg("a ```latex 1``` b ```latex\n2\n``` c")})
	require.Equal(t, []Span{
		PlainSpan(seg("a ")),
		BlockSpan("1"),
		PlainSpan(seg(" b ")),
		BlockSpan("2"),
		PlainSpan(seg(" c")),
	}, spans)
}

func TestScan_MultiLineBody(t *testing.T) {
	body := "\\begin{aligned}\na &= b \\\\\nc &= d\n\\end{aligned}"
	spans := Scan([]markup.Segment{seg("```latex\n" + body + "\n```")})
	require.Equal(t, []Span{BlockSpan(body)}, spans)
}

func TestScan_NonGreedyClose(t *testing.T) {
	spans := Scan([]markup.Segment{seg("```latex\nx\n```\nmid\n```\n")})
	require.Equal(t, []Span{
		BlockSpan("x"),
		PlainSpan(seg("\nmid\n```\n")),
	}, spans)
}

func TestScan_BlockSpanningSegments(t *testing.T) {
	spans := Scan([]markup.Segment{seg("pre ```latex\n"), boldSeg("a+b"), seg("\n``` post")})
	require.Equal(t, []Span{
		PlainSpan(seg("pre ")),
		BlockSpan("a+b"),
		PlainSpan(seg(" post")),
	}, spans)
}

func TestScan_UnterminatedFenceIsVerbatim(t *testing.T) {
	segs := []markup.Segment{seg("before "), boldSeg("```latex\n"), seg("x^2 and no close")}
	spans := Scan(segs)

	require.Zero(t, blockCount(spans))
	require.Equal(t, []Span{PlainSpan(segs...)}, spans)
	require.Equal(t, "before ```latex\nx^2 and no close", markup.PlainText(spans[0].Segments))
}

func TestScan_UnterminatedAfterCompleteBlock(t *testing.T) {
	spans := Scan([]markup.Segment{seg("```latex a``` then ```latex b")})
	require.Equal(t, []Span{
		BlockSpan("a"),
		PlainSpan(seg(" then ```latex b")),
	}, spans)
}

func TestScan_NotABlock(t *testing.T) {
	tests := []string{
		"```latexy\nx\n```",
		"```latex```",
		"```latex \n ```",
		"```latex",
		"``` latex\nx\n```",
	}
	for _, in := range tests {
		t.Run(in, func(t *testing.T) {
			spans := Scan([]markup.Segment{seg(in)})
			require.Zero(t, blockCount(spans))
			require.Equal(t, []Span{PlainSpan(seg(in))}, spans)
		})
	}
}

func TestFindFences(t *testing.T) {
	text := "x ```latex\ny\n``` z"
	fences := findFences(text)
	require.Len(t, fences, 1)
	f := fences[0]
	require.Equal(t, 2, f.start)
	require.Equal(t, "```latex", text[f.start:f.innerStart])
	require.Equal(t, "```", text[f.innerEnd:f.end])
	require.Equal(t, "y", f.body)
}
