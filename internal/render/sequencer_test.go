// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package render

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/grok-cli/internal/markup"
)

// =============================================================================
// FAKES
// =============================================================================

// fakeRenderer records calls and what had been written when each call
// was made.
type fakeRenderer struct {
	out       *bytes.Buffer
	calls     []string
	snapshots []string
	fail      map[string]string
	panicOn   string
}

func (f *fakeRenderer) RenderBlock(_ context.Context, block string) RenderedBlock {
	if block == f.panicOn {
		panic("renderer exploded")
	}
	f.calls = append(f.calls, block)
	if f.out != nil {
		f.snapshots = append(f.snapshots, f.out.String())
	}
	if reason, ok := f.fail[block]; ok {
		return failed(block, reason)
	}
	// Width identifies the block in encoder output.
	return RenderedBlock{Image: image.NewGray(image.Rect(0, 0, len(f.calls), 1)), Source: block}
}

// fakeEncoder writes a visible marker instead of escape sequences.
type fakeEncoder struct {
	err error
}

func (e fakeEncoder) Encode(w io.Writer, img image.Image) error {
	if e.err != nil {
		return e.err
	}
	_, err := fmt.Fprintf(w, "<IMG%d>", img.Bounds().Dx())
	return err
}

type errWriter struct{}

func (errWriter) Write([]byte) (int, error) { return 0, errors.New("terminal gone") }

// =============================================================================
// SEQUENCER TESTS
// =============================================================================

func TestSequencer_NoBlocksWritesSegmentsUnchanged(t *testing.T) {
	segs := []markup.Segment{
		seg("Plain, "),
		boldSeg("bold"),
		{Text: " and\ncolored", Style: markup.Style{Foreground: "2", Italic: true}},
		seg(" end"),
	}
	var out bytes.Buffer
	r := &fakeRenderer{out: &out}

	require.NoError(t, NewSequencer(&out, r, fakeEncoder{}).Emit(context.Background(), Scan(segs)))

	var want strings.Builder
	for _, s := range segs {
		want.WriteString(s.Render())
	}
	require.Equal(t, want.String(), out.String())
	require.Empty(t, r.calls)
}

func TestSequencer_BlocksRenderInOrder(t *testing.T) {
	var out bytes.Buffer
	r := &fakeRenderer{out: &out}
	spans := Scan([]markup.Segment{seg("A ```latex one``` B ```latex\ntwo\n``` C ```latex three``` D")})

	require.NoError(t, NewSequencer(&out, r, fakeEncoder{}).Emit(context.Background(), spans))
	require.Equal(t, []string{"one", "two", "three"}, r.calls)

	// Nothing after block k was written before block k resolved.
	require.Contains(t, r.snapshots[0], "A ")
	require.NotContains(t, r.snapshots[0], "B")
	require.Contains(t, r.snapshots[1], "<IMG1>")
	require.Contains(t, r.snapshots[1], " B ")
	require.NotContains(t, r.snapshots[1], "C")
	require.Contains(t, r.snapshots[2], "<IMG2>")
	require.NotContains(t, r.snapshots[2], "D")

	got := out.String()
	order := []string{"A ", "<IMG1>", " B ", "<IMG2>", " C ", "<IMG3>", " D"}
	last := -1
	for _, marker := range order {
		idx := strings.Index(got, marker)
		require.Greater(t, idx, last, "%q out of order in %q", marker, got)
		last = idx
	}
}

func TestSequencer_ImageSurroundedByBlankLines(t *testing.T) {
	var out bytes.Buffer
	spans := []Span{PlainSpan(seg("before")), BlockSpan("x"), PlainSpan(seg("after"))}

	require.NoError(t, NewSequencer(&out, &fakeRenderer{}, fakeEncoder{}).Emit(context.Background(), spans))
	require.Equal(t, "before\n\n<IMG1>\n\nafter", out.String())
}

func TestSequencer_FailureWritesReasonAndSource(t *testing.T) {
	var out bytes.Buffer
	r := &fakeRenderer{fail: map[string]string{`\bad`: "Bad Request"}}
	spans := []Span{PlainSpan(seg("see:")), BlockSpan(`\bad`), PlainSpan(seg("next"))}

	require.NoError(t, NewSequencer(&out, r, fakeEncoder{}).Emit(context.Background(), spans))
	require.Equal(t, "see:\n[Error] Bad Request\n\\bad\nnext", ansi.Strip(out.String()))
}

func TestSequencer_NoEncoderWritesSourceWithoutFetching(t *testing.T) {
	var out bytes.Buffer
	r := &fakeRenderer{}
	spans := []Span{PlainSpan(seg("eq:\n")), BlockSpan("a^2 + b^2\n= c^2")}

	require.NoError(t, NewSequencer(&out, r, nil).Emit(context.Background(), spans))
	require.Empty(t, r.calls)
	require.Equal(t, "eq:\na^2 + b^2\n= c^2\n", ansi.Strip(out.String()))
}

func TestSequencer_EncodeFailureFallsBackToText(t *testing.T) {
	var out bytes.Buffer
	enc := fakeEncoder{err: errors.New("sixel encode: bad palette")}

	require.NoError(t, NewSequencer(&out, &fakeRenderer{}, enc).Emit(context.Background(), []Span{BlockSpan("k")}))
	got := ansi.Strip(out.String())
	require.Contains(t, got, "bad palette")
	require.True(t, strings.HasSuffix(got, "k\n"))
	require.NotContains(t, got, "<IMG")
}

func TestSequencer_WriteErrorIsReturned(t *testing.T) {
	err := NewSequencer(errWriter{}, &fakeRenderer{}, fakeEncoder{}).
		Emit(context.Background(), []Span{PlainSpan(seg("hello"))})
	require.Error(t, err)
}

func TestSequencer_Finish(t *testing.T) {
	var out bytes.Buffer
	s := NewSequencer(&out, nil, nil)
	require.NoError(t, s.Finish())
	require.Empty(t, out.String())

	require.NoError(t, s.Emit(context.Background(), []Span{PlainSpan(seg("partial"))}))
	require.NoError(t, s.Finish())
	require.Equal(t, "partial\n", out.String())
}
