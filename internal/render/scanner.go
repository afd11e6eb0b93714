// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package render

import (
	"strings"

	"github.com/jeranaias/grok-cli/internal/markup"
)

// =============================================================================
// SPANS
// =============================================================================

// SpanKind tags a Span.
type SpanKind int

const (
	// SpanPlain is a run of styled text written as-is.
	SpanPlain SpanKind = iota
	// SpanBlock is the inner text of a ```latex fence.
	SpanBlock
)

// String returns the kind name for logging.
func (k SpanKind) String() string {
	if k == SpanBlock {
		return "block"
	}
	return "plain"
}

// Span is one unit of scanner output. Plain spans carry Segments,
// block spans carry Block.
type Span struct {
	Kind     SpanKind
	Segments []markup.Segment
	Block    string
}

// PlainSpan builds a plain span.
func PlainSpan(segs ...markup.Segment) Span {
	return Span{Kind: SpanPlain, Segments: segs}
}

// BlockSpan builds a block span.
func BlockSpan(block string) Span {
	return Span{Kind: SpanBlock, Block: block}
}

// =============================================================================
// FENCE DETECTION
// =============================================================================

const (
	openFence  = "```latex"
	closeFence = "```"
)

// fence locates one complete block in the flattened reply text.
// start..innerStart is the opening fence, innerEnd..end the closing one.
type fence struct {
	start, innerStart, innerEnd, end int
	body                             string
}

type scanState int

const (
	stateOutside scanState = iota
	stateInside
)

// findFences walks text once, switching between outside and inside a
// block. The first closing fence after an opening fence ends the block.
// An opening fence with no close is not a block.
func findFences(text string) []fence {
	var (
		fences []fence
		state  = stateOutside
		cur    fence
	)

	for i := 0; i < len(text); {
		switch state {
		case stateOutside:
			p := strings.Index(text[i:], openFence)
			if p < 0 {
				return fences
			}
			p += i
			after := p + len(openFence)
			if after >= len(text) || !isSpace(text[after]) {
				i = p + 1
				continue
			}
			cur = fence{start: p, innerStart: after}
			state = stateInside
			i = after

		case stateInside:
			q := strings.Index(text[i:], closeFence)
			if q < 0 {
				// Unterminated: everything from the opener stays plain text.
				return fences
			}
			q += i
			cur.innerEnd = q
			cur.end = q + len(closeFence)
			cur.body = strings.TrimSpace(text[cur.innerStart:cur.innerEnd])
			if cur.body != "" {
				fences = append(fences, cur)
			}
			state = stateOutside
			i = cur.end
		}
	}
	return fences
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

// =============================================================================
// SCAN
// =============================================================================

// Scan splits formatted reply segments into ordered plain and block spans.
//
// Segments untouched by any block pass through unchanged and are batched
// into one plain span, flushed at each block boundary and at the end.
// Text of a segment that shares a segment with a fence (prolog before the
// opener, epilog after the close) is emitted as its own single-segment
// plain span in the original style, or dropped when it is only whitespace.
// A block body may cross segment boundaries.
func Scan(segs []markup.Segment) []Span {
	if len(segs) == 0 {
		return nil
	}

	fences := findFences(markup.PlainText(segs))

	var (
		spans  []Span
		buffer []markup.Segment
		fi     int // first fence that has not ended before the current offset
	)

	flush := func() {
		if len(buffer) > 0 {
			spans = append(spans, PlainSpan(buffer...))
			buffer = nil
		}
	}
	emitPiece := func(seg markup.Segment, text string) {
		flush()
		if strings.TrimSpace(text) != "" {
			spans = append(spans, PlainSpan(seg.WithText(text)))
		}
	}

	offset := 0
	for _, seg := range segs {
		segStart, segEnd := offset, offset+len(seg.Text)
		offset = segEnd

		for fi < len(fences) && fences[fi].end <= segStart {
			fi++
		}
		if fi == len(fences) || fences[fi].start >= segEnd || segStart == segEnd {
			buffer = append(buffer, seg)
			continue
		}

		pos := segStart
		for j := fi; j < len(fences) && pos < segEnd; j++ {
			f := fences[j]
			if f.start >= segEnd {
				break
			}
			if pos < f.start {
				emitPiece(seg, seg.Text[pos-segStart:f.start-segStart])
				pos = f.start
			}
			if pos == f.start {
				flush()
				spans = append(spans, BlockSpan(f.body))
			}
			pos = min(f.end, segEnd)
		}
		if pos < segEnd {
			emitPiece(seg, seg.Text[pos-segStart:])
		}
	}
	flush()
	return spans
}
