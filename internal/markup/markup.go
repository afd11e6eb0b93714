// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package markup

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnbalanced is returned when a closing tag has no matching opening tag.
var ErrUnbalanced = errors.New("unbalanced markup")

// Segment is a contiguous run of text with one resolved style.
type Segment struct {
	Text  string
	Style Style
}

// WithText returns a segment carrying text in the same style.
func (s Segment) WithText(text string) Segment {
	return Segment{Text: text, Style: s.Style}
}

// Render returns the segment text with terminal styling applied.
// Links render as their text followed by the target when the two differ.
func (s Segment) Render() string {
	out := s.Style.Render(s.Text)
	if s.Style.Link != "" && s.Style.Link != "#" && s.Style.Link != s.Text {
		out += " (" + s.Style.Link + ")"
	}
	return out
}

// PlainText concatenates the unstyled text of segments.
func PlainText(segs []Segment) string {
	var b strings.Builder
	for _, s := range segs {
		b.WriteString(s.Text)
	}
	return b.String()
}

// Parse resolves bracket markup into styled segments.
//
//	[bold red]warning[/] plain [link=https://x.ai]site[/]
//
// "[[" and "]]" produce literal brackets. A tag whose contents are not a
// recognised style is kept as literal text, so brackets in prose and math
// survive unchanged. Tags left open at the end of input are closed
// implicitly. A closing tag with nothing open returns ErrUnbalanced.
func Parse(text string) ([]Segment, error) {
	p := parser{}
	for i := 0; i < len(text); {
		c := text[i]
		switch {
		case c == '[' && i+1 < len(text) && text[i+1] == '[':
			p.buf.WriteByte('[')
			i += 2
		case c == ']' && i+1 < len(text) && text[i+1] == ']':
			p.buf.WriteByte(']')
			i += 2
		case c == '[':
			end := strings.IndexByte(text[i+1:], ']')
			if end < 0 {
				p.buf.WriteString(text[i:])
				i = len(text)
				continue
			}
			tag := text[i+1 : i+1+end]
			if tag == "/" {
				if len(p.stack) == 0 {
					return nil, fmt.Errorf("%w: closing tag at offset %d", ErrUnbalanced, i)
				}
				p.flush()
				p.stack = p.stack[:len(p.stack)-1]
				i += end + 2
				continue
			}
			st, ok := ParseStyle(tag)
			if !ok {
				p.buf.WriteByte('[')
				i++
				continue
			}
			p.flush()
			p.stack = append(p.stack, p.current().merge(st))
			i += end + 2
		default:
			p.buf.WriteByte(c)
			i++
		}
	}
	p.flush()
	return p.segs, nil
}

type parser struct {
	buf   strings.Builder
	stack []Style
	segs  []Segment
}

func (p *parser) current() Style {
	if len(p.stack) == 0 {
		return Style{}
	}
	return p.stack[len(p.stack)-1]
}

// flush emits buffered text, merging with the previous segment when the
// style is unchanged.
func (p *parser) flush() {
	if p.buf.Len() == 0 {
		return
	}
	text := p.buf.String()
	p.buf.Reset()
	st := p.current()
	if n := len(p.segs); n > 0 && p.segs[n-1].Style == st {
		p.segs[n-1].Text += text
		return
	}
	p.segs = append(p.segs, Segment{Text: text, Style: st})
}
