// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package markup

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/grok-cli/internal/ui/styles"
)

// =============================================================================
// STYLE
// =============================================================================

// Style is a resolved text style. It is a comparable value so segments can
// be merged and compared without reflection.
type Style struct {
	Bold          bool
	Dim           bool
	Italic        bool
	Underline     bool
	Strikethrough bool
	Reverse       bool

	// Foreground and Background hold a lipgloss color: an ANSI index
	// ("0"-"255") or a hex value ("#RRGGBB"). Empty means terminal default.
	// Tags spell indices as "color208".
	Foreground string
	Background string

	// Link is the target of a [link=...] tag.
	Link string
}

// IsZero reports whether the style carries no attributes.
func (s Style) IsZero() bool {
	return s == Style{}
}

// merge layers child on top of s, as nested tags do.
func (s Style) merge(child Style) Style {
	out := s
	out.Bold = out.Bold || child.Bold
	out.Dim = out.Dim || child.Dim
	out.Italic = out.Italic || child.Italic
	out.Underline = out.Underline || child.Underline
	out.Strikethrough = out.Strikethrough || child.Strikethrough
	out.Reverse = out.Reverse || child.Reverse
	if child.Foreground != "" {
		out.Foreground = child.Foreground
	}
	if child.Background != "" {
		out.Background = child.Background
	}
	if child.Link != "" {
		out.Link = child.Link
	}
	return out
}

func (s Style) lipgloss() lipgloss.Style {
	ls := lipgloss.NewStyle().
		Bold(s.Bold).
		Faint(s.Dim).
		Italic(s.Italic).
		Underline(s.Underline || s.Link != "").
		Strikethrough(s.Strikethrough).
		Reverse(s.Reverse).
		TabWidth(lipgloss.NoTabConversion)
	switch {
	case s.Foreground != "":
		ls = ls.Foreground(lipgloss.Color(s.Foreground))
	case s.Link != "":
		ls = ls.Foreground(styles.LinkColor)
	}
	if s.Background != "" {
		ls = ls.Background(lipgloss.Color(s.Background))
	}
	return ls
}

// Render styles text line by line. Lip Gloss pads multi-line blocks to a
// common width, which would add trailing spaces to chat output.
func (s Style) Render(text string) string {
	if s.IsZero() || text == "" {
		return text
	}
	ls := s.lipgloss()
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = ls.Render(line)
		}
	}
	return strings.Join(lines, "\n")
}

// =============================================================================
// TAG PARSING
// =============================================================================

// colorNames maps markup color names to ANSI indices.
var colorNames = map[string]string{
	"black":   "0",
	"red":     "1",
	"maroon":  "1",
	"green":   "2",
	"olive":   "3",
	"yellow":  "3",
	"blue":    "4",
	"navy":    "4",
	"magenta": "5",
	"purple":  "5",
	"cyan":    "6",
	"teal":    "6",
	"aqua":    "6",
	"silver":  "7",
	"white":   "15",
	"grey":    "8",
	"gray":    "8",
	"lime":    "10",
	"fuchsia": "13",
	"orange":  "208",
}

// ParseStyle parses the contents of an opening tag such as "bold red on
// white". The second result is false when any token is not recognised,
// in which case the tag is treated as literal text.
func ParseStyle(tag string) (Style, bool) {
	fields := strings.Fields(tag)
	if len(fields) == 0 {
		return Style{}, false
	}

	var st Style
	for i := 0; i < len(fields); i++ {
		tok := strings.ToLower(fields[i])
		switch {
		case tok == "bold":
			st.Bold = true
		case tok == "dim":
			st.Dim = true
		case tok == "italic":
			st.Italic = true
		case tok == "underline":
			st.Underline = true
		case tok == "strikethrough":
			st.Strikethrough = true
		case tok == "invert" || tok == "reverse":
			st.Reverse = true
		case tok == "default":
		case tok == "on":
			if i+1 >= len(fields) {
				return Style{}, false
			}
			i++
			c, ok := parseColor(fields[i])
			if !ok {
				return Style{}, false
			}
			st.Background = c
		case tok == "link":
			st.Link = "#"
		case strings.HasPrefix(tok, "link="):
			// Preserve the original case of the URL.
			st.Link = fields[i][len("link="):]
			if st.Link == "" {
				return Style{}, false
			}
		default:
			c, ok := parseColor(fields[i])
			if !ok {
				return Style{}, false
			}
			st.Foreground = c
		}
	}
	return st, true
}

func parseColor(tok string) (string, bool) {
	tok = strings.ToLower(tok)
	if c, ok := colorNames[tok]; ok {
		return c, true
	}
	if strings.HasPrefix(tok, "#") {
		hex := tok[1:]
		if len(hex) != 3 && len(hex) != 6 {
			return "", false
		}
		if _, err := strconv.ParseUint(hex, 16, 32); err != nil {
			return "", false
		}
		return tok, true
	}
	// Bare numbers are not colors: "[1]" in prose stays literal.
	if !strings.HasPrefix(tok, "color") {
		return "", false
	}
	n, err := strconv.Atoi(strings.TrimPrefix(tok, "color"))
	if err != nil || n < 0 || n > 255 {
		return "", false
	}
	return strconv.Itoa(n), true
}
