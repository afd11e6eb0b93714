// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package util

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// UNICODE: Width-aware helpers count terminal columns, not bytes, so CJK and
// emoji never get split mid-character.

// TruncateWidth truncates a string to a maximum display width, appending
// "..." when anything was cut. The result never exceeds maxWidth columns.
func TruncateWidth(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= maxWidth {
		return s
	}
	if maxWidth <= 3 {
		return runewidth.Truncate(s, maxWidth, "")
	}
	return runewidth.Truncate(s, maxWidth, "...")
}

// StringWidth returns the display width of a string.
func StringWidth(s string) int {
	return runewidth.StringWidth(s)
}

// Rule returns a horizontal rule of ch that is exactly width columns wide.
func Rule(ch string, width int) string {
	w := runewidth.StringWidth(ch)
	if w <= 0 || width <= 0 {
		return ""
	}
	return strings.Repeat(ch, width/w)
}

// OneLine collapses all whitespace runs (including newlines) into single
// spaces. Used for log fields and previews.
func OneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
