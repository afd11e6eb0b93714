// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package render turns assistant replies into terminal output with inline
LaTeX images.

# Flow

	markup.Parse(text) -> []markup.Segment
	Scan(segments)     -> []Span (plain runs and ```latex blocks, in order)
	Sequencer.Emit     -> plain text written immediately, each block
	                      rendered by a BlockRenderer and written as an
	                      inline image before anything that follows it

Pipeline wraps the three steps. If any of them fails or panics, the whole
reply is written once more as plain text with escape sequences removed.

# Block Rendering

LatexRenderer issues one HTTP GET per block to a CodeCogs-style service:

	https://latex.codecogs.com/png.image?\small\dpi{300}\bgwhite\fgblack<block>

with the query percent-encoded. Requests are spaced by a rate limiter and
never retried. Non-2xx responses and undecodable bodies come back as a
failed RenderedBlock carrying the reason and the block source.
*/
package render
