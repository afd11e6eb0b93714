// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package termimg writes decoded images to terminals that support inline
// graphics.
//
// Three protocols are supported: sixel (via go-sixel), iTerm2 OSC 1337
// and kitty APC graphics. Detect chooses one from TERM, TERM_PROGRAM and
// related variables, falling back to ProtocolNone for unknown terminals;
// Resolve forces ProtocolNone when output is not a TTY. Set
// render.protocol to force a protocol the detection misses.
package termimg
