// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small helpers shared across grok packages.
//
// # Key Functions
//
//   - TruncateWidth: column-aware truncation with ellipsis (go-runewidth)
//   - Rule: fixed-width horizontal rules for banners
//   - OneLine: whitespace collapsing for previews and log fields
//   - AtomicWriteFile: crash-safe file writing with fsync
package util
