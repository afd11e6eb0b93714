// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package markup turns bracket-styled reply text into styled segments.
//
// Replies use a small tag language:
//
//	[bold]strong[/] [italic cyan]aside[/] [red on white]alert[/]
//	[link=https://x.ai]xAI[/] and [[literal brackets]]
//
// Parse returns []Segment, each a run of text with a comparable Style.
// Rendering goes through Lip Gloss, so colour output follows the
// terminal's detected profile.
package markup
