// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/grok-cli/internal/ui/styles"
)

// Markers prefix each side of the conversation.
const (
	UserMarker      = "🧔 "
	AssistantMarker = "🤖 "
)

// bannerRule is repeated under the ready banner.
const bannerRule = "─"

var (
	// Ready banner
	welcomeStyle = lipgloss.NewStyle().
			Foreground(styles.Purple).
			Bold(true)

	// Secondary text in the banner and version output
	infoStyle = lipgloss.NewStyle().
			Foreground(styles.TextSecondary)

	// Update notices
	noticeStyle = lipgloss.NewStyle().
			Foreground(styles.Amber)
)
