// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	_ "embed"
)

// SystemPrompt seeds every transcript. It teaches the model the bracket
// markup and the fenced latex block convention the renderer understands.
//
//go:embed prompts/system.txt
var SystemPrompt string
