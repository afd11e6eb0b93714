// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package styles provides the shared colour palette for grok.

All colors use Lip Gloss AdaptiveColor for automatic light/dark terminal
detection.

# Color System

  - Purple - Assistant marker and banners
  - Cyan - Brand color, user prompt
  - Emerald - Success states
  - Amber - Warnings and update notices
  - Rose - Errors and failed block renders

# Status Rendering

	fmt.Println(styles.RenderError("connection refused"))
	// [Error] connection refused (bold, rose)

Every status helper prefixes an ASCII indicator so state is readable
without colour.
*/
package styles
