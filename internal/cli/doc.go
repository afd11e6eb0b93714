// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli implements the grok command line: the cobra command tree,
// the interactive chat session and terminal helpers.
//
// # Session
//
// ChatSession owns the transcript. Each turn appends the user line, sends
// the whole transcript to the backend under a status spinner, appends the
// reply messages and renders the reply text. A failed turn is reported
// inline and the session continues; cancelling the context ends it.
//
// # Commands
//
//	grok                  Start an interactive chat
//	grok -k KEY           Use KEY for this run
//	grok --version        Print version and check for updates
//	grok config path      Print the config file location
//	grok config show      Print the effective config
//	grok config init      Write a default config file
package cli
