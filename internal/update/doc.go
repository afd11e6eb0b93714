// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package update checks the Go module proxy for newer grok releases.
//
// Checks are best effort and rate limited: an unforced check runs at most
// once per 24 hours, tracked by a timestamp in the user-global store.
// Prereleases are ignored and the highest qualifying version wins.
package update
