// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package userconfig stores small per-tool values in a user-global TOML
// file, such as the time of the last update check.
package userconfig
