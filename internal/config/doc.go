// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for grok.
//
// # Configuration Precedence
//
// Configuration is loaded from (in order of precedence):
//   - Environment variables (XAI_API_KEY, GROK_*, NO_COLOR)
//   - ~/.grok/config.toml
//   - Built-in defaults
//
// Keys absent from the file keep their default values. Unknown keys are
// rejected so typos surface instead of being silently ignored.
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    return err
//	}
//	client := xai.NewClient(cfg.Backend.APIKey).WithModel(cfg.Backend.Model)
//
// Write a starter file:
//
//	err := config.SaveTOML(config.Default(), path)
package config
