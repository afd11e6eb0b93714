// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"io"
	"runtime/debug"
	"strings"
)

// Version information (can be overridden at build time)
//
//	go build -ldflags "-X github.com/jeranaias/grok-cli/internal/cli.Version=v1.2.3"
var (
	Version   = ""
	BuildDate = "unknown"
)

// ReleasesURL is where release notes are published.
const ReleasesURL = "https://github.com/jeranaias/grok-cli/releases"

// CurrentVersion returns the build-time version, the module version from
// build info for `go install` builds, or "dev".
func CurrentVersion() string {
	if v := strings.TrimSpace(Version); v != "" {
		return v
	}
	if info, ok := debug.ReadBuildInfo(); ok {
		if v := strings.TrimSpace(info.Main.Version); v != "" && v != "(devel)" {
			return v
		}
	}
	return "dev"
}

// ShowVersion prints version information.
func ShowVersion(w io.Writer) {
	fmt.Fprintf(w, "grok version %s\n", CurrentVersion())
	fmt.Fprintf(w, "  Build date: %s\n", BuildDate)
	fmt.Fprintf(w, "  Releases:   %s\n", ReleasesURL)
}
