// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package termimg

import (
	"fmt"
	"image"
	"io"
	"strings"
)

// Protocol names a terminal inline graphics protocol.
type Protocol string

const (
	// ProtocolAuto selects a protocol from the environment.
	ProtocolAuto Protocol = "auto"
	// ProtocolNone disables inline images.
	ProtocolNone Protocol = "none"
	// ProtocolSixel is DEC sixel graphics (xterm, foot, mlterm, WezTerm).
	ProtocolSixel Protocol = "sixel"
	// ProtocolITerm is the iTerm2 OSC 1337 inline file protocol.
	ProtocolITerm Protocol = "iterm"
	// ProtocolKitty is the kitty graphics protocol.
	ProtocolKitty Protocol = "kitty"
)

// Encoder writes an image as a terminal escape sequence.
type Encoder interface {
	Encode(w io.Writer, img image.Image) error
}

// ParseProtocol validates a protocol name. Empty means auto.
func ParseProtocol(s string) (Protocol, error) {
	switch p := Protocol(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return ProtocolAuto, nil
	case ProtocolAuto, ProtocolNone, ProtocolSixel, ProtocolITerm, ProtocolKitty:
		return p, nil
	default:
		return "", fmt.Errorf("unknown image protocol %q (want auto, none, sixel, iterm or kitty)", s)
	}
}

// sixelTerms are TERM prefixes of terminals that draw sixel graphics.
var sixelTerms = []string{"foot", "mlterm", "contour", "yaft"}

// Detect picks a protocol from terminal environment variables.
// getenv is usually os.Getenv. Terminals not known to draw images get
// ProtocolNone so block sources are shown as text instead of raw bytes.
func Detect(getenv func(string) string) Protocol {
	term := getenv("TERM")
	switch {
	case getenv("KITTY_WINDOW_ID") != "", term == "xterm-kitty":
		return ProtocolKitty
	case getenv("TERM_PROGRAM") == "iTerm.app", getenv("TERM_PROGRAM") == "WezTerm":
		return ProtocolITerm
	case getenv("MLTERM") != "", getenv("TERMINAL_NAME") == "contour":
		return ProtocolSixel
	}
	for _, prefix := range sixelTerms {
		if strings.HasPrefix(term, prefix) {
			return ProtocolSixel
		}
	}
	return ProtocolNone
}

// Resolve turns a configured protocol into a concrete one. Auto is
// detected from the environment; anything resolves to none when the
// output is not a terminal.
func Resolve(p Protocol, isTTY bool, getenv func(string) string) Protocol {
	if !isTTY {
		return ProtocolNone
	}
	if p == ProtocolAuto || p == "" {
		return Detect(getenv)
	}
	return p
}

// NewEncoder returns the encoder for p, or nil for ProtocolNone.
func NewEncoder(p Protocol) Encoder {
	switch p {
	case ProtocolSixel:
		return SixelEncoder{}
	case ProtocolITerm:
		return ITermEncoder{}
	case ProtocolKitty:
		return KittyEncoder{}
	default:
		return nil
	}
}
