// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package termimg

import (
	"bytes"
	"image"
	"image/color"
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func env(vars map[string]string) func(string) string {
	return func(k string) string { return vars[k] }
}

// testImage returns noise so the PNG does not compress below one chunk.
func testImage(w, h int) image.Image {
	rng := rand.New(rand.NewSource(1))
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(rng.Intn(256)), G: uint8(rng.Intn(256)), B: uint8(rng.Intn(256)), A: 255})
		}
	}
	return img
}

func TestDetect(t *testing.T) {
	tests := []struct {
		name string
		vars map[string]string
		want Protocol
	}{
		{"kitty window", map[string]string{"KITTY_WINDOW_ID": "1"}, ProtocolKitty},
		{"kitty term", map[string]string{"TERM": "xterm-kitty"}, ProtocolKitty},
		{"iterm", map[string]string{"TERM_PROGRAM": "iTerm.app"}, ProtocolITerm},
		{"wezterm", map[string]string{"TERM_PROGRAM": "WezTerm"}, ProtocolITerm},
		{"dumb", map[string]string{"TERM": "dumb"}, ProtocolNone},
		{"foot", map[string]string{"TERM": "foot-extra"}, ProtocolSixel},
		{"mlterm term", map[string]string{"TERM": "mlterm"}, ProtocolSixel},
		{"mlterm env", map[string]string{"TERM": "xterm", "MLTERM": "3.9.3"}, ProtocolSixel},
		{"contour", map[string]string{"TERM": "xterm-256color", "TERMINAL_NAME": "contour"}, ProtocolSixel},
		{"apple terminal", map[string]string{"TERM": "xterm-256color", "TERM_PROGRAM": "Apple_Terminal"}, ProtocolNone},
		{"vte", map[string]string{"TERM": "xterm-256color", "VTE_VERSION": "6800"}, ProtocolNone},
		{"plain xterm", map[string]string{"TERM": "xterm-256color"}, ProtocolNone},
		{"empty", map[string]string{}, ProtocolNone},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, Detect(env(tc.vars)))
		})
	}
}

func TestResolve(t *testing.T) {
	kitty := env(map[string]string{"TERM": "xterm-kitty"})
	require.Equal(t, ProtocolNone, Resolve(ProtocolSixel, false, kitty))
	require.Equal(t, ProtocolKitty, Resolve(ProtocolAuto, true, kitty))
	require.Equal(t, ProtocolITerm, Resolve(ProtocolITerm, true, kitty))

	apple := env(map[string]string{"TERM_PROGRAM": "Apple_Terminal", "TERM": "xterm-256color"})
	require.Equal(t, ProtocolNone, Resolve(ProtocolAuto, true, apple))
	require.Equal(t, ProtocolSixel, Resolve(ProtocolSixel, true, apple))
}

func TestParseProtocol(t *testing.T) {
	p, err := ParseProtocol(" Kitty ")
	require.NoError(t, err)
	require.Equal(t, ProtocolKitty, p)

	p, err = ParseProtocol("")
	require.NoError(t, err)
	require.Equal(t, ProtocolAuto, p)

	_, err = ParseProtocol("ascii-art")
	require.Error(t, err)
}

func TestNewEncoder(t *testing.T) {
	require.Nil(t, NewEncoder(ProtocolNone))
	require.IsType(t, SixelEncoder{}, NewEncoder(ProtocolSixel))
	require.IsType(t, ITermEncoder{}, NewEncoder(ProtocolITerm))
	require.IsType(t, KittyEncoder{}, NewEncoder(ProtocolKitty))
}

func TestSixelEncoder(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, SixelEncoder{}.Encode(&buf, testImage(8, 8)))
	out := buf.String()
	require.True(t, strings.HasPrefix(out, "\x1bP"), "sixel data starts with DCS")
	require.True(t, strings.HasSuffix(out, "\x1b\\"), "sixel data ends with ST")
}

func TestITermEncoder(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, ITermEncoder{}.Encode(&buf, testImage(4, 4)))
	out := buf.String()
	require.True(t, strings.HasPrefix(out, "\x1b]1337;File=inline=1;"))
	require.True(t, strings.HasSuffix(out, "\a"))
}

func TestKittyEncoderChunks(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, KittyEncoder{}.Encode(&buf, testImage(200, 200)))
	out := buf.String()

	require.True(t, strings.HasPrefix(out, "\x1b_Gf=100,a=T,m=1;"))
	require.Greater(t, strings.Count(out, "\x1b_G"), 1)
	require.Contains(t, out, "\x1b_Gm=0;")
	require.True(t, strings.HasSuffix(out, "\x1b\\"))
}
