// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package termimg

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"
	"io"

	"github.com/mattn/go-sixel"
)

// kittyChunk is the maximum payload per kitty graphics escape.
const kittyChunk = 4096

// SixelEncoder encodes images as DEC sixel data.
type SixelEncoder struct{}

// Encode implements Encoder.
func (SixelEncoder) Encode(w io.Writer, img image.Image) error {
	if err := sixel.NewEncoder(w).Encode(img); err != nil {
		return fmt.Errorf("sixel encode: %w", err)
	}
	return nil
}

// ITermEncoder encodes images with the iTerm2 inline file protocol.
type ITermEncoder struct{}

// Encode implements Encoder.
func (ITermEncoder) Encode(w io.Writer, img image.Image) error {
	data, err := encodePNG(img)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "\x1b]1337;File=inline=1;size=%d;preserveAspectRatio=1:%s\a",
		len(data), base64.StdEncoding.EncodeToString(data))
	return err
}

// KittyEncoder encodes images with the kitty graphics protocol,
// transmitting PNG data in base64 chunks.
type KittyEncoder struct{}

// Encode implements Encoder.
func (KittyEncoder) Encode(w io.Writer, img image.Image) error {
	data, err := encodePNG(img)
	if err != nil {
		return err
	}
	payload := base64.StdEncoding.EncodeToString(data)

	first := true
	for len(payload) > 0 {
		n := min(kittyChunk, len(payload))
		chunk := payload[:n]
		payload = payload[n:]

		more := 0
		if len(payload) > 0 {
			more = 1
		}
		if first {
			_, err = fmt.Fprintf(w, "\x1b_Gf=100,a=T,m=%d;%s\x1b\\", more, chunk)
			first = false
		} else {
			_, err = fmt.Fprintf(w, "\x1b_Gm=%d;%s\x1b\\", more, chunk)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("png encode: %w", err)
	}
	return buf.Bytes(), nil
}
