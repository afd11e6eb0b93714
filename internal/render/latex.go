// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package render

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif" // register decoders for image.Decode
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"
	"pkt.systems/pslog"
)

// Block renderer defaults.
const (
	// DefaultEndpoint is the public CodeCogs LaTeX rendering service.
	DefaultEndpoint = "https://latex.codecogs.com/png.image"

	DefaultSize       = "small"
	DefaultDPI        = 300
	DefaultBackground = "white"
	DefaultForeground = "black"

	// DefaultRequestsPerSecond spaces block requests to the public service.
	DefaultRequestsPerSecond = 4.0

	// MaxImageSize bounds the response body read for one block.
	// SECURITY: Response size limit prevents memory exhaustion.
	MaxImageSize = 8 * 1024 * 1024
)

// Options are the render parameters prepended to every block.
type Options struct {
	Size       string
	DPI        int
	Background string
	Foreground string
}

// DefaultOptions returns small, 300 DPI, black on white.
func DefaultOptions() Options {
	return Options{
		Size:       DefaultSize,
		DPI:        DefaultDPI,
		Background: DefaultBackground,
		Foreground: DefaultForeground,
	}
}

// Directive returns the LaTeX prefix for the options, e.g.
// \small\dpi{300}\bgwhite\fgblack
func (o Options) Directive() string {
	return fmt.Sprintf(`\%s\dpi{%d}\bg%s\fg%s`, o.Size, o.DPI, o.Background, o.Foreground)
}

// RenderedBlock is the outcome of rendering one block. Exactly one of
// Image or Reason is set. Source always holds the block text.
type RenderedBlock struct {
	Image  image.Image
	Format string
	Reason string
	Source string
}

// OK reports whether an image was produced.
func (b RenderedBlock) OK() bool {
	return b.Image != nil
}

func failed(source, reason string) RenderedBlock {
	if reason == "" {
		reason = "render failed"
	}
	return RenderedBlock{Source: source, Reason: reason}
}

// BlockRenderer turns block text into an image. Implementations never
// return an error: failures are carried in the RenderedBlock.
type BlockRenderer interface {
	RenderBlock(ctx context.Context, block string) RenderedBlock
}

// =============================================================================
// LATEX RENDERER
// =============================================================================

// LatexRenderer renders blocks through an HTTP GET rendering service.
type LatexRenderer struct {
	endpoint   string
	opts       Options
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewLatexRenderer creates a renderer for endpoint with fixed options.
// rps <= 0 disables request spacing.
func NewLatexRenderer(endpoint string, opts Options, rps float64) *LatexRenderer {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	limit := rate.Inf
	if rps > 0 {
		limit = rate.Limit(rps)
	}
	return &LatexRenderer{
		endpoint: strings.TrimSuffix(endpoint, "?"),
		opts:     opts,
		// No client Timeout: the transport bounds connect and TLS only.
		httpClient: &http.Client{
			Transport: &http.Transport{
				Proxy: http.ProxyFromEnvironment,
				DialContext: (&net.Dialer{
					Timeout:   30 * time.Second,
					KeepAlive: 30 * time.Second,
				}).DialContext,
				MaxIdleConnsPerHost: 2,
				IdleConnTimeout:     90 * time.Second,
				TLSHandshakeTimeout: 10 * time.Second,
			},
		},
		limiter: rate.NewLimiter(limit, 1),
	}
}

// URL returns the request URL for block: the endpoint with the
// percent-encoded directive and block as the raw query.
func (r *LatexRenderer) URL(block string) string {
	return r.endpoint + "?" + escapeComponent(r.opts.Directive()+block)
}

// escapeComponent percent-encodes everything but unreserved characters.
// Spaces become %20 since the service does not treat '+' as a space.
func escapeComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// RenderBlock fetches and decodes block. It makes exactly one request.
func (r *LatexRenderer) RenderBlock(ctx context.Context, block string) RenderedBlock {
	log := pslog.Ctx(ctx)
	reqURL := r.URL(block)

	if err := r.limiter.Wait(ctx); err != nil {
		return failed(block, err.Error())
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return failed(block, fmt.Sprintf("failed to create request: %v", err))
	}
	req.Header.Set("Accept", "image/png, image/gif, image/jpeg")

	start := time.Now()
	resp, err := r.httpClient.Do(req)
	if err != nil {
		log.Debug("latex render request failed", "url", reqURL, "err", err)
		return failed(block, fmt.Sprintf("request failed: %v", err))
	}
	defer resp.Body.Close()

	log.Debug("latex render response", "url", reqURL, "status", resp.StatusCode, "elapsed", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return failed(block, reasonPhrase(resp))
	}

	// SECURITY: Limit response size to prevent memory exhaustion
	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxImageSize+1))
	if err != nil {
		return failed(block, fmt.Sprintf("failed to read image: %v", err))
	}
	if len(body) > MaxImageSize {
		return failed(block, fmt.Sprintf("image exceeded maximum size of %d bytes", MaxImageSize))
	}

	img, format, err := image.Decode(bytes.NewReader(body))
	if err != nil {
		return failed(block, fmt.Sprintf("failed to decode image: %v", err))
	}
	return RenderedBlock{Image: img, Format: format, Source: block}
}

// reasonPhrase returns the status line text without the code, e.g.
// "Bad Request" for "400 Bad Request".
func reasonPhrase(resp *http.Response) string {
	code := fmt.Sprintf("%d", resp.StatusCode)
	if phrase := strings.TrimSpace(strings.TrimPrefix(resp.Status, code)); phrase != "" {
		return phrase
	}
	if phrase := http.StatusText(resp.StatusCode); phrase != "" {
		return phrase
	}
	return "HTTP " + code
}
