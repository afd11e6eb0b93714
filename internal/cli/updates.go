// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"pkt.systems/pslog"

	"github.com/jeranaias/grok-cli/internal/config"
	"github.com/jeranaias/grok-cli/internal/update"
	"github.com/jeranaias/grok-cli/internal/userconfig"
)

// updateTimeout bounds one release check, including the store write.
const updateTimeout = 10 * time.Second

// newUpdateChecker builds a checker backed by the user-global store.
func newUpdateChecker(cfg *config.Config) (*update.Checker, error) {
	path, err := userconfig.DefaultPath()
	if err != nil {
		return nil, err
	}
	store, err := userconfig.Open(path)
	if err != nil {
		return nil, err
	}
	return &update.Checker{
		Store:      store,
		IndexURL:   cfg.Update.IndexURL,
		Module:     cfg.Update.Module,
		Current:    CurrentVersion(),
		Command:    "grok",
		HTTPClient: &http.Client{Timeout: updateTimeout},
	}, nil
}

// checkUpdates runs one release check and returns its notices. Failures
// are logged and yield no notices; the check never affects the session.
func checkUpdates(ctx context.Context, cfg *config.Config, forced bool) ([]string, error) {
	log := pslog.Ctx(ctx)

	ctx, cancel := context.WithTimeout(ctx, updateTimeout)
	defer cancel()

	checker, err := newUpdateChecker(cfg)
	if err != nil {
		log.Debug("update check unavailable", "err", err)
		return nil, err
	}
	notices, err := checker.Check(ctx, forced)
	if err != nil {
		log.Debug("update check failed", "err", err, "forced", forced)
	}
	return notices, err
}

// printNotices writes update notices after the session output.
func printNotices(w io.Writer, notices []string) {
	if len(notices) == 0 {
		return
	}
	fmt.Fprintln(w)
	for _, n := range notices {
		fmt.Fprintln(w, noticeStyle.Render(n))
	}
}
