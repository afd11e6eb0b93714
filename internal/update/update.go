// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package update

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/mod/module"
	"golang.org/x/mod/semver"
	"pkt.systems/pslog"
)

const (
	// DefaultIndexURL is the public Go module proxy.
	DefaultIndexURL = "https://proxy.golang.org"

	// DefaultModule is the module checked for new releases.
	DefaultModule = "github.com/jeranaias/grok-cli"

	// Interval is the minimum time between unforced checks.
	Interval = 24 * time.Hour

	// Section and Key locate the last-checked timestamp in the store.
	Section = "grok"
	Key     = "checked"

	// maxListSize bounds the version list read from the index.
	maxListSize = 1 << 20
)

// Store persists the last-checked timestamp.
type Store interface {
	GetTime(section, name string) (time.Time, bool)
	SetTime(section, name string, t time.Time) error
}

// Checker looks for a newer release of the running binary.
type Checker struct {
	Store    Store
	IndexURL string
	Module   string
	Current  string

	// Command is the tool name used in notices.
	Command string

	HTTPClient *http.Client
	Now        func() time.Time
}

// Due reports whether an unforced check should query the index at now.
// A missing timestamp counts as overdue.
func (c *Checker) Due(now time.Time) bool {
	last, ok := c.Store.GetTime(Section, Key)
	if !ok {
		last = now.Add(-2 * Interval)
	}
	return !last.After(now.Add(-Interval))
}

// Check queries the index for a newer stable version and returns notice
// lines, or none when up to date. Unless forced, it does nothing if the
// last check was within Interval. The timestamp is written after every
// query, successful or not.
func (c *Checker) Check(ctx context.Context, forced bool) (notices []string, err error) {
	log := pslog.Ctx(ctx)
	now := c.now()

	if !forced && !c.Due(now) {
		log.Debug("update check skipped", "reason", "checked recently")
		return nil, nil
	}

	defer func() {
		if serr := c.Store.SetTime(Section, Key, now); serr != nil {
			err = errors.Join(err, fmt.Errorf("record update check: %w", serr))
		}
	}()

	versions, err := c.listVersions(ctx)
	if err != nil {
		return nil, err
	}

	latest := Latest(c.Current, versions)
	log.Debug("update check done", "current", c.Current, "latest", latest, "candidates", len(versions))
	if latest == "" {
		return nil, nil
	}
	return c.notices(latest), nil
}

func (c *Checker) notices(latest string) []string {
	cmd := c.Command
	if cmd == "" {
		cmd = "grok"
	}
	return []string{
		fmt.Sprintf("There is a new version of %s: %s -> %s", cmd, c.Current, latest),
		fmt.Sprintf("Update with: go install %s@%s", c.Module, latest),
	}
}

// Latest returns the highest stable version in versions that is newer
// than current, or "" when there is none. Development builds with a
// non-semver version never see updates.
func Latest(current string, versions []string) string {
	cur := Canonical(current)
	if cur == "" {
		return ""
	}
	best := ""
	for _, v := range versions {
		v = Canonical(v)
		if v == "" || semver.Prerelease(v) != "" {
			continue
		}
		if semver.Compare(v, cur) <= 0 {
			continue
		}
		if best == "" || semver.Compare(v, best) > 0 {
			best = v
		}
	}
	return best
}

// Canonical normalises a version to "vMAJOR.MINOR.PATCH" form, or returns
// "" if it is not semver.
func Canonical(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return ""
	}
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	if !semver.IsValid(v) {
		return ""
	}
	return semver.Canonical(v)
}

// listVersions fetches <index>/<escaped module>/@v/list.
func (c *Checker) listVersions(ctx context.Context) ([]string, error) {
	escaped, err := module.EscapePath(c.Module)
	if err != nil {
		return nil, fmt.Errorf("invalid module path %q: %w", c.Module, err)
	}
	index := strings.TrimSuffix(c.IndexURL, "/")
	if index == "" {
		index = DefaultIndexURL
	}
	url := index + "/" + escaped + "/@v/list"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	client := c.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", index, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("query %s: %s", index, resp.Status)
	}

	var versions []string
	sc := bufio.NewScanner(io.LimitReader(resp.Body, maxListSize))
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			versions = append(versions, line)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read version list: %w", err)
	}
	return versions, nil
}

func (c *Checker) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}
