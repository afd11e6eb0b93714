// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package update

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// memStore is an in-memory Store.
type memStore struct {
	times  map[string]time.Time
	setErr error
	sets   int
}

func newMemStore() *memStore {
	return &memStore{times: map[string]time.Time{}}
}

func (m *memStore) GetTime(section, name string) (time.Time, bool) {
	t, ok := m.times[section+"."+name]
	return t, ok
}

func (m *memStore) SetTime(section, name string, t time.Time) error {
	m.sets++
	if m.setErr != nil {
		return m.setErr
	}
	m.times[section+"."+name] = t
	return nil
}

type proxy struct {
	*httptest.Server
	hits atomic.Int32
	path atomic.Value
}

func newProxy(t *testing.T, status int, body string) *proxy {
	t.Helper()
	p := &proxy{}
	p.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p.hits.Add(1)
		p.path.Store(r.URL.Path)
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(p.Close)
	return p
}

var now = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newChecker(store Store, index string) *Checker {
	return &Checker{
		Store:    store,
		IndexURL: index,
		Module:   "github.com/Jeranaias/grok-cli",
		Current:  "v1.2.0",
		Command:  "grok",
		Now:      func() time.Time { return now },
	}
}

// =============================================================================
// RATE LIMIT TESTS
// =============================================================================

func TestCheck_RecentTimestampSkipsQuery(t *testing.T) {
	p := newProxy(t, http.StatusOK, "v9.9.9\n")
	store := newMemStore()
	store.times[Section+"."+Key] = now.Add(-2 * time.Hour)

	notices, err := newChecker(store, p.URL).Check(context.Background(), false)
	require.NoError(t, err)
	require.Empty(t, notices)
	require.Zero(t, p.hits.Load())
	require.Zero(t, store.sets)
}

func TestCheck_StaleTimestampQueries(t *testing.T) {
	p := newProxy(t, http.StatusOK, "v1.0.0\nv1.2.0\n")
	store := newMemStore()
	store.times[Section+"."+Key] = now.Add(-25 * time.Hour)

	notices, err := newChecker(store, p.URL).Check(context.Background(), false)
	require.NoError(t, err)
	require.Empty(t, notices)
	require.Equal(t, int32(1), p.hits.Load())

	last, ok := store.GetTime(Section, Key)
	require.True(t, ok)
	require.Equal(t, now, last)
}

func TestCheck_MissingTimestampQueries(t *testing.T) {
	p := newProxy(t, http.StatusOK, "")
	_, err := newChecker(newMemStore(), p.URL).Check(context.Background(), false)
	require.NoError(t, err)
	require.Equal(t, int32(1), p.hits.Load())
}

func TestCheck_ForcedIgnoresTimestamp(t *testing.T) {
	p := newProxy(t, http.StatusOK, "v1.3.0\n")
	store := newMemStore()
	store.times[Section+"."+Key] = now.Add(-time.Minute)

	notices, err := newChecker(store, p.URL).Check(context.Background(), true)
	require.NoError(t, err)
	require.Equal(t, int32(1), p.hits.Load())
	require.Len(t, notices, 2)
}

// =============================================================================
// RESULT TESTS
// =============================================================================

func TestCheck_NoticesForNewerVersion(t *testing.T) {
	p := newProxy(t, http.StatusOK, "v1.1.0\nv1.3.0\nv1.10.0\nv2.0.0-rc.1\nv1.2.0\n")

	notices, err := newChecker(newMemStore(), p.URL).Check(context.Background(), false)
	require.NoError(t, err)
	require.Equal(t, []string{
		"There is a new version of grok: v1.2.0 -> v1.10.0",
		"Update with: go install github.com/Jeranaias/grok-cli@v1.10.0",
	}, notices)

	// Upper case letters are escaped for the module proxy.
	require.Equal(t, "/github.com/!jeranaias/grok-cli/@v/list", p.path.Load())
}

func TestCheck_TimestampWrittenOnFailure(t *testing.T) {
	p := newProxy(t, http.StatusGone, "not found")
	store := newMemStore()

	notices, err := newChecker(store, p.URL).Check(context.Background(), false)
	require.Error(t, err)
	require.Empty(t, notices)

	last, ok := store.GetTime(Section, Key)
	require.True(t, ok)
	require.Equal(t, now, last)
}

func TestCheck_StoreErrorReported(t *testing.T) {
	p := newProxy(t, http.StatusOK, "v1.2.1\n")
	store := newMemStore()
	store.setErr = errors.New("read-only file system")

	notices, err := newChecker(store, p.URL).Check(context.Background(), false)
	require.Error(t, err)
	require.Contains(t, err.Error(), "read-only")
	require.Len(t, notices, 2)
}

func TestLatest(t *testing.T) {
	tests := []struct {
		name     string
		current  string
		versions []string
		want     string
	}{
		{"none newer", "v1.2.0", []string{"v1.0.0", "v1.2.0"}, ""},
		{"highest wins", "1.0.0", []string{"v1.0.1", "v1.4.0", "v1.3.9"}, "v1.4.0"},
		{"prerelease skipped", "v1.0.0", []string{"v1.1.0-beta.1", "v2.0.0-rc.1"}, ""},
		{"garbage skipped", "v1.0.0", []string{"latest", "", "v1.0.1"}, "v1.0.1"},
		{"dev build", "dev", []string{"v1.0.0"}, ""},
		{"short form", "v1.2", []string{"v1.2.1"}, "v1.2.1"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, Latest(tc.current, tc.versions))
		})
	}
}

func TestDue(t *testing.T) {
	store := newMemStore()
	c := newChecker(store, "")
	require.True(t, c.Due(now))

	store.times[Section+"."+Key] = now.Add(-23 * time.Hour)
	require.False(t, c.Due(now))

	store.times[Section+"."+Key] = now.Add(-24 * time.Hour)
	require.True(t, c.Due(now))
}
