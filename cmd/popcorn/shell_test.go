package main

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/teo/popcorn/internal/config"
	"github.com/teo/popcorn/internal/session"
	"github.com/teo/popcorn/internal/store"
	"github.com/teo/popcorn/internal/watchlist"
)

// syncBuffer serializes writes from the shell and its render callbacks.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func newTestShell(t *testing.T) (*shell, *syncBuffer) {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id := r.URL.Query().Get("i"); id != "" {
			fmt.Fprintf(w, `{"Response":"True","imdbID":%q,"Title":"Alien","Year":"1979","Runtime":"117 min","imdbRating":"8.5"}`, id)
			return
		}
		fmt.Fprint(w, `{"Response":"True","Search":[{"imdbID":"tt0078748","Title":"Alien","Year":"1979"}]}`)
	}))
	t.Cleanup(srv.Close)

	kv, err := store.NewSQLiteKV(filepath.Join(t.TempDir(), "state.db"))
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { kv.Close() })

	watched := store.NewCell(kv, watchlist.StoreKey, []watchlist.Entry(nil))

	cfg := &config.Config{
		Catalog: config.CatalogConfig{
			APIKey:          "test-key",
			Endpoint:        srv.URL,
			TimeoutSeconds:  5,
			RateLimitPerSec: 100,
		},
		Search: config.SearchConfig{MinQueryLength: 3},
	}

	out := &syncBuffer{}
	sh := newShell(cfg, watched, nil, out)
	t.Cleanup(sh.close)
	return sh, out
}

func waitForShellStatus(t *testing.T, get func() session.Status, want session.Status) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if get() == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for status %v", want)
}

func TestShell_AddNotesDuplicateEntries(t *testing.T) {
	sh, out := newTestShell(t)
	searchStatus := func() session.Status { return sh.search.State().Status }
	detailStatus := func() session.Status { return sh.detail.State().Status }

	sh.handle("alien")
	waitForShellStatus(t, searchStatus, session.StatusSuccess)

	sh.handle("open 1")
	waitForShellStatus(t, detailStatus, session.StatusSuccess)
	sh.handle("rate 8")
	sh.handle("add")

	if strings.Contains(out.String(), "already on the watched list") {
		t.Fatal("first add must not report a duplicate")
	}

	// Adding the same movie again appends, with a note about the duplicate
	sh.handle("open 1")
	waitForShellStatus(t, detailStatus, session.StatusSuccess)
	sh.handle("rate 9")
	sh.handle("add")

	if !strings.Contains(out.String(), "already on the watched list") {
		t.Error("second add of the same movie should note the duplicate")
	}
	if got := len(sh.watched.Get()); got != 2 {
		t.Errorf("expected 2 watched entries, got %d", got)
	}
}
