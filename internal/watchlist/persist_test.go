package watchlist

import (
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/teo/popcorn/internal/store"
)

// The watched collection must survive a full store round trip: close the
// database, reopen it, and get back an equal collection.
func TestWatchedCollectionRoundTrip(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "popcorn.db")

	kv, err := store.NewSQLiteKV(dbPath)
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}

	want := []Entry{
		{IMDBID: "tt1", Title: "Alien", Year: "1979", Poster: "p.jpg", Runtime: 117, IMDBRating: 8.5, UserRating: 9, RatingDecisions: 3},
		{IMDBID: "tt2", Title: "Aliens", Year: "1986", Poster: "q.jpg", Runtime: 137, IMDBRating: 8.4, UserRating: 8, RatingDecisions: 1},
	}

	cell := store.NewCell(kv, StoreKey, []Entry(nil))
	cell.Set(want)

	if err := kv.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}

	reopened, err := store.NewSQLiteKV(dbPath)
	if err != nil {
		t.Fatalf("failed to reopen store: %v", err)
	}
	defer reopened.Close()

	got := store.NewCell(reopened, StoreKey, []Entry(nil)).Get()
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("round-trip mismatch (-want +got):\n%s", diff)
	}
}
