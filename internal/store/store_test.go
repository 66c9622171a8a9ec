package store

import (
	"path/filepath"
	"testing"
)

func newTestKV(t *testing.T) *SQLiteKV {
	t.Helper()
	kv, err := NewSQLiteKV(filepath.Join(t.TempDir(), "state.db"))
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { kv.Close() })
	return kv
}

func TestSQLiteKV_GetMissing(t *testing.T) {
	kv := newTestKV(t)

	if _, found := kv.Get("nope"); found {
		t.Error("expected missing key to report not found")
	}
}

func TestSQLiteKV_SetGetRoundTrip(t *testing.T) {
	kv := newTestKV(t)

	if err := kv.Set("watched", []byte(`[{"imdbID":"tt1"}]`)); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	value, found := kv.Get("watched")
	if !found {
		t.Fatal("expected key to be found after set")
	}
	if string(value) != `[{"imdbID":"tt1"}]` {
		t.Errorf("unexpected value: %s", value)
	}
}

func TestSQLiteKV_SetOverwrites(t *testing.T) {
	kv := newTestKV(t)

	if err := kv.Set("watched", []byte("first")); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	if err := kv.Set("watched", []byte("second")); err != nil {
		t.Fatalf("overwrite failed: %v", err)
	}

	value, found := kv.Get("watched")
	if !found || string(value) != "second" {
		t.Errorf("expected overwritten value, got %q (found=%v)", value, found)
	}
}

func TestSQLiteKV_Delete(t *testing.T) {
	kv := newTestKV(t)

	if err := kv.Set("watched", []byte("x")); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	if err := kv.Delete("watched"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, found := kv.Get("watched"); found {
		t.Error("expected key to be gone after delete")
	}

	// Deleting a missing key is not an error
	if err := kv.Delete("watched"); err != nil {
		t.Errorf("delete of missing key failed: %v", err)
	}
}

func TestSQLiteKV_SurvivesReopen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "state.db")

	kv, err := NewSQLiteKV(dbPath)
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	if err := kv.Set("watched", []byte("persisted")); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	if err := kv.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}

	reopened, err := NewSQLiteKV(dbPath)
	if err != nil {
		t.Fatalf("failed to reopen store: %v", err)
	}
	defer reopened.Close()

	value, found := reopened.Get("watched")
	if !found || string(value) != "persisted" {
		t.Errorf("expected value to survive reopen, got %q (found=%v)", value, found)
	}
}
