package store

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

type testEntry struct {
	ID     string  `json:"id"`
	Rating float64 `json:"rating"`
}

// memKV is an in-memory KV for cell tests that don't need durability.
type memKV struct {
	data    map[string][]byte
	failSet bool
}

func newMemKV() *memKV {
	return &memKV{data: make(map[string][]byte)}
}

func (m *memKV) Get(key string) ([]byte, bool) {
	v, ok := m.data[key]
	return v, ok
}

func (m *memKV) Set(key string, value []byte) error {
	if m.failSet {
		return errors.New("disk full")
	}
	m.data[key] = value
	return nil
}

func (m *memKV) Delete(key string) error {
	delete(m.data, key)
	return nil
}

func (m *memKV) Close() error { return nil }

func TestCell_DefaultWhenAbsent(t *testing.T) {
	kv := newMemKV()

	c := NewCell(kv, "watched", []testEntry{{ID: "default"}})

	got := c.Get()
	if len(got) != 1 || got[0].ID != "default" {
		t.Errorf("expected default value, got %+v", got)
	}
}

func TestCell_DefaultWhenUnparseable(t *testing.T) {
	kv := newMemKV()
	kv.data["watched"] = []byte("{not json")

	c := NewCell(kv, "watched", []testEntry(nil))

	if got := c.Get(); got != nil {
		t.Errorf("expected default for corrupt entry, got %+v", got)
	}
}

func TestCell_LoadsStoredValue(t *testing.T) {
	kv := newMemKV()
	kv.data["watched"] = []byte(`[{"id":"tt1","rating":8.5}]`)

	c := NewCell(kv, "watched", []testEntry(nil))

	want := []testEntry{{ID: "tt1", Rating: 8.5}}
	if diff := cmp.Diff(want, c.Get()); diff != "" {
		t.Errorf("unexpected loaded value (-want +got):\n%s", diff)
	}
}

func TestCell_SetPersists(t *testing.T) {
	kv := newMemKV()
	c := NewCell(kv, "watched", []testEntry(nil))

	c.Set([]testEntry{{ID: "tt1", Rating: 9}})

	// A fresh cell over the same store must see the written value
	reloaded := NewCell(kv, "watched", []testEntry(nil))
	want := []testEntry{{ID: "tt1", Rating: 9}}
	if diff := cmp.Diff(want, reloaded.Get()); diff != "" {
		t.Errorf("round-trip mismatch (-want +got):\n%s", diff)
	}
}

func TestCell_UpdateAppliesFunction(t *testing.T) {
	kv := newMemKV()
	c := NewCell(kv, "counter", 10)

	got := c.Update(func(v int) int { return v + 5 })

	if got != 15 {
		t.Errorf("expected 15, got %d", got)
	}
	if c.Get() != 15 {
		t.Errorf("expected stored value 15, got %d", c.Get())
	}
}

func TestCell_WriteFailureKeepsValue(t *testing.T) {
	kv := newMemKV()
	c := NewCell(kv, "watched", []testEntry(nil))
	kv.failSet = true

	c.Set([]testEntry{{ID: "tt1"}})

	// The in-memory value stays current even though the write failed
	got := c.Get()
	if len(got) != 1 || got[0].ID != "tt1" {
		t.Errorf("expected in-memory value after failed write, got %+v", got)
	}
	if _, found := kv.data["watched"]; found {
		t.Error("expected no durable entry after failed write")
	}
}
