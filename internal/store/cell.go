package store

import (
	"encoding/json"
	"log/slog"
	"sync"
)

// Cell wraps a single named value that round-trips to the durable store on
// every change. A corrupt or missing stored entry silently falls back to the
// default value; a failed write is logged and the in-memory value stays
// current, so the next successful write catches the store back up.
type Cell[T any] struct {
	kv  KV
	key string

	mu    sync.Mutex
	value T
}

// NewCell acquires the cell for key, loading the stored value if one exists
// and is parseable, otherwise starting from defaultValue.
func NewCell[T any](kv KV, key string, defaultValue T) *Cell[T] {
	c := &Cell[T]{kv: kv, key: key, value: defaultValue}

	data, found := kv.Get(key)
	if !found {
		return c
	}

	var stored T
	if err := json.Unmarshal(data, &stored); err != nil {
		slog.Debug("stored value unparseable, using default", "key", key, "error", err)
		return c
	}

	c.value = stored
	return c
}

// Get returns the current value.
func (c *Cell[T]) Get() T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.value
}

// Set replaces the value and writes it to the durable store.
func (c *Cell[T]) Set(value T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.value = value
	c.persist()
}

// Update replaces the value with fn(previous) and writes the result to the
// durable store. The function runs under the cell's lock, so interleaved
// logical updates each see the latest value.
func (c *Cell[T]) Update(fn func(T) T) T {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.value = fn(c.value)
	c.persist()
	return c.value
}

// persist serializes the current value to the store. Caller holds the lock.
func (c *Cell[T]) persist() {
	data, err := json.Marshal(c.value)
	if err != nil {
		slog.Error("failed to serialize state value", "key", c.key, "error", err)
		return
	}
	if err := c.kv.Set(c.key, data); err != nil {
		slog.Error("failed to persist state value", "key", c.key, "error", err)
	}
}
