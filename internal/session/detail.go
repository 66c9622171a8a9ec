package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/teo/popcorn/internal/catalog"
	"github.com/teo/popcorn/internal/metrics"
)

// DefaultLabel is the application's display label when no detail view is open.
const DefaultLabel = "usePopcorn"

// Fetcher fetches a single movie's full record.
type Fetcher interface {
	Detail(ctx context.Context, imdbID string) (*catalog.MovieDetail, error)
}

// LabelSetter updates an external display label (e.g. the terminal title).
type LabelSetter func(label string)

// DetailSnapshot is a consistent view of the loader's state.
type DetailSnapshot struct {
	SelectedID string
	Status     Status
	Detail     *catalog.MovieDetail
	ErrMsg     string
}

// DetailLoaderConfig holds configuration for the detail loader.
type DetailLoaderConfig struct {
	Fetcher Fetcher
	// SetLabel is called with a derived label while a detail is loaded and
	// with DefaultLabel when the view closes. Optional. It runs with the
	// loader's lock held and must not call back into the loader.
	SetLabel LabelSetter
	// OnChange is notified after every committed state transition. It runs
	// with the loader's lock held and must not call back into the loader.
	OnChange func(DetailSnapshot)
	Metrics  metrics.Recorder
}

// DetailLoader fetches one movie's full record whenever the selected
// identifier changes. Only one detail view is open at a time; selecting a
// different movie supersedes the previous fetch's outcome.
type DetailLoader struct {
	fetcher  Fetcher
	setLabel LabelSetter
	onChange func(DetailSnapshot)
	metrics  metrics.Recorder

	mu         sync.Mutex
	selectedID string
	status     Status
	detail     *catalog.MovieDetail
	errMsg     string
	generation uint64
}

// NewDetailLoader creates a detail loader.
func NewDetailLoader(cfg DetailLoaderConfig) *DetailLoader {
	return &DetailLoader{
		fetcher:  cfg.Fetcher,
		setLabel: cfg.SetLabel,
		onChange: cfg.OnChange,
		metrics:  cfg.Metrics,
		status:   StatusIdle,
	}
}

// Select makes imdbID the open detail view and fetches its record.
// An empty id closes the view.
func (d *DetailLoader) Select(imdbID string) {
	if imdbID == "" {
		d.Clear()
		return
	}

	d.mu.Lock()
	d.selectedID = imdbID
	d.generation++
	gen := d.generation
	d.status = StatusLoading
	d.errMsg = ""
	d.notify(d.snapshotLocked())
	d.mu.Unlock()

	go d.fetch(gen, imdbID)
}

// Clear closes the detail view and restores the default display label.
func (d *DetailLoader) Clear() {
	d.mu.Lock()
	d.selectedID = ""
	d.generation++
	d.detail = nil
	d.errMsg = ""
	d.status = StatusIdle
	d.notify(d.snapshotLocked())
	if d.setLabel != nil {
		d.setLabel(DefaultLabel)
	}
	d.mu.Unlock()
}

// fetch performs one detail fetch and commits its outcome only if imdbID is
// still the selected movie.
func (d *DetailLoader) fetch(gen uint64, imdbID string) {
	start := time.Now()
	detail, err := d.fetcher.Detail(context.Background(), imdbID)

	d.mu.Lock()
	if gen != d.generation {
		d.mu.Unlock()
		slog.Debug("detail fetch superseded", "imdb_id", imdbID)
		return
	}

	if err != nil {
		if errors.Is(err, catalog.ErrNoResults) {
			d.errMsg = msgMovieNotFound
		} else {
			d.errMsg = msgFetchFailed
			slog.Warn("detail fetch failed", "imdb_id", imdbID, "error", err)
		}
		d.status = StatusError
		d.notify(d.snapshotLocked())
		d.mu.Unlock()
		if d.metrics != nil {
			d.metrics.RecordDetailFailure()
		}
		return
	}

	// Observer and label delivery stay under the lock: a concurrent Clear
	// must run either entirely before or entirely after the commit and its
	// side effects, never between them.
	d.detail = detail
	d.errMsg = ""
	d.status = StatusSuccess
	d.notify(d.snapshotLocked())
	if d.setLabel != nil && detail.Title != "" {
		d.setLabel("Movie | " + detail.Title)
	}
	d.mu.Unlock()

	if d.metrics != nil {
		d.metrics.RecordDetailSuccess()
		d.metrics.RecordFetchLatency(time.Since(start))
	}
}

// State returns a consistent snapshot of the loader's current state.
func (d *DetailLoader) State() DetailSnapshot {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.snapshotLocked()
}

// Close tears the loader down, discarding any in-flight outcome and
// restoring the default display label.
func (d *DetailLoader) Close() {
	d.Clear()
}

// snapshotLocked builds a DetailSnapshot. Caller holds the lock.
func (d *DetailLoader) snapshotLocked() DetailSnapshot {
	return DetailSnapshot{
		SelectedID: d.selectedID,
		Status:     d.status,
		Detail:     d.detail,
		ErrMsg:     d.errMsg,
	}
}

// notify delivers a snapshot to the observer, if one is configured.
func (d *DetailLoader) notify(snap DetailSnapshot) {
	if d.onChange != nil {
		d.onChange(snap)
	}
}
