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

// User-facing messages for the two surfaced failure classes.
const (
	msgFetchFailed   = "Something went wrong with fetching movies"
	msgMovieNotFound = "Movie not found"
)

// Searcher searches the catalog by title.
type Searcher interface {
	Search(ctx context.Context, query string) ([]catalog.MovieSummary, error)
}

// Snapshot is a consistent view of the controller's state, delivered to the
// change observer after every committed transition.
type Snapshot struct {
	Query   string
	Status  Status
	Results []catalog.MovieSummary
	ErrMsg  string
}

// ControllerConfig holds configuration for the search controller.
type ControllerConfig struct {
	Searcher       Searcher
	MinQueryLength int
	// OnQueryChange fires once per query change, before the fetch decision,
	// so the caller can reset dependent state (e.g. close an open detail view).
	OnQueryChange func(query string)
	// OnChange is notified after every committed state transition. It runs
	// with the controller's lock held, so deliveries arrive in commit order;
	// it must not call back into the controller.
	OnChange func(Snapshot)
	Metrics  metrics.Recorder
}

// Controller owns the current search query and drives one fetch per query
// change. A new query cancels any in-flight fetch, and a cancelled fetch's
// outcome is discarded without touching results or error.
type Controller struct {
	searcher       Searcher
	minQueryLength int
	onQueryChange  func(string)
	onChange       func(Snapshot)
	metrics        metrics.Recorder

	mu         sync.Mutex
	query      string
	status     Status
	results    []catalog.MovieSummary
	errMsg     string
	generation uint64
	cancel     context.CancelFunc
}

// NewController creates a search controller.
func NewController(cfg ControllerConfig) *Controller {
	if cfg.MinQueryLength <= 0 {
		cfg.MinQueryLength = 3
	}
	return &Controller{
		searcher:       cfg.Searcher,
		minQueryLength: cfg.MinQueryLength,
		onQueryChange:  cfg.OnQueryChange,
		onChange:       cfg.OnChange,
		metrics:        cfg.Metrics,
		status:         StatusIdle,
	}
}

// SetQuery replaces the current query and starts (or skips) a fetch for it.
// Queries shorter than the minimum length never reach the network: the
// result list and error are cleared and the controller goes idle.
func (c *Controller) SetQuery(query string) {
	if c.onQueryChange != nil {
		c.onQueryChange(query)
	}

	c.mu.Lock()
	c.query = query
	c.generation++
	gen := c.generation

	// Supersede any in-flight fetch for the previous query
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}

	if len(query) < c.minQueryLength {
		c.results = nil
		c.errMsg = ""
		c.status = StatusIdle
		c.notify(c.snapshotLocked())
		c.mu.Unlock()
		return
	}

	c.status = StatusLoading
	c.errMsg = ""
	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	c.notify(c.snapshotLocked())
	c.mu.Unlock()

	go c.fetch(ctx, gen, query)
}

// fetch performs one search attempt and commits its outcome only if the
// attempt is still the current one.
func (c *Controller) fetch(ctx context.Context, gen uint64, query string) {
	start := time.Now()
	results, err := c.searcher.Search(ctx, query)

	c.mu.Lock()
	if gen != c.generation {
		// Superseded while in flight: a no-op, never an error
		c.mu.Unlock()
		slog.Debug("search superseded", "query", query)
		if c.metrics != nil {
			c.metrics.RecordSearchSuperseded()
		}
		return
	}

	if err != nil {
		if errors.Is(err, context.Canceled) {
			c.mu.Unlock()
			if c.metrics != nil {
				c.metrics.RecordSearchSuperseded()
			}
			return
		}
		if errors.Is(err, catalog.ErrNoResults) {
			c.errMsg = msgMovieNotFound
		} else {
			c.errMsg = msgFetchFailed
			slog.Warn("search failed", "query", query, "error", err)
		}
		c.status = StatusError
		c.cancel = nil
		c.notify(c.snapshotLocked())
		c.mu.Unlock()
		if c.metrics != nil {
			c.metrics.RecordSearchFailure()
		}
		return
	}

	// Deliver under the lock so a later query's Idle snapshot can never be
	// overtaken by this one.
	c.results = results
	c.errMsg = ""
	c.status = StatusSuccess
	c.cancel = nil
	c.notify(c.snapshotLocked())
	c.mu.Unlock()

	slog.Debug("search completed", "query", query, "results", len(results))
	if c.metrics != nil {
		c.metrics.RecordSearchSuccess()
		c.metrics.RecordFetchLatency(time.Since(start))
	}
}

// State returns a consistent snapshot of the controller's current state.
func (c *Controller) State() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Close cancels any in-flight fetch. The controller stays usable but no
// outcome from before Close will ever commit.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generation++
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
}

// snapshotLocked builds a Snapshot. Caller holds the lock.
func (c *Controller) snapshotLocked() Snapshot {
	return Snapshot{
		Query:   c.query,
		Status:  c.status,
		Results: c.results,
		ErrMsg:  c.errMsg,
	}
}

// notify delivers a snapshot to the observer, if one is configured.
func (c *Controller) notify(snap Snapshot) {
	if c.onChange != nil {
		c.onChange(snap)
	}
}
