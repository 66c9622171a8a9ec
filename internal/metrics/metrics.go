// Package metrics collects fetch outcome counters.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Recorder is the instrumentation hook used by the session layer.
// A nil Recorder is valid and records nothing.
type Recorder interface {
	RecordSearchSuccess()
	RecordSearchFailure()
	RecordSearchSuperseded()
	RecordDetailSuccess()
	RecordDetailFailure()
	RecordFetchLatency(duration time.Duration)
}

// Collector implements Recorder with Prometheus metrics.
type Collector struct {
	searchSuccess    prometheus.Counter
	searchFail       prometheus.Counter
	searchSuperseded prometheus.Counter
	detailSuccess    prometheus.Counter
	detailFail       prometheus.Counter
	fetchLatency     prometheus.Histogram
}

// NewCollector creates a Collector and registers its metrics on reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		searchSuccess: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "popcorn_search_success_total",
			Help: "Total successful catalog searches",
		}),
		searchFail: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "popcorn_search_fail_total",
			Help: "Total failed catalog searches",
		}),
		searchSuperseded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "popcorn_search_superseded_total",
			Help: "Total searches cancelled by a newer query",
		}),
		detailSuccess: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "popcorn_detail_success_total",
			Help: "Total successful detail fetches",
		}),
		detailFail: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "popcorn_detail_fail_total",
			Help: "Total failed detail fetches",
		}),
		fetchLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "popcorn_fetch_latency_seconds",
			Help:    "Catalog fetch latency in seconds",
			Buckets: prometheus.DefBuckets,
		}),
	}

	reg.MustRegister(
		c.searchSuccess,
		c.searchFail,
		c.searchSuperseded,
		c.detailSuccess,
		c.detailFail,
		c.fetchLatency,
	)

	return c
}

// RecordSearchSuccess counts a successful search.
func (c *Collector) RecordSearchSuccess() { c.searchSuccess.Inc() }

// RecordSearchFailure counts a failed search.
func (c *Collector) RecordSearchFailure() { c.searchFail.Inc() }

// RecordSearchSuperseded counts a search cancelled by a newer query.
func (c *Collector) RecordSearchSuperseded() { c.searchSuperseded.Inc() }

// RecordDetailSuccess counts a successful detail fetch.
func (c *Collector) RecordDetailSuccess() { c.detailSuccess.Inc() }

// RecordDetailFailure counts a failed detail fetch.
func (c *Collector) RecordDetailFailure() { c.detailFail.Inc() }

// RecordFetchLatency records how long a catalog fetch took.
func (c *Collector) RecordFetchLatency(duration time.Duration) {
	c.fetchLatency.Observe(duration.Seconds())
}
