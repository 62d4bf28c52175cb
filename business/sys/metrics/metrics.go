// Package metrics constructs the metrics the node exposes on its debug
// endpoint.
package metrics

import (
	"net/http"
	"runtime"

	"github.com/ardanlabs/ledger/foundation/blockchain/state"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "ledger"

// Metrics holds the request counters and the registry the ledger gauges are
// published through. Each value owns its registry so more than one node can
// live in the same process.
type Metrics struct {
	registry *prometheus.Registry
	requests prometheus.Counter
	errors   prometheus.Counter
	panics   prometheus.Counter
}

// New constructs the metrics and registers gauges that read the current
// values straight from the ledger on every scrape.
func New(st *state.State) *Metrics {
	m := Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requests_total",
			Help:      "Number of web requests handled.",
		}),
		errors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "errors_total",
			Help:      "Number of web requests that returned an error.",
		}),
		panics: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "panics_total",
			Help:      "Number of handler panics recovered.",
		}),
	}

	m.registry.MustRegister(
		m.requests,
		m.errors,
		m.panics,
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "goroutines",
			Help:      "Number of goroutines that currently exist.",
		}, func() float64 {
			return float64(runtime.NumGoroutine())
		}),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "chain_height",
			Help:      "Number of blocks in the chain including genesis.",
		}, func() float64 {
			return float64(st.Height())
		}),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "mempool_length",
			Help:      "Number of transactions waiting to be mined.",
		}, func() float64 {
			return float64(st.QueryMempoolLength())
		}),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "difficulty",
			Help:      "Difficulty of the latest block.",
		}, func() float64 {
			return float64(st.RetrieveLatestBlock().Difficulty)
		}),
	)

	return &m
}

// AddRequest increments the request counter.
func (m *Metrics) AddRequest() {
	m.requests.Inc()
}

// AddError increments the error counter.
func (m *Metrics) AddError() {
	m.errors.Inc()
}

// AddPanic increments the panic counter.
func (m *Metrics) AddPanic() {
	m.panics.Inc()
}

// Handler returns the http handler that serves the registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
