// Package metrics exposes Prometheus counters for quoting, widget sessions
// and swap submission.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SwapMetrics counts quotes, session events, pool loads, approvals and
// submissions. A nil *SwapMetrics records nothing.
type SwapMetrics struct {
	quotes         *prometheus.CounterVec
	sessionEvents  *prometheus.CounterVec
	poolLoads      *prometheus.CounterVec
	submissions    *prometheus.CounterVec
	approvals      *prometheus.CounterVec
	activeSessions prometheus.Gauge
}

var (
	swapOnce     sync.Once
	swapRegistry *SwapMetrics
)

// Swap returns the process-wide collectors, registering them on first use.
func Swap() *SwapMetrics {
	swapOnce.Do(func() {
		swapRegistry = &SwapMetrics{
			quotes: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "swap_quotes_total",
				Help: "Count of quotes computed by trade type and outcome.",
			}, []string{"type", "outcome"}),
			sessionEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "swap_session_events_total",
				Help: "Count of events dispatched to widget sessions by kind.",
			}, []string{"kind"}),
			poolLoads: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "swap_pool_loads_total",
				Help: "Count of reserve fetches by outcome.",
			}, []string{"outcome"}),
			submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "swap_submissions_total",
				Help: "Count of swap submissions by variant and outcome.",
			}, []string{"variant", "outcome"}),
			approvals: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "swap_approvals_total",
				Help: "Count of token approvals issued before a swap by outcome.",
			}, []string{"outcome"}),
			activeSessions: prometheus.NewGauge(prometheus.GaugeOpts{
				Name: "swap_active_sessions",
				Help: "Number of open widget sessions.",
			}),
		}
		prometheus.MustRegister(
			swapRegistry.quotes,
			swapRegistry.sessionEvents,
			swapRegistry.poolLoads,
			swapRegistry.submissions,
			swapRegistry.approvals,
			swapRegistry.activeSessions,
		)
	})
	return swapRegistry
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveQuote counts one quote by trade type and outcome.
func (m *SwapMetrics) ObserveQuote(tradeType string, err error) {
	if m == nil {
		return
	}
	m.quotes.WithLabelValues(label(tradeType), outcome(err)).Inc()
}

// ObserveSessionEvent counts one event dispatched to a session.
func (m *SwapMetrics) ObserveSessionEvent(kind string) {
	if m == nil {
		return
	}
	m.sessionEvents.WithLabelValues(label(kind)).Inc()
}

// ObservePoolLoad counts one reserve fetch.
func (m *SwapMetrics) ObservePoolLoad(err error) {
	if m == nil {
		return
	}
	m.poolLoads.WithLabelValues(outcome(err)).Inc()
}

// ObserveSubmission counts one router submission by variant.
func (m *SwapMetrics) ObserveSubmission(variant string, err error) {
	if m == nil {
		return
	}
	m.submissions.WithLabelValues(label(variant), outcome(err)).Inc()
}

// ObserveApproval counts one awaited approval.
func (m *SwapMetrics) ObserveApproval(err error) {
	if m == nil {
		return
	}
	m.approvals.WithLabelValues(outcome(err)).Inc()
}

// SetActiveSessions publishes the number of open sessions.
func (m *SwapMetrics) SetActiveSessions(n int) {
	if m == nil {
		return
	}
	m.activeSessions.Set(float64(n))
}

func label(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
