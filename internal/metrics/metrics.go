// internal/metrics/metrics.go
//
// Prometheus collectors for rounds, moves, live sessions and HTTP traffic.
// Collectors are registered on an explicit Registerer so tests can use a
// fresh registry per server.

package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	RoundsStarted   *prometheus.CounterVec
	RoundsCompleted *prometheus.CounterVec
	RoundsAbandoned prometheus.Counter
	Moves           *prometheus.CounterVec
	RoundSeconds    *prometheus.HistogramVec
	Sessions        prometheus.Gauge
	Requests        *prometheus.CounterVec

	gatherer prometheus.Gatherer
}

// New registers all collectors on reg.
func New(reg *prometheus.Registry) *Metrics {
	m := &Metrics{
		RoundsStarted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "memoryrush_rounds_started_total",
				Help: "Rounds dealt, including restarts",
			},
			[]string{"difficulty"},
		),
		RoundsCompleted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "memoryrush_rounds_completed_total",
				Help: "Rounds finished with every pair matched",
			},
			[]string{"difficulty"},
		),
		RoundsAbandoned: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "memoryrush_rounds_abandoned_total",
			Help: "Rounds left for the menu before completion",
		}),
		Moves: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "memoryrush_moves_total",
				Help: "Evaluated two-tile selections by outcome",
			},
			[]string{"outcome"},
		),
		RoundSeconds: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "memoryrush_round_duration_seconds",
				Help:    "Elapsed round time at completion",
				Buckets: []float64{15, 30, 45, 60, 90, 120, 180, 300, 600},
			},
			[]string{"difficulty"},
		),
		Sessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "memoryrush_sessions",
			Help: "Live game sessions",
		}),
		Requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "memoryrush_http_requests_total",
				Help: "HTTP requests by route pattern and status",
			},
			[]string{"route", "status"},
		),
		gatherer: reg,
	}
	reg.MustRegister(
		m.RoundsStarted, m.RoundsCompleted, m.RoundsAbandoned,
		m.Moves, m.RoundSeconds, m.Sessions, m.Requests,
	)
	return m
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// ObserveRequest counts one HTTP response.
func (m *Metrics) ObserveRequest(route string, status int) {
	if route == "" {
		route = "unmatched"
	}
	m.Requests.WithLabelValues(route, strconv.Itoa(status)).Inc()
}
