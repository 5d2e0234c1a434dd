// Package metrics exposes Prometheus collectors for RPC traffic, ledger
// operations and automation triggers.
package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mmynk/circlefund/internal/models"
)

const namespace = "circlefund"

// Metrics holds the application collectors and the registry serving them.
type Metrics struct {
	Registry *prometheus.Registry

	rpcRequests       *prometheus.CounterVec
	rpcDuration       *prometheus.HistogramVec
	ledgerOperations  *prometheus.CounterVec
	automationRuns    *prometheus.CounterVec
	automationLatency prometheus.Histogram
}

// New creates the collectors and registers them on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		rpcRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "rpc",
				Name:      "requests_total",
				Help:      "Total number of RPC requests handled.",
			},
			[]string{"procedure", "code"},
		),
		rpcDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "rpc",
				Name:      "request_duration_seconds",
				Help:      "Duration of RPC requests.",
				Buckets:   prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
			},
			[]string{"procedure"},
		),
		ledgerOperations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "ledger",
				Name:      "operations_total",
				Help:      "Total number of mutating ledger operations by outcome.",
			},
			[]string{"op", "result"},
		),
		automationRuns: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "automation",
				Name:      "trigger_runs_total",
				Help:      "Total number of automation triggers dispatched.",
			},
			[]string{"kind", "success"},
		),
		automationLatency: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "automation",
				Name:      "sweep_duration_seconds",
				Help:      "Duration of automation sweeps.",
				Buckets:   prometheus.ExponentialBuckets(0.01, 2, 10),
			},
		),
	}

	m.Registry.MustRegister(
		m.rpcRequests,
		m.rpcDuration,
		m.ledgerOperations,
		m.automationRuns,
		m.automationLatency,
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewGoCollector(),
	)
	return m
}

// Handler returns an HTTP handler exposing the registered metrics.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}

// Interceptor returns a Connect interceptor recording request counts and latency.
func (m *Metrics) Interceptor() connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			procedure := req.Spec().Procedure
			start := time.Now()

			resp, err := next(ctx, req)

			code := "ok"
			if err != nil {
				code = connect.CodeOf(err).String()
			}
			m.rpcRequests.WithLabelValues(procedure, code).Inc()
			m.rpcDuration.WithLabelValues(procedure).Observe(time.Since(start).Seconds())
			return resp, err
		}
	}
}

// OperationCompleted implements ledger.Observer.
func (m *Metrics) OperationCompleted(op string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
		if kind := models.KindOf(err); kind != models.KindUnknown {
			result = kind.String()
		}
	}
	m.ledgerOperations.WithLabelValues(op, result).Inc()
}

// TriggerCompleted records one automation trigger outcome.
func (m *Metrics) TriggerCompleted(kind models.AutomationKind, success bool) {
	m.automationRuns.WithLabelValues(string(kind), strconv.FormatBool(success)).Inc()
}

// SweepCompleted records the duration of one automation sweep.
func (m *Metrics) SweepCompleted(d time.Duration) {
	m.automationLatency.Observe(d.Seconds())
}
