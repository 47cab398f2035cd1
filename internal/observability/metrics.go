// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Poseiden Contributors

package observability

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/poseiden/backoffice/internal/entity"
)

// Login outcomes recorded by ObserveLogin.
const (
	LoginSucceeded = "success"
	LoginRejected  = "rejected"
	LoginErrored   = "error"
)

// sessionsInvalidated counts sessions dropped because their user no longer
// exists. Package-level so the web layer can record it without holding a
// Server.
var sessionsInvalidated = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "poseiden_sessions_invalidated_total",
		Help: "Total number of sessions invalidated by reason",
	},
	[]string{"reason"},
)

// RecordSessionInvalidated increments the invalidated-session counter.
func RecordSessionInvalidated(reason string) {
	sessionsInvalidated.WithLabelValues(reason).Inc()
}

// Metrics contains the Prometheus collectors for the back office.
type Metrics struct {
	RequestsTotal         *prometheus.CounterVec
	RequestDuration       *prometheus.HistogramVec
	LoginsTotal           *prometheus.CounterVec
	EntityOperationsTotal *prometheus.CounterVec
}

var _ entity.Observer = (*Metrics)(nil)

// NewMetrics creates and registers the back-office metrics.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		RequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "poseiden_http_requests_total",
				Help: "Total number of HTTP requests by method, route and status",
			},
			[]string{"method", "route", "status"},
		),
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "poseiden_http_request_duration_seconds",
				Help:    "HTTP request latency by method and route",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		LoginsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "poseiden_logins_total",
				Help: "Total number of login attempts by outcome",
			},
			[]string{"outcome"},
		),
		EntityOperationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "poseiden_entity_operations_total",
				Help: "Total number of entity operations by entity, operation and status",
			},
			[]string{"entity", "operation", "status"},
		),
	}

	reg.MustRegister(m.RequestsTotal)
	reg.MustRegister(m.RequestDuration)
	reg.MustRegister(m.LoginsTotal)
	reg.MustRegister(m.EntityOperationsTotal)
	reg.MustRegister(sessionsInvalidated)

	return m
}

// ObserveRequest records one served HTTP request. route is the matched
// route pattern, not the raw path, to keep label cardinality bounded.
func (m *Metrics) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	m.RequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.RequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// ObserveLogin records a login attempt outcome.
func (m *Metrics) ObserveLogin(outcome string) {
	if m == nil {
		return
	}
	m.LoginsTotal.WithLabelValues(outcome).Inc()
}

// ObserveOperation implements entity.Observer.
func (m *Metrics) ObserveOperation(kind, op string, err error) {
	if m == nil {
		return
	}
	status := "ok"
	switch {
	case err == nil:
	case entity.IsNotFound(err):
		status = "not_found"
	default:
		status = "error"
	}
	m.EntityOperationsTotal.WithLabelValues(kind, op, status).Inc()
}
