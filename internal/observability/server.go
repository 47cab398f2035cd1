// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Poseiden Contributors

// Package observability serves the back office's Prometheus metrics and
// health probes on a listener separate from the web application.
package observability

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/samber/oops"
)

// ReadinessTimeout bounds a single readiness check.
const ReadinessTimeout = 2 * time.Second

// ReadinessCheck reports why the back office cannot serve requests, or nil
// when it can. The storage ping is the usual check.
type ReadinessCheck func(ctx context.Context) error

// ServerConfig configures the probe server.
type ServerConfig struct {
	Addr   string
	Ready  ReadinessCheck // nil means always ready
	Logger *slog.Logger   // defaults to slog.Default()
}

// Server exposes /metrics, /healthz/liveness and /healthz/readiness.
type Server struct {
	cfg      ServerConfig
	logger   *slog.Logger
	registry *prometheus.Registry
	metrics  *Metrics
	handler  http.Handler

	mu       sync.Mutex
	listener net.Listener
	http     *http.Server
}

// NewServer builds the probe server and its private metrics registry.
func NewServer(cfg ServerConfig) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	s := &Server{
		cfg:      cfg,
		logger:   logger.With("component", "observability"),
		registry: registry,
		metrics:  NewMetrics(registry),
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{EnableOpenMetrics: true}))
	r.Get("/healthz/liveness", s.handleLiveness)
	r.Get("/healthz/readiness", s.handleReadiness)
	s.handler = r

	return s
}

// Metrics returns the back-office collectors registered on this server.
func (s *Server) Metrics() *Metrics {
	return s.metrics
}

// Handler returns the probe routes without a listener.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start listens on the configured address. The returned channel carries a
// serve failure and is closed once the server stops.
func (s *Server) Start() (<-chan error, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.http != nil {
		return nil, oops.Code("OBSERVABILITY_ALREADY_RUNNING").With("addr", s.cfg.Addr).Errorf("observability server already running")
	}

	listener, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return nil, oops.Code("OBSERVABILITY_LISTEN_FAILED").With("addr", s.cfg.Addr).Wrap(err)
	}

	srv := &http.Server{Handler: s.handler, ReadHeaderTimeout: 10 * time.Second}
	s.listener, s.http = listener, srv

	errCh := make(chan error, 1)
	go func() {
		defer close(errCh)
		if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("observability server failed", "addr", listener.Addr().String(), "error", err)
			errCh <- err
		}
	}()
	return errCh, nil
}

// Stop shuts the server down. Stopping a server that is not running is a
// no-op; a failed shutdown leaves it running so Stop can be retried.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.http == nil {
		return nil
	}
	if err := s.http.Shutdown(ctx); err != nil {
		return oops.Code("OBSERVABILITY_SHUTDOWN_FAILED").With("addr", s.Addr()).Wrap(err)
	}
	s.http = nil
	return nil
}

// Addr is the bound listen address, or "" before Start.
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

func (s *Server) handleLiveness(w http.ResponseWriter, _ *http.Request) {
	writeProbe(w, http.StatusOK, "ok")
}

func (s *Server) handleReadiness(w http.ResponseWriter, r *http.Request) {
	if s.cfg.Ready == nil {
		writeProbe(w, http.StatusOK, "ok")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), ReadinessTimeout)
	defer cancel()

	if err := s.cfg.Ready(ctx); err != nil {
		s.logger.WarnContext(ctx, "readiness check failed", "error", err)
		writeProbe(w, http.StatusServiceUnavailable, "not ready: "+err.Error())
		return
	}
	writeProbe(w, http.StatusOK, "ok")
}

func writeProbe(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body + "\n"))
}
