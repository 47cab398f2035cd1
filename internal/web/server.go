// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Poseiden Contributors

// Package web is the HTTP surface of the back office: login and logout,
// registration, the home view, and the record route families.
package web

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/samber/oops"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/poseiden/backoffice/internal/access"
	"github.com/poseiden/backoffice/internal/auth"
	"github.com/poseiden/backoffice/internal/entity"
	"github.com/poseiden/backoffice/internal/observability"
)

// Authenticator logs callers in and out and validates session tokens.
// *auth.Service satisfies it.
type Authenticator interface {
	Login(ctx context.Context, username, password, userAgent, ipAddress string) (*auth.Session, string, error)
	Logout(ctx context.Context, session *auth.Session) error
	ValidateSession(ctx context.Context, token string) (*auth.Session, error)
}

// IdentityResolver resolves a session into the current user's profile.
type IdentityResolver interface {
	CurrentUser(ctx context.Context, session *auth.Session) (*auth.Profile, error)
}

// RecordService is the CRUD surface of one record kind. *entity.Service[T]
// and *users.Service satisfy it.
type RecordService[T any] interface {
	Create(ctx context.Context, candidate T) (T, error)
	Update(ctx context.Context, id int64, incoming T) (T, error)
	Delete(ctx context.Context, id int64) error
	FindByID(ctx context.Context, id int64) (T, error)
	FindAll(ctx context.Context) ([]T, error)
}

// Options wires the web layer. Every service is required; Metrics, Logger,
// Now and Tracer are optional.
type Options struct {
	Auth     Authenticator
	Identity IdentityResolver
	Access   *access.Controller

	Bids        RecordService[entity.Bid]
	CurvePoints RecordService[entity.CurvePoint]
	Ratings     RecordService[entity.Rating]
	Rules       RecordService[entity.Rule]
	Trades      RecordService[entity.Trade]
	Users       RecordService[entity.User]

	Metrics *observability.Metrics
	Logger  *slog.Logger
	Now     func() time.Time
	Tracer  trace.Tracer

	CookieName     string
	SecureCookie   bool
	StaticDir      string
	AllowedOrigins []string
}

// TracerName is the instrumentation scope of request spans.
const TracerName = "poseiden/web"

// DefaultCookieName is used when Options.CookieName is empty.
const DefaultCookieName = "poseiden_session"

// Server serves the back office over HTTP.
type Server struct {
	auth     Authenticator
	identity IdentityResolver
	access   *access.Controller
	users    RecordService[entity.User]
	metrics  *observability.Metrics
	logger   *slog.Logger
	now      func() time.Time
	tracer   trace.Tracer

	cookieName   string
	secureCookie bool

	handler    http.Handler
	listener   net.Listener
	httpServer *http.Server
	running    atomic.Bool
}

// NewServer validates opts and builds the router.
func NewServer(opts Options) (*Server, error) {
	missing := func(name string) error {
		return oops.Code("WEB_CONFIG_INVALID").With("option", name).Errorf("%s is required", name)
	}
	switch {
	case opts.Auth == nil:
		return nil, missing("Auth")
	case opts.Identity == nil:
		return nil, missing("Identity")
	case opts.Access == nil:
		return nil, missing("Access")
	case opts.Bids == nil:
		return nil, missing("Bids")
	case opts.CurvePoints == nil:
		return nil, missing("CurvePoints")
	case opts.Ratings == nil:
		return nil, missing("Ratings")
	case opts.Rules == nil:
		return nil, missing("Rules")
	case opts.Trades == nil:
		return nil, missing("Trades")
	case opts.Users == nil:
		return nil, missing("Users")
	}

	s := &Server{
		auth:         opts.Auth,
		identity:     opts.Identity,
		access:       opts.Access,
		users:        opts.Users,
		metrics:      opts.Metrics,
		logger:       opts.Logger,
		now:          opts.Now,
		tracer:       opts.Tracer,
		cookieName:   opts.CookieName,
		secureCookie: opts.SecureCookie,
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.tracer == nil {
		s.tracer = otel.Tracer(TracerName)
	}
	if s.cookieName == "" {
		s.cookieName = DefaultCookieName
	}

	s.handler = s.routes(opts)
	return s, nil
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

func (s *Server) routes(opts Options) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(s.instrument)
	if len(opts.AllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   opts.AllowedOrigins,
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders:   []string{"Content-Type", "X-Requested-With"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}
	r.Use(s.authenticate)
	r.Use(s.authorize)

	r.Get(access.PathLogin, s.handleLoginView)
	r.Get("/app/login", s.handleLoginView)
	r.Post(access.PathLogin, s.handleLogin)
	r.Get(access.PathLogout, s.handleLogout)
	r.Post(access.PathLogout, s.handleLogout)
	r.Post(access.PathRegister, s.handleRegister)
	r.Get(access.PathForbidden, s.handleForbidden)
	r.Get("/app/error", s.handleForbidden)
	r.Get(access.PathHome, s.handleHome)
	r.Get("/app/secure/article-details", s.handleArticleDetails)

	mountFamily(r, "bidList", family[entity.Bid]{s: s, svc: opts.Bids, stamp: stampBid})
	mountFamily(r, "curvePoint", family[entity.CurvePoint]{s: s, svc: opts.CurvePoints, stamp: stampCurvePoint})
	mountFamily(r, "rating", family[entity.Rating]{s: s, svc: opts.Ratings})
	mountFamily(r, "ruleName", family[entity.Rule]{s: s, svc: opts.Rules})
	mountFamily(r, "trade", family[entity.Trade]{s: s, svc: opts.Trades, stamp: stampTrade})
	mountFamily(r, "user", family[entity.User]{
		s:       s,
		svc:     opts.Users,
		decode:  decodeUser,
		present: func(u entity.User) any { return presentUser(u) },
	})

	if opts.StaticDir != "" {
		files := http.FileServer(http.Dir(opts.StaticDir))
		r.Handle("/style/*", files)
		r.Handle("/js/*", files)
	}

	return r
}

// Start listens on addr and serves in the background. The returned channel
// receives a serve error, if any, and is closed when the server stops.
func (s *Server) Start(addr string) (<-chan error, error) {
	if !s.running.CompareAndSwap(false, true) {
		return nil, oops.Code("WEB_ALREADY_RUNNING").Errorf("web server already running")
	}

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		s.running.Store(false)
		return nil, oops.Code("WEB_LISTEN_FAILED").With("addr", addr).Wrap(err)
	}
	s.listener = listener

	httpSrv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.httpServer = httpSrv

	errCh := make(chan error, 1)
	go func() {
		defer close(errCh)
		if serveErr := httpSrv.Serve(listener); serveErr != nil && serveErr != http.ErrServerClosed {
			s.logger.Error("web server error", "error", serveErr)
			errCh <- serveErr
		}
	}()

	s.logger.Info("web server started", "addr", listener.Addr().String())
	return errCh, nil
}

// Stop gracefully shuts the server down.
func (s *Server) Stop(ctx context.Context) error {
	if !s.running.CompareAndSwap(true, false) {
		return nil
	}
	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			s.running.Store(true)
			return oops.Code("WEB_SHUTDOWN_FAILED").Wrap(err)
		}
	}
	s.logger.Info("web server stopped")
	return nil
}

// Addr returns the listen address, or "" before Start.
func (s *Server) Addr() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return ""
}
