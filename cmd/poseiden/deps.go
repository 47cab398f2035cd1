// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Poseiden Contributors

package main

import (
	"context"
	"log/slog"
	"time"

	"github.com/samber/oops"

	"github.com/poseiden/backoffice/internal/access"
	"github.com/poseiden/backoffice/internal/auth"
	authmemory "github.com/poseiden/backoffice/internal/auth/memory"
	authpostgres "github.com/poseiden/backoffice/internal/auth/postgres"
	"github.com/poseiden/backoffice/internal/config"
	"github.com/poseiden/backoffice/internal/entity"
	"github.com/poseiden/backoffice/internal/entity/memory"
	entitypostgres "github.com/poseiden/backoffice/internal/entity/postgres"
	"github.com/poseiden/backoffice/internal/observability"
	"github.com/poseiden/backoffice/internal/store"
	"github.com/poseiden/backoffice/internal/users"
	"github.com/poseiden/backoffice/internal/web"
)

// backend holds the repositories of one storage mode.
type backend struct {
	bids        entity.Repository[entity.Bid]
	curvePoints entity.Repository[entity.CurvePoint]
	ratings     entity.Repository[entity.Rating]
	rules       entity.Repository[entity.Rule]
	trades      entity.Repository[entity.Trade]
	users       users.Repository
	sessions    auth.SessionRepository

	// ping reports whether the storage answers.
	ping  func(ctx context.Context) error
	close func()
}

// openBackend connects the storage cfg selects.
func openBackend(ctx context.Context, cfg *config.Config) (*backend, error) {
	if cfg.Storage == config.StorageMemory {
		return memoryBackend(), nil
	}

	pool, err := store.Connect(ctx, cfg.Database.URL, store.ConnectOptions{Timeout: cfg.Database.ConnectTimeout})
	if err != nil {
		return nil, err
	}
	return &backend{
		bids:        entitypostgres.NewBidRepository(pool),
		curvePoints: entitypostgres.NewCurvePointRepository(pool),
		ratings:     entitypostgres.NewRatingRepository(pool),
		rules:       entitypostgres.NewRuleRepository(pool),
		trades:      entitypostgres.NewTradeRepository(pool),
		users:       entitypostgres.NewUserRepository(pool),
		sessions:    authpostgres.NewSessionRepository(pool),
		ping:        pool.Ping,
		close:       pool.Close,
	}, nil
}

func memoryBackend() *backend {
	return &backend{
		bids:        memory.NewRepository[entity.Bid](),
		curvePoints: memory.NewRepository[entity.CurvePoint](),
		ratings:     memory.NewRepository[entity.Rating](),
		rules:       memory.NewRepository[entity.Rule](),
		trades:      memory.NewRepository[entity.Trade](),
		users:       memory.NewUserRepository(),
		sessions:    authmemory.NewSessionRepository(),
		ping:        func(context.Context) error { return nil },
		close:       func() {},
	}
}

// ready is the observability readiness check: the storage must answer a ping.
func (b *backend) ready(ctx context.Context) error {
	if err := b.ping(ctx); err != nil {
		return oops.Code("STORAGE_UNREACHABLE").Wrap(err)
	}
	return nil
}

// services are the domain services wired over a backend.
type services struct {
	auth     *auth.Service
	identity *auth.IdentityResolver
	users    *users.Service

	bids        *entity.Service[entity.Bid]
	curvePoints *entity.Service[entity.CurvePoint]
	ratings     *entity.Service[entity.Rating]
	rules       *entity.Service[entity.Rule]
	trades      *entity.Service[entity.Trade]
}

func newCRUD[T entity.Entity[T]](repo entity.Repository[T], observer entity.Observer) (*entity.Service[T], error) {
	return entity.NewService(entity.ServiceConfig[T]{Repo: repo, Observer: observer})
}

// newServices wires every service over b. metrics may be nil.
func newServices(b *backend, metrics *observability.Metrics, sessionTTL time.Duration, logger *slog.Logger) (*services, error) {
	var observer entity.Observer
	if metrics != nil {
		observer = metrics
	}

	hasher := auth.NewArgon2idHasher()
	credentials := users.NewCredentialStore(b.users)

	authSvc, err := auth.NewAuthServiceWithLogger(credentials, b.sessions, hasher, logger)
	if err != nil {
		return nil, oops.Code("WIRING_FAILED").With("service", "auth").Wrap(err)
	}
	if sessionTTL > 0 {
		authSvc.SetSessionTTL(sessionTTL)
	}
	identity, err := auth.NewIdentityResolver(credentials)
	if err != nil {
		return nil, oops.Code("WIRING_FAILED").With("service", "identity").Wrap(err)
	}
	userSvc, err := users.NewService(users.ServiceConfig{Repo: b.users, Hasher: hasher, Observer: observer})
	if err != nil {
		return nil, oops.Code("WIRING_FAILED").With("service", "users").Wrap(err)
	}

	s := &services{auth: authSvc, identity: identity, users: userSvc}
	if s.bids, err = newCRUD(b.bids, observer); err != nil {
		return nil, oops.Code("WIRING_FAILED").With("service", entity.KindBid).Wrap(err)
	}
	if s.curvePoints, err = newCRUD(b.curvePoints, observer); err != nil {
		return nil, oops.Code("WIRING_FAILED").With("service", entity.KindCurvePoint).Wrap(err)
	}
	if s.ratings, err = newCRUD(b.ratings, observer); err != nil {
		return nil, oops.Code("WIRING_FAILED").With("service", entity.KindRating).Wrap(err)
	}
	if s.rules, err = newCRUD(b.rules, observer); err != nil {
		return nil, oops.Code("WIRING_FAILED").With("service", entity.KindRule).Wrap(err)
	}
	if s.trades, err = newCRUD(b.trades, observer); err != nil {
		return nil, oops.Code("WIRING_FAILED").With("service", entity.KindTrade).Wrap(err)
	}
	return s, nil
}

// webOptions maps services and cfg onto the web layer.
func (s *services) webOptions(cfg *config.Config, metrics *observability.Metrics, logger *slog.Logger) web.Options {
	return web.Options{
		Auth:           s.auth,
		Identity:       s.identity,
		Access:         access.NewDefaultController(),
		Bids:           s.bids,
		CurvePoints:    s.curvePoints,
		Ratings:        s.ratings,
		Rules:          s.rules,
		Trades:         s.trades,
		Users:          s.users,
		Metrics:        metrics,
		Logger:         logger,
		CookieName:     cfg.Session.CookieName,
		StaticDir:      cfg.Static.Dir,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
	}
}
