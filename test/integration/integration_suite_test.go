// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Poseiden Contributors

//go:build integration

// Package integration runs the back office end to end against PostgreSQL.
package integration

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"testing"

	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention

	"github.com/poseiden/backoffice/internal/access"
	"github.com/poseiden/backoffice/internal/auth"
	authpostgres "github.com/poseiden/backoffice/internal/auth/postgres"
	"github.com/poseiden/backoffice/internal/entity"
	entitypostgres "github.com/poseiden/backoffice/internal/entity/postgres"
	"github.com/poseiden/backoffice/internal/store/storetest"
	"github.com/poseiden/backoffice/internal/users"
	"github.com/poseiden/backoffice/internal/web"
)

func TestIntegration(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Back Office Integration Suite")
}

var (
	db       *storetest.Database
	server   *httptest.Server
	userSvc  *users.Service
	sessions *authpostgres.SessionRepository
)

var _ = BeforeSuite(func() {
	ctx := context.Background()

	var err error
	db, err = storetest.Start(ctx)
	Expect(err).NotTo(HaveOccurred())

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	hasher := auth.NewArgon2idHasher()
	userRepo := entitypostgres.NewUserRepository(db.Pool)
	sessions = authpostgres.NewSessionRepository(db.Pool)

	userSvc, err = users.NewService(users.ServiceConfig{Repo: userRepo, Hasher: hasher})
	Expect(err).NotTo(HaveOccurred())
	credentials := users.NewCredentialStore(userRepo)
	authSvc, err := auth.NewAuthServiceWithLogger(credentials, sessions, hasher, logger)
	Expect(err).NotTo(HaveOccurred())
	identity, err := auth.NewIdentityResolver(credentials)
	Expect(err).NotTo(HaveOccurred())

	bids, err := entity.NewService(entity.ServiceConfig[entity.Bid]{Repo: entitypostgres.NewBidRepository(db.Pool)})
	Expect(err).NotTo(HaveOccurred())
	curvePoints, err := entity.NewService(entity.ServiceConfig[entity.CurvePoint]{Repo: entitypostgres.NewCurvePointRepository(db.Pool)})
	Expect(err).NotTo(HaveOccurred())
	ratings, err := entity.NewService(entity.ServiceConfig[entity.Rating]{Repo: entitypostgres.NewRatingRepository(db.Pool)})
	Expect(err).NotTo(HaveOccurred())
	rules, err := entity.NewService(entity.ServiceConfig[entity.Rule]{Repo: entitypostgres.NewRuleRepository(db.Pool)})
	Expect(err).NotTo(HaveOccurred())
	trades, err := entity.NewService(entity.ServiceConfig[entity.Trade]{Repo: entitypostgres.NewTradeRepository(db.Pool)})
	Expect(err).NotTo(HaveOccurred())

	srv, err := web.NewServer(web.Options{
		Auth:        authSvc,
		Identity:    identity,
		Access:      access.NewDefaultController(),
		Bids:        bids,
		CurvePoints: curvePoints,
		Ratings:     ratings,
		Rules:       rules,
		Trades:      trades,
		Users:       userSvc,
		Logger:      logger,
	})
	Expect(err).NotTo(HaveOccurred())
	server = httptest.NewServer(srv.Handler())
})

var _ = AfterSuite(func() {
	if server != nil {
		server.Close()
	}
	if db != nil {
		db.Close(context.Background())
	}
})

func resetDatabase(ctx context.Context) {
	Expect(db.Truncate(ctx, "sessions", "bid_list", "curve_point", "rating", "rule_name", "trade", "users")).To(Succeed())
}

// newClient returns a client with its own cookie jar that does not follow
// redirects.
func newClient() *http.Client {
	jar, err := cookiejar.New(nil)
	Expect(err).NotTo(HaveOccurred())
	return &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}
