// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Poseiden Contributors

//go:build integration

package postgres_test

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention

	"github.com/poseiden/backoffice/internal/access"
	"github.com/poseiden/backoffice/internal/auth"
	"github.com/poseiden/backoffice/internal/entity"
	entitypg "github.com/poseiden/backoffice/internal/entity/postgres"
	"github.com/poseiden/backoffice/internal/users"
)

var _ = Describe("Bid repository through the CRUD service", func() {
	var (
		ctx context.Context
		svc *entity.Service[entity.Bid]
	)

	BeforeEach(func() {
		ctx = context.Background()
		truncateAll(ctx)
		var err error
		svc, err = entity.NewService(entity.ServiceConfig[entity.Bid]{Repo: entitypg.NewBidRepository(db.Pool)})
		Expect(err).NotTo(HaveOccurred())
	})

	It("runs the create, update, delete scenario", func() {
		created, err := svc.Create(ctx, entity.Bid{Account: "A1", Type: "T1", BidQuantity: 10})
		Expect(err).NotTo(HaveOccurred())
		Expect(created.ID).To(Equal(int64(1)))

		_, err = svc.Update(ctx, 1, entity.Bid{Account: "A2", Type: "T1", BidQuantity: 20})
		Expect(err).NotTo(HaveOccurred())

		got, err := svc.FindByID(ctx, 1)
		Expect(err).NotTo(HaveOccurred())
		Expect(got).To(Equal(entity.Bid{ID: 1, Account: "A2", Type: "T1", BidQuantity: 20}))

		Expect(svc.Delete(ctx, 1)).To(Succeed())

		_, err = svc.FindByID(ctx, 1)
		Expect(entity.IsNotFound(err)).To(BeTrue())
		id, ok := entity.NotFoundID(err)
		Expect(ok).To(BeTrue())
		Expect(id).To(Equal(int64(1)))
	})

	It("round-trips nullable columns", func() {
		day := time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)
		ask := 3.5
		created, err := svc.Create(ctx, entity.Bid{
			Account: "A1", Type: "T1", BidQuantity: 1, AskQuantity: &ask, BidListDate: &day,
			Provenance: entity.Provenance{CreationName: "alice", CreationDate: &day},
		})
		Expect(err).NotTo(HaveOccurred())

		got, err := svc.FindByID(ctx, created.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(*got.AskQuantity).To(Equal(3.5))
		Expect(got.BidAmount).To(BeNil())
		Expect(got.BidListDate.Equal(day)).To(BeTrue())
		Expect(got.CreationName).To(Equal("alice"))
	})

	It("fails update and delete of a missing id without writing", func() {
		_, err := svc.Update(ctx, 99, entity.Bid{Account: "A", Type: "T", BidQuantity: 1})
		Expect(entity.IsNotFound(err)).To(BeTrue())
		Expect(entity.IsNotFound(svc.Delete(ctx, 99))).To(BeTrue())

		all, err := svc.FindAll(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(all).To(BeEmpty())
	})
})

var _ = Describe("Other record repositories", func() {
	var ctx context.Context

	BeforeEach(func() {
		ctx = context.Background()
		truncateAll(ctx)
	})

	It("lists curve points in id order", func() {
		repo := entitypg.NewCurvePointRepository(db.Pool)
		for i := 1; i <= 3; i++ {
			_, err := repo.Create(ctx, entity.CurvePoint{CurveID: i, Term: float64(i), Value: 1})
			Expect(err).NotTo(HaveOccurred())
		}
		all, err := repo.FindAll(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(all).To(HaveLen(3))
		Expect(all[0].CurveID).To(Equal(1))
		Expect(all[2].CurveID).To(Equal(3))
	})

	It("overwrites ratings, rules and trades on save", func() {
		ratings := entitypg.NewRatingRepository(db.Pool)
		r, err := ratings.Create(ctx, entity.Rating{MoodysRating: "Aaa", SandPRating: "AAA", FitchRating: "AAA", OrderNumber: 1})
		Expect(err).NotTo(HaveOccurred())
		r.OrderNumber = 2
		_, err = ratings.Save(ctx, r)
		Expect(err).NotTo(HaveOccurred())
		got, err := ratings.FindByID(ctx, r.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(got.OrderNumber).To(Equal(2))

		rules := entitypg.NewRuleRepository(db.Pool)
		rule, err := rules.Create(ctx, entity.Rule{Name: "n", Description: "d"})
		Expect(err).NotTo(HaveOccurred())
		rule.SQLPart = "WHERE 1=1"
		_, err = rules.Save(ctx, rule)
		Expect(err).NotTo(HaveOccurred())

		trades := entitypg.NewTradeRepository(db.Pool)
		buy := 10.0
		trade, err := trades.Create(ctx, entity.Trade{Account: "A", Type: "FX", BuyQuantity: &buy})
		Expect(err).NotTo(HaveOccurred())
		Expect(trades.Delete(ctx, trade)).To(Succeed())
		Expect(entity.IsNotFound(trades.Delete(ctx, trade))).To(BeTrue())
	})
})

var _ = Describe("User repository", func() {
	var (
		ctx  context.Context
		repo *entitypg.UserRepository
		svc  *users.Service
	)

	BeforeEach(func() {
		ctx = context.Background()
		truncateAll(ctx)
		repo = entitypg.NewUserRepository(db.Pool)
		var err error
		svc, err = users.NewService(users.ServiceConfig{Repo: repo, Hasher: auth.NewArgon2idHasher()})
		Expect(err).NotTo(HaveOccurred())
	})

	It("rejects a duplicate username and keeps the count", func() {
		_, err := svc.Create(ctx, entity.User{Username: "alice", Password: "Secr3t!pass", Fullname: "Alice", Role: access.RoleUser})
		Expect(err).NotTo(HaveOccurred())

		_, err = svc.Create(ctx, entity.User{Username: "alice", Password: "0ther!Pass", Fullname: "Alice 2", Role: access.RoleUser})
		Expect(err).To(MatchError(users.ErrDuplicateUsername))

		n, err := svc.Count(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(n).To(Equal(1))
	})

	It("maps the unique index to a duplicate error when the check is bypassed", func() {
		_, err := repo.Create(ctx, entity.User{Username: "bob", Password: "h", Fullname: "Bob", Role: access.RoleUser})
		Expect(err).NotTo(HaveOccurred())
		_, err = repo.Create(ctx, entity.User{Username: "bob", Password: "h", Fullname: "Bob", Role: access.RoleUser})
		Expect(err).To(MatchError(users.ErrDuplicateUsername))
	})

	It("finds users by name and updates their hash", func() {
		created, err := svc.Create(ctx, entity.User{Username: "carol", Password: "Secr3t!pass", Fullname: "Carol", Role: access.RoleAdmin})
		Expect(err).NotTo(HaveOccurred())

		exists, err := repo.ExistsByUsername(ctx, "carol")
		Expect(err).NotTo(HaveOccurred())
		Expect(exists).To(BeTrue())

		Expect(repo.UpdatePasswordHash(ctx, "carol", "replaced")).To(Succeed())
		u, err := repo.FindByUsername(ctx, "carol")
		Expect(err).NotTo(HaveOccurred())
		Expect(u.ID).To(Equal(created.ID))
		Expect(u.Password).To(Equal("replaced"))
		Expect(u.Role).To(Equal(access.RoleAdmin))
	})
})
