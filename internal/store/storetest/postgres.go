// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Poseiden Contributors

// Package storetest starts a migrated PostgreSQL container for integration tests.
package storetest

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/samber/oops"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/poseiden/backoffice/internal/store"
)

// Database is a running, fully migrated PostgreSQL instance.
type Database struct {
	Pool    *pgxpool.Pool
	ConnStr string

	container *postgres.PostgresContainer
}

// Start runs postgres:16-alpine, applies every migration and opens a pool.
func Start(ctx context.Context) (*Database, error) {
	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("poseiden_test"),
		postgres.WithUsername("poseiden"),
		postgres.WithPassword("poseiden"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		return nil, oops.Code("TEST_DB_START_FAILED").Wrap(err)
	}

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, oops.Code("TEST_DB_START_FAILED").Wrap(err)
	}

	migrator, err := store.NewMigrator(connStr)
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, err
	}
	if err := migrator.Up(); err != nil {
		_ = migrator.Close()
		_ = container.Terminate(ctx)
		return nil, err
	}
	_ = migrator.Close()

	pool, err := store.Connect(ctx, connStr, store.ConnectOptions{})
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, err
	}

	return &Database{Pool: pool, ConnStr: connStr, container: container}, nil
}

// Truncate empties the given tables and resets their identity sequences.
func (d *Database) Truncate(ctx context.Context, tables ...string) error {
	for _, table := range tables {
		if _, err := d.Pool.Exec(ctx, "TRUNCATE TABLE "+table+" RESTART IDENTITY CASCADE"); err != nil {
			return oops.Code("TEST_DB_TRUNCATE_FAILED").With("table", table).Wrap(err)
		}
	}
	return nil
}

// Close closes the pool and terminates the container.
func (d *Database) Close(ctx context.Context) {
	d.Pool.Close()
	_ = d.container.Terminate(ctx)
}
