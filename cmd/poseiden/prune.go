// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Poseiden Contributors

package main

import (
	"context"
	"time"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/poseiden/backoffice/internal/auth"
	"github.com/poseiden/backoffice/internal/config"
	"github.com/poseiden/backoffice/internal/users"
)

// pruner deletes expired sessions. *auth.Service satisfies it.
type pruner interface {
	PruneExpired(ctx context.Context) (int64, error)
}

// NewPruneSessionsCmd creates the prune-sessions subcommand.
func NewPruneSessionsCmd() *cobra.Command {
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "prune-sessions",
		Short: "Delete expired login sessions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if cfg.Database.URL == "" {
				return oops.Code("CONFIG_INVALID").With("key", "database.url").
					Errorf("database.url or %s is required", config.DatabaseURLEnv)
			}
			cfg.Storage = config.StoragePostgres

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			b, err := openBackend(ctx, cfg)
			if err != nil {
				return err
			}
			defer b.close()

			svc, err := auth.NewAuthServiceWithLogger(users.NewCredentialStore(b.users), b.sessions, auth.NewArgon2idHasher(), logger)
			if err != nil {
				return err
			}
			n, err := pruneSessions(ctx, svc)
			if err != nil {
				return err
			}
			logger.Info("expired sessions pruned", "count", n)
			cmd.Printf("Deleted %d expired session(s)\n", n)
			return nil
		},
	}

	cmd.Flags().DurationVar(&timeout, "timeout", defaultSeedTimeout, "timeout for database operations")
	cmd.Flags().String("database-url", "", "PostgreSQL URL (default: $"+config.DatabaseURLEnv+")")

	return cmd
}

func pruneSessions(ctx context.Context, p pruner) (int64, error) {
	n, err := p.PruneExpired(ctx)
	if err != nil {
		return 0, oops.With("operation", "prune sessions").Wrap(err)
	}
	return n, nil
}
