// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Poseiden Contributors

package main

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/poseiden/backoffice/internal/access"
	"github.com/poseiden/backoffice/internal/auth"
	"github.com/poseiden/backoffice/internal/config"
	"github.com/poseiden/backoffice/internal/entity"
	"github.com/poseiden/backoffice/internal/users"
)

// AdminPasswordEnv holds the password seed-admin assigns.
const AdminPasswordEnv = "POSEIDEN_ADMIN_PASSWORD"

const defaultSeedTimeout = 30 * time.Second

type seedConfig struct {
	username string
	fullname string
	timeout  time.Duration
}

// NewSeedAdminCmd creates the seed-admin subcommand.
func NewSeedAdminCmd() *cobra.Command {
	cfg := &seedConfig{}

	cmd := &cobra.Command{
		Use:   "seed-admin",
		Short: "Create the first administrator account",
		Long: `Creates an ADMIN account whose password is read from $` + AdminPasswordEnv + `.
This command is idempotent: an existing account with the same username is left untouched.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSeedAdmin(cmd, cfg)
		},
	}

	cmd.Flags().StringVar(&cfg.username, "username", "admin", "administrator username")
	cmd.Flags().StringVar(&cfg.fullname, "fullname", "Administrator", "administrator full name")
	cmd.Flags().DurationVar(&cfg.timeout, "timeout", defaultSeedTimeout, "timeout for database operations (e.g., 30s, 1m)")
	cmd.Flags().String("database-url", "", "PostgreSQL URL (default: $"+config.DatabaseURLEnv+")")

	return cmd
}

func runSeedAdmin(cmd *cobra.Command, sc *seedConfig) error {
	password := os.Getenv(AdminPasswordEnv)
	if password == "" {
		return oops.Code("CONFIG_INVALID").With("key", AdminPasswordEnv).
			Errorf("%s environment variable is required", AdminPasswordEnv)
	}
	if err := users.ValidatePasswordPolicy(password); err != nil {
		return err
	}

	cfg, logger, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cfg.Database.URL == "" {
		return oops.Code("CONFIG_INVALID").With("key", "database.url").
			Errorf("database.url or %s is required", config.DatabaseURLEnv)
	}
	cfg.Storage = config.StoragePostgres

	ctx, cancel := context.WithTimeout(cmd.Context(), sc.timeout)
	defer cancel()

	cmd.Println("Connecting to database...")
	b, err := openBackend(ctx, cfg)
	if err != nil {
		return err
	}
	defer b.close()

	svc, err := users.NewService(users.ServiceConfig{Repo: b.users, Hasher: auth.NewArgon2idHasher()})
	if err != nil {
		return err
	}

	created, err := seedAdmin(ctx, svc, sc.username, sc.fullname, password)
	if err != nil {
		return err
	}
	if !created {
		logger.Info("administrator already exists", "username", sc.username)
		cmd.Printf("Administrator %q already exists\n", sc.username)
		return nil
	}
	logger.Info("administrator created", "username", sc.username)
	cmd.Printf("Created administrator %q\n", sc.username)
	return nil
}

// accountCreator is the part of *users.Service seedAdmin needs.
type accountCreator interface {
	Create(ctx context.Context, candidate entity.User) (entity.User, error)
}

// seedAdmin creates an ADMIN account and reports whether it did. A taken
// username is not an error.
func seedAdmin(ctx context.Context, svc accountCreator, username, fullname, password string) (bool, error) {
	_, err := svc.Create(ctx, entity.User{
		Username: username,
		Password: password,
		Fullname: fullname,
		Role:     access.RoleAdmin,
	})
	switch {
	case errors.Is(err, users.ErrDuplicateUsername):
		return false, nil
	case err != nil:
		return false, oops.Code("SEED_FAILED").With("username", username).Wrap(err)
	}
	return true, nil
}
