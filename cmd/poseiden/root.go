// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Poseiden Contributors

package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/poseiden/backoffice/internal/config"
	"github.com/poseiden/backoffice/internal/logging"
)

// serviceName labels every log record.
const serviceName = "poseiden"

// Global flags available to all subcommands.
var configFile string

// NewRootCmd creates the root command for the Poseiden CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "poseiden",
		Short: "Poseiden - trading back office",
		Long: `Poseiden is the back office for trading records: bids, curve points,
ratings, rule names and trades, with session-based login and role-based
access for users and administrators.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (YAML)")
	cmd.PersistentFlags().String("log-format", config.Defaults().Log.Format, "log format (json or text)")

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewMigrateCmd())
	cmd.AddCommand(NewSeedAdminCmd())
	cmd.AddCommand(NewPruneSessionsCmd())
	cmd.AddCommand(NewStatusCmd())

	return cmd
}

// loadConfig reads the config file and cmd's flags, then installs the
// default logger it describes.
func loadConfig(cmd *cobra.Command) (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(configFile, cmd.Flags())
	if err != nil {
		return nil, nil, err
	}
	logger := logging.SetDefault(serviceName, version, cfg.Log.Format, cfg.Log.Level)
	return cfg, logger, nil
}
