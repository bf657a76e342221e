package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rcarvalho-pb/checkout_relay-go/internal/infrastructure/persistence/sqlite"
)

var errNoDatabase = errors.New("DATABASE_PATH is not set")

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the delivery ledger schema in DATABASE_PATH",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if cfg.DatabasePath == "" {
				return errNoDatabase
			}

			db, err := sqlite.Open(cfg.DatabasePath)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := sqlite.RunMigrations(db); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "delivery ledger ready at %s\n", cfg.DatabasePath)
			return nil
		},
	}
}

func deliveriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "deliveries [session_id]",
		Short: "List recorded notification attempts for a checkout session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if cfg.DatabasePath == "" {
				return errNoDatabase
			}

			db, err := sqlite.Open(cfg.DatabasePath)
			if err != nil {
				return err
			}
			defer db.Close()

			deliveries, err := sqlite.NewDeliveryRepository(db).ListBySession(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(deliveries)
		},
	}
}
