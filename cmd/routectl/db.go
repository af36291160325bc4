package main

import (
	"errors"
	"journey-route-service/internal/adapters/repositories"
	"journey-route-service/internal/config"
	"journey-route-service/internal/platform/db"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func newDBCmd(getCfg func() *config.Config) *cobra.Command {
	dbCmd := &cobra.Command{
		Use:   "db",
		Short: "Manage the journey database",
	}

	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Create the journey tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := getCfg()
			if cfg.DatabaseURL == "" {
				return errors.New("DATABASE_URL is required")
			}

			conn, err := db.Open(cmd.Context(), cfg.DatabaseURL)
			if err != nil {
				return err
			}
			defer conn.Close()

			log.Info().Msg("initializing database schema")
			if err := repositories.InitSchema(cmd.Context(), conn); err != nil {
				return err
			}
			log.Info().Msg("schema ready")
			return nil
		},
	}

	var seedFile string
	seedCmd := &cobra.Command{
		Use:   "seed",
		Short: "Load journeys from a JSON seed file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := getCfg()
			if cfg.DatabaseURL == "" {
				return errors.New("DATABASE_URL is required")
			}
			if seedFile == "" {
				seedFile = cfg.SeedPath
			}

			conn, err := db.Open(cmd.Context(), cfg.DatabaseURL)
			if err != nil {
				return err
			}
			defer conn.Close()

			if err := repositories.InitSchema(cmd.Context(), conn); err != nil {
				return err
			}

			log.Info().Str("file", seedFile).Msg("seeding database")
			if err := repositories.SeedFromJSON(cmd.Context(), conn, seedFile); err != nil {
				return err
			}
			log.Info().Msg("seeding complete")
			return nil
		},
	}
	seedCmd.Flags().StringVar(&seedFile, "file", "", "seed file (defaults to SEED_PATH)")

	dbCmd.AddCommand(initCmd, seedCmd)
	return dbCmd
}
