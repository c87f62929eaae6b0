package main

import (
	"database/sql"
	"fmt"
	"foodcart-service/internal/adapters/repositories"
	"foodcart-service/internal/config"
	"foodcart-service/internal/platform/db"
	"foodcart-service/internal/platform/obs"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "dbtool",
		Short:         "Initialize the schema and load catalog data.",
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	root.AddCommand(newInitCommand(), newSeedCommand())
	return root
}

func newInitCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create tables and indexes if they do not exist.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			conn, err := openDB()
			if err != nil {
				return err
			}
			defer conn.Close()

			log.Info().Msg("initializing database schema")
			if err := repositories.InitSchema(cmd.Context(), conn); err != nil {
				return fmt.Errorf("schema initialization failed: %w", err)
			}
			log.Info().Msg("schema ready")
			return nil
		},
	}
}

func newSeedCommand() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Upsert restaurants, products, and menu items from a YAML catalog.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			conn, err := openDB()
			if err != nil {
				return err
			}
			defer conn.Close()

			if err := repositories.InitSchema(cmd.Context(), conn); err != nil {
				return fmt.Errorf("schema initialization failed: %w", err)
			}

			log.Info().Str("file", file).Msg("seeding database")
			if err := repositories.SeedFromFile(cmd.Context(), conn, file); err != nil {
				return fmt.Errorf("seeding failed: %w", err)
			}
			log.Info().Msg("seeding complete")
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "data/seeds/catalog.yaml", "Catalog YAML file")
	return cmd
}

func openDB() (*sql.DB, error) {
	cfg, err := config.LoadDatabase()
	if err != nil {
		return nil, err
	}
	obs.SetupLogging(cfg.Log.Level, cfg.Log.Format)
	return db.Open(cfg.Database.URL)
}
