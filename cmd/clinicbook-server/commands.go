package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/uptrace/bun"

	"clinicbook/internal/config"
	"clinicbook/internal/seed"
	"clinicbook/internal/service/directory"
	"clinicbook/internal/store/sqlstore"
)

func migrateCmd(configFile *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigration(cmd, *configFile, "migrations complete", sqlstore.Migrate)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Roll back the last group of migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigration(cmd, *configFile, "rollback complete", sqlstore.Rollback)
		},
	})
	return cmd
}

func runMigration(cmd *cobra.Command, configFile, msg string, run func(context.Context, *bun.DB) ([]string, error)) error {
	cfg, log, err := setup(configFile)
	if err != nil {
		return err
	}
	if cfg.DatabaseDriver == config.DriverMemory {
		return fmt.Errorf("migrate: database.driver is %q; nothing to migrate", cfg.DatabaseDriver)
	}

	st, err := openStores(cmd.Context(), cfg, log, false)
	if err != nil {
		return err
	}
	defer st.close()

	names, err := run(cmd.Context(), st.db)
	if err != nil {
		return err
	}
	log.Info(msg, slog.Int("count", len(names)), slog.Any("versions", names))
	return nil
}

func seedCmd(configFile *string) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load doctors, patients and rooms from a YAML fixtures file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := setup(*configFile)
			if err != nil {
				return err
			}
			if file == "" {
				file = cfg.SeedFile
			}
			if cfg.DatabaseDriver == config.DriverMemory {
				log.Warn("seeding the memory store; data is discarded on exit")
			}

			fx, err := seed.LoadFile(file)
			if err != nil {
				return err
			}

			st, err := openStores(cmd.Context(), cfg, log, true)
			if err != nil {
				return err
			}
			defer st.close()

			rep, err := seed.Apply(cmd.Context(), directory.NewService(st.directory), fx)
			if err != nil {
				return fmt.Errorf("seed: %w", err)
			}
			log.Info("seed complete",
				slog.String("file", file),
				slog.Int("doctors", rep.Doctors),
				slog.Int("patients", rep.Patients),
				slog.Int("rooms", rep.Rooms),
				slog.Int("skipped", rep.Skipped),
			)
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "fixtures file (defaults to seed.file)")
	return cmd
}
