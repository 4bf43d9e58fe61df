package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/golang-migrate/migrate/v4"
	"github.com/spf13/cobra"

	"github.com/m04kA/SMC-NailSalon/internal/app"
	"github.com/m04kA/SMC-NailSalon/internal/config"
	"github.com/m04kA/SMC-NailSalon/internal/infra/storage/migrations"
	"github.com/m04kA/SMC-NailSalon/pkg/logger"
	"github.com/m04kA/SMC-NailSalon/pkg/sqlbuilder"
)

var Version = "dev"

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:           "salonctl",
		Short:         "Operator tool for the nail salon booking service",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.toml", "path to config file")

	rootCmd.AddCommand(migrateCmd(&configPath))
	rootCmd.AddCommand(recurringCmd(&configPath))
	rootCmd.AddCommand(waitlistCmd(&configPath))

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func migrateCmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage database schema migrations",
	}

	var steps int
	up := &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := newMigrator(*configPath)
			if err != nil {
				return err
			}
			defer m.Close()

			if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
				return fmt.Errorf("migrate up: %w", err)
			}
			return printVersion(cmd, m)
		},
	}

	down := &cobra.Command{
		Use:   "down",
		Short: "Roll back migrations (one step by default)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if steps <= 0 {
				return fmt.Errorf("--steps must be positive")
			}
			m, err := newMigrator(*configPath)
			if err != nil {
				return err
			}
			defer m.Close()

			if err := m.Steps(-steps); err != nil && !errors.Is(err, migrate.ErrNoChange) {
				return fmt.Errorf("migrate down: %w", err)
			}
			return printVersion(cmd, m)
		},
	}
	down.Flags().IntVar(&steps, "steps", 1, "number of migrations to roll back")

	version := &cobra.Command{
		Use:   "version",
		Short: "Print the current schema version",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := newMigrator(*configPath)
			if err != nil {
				return err
			}
			defer m.Close()
			return printVersion(cmd, m)
		},
	}

	cmd.AddCommand(up, down, version)
	return cmd
}

func recurringCmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recurring",
		Short: "Recurring appointment templates",
	}

	var days int
	generate := &cobra.Command{
		Use:   "generate",
		Short: "Create appointments for active templates up to the horizon",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), *configPath, func(ctx context.Context, a *app.App) error {
				horizon := a.Config.Scheduler.RecurringHorizonDays
				if days > 0 {
					horizon = days
				}

				res, err := a.GenerateRecurring.Execute(ctx, horizon)
				if err != nil {
					return fmt.Errorf("generate recurring: %w", err)
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "created: %d, skipped: %d\n", len(res.Created), len(res.Skipped))
				for _, s := range res.Skipped {
					fmt.Fprintf(out, "  skipped template=%d date=%s: %s\n", s.RecurringID, s.Date, s.Reason)
				}
				return nil
			})
		},
	}
	generate.Flags().IntVar(&days, "days", 0, "horizon in days (default from config)")

	cmd.AddCommand(generate)
	return cmd
}

func waitlistCmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "waitlist",
		Short: "Waitlist maintenance",
	}

	expire := &cobra.Command{
		Use:   "expire",
		Short: "Expire unanswered offers and pass the time to the next client",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), *configPath, func(ctx context.Context, a *app.App) error {
				res, err := a.ExpireWaitlist.Execute(ctx)
				if err != nil {
					return fmt.Errorf("expire waitlist: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "expired: %d, promoted: %d\n", res.Expired, res.Promoted)
				return nil
			})
		},
	}

	cmd.AddCommand(expire)
	return cmd
}

// withApp поднимает зависимости, выполняет fn и дожидается отправки уведомлений
func withApp(ctx context.Context, configPath string, fn func(ctx context.Context, a *app.App) error) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		return err
	}
	defer log.Close()

	a, err := app.New(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer a.Close()

	a.Dispatcher.Start(ctx)
	defer a.Dispatcher.Stop()

	return fn(ctx, a)
}

func newMigrator(configPath string) (*migrate.Migrate, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	dialect, err := sqlbuilder.ParseDialect(cfg.Database.Driver)
	if err != nil {
		return nil, err
	}
	return migrations.New(dialect, cfg.Database.MigrateURL())
}

func printVersion(cmd *cobra.Command, m *migrate.Migrate) error {
	version, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		fmt.Fprintln(cmd.OutOrStdout(), "schema version: none")
		return nil
	}
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "schema version: %d (dirty=%t)\n", version, dirty)
	return nil
}
