package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/spf13/cobra"

	"budgetbuddy/internal/config"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var source string

	root := &cobra.Command{
		Use:          "migrate",
		Short:        "Apply or roll back budgetbuddy schema migrations",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&source, "source", "file://db/migrations", "migration source URL")

	withMigrator := func(fn func(m *migrate.Migrate, args []string) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			m, err := openMigrator(source)
			if err != nil {
				return err
			}
			defer m.Close()
			return fn(m, args)
		}
	}

	root.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			Args:  cobra.NoArgs,
			RunE: withMigrator(func(m *migrate.Migrate, _ []string) error {
				if err := ignoreNoChange(m.Up()); err != nil {
					return fmt.Errorf("migrating up: %w", err)
				}
				fmt.Println("migrations applied")
				return nil
			}),
		},
		&cobra.Command{
			Use:   "down",
			Short: "Revert every migration",
			Args:  cobra.NoArgs,
			RunE: withMigrator(func(m *migrate.Migrate, _ []string) error {
				if err := ignoreNoChange(m.Down()); err != nil {
					return fmt.Errorf("migrating down: %w", err)
				}
				fmt.Println("migrations reverted")
				return nil
			}),
		},
		&cobra.Command{
			Use:   "steps N",
			Short: "Move N migrations forward, or back when N is negative",
			Args:  cobra.ExactArgs(1),
			RunE: withMigrator(func(m *migrate.Migrate, args []string) error {
				n, err := strconv.Atoi(args[0])
				if err != nil {
					return fmt.Errorf("steps wants an integer, got %q", args[0])
				}
				if err := ignoreNoChange(m.Steps(n)); err != nil {
					return fmt.Errorf("migrating %d steps: %w", n, err)
				}
				fmt.Printf("moved %d steps\n", n)
				return nil
			}),
		},
		&cobra.Command{
			Use:   "force VERSION",
			Short: "Set the recorded version and clear the dirty flag",
			Args:  cobra.ExactArgs(1),
			RunE: withMigrator(func(m *migrate.Migrate, args []string) error {
				v, err := strconv.Atoi(args[0])
				if err != nil {
					return fmt.Errorf("force wants an integer version, got %q", args[0])
				}
				return m.Force(v)
			}),
		},
		&cobra.Command{
			Use:   "version",
			Short: "Print the current schema version",
			Args:  cobra.NoArgs,
			RunE: withMigrator(func(m *migrate.Migrate, _ []string) error {
				version, dirty, err := m.Version()
				if errors.Is(err, migrate.ErrNilVersion) {
					fmt.Println("no migrations applied")
					return nil
				}
				if err != nil {
					return fmt.Errorf("reading version: %w", err)
				}
				fmt.Printf("version %d (dirty: %t)\n", version, dirty)
				return nil
			}),
		},
	)
	return root
}

func openMigrator(source string) (*migrate.Migrate, error) {
	if _, err := config.LoadDotEnv(".env"); err != nil {
		return nil, err
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	m, err := migrate.New(source, cfg.DB.DSN())
	if err != nil {
		return nil, fmt.Errorf("opening migrator: %w", err)
	}
	return m, nil
}

func ignoreNoChange(err error) error {
	if errors.Is(err, migrate.ErrNoChange) {
		return nil
	}
	return err
}
