package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mrcar-cl/tasador/internal/infrastructure/database/postgres"
)

// migrationsURL turns a plain directory path into the file:// source URL
// golang-migrate expects.  Paths that already carry a scheme pass through.
func migrationsURL(path string) string {
	if strings.Contains(path, "://") {
		return path
	}
	return "file://" + path
}

// NewMigrateCmd creates the `tasador migrate` command group.
func NewMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage registry database schema migrations",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			RunE: func(cmd *cobra.Command, args []string) error {
				cliCtx, err := GetCLIContext(cmd)
				if err != nil {
					return err
				}
				cfg := cliCtx.Config.Database
				if err := postgres.RunMigrations(postgres.BuildDSN(cfg), migrationsURL(cfg.MigrationPath)); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
				return nil
			},
		},
		&cobra.Command{
			Use:   "down",
			Short: "Roll back the most recent migration",
			RunE: func(cmd *cobra.Command, args []string) error {
				cliCtx, err := GetCLIContext(cmd)
				if err != nil {
					return err
				}
				cfg := cliCtx.Config.Database
				if err := postgres.RollbackMigration(postgres.BuildDSN(cfg), migrationsURL(cfg.MigrationPath), 1); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "rolled back one migration")
				return nil
			},
		},
		&cobra.Command{
			Use:   "status",
			Short: "Show the current migration version",
			RunE: func(cmd *cobra.Command, args []string) error {
				cliCtx, err := GetCLIContext(cmd)
				if err != nil {
					return err
				}
				cfg := cliCtx.Config.Database
				version, dirty, err := postgres.MigrationStatus(postgres.BuildDSN(cfg), migrationsURL(cfg.MigrationPath))
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "version: %d, dirty: %v\n", version, dirty)
				return nil
			},
		},
	)

	return cmd
}
