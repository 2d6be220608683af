package main

import (
	"errors"
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/phrazzld/hbnb-api/internal/config"
	"github.com/phrazzld/hbnb-api/internal/platform/postgres"
)

var migrateCommands = []string{
	postgres.MigrateUp,
	postgres.MigrateDown,
	postgres.MigrateReset,
	postgres.MigrateStatus,
	postgres.MigrateVersion,
}

// errMigrateNeedsPostgres is returned when migrate runs against the memory driver.
var errMigrateNeedsPostgres = errors.New("migrations require database.driver=postgres")

// migrateCommand constructs the 'migrate' subcommand that runs goose
// against the configured PostgreSQL database.
func migrateCommand(state *cliState) *cobra.Command {
	return &cobra.Command{
		Use:       "migrate [up|down|reset|status|version]",
		Short:     "Runs database migrations (default: up)",
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: migrateCommands,
		RunE: func(cmd *cobra.Command, args []string) error {
			command := postgres.MigrateUp
			if len(args) == 1 {
				command = args[0]
			}
			if !slices.Contains(migrateCommands, command) {
				return fmt.Errorf("unknown migrate command %q", command)
			}
			if state.cfg.Database.Driver != config.DriverPostgres {
				return errMigrateNeedsPostgres
			}

			db, err := openPostgres(cmd.Context(), state.cfg.Database)
			if err != nil {
				return err
			}
			defer func() {
				if err := db.Close(); err != nil {
					state.logger.Warn("could not close postgres connection", "error", err)
				}
			}()

			if err := postgres.Migrate(cmd.Context(), db.DB, command, state.logger); err != nil {
				return fmt.Errorf("migrate %s: %w", command, err)
			}
			state.logger.Info("migrations finished", "command", command)
			return nil
		},
	}
}
