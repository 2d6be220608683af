// Package main implements the HBnB API server command. It wires the
// configuration, the storage backend and the HTTP API, and exposes the
// serve, migrate and create-admin subcommands.
package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/phrazzld/hbnb-api/internal/config"
	"github.com/phrazzld/hbnb-api/internal/platform/logger"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

// cliState is filled in by the root command before any subcommand runs.
type cliState struct {
	configPath string
	cfg        *config.Config
	logger     *slog.Logger
}

// newRootCommand builds the command tree. Running the root command without
// a subcommand starts the server.
func newRootCommand() *cobra.Command {
	state := &cliState{}

	root := &cobra.Command{
		Use:           "hbnb",
		Short:         "HBnB API server",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadFile(state.configPath)
			if err != nil {
				return err
			}
			l, err := logger.Setup(cfg.Server)
			if err != nil {
				return err
			}
			state.cfg = cfg
			state.logger = l
			return nil
		},
	}
	root.PersistentFlags().StringVarP(&state.configPath, "config", "c", "",
		"config file path (defaults to ./config.yaml when present)")

	serve := serveCommand(state)
	root.RunE = serve.RunE
	root.AddCommand(serve, migrateCommand(state), createAdminCommand(state))
	return root
}
