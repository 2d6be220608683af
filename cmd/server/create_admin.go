package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/phrazzld/hbnb-api/internal/config"
	"github.com/phrazzld/hbnb-api/internal/service"
)

type createAdminOptions struct {
	email     string
	password  string
	firstName string
	lastName  string
}

// createAdminCommand constructs the 'create-admin' subcommand that stores a
// user with the admin flag set. Registration over HTTP cannot create the
// first admin.
func createAdminCommand(state *cliState) *cobra.Command {
	var opts createAdminOptions

	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Creates an administrator account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if state.cfg.Database.Driver == config.DriverMemory {
				state.logger.Warn("memory driver selected; the admin will not outlive this command")
			}

			app, err := newApplication(cmd.Context(), state.cfg, state.logger)
			if err != nil {
				return err
			}
			defer app.cleanup()

			user, err := app.facade.CreateUser(cmd.Context(), service.CreateUserInput{
				FirstName: opts.firstName,
				LastName:  opts.lastName,
				Email:     opts.email,
				Password:  opts.password,
				IsAdmin:   true,
			})
			if err != nil {
				return fmt.Errorf("failed to create admin: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "created admin %s (%s)\n", user.Email, user.ID)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.email, "email", "", "admin email address")
	flags.StringVar(&opts.password, "password", "", "admin password")
	flags.StringVar(&opts.firstName, "first-name", "Admin", "admin first name")
	flags.StringVar(&opts.lastName, "last-name", "User", "admin last name")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}
