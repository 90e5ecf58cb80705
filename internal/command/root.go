// Package command contains the CLI command constructors.
package command

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Flarenzy/simple-auth-api/internal/app"
)

type configKey struct{}

// RootCommand instantiates the root command, with all sub-commands bound.
// Invoked without a sub-command it serves the API.
func RootCommand() *cobra.Command {
	serve := serveCommand()
	cmd := &cobra.Command{
		Use:          "simple-auth-api [command]",
		Short:        "User registration, login and profile API",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		CompletionOptions: cobra.CompletionOptions{
			HiddenDefaultCmd: true,
		},
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := app.LoadConfig()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			cmd.SetContext(context.WithValue(cmd.Context(), configKey{}, cfg))
			return nil
		},
		RunE: serve.RunE,
	}

	cmd.AddCommand(
		serve,
		migrateCommand(),
	)

	return cmd
}

func configFrom(ctx context.Context) (app.Config, error) {
	cfg, ok := ctx.Value(configKey{}).(app.Config)
	if !ok {
		return app.Config{}, errors.New("configuration not loaded")
	}
	return cfg, nil
}
