package command

import (
	"github.com/spf13/cobra"

	"github.com/Flarenzy/simple-auth-api/internal/app"
)

func serveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "serve the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := configFrom(cmd.Context())
			if err != nil {
				return err
			}
			return app.Run(cmd.Context(), cfg)
		},
	}
}
