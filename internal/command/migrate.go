package command

import (
	"os"

	"github.com/spf13/cobra"

	appdb "github.com/Flarenzy/simple-auth-api/internal/db"
	"github.com/Flarenzy/simple-auth-api/internal/logging"
)

func migrateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database schema commands",
	}
	cmd.AddCommand(
		migrateDirectionCommand("up", "Apply all pending migrations", appdb.MigrateUp),
		migrateDirectionCommand("down", "Roll back the most recent migration", appdb.MigrateDown),
		migrateDirectionCommand("status", "Print the migration status", appdb.MigrateStatus),
	)
	return cmd
}

func migrateDirectionCommand(use, short string, direction appdb.MigrationDirection) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := configFrom(cmd.Context())
			if err != nil {
				return err
			}
			logger := logging.New(os.Stderr, cfg.LogLevel)

			pool, err := appdb.NewPool(cmd.Context(), cfg.DSN)
			if err != nil {
				return err
			}
			defer pool.Close()

			return appdb.Migrate(cmd.Context(), logger, pool, direction)
		},
	}
}
