package cmd

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/nfrund/student-portal/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	Long: `Run the HTTP server on APP_PORT. The schema is migrated on startup.
SIGINT or SIGTERM shut the server down gracefully.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := server.SignalContext(cmd.Context())
		defer stop()

		deps, err := bootstrap(ctx)
		if err != nil {
			return err
		}
		defer func() {
			if err := deps.Close(); err != nil {
				slog.Error("Failed to close dependencies", "error", err)
			}
		}()

		if err := deps.Migrate(ctx); err != nil {
			return err
		}
		if err := deps.Start(ctx); err != nil {
			return err
		}

		s, err := server.New(deps)
		if err != nil {
			return err
		}
		return s.Start(ctx, deps.Config.HTTPAddress())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
