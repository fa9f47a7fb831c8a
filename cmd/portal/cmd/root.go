package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nfrund/student-portal/internal/app"
	"github.com/nfrund/student-portal/internal/config"
	"github.com/nfrund/student-portal/internal/logging"
)

var rootCmd = &cobra.Command{
	Use:   "portal",
	Short: "Student Portal",
	Long: `portal runs and administers the Student Portal web application.

Configuration is read from the environment and an optional .env file.

Use "portal [command] --help" for more information about a command.`,
	SilenceUsage: true,
}

// Execute executes the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// bootstrap loads the configuration, configures logging and opens the
// application dependencies. The caller must Close them.
func bootstrap(ctx context.Context) (*app.Dependencies, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logging.Setup(cfg.GetLogFormat(), cfg.GetLogLevel())

	return app.New(ctx, cfg)
}
