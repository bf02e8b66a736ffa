package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dealscout/backend/config"
	"github.com/dealscout/backend/internal/observability"
)

// rootOptions holds flags shared by every subcommand
type rootOptions struct {
	logLevel string
	console  bool
	cfg      *config.Config
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:     "dealscout",
		Short:   "Shopping assistant that finds, ranks and explains deals",
		Version: version,
		Long: `dealscout turns a free-text shopping request into ranked deal recommendations,
optionally alongside one disclosed brand product.

Configuration comes from DEALSCOUT_* environment variables, a .env file and
an optional config.yaml.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if opts.logLevel != "" {
				if !observability.ValidLevel(opts.logLevel) {
					return fmt.Errorf("invalid log level %q", opts.logLevel)
				}
				cfg.Logging.Level = opts.logLevel
			}
			if opts.console {
				cfg.Logging.Format = "console"
			}

			observability.Setup(observability.LogConfig{
				Level:       cfg.Logging.Level,
				Format:      cfg.Logging.Format,
				Output:      os.Stderr,
				ServiceName: "dealscout",
			})
			opts.cfg = cfg
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "override the configured log level")
	cmd.PersistentFlags().BoolVar(&opts.console, "console", false, "human-readable log output")

	cmd.AddCommand(newServeCmd(opts))
	cmd.AddCommand(newSearchCmd(opts))
	return cmd
}
