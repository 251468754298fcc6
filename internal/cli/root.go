// Package cli implements the centipede command.
package cli

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/hupe1980/centipede/internal/config"
	"github.com/hupe1980/centipede/internal/logging"
)

// app carries state shared by the subcommands once the root command has
// loaded the configuration.
type app struct {
	cfg    *config.Config
	logger *slog.Logger
}

// NewRootCommand creates the centipede command tree.
func NewRootCommand() *cobra.Command {
	a := &app{}

	var (
		cfgFile   string
		logLevel  string
		logFormat string
	)

	cmd := &cobra.Command{
		Use:   "centipede",
		Short: "Write alignment derivative records",
		Long: `centipede writes local and global derivatives of track fits as compact
binary records, one record per entry, for consumption by alignment solvers.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(cfgFile)
			if err != nil {
				return err
			}
			if logLevel != "" {
				cfg.Log.Level = logLevel
			}
			if logFormat != "" {
				cfg.Log.Format = logFormat
			}

			level, err := logging.ParseLevel(cfg.Log.Level)
			if err != nil {
				return err
			}

			a.cfg = cfg
			a.logger = slog.New(logging.NewHandler(cmd.ErrOrStderr(), cfg.Log.Format, level))
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./centipede.yaml)")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn or error")
	cmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format: text or json")

	cmd.AddCommand(newGenerateCommand(a), newVersionCommand())
	return cmd
}

// Execute runs the centipede command.
func Execute(ctx context.Context) error {
	return NewRootCommand().ExecuteContext(ctx)
}
