// Package cli provides the sentinel command-line interface.
package cli

import (
	"errors"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"OptionSentinel/internal/config"
	"OptionSentinel/internal/logging"
)

// ErrAllFailed is returned by run when no symbol could be processed.
var ErrAllFailed = errors.New("every symbol failed")

// App holds the dependencies shared by all commands. It is populated by the
// root command before any subcommand runs.
type App struct {
	Config *config.Config
	Logger zerolog.Logger
}

// NewRootCmd creates the root command for the CLI.
func NewRootCmd() *cobra.Command {
	app := &App{Logger: zerolog.Nop()}

	rootCmd := &cobra.Command{
		Use:   "sentinel",
		Short: "Option-chain premium alerts",
		Long: `sentinel scans option chains of a watch list, picks the strikes nearest
to 90% and 110% of the underlying's last traded price, and sends Telegram
alerts for those whose premium and open interest clear the thresholds.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			path, _ := cmd.Flags().GetString("config")
			if v := os.Getenv("CONFIG_PATH"); v != "" && !cmd.Flags().Changed("config") {
				path = v
			}
			cfg, err := config.Load(path)
			if err != nil {
				return err
			}
			if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
				cfg.Log.Level = lvl
			}
			app.Config = cfg
			app.Logger = logging.New(logging.Options{
				Level:      cfg.Log.Level,
				File:       cfg.Log.File,
				MaxSizeMB:  cfg.Log.MaxSizeMB,
				MaxBackups: cfg.Log.MaxBackups,
				MaxAgeDays: cfg.Log.MaxAgeDays,
				Console:    cmd.ErrOrStderr(),
			})
			return nil
		},
	}

	rootCmd.PersistentFlags().String("config", "configs/config.yaml", "path to the YAML config file (env CONFIG_PATH)")
	rootCmd.PersistentFlags().String("log-level", "", "override log level (debug, info, warn, error)")

	rootCmd.AddCommand(
		newRunCmd(app),
		newScanCmd(app),
		newDaemonCmd(app),
		newValidateCmd(app),
	)
	return rootCmd
}
