package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newRunCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Scan every configured stock once and send alerts",
		Example: `  sentinel run
  sentinel run --dry-run --mock`,
		RunE: func(cmd *cobra.Command, args []string) error {
			dryRun, _ := cmd.Flags().GetBool("dry-run")
			mock, _ := cmd.Flags().GetBool("mock")

			if err := app.Config.Validate(!dryRun); err != nil {
				return fmt.Errorf("config validation: %w", err)
			}

			rec := app.newRecorder()
			defer rec.Close()

			runner := app.newRunner(app.newCollector(mock), app.newNotifier(dryRun), rec)
			summary, err := runner.RunOnce(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "run %s: %d stocks, %d failed, %d alerts, %d messages sent\n",
				summary.RunID, summary.Symbols, len(summary.Failed), summary.AlertsFound, summary.MessagesSent)
			if summary.AllFailed() {
				return ErrAllFailed
			}
			return nil
		},
	}
	cmd.Flags().Bool("dry-run", false, "log alerts instead of sending them to Telegram")
	cmd.Flags().Bool("mock", false, "use generated option chains instead of live data")
	return cmd
}
