package cli

import (
	"fmt"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

func newValidateCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check the configuration and print the resolved thresholds",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := app.Config
			if err := cfg.Validate(false); err != nil {
				return fmt.Errorf("config validation: %w", err)
			}
			out := cmd.OutOrStdout()
			if cfg.Telegram.BotToken == "" || cfg.Telegram.ChatID == "" {
				fmt.Fprintln(out, "warning: telegram credentials missing, only --dry-run and scan will work")
			}

			table := tablewriter.NewWriter(out)
			table.SetHeader([]string{"Symbol", "Min Premium", "Min OI", "Put Ratio", "Call Ratio", "Premium Lot"})
			for _, sym := range cfg.Symbols() {
				th := cfg.ThresholdsFor(sym)
				lot := "2x exchange lot"
				if n := cfg.PremiumLotSize(sym); n > 0 {
					lot = strconv.Itoa(n)
				}
				table.Append([]string{
					sym,
					th.MinPremium.String(),
					strconv.FormatInt(th.MinOpenInterest, 10),
					th.PutTargetRatio.String(),
					th.CallTargetRatio.String(),
					lot,
				})
			}
			table.Render()

			fmt.Fprintf(out, "expiry mode %s, concurrency %d, schedule %q\n",
				cfg.Run.ExpiryMode, cfg.Run.Concurrency, cfg.Schedule.Cron)
			return nil
		},
	}
}
