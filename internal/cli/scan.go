package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"OptionSentinel/internal/model"
	"OptionSentinel/internal/report"
	"OptionSentinel/internal/strategy"
)

func newScanCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan <symbol>",
		Short: "Evaluate one stock and print the selected strikes",
		Long: `Fetch one stock's option chain, select the PUT and CALL strikes nearest
to the targets, and print them with the reason any was not alert-worthy.
Nothing is sent to Telegram.`,
		Example: `  sentinel scan infosys-ltd
  sentinel scan nifty --csv nifty.csv`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			symbol := args[0]
			mock, _ := cmd.Flags().GetBool("mock")
			csvPath, _ := cmd.Flags().GetString("csv")

			if err := app.Config.Validate(false); err != nil {
				return fmt.Errorf("config validation: %w", err)
			}

			res, err := app.newCollector(mock).Collect(cmd.Context(), symbol)
			if err != nil {
				return err
			}

			th := app.Config.ThresholdsFor(symbol)
			putTarget, callTarget := strategy.Targets(res.Underlying.LastTradedPrice, th)
			var rows []report.Row
			for _, g := range res.Groups {
				ev, err := strategy.EvaluateDetailed(res.Underlying, g.Entries, th)
				if err != nil {
					app.Logger.Warn().Err(err).Str("expiry", g.ExpiryDate.Format(model.ExpiryLayout)).Msg("evaluation skipped")
					continue
				}
				for _, c := range ev.Selected {
					target := callTarget
					if c.OptionType == model.OptionPut {
						target = putTarget
					}
					rows = append(rows, report.NewRow(c, target.String()))
				}
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s  LTP %s  lot %d\n", res.Underlying.DisplayName(), res.Underlying.LastTradedPrice, res.Underlying.LotSize)
			report.RenderTable(out, rows)

			if csvPath == "" {
				return nil
			}
			return writeCSVFile(csvPath, out, rows)
		},
	}
	cmd.Flags().String("csv", "", "also write the rows as CSV to this file (- for stdout)")
	cmd.Flags().Bool("mock", false, "use a generated option chain instead of live data")
	return cmd
}

func writeCSVFile(path string, stdout io.Writer, rows []report.Row) error {
	if path == "-" {
		return report.WriteCSV(stdout, rows)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv: %w", err)
	}
	if err := report.WriteCSV(f, rows); err != nil {
		f.Close()
		return fmt.Errorf("write csv: %w", err)
	}
	return f.Close()
}
