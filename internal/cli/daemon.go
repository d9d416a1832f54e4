package cli

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"OptionSentinel/internal/scheduler"
)

func newDaemonCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "daemon",
		Short: "Run scans on the configured cron schedule and answer Telegram commands",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Config.Validate(true); err != nil {
				return fmt.Errorf("config validation: %w", err)
			}
			log := app.Logger

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			rec := app.newRecorder()
			defer rec.Close()

			tn := app.newTelegram()
			runner := app.newRunner(app.newCollector(false), app.newNotifier(false), rec)

			sched := scheduler.NewScheduler(ctx, runner, log)
			if err := sched.Register(app.Config.Schedule.Cron); err != nil {
				return err
			}
			sched.Start()
			defer sched.Stop()

			go tn.StartPolling(ctx, sched.HandleCommand)
			log.Info().Msg("telegram polling started")

			if app.Config.Schedule.RunOnStart {
				log.Info().Msg("run_on_start enabled, scanning now")
				go runOnStart(ctx, sched)
			}

			log.Info().Msg("OptionSentinel is running. Press Ctrl+C to stop.")
			<-ctx.Done()
			log.Info().Msg("shutdown signal received, stopping...")
			return nil
		},
	}
}

func runOnStart(ctx context.Context, sched *scheduler.Scheduler) {
	if _, _, err := sched.RunNow(); err != nil && ctx.Err() == nil {
		sched.Log.Error().Err(err).Msg("startup run failed")
	}
}
