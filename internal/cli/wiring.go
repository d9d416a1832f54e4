package cli

import (
	"OptionSentinel/internal/collector"
	"OptionSentinel/internal/notifier"
	"OptionSentinel/internal/recorder"
	"OptionSentinel/internal/scheduler"
)

func (a *App) newFetcher(mock bool) collector.Fetcher {
	if mock {
		return &collector.MockFetcher{}
	}
	f := collector.NewGrowwFetcher(a.Config.DataSource.BaseURL, a.Config.Proxy, a.Config.DataSource.Timeout)
	f.LotQuantity = a.Config.PremiumLotSize
	return f
}

func (a *App) newCollector(mock bool) *collector.Collector {
	fetcher := a.newFetcher(mock)
	a.Logger.Info().Str("source", fetcher.Name()).Msg("data source ready")
	return collector.NewCollector(fetcher, collector.ExpiryMode(a.Config.Run.ExpiryMode), a.Config.Run.MaxExpiries, a.Logger)
}

// newTelegram returns nil when credentials are missing.
func (a *App) newTelegram() *notifier.TelegramNotifier {
	t := a.Config.Telegram
	if t.BotToken == "" || t.ChatID == "" {
		return nil
	}
	return notifier.NewTelegramNotifier(t.APIBase, t.BotToken, t.ChatID, a.Config.Proxy, a.Logger)
}

func (a *App) newNotifier(dryRun bool) notifier.Notifier {
	if dryRun {
		return &notifier.LogNotifier{Log: a.Logger}
	}
	return notifier.Retrying{TelegramNotifier: a.newTelegram(), Retries: a.Config.Telegram.Retries}
}

// newRecorder falls back to a no-op journal when SQLite is not configured or
// cannot be opened.
func (a *App) newRecorder() recorder.Recorder {
	path := a.Config.Database.SQLitePath
	if path == "" {
		return recorder.NewNoopRecorder()
	}
	rec, err := recorder.NewSQLiteRecorder(path, a.Logger)
	if err != nil {
		a.Logger.Warn().Err(err).Msg("init sqlite recorder failed, using noop")
		return recorder.NewNoopRecorder()
	}
	return rec
}

func (a *App) newRunner(col *collector.Collector, n notifier.Notifier, rec recorder.Recorder) *scheduler.Runner {
	return scheduler.NewRunner(col, n, rec, scheduler.Settings{
		Symbols:       a.Config.Symbols(),
		Thresholds:    a.Config.ThresholdsFor,
		Concurrency:   a.Config.Run.Concurrency,
		MaxMessageLen: a.Config.Telegram.MaxMessageLen,
	}, a.Logger)
}
