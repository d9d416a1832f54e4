package scheduler

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"OptionSentinel/internal/collector"
	"OptionSentinel/internal/model"
	"OptionSentinel/internal/notifier"
	"OptionSentinel/internal/recorder"
	"OptionSentinel/internal/strategy"
)

// Settings is the immutable per-run configuration of a Runner.
type Settings struct {
	Symbols       []string
	Thresholds    func(symbol string) model.AlertThresholds
	Concurrency   int
	MaxMessageLen int
}

// Runner executes one fetch -> evaluate -> notify pass over all symbols.
type Runner struct {
	Collector *collector.Collector
	Notifier  notifier.Notifier
	Recorder  recorder.Recorder
	Settings  Settings
	Log       zerolog.Logger
}

// NewRunner creates a new Runner.
func NewRunner(col *collector.Collector, n notifier.Notifier, rec recorder.Recorder, s Settings, log zerolog.Logger) *Runner {
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	if s.Concurrency < 1 {
		s.Concurrency = 1
	}
	if s.MaxMessageLen <= 0 {
		s.MaxMessageLen = 3900
	}
	return &Runner{Collector: col, Notifier: n, Recorder: rec, Settings: s, Log: log}
}

// symbolResult is what one worker produces for its symbol.
type symbolResult struct {
	alerts   []model.AlertCandidate
	messages []string
	err      error
}

// RunOnce processes every symbol, isolating per-symbol failures, and sends the
// alerts found in batches. It only returns an error when ctx is cancelled.
func (r *Runner) RunOnce(ctx context.Context) (*model.RunSummary, error) {
	summary := &model.RunSummary{
		RunID:     uuid.New(),
		StartedAt: time.Now(),
		Symbols:   len(r.Settings.Symbols),
	}
	log := r.Log.With().Str("run_id", summary.RunID.String()).Logger()
	log.Info().Int("symbols", summary.Symbols).Msg("run started")

	results := make([]symbolResult, len(r.Settings.Symbols))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.Settings.Concurrency)
	for i, symbol := range r.Settings.Symbols {
		i, symbol := i, symbol
		g.Go(func() error {
			results[i] = r.processSymbol(gctx, symbol, log)
			// Never fail the group: one symbol must not cancel the others.
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var messages []string
	var alerts []model.AlertCandidate
	for i, res := range results {
		if res.err != nil {
			summary.Failed = append(summary.Failed, r.Settings.Symbols[i])
			continue
		}
		alerts = append(alerts, res.alerts...)
		messages = append(messages, res.messages...)
	}
	summary.AlertsFound = len(alerts)

	// messages[i] is the rendering of alerts[i].
	delivered := r.flush(ctx, messages, summary, log)
	for i := range alerts {
		if err := r.Recorder.RecordAlert(&recorder.AlertRecord{RunID: summary.RunID, Candidate: &alerts[i], Sent: delivered[i]}); err != nil {
			log.Error().Err(err).Msg("record alert")
		}
	}

	summary.FinishedAt = time.Now()
	if err := r.Recorder.RecordRun(summary); err != nil {
		log.Error().Err(err).Msg("record run")
	}
	log.Info().
		Int("failed", len(summary.Failed)).
		Int("alerts", summary.AlertsFound).
		Int("messages", summary.MessagesSent).
		Int("delivery_failures", summary.DeliveryFailures).
		Dur("took", summary.FinishedAt.Sub(summary.StartedAt)).
		Msg("run finished")
	return summary, nil
}

func (r *Runner) processSymbol(ctx context.Context, symbol string, runLog zerolog.Logger) symbolResult {
	log := runLog.With().Str("symbol", symbol).Logger()
	log.Info().Msg("collecting")

	col, err := r.Collector.Collect(ctx, symbol)
	if err != nil {
		log.Error().Err(err).Msg("collect failed, skipping symbol")
		return symbolResult{err: err}
	}

	th := r.Settings.Thresholds(symbol)
	var res symbolResult
	var lastErr error
	evaluated := 0
	for _, group := range col.Groups {
		expiry := group.ExpiryDate.Format(model.ExpiryLayout)
		ev, err := strategy.EvaluateDetailed(col.Underlying, group.Entries, th)
		if err != nil {
			log.Warn().Err(err).Str("expiry", expiry).Msg("evaluation skipped")
			lastErr = err
			continue
		}
		evaluated++
		for _, c := range ev.Selected {
			log.Info().
				Str("expiry", expiry).
				Str("type", string(c.OptionType)).
				Str("strike", c.StrikePrice.String()).
				Str("premium", c.Premium.String()).
				Int64("oi", c.OpenInterest).
				Bool("alert", c.Qualified()).
				Str("reason", c.Reason).
				Msg("selected strike")
		}
		for _, c := range ev.Alerts {
			res.alerts = append(res.alerts, c)
			res.messages = append(res.messages, notifier.FormatAlert(c, col.Underlying, col.SourceURL))
		}
	}
	if evaluated == 0 && lastErr != nil {
		log.Error().Err(lastErr).Msg("no expiry could be evaluated, skipping symbol")
		return symbolResult{err: lastErr}
	}
	return res
}

// flush batches and sends messages. It reports, per message, whether every
// chunk carrying it was delivered.
func (r *Runner) flush(ctx context.Context, messages []string, summary *model.RunSummary, log zerolog.Logger) []bool {
	delivered := make([]bool, len(messages))
	if len(messages) == 0 {
		log.Info().Msg("no alerts to send")
		return delivered
	}
	for i := range delivered {
		delivered[i] = true
	}
	for _, chunk := range notifier.Chunks(messages, r.Settings.MaxMessageLen) {
		if err := r.Notifier.Send(ctx, chunk.Text); err != nil {
			log.Error().Err(err).Ints("alerts", chunk.Items).Msg("send alert batch")
			summary.DeliveryFailures++
			for _, i := range chunk.Items {
				delivered[i] = false
			}
			continue
		}
		summary.MessagesSent++
	}
	return delivered
}
