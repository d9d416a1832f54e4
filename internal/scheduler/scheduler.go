package scheduler

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"OptionSentinel/internal/model"
	"OptionSentinel/internal/notifier"
)

// Scheduler triggers Runner passes on a cron schedule and answers chat commands.
type Scheduler struct {
	Cron   *cron.Cron
	Runner *Runner
	Log    zerolog.Logger
	Ctx    context.Context

	// running guards against overlapping passes.
	running sync.Mutex
}

// NewScheduler creates a new Scheduler. Cron specs carry a seconds field.
func NewScheduler(ctx context.Context, runner *Runner, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		Cron:   cron.New(cron.WithSeconds()),
		Runner: runner,
		Log:    log,
		Ctx:    ctx,
	}
}

// Register adds the scan job under a cron expression.
func (s *Scheduler) Register(expr string) error {
	if _, err := s.Cron.AddFunc(expr, s.scheduledRun); err != nil {
		return fmt.Errorf("register scan task: %w", err)
	}
	s.Log.Info().Str("cron", expr).Msg("scan task registered")
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	s.Log.Info().Msg("scheduler started")
}

// Stop stops the cron scheduler and waits for a running pass to finish.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.Log.Info().Msg("scheduler stopped")
}

// RunNow executes one pass immediately. It returns false without running
// when another pass is still in progress.
func (s *Scheduler) RunNow() (*model.RunSummary, bool, error) {
	if !s.running.TryLock() {
		return nil, false, nil
	}
	defer s.running.Unlock()
	summary, err := s.Runner.RunOnce(s.Ctx)
	return summary, true, err
}

func (s *Scheduler) scheduledRun() {
	_, ran, err := s.RunNow()
	if !ran {
		s.Log.Warn().Msg("previous run still in progress, skipping tick")
		return
	}
	if err != nil {
		s.Log.Error().Err(err).Msg("scheduled run aborted")
	}
}

// HandleCommand processes a chat command and returns a reply.
func (s *Scheduler) HandleCommand(_ context.Context, command string) string {
	cmd := strings.ToLower(strings.TrimSpace(command))
	if f := strings.Fields(cmd); len(f) > 0 {
		cmd = f[0]
	}
	// Group chats address commands as /scan@BotName.
	cmd, _, _ = strings.Cut(cmd, "@")
	switch cmd {
	case "/scan", "scan":
		summary, ran, err := s.RunNow()
		if !ran {
			return "⏳ A scan is already running."
		}
		if err != nil {
			return fmt.Sprintf("❌ Scan aborted: %v", err)
		}
		return notifier.FormatRunSummary(summary)
	case "/config", "config":
		return s.describeConfig()
	default:
		return "Available commands:\n• /scan - run a scan now\n• /config - show watched stocks and thresholds"
	}
}

func (s *Scheduler) describeConfig() string {
	set := s.Runner.Settings
	var b strings.Builder
	b.WriteString(fmt.Sprintf("⚙️ <b>Watching %d stocks</b>\n\n", len(set.Symbols)))
	for _, sym := range set.Symbols {
		th := set.Thresholds(sym)
		b.WriteString(fmt.Sprintf("• %s: premium &gt; %s, OI &gt; %d, targets x%s / x%s\n",
			sym, th.MinPremium, th.MinOpenInterest, th.PutTargetRatio, th.CallTargetRatio))
	}
	return strings.TrimRight(b.String(), "\n")
}
