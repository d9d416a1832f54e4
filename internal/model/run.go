package model

import (
	"time"

	"github.com/google/uuid"
)

// RunSummary describes the outcome of one orchestration run.
type RunSummary struct {
	RunID            uuid.UUID
	StartedAt        time.Time
	FinishedAt       time.Time
	Symbols          int
	Failed           []string
	AlertsFound      int
	MessagesSent     int
	DeliveryFailures int
}

// AllFailed is true when no symbol was processed successfully.
func (s *RunSummary) AllFailed() bool {
	return s.Symbols > 0 && len(s.Failed) == s.Symbols
}
