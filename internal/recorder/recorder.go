package recorder

import (
	"github.com/google/uuid"

	"OptionSentinel/internal/model"
)

// AlertRecord is one alert found during a run.
type AlertRecord struct {
	RunID     uuid.UUID
	Candidate *model.AlertCandidate
	Sent      bool
}

// Recorder journals run outcomes for audit. Nothing reads it back during a run.
type Recorder interface {
	RecordRun(summary *model.RunSummary) error
	RecordAlert(rec *AlertRecord) error
	Close() error
}
