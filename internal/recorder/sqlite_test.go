package recorder

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"OptionSentinel/internal/model"
)

func TestSQLiteRecorder_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "journal.db")
	r, err := NewSQLiteRecorder(path, zerolog.Nop())
	require.NoError(t, err)
	defer r.Close()

	runID := uuid.New()
	c := &model.AlertCandidate{
		Symbol:       "nifty",
		ExpiryDate:   time.Date(2025, 10, 28, 0, 0, 0, 0, time.UTC),
		OptionType:   model.OptionPut,
		StrikePrice:  decimal.NewFromInt(22500),
		Premium:      decimal.NewFromInt(31000),
		OpenInterest: 12000,
	}
	require.NoError(t, r.RecordAlert(&AlertRecord{RunID: runID, Candidate: c, Sent: true}))
	require.NoError(t, r.RecordAlert(&AlertRecord{RunID: runID, Candidate: c, Sent: false}))

	now := time.Now()
	require.NoError(t, r.RecordRun(&model.RunSummary{
		RunID: runID, StartedAt: now, FinishedAt: now, Symbols: 1, AlertsFound: 2, MessagesSent: 1,
	}))

	n, err := r.CountAlerts(runID.String())
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	var strike, failed string
	require.NoError(t, r.db.QueryRow(`SELECT strike FROM alerts WHERE run_id = ? LIMIT 1`, runID.String()).Scan(&strike))
	assert.Equal(t, "22500", strike)
	require.NoError(t, r.db.QueryRow(`SELECT failed FROM runs WHERE run_id = ?`, runID.String()).Scan(&failed))
	assert.Empty(t, failed)
}

func TestSQLiteRecorder_ReopenKeepsSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.db")
	r, err := NewSQLiteRecorder(path, zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, r.Close())

	r, err = NewSQLiteRecorder(path, zerolog.Nop())
	require.NoError(t, err)
	defer r.Close()
	n, err := r.CountAlerts("none")
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestNoopRecorder(t *testing.T) {
	var r Recorder = NewNoopRecorder()
	assert.NoError(t, r.RecordRun(&model.RunSummary{}))
	assert.NoError(t, r.RecordAlert(&AlertRecord{}))
	assert.NoError(t, r.Close())
}
