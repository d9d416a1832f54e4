package recorder

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"

	"OptionSentinel/internal/model"
)

// SQLiteRecorder journals runs and alerts to a SQLite database.
type SQLiteRecorder struct {
	db  *sql.DB
	mu  sync.Mutex
	log zerolog.Logger
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string, log zerolog.Logger) (*SQLiteRecorder, error) {
	if dir := filepath.Dir(dbPath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db, log: log}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Info().Str("path", dbPath).Msg("sqlite recorder opened")
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			run_id            TEXT PRIMARY KEY,
			started_at        INTEGER NOT NULL,
			finished_at       INTEGER NOT NULL,
			symbols           INTEGER,
			failed            TEXT,
			alerts_found      INTEGER,
			messages_sent     INTEGER,
			delivery_failures INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at)`,

		`CREATE TABLE IF NOT EXISTS alerts (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id        TEXT NOT NULL,
			timestamp     INTEGER NOT NULL,
			symbol        TEXT NOT NULL,
			expiry        TEXT,
			option_type   TEXT,
			strike        TEXT,
			premium       TEXT,
			open_interest INTEGER,
			display_name  TEXT,
			sent          INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_alerts_symbol ON alerts(symbol, timestamp)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordRun(s *model.RunSummary) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO runs
		(run_id, started_at, finished_at, symbols, failed, alerts_found, messages_sent, delivery_failures)
		VALUES (?,?,?,?,?,?,?,?)`,
		s.RunID.String(), s.StartedAt.Unix(), s.FinishedAt.Unix(), s.Symbols,
		strings.Join(s.Failed, ","), s.AlertsFound, s.MessagesSent, s.DeliveryFailures,
	)
	return err
}

func (r *SQLiteRecorder) RecordAlert(rec *AlertRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c := rec.Candidate
	_, err := r.db.Exec(`INSERT INTO alerts
		(run_id, timestamp, symbol, expiry, option_type, strike, premium, open_interest, display_name, sent)
		VALUES (?,?,?,?,?,?,?,?,?,?)`,
		rec.RunID.String(), time.Now().Unix(), c.Symbol, c.ExpiryDate.Format(model.ExpiryLayout),
		string(c.OptionType), c.StrikePrice.String(), c.Premium.String(), c.OpenInterest,
		c.DisplayName, rec.Sent,
	)
	return err
}

// CountAlerts returns the number of journaled alerts for a run.
func (r *SQLiteRecorder) CountAlerts(runID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM alerts WHERE run_id = ?`, runID).Scan(&n)
	return n, err
}

func (r *SQLiteRecorder) Close() error {
	r.log.Info().Msg("closing sqlite recorder")
	return r.db.Close()
}
