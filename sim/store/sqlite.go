package store

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver

	"github.com/edgesim/edgesim/sim"
)

// Compile-time interface guards.
var (
	_ Sink = (*SQLiteSink)(nil)
	_ Sink = (*CSVSink)(nil)
)

const createRunsTable = `
CREATE TABLE IF NOT EXISTS simulation_runs (
	id                INTEGER PRIMARY KEY AUTOINCREMENT,
	dataset           TEXT    NOT NULL,
	seed              INTEGER NOT NULL,
	predictor_name    TEXT    NOT NULL,
	window_size       INTEGER NOT NULL,
	time_steps        INTEGER NOT NULL,
	error             INTEGER NOT NULL,
	realign           TEXT    NOT NULL,
	alpha             REAL    NOT NULL,
	tot_samples       INTEGER NOT NULL,
	sensing_count     INTEGER NOT NULL,
	inferences_count  INTEGER NOT NULL,
	send_count        INTEGER NOT NULL,
	skip_count        INTEGER NOT NULL,
	error_acc         REAL    NOT NULL,
	error_percent_acc REAL    NOT NULL,
	iterations        INTEGER NOT NULL,
	zero_actual_count INTEGER NOT NULL
)`

const insertRun = `
INSERT INTO simulation_runs (
	dataset, seed, predictor_name, window_size, time_steps, error, realign, alpha,
	tot_samples, sensing_count, inferences_count, send_count, skip_count,
	error_acc, error_percent_acc, iterations, zero_actual_count
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

// SQLiteSink stores records in the simulation_runs table of a SQLite database.
type SQLiteSink struct {
	db *sql.DB
}

// NewSQLiteSink opens (or creates) the database at path and ensures the schema exists.
// Use ":memory:" for a throwaway database.
func NewSQLiteSink(ctx context.Context, path string) (*SQLiteSink, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %q: %w", path, err)
	}

	// SQLite performs best with a single write connection.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite %q: %w", path, err)
	}
	for _, stmt := range []string{"PRAGMA busy_timeout=5000", createRunsTable} {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("exec %q: %w", stmt, err)
		}
	}
	return &SQLiteSink{db: db}, nil
}

// DB returns the underlying *sql.DB for direct queries.
func (s *SQLiteSink) DB() *sql.DB {
	return s.db
}

func (s *SQLiteSink) Append(ctx context.Context, m *sim.Metrics) error {
	_, err := s.db.ExecContext(ctx, insertRun,
		m.Dataset, m.Seed, m.PredictorName, m.WindowSize, m.Horizon, m.ErrorPercent,
		string(m.Realign), m.Alpha, m.TotalSamples, m.SensingCount, m.InferencesCount,
		m.SendCount, m.SkipCount, m.ErrorAcc, m.ErrorPercentAcc, m.Iterations, m.ZeroActualCount,
	)
	if err != nil {
		return fmt.Errorf("insert simulation run: %w", err)
	}
	return nil
}

// Close closes the underlying database connection.
func (s *SQLiteSink) Close() error {
	return s.db.Close()
}
