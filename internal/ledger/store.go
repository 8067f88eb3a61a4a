// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ledger keeps a local SQLite history of build, publish and compile
// runs, including the per-step outcome of each publication.
package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/resume-sync/pkg/types"
)

// Kind names the command that produced a run.
type Kind string

const (
	KindBuild   Kind = "build"
	KindPublish Kind = "publish"
	KindCompile Kind = "compile"
)

// Status summarizes how a run ended.
type Status string

const (
	StatusOK       Status = "ok"
	StatusDegraded Status = "degraded"
	StatusFailed   Status = "failed"
)

// Step is one recorded stage of a run.
type Step struct {
	Seq     int    `json:"seq" yaml:"seq"`
	Name    string `json:"name" yaml:"name"`
	OK      bool   `json:"ok" yaml:"ok"`
	Message string `json:"message,omitempty" yaml:"message,omitempty"`
}

// Run is one recorded command invocation.
type Run struct {
	ID         string    `json:"id" yaml:"id"`
	Kind       Kind      `json:"kind" yaml:"kind"`
	StartedAt  time.Time `json:"started_at" yaml:"started_at"`
	FinishedAt time.Time `json:"finished_at" yaml:"finished_at"`
	Status     Status    `json:"status" yaml:"status"`
	ArtifactID string    `json:"artifact_id,omitempty" yaml:"artifact_id,omitempty"`
	Summary    string    `json:"summary,omitempty" yaml:"summary,omitempty"`
	Steps      []Step    `json:"steps,omitempty" yaml:"steps,omitempty"`
}

// Duration returns how long the run took.
func (r Run) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// Store manages the run history database.
type Store struct {
	db         *sql.DB
	dir        string
	maxResults int
}

// NewStore opens or creates the database at cfg.Path, creating its parent
// directory and the schema when needed.
func NewStore(cfg types.LedgerConfig) (*Store, error) {
	dir := filepath.Dir(cfg.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating ledger directory: %w", err)
	}

	db, err := sql.Open("sqlite3", cfg.Path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 20
	}

	s := &Store{db: db, dir: dir, maxResults: maxResults}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			kind TEXT NOT NULL,
			started_at TEXT NOT NULL,
			finished_at TEXT NOT NULL,
			status TEXT NOT NULL,
			artifact_id TEXT,
			summary TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS run_steps (
			run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			seq INTEGER NOT NULL,
			name TEXT NOT NULL,
			ok INTEGER NOT NULL,
			message TEXT,
			PRIMARY KEY (run_id, seq)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_kind ON runs(kind)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Record stores run and its steps in one transaction. An empty ID is
// replaced with a new UUID, written back into run.
func (s *Store) Record(ctx context.Context, run *Run) error {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, kind, started_at, finished_at, status, artifact_id, summary)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.ID, string(run.Kind), formatTime(run.StartedAt), formatTime(run.FinishedAt),
		string(run.Status), run.ArtifactID, run.Summary,
	)
	if err != nil {
		return fmt.Errorf("inserting run %s: %w", run.ID, err)
	}

	for i := range run.Steps {
		st := &run.Steps[i]
		if st.Seq == 0 {
			st.Seq = i + 1
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO run_steps (run_id, seq, name, ok, message) VALUES (?, ?, ?, ?, ?)`,
			run.ID, st.Seq, st.Name, st.OK, st.Message,
		); err != nil {
			return fmt.Errorf("inserting step %s of run %s: %w", st.Name, run.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing run %s: %w", run.ID, err)
	}
	return nil
}

// timeLayout keeps nanoseconds at a fixed width so stored times sort
// correctly as strings.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
