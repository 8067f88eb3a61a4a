// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// QueryOptions filters run listings. Zero values match everything.
type QueryOptions struct {
	Kind       Kind
	Status     Status
	MaxResults int
}

// List returns matching runs, newest first, each with its steps.
func (s *Store) List(ctx context.Context, opts QueryOptions) ([]Run, error) {
	var where []string
	var args []any
	if opts.Kind != "" {
		where = append(where, "kind = ?")
		args = append(args, string(opts.Kind))
	}
	if opts.Status != "" {
		where = append(where, "status = ?")
		args = append(args, string(opts.Status))
	}

	limit := opts.MaxResults
	if limit <= 0 {
		limit = s.maxResults
	}

	q := `SELECT id, kind, started_at, finished_at, status, artifact_id, summary FROM runs`
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += " ORDER BY started_at DESC LIMIT ?"
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var kind, status, started, finished string
		var artifact, summary sql.NullString
		if err := rows.Scan(&r.ID, &kind, &started, &finished, &status, &artifact, &summary); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		r.Kind = Kind(kind)
		r.Status = Status(status)
		r.StartedAt = parseTime(started)
		r.FinishedAt = parseTime(finished)
		r.ArtifactID = artifact.String
		r.Summary = summary.String
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating runs: %w", err)
	}

	for i := range runs {
		steps, err := s.steps(ctx, runs[i].ID)
		if err != nil {
			return nil, err
		}
		runs[i].Steps = steps
	}
	return runs, nil
}

func (s *Store) steps(ctx context.Context, runID string) ([]Step, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT seq, name, ok, message FROM run_steps WHERE run_id = ? ORDER BY seq`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying steps of %s: %w", runID, err)
	}
	defer rows.Close()

	var out []Step
	for rows.Next() {
		var st Step
		var msg sql.NullString
		if err := rows.Scan(&st.Seq, &st.Name, &st.OK, &msg); err != nil {
			return nil, fmt.Errorf("scanning step: %w", err)
		}
		st.Message = msg.String
		out = append(out, st)
	}
	return out, rows.Err()
}

// LastArtifact returns the artifact ID of the most recent publish run that
// uploaded one, or "" when there is none.
func (s *Store) LastArtifact(ctx context.Context) (string, error) {
	var id string
	err := s.db.QueryRowContext(ctx,
		`SELECT artifact_id FROM runs
		 WHERE kind = ? AND artifact_id IS NOT NULL AND artifact_id != ''
		 ORDER BY started_at DESC LIMIT 1`, string(KindPublish),
	).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("querying last artifact: %w", err)
	}
	return id, nil
}
