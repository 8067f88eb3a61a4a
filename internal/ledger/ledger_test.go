// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ledger

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/resume-sync/pkg/types"
)

// --- test helpers ---

func testStore(t *testing.T) (*Store, string) {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "state")
	store, err := NewStore(types.LedgerConfig{Path: filepath.Join(dir, "history.db")})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })
	return store, dir
}

var base = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func record(t *testing.T, s *Store, run Run) Run {
	t.Helper()
	if err := s.Record(context.Background(), &run); err != nil {
		t.Fatal(err)
	}
	return run
}

// --- tests ---

func TestNewStoreCreatesDirectory(t *testing.T) {
	_, dir := testStore(t)
	if _, err := os.Stat(filepath.Join(dir, "history.db")); err != nil {
		t.Fatalf("database not created: %v", err)
	}
}

func TestNewStoreReopen(t *testing.T) {
	dir := t.TempDir()
	cfg := types.LedgerConfig{Path: filepath.Join(dir, "history.db")}

	s1, err := NewStore(cfg)
	if err != nil {
		t.Fatal(err)
	}
	record(t, s1, Run{Kind: KindBuild, StartedAt: base, FinishedAt: base, Status: StatusOK})
	s1.Close()

	s2, err := NewStore(cfg)
	if err != nil {
		t.Fatal(err)
	}
	defer s2.Close()

	runs, err := s2.List(context.Background(), QueryOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 {
		t.Errorf("got %d runs after reopen, want 1", len(runs))
	}
}

func TestRecordAssignsIDAndSeq(t *testing.T) {
	s, _ := testStore(t)
	run := record(t, s, Run{
		Kind:       KindPublish,
		StartedAt:  base,
		FinishedAt: base.Add(3 * time.Second),
		Status:     StatusDegraded,
		Steps: []Step{
			{Name: "upload", OK: true},
			{Name: "share", OK: false, Message: "forbidden"},
		},
	})

	if run.ID == "" {
		t.Fatal("expected generated ID")
	}
	if run.Steps[0].Seq != 1 || run.Steps[1].Seq != 2 {
		t.Errorf("seq = %d, %d, want 1, 2", run.Steps[0].Seq, run.Steps[1].Seq)
	}

	runs, err := s.List(context.Background(), QueryOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 {
		t.Fatalf("got %d runs, want 1", len(runs))
	}
	got := runs[0]
	if got.ID != run.ID || got.Status != StatusDegraded || got.Kind != KindPublish {
		t.Errorf("unexpected run: %+v", got)
	}
	if got.Duration() != 3*time.Second {
		t.Errorf("duration = %v, want 3s", got.Duration())
	}
	if len(got.Steps) != 2 || got.Steps[1].Message != "forbidden" || got.Steps[1].OK {
		t.Errorf("unexpected steps: %+v", got.Steps)
	}
}

func TestRecordDuplicateID(t *testing.T) {
	s, _ := testStore(t)
	record(t, s, Run{ID: "fixed", Kind: KindBuild, StartedAt: base, FinishedAt: base, Status: StatusOK})

	dup := Run{ID: "fixed", Kind: KindBuild, StartedAt: base, FinishedAt: base, Status: StatusOK}
	if err := s.Record(context.Background(), &dup); err == nil {
		t.Error("expected error for duplicate run ID")
	}
}

func TestListFiltersAndOrder(t *testing.T) {
	s, _ := testStore(t)
	record(t, s, Run{ID: "b1", Kind: KindBuild, StartedAt: base, FinishedAt: base, Status: StatusOK})
	record(t, s, Run{ID: "p1", Kind: KindPublish, StartedAt: base.Add(time.Minute), FinishedAt: base, Status: StatusFailed})
	record(t, s, Run{ID: "p2", Kind: KindPublish, StartedAt: base.Add(2 * time.Minute), FinishedAt: base, Status: StatusOK, ArtifactID: "file-2"})
	ctx := context.Background()

	tests := []struct {
		name string
		opts QueryOptions
		want []string
	}{
		{"all newest first", QueryOptions{}, []string{"p2", "p1", "b1"}},
		{"by kind", QueryOptions{Kind: KindPublish}, []string{"p2", "p1"}},
		{"by status", QueryOptions{Status: StatusOK}, []string{"p2", "b1"}},
		{"kind and status", QueryOptions{Kind: KindPublish, Status: StatusFailed}, []string{"p1"}},
		{"limit", QueryOptions{MaxResults: 1}, []string{"p2"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runs, err := s.List(ctx, tt.opts)
			if err != nil {
				t.Fatal(err)
			}
			var ids []string
			for _, r := range runs {
				ids = append(ids, r.ID)
			}
			if len(ids) != len(tt.want) {
				t.Fatalf("got %v, want %v", ids, tt.want)
			}
			for i := range ids {
				if ids[i] != tt.want[i] {
					t.Errorf("got %v, want %v", ids, tt.want)
					break
				}
			}
		})
	}
}

func TestListOrdersWithinOneSecond(t *testing.T) {
	s, _ := testStore(t)
	record(t, s, Run{ID: "early", Kind: KindBuild, StartedAt: base.Add(400 * time.Millisecond), FinishedAt: base, Status: StatusOK})
	record(t, s, Run{ID: "late", Kind: KindBuild, StartedAt: base.Add(450 * time.Millisecond), FinishedAt: base, Status: StatusOK})
	record(t, s, Run{ID: "whole", Kind: KindBuild, StartedAt: base, FinishedAt: base, Status: StatusOK})

	runs, err := s.List(context.Background(), QueryOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 3 || runs[0].ID != "late" || runs[1].ID != "early" || runs[2].ID != "whole" {
		t.Fatalf("unexpected order: %v", runIDs(runs))
	}
	if !runs[0].StartedAt.Equal(base.Add(450 * time.Millisecond)) {
		t.Errorf("started_at round trip = %v", runs[0].StartedAt)
	}
}

func runIDs(runs []Run) []string {
	ids := make([]string, len(runs))
	for i, r := range runs {
		ids[i] = r.ID
	}
	return ids
}

func TestLastArtifact(t *testing.T) {
	s, _ := testStore(t)
	ctx := context.Background()

	id, err := s.LastArtifact(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if id != "" {
		t.Errorf("empty ledger returned %q", id)
	}

	record(t, s, Run{Kind: KindPublish, StartedAt: base, FinishedAt: base, Status: StatusOK, ArtifactID: "old"})
	record(t, s, Run{Kind: KindPublish, StartedAt: base.Add(time.Hour), FinishedAt: base, Status: StatusOK, ArtifactID: "new"})
	record(t, s, Run{Kind: KindPublish, StartedAt: base.Add(2 * time.Hour), FinishedAt: base, Status: StatusFailed})

	id, err = s.LastArtifact(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if id != "new" {
		t.Errorf("LastArtifact = %q, want %q", id, "new")
	}
}

func TestExportYAMLAndJSON(t *testing.T) {
	s, dir := testStore(t)
	ctx := context.Background()
	record(t, s, Run{ID: "r1", Kind: KindPublish, StartedAt: base, FinishedAt: base, Status: StatusOK,
		ArtifactID: "file-1", Steps: []Step{{Name: "upload", OK: true}}})
	record(t, s, Run{ID: "r2", Kind: KindBuild, StartedAt: base.Add(time.Minute), FinishedAt: base, Status: StatusOK})

	yamlPath, err := s.ExportYAML(ctx, QueryOptions{Kind: KindPublish})
	if err != nil {
		t.Fatal(err)
	}
	if yamlPath != filepath.Join(dir, "export.yaml") {
		t.Errorf("yaml path = %s", yamlPath)
	}
	data, err := os.ReadFile(yamlPath)
	if err != nil {
		t.Fatal(err)
	}
	var fromYAML []Run
	if err := yaml.Unmarshal(data, &fromYAML); err != nil {
		t.Fatal(err)
	}
	if len(fromYAML) != 1 || fromYAML[0].ArtifactID != "file-1" || len(fromYAML[0].Steps) != 1 {
		t.Errorf("unexpected YAML export: %+v", fromYAML)
	}

	jsonPath, err := s.ExportJSON(ctx, QueryOptions{})
	if err != nil {
		t.Fatal(err)
	}
	data, err = os.ReadFile(jsonPath)
	if err != nil {
		t.Fatal(err)
	}
	var fromJSON []Run
	if err := json.Unmarshal(data, &fromJSON); err != nil {
		t.Fatal(err)
	}
	if len(fromJSON) != 2 {
		t.Errorf("got %d runs in JSON export, want 2", len(fromJSON))
	}
}

func TestExportEmptyLedger(t *testing.T) {
	s, _ := testStore(t)
	path, err := s.ExportJSON(context.Background(), QueryOptions{})
	if err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "[]" {
		t.Errorf("empty export = %q, want []", data)
	}
}
