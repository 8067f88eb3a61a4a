// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package publish uploads the compiled resume, removes stale copies that
// share its name, makes the new copy public, and records its identifier in a
// tracking spreadsheet.
//
// The sequence is not atomic. Each step produces a StepResult; only a fatal
// step (upload) halts the run, and nothing already done is rolled back.
package publish

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/pdiddy/resume-sync/pkg/types"
)

// Artifact is one stored copy of the published file.
type Artifact struct {
	ID      string
	Name    string
	Created time.Time
}

// ArtifactStore is the remote object store the artifact is published to.
type ArtifactStore interface {
	// Upload stores r under name and returns the new object's identifier.
	Upload(ctx context.Context, name, mimeType string, r io.Reader) (string, error)

	// FindByName lists every non-trashed object stored under name.
	FindByName(ctx context.Context, name string) ([]Artifact, error)

	// Trash soft-deletes an object so it can still be restored.
	Trash(ctx context.Context, id string) error

	// Delete removes an object permanently.
	Delete(ctx context.Context, id string) error

	// SharePublic lets anyone holding the link read the object.
	SharePublic(ctx context.Context, id string) error
}

// CellRecorder overwrites one spreadsheet cell.
type CellRecorder interface {
	// UpdateCell writes value into rng ("Sheet!A2") as raw input and
	// returns the number of cells updated.
	UpdateCell(ctx context.Context, spreadsheetID, rng, value string) (int64, error)
}

// StepResult is the outcome of one publication step.
type StepResult struct {
	Name    string
	OK      bool
	Skipped bool
	Message string
	Err     error
}

// Report holds the outcome of a publication run.
type Report struct {
	ArtifactID string
	Pages      int
	Removed    int
	Results    []StepResult
	Halted     bool
}

// Failed returns the results of steps that ran and did not succeed.
func (r Report) Failed() []StepResult {
	var out []StepResult
	for _, res := range r.Results {
		if !res.OK && !res.Skipped {
			out = append(out, res)
		}
	}
	return out
}

// Step is one stage of the publication sequence. A failing fatal step stops
// the sequence; a failing non-fatal step is logged and the next step runs.
type Step struct {
	Name  string
	Fatal bool
	Run   func(ctx context.Context, rep *Report) (string, error)
}

// errSkipped marks a step that had nothing to do.
var errSkipped = errors.New("skipped")

// Publisher runs the publication sequence against a store and recorder.
type Publisher struct {
	Store    ArtifactStore
	Recorder CellRecorder
	Config   types.PublishConfig
}

// Steps returns the ordered publication sequence.
func (p *Publisher) Steps() []Step {
	return []Step{
		{Name: "inspect", Run: p.inspect},
		{Name: "upload", Fatal: true, Run: p.upload},
		{Name: "cleanup", Run: p.cleanup},
		{Name: "share", Run: p.share},
		{Name: "record", Run: p.record},
	}
}

// Publish runs every step in order and prints one progress line per step to
// w. Only an upload failure halts the sequence; it is reported through the
// Report rather than returned, so callers decide the exit status.
func (p *Publisher) Publish(ctx context.Context, w io.Writer) Report {
	rep := Run(ctx, p.Steps(), w)
	if rep.Halted {
		fmt.Fprintf(w, "\nPublication failed. The tracking sheet was not updated.\n")
	} else {
		fmt.Fprintf(w, "\nPublication complete: %s (%d stale cop%s removed, %d warning(s))\n",
			rep.ArtifactID, rep.Removed, plural(rep.Removed, "y", "ies"), len(rep.Failed()))
	}
	return rep
}

// Run executes steps in order, collecting one result per executed step.
func Run(ctx context.Context, steps []Step, w io.Writer) Report {
	var rep Report
	for _, s := range steps {
		if err := ctx.Err(); err != nil {
			rep.Results = append(rep.Results, StepResult{Name: s.Name, Err: err, Message: err.Error()})
			rep.Halted = true
			return rep
		}

		msg, err := s.Run(ctx, &rep)
		res := StepResult{Name: s.Name, Message: msg}
		switch {
		case errors.Is(err, errSkipped):
			res.Skipped = true
			fmt.Fprintf(w, "skipped: %s (%s)\n", s.Name, msg)
		case err != nil:
			res.Err = err
			if msg == "" {
				res.Message = err.Error()
			} else {
				fmt.Fprintln(w, msg)
			}
			if s.Fatal {
				fmt.Fprintf(w, "failed: %s: %v\n", s.Name, err)
			} else {
				fmt.Fprintf(w, "  warning: %s: %v\n", s.Name, err)
			}
		default:
			res.OK = true
			if msg != "" {
				fmt.Fprintln(w, msg)
			}
		}
		rep.Results = append(rep.Results, res)

		if err != nil && !errors.Is(err, errSkipped) && s.Fatal {
			rep.Halted = true
			return rep
		}
	}
	return rep
}

func (p *Publisher) inspect(_ context.Context, rep *Report) (string, error) {
	if _, err := os.Stat(p.Config.LocalPath); err != nil {
		return "artifact not found", errSkipped
	}
	n, err := PageCount(p.Config.LocalPath)
	if err != nil {
		return "", err
	}
	rep.Pages = n
	return fmt.Sprintf("Inspected %s: %d page(s).", p.Config.LocalPath, n), nil
}

func (p *Publisher) upload(ctx context.Context, rep *Report) (string, error) {
	f, err := os.Open(p.Config.LocalPath)
	if err != nil {
		return "", &UploadError{Path: p.Config.LocalPath, Err: err}
	}
	defer f.Close()

	mime := p.Config.MimeType
	if mime == "" {
		mime = "application/pdf"
	}
	id, err := p.Store.Upload(ctx, p.Config.RemoteName, mime, f)
	if err != nil {
		return "", &UploadError{Path: p.Config.LocalPath, Err: err}
	}
	rep.ArtifactID = id
	return fmt.Sprintf("Uploaded %s as %q. Artifact ID: %s", p.Config.LocalPath, p.Config.RemoteName, id), nil
}

// cleanup removes every same-name copy except the one just uploaded. A copy
// that cannot be removed is reported and the remaining copies are still
// attempted; only successful removals are counted.
func (p *Publisher) cleanup(ctx context.Context, rep *Report) (string, error) {
	found, err := p.Store.FindByName(ctx, p.Config.RemoteName)
	if err != nil {
		return "", &CleanupError{Err: err}
	}

	remove, action := p.Store.Trash, "moved to trash"
	if p.Config.PermanentDelete {
		remove, action = p.Store.Delete, "permanently deleted"
	}

	var errs []error
	for _, a := range found {
		if a.ID == rep.ArtifactID {
			continue
		}
		if err := remove(ctx, a.ID); err != nil {
			errs = append(errs, &CleanupError{ID: a.ID, Err: err})
			continue
		}
		rep.Removed++
	}

	msg := fmt.Sprintf("%d old cop%s %s.", rep.Removed, plural(rep.Removed, "y", "ies"), action)
	return msg, errors.Join(errs...)
}

func (p *Publisher) share(ctx context.Context, rep *Report) (string, error) {
	if err := p.Store.SharePublic(ctx, rep.ArtifactID); err != nil {
		return "", &PermissionError{ID: rep.ArtifactID, Err: err}
	}
	return "Artifact is now readable by anyone with the link.", nil
}

func (p *Publisher) record(ctx context.Context, rep *Report) (string, error) {
	if p.Config.SpreadsheetID == "" || p.Recorder == nil {
		return "no spreadsheet configured", errSkipped
	}
	rng := CellRange(p.Config.SheetName, p.Config.Cell)
	n, err := p.Recorder.UpdateCell(ctx, p.Config.SpreadsheetID, rng, rep.ArtifactID)
	if err != nil {
		return "", &SheetUpdateError{Range: rng, Err: err}
	}
	return fmt.Sprintf("Updated %s: %d cell(s).", rng, n), nil
}

// CellRange joins a sheet name and cell address, quoting the sheet name when
// it contains anything other than letters, digits or underscores.
func CellRange(sheet, cell string) string {
	if sheet == "" {
		return cell
	}
	for _, r := range sheet {
		if !(r == '_' || r >= '0' && r <= '9' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z') {
			return "'" + strings.ReplaceAll(sheet, "'", "''") + "'!" + cell
		}
	}
	return sheet + "!" + cell
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
