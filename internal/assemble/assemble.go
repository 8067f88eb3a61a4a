// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package assemble runs the document assembly pipeline: fetch each section's
// published sheet, normalize and select its rows, render the fragment, and
// write it to its output path.
package assemble

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/resume-sync/internal/normalize"
	"github.com/pdiddy/resume-sync/internal/render"
	"github.com/pdiddy/resume-sync/internal/tabular"
	"github.com/pdiddy/resume-sync/pkg/types"
)

// placeholderPrefix marks a locator that was never filled in.
const placeholderPrefix = "PASTE_"

// Fragment records one written (or previewed) section.
type Fragment struct {
	Section types.SectionKind
	Path    string
	Items   int
}

// Report holds the outcome of an assembly run.
type Report struct {
	Written []Fragment
	Skipped []types.SectionKind
}

// Items returns the total number of rendered items across fragments.
func (r Report) Items() int {
	n := 0
	for _, f := range r.Written {
		n += f.Items
	}
	return n
}

// Options controls where fragments go.
type Options struct {
	// DryRun prints fragments to the progress writer instead of writing files.
	DryRun bool
}

// configured reports whether a locator points at a real dataset.
func configured(locator string) bool {
	l := strings.TrimSpace(locator)
	return l != "" && !strings.HasPrefix(l, placeholderPrefix)
}

// section is one unit of work: how to produce the fragment text.
type section struct {
	kind   types.SectionKind
	output string
	build  func(ctx context.Context) (text string, items int, err error)
}

// Build assembles every configured section. A fetch failure aborts the run
// immediately and is returned; fragments written before it remain on disk.
func Build(ctx context.Context, f tabular.Fetcher, cfg types.DocumentConfig, opts Options, w io.Writer) (Report, error) {
	var report Report
	ropts := render.Options{AuthorNames: cfg.AuthorNames, IncludeLinks: cfg.IncludeLinks}
	src := cfg.Sources

	// fetchTable returns an empty table for an unconfigured locator so that
	// publications render when only patents are set, and vice versa.
	fetchTable := func(ctx context.Context, locator string) (*tabular.Table, error) {
		if !configured(locator) {
			return &tabular.Table{}, nil
		}
		return f.Fetch(ctx, locator)
	}
	fetchRows := func(ctx context.Context, locator string) ([]tabular.Row, error) {
		t, err := fetchTable(ctx, locator)
		if err != nil {
			return nil, err
		}
		return t.Rows, nil
	}

	sections := []section{
		{
			kind:   types.SectionPublications,
			output: cfg.Outputs.Publications,
			build: func(ctx context.Context) (string, int, error) {
				pubRows, err := fetchRows(ctx, src.Publications)
				if err != nil {
					return "", 0, err
				}
				patRows, err := fetchRows(ctx, src.Patents)
				if err != nil {
					return "", 0, err
				}
				pubs := normalize.Publications(pubRows)
				pats := normalize.Publications(patRows)
				if cfg.MergeMode == types.PatentsThenPubs {
					pubs, pats = pats, pubs
				}
				return render.Publications(pubs, pats, ropts), len(pubs) + len(pats), nil
			},
		},
		{
			kind:   types.SectionAchievements,
			output: cfg.Outputs.Achievements,
			build: func(ctx context.Context) (string, int, error) {
				rows, err := fetchRows(ctx, src.Achievements)
				if err != nil {
					return "", 0, err
				}
				items := normalize.Achievements(rows)
				return render.Achievements(items), len(items), nil
			},
		},
		{
			kind:   types.SectionEducation,
			output: cfg.Outputs.Education,
			build: func(ctx context.Context) (string, int, error) {
				t, err := fetchTable(ctx, src.Education)
				if err != nil {
					return "", 0, err
				}
				items := normalize.Educations(t)
				return render.Education(items), len(items), nil
			},
		},
		{
			kind:   types.SectionResearch,
			output: cfg.Outputs.Research,
			build: func(ctx context.Context) (string, int, error) {
				rows, err := fetchRows(ctx, src.Research)
				if err != nil {
					return "", 0, err
				}
				items := normalize.ResearchInterests(rows)
				return render.Research(items), len(items), nil
			},
		},
		{
			kind:   types.SectionExperience,
			output: cfg.Outputs.Experience,
			build: func(ctx context.Context) (string, int, error) {
				rows, err := fetchRows(ctx, src.Experience)
				if err != nil {
					return "", 0, err
				}
				items := normalize.Experiences(rows)
				return render.Experience(items), len(items), nil
			},
		},
		{
			kind:   types.SectionSkills,
			output: cfg.Outputs.Skills,
			build: func(ctx context.Context) (string, int, error) {
				t, err := fetchTable(ctx, src.Skills)
				if err != nil {
					return "", 0, err
				}
				cats := normalize.Skills(t)
				return render.Skills(cats), len(cats), nil
			},
		},
	}

	for _, s := range sections {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		if !sectionEnabled(s.kind, src) || s.output == "" {
			report.Skipped = append(report.Skipped, s.kind)
			continue
		}

		text, items, err := s.build(ctx)
		if err != nil {
			return report, fmt.Errorf("building %s: %w", s.kind, err)
		}

		if opts.DryRun {
			fmt.Fprintf(w, "--- %s (%d items)\n%s", s.output, items, text)
		} else {
			if err := WriteFragment(s.output, text); err != nil {
				return report, fmt.Errorf("writing %s: %w", s.output, err)
			}
			fmt.Fprintf(w, "Wrote %s.\n", s.output)
		}
		report.Written = append(report.Written, Fragment{Section: s.kind, Path: s.output, Items: items})
	}

	fmt.Fprintf(w, "\nAssembly summary: %d fragment(s), %d item(s), %d section(s) skipped\n",
		len(report.Written), report.Items(), len(report.Skipped))
	return report, nil
}

// sectionEnabled reports whether a section has at least one source. The
// publications fragment is produced when either publications or patents
// are configured.
func sectionEnabled(kind types.SectionKind, src types.SectionSources) bool {
	switch kind {
	case types.SectionPublications:
		return configured(src.Publications) || configured(src.Patents)
	case types.SectionAchievements:
		return configured(src.Achievements)
	case types.SectionEducation:
		return configured(src.Education)
	case types.SectionResearch:
		return configured(src.Research)
	case types.SectionExperience:
		return configured(src.Experience)
	case types.SectionSkills:
		return configured(src.Skills)
	}
	return false
}

// WriteFragment writes text to path through a temporary file in the same
// directory, creating parent directories as needed.
func WriteFragment(path, text string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".fragment-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	_, writeErr := io.WriteString(tmp, text)
	closeErr := tmp.Close()
	if writeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("writing fragment: %w", writeErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", closeErr)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("setting permissions: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
