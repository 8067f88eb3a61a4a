package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/resume-sync/internal/assemble"
	"github.com/pdiddy/resume-sync/internal/ledger"
	"github.com/pdiddy/resume-sync/internal/tabular"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Fetch the published sheets and write one LaTeX fragment per section",
	Long: `Build downloads each configured CSV sheet, keeps the rows tagged "resume",
and writes the rendered LaTeX fragment for every section. Sections whose
source is empty or still a PASTE_ placeholder are skipped. The first failed
download aborts the run; fragments written before it are kept.

Use --dry-run to print the fragments instead of writing them.`,
	RunE: runBuild,
}

func init() {
	buildCmd.Flags().Bool("dry-run", false, "print fragments instead of writing files")

	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(viper.GetViper(), loadedSecrets)
	if err != nil {
		return err
	}
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	started := time.Now()
	fetcher := tabular.NewHTTPFetcher(cfg.Document.HTTPConfig)
	report, err := assemble.Build(cmd.Context(), fetcher, cfg.Document, assemble.Options{DryRun: dryRun}, os.Stdout)

	if !dryRun {
		recordRun(cmd.Context(), cfg.Ledger, buildRun(report, err, started, time.Now()))
	}
	return err
}

// buildRun converts an assembly report into a ledger entry.
func buildRun(report assemble.Report, err error, started, finished time.Time) ledger.Run {
	run := ledger.Run{
		Kind:       ledger.KindBuild,
		StartedAt:  started,
		FinishedAt: finished,
		Status:     ledger.StatusOK,
		Summary: fmt.Sprintf("%d fragment(s), %d item(s), %d skipped",
			len(report.Written), report.Items(), len(report.Skipped)),
	}
	for _, f := range report.Written {
		run.Steps = append(run.Steps, ledger.Step{
			Name:    string(f.Section),
			OK:      true,
			Message: fmt.Sprintf("%s (%d items)", f.Path, f.Items),
		})
	}
	for _, kind := range report.Skipped {
		run.Steps = append(run.Steps, ledger.Step{Name: string(kind), OK: true, Message: "skipped"})
	}
	if err != nil {
		run.Status = ledger.StatusFailed
		run.Summary = err.Error()
	}
	return run
}
