package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/resume-sync/internal/gauth"
	"github.com/pdiddy/resume-sync/internal/ledger"
	"github.com/pdiddy/resume-sync/internal/publish"
	"github.com/pdiddy/resume-sync/internal/secrets"
	"github.com/pdiddy/resume-sync/pkg/types"
)

var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Upload the compiled PDF, replace stale copies, and record its ID",
	Long: `Publish uploads publish.local_path under publish.remote_name, trashes
(or with --permanent deletes) older copies with the same name, shares the new
copy with anyone who has the link, and writes its ID into the tracking sheet.

Only a failed upload halts the sequence. Cleanup, share, and sheet failures
are reported as warnings. The outcome is printed and recorded in the run
history; the command exits zero either way.`,
	RunE: runPublish,
}

func init() {
	publishCmd.Flags().String("file", "", "artifact to upload (default: publish.local_path)")
	publishCmd.Flags().String("backend", "", "artifact store: drive or s3 (default: publish.backend)")
	publishCmd.Flags().Bool("permanent", false, "permanently delete stale copies instead of trashing them")

	rootCmd.AddCommand(publishCmd)
}

func runPublish(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(viper.GetViper(), loadedSecrets)
	if err != nil {
		return err
	}
	if file, _ := cmd.Flags().GetString("file"); file != "" {
		cfg.Publish.LocalPath = file
	}
	if backend, _ := cmd.Flags().GetString("backend"); backend != "" {
		cfg.Publish.Backend = types.StorageBackend(backend)
	}
	if permanent, _ := cmd.Flags().GetBool("permanent"); permanent {
		cfg.Publish.PermanentDelete = true
	}

	ctx := cmd.Context()
	store, recorder, err := publishBackends(ctx, cfg)
	if err != nil {
		return err
	}

	started := time.Now()
	p := &publish.Publisher{Store: store, Recorder: recorder, Config: cfg.Publish}
	report := p.Publish(ctx, os.Stdout)

	recordRun(ctx, cfg.Ledger, publishRun(report, started, time.Now()))
	return nil
}

// publishBackends builds the artifact store and, when a tracking sheet is
// configured, the cell recorder. Google credentials are only requested when
// Drive or Sheets is used.
func publishBackends(ctx context.Context, cfg types.Config) (publish.ArtifactStore, publish.CellRecorder, error) {
	var google *http.Client
	client := func() (*http.Client, error) {
		if google != nil {
			return google, nil
		}
		c, err := gauth.Client(ctx, cfg.Auth, os.Stdout)
		if err != nil {
			return nil, fmt.Errorf("authorizing with Google: %w", err)
		}
		google = c
		return google, nil
	}

	var store publish.ArtifactStore
	switch cfg.Publish.Backend {
	case types.BackendDrive, "":
		g, err := client()
		if err != nil {
			return nil, nil, err
		}
		drive, err := publish.NewDriveStore(ctx, g)
		if err != nil {
			return nil, nil, err
		}
		store = drive
	case types.BackendS3:
		id, secret := secrets.AWSKeys(loadedSecrets)
		s3, err := publish.NewS3Store(ctx, cfg.Publish.S3, publish.StaticKeys{AccessKeyID: id, SecretAccessKey: secret})
		if err != nil {
			return nil, nil, err
		}
		store = s3
	default:
		return nil, nil, fmt.Errorf("unsupported backend %q: use %s or %s",
			cfg.Publish.Backend, types.BackendDrive, types.BackendS3)
	}

	if cfg.Publish.SpreadsheetID == "" {
		return store, nil, nil
	}
	g, err := client()
	if err != nil {
		return nil, nil, err
	}
	sheets, err := publish.NewSheetsRecorder(ctx, g)
	if err != nil {
		return nil, nil, err
	}
	return store, sheets, nil
}

// publishRun converts a publication report into a ledger entry.
func publishRun(report publish.Report, started, finished time.Time) ledger.Run {
	run := ledger.Run{
		Kind:       ledger.KindPublish,
		StartedAt:  started,
		FinishedAt: finished,
		ArtifactID: report.ArtifactID,
	}
	switch {
	case report.Halted:
		run.Status = ledger.StatusFailed
	case len(report.Failed()) > 0:
		run.Status = ledger.StatusDegraded
	default:
		run.Status = ledger.StatusOK
	}

	for _, r := range report.Results {
		msg := r.Message
		if r.Err != nil {
			msg = r.Err.Error()
		}
		run.Steps = append(run.Steps, ledger.Step{Name: r.Name, OK: r.OK || r.Skipped, Message: msg})
	}

	if report.Halted {
		run.Summary = "publication halted"
		if failed := report.Failed(); len(failed) > 0 && failed[len(failed)-1].Err != nil {
			run.Summary = failed[len(failed)-1].Err.Error()
		}
	} else {
		run.Summary = fmt.Sprintf("%s, %d page(s), %d stale removed, %d warning(s)",
			report.ArtifactID, report.Pages, report.Removed, len(report.Failed()))
	}
	return run
}
