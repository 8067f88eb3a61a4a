// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/resume-sync/internal/ledger"
	"github.com/pdiddy/resume-sync/pkg/types"
)

var errLedgerDisabled = errors.New("run history is disabled (ledger.disabled)")

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent build, compile, and publish runs",
	Long: `History reads the local run ledger and lists recent runs, newest first.
Filter by --kind (build, compile, publish) or --status (ok, degraded, failed).`,
	RunE: runHistory,
}

var historyExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the run history to YAML or JSON",
	Long: `Export writes matching runs, with their steps, to export.yaml or
export.json next to the ledger database.`,
	RunE: runHistoryExport,
}

var historyLastCmd = &cobra.Command{
	Use:   "last",
	Short: "Print the artifact ID of the most recent upload",
	RunE:  runHistoryLast,
}

func runHistory(cmd *cobra.Command, args []string) error {
	store, cfg, err := openHistory()
	if err != nil {
		return err
	}
	defer store.Close()

	opts := historyOptsFromFlags(cmd, cfg)
	runs, err := store.List(cmd.Context(), opts)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatHistory(os.Stdout, runs, jsonOutput)
}

func runHistoryExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")

	store, cfg, err := openHistory()
	if err != nil {
		return err
	}
	defer store.Close()

	opts := historyOptsFromFlags(cmd, cfg)
	opts.MaxResults = 0

	var path string
	switch format {
	case "yaml", "":
		path, err = store.ExportYAML(cmd.Context(), opts)
	case "json":
		path, err = store.ExportJSON(cmd.Context(), opts)
	default:
		return fmt.Errorf("unsupported format %q: use yaml or json", format)
	}
	if err != nil {
		return err
	}
	fmt.Printf("Exported to %s\n", path)
	return nil
}

func runHistoryLast(cmd *cobra.Command, args []string) error {
	store, _, err := openHistory()
	if err != nil {
		return err
	}
	defer store.Close()

	id, err := store.LastArtifact(cmd.Context())
	if err != nil {
		return err
	}
	if id == "" {
		fmt.Println("No uploaded artifact recorded.")
		return nil
	}
	fmt.Println(id)
	return nil
}

func formatHistory(w io.Writer, runs []ledger.Run, jsonOutput bool) error {
	if jsonOutput {
		if runs == nil {
			runs = []ledger.Run{}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(runs)
	}

	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs recorded.")
		return nil
	}

	fmt.Fprintf(w, "%-20s  %-8s  %-9s  %-8s  %s\n", "Started", "Kind", "Status", "Duration", "Summary")
	fmt.Fprintln(w, strings.Repeat("-", 90))
	for _, r := range runs {
		summary := r.Summary
		if len(summary) > 45 {
			summary = summary[:42] + "..."
		}
		fmt.Fprintf(w, "%-20s  %-8s  %-9s  %-8s  %s\n",
			r.StartedAt.Local().Format("2006-01-02 15:04:05"), r.Kind, r.Status,
			r.Duration().Round(100*time.Millisecond), summary)
	}
	fmt.Fprintf(w, "\n%d run(s)\n", len(runs))
	return nil
}

// --- shared helpers ---

func openHistory() (*ledger.Store, types.LedgerConfig, error) {
	cfg, err := loadConfig(viper.GetViper(), loadedSecrets)
	if err != nil {
		return nil, types.LedgerConfig{}, err
	}
	if cfg.Ledger.Disabled {
		return nil, cfg.Ledger, errLedgerDisabled
	}
	store, err := ledger.NewStore(cfg.Ledger)
	if err != nil {
		return nil, cfg.Ledger, err
	}
	return store, cfg.Ledger, nil
}

func historyOptsFromFlags(cmd *cobra.Command, cfg types.LedgerConfig) ledger.QueryOptions {
	kind, _ := cmd.Flags().GetString("kind")
	status, _ := cmd.Flags().GetString("status")
	limit, _ := cmd.Flags().GetInt("limit")
	if limit == 0 {
		limit = cfg.MaxResults
	}
	return ledger.QueryOptions{
		Kind:       ledger.Kind(kind),
		Status:     ledger.Status(status),
		MaxResults: limit,
	}
}

// recordRun stores run in the ledger. Ledger problems never fail the command
// that produced the run; they are reported as warnings.
func recordRun(ctx context.Context, cfg types.LedgerConfig, run ledger.Run) {
	if cfg.Disabled {
		return
	}
	store, err := ledger.NewStore(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: run history unavailable: %v\n", err)
		return
	}
	defer store.Close()

	if err := store.Record(context.WithoutCancel(ctx), &run); err != nil {
		fmt.Fprintf(os.Stderr, "warning: recording run: %v\n", err)
	}
}

func init() {
	historyCmd.PersistentFlags().String("kind", "", "filter by run kind: build, compile, publish")
	historyCmd.PersistentFlags().String("status", "", "filter by status: ok, degraded, failed")

	historyCmd.Flags().Int("limit", 0, "maximum runs listed (0 = use ledger.max_results)")
	historyCmd.Flags().Bool("json", false, "output runs as JSON")

	historyExportCmd.Flags().String("format", "yaml", "export format: yaml or json")

	historyCmd.AddCommand(historyExportCmd)
	historyCmd.AddCommand(historyLastCmd)

	rootCmd.AddCommand(historyCmd)
}
