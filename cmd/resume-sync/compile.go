package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/resume-sync/internal/container"
	"github.com/pdiddy/resume-sync/internal/ledger"
	"github.com/pdiddy/resume-sync/pkg/types"
)

var compileCmd = &cobra.Command{
	Use:   "compile",
	Short: "Compile the resume with latexmk in a TeX container",
	Long: `Compile runs latexmk over compile.work_dir inside compile.image using
docker, or podman when docker is unavailable. The image is pulled on first
use. The resulting PDF is copied to publish.local_path so that publish picks
it up.`,
	RunE: runCompile,
}

func init() {
	compileCmd.Flags().String("image", "", "TeX container image (default: compile.image)")

	rootCmd.AddCommand(compileCmd)
}

func runCompile(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(viper.GetViper(), loadedSecrets)
	if err != nil {
		return err
	}
	if image, _ := cmd.Flags().GetString("image"); image != "" {
		cfg.Compile.Image = image
	}

	ctx := cmd.Context()
	started := time.Now()
	run := ledger.Run{Kind: ledger.KindCompile, StartedAt: started, Status: ledger.StatusOK}

	dest, err := compileArtifact(ctx, cfg.Compile, cfg.Publish.LocalPath, &run)
	run.FinishedAt = time.Now()
	if err != nil {
		run.Status = ledger.StatusFailed
		run.Summary = err.Error()
	} else {
		run.Summary = dest
	}
	recordRun(ctx, cfg.Ledger, run)

	if err != nil {
		return err
	}
	fmt.Printf("Compiled %s.\n", dest)
	return nil
}

func compileArtifact(ctx context.Context, cfg types.CompileConfig, dest string, run *ledger.Run) (string, error) {
	rt, err := container.DetectRuntime(ctx)
	if err != nil {
		return "", err
	}
	run.Steps = append(run.Steps, ledger.Step{Name: "runtime", OK: true, Message: rt.Name()})

	pdf, err := container.Compile(ctx, rt, cfg, os.Stdout)
	if err != nil {
		run.Steps = append(run.Steps, ledger.Step{Name: "latexmk", Message: err.Error()})
		return "", err
	}
	run.Steps = append(run.Steps, ledger.Step{Name: "latexmk", OK: true, Message: pdf})

	if dest == "" {
		return pdf, nil
	}
	if err := copyArtifact(pdf, dest); err != nil {
		run.Steps = append(run.Steps, ledger.Step{Name: "copy", Message: err.Error()})
		return "", err
	}
	run.Steps = append(run.Steps, ledger.Step{Name: "copy", OK: true, Message: dest})
	return dest, nil
}

// copyArtifact copies src to dst through a temporary file in dst's
// directory. Identical paths are left alone.
func copyArtifact(src, dst string) error {
	absSrc, err := filepath.Abs(src)
	if err != nil {
		return err
	}
	absDst, err := filepath.Abs(dst)
	if err != nil {
		return err
	}
	if absSrc == absDst {
		return nil
	}

	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("opening %s: %w", src, err)
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("creating directory for %s: %w", dst, err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(dst), ".artifact-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := io.Copy(tmp, in); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("copying %s: %w", src, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("setting permissions on %s: %w", dst, err)
	}
	if err := os.Rename(tmpName, dst); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("renaming to %s: %w", dst, err)
	}
	return nil
}
