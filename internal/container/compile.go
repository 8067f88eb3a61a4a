// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package container

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/resume-sync/pkg/types"
)

// mountPoint is where the work tree appears inside the TeX container.
const mountPoint = "/work"

// CompileSpec builds the latexmk invocation for cfg. The work directory is
// mounted read-write so the output directory is created on the host.
func CompileSpec(cfg types.CompileConfig) (RunSpec, error) {
	workDir, err := filepath.Abs(cfg.WorkDir)
	if err != nil {
		return RunSpec{}, fmt.Errorf("resolving work directory: %w", err)
	}
	outDir := filepath.ToSlash(cfg.OutputDir)
	if filepath.IsAbs(cfg.OutputDir) || strings.HasPrefix(outDir, "../") {
		return RunSpec{}, fmt.Errorf("output directory %s must be inside the work directory", cfg.OutputDir)
	}

	return RunSpec{
		Image:   cfg.Image,
		Mounts:  []Mount{{Host: workDir, Target: mountPoint}},
		WorkDir: mountPoint,
		Command: []string{
			"latexmk", "-pdf", "-interaction=nonstopmode", "-halt-on-error",
			"-outdir=" + outDir,
			strings.TrimSuffix(cfg.MainFile, ".tex"),
		},
	}, nil
}

// OutputPath returns the host path of the PDF that CompileSpec produces.
func OutputPath(cfg types.CompileConfig) string {
	name := strings.TrimSuffix(filepath.Base(cfg.MainFile), ".tex") + ".pdf"
	return filepath.Join(cfg.WorkDir, cfg.OutputDir, name)
}

// Compile runs latexmk over cfg.WorkDir in rt, pulling the image first when
// it is missing locally, and returns the path of the produced PDF.
func Compile(ctx context.Context, rt Runtime, cfg types.CompileConfig, w io.Writer) (string, error) {
	spec, err := CompileSpec(cfg)
	if err != nil {
		return "", err
	}

	if err := rt.ImageExists(ctx, cfg.Image); err != nil {
		fmt.Fprintf(w, "pulling %s with %s\n", cfg.Image, rt.Name())
		if err := rt.Pull(ctx, cfg.Image, w); err != nil {
			return "", err
		}
	}

	fmt.Fprintf(w, "compiling %s in %s (%s)\n", cfg.MainFile, cfg.Image, rt.Name())
	if err := rt.Run(ctx, spec, w); err != nil {
		return "", err
	}

	out := OutputPath(cfg)
	if _, err := os.Stat(out); err != nil {
		return "", fmt.Errorf("expected output %s: %w", out, err)
	}
	return out, nil
}
