// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/sheets/v4"

	"github.com/pdiddy/resume-sync/internal/secrets"
	"github.com/pdiddy/resume-sync/pkg/types"
)

const (
	defaultTimeout  = 30 * time.Second
	defaultMimeType = "application/pdf"
)

// setDefaults installs a default for every configuration key so that
// environment overrides are picked up by Unmarshal.
func setDefaults(v *viper.Viper) {
	v.SetDefault("document.timeout", defaultTimeout)
	v.SetDefault("document.user_agent", "resume-sync/"+version)
	v.SetDefault("document.max_retries", 0)
	v.SetDefault("document.author_names", []string{})
	v.SetDefault("document.include_links", true)
	v.SetDefault("document.merge_mode", string(types.PubsThenPatents))
	for _, key := range []string{"publications", "patents", "achievements", "education", "research", "experience", "skills"} {
		v.SetDefault("document.sources."+key, "")
	}
	v.SetDefault("document.outputs.publications", "sections/publications.tex")
	v.SetDefault("document.outputs.achievements", "sections/achievments.tex")
	v.SetDefault("document.outputs.education", "sections/education.tex")
	v.SetDefault("document.outputs.research", "sections/research.tex")
	v.SetDefault("document.outputs.experience", "sections/experience.tex")
	v.SetDefault("document.outputs.skills", "sections/skills.tex")

	v.SetDefault("publish.backend", string(types.BackendDrive))
	v.SetDefault("publish.local_path", "output/generated_resume.pdf")
	v.SetDefault("publish.remote_name", "Resume.pdf")
	v.SetDefault("publish.mime_type", defaultMimeType)
	v.SetDefault("publish.permanent_delete", false)
	v.SetDefault("publish.spreadsheet_id", "")
	v.SetDefault("publish.sheet_name", "CV")
	v.SetDefault("publish.cell", "A2")
	v.SetDefault("publish.s3.region", "")
	v.SetDefault("publish.s3.bucket", "")
	v.SetDefault("publish.s3.prefix", "resume")
	v.SetDefault("publish.s3.endpoint", "")

	v.SetDefault("auth.credentials_file", "credentials.json")
	v.SetDefault("auth.token_file", "token.json")
	v.SetDefault("auth.scopes", []string{drive.DriveFileScope, sheets.SpreadsheetsScope})

	v.SetDefault("ledger.path", ".resume-sync/history.db")
	v.SetDefault("ledger.disabled", false)
	v.SetDefault("ledger.max_results", 20)

	v.SetDefault("compile.image", "texlive/texlive:latest")
	v.SetDefault("compile.main_file", "main.tex")
	v.SetDefault("compile.work_dir", ".")
	v.SetDefault("compile.output_dir", "output")
}

// loadConfig unmarshals v into a Config and applies secret overrides. The
// result is built once per command and passed into each pipeline.
func loadConfig(v *viper.Viper, s map[string]string) (types.Config, error) {
	var cfg types.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return types.Config{}, fmt.Errorf("reading configuration: %w", err)
	}

	switch cfg.Document.MergeMode {
	case types.PubsThenPatents, types.PatentsThenPubs:
	default:
		return types.Config{}, fmt.Errorf("unsupported merge_mode %q: use %s or %s",
			cfg.Document.MergeMode, types.PubsThenPatents, types.PatentsThenPubs)
	}
	if cfg.Document.Timeout <= 0 {
		cfg.Document.Timeout = defaultTimeout
	}
	if cfg.Publish.MimeType == "" {
		cfg.Publish.MimeType = defaultMimeType
	}

	secrets.Apply(s, &cfg.Auth)
	return cfg, nil
}
