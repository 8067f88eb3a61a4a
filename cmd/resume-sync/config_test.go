// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/resume-sync/internal/secrets"
	"github.com/pdiddy/resume-sync/pkg/types"
)

func newViper(t *testing.T) *viper.Viper {
	t.Helper()
	v := viper.New()
	setDefaults(v)
	v.SetConfigType("yaml")
	return v
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := loadConfig(newViper(t), nil)
	require.NoError(t, err)

	assert.Equal(t, 30*time.Second, cfg.Document.Timeout)
	assert.Equal(t, 0, cfg.Document.MaxRetries)
	assert.True(t, cfg.Document.IncludeLinks)
	assert.Equal(t, types.PubsThenPatents, cfg.Document.MergeMode)
	assert.Equal(t, "sections/education.tex", cfg.Document.Outputs.Education)
	assert.Empty(t, cfg.Document.Sources.Publications)

	assert.Equal(t, types.BackendDrive, cfg.Publish.Backend)
	assert.Equal(t, "output/generated_resume.pdf", cfg.Publish.LocalPath)
	assert.Equal(t, "Resume.pdf", cfg.Publish.RemoteName)
	assert.Equal(t, "application/pdf", cfg.Publish.MimeType)
	assert.Equal(t, "CV", cfg.Publish.SheetName)
	assert.Equal(t, "A2", cfg.Publish.Cell)
	assert.False(t, cfg.Publish.PermanentDelete)

	assert.Equal(t, "credentials.json", cfg.Auth.CredentialsFile)
	assert.Len(t, cfg.Auth.Scopes, 2)
	assert.Equal(t, 20, cfg.Ledger.MaxResults)
	assert.Equal(t, "main.tex", cfg.Compile.MainFile)
}

func TestLoadConfigFromYAML(t *testing.T) {
	v := newViper(t)
	require.NoError(t, v.ReadConfig(strings.NewReader(`
document:
  timeout: 5s
  max_retries: 2
  include_links: false
  merge_mode: patents_then_pubs
  author_names: ["A. Author", "Author, A."]
  sources:
    education: https://example.com/edu.csv
publish:
  backend: s3
  permanent_delete: true
  s3:
    bucket: cv-bucket
    prefix: cv/
`)))

	cfg, err := loadConfig(v, nil)
	require.NoError(t, err)

	assert.Equal(t, 5*time.Second, cfg.Document.Timeout)
	assert.Equal(t, 2, cfg.Document.MaxRetries)
	assert.False(t, cfg.Document.IncludeLinks)
	assert.Equal(t, types.PatentsThenPubs, cfg.Document.MergeMode)
	assert.Equal(t, []string{"A. Author", "Author, A."}, cfg.Document.AuthorNames)
	assert.Equal(t, "https://example.com/edu.csv", cfg.Document.Sources.Education)
	assert.Equal(t, "sections/education.tex", cfg.Document.Outputs.Education, "unset keys keep their defaults")

	assert.Equal(t, types.BackendS3, cfg.Publish.Backend)
	assert.True(t, cfg.Publish.PermanentDelete)
	assert.Equal(t, "cv-bucket", cfg.Publish.S3.Bucket)
}

func TestLoadConfigEnvironmentOverride(t *testing.T) {
	t.Setenv("RESUME_SYNC_PUBLISH_REMOTE_NAME", "CV.pdf")
	t.Setenv("RESUME_SYNC_DOCUMENT_TIMEOUT", "45s")

	v := newViper(t)
	v.SetEnvPrefix("RESUME_SYNC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg, err := loadConfig(v, nil)
	require.NoError(t, err)
	assert.Equal(t, "CV.pdf", cfg.Publish.RemoteName)
	assert.Equal(t, 45*time.Second, cfg.Document.Timeout)
}

func TestLoadConfigRejectsUnknownMergeMode(t *testing.T) {
	v := newViper(t)
	v.Set("document.merge_mode", "alphabetical")

	_, err := loadConfig(v, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "merge_mode")
}

func TestLoadConfigAppliesSecrets(t *testing.T) {
	cfg, err := loadConfig(newViper(t), map[string]string{
		secrets.GoogleCredentials: "/secure/client.json",
		secrets.GoogleToken:       "/secure/token.json",
	})
	require.NoError(t, err)
	assert.Equal(t, "/secure/client.json", cfg.Auth.CredentialsFile)
	assert.Equal(t, "/secure/token.json", cfg.Auth.TokenFile)
}

func TestExampleConfigLoads(t *testing.T) {
	f, err := os.Open("../../resume-sync.example.yaml")
	require.NoError(t, err)
	defer f.Close()

	v := newViper(t)
	require.NoError(t, v.ReadConfig(f))

	cfg, err := loadConfig(v, nil)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(cfg.Document.Sources.Publications, "PASTE_"),
		"example sources stay placeholders so build skips them")
	assert.Equal(t, types.BackendDrive, cfg.Publish.Backend)
}
