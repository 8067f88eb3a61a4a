// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout (default 30s).
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "resume-sync/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`

	// MaxRetries is the number of extra attempts made after an HTTP 429.
	// Zero means a single attempt: a failed fetch aborts the run.
	MaxRetries int `json:"max_retries" yaml:"max_retries" mapstructure:"max_retries"`
}

// MergeMode orders publications and patents inside the shared fragment.
type MergeMode string

const (
	PubsThenPatents MergeMode = "pubs_then_patents"
	PatentsThenPubs MergeMode = "patents_then_pubs"
)

// SectionSources holds one published CSV locator per section. An empty
// locator, or one still carrying the "PASTE_" placeholder prefix, skips the
// section.
type SectionSources struct {
	Publications string `json:"publications" yaml:"publications" mapstructure:"publications"`
	Patents      string `json:"patents" yaml:"patents" mapstructure:"patents"`
	Achievements string `json:"achievements" yaml:"achievements" mapstructure:"achievements"`
	Education    string `json:"education" yaml:"education" mapstructure:"education"`
	Research     string `json:"research" yaml:"research" mapstructure:"research"`
	Experience   string `json:"experience" yaml:"experience" mapstructure:"experience"`
	Skills       string `json:"skills" yaml:"skills" mapstructure:"skills"`
}

// SectionOutputs holds the fragment path written for each section. Patents
// share the publications fragment.
type SectionOutputs struct {
	Publications string `json:"publications" yaml:"publications" mapstructure:"publications"`
	Achievements string `json:"achievements" yaml:"achievements" mapstructure:"achievements"`
	Education    string `json:"education" yaml:"education" mapstructure:"education"`
	Research     string `json:"research" yaml:"research" mapstructure:"research"`
	Experience   string `json:"experience" yaml:"experience" mapstructure:"experience"`
	Skills       string `json:"skills" yaml:"skills" mapstructure:"skills"`
}

// DocumentConfig holds settings for the document assembly pipeline.
type DocumentConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// AuthorNames lists the spellings of the author's own name that are
	// set in bold wherever they appear in author lists.
	AuthorNames []string `json:"author_names" yaml:"author_names" mapstructure:"author_names"`

	// IncludeLinks appends a link to each publication that has one.
	IncludeLinks bool `json:"include_links" yaml:"include_links" mapstructure:"include_links"`

	// MergeMode selects whether publications or patents come first.
	MergeMode MergeMode `json:"merge_mode" yaml:"merge_mode" mapstructure:"merge_mode"`

	Sources SectionSources `json:"sources" yaml:"sources" mapstructure:"sources"`
	Outputs SectionOutputs `json:"outputs" yaml:"outputs" mapstructure:"outputs"`
}

// StorageBackend identifies the remote artifact store.
type StorageBackend string

const (
	BackendDrive StorageBackend = "drive"
	BackendS3    StorageBackend = "s3"
)

// S3Config holds settings for the S3 artifact store.
type S3Config struct {
	Region string `json:"region" yaml:"region" mapstructure:"region"`
	Bucket string `json:"bucket" yaml:"bucket" mapstructure:"bucket"`
	Prefix string `json:"prefix" yaml:"prefix" mapstructure:"prefix"`

	// Endpoint overrides the service endpoint (S3-compatible stores).
	// Path-style addressing is used when set.
	Endpoint string `json:"endpoint,omitempty" yaml:"endpoint,omitempty" mapstructure:"endpoint"`
}

// PublishConfig holds settings for the artifact publication pipeline.
type PublishConfig struct {
	Backend StorageBackend `json:"backend" yaml:"backend" mapstructure:"backend"`

	// LocalPath is the compiled artifact uploaded on each run.
	LocalPath string `json:"local_path" yaml:"local_path" mapstructure:"local_path"`

	// RemoteName is the fixed name the artifact is stored under. Older
	// objects sharing this name are removed after a successful upload.
	RemoteName string `json:"remote_name" yaml:"remote_name" mapstructure:"remote_name"`

	// MimeType is sent with the upload (default application/pdf).
	MimeType string `json:"mime_type" yaml:"mime_type" mapstructure:"mime_type"`

	// PermanentDelete hard-deletes stale copies instead of trashing them.
	PermanentDelete bool `json:"permanent_delete" yaml:"permanent_delete" mapstructure:"permanent_delete"`

	// SpreadsheetID, SheetName and Cell locate the tracking cell that
	// receives the new artifact identifier. An empty SpreadsheetID skips
	// the record step.
	SpreadsheetID string `json:"spreadsheet_id" yaml:"spreadsheet_id" mapstructure:"spreadsheet_id"`
	SheetName     string `json:"sheet_name" yaml:"sheet_name" mapstructure:"sheet_name"`
	Cell          string `json:"cell" yaml:"cell" mapstructure:"cell"`

	S3 S3Config `json:"s3" yaml:"s3" mapstructure:"s3"`
}

// AuthConfig holds the Google OAuth client and token cache locations.
type AuthConfig struct {
	// CredentialsFile is the OAuth client secret downloaded from the
	// Google Cloud console.
	CredentialsFile string `json:"credentials_file" yaml:"credentials_file" mapstructure:"credentials_file"`

	// TokenFile caches the reusable credential between runs.
	TokenFile string `json:"token_file" yaml:"token_file" mapstructure:"token_file"`

	Scopes []string `json:"scopes" yaml:"scopes" mapstructure:"scopes"`
}

// LedgerConfig holds settings for the local run history database.
type LedgerConfig struct {
	Path     string `json:"path" yaml:"path" mapstructure:"path"`
	Disabled bool   `json:"disabled" yaml:"disabled" mapstructure:"disabled"`

	// MaxResults is the default number of runs listed by history (default 20).
	MaxResults int `json:"max_results" yaml:"max_results" mapstructure:"max_results"`
}

// CompileConfig holds settings for delegating TeX compilation to a container.
type CompileConfig struct {
	Image     string `json:"image" yaml:"image" mapstructure:"image"`
	MainFile  string `json:"main_file" yaml:"main_file" mapstructure:"main_file"`
	WorkDir   string `json:"work_dir" yaml:"work_dir" mapstructure:"work_dir"`
	OutputDir string `json:"output_dir" yaml:"output_dir" mapstructure:"output_dir"`
}

// Config groups all settings. It is built once at startup and passed into
// each pipeline.
type Config struct {
	Document DocumentConfig `json:"document" yaml:"document" mapstructure:"document"`
	Publish  PublishConfig  `json:"publish" yaml:"publish" mapstructure:"publish"`
	Auth     AuthConfig     `json:"auth" yaml:"auth" mapstructure:"auth"`
	Ledger   LedgerConfig   `json:"ledger" yaml:"ledger" mapstructure:"ledger"`
	Compile  CompileConfig  `json:"compile" yaml:"compile" mapstructure:"compile"`
}
