// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads credentials from a directory of plain-text files.
// Each file in the directory represents one secret: the filename is the key name and the
// file contents (trimmed) are the value.
//
// Supported key files: google-credentials, google-token (paths to the OAuth client
// secret and cached token), aws-access-key-id, aws-secret-access-key.
package secrets

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/resume-sync/pkg/types"
)

// Key names recognized by Apply.
const (
	GoogleCredentials  = "google-credentials"
	GoogleToken        = "google-token"
	AWSAccessKeyID     = "aws-access-key-id"
	AWSSecretAccessKey = "aws-secret-access-key"
)

// Load reads all files in dir and returns a map of filename to trimmed contents.
// A missing directory or missing files are not errors; Load returns an empty map.
// Unreadable files produce a warning on stderr but do not abort.
func Load(dir string) (map[string]string, error) {
	return load(dir, os.Stderr)
}

func load(dir string, warn io.Writer) (map[string]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	secrets := make(map[string]string)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			fmt.Fprintf(warn, "warning: could not read secret %s: %v\n", name, err)
			continue
		}

		value := strings.TrimSpace(string(data))
		if value != "" {
			secrets[name] = value
		}
	}

	return secrets, nil
}

// Apply overrides the OAuth file locations in cfg with any paths found in
// secrets. Secrets take precedence over the config file.
func Apply(secrets map[string]string, cfg *types.AuthConfig) {
	if v := secrets[GoogleCredentials]; v != "" {
		cfg.CredentialsFile = v
	}
	if v := secrets[GoogleToken]; v != "" {
		cfg.TokenFile = v
	}
}

// AWSKeys returns the static AWS key pair, or empty strings when either half
// is missing.
func AWSKeys(secrets map[string]string) (id, secret string) {
	id, secret = secrets[AWSAccessKeyID], secrets[AWSSecretAccessKey]
	if id == "" || secret == "" {
		return "", ""
	}
	return id, secret
}
