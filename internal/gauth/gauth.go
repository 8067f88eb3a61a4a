// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package gauth produces an HTTP client authorized against Google APIs. It
// reuses a cached token when possible, refreshes it when expired, and falls
// back to a one-time browser consent flow when no usable token exists. Every
// new or refreshed token is written back to the cache.
package gauth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/pdiddy/resume-sync/pkg/types"
)

// LoadConfig reads the OAuth client secret file downloaded from the Google
// Cloud console.
func LoadConfig(cfg types.AuthConfig) (*oauth2.Config, error) {
	data, err := os.ReadFile(cfg.CredentialsFile)
	if err != nil {
		return nil, fmt.Errorf("reading client secret %s: %w", cfg.CredentialsFile, err)
	}
	conf, err := google.ConfigFromJSON(data, cfg.Scopes...)
	if err != nil {
		return nil, fmt.Errorf("parsing client secret %s: %w", cfg.CredentialsFile, err)
	}
	return conf, nil
}

// LoadToken reads a cached token. A missing file returns an error wrapping
// os.ErrNotExist.
func LoadToken(path string) (*oauth2.Token, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var tok oauth2.Token
	if err := json.Unmarshal(data, &tok); err != nil {
		return nil, fmt.Errorf("parsing token %s: %w", path, err)
	}
	return &tok, nil
}

// SaveToken writes tok to path with owner-only permissions, replacing any
// previous token atomically.
func SaveToken(path string, tok *oauth2.Token) error {
	data, err := json.MarshalIndent(tok, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding token: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, ".token-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	_, writeErr := tmp.Write(data)
	closeErr := tmp.Close()
	if writeErr != nil || closeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("writing token: %w", errors.Join(writeErr, closeErr))
	}
	if err := os.Chmod(tmpPath, 0o600); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("setting permissions: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}

// Client returns an HTTP client authorized for cfg.Scopes. Progress and
// warnings go to w; the consent URL is printed there when needed.
func Client(ctx context.Context, cfg types.AuthConfig, w io.Writer) (*http.Client, error) {
	conf, err := LoadConfig(cfg)
	if err != nil {
		return nil, err
	}
	return clientFor(ctx, conf, cfg.TokenFile, &Flow{Out: w}, w)
}

func clientFor(ctx context.Context, conf *oauth2.Config, tokenFile string, flow *Flow, w io.Writer) (*http.Client, error) {
	tok, err := LoadToken(tokenFile)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			fmt.Fprintf(w, "  warning: ignoring cached token: %v\n", err)
		}
		tok = nil
	}

	cached := ""
	if tok != nil {
		cached = tok.AccessToken
		if !tok.Valid() && tok.RefreshToken == "" {
			tok = nil
		}
	}

	// Refresh now so a revoked refresh token falls back to consent.
	if tok != nil {
		fresh, err := conf.TokenSource(ctx, tok).Token()
		if err != nil {
			fmt.Fprintf(w, "  warning: refreshing cached token failed: %v\n", err)
			tok = nil
		} else {
			tok = fresh
		}
	}

	if tok == nil {
		tok, err = flow.Run(ctx, conf)
		if err != nil {
			return nil, fmt.Errorf("authorizing: %w", err)
		}
		cached = ""
	}

	src := &savingSource{base: conf.TokenSource(ctx, tok), path: tokenFile, last: cached, warn: w}
	if _, err := src.Token(); err != nil {
		return nil, fmt.Errorf("obtaining token: %w", err)
	}
	return oauth2.NewClient(ctx, src), nil
}

// savingSource persists every token whose access token differs from the last
// one written.
type savingSource struct {
	base oauth2.TokenSource
	path string
	warn io.Writer

	mu   sync.Mutex
	last string
}

func (s *savingSource) Token() (*oauth2.Token, error) {
	tok, err := s.base.Token()
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if tok.AccessToken != s.last {
		if err := SaveToken(s.path, tok); err != nil {
			fmt.Fprintf(s.warn, "  warning: caching token: %v\n", err)
		} else {
			s.last = tok.AccessToken
		}
	}
	return tok, nil
}
