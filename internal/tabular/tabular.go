// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package tabular fetches published spreadsheet exports and exposes them as
// ordered rows keyed by column header.
package tabular

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/pdiddy/resume-sync/internal/httputil"
	"github.com/pdiddy/resume-sync/pkg/types"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Row maps column header to cell value for one record. A header that the
// record does not reach (a short row) is absent from the map.
type Row map[string]string

// Lookup returns the trimmed value of the first alias present in r with a
// non-empty value, searching aliases in order. Values of later aliases are
// never consulted once one matches. It returns "" when no alias matches.
func (r Row) Lookup(aliases ...string) string {
	for _, a := range aliases {
		v, ok := r[a]
		if !ok {
			continue
		}
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

// Table is a parsed dataset: the header row and the data rows in source order.
type Table struct {
	Headers []string
	Rows    []Row
}

// Column is one header and every cell below it, in row order. Cells of rows
// too short to reach the column are reported as "".
type Column struct {
	Header string
	Cells  []string
}

// HasColumn reports whether any of the aliases is a header of t. Use it for
// sheet-level decisions: a short row lacks keys its sheet still has.
func (t *Table) HasColumn(aliases ...string) bool {
	return slices.ContainsFunc(t.Headers, func(h string) bool {
		return slices.Contains(aliases, h)
	})
}

// Columns returns the table transposed into header-ordered columns.
func (t *Table) Columns() []Column {
	cols := make([]Column, len(t.Headers))
	for i, h := range t.Headers {
		cols[i] = Column{Header: h, Cells: make([]string, len(t.Rows))}
		for j, row := range t.Rows {
			cols[i].Cells[j] = row[h]
		}
	}
	return cols
}

// FetchError reports a dataset that could not be retrieved or decoded.
type FetchError struct {
	URL    string
	Status int
	Err    error
}

func (e *FetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("fetching %s: HTTP %d", e.URL, e.Status)
	}
	return fmt.Sprintf("fetching %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Fetch retrieves the CSV export at url and parses it. Any non-2xx status or
// undecodable body is returned as a *FetchError.
func Fetch(ctx context.Context, client *http.Client, url string, cfg types.HTTPConfig) (*Table, error) {
	resp, err := httputil.Get(ctx, client, url, cfg.UserAgent, "text/csv", cfg.MaxRetries)
	if err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &FetchError{URL: url, Status: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &FetchError{URL: url, Err: fmt.Errorf("reading body: %w", err)}
	}

	table, err := Parse(body)
	if err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}
	return table, nil
}

// Fetcher retrieves a table by locator.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*Table, error)
}

// HTTPFetcher is the production Fetcher.
type HTTPFetcher struct {
	Client *http.Client
	Config types.HTTPConfig
}

// NewHTTPFetcher returns a fetcher whose client applies cfg.Timeout.
func NewHTTPFetcher(cfg types.HTTPConfig) *HTTPFetcher {
	return &HTTPFetcher{
		Client: &http.Client{Timeout: cfg.Timeout},
		Config: cfg,
	}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (*Table, error) {
	return Fetch(ctx, f.Client, url, f.Config)
}

// Parse decodes CSV text with an optional leading UTF-8 byte-order mark.
// The first record is the header row. An empty input yields an empty table.
func Parse(data []byte) (*Table, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	if !utf8.Valid(data) {
		return nil, errors.New("body is not valid UTF-8")
	}
	return ParseCSV(bytes.NewReader(data))
}

// ParseCSV reads CSV records from r. Rows may be ragged: missing trailing
// cells leave their headers absent from the row and surplus cells are
// dropped.
func ParseCSV(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	headers, err := cr.Read()
	if err == io.EOF {
		return &Table{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("parsing header: %w", err)
	}

	t := &Table{Headers: headers}
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parsing CSV: %w", err)
		}
		row := make(Row, len(headers))
		for i, h := range headers {
			if i >= len(record) {
				break
			}
			row[h] = record[i]
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}
