// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package tabular

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/resume-sync/pkg/types"
)

func TestRowLookup(t *testing.T) {
	tests := []struct {
		name    string
		row     Row
		aliases []string
		want    string
	}{
		{"first alias wins", Row{"title": "lower", "Title": "upper"}, []string{"title", "Title"}, "lower"},
		{"falls back to second alias", Row{"Title": "Upper"}, []string{"title", "Title"}, "Upper"},
		{"no alias present", Row{"Venue": "ICRA"}, []string{"title", "Title"}, ""},
		{"empty value skipped", Row{"title": "  ", "Title": "Real"}, []string{"title", "Title"}, "Real"},
		{"value trimmed", Row{"Title": "  Padded \n"}, []string{"Title"}, "Padded"},
		{"values never merged", Row{"link": "a", "URL": "b"}, []string{"link", "URL", "Link"}, "a"},
		{"nil row", nil, []string{"title"}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.row.Lookup(tt.aliases...))
		})
	}
}

func TestTableHasColumn(t *testing.T) {
	table, err := ParseCSV(strings.NewReader("Institution,Tag\nMIT\n"))
	require.NoError(t, err)

	assert.True(t, table.HasColumn("tag", "Tag"))
	assert.False(t, table.HasColumn("tags"))
	_, inRow := table.Rows[0]["Tag"]
	assert.False(t, inRow, "short row omits the trailing column")
}

func TestParse(t *testing.T) {
	t.Run("strips BOM and keeps order", func(t *testing.T) {
		data := "\xEF\xBB\xBFTitle,Tag\nFirst,resume\nSecond,\nThird,resume\n"
		table, err := Parse([]byte(data))
		require.NoError(t, err)
		assert.Equal(t, []string{"Title", "Tag"}, table.Headers)
		require.Len(t, table.Rows, 3)
		assert.Equal(t, "First", table.Rows[0]["Title"])
		assert.Equal(t, "Second", table.Rows[1]["Title"])
		assert.Equal(t, "Third", table.Rows[2]["Title"])
	})

	t.Run("quoted multi-line cell", func(t *testing.T) {
		data := "Research Interest,tag\n\"line one\nline two\",resume\n"
		table, err := Parse([]byte(data))
		require.NoError(t, err)
		require.Len(t, table.Rows, 1)
		assert.Equal(t, "line one\nline two", table.Rows[0]["Research Interest"])
	})

	t.Run("short row omits trailing columns", func(t *testing.T) {
		table, err := Parse([]byte("a,b,c\n1\n"))
		require.NoError(t, err)
		require.Len(t, table.Rows, 1)
		_, hasB := table.Rows[0]["b"]
		assert.False(t, hasB)
		assert.Equal(t, "1", table.Rows[0]["a"])
	})

	t.Run("duplicates are kept", func(t *testing.T) {
		table, err := Parse([]byte("a\nx\nx\n"))
		require.NoError(t, err)
		assert.Len(t, table.Rows, 2)
	})

	t.Run("empty input", func(t *testing.T) {
		table, err := Parse(nil)
		require.NoError(t, err)
		assert.Empty(t, table.Headers)
		assert.Empty(t, table.Rows)
	})

	t.Run("header only", func(t *testing.T) {
		table, err := Parse([]byte("Title,Tag\n"))
		require.NoError(t, err)
		assert.Equal(t, []string{"Title", "Tag"}, table.Headers)
		assert.Empty(t, table.Rows)
	})

	t.Run("invalid UTF-8", func(t *testing.T) {
		_, err := Parse([]byte("a\n\xff\xfe\n"))
		assert.Error(t, err)
	})

	t.Run("malformed quoting", func(t *testing.T) {
		_, err := Parse([]byte("a,b\n\"unterminated,x\n"))
		assert.Error(t, err)
	})
}

func TestColumns(t *testing.T) {
	table, err := Parse([]byte("Languages,Tools\nGo,Git\nC++\n"))
	require.NoError(t, err)

	cols := table.Columns()
	require.Len(t, cols, 2)
	assert.Equal(t, "Languages", cols[0].Header)
	assert.Equal(t, []string{"Go", "C++"}, cols[0].Cells)
	assert.Equal(t, "Tools", cols[1].Header)
	assert.Equal(t, []string{"Git", ""}, cols[1].Cells)
}

func TestFetch(t *testing.T) {
	cfg := types.HTTPConfig{Timeout: 5 * time.Second, UserAgent: "resume-sync/test"}

	t.Run("success", func(t *testing.T) {
		var gotUA string
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotUA = r.Header.Get("User-Agent")
			w.Write([]byte("\xEF\xBB\xBFtitle,tag\nPaper,resume\n"))
		}))
		defer ts.Close()

		table, err := Fetch(context.Background(), ts.Client(), ts.URL, cfg)
		require.NoError(t, err)
		assert.Equal(t, "resume-sync/test", gotUA)
		require.Len(t, table.Rows, 1)
		assert.Equal(t, "Paper", table.Rows[0]["title"])
	})

	t.Run("non-success status", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer ts.Close()

		_, err := Fetch(context.Background(), ts.Client(), ts.URL, cfg)
		var fe *FetchError
		require.True(t, errors.As(err, &fe))
		assert.Equal(t, http.StatusNotFound, fe.Status)
		assert.Contains(t, err.Error(), "HTTP 404")
	})

	t.Run("undecodable body", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Write([]byte("a\n\xff\n"))
		}))
		defer ts.Close()

		_, err := Fetch(context.Background(), ts.Client(), ts.URL, cfg)
		var fe *FetchError
		require.True(t, errors.As(err, &fe))
		assert.Zero(t, fe.Status)
		assert.True(t, strings.Contains(err.Error(), "UTF-8"))
	})

	t.Run("connection failure", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
		url := ts.URL
		ts.Close()

		_, err := Fetch(context.Background(), http.DefaultClient, url, cfg)
		var fe *FetchError
		assert.True(t, errors.As(err, &fe))
	})
}

func TestHTTPFetcher(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("a\n1\n"))
	}))
	defer ts.Close()

	f := NewHTTPFetcher(types.HTTPConfig{Timeout: 30 * time.Second})
	assert.Equal(t, 30*time.Second, f.Client.Timeout)

	table, err := f.Fetch(context.Background(), ts.URL)
	require.NoError(t, err)
	assert.Len(t, table.Rows, 1)
}
