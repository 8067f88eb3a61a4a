// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package publish

import (
	"context"
	"fmt"
	"net/http"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// SheetsRecorder writes the tracking cell through the Sheets API.
type SheetsRecorder struct {
	srv *sheets.Service
}

// NewSheetsRecorder builds a recorder over an authorized HTTP client.
func NewSheetsRecorder(ctx context.Context, client *http.Client, opts ...option.ClientOption) (*SheetsRecorder, error) {
	opts = append([]option.ClientOption{option.WithHTTPClient(client)}, opts...)
	srv, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating sheets service: %w", err)
	}
	return &SheetsRecorder{srv: srv}, nil
}

// UpdateCell overwrites rng with value. RAW input keeps identifiers from
// being reinterpreted as numbers or formulas.
func (s *SheetsRecorder) UpdateCell(ctx context.Context, spreadsheetID, rng, value string) (int64, error) {
	body := &sheets.ValueRange{Values: [][]interface{}{{value}}}
	resp, err := s.srv.Spreadsheets.Values.Update(spreadsheetID, rng, body).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		return 0, err
	}
	return resp.UpdatedCells, nil
}

var _ CellRecorder = (*SheetsRecorder)(nil)
