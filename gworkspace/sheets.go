package gworkspace

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/blogem/caseledger/models"
)

// SheetsStore is a TabularStore over one spreadsheet. Positions are data
// positions: the header is sheet row 1, position 1 is sheet row 2.
type SheetsStore struct {
	svc           *sheets.Service
	spreadsheetID string
}

// NewSheetsStore creates a store for spreadsheetID
func NewSheetsStore(ctx context.Context, creds *google.Credentials, spreadsheetID string) (*SheetsStore, error) {
	svc, err := sheets.NewService(ctx, option.WithCredentials(creds))
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets client: %w", err)
	}
	return NewSheetsStoreWithService(svc, spreadsheetID), nil
}

// NewSheetsStoreWithService creates a store from an existing client
func NewSheetsStoreWithService(svc *sheets.Service, spreadsheetID string) *SheetsStore {
	return &SheetsStore{svc: svc, spreadsheetID: spreadsheetID}
}

// ReadAll returns every row of the sheet, header first
func (s *SheetsStore) ReadAll(ctx context.Context, sheet string) ([][]string, error) {
	resp, err := s.svc.Spreadsheets.Values.Get(s.spreadsheetID, quoteSheet(sheet)).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("sheets get %s: %w", sheet, err)
	}
	return toRows(resp.Values), nil
}

// ReadKeys returns column A, header first
func (s *SheetsStore) ReadKeys(ctx context.Context, sheet string) ([]string, error) {
	resp, err := s.svc.Spreadsheets.Values.Get(s.spreadsheetID, quoteSheet(sheet)+"!A:A").Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("sheets get keys %s: %w", sheet, err)
	}

	keys := make([]string, len(resp.Values))
	for i, row := range resp.Values {
		if len(row) > 0 {
			keys[i] = fmt.Sprint(row[0])
		}
	}
	return keys, nil
}

// WriteRow overwrites the whole row at position
func (s *SheetsStore) WriteRow(ctx context.Context, sheet string, position int, values []string) error {
	if position <= 0 {
		return fmt.Errorf("invalid row position %d", position)
	}

	rng := rowRange(sheet, position+1, len(values))
	vr := &sheets.ValueRange{Values: [][]interface{}{toCells(values)}}

	_, err := s.svc.Spreadsheets.Values.Update(s.spreadsheetID, rng, vr).
		ValueInputOption("USER_ENTERED").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("sheets update %s: %w", rng, err)
	}
	return nil
}

// AppendRow adds a row after the last one. Values are stored as given so
// timestamps are not reformatted by the sheet.
func (s *SheetsStore) AppendRow(ctx context.Context, sheet string, values []string) error {
	vr := &sheets.ValueRange{Values: [][]interface{}{toCells(values)}}

	_, err := s.svc.Spreadsheets.Values.Append(s.spreadsheetID, quoteSheet(sheet)+"!A:A", vr).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("sheets append %s: %w", sheet, err)
	}
	return nil
}

func quoteSheet(sheet string) string {
	return "'" + strings.ReplaceAll(sheet, "'", "''") + "'"
}

// rowRange is the A1 range covering width cells of one sheet row
func rowRange(sheet string, row, width int) string {
	if width < 1 {
		width = 1
	}
	last := models.ColumnLetter(width - 1)
	return fmt.Sprintf("%s!A%d:%s%d", quoteSheet(sheet), row, last, row)
}

func toRows(values [][]interface{}) [][]string {
	rows := make([][]string, len(values))
	for i, row := range values {
		cells := make([]string, len(row))
		for j, v := range row {
			cells[j] = fmt.Sprint(v)
		}
		rows[i] = cells
	}
	return rows
}

func toCells(values []string) []interface{} {
	cells := make([]interface{}, len(values))
	for i, v := range values {
		cells[i] = v
	}
	return cells
}
