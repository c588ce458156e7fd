package repositories

import "context"

// TabularStore is the spreadsheet the records live in. Rows are addressed by
// position, 1-based with the header row excluded: position 1 is the first
// data row.
type TabularStore interface {
	// ReadAll returns every row of the sheet, header row first
	ReadAll(ctx context.Context, sheet string) ([][]string, error)

	// ReadKeys returns column A of the sheet, header row first
	ReadKeys(ctx context.Context, sheet string) ([]string, error)

	// WriteRow overwrites the row at position starting at column A
	WriteRow(ctx context.Context, sheet string, position int, values []string) error

	// AppendRow adds a row after the last non-empty row
	AppendRow(ctx context.Context, sheet string, values []string) error
}
