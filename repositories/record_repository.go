package repositories

import (
	"context"
	"fmt"
	"strconv"

	"github.com/blogem/caseledger/models"
)

// RecordRepository translates between sheet rows and records
type RecordRepository interface {
	List(ctx context.Context) (*models.RecordSet, error)
	Write(ctx context.Context, record models.Record) error
	ResolveRow(ctx context.Context, serial int) (int, error)
}

// sheetRecordRepository implements RecordRepository over a TabularStore
type sheetRecordRepository struct {
	store  TabularStore
	sheet  string
	schema *models.Schema
}

// NewRecordRepository creates a record repository for one sheet
func NewRecordRepository(store TabularStore, sheet string, schema *models.Schema) RecordRepository {
	return &sheetRecordRepository{store: store, sheet: sheet, schema: schema}
}

// List reads the whole sheet. Rows whose first cell is not a positive
// integer are skipped; when two rows share a serial the later row wins.
func (r *sheetRecordRepository) List(ctx context.Context) (*models.RecordSet, error) {
	rows, err := r.store.ReadAll(ctx, r.sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", r.sheet, err)
	}

	set := &models.RecordSet{}
	if len(rows) == 0 {
		return set, nil
	}

	set.Headers = append([]string(nil), rows[0]...)

	bySerial := make(map[int]int)
	for i, row := range rows[1:] {
		record, ok := r.parseRow(row, i+1)
		if !ok {
			continue
		}

		if idx, dup := bySerial[record.Serial]; dup {
			set.Records[idx] = record
			continue
		}
		bySerial[record.Serial] = len(set.Records)
		set.Records = append(set.Records, record)
	}

	return set, nil
}

// parseRow builds a record from one data row
func (r *sheetRecordRepository) parseRow(row []string, position int) (models.Record, bool) {
	if len(row) == 0 {
		return models.Record{}, false
	}

	serial, ok := models.ParseSerial(row[0])
	if !ok {
		return models.Record{}, false
	}

	record := models.Record{
		Serial:      serial,
		RowPosition: position,
		Values:      make(map[string]string),
	}

	for idx, cell := range row {
		if idx == 0 || cell == "" {
			continue
		}
		if col, mapped := r.schema.FieldAt(idx); mapped {
			record.Set(col.Field, cell)
			continue
		}
		if record.Unmapped == nil {
			record.Unmapped = make(map[int]string)
		}
		record.Unmapped[idx] = cell
	}

	return record, true
}

// Write serializes the full record and overwrites its row
func (r *sheetRecordRepository) Write(ctx context.Context, record models.Record) error {
	if record.RowPosition <= 0 {
		return fmt.Errorf("record %d has no row position", record.Serial)
	}

	row := r.serialize(record)
	if err := r.store.WriteRow(ctx, r.sheet, record.RowPosition, row); err != nil {
		return &models.PersistenceError{
			Op:  fmt.Sprintf("write record %d at row %d", record.Serial, record.RowPosition),
			Err: err,
		}
	}

	return nil
}

// serialize lays the record out in column order. Unmapped cells read from
// the sheet are written back where they were.
func (r *sheetRecordRepository) serialize(record models.Record) []string {
	width := r.schema.Width()
	for idx := range record.Unmapped {
		if idx+1 > width {
			width = idx + 1
		}
	}

	row := make([]string, width)
	for idx, cell := range record.Unmapped {
		row[idx] = cell
	}
	for _, col := range r.schema.Columns() {
		row[col.Index] = record.Get(col.Field)
	}
	row[0] = strconv.Itoa(record.Serial)

	return row
}

// ResolveRow finds the current row position of a serial by re-reading the
// key column. The last matching row wins, as in List.
func (r *sheetRecordRepository) ResolveRow(ctx context.Context, serial int) (int, error) {
	keys, err := r.store.ReadKeys(ctx, r.sheet)
	if err != nil {
		return 0, &models.PersistenceError{Op: "resolve row", Err: err}
	}

	position := 0
	for i := 1; i < len(keys); i++ {
		if s, ok := models.ParseSerial(keys[i]); ok && s == serial {
			position = i
		}
	}

	if position == 0 {
		return 0, fmt.Errorf("%w: serial %d", models.ErrStaleRow, serial)
	}
	return position, nil
}
