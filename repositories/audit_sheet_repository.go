package repositories

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/blogem/caseledger/models"
)

// SheetAuditHeader is the header row of the log sheet
var SheetAuditHeader = []string{"serial", "updatedBy", "updatedAt", "fieldName", "oldValue", "newValue", "id"}

// sheetAuditRepository keeps the audit trail in a secondary log sheet with
// columns serial, updatedBy, updatedAt, fieldName, oldValue, newValue, id
type sheetAuditRepository struct {
	store TabularStore
	sheet string
}

// NewSheetAuditRepository creates an audit repository appending to a log sheet
func NewSheetAuditRepository(store TabularStore, sheet string) AuditRepository {
	return &sheetAuditRepository{store: store, sheet: sheet}
}

// Append adds one row to the log sheet
func (r *sheetAuditRepository) Append(ctx context.Context, entry *models.AuditEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}

	row := []string{
		entry.RecordID,
		entry.UpdatedBy,
		models.FormatTimestamp(entry.UpdatedAt),
		entry.FieldName,
		models.ValueOrEmpty(entry.OldValue),
		models.ValueOrEmpty(entry.NewValue),
		entry.ID,
	}

	if err := r.store.AppendRow(ctx, r.sheet, row); err != nil {
		return fmt.Errorf("failed to append to %s: %w", r.sheet, err)
	}
	return nil
}

// ListByRecord returns a record's entries in sheet order
func (r *sheetAuditRepository) ListByRecord(ctx context.Context, recordID string) ([]models.AuditEntry, error) {
	all, err := r.readAll(ctx)
	if err != nil {
		return nil, err
	}

	entries := []models.AuditEntry{}
	for _, e := range all {
		if e.RecordID == recordID {
			entries = append(entries, e)
		}
	}
	return entries, nil
}

// ListAll returns every entry, newest first
func (r *sheetAuditRepository) ListAll(ctx context.Context) ([]models.AuditEntry, error) {
	entries, err := r.readAll(ctx)
	if err != nil {
		return nil, err
	}

	// rows are appended in order, so reversing first keeps entries of one
	// update newest first when their timestamps tie
	slices.Reverse(entries)
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].UpdatedAt.After(entries[j].UpdatedAt)
	})
	return entries, nil
}

// readAll parses the log sheet. A first row that does not hold a timestamp
// is treated as the header.
func (r *sheetAuditRepository) readAll(ctx context.Context) ([]models.AuditEntry, error) {
	rows, err := r.store.ReadAll(ctx, r.sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", r.sheet, err)
	}

	entries := []models.AuditEntry{}
	for i, row := range rows {
		if len(row) < 4 {
			continue
		}
		updatedAt, err := models.ParseTimestamp(strings.TrimSpace(cell(row, 2)))
		if err != nil {
			if i == 0 {
				continue
			}
			return nil, fmt.Errorf("invalid timestamp in %s row %d: %w", r.sheet, i+1, err)
		}

		entries = append(entries, models.AuditEntry{
			ID:        cell(row, 6),
			RecordID:  cell(row, 0),
			UpdatedBy: cell(row, 1),
			UpdatedAt: updatedAt,
			FieldName: cell(row, 3),
			OldValue:  models.NormalizeValue(cell(row, 4)),
			NewValue:  models.NormalizeValue(cell(row, 5)),
		})
	}

	return entries, nil
}

// cell returns row[idx] or empty when the row is short
func cell(row []string, idx int) string {
	if idx < len(row) {
		return row[idx]
	}
	return ""
}
