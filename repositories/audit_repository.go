package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/blogem/caseledger/models"
)

// AuditRepository handles audit log persistence. Entries are only ever appended.
type AuditRepository interface {
	Append(ctx context.Context, entry *models.AuditEntry) error
	ListByRecord(ctx context.Context, recordID string) ([]models.AuditEntry, error)
	ListAll(ctx context.Context) ([]models.AuditEntry, error)
}

type sqliteAuditRepository struct {
	db *sql.DB
}

// NewAuditRepository creates a new sqlite audit repository
func NewAuditRepository(db *sql.DB) AuditRepository {
	return &sqliteAuditRepository{db: db}
}

// Append inserts a new audit log entry
func (r *sqliteAuditRepository) Append(ctx context.Context, entry *models.AuditEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}

	query := `
		INSERT INTO record_updates (id, record_id, field_name, old_value, new_value, updated_by, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		entry.ID,
		entry.RecordID,
		entry.FieldName,
		entry.OldValue,
		entry.NewValue,
		entry.UpdatedBy,
		entry.UpdatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to append audit entry: %w", err)
	}

	return nil
}

// ListByRecord returns a record's entries in the order they were written
func (r *sqliteAuditRepository) ListByRecord(ctx context.Context, recordID string) ([]models.AuditEntry, error) {
	query := `
		SELECT id, record_id, field_name, old_value, new_value, updated_by, updated_at
		FROM record_updates
		WHERE record_id = ?
		ORDER BY seq ASC
	`

	return r.query(ctx, query, recordID)
}

// ListAll returns every entry, newest first
func (r *sqliteAuditRepository) ListAll(ctx context.Context) ([]models.AuditEntry, error) {
	query := `
		SELECT id, record_id, field_name, old_value, new_value, updated_by, updated_at
		FROM record_updates
		ORDER BY updated_at DESC, seq DESC
	`

	return r.query(ctx, query)
}

func (r *sqliteAuditRepository) query(ctx context.Context, query string, args ...interface{}) ([]models.AuditEntry, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit entries: %w", err)
	}
	defer rows.Close()

	entries := []models.AuditEntry{}
	for rows.Next() {
		var entry models.AuditEntry
		var oldValue, newValue sql.NullString

		err := rows.Scan(
			&entry.ID,
			&entry.RecordID,
			&entry.FieldName,
			&oldValue,
			&newValue,
			&entry.UpdatedBy,
			&entry.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan audit entry: %w", err)
		}

		// Convert NULL values to nil
		if oldValue.Valid {
			entry.OldValue = &oldValue.String
		}
		if newValue.Valid {
			entry.NewValue = &newValue.String
		}

		entries = append(entries, entry)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating audit entries: %w", err)
	}

	return entries, nil
}
