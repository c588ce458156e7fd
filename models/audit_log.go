package models

import "time"

// AuditEntry records one field transition on one record. Entries are
// append-only: nothing updates or deletes them.
type AuditEntry struct {
	ID        string    `json:"id"`
	RecordID  string    `json:"recordId"`
	FieldName string    `json:"fieldName"`
	OldValue  *string   `json:"oldValue"`
	NewValue  *string   `json:"newValue"`
	UpdatedBy string    `json:"updatedBy"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NormalizeValue maps an empty cell to nil so "" and absent compare equal
func NormalizeValue(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}

// ValueOrEmpty dereferences a normalized value
func ValueOrEmpty(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
