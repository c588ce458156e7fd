package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/blogem/caseledger/models"
)

var (
	testAdmin = models.Actor{UserID: "1", Username: "admin", Role: models.RoleAdmin}
	testUser  = models.Actor{UserID: "2", Username: "user", Role: models.RoleUser}
)

func record71() models.Record {
	return models.Record{
		Serial:      71,
		RowPosition: 2,
		Values: map[string]string{
			"company":   "فاليو",
			"ruling":    "سنه+ك500",
			"createdBy": "sheet",
		},
	}
}

func TestReconcile(t *testing.T) {
	now := time.Date(2025, 8, 1, 10, 0, 0, 0, time.UTC)
	schema := models.DefaultSchema()

	tests := []struct {
		name     string
		setup    func(r *models.Record)
		actor    models.Actor
		req      models.UpdateRequest
		expected map[string]string
	}{
		{
			name:     "user appends below existing value",
			actor:    testUser,
			req:      models.UpdateRequest{"ruling": "تم الطعن"},
			expected: map[string]string{"ruling": "سنه+ك500\nتم الطعن"},
		},
		{
			name:     "user sets empty editable field",
			actor:    testUser,
			req:      models.UpdateRequest{"notes": "first note"},
			expected: map[string]string{"notes": "first note"},
		},
		{
			name:     "user blank value leaves field untouched",
			actor:    testUser,
			req:      models.UpdateRequest{"ruling": "   ", "notes": ""},
			expected: map[string]string{},
		},
		{
			name:     "user fields outside allowlist are dropped",
			actor:    testUser,
			req:      models.UpdateRequest{"company": "other", "clientName": "x", "driveFolderId": "f1", "ruling": "r"},
			expected: map[string]string{"ruling": "سنه+ك500\nr"},
		},
		{
			name:     "whitespace-only old value is replaced, not appended to",
			setup:    func(r *models.Record) { r.Values["ruling"] = "  " },
			actor:    testUser,
			req:      models.UpdateRequest{"ruling": "new"},
			expected: map[string]string{"ruling": "new"},
		},
		{
			name:     "admin overwrites verbatim",
			actor:    testAdmin,
			req:      models.UpdateRequest{"ruling": "تم الطعن", "company": "", "clientName": "  spaced  "},
			expected: map[string]string{"ruling": "تم الطعن", "company": "", "clientName": "  spaced  "},
		},
		{
			name:     "identity and metadata fields are stripped for admins",
			actor:    testAdmin,
			req:      models.UpdateRequest{"serial": "999", "createdBy": "x", "lastModifiedBy": "y", "lastModifiedDate": "z", "id": "1", "rowPosition": "4"},
			expected: map[string]string{},
		},
		{
			name:     "unknown fields are stripped",
			actor:    testAdmin,
			req:      models.UpdateRequest{"notAColumn": "x"},
			expected: map[string]string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			current := record71()
			if tt.setup != nil {
				tt.setup(&current)
			}

			effective := Reconcile(schema, current, tt.req, tt.actor, now)

			assert.Equal(t, tt.expected, effective.Values)
			assert.Equal(t, tt.actor.Username, effective.LastModifiedBy)
			assert.Equal(t, now, effective.LastModifiedDate)
		})
	}
}

func TestReconcile_DoesNotMutateInputs(t *testing.T) {
	schema := models.DefaultSchema()
	current := record71()
	req := models.UpdateRequest{"ruling": "x", "serial": "5"}

	Reconcile(schema, current, req, testUser, time.Now())

	assert.Equal(t, "سنه+ك500", current.Get("ruling"))
	assert.Equal(t, "5", req["serial"])
}

func TestDiff(t *testing.T) {
	now := time.Date(2025, 8, 1, 10, 0, 0, 0, time.UTC)
	current := record71()

	effective := models.EffectiveUpdate{
		Values: map[string]string{
			"ruling":  "سنه+ك500\nتم الطعن", // changed
			"company": "فاليو",              // unchanged
			"notes":   "",                   // empty -> empty
			"report":  "new",                // empty -> value
		},
		LastModifiedBy:   "user",
		LastModifiedDate: now,
	}
	current.Values["clientName"] = "old"
	effective.Values["clientName"] = "" // value -> empty

	entries := Diff(current, effective, testUser, now)

	assert.Len(t, entries, 3)

	byField := make(map[string]models.AuditEntry)
	for _, e := range entries {
		byField[e.FieldName] = e
		assert.Equal(t, "71", e.RecordID)
		assert.Equal(t, "user", e.UpdatedBy)
		assert.Equal(t, now, e.UpdatedAt)
	}

	assert.Equal(t, "سنه+ك500", *byField["ruling"].OldValue)
	assert.Equal(t, "سنه+ك500\nتم الطعن", *byField["ruling"].NewValue)

	assert.Nil(t, byField["report"].OldValue)
	assert.Equal(t, "new", *byField["report"].NewValue)

	assert.Equal(t, "old", *byField["clientName"].OldValue)
	assert.Nil(t, byField["clientName"].NewValue)

	assert.NotContains(t, byField, "company")
	assert.NotContains(t, byField, "notes")
	assert.NotContains(t, byField, models.FieldLastModifiedBy)
}
