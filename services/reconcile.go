package services

import (
	"strings"
	"time"

	"github.com/blogem/caseledger/models"
)

// Reconcile turns a caller's request into the values that are actually
// persisted. It has no side effects.
//
// Admins overwrite every field they send, an empty value clears it.
// Everyone else may only touch the editable columns, and only by adding:
// a non-blank value is appended below the existing text on a new line,
// blank values change nothing.
func Reconcile(schema *models.Schema, current models.Record, req models.UpdateRequest, actor models.Actor, now time.Time) models.EffectiveUpdate {
	req = req.Sanitize(schema)

	effective := models.EffectiveUpdate{
		Values:           make(map[string]string, len(req)),
		LastModifiedBy:   actor.Username,
		LastModifiedDate: now,
	}

	if actor.Role.IsPrivileged() {
		for field, value := range req {
			effective.Values[field] = value
		}
		return effective
	}

	for field, value := range req {
		if !schema.IsEditable(field) {
			continue
		}
		if strings.TrimSpace(value) == "" {
			continue
		}

		old := current.Get(field)
		if strings.TrimSpace(old) != "" {
			effective.Values[field] = old + "\n" + value
		} else {
			effective.Values[field] = value
		}
	}

	return effective
}
