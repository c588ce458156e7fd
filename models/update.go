package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"time"
)

// UpdateRequest is a partial field -> new value map submitted by a caller.
// A JSON null is treated as an empty value.
type UpdateRequest map[string]string

// DecodeUpdateRequest parses a PATCH body. Anything other than an object of
// strings or nulls is a validation error.
func DecodeUpdateRequest(body []byte) (UpdateRequest, error) {
	var raw map[string]json.RawMessage
	dec := json.NewDecoder(bytes.NewReader(body))
	if err := dec.Decode(&raw); err != nil {
		return nil, ValidationErrors{{Field: "", Message: "body must be a JSON object"}}
	}
	if raw == nil {
		return nil, ValidationErrors{{Field: "", Message: "body must be a JSON object"}}
	}

	req := make(UpdateRequest, len(raw))
	var problems ValidationErrors
	for field, value := range raw {
		if bytes.Equal(bytes.TrimSpace(value), []byte("null")) {
			req[field] = ""
			continue
		}
		var s string
		if err := json.Unmarshal(value, &s); err != nil {
			problems = append(problems, ValidationError{
				Field:   field,
				Message: fmt.Sprintf("%s must be a string or null", field),
			})
			continue
		}
		req[field] = s
	}

	if problems.HasErrors() {
		sort.Slice(problems, func(i, j int) bool { return problems[i].Field < problems[j].Field })
		return nil, problems
	}
	return req, nil
}

// Sanitize drops fields the schema does not know and fields no request may
// touch (identity and modification metadata).
func (u UpdateRequest) Sanitize(schema *Schema) UpdateRequest {
	out := make(UpdateRequest, len(u))
	for field, value := range u {
		if !schema.IsKnown(field) || schema.IsImmutable(field) {
			continue
		}
		out[field] = value
	}
	return out
}

// Fields returns the request's field names in a stable order
func (u UpdateRequest) Fields() []string {
	fields := make([]string, 0, len(u))
	for f := range u {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fields
}

// EffectiveUpdate is the role-filtered, append-or-overwrite set of values
// that is actually persisted
type EffectiveUpdate struct {
	Values           map[string]string
	LastModifiedBy   string
	LastModifiedDate time.Time
}

// Fields returns the effective field names in a stable order
func (e EffectiveUpdate) Fields() []string {
	fields := make([]string, 0, len(e.Values))
	for f := range e.Values {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fields
}

// Apply merges the effective update into a copy of the record
func (e EffectiveUpdate) Apply(r Record) Record {
	out := r.Clone()
	for field, value := range e.Values {
		out.Set(field, value)
	}
	out.Set(FieldLastModifiedBy, e.LastModifiedBy)
	out.Set(FieldLastModifiedDate, FormatTimestamp(e.LastModifiedDate))
	return out
}
