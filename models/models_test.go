package models

import (
	"errors"
	"strings"
	"testing"
	"time"
)

// Test the embedded column table
func TestDefaultSchema(t *testing.T) {
	s := DefaultSchema()

	col, ok := s.Lookup(FieldSerial)
	if !ok || col.Index != 0 || col.Kind != KindIdentity {
		t.Fatalf("serial must be the identity column A, got %+v", col)
	}

	if !s.IsEditable("ruling") {
		t.Errorf("Expected ruling to be editable")
	}
	if s.IsEditable("company") {
		t.Errorf("Expected company not to be editable")
	}
	for _, f := range []string{FieldSerial, FieldLastModifiedBy, FieldLastModifiedDate} {
		if !s.IsImmutable(f) {
			t.Errorf("Expected %s to be immutable", f)
		}
	}

	// column F is deliberately unmapped in the real sheet
	if _, ok := s.FieldAt(5); ok {
		t.Errorf("Expected column F to be unmapped")
	}

	prev := -1
	for _, c := range s.Columns() {
		if c.Index <= prev {
			t.Fatalf("Columns not ordered: %s after index %d", c.Column, prev)
		}
		prev = c.Index
	}
	if s.Width() != prev+1 {
		t.Errorf("Expected width %d, got %d", prev+1, s.Width())
	}
}

// Test column table validation
func TestNewSchemaValidation(t *testing.T) {
	base := []ColumnSpec{
		{Field: FieldSerial, Column: "A", Kind: KindIdentity},
		{Field: FieldCreatedBy, Column: "B", Kind: KindSystem},
		{Field: FieldLastModifiedBy, Column: "C", Kind: KindSystem},
		{Field: FieldLastModifiedDate, Column: "D", Kind: KindSystem},
	}

	if _, err := NewSchema(base); err != nil {
		t.Fatalf("Expected base table to be valid, got %v", err)
	}

	tests := []struct {
		name  string
		extra []ColumnSpec
		want  string
	}{
		{"duplicate field", []ColumnSpec{{Field: FieldCreatedBy, Column: "E"}}, "mapped twice"},
		{"shared column", []ColumnSpec{{Field: "ruling", Column: "B"}}, "is shared by"},
		{"bad letter", []ColumnSpec{{Field: "ruling", Column: "A1"}}, "invalid column letter"},
		{"unknown kind", []ColumnSpec{{Field: "ruling", Column: "E", Kind: "magic"}}, "unknown kind"},
		{"editable system", []ColumnSpec{{Field: "folder", Column: "E", Kind: KindSystem, Editable: true}}, "cannot be editable"},
		{"no field", []ColumnSpec{{Column: "E"}}, "has no field name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cols := append(append([]ColumnSpec{}, base...), tt.extra...)
			_, err := NewSchema(cols)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Expected error containing %q, got %v", tt.want, err)
			}
		})
	}

	if _, err := NewSchema(base[1:]); err == nil || !strings.Contains(err.Error(), "required field serial") {
		t.Errorf("Expected missing serial to be rejected, got %v", err)
	}
}

// Test A1 column letter conversion
func TestColumnLetters(t *testing.T) {
	cases := map[string]int{"A": 0, "F": 5, "Z": 25, "AA": 26, "AW": 48, "CL": 89}
	for letters, idx := range cases {
		got, err := ColumnIndex(letters)
		if err != nil || got != idx {
			t.Errorf("ColumnIndex(%s) = %d, %v; want %d", letters, got, err, idx)
		}
		if ColumnLetter(idx) != letters {
			t.Errorf("ColumnLetter(%d) = %s; want %s", idx, ColumnLetter(idx), letters)
		}
	}

	if _, err := ColumnIndex(""); err == nil {
		t.Errorf("Expected empty letter to fail")
	}
}

// Test serial parsing for record ids
func TestParseSerial(t *testing.T) {
	valid := map[string]int{"71": 71, " 5 ": 5}
	for in, want := range valid {
		if got, ok := ParseSerial(in); !ok || got != want {
			t.Errorf("ParseSerial(%q) = %d, %v", in, got, ok)
		}
	}

	for _, in := range []string{"", "0", "-3", "abc", "sheet-row-4", "7.5"} {
		if _, ok := ParseSerial(in); ok {
			t.Errorf("Expected ParseSerial(%q) to fail", in)
		}
	}

	if _, err := ParseRecordID("x"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

// Test record value semantics
func TestRecordSetAndClone(t *testing.T) {
	r := Record{Serial: 71}
	r.Set("ruling", "حبس")
	r.Set(FieldSerial, "99")

	if r.Get(FieldSerial) != "71" {
		t.Errorf("serial must not be settable")
	}

	c := r.Clone()
	c.Set("ruling", "")
	if r.Get("ruling") != "حبس" {
		t.Errorf("Clone must not share values")
	}
	if _, ok := c.Values["ruling"]; ok {
		t.Errorf("Setting an empty value must remove the key")
	}
}

// Test record set lookups
func TestRecordSet(t *testing.T) {
	set := &RecordSet{Records: []Record{{Serial: 75}, {Serial: 69}, {Serial: 71}}}

	sorted := set.Sorted()
	if sorted[0].Serial != 69 || sorted[2].Serial != 75 {
		t.Errorf("Expected serial order, got %v", sorted)
	}

	if _, ok := set.Find(70); ok {
		t.Errorf("Expected serial 70 to be missing")
	}

	set.Replace(Record{Serial: 71, Values: map[string]string{"ruling": "x"}})
	if r, _ := set.Find(71); r.Get("ruling") != "x" {
		t.Errorf("Replace did not swap the record")
	}
	set.Replace(Record{Serial: 80})
	if len(set.Records) != 4 {
		t.Errorf("Replace must append unknown serials")
	}

	var empty *RecordSet
	if _, ok := empty.Find(1); ok || empty.Clone() != nil {
		t.Errorf("nil set must be safe to use")
	}
}

// Test JSON rendering of a record
func TestRecordJSON(t *testing.T) {
	s := DefaultSchema()
	out := RecordJSON(s, Record{Serial: 71, RowPosition: 3, Values: map[string]string{"ruling": "حبس"}})

	if out["id"] != "71" || out["serial"] != 71 || out["rowPosition"] != 3 {
		t.Errorf("unexpected identity fields: %v", out)
	}
	if out["ruling"] != "حبس" {
		t.Errorf("Expected ruling value, got %v", out["ruling"])
	}
	if v, ok := out["postponementReason"]; !ok || v != nil {
		t.Errorf("Expected empty fields as null, got %v, %v", v, ok)
	}
}

// Test PATCH body decoding
func TestDecodeUpdateRequest(t *testing.T) {
	req, err := DecodeUpdateRequest([]byte(`{"ruling":"حبس","postponementReason":null}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req["ruling"] != "حبس" {
		t.Errorf("Expected ruling, got %q", req["ruling"])
	}
	if v, ok := req["postponementReason"]; !ok || v != "" {
		t.Errorf("Expected null to decode as empty, got %q, %v", v, ok)
	}

	for _, body := range []string{`[]`, `null`, `"x"`, `{"ruling":1}`, `{"ruling":{"a":"b"}}`, ``} {
		_, err := DecodeUpdateRequest([]byte(body))
		var ve ValidationErrors
		if !errors.As(err, &ve) {
			t.Errorf("Expected validation error for %q, got %v", body, err)
		}
	}
}

// Test request sanitizing
func TestUpdateRequestSanitize(t *testing.T) {
	s := DefaultSchema()
	req := UpdateRequest{
		"ruling":              "x",
		"company":             "y",
		FieldSerial:           "1",
		FieldLastModifiedBy:   "mallory",
		FieldLastModifiedDate: "2000-01-01",
		"notAField":           "z",
	}

	got := req.Sanitize(s)
	if len(got) != 2 || got["ruling"] != "x" || got["company"] != "y" {
		t.Errorf("unexpected sanitized request: %v", got)
	}
	if got.Fields()[0] != "company" {
		t.Errorf("Fields must be sorted, got %v", got.Fields())
	}
}

// Test merging an effective update
func TestEffectiveUpdateApply(t *testing.T) {
	now := time.Date(2025, 8, 10, 9, 30, 0, 0, time.UTC)
	r := Record{Serial: 71, Values: map[string]string{"ruling": "old", "company": "فاليو"}}

	out := EffectiveUpdate{
		Values:           map[string]string{"ruling": "new", "company": ""},
		LastModifiedBy:   "admin",
		LastModifiedDate: now,
	}.Apply(r)

	if out.Get("ruling") != "new" || out.Get("company") != "" {
		t.Errorf("unexpected merge: %v", out.Values)
	}
	if out.Get(FieldLastModifiedBy) != "admin" || out.Get(FieldLastModifiedDate) != "2025-08-10T09:30:00Z" {
		t.Errorf("modification metadata not set: %v", out.Values)
	}
	if r.Get("ruling") != "old" {
		t.Errorf("Apply must not mutate its input")
	}
}

// Test the role and user forms
func TestRolesAndForms(t *testing.T) {
	if NormalizeRole(" ADMIN ") != RoleAdmin || NormalizeRole("owner") != RoleUser {
		t.Errorf("unexpected role normalization")
	}

	valid := UserForm{Username: "layla", Password: "long-enough", Role: "admin"}
	if errs := valid.Validate(); len(errs) != 0 {
		t.Errorf("Expected no errors, got %v", errs)
	}

	invalid := UserForm{Username: " ", Password: "short", Role: "root"}
	if errs := invalid.Validate(); len(errs) != 3 {
		t.Errorf("Expected 3 errors, got %v", errs)
	}
}

// Test folder naming
func TestFolderName(t *testing.T) {
	withID := Record{Serial: 71, Values: map[string]string{FieldNationalID: "28607090101592"}}
	if got := FolderName(withID); got != "رقم قومي - 28607090101592" {
		t.Errorf("unexpected folder name %q", got)
	}
	if got := FolderName(Record{Serial: 71}); got != "مسلسل - 71" {
		t.Errorf("unexpected fallback folder name %q", got)
	}
}

// Test audit value normalization
func TestNormalizeValue(t *testing.T) {
	if NormalizeValue("") != nil {
		t.Errorf("empty must normalize to nil")
	}
	if v := NormalizeValue("x"); v == nil || *v != "x" || ValueOrEmpty(v) != "x" {
		t.Errorf("unexpected normalized value")
	}
	if ValueOrEmpty(nil) != "" {
		t.Errorf("nil must read as empty")
	}
}
