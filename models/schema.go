package models

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed columns.yaml
var defaultColumnsYAML []byte

// Field kinds
const (
	KindIdentity = "identity"
	KindData     = "data"
	KindSystem   = "system"
)

// Well-known field names
const (
	FieldSerial           = "serial"
	FieldCreatedBy        = "createdBy"
	FieldLastModifiedBy   = "lastModifiedBy"
	FieldLastModifiedDate = "lastModifiedDate"
	FieldNationalID       = "nationalId"
	FieldClientName       = "clientName"
	FieldDriveFolderID    = "driveFolderId"
	FieldDriveFolderLink  = "driveFolderLink"
)

// requiredFields must be mapped for a schema to be usable
var requiredFields = []string{FieldSerial, FieldCreatedBy, FieldLastModifiedBy, FieldLastModifiedDate}

// ColumnSpec binds one record field to one sheet column
type ColumnSpec struct {
	Field    string `yaml:"field" json:"field"`
	Column   string `yaml:"column" json:"column"`
	Kind     string `yaml:"kind" json:"kind"`
	Editable bool   `yaml:"editable" json:"editable"`

	Index int `yaml:"-" json:"index"`
}

// Schema is the validated, bidirectional column table shared by the row
// parser and the row serializer.
type Schema struct {
	columns []ColumnSpec
	byField map[string]ColumnSpec
	byIndex map[int]ColumnSpec
	width   int
}

type schemaFile struct {
	Columns []ColumnSpec `yaml:"columns"`
}

// DefaultSchema parses the embedded column table. It panics on an invalid
// table because the binary cannot run without one.
func DefaultSchema() *Schema {
	s, err := ParseSchema(defaultColumnsYAML)
	if err != nil {
		panic(fmt.Sprintf("invalid embedded column table: %v", err))
	}
	return s
}

// ParseSchema decodes and validates a YAML column table
func ParseSchema(data []byte) (*Schema, error) {
	var file schemaFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to decode column table: %w", err)
	}
	return NewSchema(file.Columns)
}

// NewSchema validates the column specs and builds the lookup tables
func NewSchema(columns []ColumnSpec) (*Schema, error) {
	s := &Schema{
		byField: make(map[string]ColumnSpec, len(columns)),
		byIndex: make(map[int]ColumnSpec, len(columns)),
	}

	var problems []string
	for _, col := range columns {
		if col.Field == "" {
			problems = append(problems, fmt.Sprintf("column %q has no field name", col.Column))
			continue
		}
		if col.Kind == "" {
			col.Kind = KindData
		}
		if col.Kind != KindData && col.Kind != KindIdentity && col.Kind != KindSystem {
			problems = append(problems, fmt.Sprintf("field %s has unknown kind %q", col.Field, col.Kind))
		}

		idx, err := ColumnIndex(col.Column)
		if err != nil {
			problems = append(problems, fmt.Sprintf("field %s: %v", col.Field, err))
			continue
		}
		col.Index = idx

		if _, dup := s.byField[col.Field]; dup {
			problems = append(problems, fmt.Sprintf("field %s is mapped twice", col.Field))
			continue
		}
		if other, dup := s.byIndex[idx]; dup {
			problems = append(problems, fmt.Sprintf("column %s is shared by %s and %s", col.Column, other.Field, col.Field))
			continue
		}
		if col.Editable && col.Kind != KindData {
			problems = append(problems, fmt.Sprintf("field %s is %s and cannot be editable", col.Field, col.Kind))
		}

		s.byField[col.Field] = col
		s.byIndex[idx] = col
		s.columns = append(s.columns, col)
		if idx+1 > s.width {
			s.width = idx + 1
		}
	}

	for _, field := range requiredFields {
		if _, ok := s.byField[field]; !ok {
			problems = append(problems, fmt.Sprintf("required field %s is not mapped", field))
		}
	}
	if serial, ok := s.byField[FieldSerial]; ok && serial.Index != 0 {
		problems = append(problems, "serial must be mapped to column A")
	}

	if len(problems) > 0 {
		return nil, fmt.Errorf("invalid column table: %s", strings.Join(problems, "; "))
	}

	sort.Slice(s.columns, func(i, j int) bool {
		return s.columns[i].Index < s.columns[j].Index
	})

	return s, nil
}

// Columns returns the column specs ordered by column index
func (s *Schema) Columns() []ColumnSpec {
	out := make([]ColumnSpec, len(s.columns))
	copy(out, s.columns)
	return out
}

// Width is the number of cells in a serialized row
func (s *Schema) Width() int {
	return s.width
}

// LastColumn is the A1 letter of the rightmost mapped column
func (s *Schema) LastColumn() string {
	return ColumnLetter(s.width - 1)
}

// Lookup returns the column mapped to a field
func (s *Schema) Lookup(field string) (ColumnSpec, bool) {
	col, ok := s.byField[field]
	return col, ok
}

// FieldAt returns the column at a zero-based index
func (s *Schema) FieldAt(index int) (ColumnSpec, bool) {
	col, ok := s.byIndex[index]
	return col, ok
}

// IsKnown reports whether the field exists in the table
func (s *Schema) IsKnown(field string) bool {
	_, ok := s.byField[field]
	return ok
}

// IsEditable reports whether non-admin users may modify the field
func (s *Schema) IsEditable(field string) bool {
	col, ok := s.byField[field]
	return ok && col.Editable
}

// IsImmutable reports whether no update request may touch the field
func (s *Schema) IsImmutable(field string) bool {
	col, ok := s.byField[field]
	if !ok {
		return false
	}
	return col.Kind == KindIdentity || col.Field == FieldLastModifiedBy || col.Field == FieldLastModifiedDate
}

// EditableFields lists the non-admin allowlist in column order
func (s *Schema) EditableFields() []string {
	var fields []string
	for _, col := range s.columns {
		if col.Editable {
			fields = append(fields, col.Field)
		}
	}
	return fields
}

// ColumnIndex converts an A1 column letter ("A", "AW", "CL") to a zero-based index
func ColumnIndex(letters string) (int, error) {
	letters = strings.ToUpper(strings.TrimSpace(letters))
	if letters == "" {
		return 0, fmt.Errorf("empty column letter")
	}

	n := 0
	for _, ch := range letters {
		if ch < 'A' || ch > 'Z' {
			return 0, fmt.Errorf("invalid column letter %q", letters)
		}
		n = n*26 + int(ch-'A'+1)
	}
	return n - 1, nil
}

// ColumnLetter converts a zero-based index to its A1 column letter
func ColumnLetter(index int) string {
	if index < 0 {
		return ""
	}

	var b []byte
	for n := index + 1; n > 0; n = (n - 1) / 26 {
		b = append([]byte{byte('A' + (n-1)%26)}, b...)
	}
	return string(b)
}
