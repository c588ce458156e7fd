package models

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Record is one legal case backed by a spreadsheet row.
//
// Serial is the business key; RowPosition is where the row currently sits in
// the sheet (1-based, header excluded) and changes when rows are inserted or
// removed above it.
type Record struct {
	Serial      int
	RowPosition int

	// Values holds every mapped field except serial. A missing key and an
	// empty string both mean "no value".
	Values map[string]string

	// Unmapped keeps cells of columns the schema does not know about so a
	// full-row write puts them back unchanged.
	Unmapped map[int]string
}

// ID is the stable identifier exposed over the API
func (r Record) ID() string {
	return strconv.Itoa(r.Serial)
}

// Get returns the field value, empty when absent
func (r Record) Get(field string) string {
	if field == FieldSerial {
		return strconv.Itoa(r.Serial)
	}
	if r.Values == nil {
		return ""
	}
	return r.Values[field]
}

// Set stores a field value; empty values are removed
func (r *Record) Set(field, value string) {
	if field == FieldSerial {
		return
	}
	if r.Values == nil {
		r.Values = make(map[string]string)
	}
	if value == "" {
		delete(r.Values, field)
		return
	}
	r.Values[field] = value
}

// Clone returns a deep copy
func (r Record) Clone() Record {
	out := Record{Serial: r.Serial, RowPosition: r.RowPosition}
	if r.Values != nil {
		out.Values = make(map[string]string, len(r.Values))
		for k, v := range r.Values {
			out.Values[k] = v
		}
	}
	if r.Unmapped != nil {
		out.Unmapped = make(map[int]string, len(r.Unmapped))
		for k, v := range r.Unmapped {
			out.Unmapped[k] = v
		}
	}
	return out
}

// RecordJSON renders the record with every schema field present, empty fields as null
func RecordJSON(schema *Schema, r Record) map[string]interface{} {
	out := make(map[string]interface{}, schema.Width()+2)
	for _, col := range schema.Columns() {
		if col.Field == FieldSerial {
			continue
		}
		if v := r.Get(col.Field); v != "" {
			out[col.Field] = v
		} else {
			out[col.Field] = nil
		}
	}
	out["id"] = r.ID()
	out["serial"] = r.Serial
	out["rowPosition"] = r.RowPosition
	return out
}

// ParseSerial parses the first cell of a row. It returns false for blank,
// non-numeric or non-positive values.
func ParseSerial(cell string) (int, bool) {
	serial, err := strconv.Atoi(strings.TrimSpace(cell))
	if err != nil || serial <= 0 {
		return 0, false
	}
	return serial, true
}

// ParseRecordID converts an API id into a serial
func ParseRecordID(id string) (int, error) {
	serial, ok := ParseSerial(id)
	if !ok {
		return 0, fmt.Errorf("%w: record %q", ErrNotFound, id)
	}
	return serial, nil
}

// RecordSet is one full listing of the sheet
type RecordSet struct {
	Records []Record
	Headers []string
}

// Find looks up a record by serial
func (s *RecordSet) Find(serial int) (Record, bool) {
	if s == nil {
		return Record{}, false
	}
	for _, r := range s.Records {
		if r.Serial == serial {
			return r.Clone(), true
		}
	}
	return Record{}, false
}

// Sorted returns copies of the records ordered by serial
func (s *RecordSet) Sorted() []Record {
	if s == nil {
		return nil
	}
	out := make([]Record, len(s.Records))
	for i, r := range s.Records {
		out[i] = r.Clone()
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Serial < out[j].Serial })
	return out
}

// Clone returns a deep copy of the set
func (s *RecordSet) Clone() *RecordSet {
	if s == nil {
		return nil
	}
	out := &RecordSet{
		Records: make([]Record, len(s.Records)),
		Headers: append([]string(nil), s.Headers...),
	}
	for i, r := range s.Records {
		out.Records[i] = r.Clone()
	}
	return out
}

// Replace swaps in a record with the same serial, appending it when absent
func (s *RecordSet) Replace(record Record) {
	for i, r := range s.Records {
		if r.Serial == record.Serial {
			s.Records[i] = record.Clone()
			return
		}
	}
	s.Records = append(s.Records, record.Clone())
}
