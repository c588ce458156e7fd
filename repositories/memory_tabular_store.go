package repositories

import (
	"context"
	"sync"
)

// MemoryTabularStore is an in-process TabularStore. The server uses it in
// demo mode when no spreadsheet is configured.
type MemoryTabularStore struct {
	mu     sync.Mutex
	sheets map[string][][]string

	readErr  error
	writeErr error

	reads  int
	writes int
}

// NewMemoryTabularStore creates an empty store
func NewMemoryTabularStore() *MemoryTabularStore {
	return &MemoryTabularStore{sheets: make(map[string][][]string)}
}

// SetRows replaces the content of a sheet, header row first
func (m *MemoryTabularStore) SetRows(sheet string, rows [][]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sheets[sheet] = copyRows(rows)
}

// Rows returns a copy of a sheet's content
func (m *MemoryTabularStore) Rows(sheet string) [][]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return copyRows(m.sheets[sheet])
}

// InsertRow inserts a row before the given data position, shifting rows down
func (m *MemoryTabularStore) InsertRow(sheet string, position int, values []string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rows := m.sheets[sheet]
	idx := position
	if idx > len(rows) {
		idx = len(rows)
	}
	rows = append(rows, nil)
	copy(rows[idx+1:], rows[idx:])
	rows[idx] = append([]string(nil), values...)
	m.sheets[sheet] = rows
}

// SetReadError makes subsequent reads fail with err (nil clears it)
func (m *MemoryTabularStore) SetReadError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.readErr = err
}

// SetWriteError makes subsequent writes and appends fail with err (nil clears it)
func (m *MemoryTabularStore) SetWriteError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writeErr = err
}

// ReadCount is the number of ReadAll calls served
func (m *MemoryTabularStore) ReadCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reads
}

// WriteCount is the number of successful WriteRow calls
func (m *MemoryTabularStore) WriteCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}

// ReadAll returns every row of the sheet
func (m *MemoryTabularStore) ReadAll(ctx context.Context, sheet string) ([][]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if m.readErr != nil {
		return nil, m.readErr
	}
	m.reads++
	return copyRows(m.sheets[sheet]), nil
}

// ReadKeys returns column A of the sheet
func (m *MemoryTabularStore) ReadKeys(ctx context.Context, sheet string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if m.readErr != nil {
		return nil, m.readErr
	}

	keys := make([]string, len(m.sheets[sheet]))
	for i, row := range m.sheets[sheet] {
		if len(row) > 0 {
			keys[i] = row[0]
		}
	}
	return keys, nil
}

// WriteRow overwrites the row at position
func (m *MemoryTabularStore) WriteRow(ctx context.Context, sheet string, position int, values []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	if m.writeErr != nil {
		return m.writeErr
	}

	rows := m.sheets[sheet]
	for len(rows) <= position {
		rows = append(rows, nil)
	}
	rows[position] = append([]string(nil), values...)
	m.sheets[sheet] = rows
	m.writes++
	return nil
}

// AppendRow adds a row at the end of the sheet
func (m *MemoryTabularStore) AppendRow(ctx context.Context, sheet string, values []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	if m.writeErr != nil {
		return m.writeErr
	}

	m.sheets[sheet] = append(m.sheets[sheet], append([]string(nil), values...))
	return nil
}

func copyRows(rows [][]string) [][]string {
	if rows == nil {
		return nil
	}
	out := make([][]string, len(rows))
	for i, row := range rows {
		out[i] = append([]string(nil), row...)
	}
	return out
}
