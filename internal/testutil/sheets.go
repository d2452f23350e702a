package testutil

import (
	"context"
	"fmt"
	"sync"

	"foc-inventory-api/internal/sheets"
)

// Append records one AppendRow call.
type Append struct {
	Range string
	Row   []string
}

// MemoryStore is an in-memory sheets.Store for tests. Reads return the grid
// registered for a range; appends are recorded and also added to the grid.
type MemoryStore struct {
	mu        sync.Mutex
	grids     map[string][][]string
	appends   []Append
	reads     int
	ReadErr   error
	AppendErr error
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{grids: make(map[string][][]string)}
}

// SetRange replaces the grid served for rangeName.
func (m *MemoryStore) SetRange(rangeName string, rows [][]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.grids[rangeName] = rows
}

// Appends returns a copy of every recorded append.
func (m *MemoryStore) Appends() []Append {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Append, len(m.appends))
	copy(out, m.appends)
	return out
}

// Reads counts ReadRange and BatchReadRanges calls.
func (m *MemoryStore) Reads() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reads
}

func (m *MemoryStore) ReadRange(ctx context.Context, rangeName string) ([][]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reads++
	if m.ReadErr != nil {
		return nil, &sheets.StoreError{Op: "read", Range: rangeName, Err: m.ReadErr}
	}
	return m.grids[rangeName], nil
}

func (m *MemoryStore) BatchReadRanges(ctx context.Context, rangeNames []string) ([][][]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reads++
	if m.ReadErr != nil {
		return nil, &sheets.StoreError{Op: "batch read", Range: fmt.Sprint(rangeNames), Err: m.ReadErr}
	}
	out := make([][][]string, len(rangeNames))
	for i, r := range rangeNames {
		out[i] = m.grids[r]
	}
	return out, nil
}

func (m *MemoryStore) AppendRow(ctx context.Context, rangeName string, row []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.AppendErr != nil {
		return &sheets.StoreError{Op: "append", Range: rangeName, Err: m.AppendErr}
	}
	cp := append([]string(nil), row...)
	m.appends = append(m.appends, Append{Range: rangeName, Row: cp})
	m.grids[rangeName] = append(m.grids[rangeName], cp)
	return nil
}

var _ sheets.Store = (*MemoryStore)(nil)
