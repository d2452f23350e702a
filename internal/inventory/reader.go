// Package inventory derives the queryable FOC inventory from the raw sheets.
package inventory

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"foc-inventory-api/internal/models"
	"foc-inventory-api/internal/sheets"

	"golang.org/x/text/cases"
)

// ErrNoInventoryData means the master bank returned no data rows. Callers must
// treat it as the service being unavailable, never as an empty inventory.
var ErrNoInventoryData = errors.New("no inventory data found or only headers present")

const (
	unknownMasterHeader  = "Unknown Column"
	unknownRequestHeader = "Unknown"
)

// Sheet is a header row plus the data rows beneath it.
type Sheet struct {
	Headers []string
	Rows    [][]string
}

// ColIndex returns the index of the first header equal to name under Unicode
// case folding, or -1.
func (s Sheet) ColIndex(name string) int {
	return colIndex(s.Headers, name)
}

// Cell returns row[idx] or "" when the index is negative or past a ragged row.
func Cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

// RawSheets is what the reader fetches in one round trip.
type RawSheets struct {
	Master  Sheet
	Request Sheet
}

// Reader fetches the master bank and request log.
type Reader struct {
	store  sheets.Store
	layout sheets.Layout
}

// NewReader creates a reader for the given store and layout.
func NewReader(store sheets.Store, layout sheets.Layout) *Reader {
	return &Reader{store: store, layout: layout}
}

// ReadSheets batch-reads both ranges. A master bank with at most a header row
// yields ErrNoInventoryData; an empty request log is fine.
func (r *Reader) ReadSheets(ctx context.Context) (RawSheets, error) {
	grids, err := r.store.BatchReadRanges(ctx, []string{r.layout.Ranges.Master, r.layout.Ranges.RequestLog})
	if err != nil {
		return RawSheets{}, fmt.Errorf("read inventory sheets: %w", err)
	}

	var masterRows, requestRows [][]string
	if len(grids) > 0 {
		masterRows = grids[0]
	}
	if len(grids) > 1 {
		requestRows = grids[1]
	}

	if len(masterRows) <= 1 {
		return RawSheets{}, ErrNoInventoryData
	}

	return RawSheets{
		Master:  newSheet(masterRows, unknownMasterHeader),
		Request: newSheet(requestRows, unknownRequestHeader),
	}, nil
}

func newSheet(rows [][]string, blank string) Sheet {
	if len(rows) == 0 {
		return Sheet{}
	}
	headers := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		h = strings.TrimSpace(h)
		if h == "" {
			h = blank
		}
		headers[i] = h
	}
	return Sheet{Headers: headers, Rows: rows[1:]}
}

func colIndex(headers []string, name string) int {
	fold := cases.Fold()
	want := fold.String(strings.TrimSpace(name))
	for i, h := range headers {
		if fold.String(strings.TrimSpace(h)) == want {
			return i
		}
	}
	return -1
}

// Snapshot reads both sheets, joins request dates and materializes the items.
func (r *Reader) Snapshot(ctx context.Context) (models.Snapshot, error) {
	raw, err := r.ReadSheets(ctx)
	if err != nil {
		return models.Snapshot{}, err
	}
	dates := BuildRequestDateIndex(raw.Request, r.layout.Request)
	return models.Snapshot{
		Headers:   raw.Master.Headers,
		Items:     Materialize(raw.Master, dates, r.layout),
		FetchedAt: time.Now(),
	}, nil
}
