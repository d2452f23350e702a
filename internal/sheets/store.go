// Package sheets provides access to the spreadsheet that backs the inventory.
package sheets

import (
	"context"
	"fmt"
)

// Store is the backing spreadsheet. Grids are row-major string cells; rows may
// be ragged because trailing empty cells are not returned.
type Store interface {
	ReadRange(ctx context.Context, rangeName string) ([][]string, error)
	BatchReadRanges(ctx context.Context, rangeNames []string) ([][][]string, error)
	AppendRow(ctx context.Context, rangeName string, row []string) error
}

// StoreError wraps any failure reported by the backing store.
type StoreError struct {
	Op    string
	Range string
	Err   error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("sheets %s %q: %v", e.Op, e.Range, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

func storeErr(op, rangeName string, err error) error {
	if err == nil {
		return nil
	}
	return &StoreError{Op: op, Range: rangeName, Err: err}
}
