package sheets

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/tealeg/xlsx/v3"
)

// XLSXStore serves ranges out of a local workbook. The file is reopened on
// every read so edits made in a spreadsheet program are picked up; appends are
// serialized and saved immediately.
type XLSXStore struct {
	path string
	mu   sync.Mutex
}

// NewXLSXStore opens the workbook once to make sure it is readable.
func NewXLSXStore(path string) (*XLSXStore, error) {
	if _, err := xlsx.OpenFile(path); err != nil {
		return nil, fmt.Errorf("failed to open workbook %s: %w", path, err)
	}
	return &XLSXStore{path: path}, nil
}

// ReadRange returns the cells inside the range with trailing blanks trimmed,
// the way the Sheets API reports them.
func (x *XLSXStore) ReadRange(ctx context.Context, rangeName string) ([][]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, storeErr("get", rangeName, err)
	}
	x.mu.Lock()
	defer x.mu.Unlock()

	wb, err := xlsx.OpenFile(x.path)
	if err != nil {
		return nil, storeErr("get", rangeName, err)
	}
	grid, err := readGrid(wb, rangeName)
	return grid, storeErr("get", rangeName, err)
}

// BatchReadRanges reads every range from a single open of the workbook.
func (x *XLSXStore) BatchReadRanges(ctx context.Context, rangeNames []string) ([][][]string, error) {
	joined := strings.Join(rangeNames, ",")
	if err := ctx.Err(); err != nil {
		return nil, storeErr("batchGet", joined, err)
	}
	x.mu.Lock()
	defer x.mu.Unlock()

	wb, err := xlsx.OpenFile(x.path)
	if err != nil {
		return nil, storeErr("batchGet", joined, err)
	}
	out := make([][][]string, len(rangeNames))
	for i, name := range rangeNames {
		grid, err := readGrid(wb, name)
		if err != nil {
			return nil, storeErr("batchGet", name, err)
		}
		out[i] = grid
	}
	return out, nil
}

// AppendRow writes the row below the last used row of the range's sheet.
func (x *XLSXStore) AppendRow(ctx context.Context, rangeName string, row []string) error {
	if err := ctx.Err(); err != nil {
		return storeErr("append", rangeName, err)
	}
	ref, err := parseA1(rangeName)
	if err != nil {
		return storeErr("append", rangeName, err)
	}

	x.mu.Lock()
	defer x.mu.Unlock()

	wb, err := xlsx.OpenFile(x.path)
	if err != nil {
		return storeErr("append", rangeName, err)
	}
	sheet, ok := wb.Sheet[ref.Sheet]
	if !ok {
		return storeErr("append", rangeName, fmt.Errorf("sheet %q not found", ref.Sheet))
	}

	r := sheet.AddRow()
	for i := 0; i < ref.FirstCol; i++ {
		r.AddCell()
	}
	for _, v := range row {
		r.AddCell().SetString(v)
	}
	return storeErr("append", rangeName, wb.Save(x.path))
}

func readGrid(wb *xlsx.File, rangeName string) ([][]string, error) {
	ref, err := parseA1(rangeName)
	if err != nil {
		return nil, err
	}
	sheet, ok := wb.Sheet[ref.Sheet]
	if !ok {
		return nil, fmt.Errorf("sheet %q not found", ref.Sheet)
	}

	lastRow := sheet.MaxRow - 1
	if ref.LastRow >= 0 && ref.LastRow < lastRow {
		lastRow = ref.LastRow
	}
	lastCol := sheet.MaxCol - 1
	if ref.LastCol >= 0 && ref.LastCol < lastCol {
		lastCol = ref.LastCol
	}

	var grid [][]string
	for r := ref.FirstRow; r <= lastRow; r++ {
		var cells []string
		for c := ref.FirstCol; c <= lastCol; c++ {
			cell, err := sheet.Cell(r, c)
			if err != nil {
				return nil, fmt.Errorf("read cell %d,%d: %w", r, c, err)
			}
			cells = append(cells, cell.String())
		}
		grid = append(grid, trimTrailing(cells))
	}

	for len(grid) > 0 && len(grid[len(grid)-1]) == 0 {
		grid = grid[:len(grid)-1]
	}
	return grid, nil
}

func trimTrailing(cells []string) []string {
	end := len(cells)
	for end > 0 && strings.TrimSpace(cells[end-1]) == "" {
		end--
	}
	return cells[:end]
}
