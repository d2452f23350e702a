package sheets

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tealeg/xlsx/v3"
)

// a1Range is a parsed A1 reference. Bounds are zero-based and inclusive; -1
// means unbounded.
type a1Range struct {
	Sheet    string
	FirstCol int
	LastCol  int
	FirstRow int
	LastRow  int
}

// parseA1 understands "Sheet", "Sheet!A:O", "Sheet!A1:H20" and quoted sheet
// names such as "'Step 1'!A:C".
func parseA1(ref string) (a1Range, error) {
	out := a1Range{FirstCol: 0, LastCol: -1, FirstRow: 0, LastRow: -1}

	sheet, cells, hasCells := strings.Cut(ref, "!")
	sheet = strings.TrimSpace(sheet)
	if strings.HasPrefix(sheet, "'") && strings.HasSuffix(sheet, "'") && len(sheet) >= 2 {
		sheet = strings.ReplaceAll(sheet[1:len(sheet)-1], "''", "'")
	}
	if sheet == "" {
		return out, fmt.Errorf("range %q has no sheet name", ref)
	}
	out.Sheet = sheet
	if !hasCells || strings.TrimSpace(cells) == "" {
		return out, nil
	}

	from, to, isSpan := strings.Cut(strings.TrimSpace(cells), ":")
	if !isSpan {
		to = from
	}

	var err error
	if out.FirstCol, out.FirstRow, err = parseCellRef(from); err != nil {
		return out, fmt.Errorf("range %q: %w", ref, err)
	}
	if out.LastCol, out.LastRow, err = parseCellRef(to); err != nil {
		return out, fmt.Errorf("range %q: %w", ref, err)
	}
	if out.FirstCol < 0 {
		out.FirstCol = 0
	}
	if out.FirstRow < 0 {
		out.FirstRow = 0
	}
	return out, nil
}

// parseCellRef splits "H20" into (7, 19); a missing part is reported as -1.
func parseCellRef(ref string) (col, row int, err error) {
	ref = strings.ToUpper(strings.TrimSpace(ref))
	i := 0
	for i < len(ref) && ref[i] >= 'A' && ref[i] <= 'Z' {
		i++
	}
	letters, digits := ref[:i], ref[i:]

	col, row = -1, -1
	if letters != "" {
		col = xlsx.ColLettersToIndex(letters)
	}
	if digits != "" {
		n, convErr := strconv.Atoi(digits)
		if convErr != nil || n < 1 {
			return -1, -1, fmt.Errorf("invalid cell reference %q", ref)
		}
		row = n - 1
	}
	if letters == "" && digits == "" {
		return -1, -1, fmt.Errorf("empty cell reference")
	}
	return col, row, nil
}
