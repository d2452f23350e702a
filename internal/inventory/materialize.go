package inventory

import (
	"log"
	"strings"

	"foc-inventory-api/internal/models"
	"foc-inventory-api/internal/sheets"
)

const blankCell = "-"

// resolver looks a canonical field up by header name and falls back to a
// fixed position only when the header is missing from the sheet.
type resolver struct {
	idx      int
	position int
}

func newResolver(master Sheet, col sheets.Column) resolver {
	idx := master.ColIndex(col.Header)
	if idx >= 0 && idx != col.Position {
		log.Printf("inventory: column %q found at index %d, fallback position is %d", col.Header, idx, col.Position)
	}
	if idx < 0 {
		log.Printf("inventory: column %q missing, using position %d", col.Header, col.Position)
	}
	return resolver{idx: idx, position: col.Position}
}

// value reads the named column and falls back to the fixed position when the
// header is missing or its cell is blank.
func (r resolver) value(row []string) string {
	if r.idx >= 0 {
		if v := Cell(row, r.idx); strings.TrimSpace(v) != "" {
			return v
		}
	}
	return Cell(row, r.position)
}

type fieldResolvers struct {
	imei, unitName, focStatus, goatPIC, seinPIC   resolver
	statusLocation, onHolder, plannedReturn, camp resolver
}

func newFieldResolvers(master Sheet, cols sheets.MasterColumns) fieldResolvers {
	return fieldResolvers{
		imei:           newResolver(master, cols.IMEI),
		unitName:       newResolver(master, cols.UnitName),
		focStatus:      newResolver(master, cols.FOCStatus),
		goatPIC:        newResolver(master, cols.GoatPIC),
		seinPIC:        newResolver(master, cols.SeinPIC),
		statusLocation: newResolver(master, cols.StatusLocation),
		onHolder:       newResolver(master, cols.OnHolder),
		plannedReturn:  newResolver(master, cols.PlannedReturnDate),
		camp:           newResolver(master, cols.CampaignName),
	}
}

// Materialize maps every master bank data row to an InventoryItem in source
// order. FullData carries one entry per header ("-" for blanks; the first of
// duplicate headers wins) plus the joined request date.
func Materialize(master Sheet, dates RequestDateIndex, layout sheets.Layout) []models.InventoryItem {
	fields := newFieldResolvers(master, layout.Master)
	items := make([]models.InventoryItem, 0, len(master.Rows))

	for _, row := range master.Rows {
		full := make(map[string]string, len(master.Headers)+1)
		for i, h := range master.Headers {
			if _, dup := full[h]; dup {
				continue
			}
			v := Cell(row, i)
			if strings.TrimSpace(v) == "" {
				v = blankCell
			}
			full[h] = v
		}

		item := models.InventoryItem{
			IMEI:              fields.imei.value(row),
			UnitName:          fields.unitName.value(row),
			FOCStatus:         fields.focStatus.value(row),
			GoatPIC:           fields.goatPIC.value(row),
			SeinPIC:           fields.seinPIC.value(row),
			StatusLocation:    fields.statusLocation.value(row),
			OnHolder:          fields.onHolder.value(row),
			PlannedReturnDate: fields.plannedReturn.value(row),
			CampaignName:      fields.camp.value(row),
			FullData:          full,
		}
		full[models.RequestDateKey] = requestDate(item, dates, layout.FallbackDates)
		items = append(items, item)
	}
	return items
}

// requestDate prefers the request log join and falls back to the row's own
// date columns, then to "-".
func requestDate(item models.InventoryItem, dates RequestDateIndex, fallbacks []string) string {
	if ts, ok := dates.Lookup(item.IMEI, item.UnitName, item.OnHolder); ok {
		return ts
	}
	for _, h := range fallbacks {
		if v := strings.TrimSpace(item.FullData[h]); v != "" && v != blankCell {
			return item.FullData[h]
		}
	}
	return blankCell
}

// IsValid reports whether an item counts towards stock totals.
func IsValid(item models.InventoryItem) bool {
	return strings.TrimSpace(item.IMEI) != "" || strings.TrimSpace(item.UnitName) != ""
}
