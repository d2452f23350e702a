package inventory

import (
	"strings"

	"foc-inventory-api/internal/sheets"
)

// RequestDateIndex maps an IMEI, or a "unit||holder" composite, to the most
// recent request timestamp found in the request log.
type RequestDateIndex map[string]string

// CompositeKey builds the fallback join key for rows without an IMEI.
func CompositeKey(unitName, holder string) string {
	return strings.TrimSpace(unitName) + "||" + strings.TrimSpace(holder)
}

// Lookup resolves a date by IMEI first, then by the unit/holder composite.
func (idx RequestDateIndex) Lookup(imei, unitName, holder string) (string, bool) {
	if usableIMEI(imei) {
		if ts, ok := idx[strings.TrimSpace(imei)]; ok && ts != "" {
			return ts, true
		}
	}
	if strings.TrimSpace(unitName) != "" && strings.TrimSpace(holder) != "" {
		if ts, ok := idx[CompositeKey(unitName, holder)]; ok && ts != "" {
			return ts, true
		}
	}
	return "", false
}

// BuildRequestDateIndex scans the request log in order. The log is appended in
// time order, so later rows overwrite earlier ones and the index keeps the
// latest request per key. Rows without a timestamp are skipped.
func BuildRequestDateIndex(log Sheet, cols sheets.RequestColumns) RequestDateIndex {
	idx := make(RequestDateIndex)
	if len(log.Rows) == 0 {
		return idx
	}

	timeIdx := log.ColIndex(cols.Timestamp)
	unitIdx := log.ColIndex(cols.UnitName)
	imeiIdx := log.ColIndex(cols.IMEI)
	kolIdx := log.ColIndex(cols.KOLName)

	for _, row := range log.Rows {
		ts := Cell(row, timeIdx)
		if strings.TrimSpace(ts) == "" {
			continue
		}

		imei := Cell(row, imeiIdx)
		unit := Cell(row, unitIdx)
		kol := Cell(row, kolIdx)

		switch {
		case usableIMEI(imei):
			idx[strings.TrimSpace(imei)] = ts
		case strings.TrimSpace(unit) != "" && strings.TrimSpace(kol) != "":
			idx[CompositeKey(unit, kol)] = ts
		}
	}
	return idx
}

func usableIMEI(imei string) bool {
	v := strings.TrimSpace(imei)
	return v != "" && v != "-"
}
