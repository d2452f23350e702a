package inventory

import (
	"sort"
	"strings"
	"time"

	"foc-inventory-api/internal/models"
)

// DefaultActivityLimit is how many entries the activity feed shows.
const DefaultActivityLimit = 15

// Summarize computes the dashboard scorecards. Stock counts only include
// valid items; pending returns counts de-duplicated return groups.
func Summarize(items []models.InventoryItem) models.Summary {
	var s models.Summary
	for _, it := range items {
		if !IsValid(it) {
			continue
		}
		s.TotalStock++
		if hasToken(it.StatusLocation, TokenAvailable) {
			s.Available++
		}
		if hasToken(it.StatusLocation, TokenLoaned) {
			s.OnKOL++
		}
		if strings.EqualFold(strings.TrimSpace(it.FOCStatus), "UNRETURN") {
			s.Gifted++
		}
	}
	s.PendingReturns = len(GroupReturns(PendingReturns(items)))
	return s
}

// RecentActivity returns valid items newest first, dated by the first of
// dateHeaders present in the row. Rows whose date is blank or "-" are left
// out; dates that do not parse go last in source order.
func RecentActivity(items []models.InventoryItem, dateHeaders []string, limit int, loc *time.Location) []models.InventoryItem {
	type dated struct {
		item models.InventoryItem
		at   time.Time
		ok   bool
	}
	var rows []dated
	for _, it := range items {
		if !IsValid(it) {
			continue
		}
		raw := strings.TrimSpace(firstPresent(it.FullData, dateHeaders))
		if raw == "" || raw == blankCell {
			continue
		}
		at, ok := ParseDate(raw, loc)
		rows = append(rows, dated{item: it, at: at, ok: ok})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].ok != rows[j].ok {
			return rows[i].ok
		}
		return rows[i].ok && rows[i].at.After(rows[j].at)
	})

	if limit <= 0 {
		limit = DefaultActivityLimit
	}
	if len(rows) > limit {
		rows = rows[:limit]
	}
	out := make([]models.InventoryItem, len(rows))
	for i, r := range rows {
		out[i] = r.item
	}
	return out
}

// SortKey orders the master list by one field.
type SortKey struct {
	Field string
	Desc  bool
}

// SortFields maps public sort names to item accessors.
var SortFields = map[string]func(models.InventoryItem) string{
	"imei":              func(it models.InventoryItem) string { return it.IMEI },
	"unitName":          func(it models.InventoryItem) string { return it.UnitName },
	"focStatus":         func(it models.InventoryItem) string { return it.FOCStatus },
	"statusLocation":    func(it models.InventoryItem) string { return it.StatusLocation },
	"onHolder":          func(it models.InventoryItem) string { return it.OnHolder },
	"campaignName":      func(it models.InventoryItem) string { return it.CampaignName },
	"plannedReturnDate": func(it models.InventoryItem) string { return it.PlannedReturnDate },
}

// ListQuery narrows and orders the master list.
type ListQuery struct {
	Search   string
	Status   string
	Location string
	Sort     []SortKey
}

// Filter keeps valid items matching the query. Search is a case-insensitive
// substring over IMEI, unit name and holder.
func Filter(items []models.InventoryItem, q ListQuery) []models.InventoryItem {
	search := strings.ToLower(strings.TrimSpace(q.Search))
	status := strings.TrimSpace(q.Status)
	location := strings.ToUpper(strings.TrimSpace(q.Location))

	out := make([]models.InventoryItem, 0, len(items))
	for _, it := range items {
		if !IsValid(it) {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(it.IMEI), search) &&
			!strings.Contains(strings.ToLower(it.UnitName), search) &&
			!strings.Contains(strings.ToLower(it.OnHolder), search) {
			continue
		}
		if status != "" && !strings.EqualFold(strings.TrimSpace(it.FOCStatus), status) {
			continue
		}
		if location != "" && !matchesLocation(it.StatusLocation, location) {
			continue
		}
		out = append(out, it)
	}
	return out
}

func matchesLocation(statusLocation, location string) bool {
	switch location {
	case TokenAvailable:
		return hasToken(statusLocation, TokenAvailable)
	case TokenLoaned:
		return hasToken(statusLocation, TokenLoaned) || hasToken(statusLocation, TokenOnKOL)
	default:
		return hasToken(statusLocation, location)
	}
}

// SortItems orders items in place by the given keys. Unknown fields are
// ignored; with no usable key the source order is kept.
func SortItems(items []models.InventoryItem, keys []SortKey) {
	var usable []SortKey
	for _, k := range keys {
		if _, ok := SortFields[k.Field]; ok {
			usable = append(usable, k)
		}
	}
	if len(usable) == 0 {
		return
	}
	sort.SliceStable(items, func(i, j int) bool {
		for _, k := range usable {
			get := SortFields[k.Field]
			a, b := strings.ToLower(get(items[i])), strings.ToLower(get(items[j]))
			if a == b {
				continue
			}
			if k.Desc {
				return a > b
			}
			return a < b
		}
		return false
	})
}

// Page slices items by offset and limit.
func Page(items []models.InventoryItem, offset, limit int) []models.InventoryItem {
	if offset >= len(items) {
		return []models.InventoryItem{}
	}
	end := len(items)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return items[offset:end]
}
