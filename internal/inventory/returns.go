package inventory

import (
	"sort"
	"strings"
	"time"

	"foc-inventory-api/internal/models"
)

// PendingReturns keeps items that still have to come back: not already
// returned to TCC and carrying a planned return date other than N/A.
func PendingReturns(items []models.InventoryItem) []models.InventoryItem {
	var out []models.InventoryItem
	for _, it := range items {
		if hasToken(it.StatusLocation, TokenReturnToTCC) {
			continue
		}
		planned := strings.TrimSpace(it.PlannedReturnDate)
		if planned == "" || strings.EqualFold(planned, "N/A") {
			continue
		}
		out = append(out, it)
	}
	return out
}

func returnKey(it models.InventoryItem) string {
	part := func(s string) string {
		if s = strings.TrimSpace(s); s == "" {
			return blankCell
		}
		return s
	}
	return part(it.UnitName) + "\x1f" + part(it.SeinPIC) + "\x1f" + part(it.GoatPIC)
}

// GroupReturns collapses pending returns sharing unit name, SEIN PIC and GOAT
// PIC. ASAP wins the displayed date whatever order members arrive in.
func GroupReturns(pending []models.InventoryItem) []models.ReturnGroup {
	var order []string
	groups := make(map[string]*models.ReturnGroup)
	for _, it := range pending {
		k := returnKey(it)
		if g, ok := groups[k]; ok {
			g.GroupCount++
			if IsASAP(it.PlannedReturnDate) && !IsASAP(g.PlannedReturnDate) {
				g.PlannedReturnDate = "ASAP"
			}
			continue
		}
		order = append(order, k)
		groups[k] = &models.ReturnGroup{InventoryItem: it, GroupCount: 1}
	}

	out := make([]models.ReturnGroup, 0, len(order))
	for _, k := range order {
		out = append(out, *groups[k])
	}
	return out
}

// SortByUrgency orders groups ASAP first, then by planned date ascending,
// then groups whose date cannot be parsed. Ties keep their input order.
func SortByUrgency(groups []models.ReturnGroup, loc *time.Location) {
	type key struct {
		rank int
		at   time.Time
	}
	keys := make([]key, len(groups))
	for i, g := range groups {
		switch d, ok := ParseDate(g.PlannedReturnDate, loc); {
		case IsASAP(g.PlannedReturnDate):
			keys[i] = key{rank: 0}
		case ok:
			keys[i] = key{rank: 1, at: d}
		default:
			keys[i] = key{rank: 2}
		}
	}

	idx := make([]int, len(groups))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		ka, kb := keys[idx[a]], keys[idx[b]]
		if ka.rank != kb.rank {
			return ka.rank < kb.rank
		}
		return ka.rank == 1 && ka.at.Before(kb.at)
	})

	sorted := make([]models.ReturnGroup, len(groups))
	for i, j := range idx {
		sorted[i] = groups[j]
	}
	copy(groups, sorted)
}

// ByReturnUrgency is the return tracking view: filtered, grouped, sorted and
// flagged against today.
func ByReturnUrgency(items []models.InventoryItem, today time.Time, loc *time.Location) []models.ReturnGroup {
	groups := GroupReturns(PendingReturns(items))
	SortByUrgency(groups, loc)
	for i := range groups {
		groups[i].ASAP = IsASAP(groups[i].PlannedReturnDate)
		groups[i].Overdue = IsOverdue(groups[i].PlannedReturnDate, today, loc)
	}
	return groups
}
