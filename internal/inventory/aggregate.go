package inventory

import (
	"sort"
	"strings"

	"foc-inventory-api/internal/models"
)

// Status tokens matched as case-insensitive substrings of StatusLocation.
const (
	TokenAvailable   = "AVAILABLE"
	TokenLoaned      = "LOANED"
	TokenOnKOL       = "ON KOL"
	TokenReturnToTCC = "RETURN TO TCC"
)

func hasToken(s, token string) bool {
	return strings.Contains(strings.ToUpper(s), token)
}

func isSentinel(v string) bool {
	switch v {
	case "", "-", "N/A":
		return true
	}
	return false
}

// groupBy buckets items by the trimmed key, skipping sentinels, and returns
// the groups in first-seen order.
func groupBy(items []models.InventoryItem, key func(models.InventoryItem) string) ([]string, map[string][]models.InventoryItem) {
	var order []string
	groups := make(map[string][]models.InventoryItem)
	for _, it := range items {
		k := strings.TrimSpace(key(it))
		if isSentinel(k) {
			continue
		}
		if _, seen := groups[k]; !seen {
			order = append(order, k)
		}
		groups[k] = append(groups[k], it)
	}
	return order, groups
}

// ByModel groups items by unit name, largest groups first.
func ByModel(items []models.InventoryItem) []models.ModelGroup {
	order, groups := groupBy(items, func(it models.InventoryItem) string { return it.UnitName })

	out := make([]models.ModelGroup, 0, len(order))
	for _, name := range order {
		g := models.ModelGroup{Name: name, Items: groups[name], Total: len(groups[name])}
		for _, it := range g.Items {
			if hasToken(it.StatusLocation, TokenAvailable) {
				g.Available++
			}
			if hasToken(it.StatusLocation, TokenLoaned) {
				g.Loaned++
			}
			if hasToken(it.FOCStatus, "MISSING") {
				g.Missing++
			}
		}
		out = append(out, g)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Total > out[j].Total })
	return out
}

// ByHolder groups items by KOL holder, most active holders first. Contact
// details come from the last item of each group.
func ByHolder(items []models.InventoryItem, phoneHeaders, addressHeaders []string) []models.HolderGroup {
	order, groups := groupBy(items, func(it models.InventoryItem) string { return it.OnHolder })

	out := make([]models.HolderGroup, 0, len(order))
	for _, name := range order {
		members := groups[name]
		g := models.HolderGroup{Name: name, Items: members, TotalItems: len(members)}
		for _, it := range members {
			if hasToken(it.StatusLocation, TokenLoaned) || strings.EqualFold(strings.TrimSpace(it.FOCStatus), "RETURN") {
				g.ActiveCount++
			}
		}
		latest := members[len(members)-1].FullData
		g.Phone = firstPresent(latest, phoneHeaders)
		g.Address = firstPresent(latest, addressHeaders)
		out = append(out, g)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ActiveCount > out[j].ActiveCount })
	return out
}

// ByCampaign groups items by campaign tag, largest first.
func ByCampaign(items []models.InventoryItem) []models.CampaignGroup {
	order, groups := groupBy(items, func(it models.InventoryItem) string { return it.CampaignName })

	out := make([]models.CampaignGroup, 0, len(order))
	for _, name := range order {
		g := models.CampaignGroup{Name: name, Items: groups[name], Total: len(groups[name])}
		units := make(map[string]struct{})
		for _, it := range g.Items {
			if hasToken(it.StatusLocation, TokenAvailable) {
				g.Available++
			}
			if hasToken(it.StatusLocation, TokenLoaned) {
				g.Loaned++
			}
			if u := strings.TrimSpace(it.UnitName); u != "" {
				units[u] = struct{}{}
			}
		}
		g.UniqueModels = len(units)
		out = append(out, g)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Total > out[j].Total })
	return out
}

func firstPresent(data map[string]string, keys []string) string {
	for _, k := range keys {
		if v, ok := data[k]; ok && v != "" {
			return v
		}
	}
	return blankCell
}
