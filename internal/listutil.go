package internal

import (
	"net/http"
	"strconv"
	"strings"

	"foc-inventory-api/internal/inventory"
)

// listParams holds common query parameters for list endpoints
type listParams struct {
	limit    int
	offset   int
	q        string
	status   string
	location string
	sort     []inventory.SortKey
}

// parseListParams parses limit, offset, q, status, location and sort from the request
// Defaults: limit=50 (max 200), offset=0
func parseListParams(r *http.Request) listParams {
	values := r.URL.Query()

	limit := 50
	if s := strings.TrimSpace(values.Get("limit")); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v > 0 {
			if v > 200 {
				v = 200
			}
			limit = v
		}
	}

	offset := 0
	if s := strings.TrimSpace(values.Get("offset")); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v >= 0 {
			offset = v
		}
	}

	return listParams{
		limit:    limit,
		offset:   offset,
		q:        strings.TrimSpace(values.Get("q")),
		status:   strings.TrimSpace(values.Get("status")),
		location: strings.TrimSpace(values.Get("location")),
		sort:     parseSort(values.Get("sort")),
	}
}

// parseSort reads a comma-separated list of whitelisted fields; a '-' prefix
// sorts descending. Unknown fields are dropped.
func parseSort(sortParam string) []inventory.SortKey {
	if sortParam == "" {
		return nil
	}

	parts := strings.Split(sortParam, ",")
	keys := make([]inventory.SortKey, 0, len(parts))
	for _, raw := range parts {
		s := strings.TrimSpace(raw)
		if s == "" {
			continue
		}
		desc := false
		if strings.HasPrefix(s, "-") {
			desc = true
			s = strings.TrimPrefix(s, "-")
		}
		if _, ok := inventory.SortFields[s]; !ok {
			continue
		}
		keys = append(keys, inventory.SortKey{Field: s, Desc: desc})
	}
	return keys
}
