package internal

import (
	"net/http"
	"strconv"

	"foc-inventory-api/internal/inventory"
	"foc-inventory-api/internal/models"
)

// inventoryPage is the master list response.
type inventoryPage struct {
	Items     []models.InventoryItem `json:"items"`
	Total     int                    `json:"total"`
	Limit     int                    `json:"limit"`
	Offset    int                    `json:"offset"`
	Headers   []string               `json:"headers"`
	FetchedAt string                 `json:"fetchedAt"`
}

// LIST with filters, sorting & pagination
func (s *Server) listInventory(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.snapshot(w, r)
	if !ok {
		return
	}
	params := parseListParams(r)

	items := inventory.Filter(snap.Items, inventory.ListQuery{
		Search:   params.q,
		Status:   params.status,
		Location: params.location,
	})
	inventory.SortItems(items, params.sort)

	w.Header().Set("X-Total-Count", strconv.Itoa(len(items)))
	writeJSON(w, http.StatusOK, inventoryPage{
		Items:     inventory.Page(items, params.offset, params.limit),
		Total:     len(items),
		Limit:     params.limit,
		Offset:    params.offset,
		Headers:   snap.Headers,
		FetchedAt: snap.FetchedAt.In(s.Location).Format("2006-01-02T15:04:05Z07:00"),
	})
}

func (s *Server) inventorySummary(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.snapshot(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, inventory.Summarize(snap.Items))
}

func (s *Server) recentActivity(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.snapshot(w, r)
	if !ok {
		return
	}
	limit := inventory.DefaultActivityLimit
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v > 0 && v <= 200 {
		limit = v
	}
	writeJSON(w, http.StatusOK, inventory.RecentActivity(snap.Items, s.Layout.FallbackDates, limit, s.Location))
}

func (s *Server) modelGroups(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.snapshot(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, inventory.ByModel(snap.Items))
}

func (s *Server) holderGroups(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.snapshot(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, inventory.ByHolder(snap.Items, s.Layout.PhoneHeaders, s.Layout.AddressHeaders))
}

func (s *Server) campaignGroups(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.snapshot(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, inventory.ByCampaign(snap.Items))
}

func (s *Server) returnGroups(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.snapshot(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, inventory.ByReturnUrgency(snap.Items, s.now(), s.Location))
}

// syncInventory drops the cache and reloads it so the caller sees fresh data.
func (s *Server) syncInventory(w http.ResponseWriter, r *http.Request) {
	s.Cache.Invalidate()
	snap, ok := s.snapshot(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"items":     len(snap.Items),
		"fetchedAt": snap.FetchedAt.In(s.Location).Format("2006-01-02T15:04:05Z07:00"),
	})
}
