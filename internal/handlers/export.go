package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"foc-inventory-api/internal/inventory"
	"foc-inventory-api/internal/models"

	"github.com/xuri/excelize/v2"
)

// SnapshotFunc returns the current inventory snapshot.
type SnapshotFunc func(ctx context.Context) (models.Snapshot, error)

// ExportHandler serves the master list as a workbook
type ExportHandler struct {
	Snapshot  SnapshotFunc
	SheetName string
	now       func() time.Time
}

// NewExportHandler creates a new export handler
func NewExportHandler(snapshot SnapshotFunc, now func() time.Time) *ExportHandler {
	if now == nil {
		now = time.Now
	}
	return &ExportHandler{
		Snapshot:  snapshot,
		SheetName: "Inventory",
		now:       now,
	}
}

// ExportXLSX writes every valid item with all of its columns
func (h *ExportHandler) ExportXLSX(w http.ResponseWriter, r *http.Request) {
	snap, err := h.Snapshot(r.Context())
	if err != nil {
		if errors.Is(err, inventory.ErrNoInventoryData) {
			writeJSON(w, http.StatusServiceUnavailable, map[string]any{
				"error": "No inventory data found.",
				"code":  "NO_INVENTORY_DATA",
			})
			return
		}
		log.Printf("export: load failed: %v", err)
		writeJSON(w, http.StatusBadGateway, map[string]any{
			"error": "Failed to load inventory. Please try again.",
			"code":  "STORE_UNAVAILABLE",
		})
		return
	}

	data, err := BuildWorkbook(h.SheetName, snap)
	if err != nil {
		log.Printf("export: build workbook: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"error": "Failed to build export.",
			"code":  "EXPORT_FAILED",
		})
		return
	}

	filename := "foc-inventory-" + h.now().Format("20060102-150405") + ".xlsx"
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		log.Printf("export: write: %v", err)
	}
}

// BuildWorkbook renders the snapshot headers plus the joined request date,
// one row per valid item.
func BuildWorkbook(sheetName string, snap models.Snapshot) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), sheetName); err != nil {
		return nil, err
	}

	headers := append(append([]string(nil), snap.Headers...), models.RequestDateKey)
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheetName, cell, h); err != nil {
			return nil, err
		}
	}

	rowIdx := 2
	for _, item := range snap.Items {
		if !inventory.IsValid(item) {
			continue
		}
		for c, h := range headers {
			cell, err := excelize.CoordinatesToCellName(c+1, rowIdx)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheetName, cell, item.FullData[h]); err != nil {
				return nil, err
			}
		}
		rowIdx++
	}

	if err := f.SetPanes(sheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// writeJSON writes a JSON response
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
