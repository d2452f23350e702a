package handlers

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"foc-inventory-api/internal/inventory"
	"foc-inventory-api/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func testSnapshot() models.Snapshot {
	return models.Snapshot{
		Headers: []string{"IMEI", "Unit Name"},
		Items: []models.InventoryItem{
			{IMEI: "111", UnitName: "Galaxy S24", FullData: map[string]string{
				"IMEI": "111", "Unit Name": "Galaxy S24", models.RequestDateKey: "2025-01-02",
			}},
			{FullData: map[string]string{"IMEI": "-", "Unit Name": "-", models.RequestDateKey: "-"}},
			{UnitName: "Galaxy Tab", FullData: map[string]string{
				"IMEI": "-", "Unit Name": "Galaxy Tab", models.RequestDateKey: "-",
			}},
		},
	}
}

func TestExportHandler_ExportXLSX(t *testing.T) {
	now := func() time.Time { return time.Date(2025, 3, 4, 5, 6, 7, 0, time.UTC) }

	t.Run("Writes workbook", func(t *testing.T) {
		handler := NewExportHandler(func(context.Context) (models.Snapshot, error) {
			return testSnapshot(), nil
		}, now)

		req := httptest.NewRequest("GET", "/inventory/export.xlsx", nil)
		w := httptest.NewRecorder()
		handler.ExportXLSX(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Header().Get("Content-Disposition"), "foc-inventory-20250304-050607.xlsx")

		f, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes()))
		require.NoError(t, err)
		defer f.Close()

		rows, err := f.GetRows("Inventory")
		require.NoError(t, err)
		require.Len(t, rows, 3, "header plus the two valid items")
		assert.Equal(t, []string{"IMEI", "Unit Name", "Step 3 Request Date"}, rows[0])
		assert.Equal(t, []string{"111", "Galaxy S24", "2025-01-02"}, rows[1])
		assert.Equal(t, []string{"-", "Galaxy Tab", "-"}, rows[2])
	})

	t.Run("No inventory data", func(t *testing.T) {
		handler := NewExportHandler(func(context.Context) (models.Snapshot, error) {
			return models.Snapshot{}, inventory.ErrNoInventoryData
		}, now)

		w := httptest.NewRecorder()
		handler.ExportXLSX(w, httptest.NewRequest("GET", "/inventory/export.xlsx", nil))

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Contains(t, w.Body.String(), "NO_INVENTORY_DATA")
	})

	t.Run("Store failure hides details", func(t *testing.T) {
		handler := NewExportHandler(func(context.Context) (models.Snapshot, error) {
			return models.Snapshot{}, errors.New("googleapi: Error 403: secret-sheet-id")
		}, now)

		w := httptest.NewRecorder()
		handler.ExportXLSX(w, httptest.NewRequest("GET", "/inventory/export.xlsx", nil))

		assert.Equal(t, http.StatusBadGateway, w.Code)
		assert.NotContains(t, w.Body.String(), "secret-sheet-id")
	})
}
