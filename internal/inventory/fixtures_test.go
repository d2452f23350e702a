package inventory

import (
	"foc-inventory-api/internal/models"
	"foc-inventory-api/internal/sheets"
)

// masterHeaders follows the production column order so positional
// fallbacks line up with DefaultLayout.
var masterHeaders = []string{
	"Timestamp", "Date Received", "PIC SEIN", "IMEI", "Unit Name",
	"RETURN / UNRETURN", "Planned Return Date", "Notes", "PIC GOAT",
	"Campaign Name", "KOL Phone Number", "STATUS LOCATION", "ON HOLDER",
	"KOL Address", "Request Date",
}

var requestHeaders = []string{
	"Timestamp", "Email Address", "Requestor", "Campaign Name", "Unit Name",
	"IMEI", "KOL Name", "KOL Address",
}

type row struct {
	sein, imei, unit, focStatus, planned, goat, campaign, status, holder string
	timestamp, phone, address                                            string
}

func (r row) cells() []string {
	return []string{
		r.timestamp, "", r.sein, r.imei, r.unit,
		r.focStatus, r.planned, "", r.goat,
		r.campaign, r.phone, r.status, r.holder,
		r.address, "",
	}
}

func masterSheet(rows ...row) Sheet {
	s := Sheet{Headers: masterHeaders}
	for _, r := range rows {
		s.Rows = append(s.Rows, r.cells())
	}
	return s
}

func masterGrid(rows ...row) [][]string {
	grid := [][]string{masterHeaders}
	for _, r := range rows {
		grid = append(grid, r.cells())
	}
	return grid
}

func item(unit, status, holder string) models.InventoryItem {
	return models.InventoryItem{UnitName: unit, StatusLocation: status, OnHolder: holder}
}

func testLayout() sheets.Layout {
	return sheets.DefaultLayout()
}
