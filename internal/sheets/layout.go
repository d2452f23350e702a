package sheets

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Column names a header together with the positional index used when the
// header is absent from the sheet.
type Column struct {
	Header   string `yaml:"header"`
	Position int    `yaml:"position"`
}

// Ranges holds the A1 ranges the inventory reads and appends to.
type Ranges struct {
	Master        string `yaml:"master"`
	RequestLog    string `yaml:"request_log"`
	RequestAppend string `yaml:"request_append"`
	ReturnAppend  string `yaml:"return_append"`
}

// MasterColumns maps canonical inventory fields to master bank columns.
type MasterColumns struct {
	IMEI              Column `yaml:"imei"`
	UnitName          Column `yaml:"unit_name"`
	FOCStatus         Column `yaml:"foc_status"`
	GoatPIC           Column `yaml:"goat_pic"`
	SeinPIC           Column `yaml:"sein_pic"`
	StatusLocation    Column `yaml:"status_location"`
	OnHolder          Column `yaml:"on_holder"`
	PlannedReturnDate Column `yaml:"planned_return_date"`
	CampaignName      Column `yaml:"campaign_name"`
}

// RequestColumns names the request log headers used by the date join.
type RequestColumns struct {
	Timestamp string `yaml:"timestamp"`
	UnitName  string `yaml:"unit_name"`
	IMEI      string `yaml:"imei"`
	KOLName   string `yaml:"kol_name"`
}

// Layout describes where everything lives in the spreadsheet.
type Layout struct {
	Version        int            `yaml:"version"`
	Ranges         Ranges         `yaml:"ranges"`
	Master         MasterColumns  `yaml:"master_columns"`
	Request        RequestColumns `yaml:"request_columns"`
	FallbackDates  []string       `yaml:"fallback_date_headers"`
	PhoneHeaders   []string       `yaml:"phone_headers"`
	AddressHeaders []string       `yaml:"address_headers"`
}

// DefaultLayout returns the layout of the production spreadsheet.
func DefaultLayout() Layout {
	return Layout{
		Version: 1,
		Ranges: Ranges{
			Master:        "Step 1 Data Bank!A:O",
			RequestLog:    "Step 3 FOC Request!A:H",
			RequestAppend: "Step 3 FOC Request",
			ReturnAppend:  "Step 4 FOC Return",
		},
		Master: MasterColumns{
			IMEI:              Column{Header: "IMEI", Position: 3},
			UnitName:          Column{Header: "Unit Name", Position: 4},
			FOCStatus:         Column{Header: "RETURN / UNRETURN", Position: 5},
			GoatPIC:           Column{Header: "PIC GOAT", Position: 8},
			SeinPIC:           Column{Header: "PIC SEIN", Position: 2},
			StatusLocation:    Column{Header: "STATUS LOCATION", Position: 11},
			OnHolder:          Column{Header: "ON HOLDER", Position: 12},
			PlannedReturnDate: Column{Header: "Planned Return Date", Position: 6},
			CampaignName:      Column{Header: "Campaign Name", Position: 9},
		},
		Request: RequestColumns{
			Timestamp: "Timestamp",
			UnitName:  "Unit Name",
			IMEI:      "IMEI",
			KOLName:   "KOL Name",
		},
		FallbackDates:  []string{"Timestamp", "Date Received", "Request Date"},
		PhoneHeaders:   []string{"KOL Phone Number", "Phone Number"},
		AddressHeaders: []string{"KOL Address", "Address"},
	}
}

// LoadLayout reads a YAML layout. Keys missing from the file keep their
// default values. An empty path returns DefaultLayout.
func LoadLayout(path string) (Layout, error) {
	layout := DefaultLayout()
	if path == "" {
		return layout, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return layout, fmt.Errorf("failed to read layout: %w", err)
	}
	if err := yaml.Unmarshal(data, &layout); err != nil {
		return layout, fmt.Errorf("failed to parse layout %s: %w", path, err)
	}
	if err := layout.Validate(); err != nil {
		return layout, fmt.Errorf("invalid layout %s: %w", path, err)
	}
	return layout, nil
}

// Validate checks that every range and master column is usable.
func (l Layout) Validate() error {
	if l.Ranges.Master == "" || l.Ranges.RequestLog == "" {
		return fmt.Errorf("master and request_log ranges are required")
	}
	if l.Ranges.RequestAppend == "" || l.Ranges.ReturnAppend == "" {
		return fmt.Errorf("request_append and return_append ranges are required")
	}
	for name, c := range l.Master.byName() {
		if c.Header == "" {
			return fmt.Errorf("master column %s has no header", name)
		}
		if c.Position < 0 {
			return fmt.Errorf("master column %s has a negative position", name)
		}
	}
	return nil
}

func (m MasterColumns) byName() map[string]Column {
	return map[string]Column{
		"imei":                m.IMEI,
		"unit_name":           m.UnitName,
		"foc_status":          m.FOCStatus,
		"goat_pic":            m.GoatPIC,
		"sein_pic":            m.SeinPIC,
		"status_location":     m.StatusLocation,
		"on_holder":           m.OnHolder,
		"planned_return_date": m.PlannedReturnDate,
		"campaign_name":       m.CampaignName,
	}
}
