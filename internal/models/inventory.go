package models

import "time"

// RequestDateKey is the synthesized FullData entry carrying the joined request date.
const RequestDateKey = "Step 3 Request Date"

// InventoryItem is one master bank row after normalization.
type InventoryItem struct {
	IMEI              string            `json:"imei"`
	UnitName          string            `json:"unitName"`
	FOCStatus         string            `json:"focStatus"`
	GoatPIC           string            `json:"goatPic"`
	SeinPIC           string            `json:"seinPic"`
	StatusLocation    string            `json:"statusLocation"`
	OnHolder          string            `json:"onHolder"`
	PlannedReturnDate string            `json:"plannedReturnDate"`
	CampaignName      string            `json:"campaignName"`
	FullData          map[string]string `json:"fullData"`
}

// Snapshot is one materialization of the master bank.
type Snapshot struct {
	Headers   []string        `json:"headers"`
	Items     []InventoryItem `json:"items"`
	FetchedAt time.Time       `json:"fetchedAt"`
}

// ModelGroup aggregates items sharing a unit name.
type ModelGroup struct {
	Name      string          `json:"name"`
	Items     []InventoryItem `json:"items"`
	Total     int             `json:"total"`
	Available int             `json:"available"`
	Loaned    int             `json:"loaned"`
	Missing   int             `json:"missing"`
}

// HolderGroup aggregates items held by one KOL.
type HolderGroup struct {
	Name        string          `json:"name"`
	Items       []InventoryItem `json:"items"`
	ActiveCount int             `json:"activeCount"`
	TotalItems  int             `json:"totalItems"`
	Phone       string          `json:"phone"`
	Address     string          `json:"address"`
}

// CampaignGroup aggregates items tagged with one campaign.
type CampaignGroup struct {
	Name         string          `json:"name"`
	Items        []InventoryItem `json:"items"`
	Total        int             `json:"total"`
	Available    int             `json:"available"`
	Loaned       int             `json:"loaned"`
	UniqueModels int             `json:"uniqueModels"`
}

// ReturnGroup is a de-duplicated pending return. The embedded item is the
// first member encountered, with PlannedReturnDate promoted to ASAP when any
// member carries it.
type ReturnGroup struct {
	InventoryItem
	GroupCount int  `json:"groupCount"`
	ASAP       bool `json:"asap"`
	Overdue    bool `json:"overdue"`
}

// Summary holds the dashboard scorecard counts.
type Summary struct {
	TotalStock     int `json:"totalStock"`
	Available      int `json:"available"`
	OnKOL          int `json:"onKol"`
	Gifted         int `json:"gifted"`
	PendingReturns int `json:"pendingReturns"`
}
