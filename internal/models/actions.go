package models

// RequestPayload is the outbound (request) form.
type RequestPayload struct {
	Username        string `json:"username" label:"Username" validate:"required"`
	Requestor       string `json:"requestor" label:"Requestor" validate:"required"`
	CustomRequestor string `json:"customRequestor,omitempty" label:"Custom Requestor"`
	CampaignName    string `json:"campaignName" label:"Campaign Name" validate:"required"`
	UnitName        string `json:"unitName" label:"Unit Name" validate:"required"`
	IMEIIfAny       string `json:"imeiIfAny,omitempty" label:"IMEI"`
	KOLName         string `json:"kolName" label:"KOL Name" validate:"required"`
	KOLAddress      string `json:"kolAddress" label:"KOL Address" validate:"required"`
	KOLPhoneNumber  string `json:"kolPhoneNumber" label:"KOL Phone Number" validate:"required"`
	DeliveryDate    string `json:"deliveryDate" label:"Delivery Date" validate:"isodate"`
	TypeOfDelivery  string `json:"typeOfDelivery" label:"Type of Delivery" validate:"required"`
	TypeOfFOC       string `json:"typeOfFoc" label:"Type of FOC" validate:"required"`
}

// ReturnPayload is the inbound (return) form.
type ReturnPayload struct {
	Username        string `json:"username" label:"Username" validate:"required"`
	Requestor       string `json:"requestor" label:"Requestor" validate:"required"`
	CustomRequestor string `json:"customRequestor,omitempty" label:"Custom Requestor"`
	UnitName        string `json:"unitName" label:"Unit Name" validate:"required"`
	IMEI            string `json:"imei" label:"IMEI" validate:"required"`
	FromKOL         string `json:"fromKol" label:"From KOL" validate:"required"`
	KOLAddress      string `json:"kolAddress" label:"KOL Address" validate:"required"`
	KOLPhoneNumber  string `json:"kolPhoneNumber" label:"KOL Phone Number" validate:"required"`
	TypeOfFOC       string `json:"typeOfFoc" label:"Type of FOC" validate:"required"`
}

// Result codes for failed actions.
const (
	CodeUnauthorized     = "UNAUTHORIZED"
	CodeValidationFailed = "VALIDATION_FAILED"
	CodeStoreUnavailable = "STORE_UNAVAILABLE"
)

// Result is what mutation handlers return; they never surface errors otherwise.
type Result struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	Code    string `json:"code,omitempty"`
}
