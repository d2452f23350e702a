// Package actions appends request and return rows to the action logs.
package actions

import (
	"context"
	"errors"
	"log"
	"time"

	"foc-inventory-api/internal/auth"
	"foc-inventory-api/internal/inventory"
	"foc-inventory-api/internal/models"
	"foc-inventory-api/internal/sheets"

	"github.com/go-playground/validator/v10"
)

// Append targets reported to an AppendObserver.
const (
	TargetRequest = "request"
	TargetReturn  = "return"
)

const (
	requestFailed = "Failed to request unit due to a server error."
	returnFailed  = "Failed to return unit due to a server error."
	otherOption   = "Other"
)

// Invalidator drops the cached inventory after a write.
type Invalidator interface {
	Invalidate()
}

// AppendObserver receives append outcomes, typically for metrics.
type AppendObserver interface {
	ObserveAppend(target, outcome string)
}

// Config holds the Service collaborators.
type Config struct {
	Store       sheets.Store
	Cache       Invalidator
	Layout      sheets.Layout
	Location    *time.Location
	EmailDomain string
	Now         func() time.Time
	Observer    AppendObserver
}

// Service validates action payloads and appends them to the logs. It
// reports every failure through models.Result.
type Service struct {
	cfg      Config
	validate *validator.Validate
}

// NewService creates a Service. Location defaults to UTC and Now to time.Now.
func NewService(cfg Config) *Service {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Service{cfg: cfg, validate: newValidator()}
}

// RequestUnit appends an outbound request.
func (s *Service) RequestUnit(ctx context.Context, p models.RequestPayload) models.Result {
	if !auth.AuthorizedFromContext(ctx) {
		return models.Result{Error: auth.UnauthorizedMessage, Code: models.CodeUnauthorized}
	}
	if err := validatePayload(s.validate, p); err != nil {
		return failure(err)
	}

	row := []string{
		s.timestamp(),
		s.email(p.Username),
		finalRequestor(p.Requestor, p.CustomRequestor),
		p.CampaignName,
		p.UnitName,
		p.IMEIIfAny,
		p.KOLName,
		p.KOLAddress,
		p.KOLPhoneNumber,
		p.DeliveryDate,
		p.TypeOfDelivery,
		p.TypeOfFOC,
	}
	return s.append(ctx, TargetRequest, s.cfg.Layout.Ranges.RequestAppend, row, requestFailed)
}

// ReturnUnit appends an inbound return.
func (s *Service) ReturnUnit(ctx context.Context, p models.ReturnPayload) models.Result {
	if !auth.AuthorizedFromContext(ctx) {
		return models.Result{Error: auth.UnauthorizedMessage, Code: models.CodeUnauthorized}
	}
	if err := validatePayload(s.validate, p); err != nil {
		return failure(err)
	}

	row := []string{
		s.timestamp(),
		s.email(p.Username),
		finalRequestor(p.Requestor, p.CustomRequestor),
		p.UnitName,
		p.IMEI,
		p.FromKOL,
		p.KOLAddress,
		p.KOLPhoneNumber,
		p.TypeOfFOC,
	}
	return s.append(ctx, TargetReturn, s.cfg.Layout.Ranges.ReturnAppend, row, returnFailed)
}

func (s *Service) append(ctx context.Context, target, rangeName string, row []string, failText string) models.Result {
	if err := s.cfg.Store.AppendRow(ctx, rangeName, row); err != nil {
		log.Printf("actions: append %s to %q: %v", target, rangeName, err)
		s.observe(target, "error")
		return models.Result{Error: failText, Code: models.CodeStoreUnavailable}
	}
	s.observe(target, "ok")
	if s.cfg.Cache != nil {
		s.cfg.Cache.Invalidate()
	}
	return models.Result{Success: true}
}

func (s *Service) observe(target, outcome string) {
	if s.cfg.Observer != nil {
		s.cfg.Observer.ObserveAppend(target, outcome)
	}
}

func (s *Service) timestamp() string {
	return s.cfg.Now().In(s.cfg.Location).Format(inventory.LocaleTimestampLayout)
}

func (s *Service) email(username string) string {
	return username + "@" + s.cfg.EmailDomain
}

func finalRequestor(requestor, custom string) string {
	if requestor != otherOption {
		return requestor
	}
	if custom == "" {
		return otherOption
	}
	return custom
}

func failure(err error) models.Result {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return models.Result{Error: ve.Message, Code: models.CodeValidationFailed}
	}
	return models.Result{Error: "Validation failed", Code: models.CodeValidationFailed}
}
