package actions

import (
	"errors"
	"reflect"
	"regexp"

	"github.com/go-playground/validator/v10"
)

var isoDate = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// ValidationError carries the message of the first failing field.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		if label := f.Tag.Get("label"); label != "" {
			return label
		}
		return f.Name
	})
	_ = v.RegisterValidation("isodate", func(fl validator.FieldLevel) bool {
		return isoDate.MatchString(fl.Field().String())
	})
	return v
}

// validatePayload checks a payload and returns a *ValidationError for the
// first failing field in declaration order.
func validatePayload(v *validator.Validate, payload interface{}) error {
	err := v.Struct(payload)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return &ValidationError{Message: "Validation failed"}
	}
	return &ValidationError{Message: fieldMessage(fieldErrs[0])}
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "isodate":
		return "Invalid date format"
	default:
		return fe.Field() + " is invalid"
	}
}
