package validator

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// FieldErrors maps a field name to its validation messages. It satisfies the
// error interface so gateway operations can return it in place of an opaque
// error and callers can render per-field feedback.
type FieldErrors map[string][]string

func (e FieldErrors) Error() string {
	fields := make([]string, 0, len(e))
	for field := range e {
		fields = append(fields, field)
	}
	return "validation failed: " + strings.Join(fields, ", ")
}

// Add appends a message for a field
func (e FieldErrors) Add(field, message string) {
	e[field] = append(e[field], message)
}

var validate = validator.New()

func init() {
	// Report fields by their json name so errors match the wire format
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})

	// Custom validation for decimal amounts, which the gt tag cannot inspect
	validate.RegisterValidation("positive_decimal", func(fl validator.FieldLevel) bool {
		if d, ok := fl.Field().Interface().(decimal.Decimal); ok {
			return d.IsPositive()
		}
		return false
	})
}

// ValidateStruct runs tag validation and returns per-field messages,
// or nil when the struct is valid.
func ValidateStruct(data interface{}) FieldErrors {
	err := validate.Struct(data)
	if err == nil {
		return nil
	}

	errs := FieldErrors{}
	for _, fieldErr := range err.(validator.ValidationErrors) {
		errs.Add(fieldErr.Field(), messageFor(fieldErr))
	}
	return errs
}

func messageFor(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "url":
		return "must be a valid URL"
	case "gt":
		return fmt.Sprintf("must be greater than %s", err.Param())
	case "min":
		return fmt.Sprintf("must be at least %s characters", err.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", strings.ReplaceAll(err.Param(), " ", ", "))
	case "positive_decimal":
		return "must be greater than zero"
	default:
		return fmt.Sprintf("failed validation on '%s'", err.Tag())
	}
}
