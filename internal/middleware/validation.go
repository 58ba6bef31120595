package middleware

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"indentdesk/internal/analytics"
	apierrors "indentdesk/internal/errors"
)

// maxBodySize caps decoded request bodies
const maxBodySize = 1 << 20

// Validator checks request payloads against their validate tags and
// reports failures with JSON field names
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a validator with the custom rules registered
func NewValidator() *Validator {
	v := validator.New()

	_ = v.RegisterValidation("isodate", isISODate)

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &Validator{validate: v}
}

// ValidateStruct validates a struct and returns an APIError listing every
// failing field
func (v *Validator) ValidateStruct(s interface{}) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return apierrors.InvalidRequestWithError(err)
	}

	validationErrors := make([]apierrors.ValidationError, 0, len(fieldErrors))
	for _, fe := range fieldErrors {
		validationErrors = append(validationErrors, apierrors.ValidationError{
			Field:   fieldPath(fe),
			Message: formatValidationError(fe),
		})
	}
	return apierrors.NewValidationErrors(validationErrors)
}

// DecodeAndValidate decodes a JSON body into dst and validates it
func (v *Validator) DecodeAndValidate(r *http.Request, dst interface{}) error {
	if err := render.DecodeJSON(io.LimitReader(r.Body, maxBodySize), dst); err != nil {
		if errors.Is(err, io.EOF) {
			return apierrors.New(http.StatusBadRequest, apierrors.CodeInvalidRequest, "Request body is empty")
		}
		return apierrors.InvalidRequestWithError(err)
	}
	return v.ValidateStruct(dst)
}

// fieldPath drops the top-level struct name so nested fields read like
// products[0].quantity
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func formatValidationError(fe validator.FieldError) string {
	field := fe.Field()
	param := fe.Param()

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "required_unless":
		return fmt.Sprintf("%s is required for this action", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, param)
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, param)
	case "len":
		return fmt.Sprintf("%s must contain exactly %s entries", field, param)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(param, " ", ", "))
	case "url":
		return fmt.Sprintf("%s must be a valid URL", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, param)
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", field, param)
	case "isodate":
		return fmt.Sprintf("%s must be a date such as 2024-01-31", field)
	default:
		return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
	}
}

// isISODate accepts anything the dashboard date filter can parse
func isISODate(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	_, ok := analytics.ParseDate(value)
	return ok
}
