package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"unicode"

	"github.com/benvon/autoartisan/internal/models"
	"github.com/go-playground/validator/v10"
)

var (
	// Validate is a shared validator instance
	Validate *validator.Validate
)

func init() {
	Validate = validator.New(validator.WithRequiredStructEnabled())

	// Report JSON field names so errors line up with request bodies
	Validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	if err := Validate.RegisterValidation("fuel_type", validateFuelType); err != nil {
		panic(fmt.Sprintf("failed to register fuel_type validator: %v", err))
	}
	if err := Validate.RegisterValidation("transmission", validateTransmission); err != nil {
		panic(fmt.Sprintf("failed to register transmission validator: %v", err))
	}
	if err := Validate.RegisterValidation("hero_media_type", validateHeroMediaType); err != nil {
		panic(fmt.Sprintf("failed to register hero_media_type validator: %v", err))
	}
}

func validateFuelType(fl validator.FieldLevel) bool {
	return models.FuelType(fl.Field().String()).Valid()
}

func validateTransmission(fl validator.FieldLevel) bool {
	return models.Transmission(fl.Field().String()).Valid()
}

func validateHeroMediaType(fl validator.FieldLevel) bool {
	switch models.HeroMediaType(fl.Field().String()) {
	case models.HeroMediaImage, models.HeroMediaVideo:
		return true
	default:
		return false
	}
}

// FieldError is one failed rule on one request field.
type FieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
	Param string `json:"param,omitempty"`
}

// FieldErrors flattens validator errors. The bool is false for any other error.
func FieldErrors(err error) ([]FieldError, bool) {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return nil, false
	}
	out := make([]FieldError, 0, len(validationErrors))
	for _, fe := range validationErrors {
		out = append(out, FieldError{Field: fieldPath(fe), Rule: fe.Tag(), Param: fe.Param()})
	}
	return out, true
}

// fieldPath drops the top-level struct name: "CarInput.images[0]" -> "images[0]".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

// SanitizeText trims whitespace and removes control characters except newline and tab
func SanitizeText(text string) string {
	text = strings.TrimSpace(text)

	var sanitized strings.Builder
	for _, r := range text {
		if unicode.IsControl(r) && r != '\n' && r != '\t' {
			continue
		}
		sanitized.WriteRune(r)
	}

	return sanitized.String()
}

// SanitizeList applies SanitizeText to each entry and drops the empty ones.
func SanitizeList(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s := SanitizeText(item); s != "" {
			out = append(out, s)
		}
	}
	return out
}
