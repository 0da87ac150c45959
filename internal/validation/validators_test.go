package validation

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/benvon/autoartisan/internal/models"
)

func validCar() models.CarInput {
	return models.CarInput{
		Name:         "Elegance Cruiser X1",
		Brand:        "Prestige Motors",
		Year:         2023,
		Price:        75000,
		Images:       []string{"https://example.com/car.jpg"},
		Features:     []string{"Heated seats"},
		Mileage:      5000,
		FuelType:     models.FuelTypePetrol,
		Transmission: models.TransmissionAutomatic,
	}
}

func TestValidate_CarInput(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		mutate    func(*models.CarInput)
		wantField string
		wantRule  string
	}{
		{name: "valid", mutate: func(*models.CarInput) {}},
		{name: "missing name", mutate: func(c *models.CarInput) { c.Name = "" }, wantField: "name", wantRule: "required"},
		{name: "bad fuel type", mutate: func(c *models.CarInput) { c.FuelType = "Steam" }, wantField: "fuelType", wantRule: "fuel_type"},
		{name: "bad transmission", mutate: func(c *models.CarInput) { c.Transmission = "CVT" }, wantField: "transmission", wantRule: "transmission"},
		{name: "year too old", mutate: func(c *models.CarInput) { c.Year = 1800 }, wantField: "year", wantRule: "min"},
		{name: "negative price", mutate: func(c *models.CarInput) { c.Price = -1 }, wantField: "price", wantRule: "gte"},
		{name: "image not a URL", mutate: func(c *models.CarInput) { c.Images = []string{"not a url"} }, wantField: "images[0]", wantRule: "url"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			car := validCar()
			tt.mutate(&car)
			err := Validate.Struct(car)

			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("Unexpected validation error: %v", err)
				}
				return
			}
			fields, ok := FieldErrors(err)
			if !ok {
				t.Fatalf("Expected validation errors, got %v", err)
			}
			if len(fields) != 1 {
				t.Fatalf("Expected 1 field error, got %v", fields)
			}
			if fields[0].Field != tt.wantField || fields[0].Rule != tt.wantRule {
				t.Errorf("Expected %s/%s, got %s/%s", tt.wantField, tt.wantRule, fields[0].Field, fields[0].Rule)
			}
		})
	}
}

func TestValidate_Settings(t *testing.T) {
	t.Parallel()

	store := models.DefaultStoreSettings()
	if err := Validate.Struct(store); err != nil {
		t.Errorf("Expected default store settings to validate, got %v", err)
	}
	store.HeroMediaType = "gif"
	if err := Validate.Struct(store); err == nil {
		t.Error("Expected invalid hero media type to fail")
	}

	chat := models.DefaultChatWidgetSettings()
	if err := Validate.Struct(chat); err != nil {
		t.Errorf("Expected default chat settings to validate, got %v", err)
	}

	footer := models.DefaultFooterConfig(time.Now())
	if err := Validate.Struct(footer); err != nil {
		t.Errorf("Expected default footer to validate, got %v", err)
	}
	footer.SocialLinks = []models.SocialLink{{Platform: "Facebook", URL: "facebook"}}
	if err := Validate.Struct(footer); err == nil {
		t.Error("Expected social link without a valid URL to fail")
	}
}

func TestValidate_ContactMessage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		msg        models.ContactMessage
		wantFields []string
	}{
		{"valid", models.ContactMessage{Name: "Ana", Email: "ana@example.com", Message: "I would like a test drive."}, nil},
		{"everything wrong", models.ContactMessage{Name: "A", Email: "nope", Message: "short"}, []string{"name", "email", "message"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := Validate.Struct(tt.msg)
			if tt.wantFields == nil {
				if err != nil {
					t.Fatalf("Unexpected error: %v", err)
				}
				return
			}
			fields, ok := FieldErrors(err)
			if !ok {
				t.Fatalf("Expected validation errors, got %v", err)
			}
			var got []string
			for _, f := range fields {
				got = append(got, f.Field)
			}
			if !reflect.DeepEqual(got, tt.wantFields) {
				t.Errorf("Expected fields %v, got %v", tt.wantFields, got)
			}
		})
	}
}

func TestFieldErrors_OtherError(t *testing.T) {
	t.Parallel()
	if _, ok := FieldErrors(errors.New("boom")); ok {
		t.Error("Expected ok=false for a non-validation error")
	}
}

func TestSanitizeText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"  hello  ", "hello"},
		{"line1\nline2\ttab", "line1\nline2\ttab"},
		{"bell\x07", "bell"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := SanitizeText(tt.in); got != tt.want {
			t.Errorf("SanitizeText(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSanitizeList(t *testing.T) {
	t.Parallel()

	got := SanitizeList([]string{" ABS ", "", "  ", "Sunroof"})
	want := []string{"ABS", "Sunroof"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}
}
