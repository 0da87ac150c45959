package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// FuelType is the engine fuel of a listed car
type FuelType string

const (
	FuelTypePetrol   FuelType = "Petrol"
	FuelTypeDiesel   FuelType = "Diesel"
	FuelTypeElectric FuelType = "Electric"
	FuelTypeHybrid   FuelType = "Hybrid"
)

// Valid reports whether f is one of the known fuel types.
func (f FuelType) Valid() bool {
	switch f {
	case FuelTypePetrol, FuelTypeDiesel, FuelTypeElectric, FuelTypeHybrid:
		return true
	}
	return false
}

// Transmission is the gearbox of a listed car
type Transmission string

const (
	TransmissionAutomatic Transmission = "Automatic"
	TransmissionManual    Transmission = "Manual"
)

// Valid reports whether t is one of the known transmissions.
func (t Transmission) Valid() bool {
	return t == TransmissionAutomatic || t == TransmissionManual
}

// Car is an inventory listing
type Car struct {
	ID           uuid.UUID    `json:"id"`
	Name         string       `json:"name"`
	Brand        string       `json:"brand"`
	Year         int          `json:"year"`
	Price        float64      `json:"price"`
	Description  string       `json:"description"`
	Images       []string     `json:"images"`
	Features     []string     `json:"features"`
	Mileage      int          `json:"mileage"`
	FuelType     FuelType     `json:"fuelType"`
	Transmission Transmission `json:"transmission"`
	EngineSize   string       `json:"engineSize"`
	Color        string       `json:"color"`
	CreatedAt    time.Time    `json:"createdAt"`
	UpdatedAt    time.Time    `json:"updatedAt"`
}

// CarInput is the writable part of a Car, as submitted from the panel.
type CarInput struct {
	Name         string       `json:"name" validate:"required,max=200"`
	Brand        string       `json:"brand" validate:"required,max=100"`
	Year         int          `json:"year" validate:"required,min=1886,max=2100"`
	Price        float64      `json:"price" validate:"gte=0"`
	Description  string       `json:"description" validate:"max=10000"`
	Images       []string     `json:"images" validate:"max=50,dive,url"`
	Features     []string     `json:"features" validate:"max=100,dive,max=200"`
	Mileage      int          `json:"mileage" validate:"gte=0"`
	FuelType     FuelType     `json:"fuelType" validate:"required,fuel_type"`
	Transmission Transmission `json:"transmission" validate:"required,transmission"`
	EngineSize   string       `json:"engineSize" validate:"max=50"`
	Color        string       `json:"color" validate:"max=50"`
}

// Apply copies the input onto the car, normalizing nil slices to empty ones.
func (in CarInput) Apply(car *Car) {
	car.Name = strings.TrimSpace(in.Name)
	car.Brand = strings.TrimSpace(in.Brand)
	car.Year = in.Year
	car.Price = in.Price
	car.Description = in.Description
	car.Images = nonNil(in.Images)
	car.Features = nonNil(in.Features)
	car.Mileage = in.Mileage
	car.FuelType = in.FuelType
	car.Transmission = in.Transmission
	car.EngineSize = in.EngineSize
	car.Color = in.Color
}

// CarFilter narrows the public listing.
type CarFilter struct {
	Query string // case-insensitive substring of name or brand
	Brand string // exact brand
}

// Matches reports whether the car passes the filter.
func (f CarFilter) Matches(car *Car) bool {
	if f.Brand != "" && car.Brand != f.Brand {
		return false
	}
	if q := strings.ToLower(strings.TrimSpace(f.Query)); q != "" {
		return strings.Contains(strings.ToLower(car.Name), q) ||
			strings.Contains(strings.ToLower(car.Brand), q)
	}
	return true
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
