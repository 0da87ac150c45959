package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/benvon/autoartisan/internal/database"
	"github.com/benvon/autoartisan/internal/models"
	"github.com/benvon/autoartisan/internal/validation"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// CarHandler handles inventory requests
type CarHandler struct {
	repo   database.CarRepositoryInterface
	logger *zap.Logger
}

// NewCarHandler creates a new car handler
func NewCarHandler(repo database.CarRepositoryInterface, logger *zap.Logger) *CarHandler {
	return &CarHandler{repo: repo, logger: logger}
}

// RegisterRoutes registers the public inventory routes.
// The router should already have the /api/cars prefix
func (h *CarHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("", h.ListCars).Methods("GET")
	r.HandleFunc("/brands", h.ListBrands).Methods("GET")
	r.HandleFunc("/{id}", h.GetCar).Methods("GET")
}

// RegisterPanelRoutes registers the inventory editing routes.
// The router should already have the /api/panel/cars prefix and the session middleware
func (h *CarHandler) RegisterPanelRoutes(r *mux.Router) {
	r.HandleFunc("", h.CreateCar).Methods("POST")
	r.HandleFunc("/{id}", h.UpdateCar).Methods("PUT")
	r.HandleFunc("/{id}", h.DeleteCar).Methods("DELETE")
}

// ListCars lists cars, optionally filtered by ?q= and ?brand=
func (h *CarHandler) ListCars(w http.ResponseWriter, r *http.Request) {
	filter := models.CarFilter{
		Query: strings.TrimSpace(r.URL.Query().Get("q")),
		Brand: strings.TrimSpace(r.URL.Query().Get("brand")),
	}

	cars, err := h.repo.List(r.Context(), filter)
	if err != nil {
		h.logger.Error("failed_to_list_cars", zap.Error(err))
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to list cars")
		return
	}

	respondJSON(w, http.StatusOK, cars)
}

// ListBrands returns the distinct brands in stock
func (h *CarHandler) ListBrands(w http.ResponseWriter, r *http.Request) {
	brands, err := h.repo.Brands(r.Context())
	if err != nil {
		h.logger.Error("failed_to_list_brands", zap.Error(err))
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to list brands")
		return
	}

	respondJSON(w, http.StatusOK, brands)
}

// GetCar retrieves a car by ID
func (h *CarHandler) GetCar(w http.ResponseWriter, r *http.Request) {
	id, ok := carID(w, r)
	if !ok {
		return
	}

	car, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		h.respondRepoError(w, err, "Failed to get car")
		return
	}

	respondJSON(w, http.StatusOK, car)
}

// CreateCar adds a car to the inventory
func (h *CarHandler) CreateCar(w http.ResponseWriter, r *http.Request) {
	input, ok := decodeCarInput(w, r)
	if !ok {
		return
	}

	car := &models.Car{}
	input.Apply(car)
	if err := h.repo.Create(r.Context(), car); err != nil {
		h.logger.Error("failed_to_create_car", zap.Error(err))
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to create car")
		return
	}

	respondJSON(w, http.StatusCreated, car)
}

// UpdateCar replaces the writable fields of a car
func (h *CarHandler) UpdateCar(w http.ResponseWriter, r *http.Request) {
	id, ok := carID(w, r)
	if !ok {
		return
	}
	input, ok := decodeCarInput(w, r)
	if !ok {
		return
	}

	car := &models.Car{ID: id}
	input.Apply(car)
	if err := h.repo.Update(r.Context(), car); err != nil {
		h.respondRepoError(w, err, "Failed to update car")
		return
	}

	respondJSON(w, http.StatusOK, car)
}

// DeleteCar removes a car
func (h *CarHandler) DeleteCar(w http.ResponseWriter, r *http.Request) {
	id, ok := carID(w, r)
	if !ok {
		return
	}

	if err := h.repo.Delete(r.Context(), id); err != nil {
		h.respondRepoError(w, err, "Failed to delete car")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *CarHandler) respondRepoError(w http.ResponseWriter, err error, message string) {
	if errors.Is(err, database.ErrNotFound) {
		respondJSONError(w, http.StatusNotFound, "Not Found", "Car not found")
		return
	}
	h.logger.Error("car_repository_failed", zap.Error(err))
	respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", message)
}

func carID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid car ID")
		return uuid.Nil, false
	}
	return id, true
}

func decodeCarInput(w http.ResponseWriter, r *http.Request) (models.CarInput, bool) {
	var input models.CarInput
	if err := decodeJSON(r, &input); err != nil {
		respondDecodeError(w, err)
		return input, false
	}

	input.Name = validation.SanitizeText(input.Name)
	input.Brand = validation.SanitizeText(input.Brand)
	input.Description = validation.SanitizeText(input.Description)
	input.Features = validation.SanitizeList(input.Features)
	input.Images = validation.SanitizeList(input.Images)

	return input, validateOrRespond(w, input)
}

// validateOrRespond answers 400 with per-field errors when v fails validation.
func validateOrRespond(w http.ResponseWriter, v any) bool {
	err := validation.Validate.Struct(v)
	if err == nil {
		return true
	}
	if fields, ok := validation.FieldErrors(err); ok {
		respondJSONErrorDetails(w, http.StatusBadRequest, "Bad Request", "Validation failed", fields)
		return false
	}
	respondJSONError(w, http.StatusBadRequest, "Bad Request", "Validation failed")
	return false
}
