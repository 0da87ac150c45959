package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/benvon/autoartisan/internal/models"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

func sampleCar(name, brand string) *models.Car {
	return &models.Car{
		ID:           uuid.New(),
		Name:         name,
		Brand:        brand,
		Year:         2023,
		Price:        75000,
		Images:       []string{},
		Features:     []string{},
		FuelType:     models.FuelTypePetrol,
		Transmission: models.TransmissionAutomatic,
	}
}

func validCarInput() models.CarInput {
	return models.CarInput{
		Name:         "Elegance Cruiser X1",
		Brand:        "Prestige Motors",
		Year:         2023,
		Price:        75000,
		Images:       []string{"https://example.com/car.jpg"},
		Features:     []string{" Heated seats ", ""},
		FuelType:     models.FuelTypeHybrid,
		Transmission: models.TransmissionManual,
	}
}

func carRouter(h *CarHandler) *mux.Router {
	r := mux.NewRouter()
	h.RegisterRoutes(r.PathPrefix("/api/cars").Subrouter())
	h.RegisterPanelRoutes(r.PathPrefix("/api/panel/cars").Subrouter())
	return r
}

func TestCarHandler_ListCars(t *testing.T) {
	t.Parallel()

	repo := newMockCarRepo(
		sampleCar("Elegance Cruiser X1", "Prestige Motors"),
		sampleCar("Speedster GT", "Velocity Inc."),
	)
	router := carRouter(NewCarHandler(repo, zap.NewNop()))

	tests := []struct {
		name      string
		url       string
		wantCount int
	}{
		{"all", "/api/cars", 2},
		{"query matches brand case-insensitively", "/api/cars?q=velocity", 1},
		{"exact brand", "/api/cars?brand=Prestige%20Motors", 1},
		{"brand is exact", "/api/cars?brand=prestige", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest("GET", tt.url, nil))

			if w.Code != http.StatusOK {
				t.Fatalf("Expected status 200, got %d", w.Code)
			}
			var cars []*models.Car
			decodeEnvelope(t, w, &cars)
			if cars == nil {
				t.Fatal("Expected an array, got null")
			}
			if len(cars) != tt.wantCount {
				t.Errorf("Expected %d cars, got %d", tt.wantCount, len(cars))
			}
		})
	}
}

func TestCarHandler_GetCar(t *testing.T) {
	t.Parallel()

	car := sampleCar("Elegance Cruiser X1", "Prestige Motors")
	router := carRouter(NewCarHandler(newMockCarRepo(car), zap.NewNop()))

	tests := []struct {
		name       string
		path       string
		wantStatus int
	}{
		{"found", "/api/cars/" + car.ID.String(), http.StatusOK},
		{"missing", "/api/cars/" + uuid.NewString(), http.StatusNotFound},
		{"invalid id", "/api/cars/not-a-uuid", http.StatusBadRequest},
		{"brands route is not an id", "/api/cars/brands", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest("GET", tt.path, nil))
			if w.Code != tt.wantStatus {
				t.Errorf("Expected status %d, got %d", tt.wantStatus, w.Code)
			}
		})
	}
}

func TestCarHandler_CreateCar(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		mutate     func(*models.CarInput)
		wantStatus int
		wantField  string
	}{
		{"valid", func(*models.CarInput) {}, http.StatusCreated, ""},
		{"missing brand", func(c *models.CarInput) { c.Brand = "   " }, http.StatusBadRequest, "brand"},
		{"unknown fuel", func(c *models.CarInput) { c.FuelType = "Steam" }, http.StatusBadRequest, "fuelType"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			repo := newMockCarRepo()
			router := carRouter(NewCarHandler(repo, zap.NewNop()))

			input := validCarInput()
			tt.mutate(&input)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, newTestRequest("POST", "/api/panel/cars", input))

			if w.Code != tt.wantStatus {
				t.Fatalf("Expected status %d, got %d (%s)", tt.wantStatus, w.Code, w.Body.String())
			}

			if tt.wantField != "" {
				body := decodeEnvelope(t, w, nil)
				details, _ := body["details"].([]any)
				if len(details) == 0 {
					t.Fatal("Expected field details")
				}
				first, _ := details[0].(map[string]any)
				if first["field"] != tt.wantField {
					t.Errorf("Expected field %s, got %v", tt.wantField, first["field"])
				}
				return
			}

			var car models.Car
			decodeEnvelope(t, w, &car)
			if car.ID == uuid.Nil {
				t.Error("Expected generated ID")
			}
			if len(car.Features) != 1 || car.Features[0] != "Heated seats" {
				t.Errorf("Expected sanitized features [Heated seats], got %v", car.Features)
			}
			if len(repo.cars) != 1 {
				t.Errorf("Expected car to be stored, repo has %d", len(repo.cars))
			}
		})
	}
}

func TestCarHandler_UpdateAndDelete(t *testing.T) {
	t.Parallel()

	car := sampleCar("Old Name", "Prestige Motors")
	repo := newMockCarRepo(car)
	router := carRouter(NewCarHandler(repo, zap.NewNop()))

	input := validCarInput()
	input.Name = "New Name"
	w := httptest.NewRecorder()
	router.ServeHTTP(w, newTestRequest("PUT", "/api/panel/cars/"+car.ID.String(), input))
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if repo.cars[car.ID].Name != "New Name" {
		t.Errorf("Expected name to be updated, got %s", repo.cars[car.ID].Name)
	}

	w = httptest.NewRecorder()
	router.ServeHTTP(w, newTestRequest("PUT", "/api/panel/cars/"+uuid.NewString(), input))
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404 for unknown car, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("DELETE", "/api/panel/cars/"+car.ID.String(), nil))
	if w.Code != http.StatusNoContent {
		t.Errorf("Expected status 204, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("DELETE", "/api/panel/cars/"+car.ID.String(), nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404 on second delete, got %d", w.Code)
	}
}

func TestCarHandler_RepositoryFailure(t *testing.T) {
	t.Parallel()

	repo := newMockCarRepo()
	repo.err = errors.New("connection refused")
	router := carRouter(NewCarHandler(repo, zap.NewNop()))

	for _, path := range []string{"/api/cars", "/api/cars/brands", "/api/cars/" + uuid.NewString()} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("GET", path, nil))
		if w.Code != http.StatusInternalServerError {
			t.Errorf("%s: expected status 500, got %d", path, w.Code)
		}
	}
}
