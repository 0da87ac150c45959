package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/benvon/autoartisan/internal/models"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

const carColumns = `id, name, brand, year, price, description, images, features, mileage,
	fuel_type, transmission, engine_size, color, created_at, updated_at`

// CarRepository handles inventory persistence
type CarRepository struct {
	db  *DB
	now func() time.Time
}

// NewCarRepository creates a new car repository
func NewCarRepository(db *DB) *CarRepository {
	return &CarRepository{db: db, now: time.Now}
}

// List returns the cars matching filter, newest first.
func (r *CarRepository) List(ctx context.Context, filter models.CarFilter) ([]*models.Car, error) {
	pattern := ""
	if q := strings.TrimSpace(filter.Query); q != "" {
		pattern = "%" + escapeLike(q) + "%"
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT `+carColumns+`
		FROM cars
		WHERE ($1 = '' OR name ILIKE $1 OR brand ILIKE $1)
		  AND ($2 = '' OR brand = $2)
		ORDER BY created_at DESC
	`, pattern, strings.TrimSpace(filter.Brand))
	if err != nil {
		return nil, fmt.Errorf("list cars: %w", err)
	}
	defer rows.Close()

	cars := []*models.Car{}
	for rows.Next() {
		car, err := scanCar(rows)
		if err != nil {
			return nil, fmt.Errorf("scan car: %w", err)
		}
		cars = append(cars, car)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list cars: %w", err)
	}
	return cars, nil
}

// GetByID returns ErrNotFound when no car has id.
func (r *CarRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Car, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+carColumns+` FROM cars WHERE id = $1`, id)
	car, err := scanCar(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get car: %w", err)
	}
	return car, nil
}

// Create inserts car, assigning its id and timestamps.
func (r *CarRepository) Create(ctx context.Context, car *models.Car) error {
	car.ID = uuid.New()
	now := r.now().UTC()
	car.CreatedAt = now
	car.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO cars (`+carColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`,
		car.ID, car.Name, car.Brand, car.Year, car.Price, car.Description,
		pq.Array(car.Images), pq.Array(car.Features), car.Mileage,
		string(car.FuelType), string(car.Transmission), car.EngineSize, car.Color,
		car.CreatedAt, car.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create car: %w", err)
	}
	return nil
}

// Update overwrites the writable fields of car. Returns ErrNotFound when the id is unknown.
func (r *CarRepository) Update(ctx context.Context, car *models.Car) error {
	car.UpdatedAt = r.now().UTC()

	err := r.db.QueryRowContext(ctx, `
		UPDATE cars SET
			name = $2, brand = $3, year = $4, price = $5, description = $6,
			images = $7, features = $8, mileage = $9, fuel_type = $10,
			transmission = $11, engine_size = $12, color = $13, updated_at = $14
		WHERE id = $1
		RETURNING created_at
	`,
		car.ID, car.Name, car.Brand, car.Year, car.Price, car.Description,
		pq.Array(car.Images), pq.Array(car.Features), car.Mileage,
		string(car.FuelType), string(car.Transmission), car.EngineSize, car.Color,
		car.UpdatedAt,
	).Scan(&car.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("update car: %w", err)
	}
	return nil
}

// Delete removes the car with id. Returns ErrNotFound when nothing was deleted.
func (r *CarRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM cars WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete car: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete car: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// Brands returns the distinct brands in inventory, sorted.
func (r *CarRepository) Brands(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT DISTINCT brand FROM cars ORDER BY brand`)
	if err != nil {
		return nil, fmt.Errorf("list brands: %w", err)
	}
	defer rows.Close()

	brands := []string{}
	for rows.Next() {
		var brand string
		if err := rows.Scan(&brand); err != nil {
			return nil, fmt.Errorf("scan brand: %w", err)
		}
		brands = append(brands, brand)
	}
	return brands, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCar(row rowScanner) (*models.Car, error) {
	car := &models.Car{}
	var fuelType, transmission string
	err := row.Scan(
		&car.ID, &car.Name, &car.Brand, &car.Year, &car.Price, &car.Description,
		pq.Array(&car.Images), pq.Array(&car.Features), &car.Mileage,
		&fuelType, &transmission, &car.EngineSize, &car.Color,
		&car.CreatedAt, &car.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	car.FuelType = models.FuelType(fuelType)
	car.Transmission = models.Transmission(transmission)
	if car.Images == nil {
		car.Images = []string{}
	}
	if car.Features == nil {
		car.Features = []string{}
	}
	return car, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
