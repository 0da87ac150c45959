package database

import (
	"context"

	"github.com/benvon/autoartisan/internal/models"
	"github.com/google/uuid"
)

// CarRepositoryInterface defines the inventory operations the handlers use.
// This interface enables better testability by allowing mock implementations
type CarRepositoryInterface interface {
	List(ctx context.Context, filter models.CarFilter) ([]*models.Car, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Car, error)
	Create(ctx context.Context, car *models.Car) error
	Update(ctx context.Context, car *models.Car) error
	Delete(ctx context.Context, id uuid.UUID) error
	Brands(ctx context.Context) ([]string, error)
}

// SettingsRepositoryInterface defines the site settings operations.
type SettingsRepositoryInterface interface {
	GetStore(ctx context.Context) (*models.StoreSettings, error)
	SaveStore(ctx context.Context, s *models.StoreSettings) error
	GetFooter(ctx context.Context) (*models.FooterConfig, error)
	SaveFooter(ctx context.Context, f *models.FooterConfig) error
	GetChatWidget(ctx context.Context) (*models.ChatWidgetSettings, error)
	SaveChatWidget(ctx context.Context, c *models.ChatWidgetSettings) error
}

// Ensure concrete types implement the interfaces
var (
	_ CarRepositoryInterface      = (*CarRepository)(nil)
	_ SettingsRepositoryInterface = (*SettingsRepository)(nil)
)
