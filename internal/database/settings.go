package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/benvon/autoartisan/internal/models"
)

// SettingsRepository persists the singleton site documents as JSONB.
type SettingsRepository struct {
	db  *DB
	now func() time.Time
}

// NewSettingsRepository creates a new settings repository
func NewSettingsRepository(db *DB) *SettingsRepository {
	return &SettingsRepository{db: db, now: time.Now}
}

// GetStore returns the store settings, or the defaults when none are saved.
func (r *SettingsRepository) GetStore(ctx context.Context) (*models.StoreSettings, error) {
	s := models.DefaultStoreSettings()
	if _, err := r.get(ctx, models.SettingsKeyStore, &s); err != nil {
		return nil, err
	}
	s.Normalize()
	return &s, nil
}

// SaveStore stores the store settings.
func (r *SettingsRepository) SaveStore(ctx context.Context, s *models.StoreSettings) error {
	s.Normalize()
	return r.put(ctx, models.SettingsKeyStore, s)
}

// GetFooter returns the footer, or the default footer when none is saved.
func (r *SettingsRepository) GetFooter(ctx context.Context) (*models.FooterConfig, error) {
	f := models.DefaultFooterConfig(r.now())
	found, err := r.get(ctx, models.SettingsKeyFooter, &f)
	if err != nil {
		return nil, err
	}
	if found && f.SocialLinks == nil {
		f.SocialLinks = []models.SocialLink{}
	}
	return &f, nil
}

// SaveFooter stores the footer.
func (r *SettingsRepository) SaveFooter(ctx context.Context, f *models.FooterConfig) error {
	if f.SocialLinks == nil {
		f.SocialLinks = []models.SocialLink{}
	}
	return r.put(ctx, models.SettingsKeyFooter, f)
}

// GetChatWidget returns the chat widget settings, or the defaults when none are saved.
func (r *SettingsRepository) GetChatWidget(ctx context.Context) (*models.ChatWidgetSettings, error) {
	c := models.DefaultChatWidgetSettings()
	if _, err := r.get(ctx, models.SettingsKeyChatWidget, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// SaveChatWidget stores the chat widget settings.
func (r *SettingsRepository) SaveChatWidget(ctx context.Context, c *models.ChatWidgetSettings) error {
	return r.put(ctx, models.SettingsKeyChatWidget, c)
}

// get decodes the stored document over dest, so fields missing from the document keep
// the values dest already holds.
func (r *SettingsRepository) get(ctx context.Context, key string, dest any) (bool, error) {
	var raw []byte
	err := r.db.QueryRowContext(ctx, `SELECT value FROM site_settings WHERE settings_key = $1`, key).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("get settings %s: %w", key, err)
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return false, fmt.Errorf("decode settings %s: %w", key, err)
	}
	return true, nil
}

func (r *SettingsRepository) put(ctx context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode settings %s: %w", key, err)
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO site_settings (settings_key, value, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (settings_key) DO UPDATE SET
			value = EXCLUDED.value,
			updated_at = EXCLUDED.updated_at
	`, key, raw, r.now().UTC())
	if err != nil {
		return fmt.Errorf("save settings %s: %w", key, err)
	}
	return nil
}
