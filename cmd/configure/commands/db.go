package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/benvon/autoartisan/internal/config"
	"github.com/benvon/autoartisan/internal/database"
	"github.com/spf13/cobra"
)

const commandTimeout = 30 * time.Second

// withDatabase loads configuration, connects, and runs fn with a bounded context.
func withDatabase(cmd *cobra.Command, fn func(ctx context.Context, db *database.DB) error) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	db, err := database.New(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer func() { _ = db.Close() }()

	ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
	defer cancel()
	return fn(ctx, db)
}
