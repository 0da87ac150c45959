package commands

import (
	"context"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/benvon/autoartisan/internal/database"
	"github.com/benvon/autoartisan/internal/models"
	"github.com/spf13/cobra"
)

// NewRatelimitCmd creates the ratelimit configuration command with list and set subcommands.
func NewRatelimitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ratelimit",
		Short: "Manage rate limit configuration",
		Long:  "List or update per-scope rates (e.g. 5-S, 100-M). Scopes: " + strings.Join(models.RatelimitScopes, ", ") + ".",
	}
	cmd.AddCommand(newRatelimitListCmd())
	cmd.AddCommand(newRatelimitSetCmd())
	return cmd
}

func newRatelimitListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the effective rate for every scope",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDatabase(cmd, func(ctx context.Context, db *database.DB) error {
				stored, err := database.NewRatelimitConfigRepository(db).List(ctx)
				if err != nil {
					return err
				}
				printRatelimits(cmd.OutOrStdout(), stored)
				return nil
			})
		},
	}
}

func printRatelimits(out io.Writer, stored []*models.RatelimitConfig) {
	byScope := make(map[string]string, len(stored))
	for _, c := range stored {
		byScope[c.ConfigKey] = c.Rate
	}
	fmt.Fprintln(out, "Rate limits:")
	for _, scope := range models.RatelimitScopes {
		if rate, ok := byScope[scope]; ok {
			fmt.Fprintf(out, "  %-8s %s\n", scope, rate)
		} else {
			fmt.Fprintf(out, "  %-8s %s (default)\n", scope, models.DefaultRate(scope))
		}
	}
}

func newRatelimitSetCmd() *cobra.Command {
	var scope, rate string
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Set the rate for a scope",
		RunE: func(cmd *cobra.Command, args []string) error {
			scope = strings.TrimSpace(scope)
			if !slices.Contains(models.RatelimitScopes, scope) {
				return fmt.Errorf("--scope must be one of %s", strings.Join(models.RatelimitScopes, ", "))
			}
			if strings.TrimSpace(rate) == "" {
				return fmt.Errorf("--rate is required (e.g. 10-M)")
			}
			return withDatabase(cmd, func(ctx context.Context, db *database.DB) error {
				c := &models.RatelimitConfig{ConfigKey: scope, Rate: rate}
				if err := database.NewRatelimitConfigRepository(db).Set(ctx, c); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Rate limit for %s set to %s.\n", scope, strings.TrimSpace(rate))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&scope, "scope", "", "Limiter scope (required)")
	cmd.Flags().StringVar(&rate, "rate", "", "Rate in limiter format, e.g. 5-S, 100-M, 1000-H (required)")
	return cmd
}
