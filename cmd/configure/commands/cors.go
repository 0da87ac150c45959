package commands

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/benvon/autoartisan/internal/database"
	"github.com/benvon/autoartisan/internal/models"
	"github.com/spf13/cobra"
)

// NewCorsCmd creates the cors configuration command with list and set subcommands.
func NewCorsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cors",
		Short: "Manage CORS configuration",
		Long:  "List or update the origins allowed to call the API. The server reloads this every minute.",
	}
	cmd.AddCommand(newCorsListCmd())
	cmd.AddCommand(newCorsSetCmd())
	return cmd
}

func newCorsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List current CORS configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDatabase(cmd, func(ctx context.Context, db *database.DB) error {
				c, err := database.NewCorsConfigRepository(db).Get(ctx)
				if err != nil {
					return err
				}
				printCorsConfig(cmd.OutOrStdout(), c)
				return nil
			})
		},
	}
}

func printCorsConfig(out io.Writer, c *models.CorsConfig) {
	if c == nil {
		fmt.Fprintln(out, "No CORS configuration in database. Use 'cors set' to add one.")
		return
	}
	fmt.Fprintln(out, "CORS configuration:")
	for _, origin := range c.Origins() {
		fmt.Fprintf(out, "  Allowed origin: %s\n", origin)
	}
	fmt.Fprintf(out, "  Allow credentials: %v\n", c.AllowCredentials)
	fmt.Fprintf(out, "  Max-Age: %d\n", c.MaxAge)
}

func newCorsSetCmd() *cobra.Command {
	var origins string
	var allowCreds bool
	var maxAge int
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Set CORS configuration",
		Long:  "Update CORS allowed origins (comma-separated). The session cookie needs --allow-credentials.",
		RunE: func(cmd *cobra.Command, args []string) error {
			origins = strings.TrimSpace(origins)
			if origins == "" {
				return fmt.Errorf("--origins is required (comma-separated list)")
			}
			return withDatabase(cmd, func(ctx context.Context, db *database.DB) error {
				c := &models.CorsConfig{
					AllowedOrigins:   origins,
					AllowCredentials: allowCreds,
					MaxAge:           maxAge,
				}
				if err := database.NewCorsConfigRepository(db).Set(ctx, c); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "CORS configuration updated.")
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&origins, "origins", "", "Comma-separated allowed origins (required)")
	cmd.Flags().BoolVar(&allowCreds, "allow-credentials", true, "Allow credentials")
	cmd.Flags().IntVar(&maxAge, "max-age", 86400, "Access-Control-Max-Age (seconds)")
	return cmd
}
