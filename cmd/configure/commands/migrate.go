package commands

import (
	"context"
	"fmt"

	"github.com/benvon/autoartisan/internal/database"
	"github.com/spf13/cobra"
)

// NewMigrateCmd applies pending schema migrations.
func NewMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDatabase(cmd, func(ctx context.Context, db *database.DB) error {
				applied, err := db.Migrate(ctx)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(applied) == 0 {
					fmt.Fprintln(out, "Schema is up to date.")
					return nil
				}
				for _, v := range applied {
					fmt.Fprintf(out, "Applied %s\n", v)
				}
				return nil
			})
		},
	}
}
