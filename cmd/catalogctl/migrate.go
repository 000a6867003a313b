package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"catalogapi/internal/database/migration"
)

func newMigrateCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the catalog schema if it does not exist",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd)
			db, dialect, err := e.openDB(ctx)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := migration.EnsureMigrated(ctx, db, dialect, e.log, e.target(dialect)); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), color.GreenString("✓"), "schema is up to date")
			return nil
		},
	}
}
