package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"catalogapi/internal/config"
	"catalogapi/internal/database"
	"catalogapi/internal/logging"
)

// env is what every subcommand needs, built once in PersistentPreRunE.
type env struct {
	cfg *config.AppConfig
	log *zap.Logger
}

func newRootCmd() *cobra.Command {
	var (
		noColor bool
		e       env
	)

	root := &cobra.Command{
		Use:   "catalogctl",
		Short: "Maintain the catalog database and cover storage",
		Long: `catalogctl runs maintenance tasks for the catalog API.

Configuration comes from the same environment variables as the API
(DB_*, STORAGE_BACKEND, UPLOAD_DIR, MINIO_*), a .env file is loaded if present.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if noColor || !isTTY() {
				color.NoColor = true
			}
			e.cfg = config.Load()
			log, err := logging.NewWithWriter(cmd.ErrOrStderr(), e.cfg.Log.Level, e.cfg.Location())
			if err != nil {
				return err
			}
			e.log = log
			return nil
		},
	}
	root.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")

	root.AddCommand(
		newMigrateCmd(&e),
		newVerifyCmd(&e),
	)
	return root
}

// openDB connects to the configured database. The maintenance commands have no meaning against
// an in-memory SQLite database, which is gone when the process exits.
func (e *env) openDB(ctx context.Context) (*sql.DB, database.Dialect, error) {
	if e.cfg.Database.InMemory() {
		return nil, "", fmt.Errorf("DB_DRIVER=sqlite without DB_PATH keeps no state between processes, nothing to maintain")
	}
	return database.Open(ctx, e.cfg.Database)
}

// target names the database in log lines.
func (e *env) target(dialect database.Dialect) string {
	if dialect == database.SQLite {
		return e.cfg.Database.Path
	}
	return e.cfg.Database.Host
}

func isTTY() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return (fi.Mode() & os.ModeCharDevice) != 0
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
