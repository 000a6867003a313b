package migration

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"

	"catalogapi/internal/database"
)

type migrationStep struct {
	Name string
	SQL  string
}

// schema is one dialect's ordered steps and the query that reports whether they already ran.
type schema struct {
	sentinel string
	steps    []migrationStep
}

var schemas = map[database.Dialect]schema{
	database.Postgres: {
		sentinel: "SELECT to_regclass('public.entries') IS NOT NULL",
		steps:    postgresSteps,
	},
	database.SQLite: {
		sentinel: "SELECT EXISTS (SELECT 1 FROM sqlite_master WHERE type = 'table' AND name = 'entries')",
		steps:    sqliteSteps,
	},
}

// Constraint names are referenced by the repositories when translating violations.
var postgresSteps = []migrationStep{
	{
		Name: "create_table_roles",
		SQL: `CREATE TABLE IF NOT EXISTS roles (
  id          BIGSERIAL    PRIMARY KEY,
  name        VARCHAR(64)  NOT NULL,
  description VARCHAR(100) NOT NULL,
  CONSTRAINT roles_name_key UNIQUE (name)
);`,
	},
	{
		Name: "seed_roles",
		SQL: `INSERT INTO roles (name, description) VALUES
  ('admin', 'Administrator'),
  ('mod',   'Moderator'),
  ('user',  'User')
ON CONFLICT (name) DO NOTHING;`,
	},
	{
		Name: "create_table_users",
		SQL: `CREATE TABLE IF NOT EXISTS users (
  id            BIGSERIAL    PRIMARY KEY,
  login         VARCHAR(32)  NOT NULL,
  password_hash VARCHAR(300) NOT NULL DEFAULT '',
  last_name     VARCHAR(64)  NOT NULL,
  first_name    VARCHAR(64)  NOT NULL,
  middle_name   VARCHAR(64),
  role_id       BIGINT       NOT NULL REFERENCES roles (id),
  CONSTRAINT users_login_key UNIQUE (login)
);`,
	},
	{
		Name: "create_table_tags",
		SQL: `CREATE TABLE IF NOT EXISTS tags (
  id   BIGSERIAL    PRIMARY KEY,
  name VARCHAR(200) NOT NULL,
  CONSTRAINT tags_name_key UNIQUE (name)
);`,
	},
	{
		Name: "create_table_assets",
		SQL: `CREATE TABLE IF NOT EXISTS assets (
  id           BIGSERIAL    PRIMARY KEY,
  digest       TEXT         NOT NULL,
  content_type VARCHAR(200) NOT NULL,
  stored_name  VARCHAR(200) NOT NULL,
  created_at   TIMESTAMPTZ  NOT NULL DEFAULT now(),
  CONSTRAINT assets_digest_key UNIQUE (digest),
  CONSTRAINT assets_stored_name_key UNIQUE (stored_name)
);`,
	},
	{
		Name: "create_table_entries",
		SQL: `CREATE TABLE IF NOT EXISTS entries (
  id          BIGSERIAL    PRIMARY KEY,
  title       VARCHAR(200) NOT NULL,
  description TEXT         NOT NULL,
  year        SMALLINT     NOT NULL,
  label       VARCHAR(64)  NOT NULL,
  author      VARCHAR(64)  NOT NULL,
  pages       INTEGER      NOT NULL CHECK (pages > 0),
  asset_id    BIGINT,
  created_at  TIMESTAMPTZ  NOT NULL DEFAULT now(),
  CONSTRAINT entries_title_key UNIQUE (title),
  CONSTRAINT entries_asset_id_fkey FOREIGN KEY (asset_id) REFERENCES assets (id)
);`,
	},
	{
		Name: "create_index_entries_asset_id",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_entries_asset_id ON entries (asset_id);`,
	},
	{
		Name: "create_index_entries_year",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_entries_year ON entries (year DESC);`,
	},
	{
		Name: "create_table_entry_tags",
		SQL: `CREATE TABLE IF NOT EXISTS entry_tags (
  entry_id BIGINT NOT NULL REFERENCES entries (id),
  tag_id   BIGINT NOT NULL REFERENCES tags (id),
  CONSTRAINT entry_tags_pkey PRIMARY KEY (entry_id, tag_id)
);`,
	},
	{
		Name: "create_table_reviews",
		SQL: `CREATE TABLE IF NOT EXISTS reviews (
  entry_id   BIGINT      NOT NULL REFERENCES entries (id),
  user_id    BIGINT      NOT NULL REFERENCES users (id),
  score      SMALLINT    NOT NULL CHECK (score BETWEEN 0 AND 5),
  text       TEXT        NOT NULL,
  created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
  CONSTRAINT reviews_pkey PRIMARY KEY (entry_id, user_id)
);`,
	},
}

// EnsureMigrated checks if the 'entries' table exists and runs the dialect's migrations if it doesn't.
// target only labels the log lines (host or file path).
func EnsureMigrated(ctx context.Context, db *sql.DB, dialect database.Dialect, log *zap.Logger, target string) error {
	if log == nil {
		log = zap.NewNop()
	}
	sc, ok := schemas[dialect]
	if !ok {
		return fmt.Errorf("no schema for dialect %q", dialect)
	}
	log = log.With(
		zap.String("component", "database"),
		zap.String("db_dialect", string(dialect)),
		zap.String("db_target", target),
	)
	start := time.Now()

	log.Info("db_migration_check", zap.String("status", "starting"))

	var exists bool
	if err := db.QueryRowContext(ctx, sc.sentinel).Scan(&exists); err != nil {
		log.Error("db_migration_failed",
			zap.String("status", "error"),
			zap.String("error_message", fmt.Sprintf("failed to check sentinel table: %v", err)),
			zap.Int64("duration_ms", time.Since(start).Milliseconds()),
		)
		return fmt.Errorf("failed to check sentinel table: %w", err)
	}

	if exists {
		log.Info("db_migration_skip",
			zap.String("status", "success"),
			zap.String("detail", "schema already exists, skipping migration"),
			zap.Int64("duration_ms", time.Since(start).Milliseconds()),
		)
		return nil
	}

	log.Info("db_migration_start", zap.String("status", "in_progress"))

	for _, step := range sc.steps {
		stepStart := time.Now()
		if _, err := db.ExecContext(ctx, step.SQL); err != nil {
			log.Error("db_migration_failed",
				zap.String("status", "error"),
				zap.String("migration_step", step.Name),
				zap.String("error_message", err.Error()),
				zap.Int64("duration_ms", time.Since(start).Milliseconds()),
				zap.Int64("step_duration_ms", time.Since(stepStart).Milliseconds()),
			)
			return fmt.Errorf("migration step %s failed: %w", step.Name, err)
		}

		log.Info("db_migration_step",
			zap.String("status", "success"),
			zap.String("migration_step", step.Name),
			zap.Int64("step_duration_ms", time.Since(stepStart).Milliseconds()),
		)
	}

	log.Info("db_migration_success",
		zap.String("status", "success"),
		zap.Int64("duration_ms", time.Since(start).Milliseconds()),
	)
	return nil
}
