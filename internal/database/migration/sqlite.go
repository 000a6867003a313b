package migration

// sqliteSteps mirrors postgresSteps for the embedded store. Constraint names match so violations
// translate the same way; SMALLINT ranges are spelled out as CHECKs.
var sqliteSteps = []migrationStep{
	{
		Name: "create_table_roles",
		SQL: `CREATE TABLE IF NOT EXISTS roles (
  id          INTEGER PRIMARY KEY AUTOINCREMENT,
  name        TEXT    NOT NULL,
  description TEXT    NOT NULL,
  CONSTRAINT roles_name_key UNIQUE (name)
);`,
	},
	{
		Name: "seed_roles",
		SQL: `INSERT OR IGNORE INTO roles (name, description) VALUES
  ('admin', 'Administrator'),
  ('mod',   'Moderator'),
  ('user',  'User');`,
	},
	{
		Name: "create_table_users",
		SQL: `CREATE TABLE IF NOT EXISTS users (
  id            INTEGER PRIMARY KEY AUTOINCREMENT,
  login         TEXT    NOT NULL,
  password_hash TEXT    NOT NULL DEFAULT '',
  last_name     TEXT    NOT NULL,
  first_name    TEXT    NOT NULL,
  middle_name   TEXT,
  role_id       INTEGER NOT NULL REFERENCES roles (id),
  CONSTRAINT users_login_key UNIQUE (login)
);`,
	},
	{
		Name: "create_table_tags",
		SQL: `CREATE TABLE IF NOT EXISTS tags (
  id   INTEGER PRIMARY KEY AUTOINCREMENT,
  name TEXT    NOT NULL,
  CONSTRAINT tags_name_key UNIQUE (name)
);`,
	},
	{
		Name: "create_table_assets",
		SQL: `CREATE TABLE IF NOT EXISTS assets (
  id           INTEGER   PRIMARY KEY AUTOINCREMENT,
  digest       TEXT      NOT NULL,
  content_type TEXT      NOT NULL,
  stored_name  TEXT      NOT NULL,
  created_at   TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
  CONSTRAINT assets_digest_key UNIQUE (digest),
  CONSTRAINT assets_stored_name_key UNIQUE (stored_name)
);`,
	},
	{
		Name: "create_table_entries",
		SQL: `CREATE TABLE IF NOT EXISTS entries (
  id          INTEGER   PRIMARY KEY AUTOINCREMENT,
  title       TEXT      NOT NULL,
  description TEXT      NOT NULL,
  year        INTEGER   NOT NULL CHECK (year BETWEEN -32768 AND 32767),
  label       TEXT      NOT NULL,
  author      TEXT      NOT NULL,
  pages       INTEGER   NOT NULL CHECK (pages > 0),
  asset_id    INTEGER,
  created_at  TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
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
  entry_id INTEGER NOT NULL REFERENCES entries (id),
  tag_id   INTEGER NOT NULL REFERENCES tags (id),
  CONSTRAINT entry_tags_pkey PRIMARY KEY (entry_id, tag_id)
);`,
	},
	{
		Name: "create_table_reviews",
		SQL: `CREATE TABLE IF NOT EXISTS reviews (
  entry_id   INTEGER   NOT NULL REFERENCES entries (id),
  user_id    INTEGER   NOT NULL REFERENCES users (id),
  score      INTEGER   NOT NULL CHECK (score BETWEEN 0 AND 5),
  text       TEXT      NOT NULL,
  created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
  CONSTRAINT reviews_pkey PRIMARY KEY (entry_id, user_id)
);`,
	},
}
