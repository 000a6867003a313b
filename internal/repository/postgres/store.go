package postgres

import (
	"context"
	"database/sql"

	"catalogapi/internal/database"
	"catalogapi/internal/repository"
)

// Store is the SQL implementation of repository.Store for PostgreSQL and SQLite.
// Repositories reached directly through Store run in autocommit mode; WithTx hands out
// repositories bound to a single *sql.Tx that lives only for the duration of fn.
type Store struct {
	db      *sql.DB
	dialect database.Dialect
	*queries
}

// NewStore creates a Store on top of an open connection pool speaking dialect.
func NewStore(db *sql.DB, dialect database.Dialect) *Store {
	return &Store{db: db, dialect: dialect, queries: newQueries(db, dialect)}
}

// Close closes the underlying pool. An in-memory SQLite catalog is gone afterwards.
func (s *Store) Close() error { return s.db.Close() }

// Ping reports whether the database is reachable.
func (s *Store) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }

var _ repository.Store = (*Store)(nil)

// WithTx runs fn inside a transaction.
func (s *Store) WithTx(ctx context.Context, fn func(ctx context.Context, tx repository.Tx) error) error {
	return database.WithTx(ctx, s.db, nil, func(ctx context.Context, tx *sql.Tx) error {
		return fn(ctx, newQueries(tx, s.dialect))
	})
}

type queries struct {
	assets  *AssetPostgres
	entries *EntryPostgres
	tags    *TagPostgres
	reviews *ReviewPostgres
	users   *UserPostgres
}

func newQueries(q database.DBTX, dialect database.Dialect) *queries {
	return &queries{
		assets:  newAssetRepo(q, dialect),
		entries: NewEntryPostgres(q),
		tags:    NewTagPostgres(q),
		reviews: NewReviewPostgres(q),
		users:   NewUserPostgres(q),
	}
}

func (q *queries) Assets() repository.AssetRepository   { return q.assets }
func (q *queries) Entries() repository.EntryRepository  { return q.entries }
func (q *queries) Tags() repository.TagRepository       { return q.tags }
func (q *queries) Reviews() repository.ReviewRepository { return q.reviews }
func (q *queries) Users() repository.UserRepository     { return q.users }
