package postgres

import (
	"database/sql"
	"errors"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"

	"catalogapi/internal/repository"
)

// sqliteUnique maps the column lists SQLite names in UNIQUE and PRIMARY KEY violations onto the
// constraint names of the PostgreSQL schema.
var sqliteUnique = map[string]string{
	"assets.digest":                          repository.ConstraintAssetDigest,
	"assets.stored_name":                     repository.ConstraintAssetStoredName,
	"entries.title":                          repository.ConstraintEntryTitle,
	"entry_tags.entry_id, entry_tags.tag_id": repository.ConstraintEntryTag,
	"reviews.entry_id, reviews.user_id":      repository.ConstraintReview,
	"tags.name":                              repository.ConstraintTagName,
	"users.login":                            repository.ConstraintUserLogin,
}

// translate converts unique and foreign-key violations into *repository.ConstraintError.
// SQLite does not say which foreign key failed, so callers pass the one their statement can break.
// Other errors are returned unchanged.
func translate(err error, foreignKey ...string) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.UniqueViolation, pgerrcode.ForeignKeyViolation:
			return &repository.ConstraintError{Constraint: pgErr.ConstraintName, Err: err}
		}
		return err
	}
	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) && liteErr.Code == sqlite3.ErrConstraint {
		switch liteErr.ExtendedCode {
		case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
			cols := strings.TrimPrefix(liteErr.Error(), "UNIQUE constraint failed: ")
			if name, ok := sqliteUnique[cols]; ok {
				return &repository.ConstraintError{Constraint: name, Err: err}
			}
		case sqlite3.ErrConstraintForeignKey:
			if len(foreignKey) > 0 {
				return &repository.ConstraintError{Constraint: foreignKey[0], Err: err}
			}
		}
	}
	return err
}

// expectOne maps a zero-row mutation to sql.ErrNoRows.
func expectOne(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
