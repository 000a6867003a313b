package repository

import (
	"context"
	"errors"
	"fmt"
)

// Package repository contains data access layer abstractions.
// The SQL implementation lives in subpackage postgres and serves both PostgreSQL and SQLite.
// Lookups that find nothing return sql.ErrNoRows.

// Named storage constraints. Violations are reported with these names on every dialect.
const (
	ConstraintAssetDigest     = "assets_digest_key"
	ConstraintAssetStoredName = "assets_stored_name_key"
	ConstraintEntryTitle      = "entries_title_key"
	ConstraintEntryAsset      = "entries_asset_id_fkey"
	ConstraintEntryTag        = "entry_tags_pkey"
	ConstraintEntryTagTag     = "entry_tags_tag_id_fkey"
	ConstraintReviewEntry     = "reviews_entry_id_fkey"
	ConstraintReviewUser      = "reviews_user_id_fkey"
	ConstraintReview          = "reviews_pkey"
	ConstraintTagName         = "tags_name_key"
	ConstraintUserLogin       = "users_login_key"
)

// ErrConstraint is matched by every *ConstraintError.
var ErrConstraint = errors.New("constraint violation")

// ConstraintError reports a unique or foreign-key violation raised by the store.
type ConstraintError struct {
	Constraint string
	Err        error
}

func (e *ConstraintError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("constraint %s violated", e.Constraint)
	}
	return fmt.Sprintf("constraint %s violated: %v", e.Constraint, e.Err)
}

func (e *ConstraintError) Unwrap() error { return e.Err }

func (e *ConstraintError) Is(target error) bool { return target == ErrConstraint }

// IsConstraint reports whether err is a violation of one of the named constraints.
func IsConstraint(err error, names ...string) bool {
	var ce *ConstraintError
	if !errors.As(err, &ce) {
		return false
	}
	for _, n := range names {
		if ce.Constraint == n {
			return true
		}
	}
	return false
}

// PageQuery holds limit/offset pagination parameters.
type PageQuery struct {
	Limit  int
	Offset int
}

// PageResult is a generic pagination result wrapper.
type PageResult[T any] struct {
	Items []T
	Total int
}

// Tx bundles the repositories bound to one unit of work.
type Tx interface {
	Assets() AssetRepository
	Entries() EntryRepository
	Tags() TagRepository
	Reviews() ReviewRepository
	Users() UserRepository
}

// Store is the catalog's relational store. Its Tx methods run outside any transaction;
// WithTx scopes a transaction to one call of fn. If fn returns an error everything it staged is discarded.
type Store interface {
	Tx
	WithTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
}
