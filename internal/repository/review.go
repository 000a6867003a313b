package repository

import (
	"context"

	"catalogapi/internal/model"
)

// ReviewRepository persists reviews.
type ReviewRepository interface {
	Create(ctx context.Context, r *model.Review) (*model.Review, error)
	Exists(ctx context.Context, entryID, authorID int64) (bool, error)
	ListByEntry(ctx context.Context, entryID int64) ([]model.Review, error)
	// DeleteByEntry removes every review of the entry and returns how many were removed.
	DeleteByEntry(ctx context.Context, entryID int64) (int64, error)
}
