package repository

import (
	"context"

	"catalogapi/internal/model"
)

// TagRepository persists style tags. Tags are never pruned when entries go away.
type TagRepository interface {
	List(ctx context.Context) ([]model.Tag, error)
	// FindByIDs returns the tags that exist among ids, ordered by ID.
	FindByIDs(ctx context.Context, ids []int64) ([]model.Tag, error)
	Create(ctx context.Context, name string) (*model.Tag, error)
}
