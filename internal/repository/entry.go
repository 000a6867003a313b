package repository

import (
	"context"

	"catalogapi/internal/model"
)

// EntryRepository persists catalog entries and their tag links.
type EntryRepository interface {
	// Create inserts the entry row and one link per tag in e.Tags.
	Create(ctx context.Context, e *model.Entry) (*model.Entry, error)

	// Update writes the editable fields of e. The asset reference is never changed.
	Update(ctx context.Context, e *model.Entry) error

	// SetTags replaces the tag links of an entry.
	SetTags(ctx context.Context, entryID int64, tagIDs []int64) error

	// FindByID returns an entry with its tags.
	FindByID(ctx context.Context, id int64) (*model.Entry, error)

	// List returns entries ordered by year, newest first, and the total count.
	List(ctx context.Context, pq PageQuery) (*PageResult[model.Entry], error)

	// Delete removes the tag links and the entry row. Reviews must be deleted first.
	Delete(ctx context.Context, id int64) error

	// CountByAsset counts entries other than excludingEntryID that reference the asset.
	CountByAsset(ctx context.Context, assetID, excludingEntryID int64) (int, error)
}
