package repository

import (
	"context"

	"catalogapi/internal/model"
)

// AssetRepository persists cover asset rows. No filesystem access happens here.
type AssetRepository interface {
	// FindByDigest returns the asset with the given content digest.
	// Inside a transaction the row stays share-locked until commit so it cannot be released concurrently.
	FindByDigest(ctx context.Context, digest string) (*model.Asset, error)

	// FindByID returns an asset by ID.
	FindByID(ctx context.Context, id int64) (*model.Asset, error)

	// Lock takes an exclusive row lock on the asset for the rest of the transaction.
	Lock(ctx context.Context, id int64) error

	// Create inserts a new asset row and returns it with its generated ID.
	Create(ctx context.Context, a *model.Asset) (*model.Asset, error)

	// Delete removes the asset row. It fails with a ConstraintError while entries still reference it.
	Delete(ctx context.Context, id int64) error

	// List returns every asset ordered by ID.
	List(ctx context.Context) ([]model.Asset, error)
}
