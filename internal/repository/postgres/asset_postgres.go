package postgres

import (
	"context"

	"catalogapi/internal/database"
	"catalogapi/internal/model"
	"catalogapi/internal/repository"
)

// AssetPostgres is a PostgreSQL implementation of repository.AssetRepository.
// On SQLite the row lock clauses are left out.
type AssetPostgres struct {
	q         database.DBTX
	forShare  string
	forUpdate string
}

// NewAssetPostgres creates a new AssetPostgres repository.
func NewAssetPostgres(q database.DBTX) *AssetPostgres {
	return newAssetRepo(q, database.Postgres)
}

func newAssetRepo(q database.DBTX, dialect database.Dialect) *AssetPostgres {
	r := &AssetPostgres{q: q}
	if dialect == database.Postgres {
		r.forShare, r.forUpdate = " FOR SHARE", " FOR UPDATE"
	}
	return r
}

var _ repository.AssetRepository = (*AssetPostgres)(nil)

const assetColumns = `id, digest, content_type, stored_name, created_at`

func scanAsset(row interface{ Scan(...any) error }) (*model.Asset, error) {
	var a model.Asset
	if err := row.Scan(&a.ID, &a.Digest, &a.ContentType, &a.StoredName, timestamp{&a.CreatedAt}); err != nil {
		return nil, err
	}
	return &a, nil
}

// FindByDigest share-locks the row so a concurrent delete waits until this transaction ends.
func (r *AssetPostgres) FindByDigest(ctx context.Context, digest string) (*model.Asset, error) {
	q := `SELECT ` + assetColumns + ` FROM assets WHERE digest = $1` + r.forShare
	return scanAsset(r.q.QueryRowContext(ctx, q, digest))
}

// FindByID fetches a single asset.
func (r *AssetPostgres) FindByID(ctx context.Context, id int64) (*model.Asset, error) {
	const q = `SELECT ` + assetColumns + ` FROM assets WHERE id = $1`
	return scanAsset(r.q.QueryRowContext(ctx, q, id))
}

// Lock takes a FOR UPDATE lock on the asset row. A missing row yields sql.ErrNoRows.
func (r *AssetPostgres) Lock(ctx context.Context, id int64) error {
	q := `SELECT id FROM assets WHERE id = $1` + r.forUpdate
	var got int64
	return r.q.QueryRowContext(ctx, q, id).Scan(&got)
}

// Create inserts a new asset row.
func (r *AssetPostgres) Create(ctx context.Context, a *model.Asset) (*model.Asset, error) {
	const q = `
		INSERT INTO assets (digest, content_type, stored_name)
		VALUES ($1, $2, $3)
		RETURNING ` + assetColumns
	out, err := scanAsset(r.q.QueryRowContext(ctx, q, a.Digest, a.ContentType, a.StoredName))
	if err != nil {
		return nil, translate(err)
	}
	return out, nil
}

// Delete removes an asset row.
func (r *AssetPostgres) Delete(ctx context.Context, id int64) error {
	const q = `DELETE FROM assets WHERE id = $1`
	res, err := r.q.ExecContext(ctx, q, id)
	if err != nil {
		return translate(err, repository.ConstraintEntryAsset)
	}
	return expectOne(res)
}

// List returns every asset row.
func (r *AssetPostgres) List(ctx context.Context) ([]model.Asset, error) {
	const q = `SELECT ` + assetColumns + ` FROM assets ORDER BY id`
	rows, err := r.q.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Asset, 0)
	for rows.Next() {
		a, err := scanAsset(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
