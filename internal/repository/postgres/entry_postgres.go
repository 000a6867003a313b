package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"catalogapi/internal/database"
	"catalogapi/internal/model"
	"catalogapi/internal/repository"
)

// EntryPostgres is a PostgreSQL implementation of repository.EntryRepository.
// It uses parameterized queries only and contains no business logic.
type EntryPostgres struct {
	q database.DBTX
}

// NewEntryPostgres creates a new EntryPostgres repository.
func NewEntryPostgres(q database.DBTX) *EntryPostgres {
	return &EntryPostgres{q: q}
}

var _ repository.EntryRepository = (*EntryPostgres)(nil)

const entryColumns = `id, title, description, year, label, author, pages, asset_id, created_at`

func scanEntry(row interface{ Scan(...any) error }) (*model.Entry, error) {
	var (
		e       model.Entry
		assetID sql.NullInt64
	)
	if err := row.Scan(&e.ID, &e.Title, &e.Description, &e.Year, &e.Label, &e.Author, &e.Pages, &assetID, timestamp{&e.CreatedAt}); err != nil {
		return nil, err
	}
	if assetID.Valid {
		id := assetID.Int64
		e.AssetID = &id
	}
	e.Tags = []model.Tag{}
	return &e, nil
}

// Create inserts the entry row followed by its tag links.
func (r *EntryPostgres) Create(ctx context.Context, e *model.Entry) (*model.Entry, error) {
	const q = `
		INSERT INTO entries (title, description, year, label, author, pages, asset_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + entryColumns
	var assetID sql.NullInt64
	if e.AssetID != nil {
		assetID = sql.NullInt64{Int64: *e.AssetID, Valid: true}
	}
	out, err := scanEntry(r.q.QueryRowContext(ctx, q,
		e.Title,
		e.Description,
		e.Year,
		e.Label,
		e.Author,
		e.Pages,
		assetID,
	))
	if err != nil {
		return nil, translate(err, repository.ConstraintEntryAsset)
	}

	for _, t := range e.Tags {
		if err := r.link(ctx, out.ID, t.ID); err != nil {
			return nil, err
		}
	}
	out.Tags = append(out.Tags, e.Tags...)
	return out, nil
}

func (r *EntryPostgres) link(ctx context.Context, entryID, tagID int64) error {
	const q = `INSERT INTO entry_tags (entry_id, tag_id) VALUES ($1, $2)`
	if _, err := r.q.ExecContext(ctx, q, entryID, tagID); err != nil {
		return fmt.Errorf("link tag %d: %w", tagID, translate(err, repository.ConstraintEntryTagTag))
	}
	return nil
}

// Update writes the editable columns. asset_id is deliberately absent from the statement.
func (r *EntryPostgres) Update(ctx context.Context, e *model.Entry) error {
	const q = `
		UPDATE entries
		SET title = $1, description = $2, year = $3, label = $4, author = $5, pages = $6
		WHERE id = $7
	`
	res, err := r.q.ExecContext(ctx, q, e.Title, e.Description, e.Year, e.Label, e.Author, e.Pages, e.ID)
	if err != nil {
		return translate(err)
	}
	return expectOne(res)
}

// SetTags replaces all tag links of the entry.
func (r *EntryPostgres) SetTags(ctx context.Context, entryID int64, tagIDs []int64) error {
	const q = `DELETE FROM entry_tags WHERE entry_id = $1`
	if _, err := r.q.ExecContext(ctx, q, entryID); err != nil {
		return err
	}
	for _, id := range tagIDs {
		if err := r.link(ctx, entryID, id); err != nil {
			return err
		}
	}
	return nil
}

// FindByID fetches an entry and its tags.
func (r *EntryPostgres) FindByID(ctx context.Context, id int64) (*model.Entry, error) {
	const q = `SELECT ` + entryColumns + ` FROM entries WHERE id = $1`
	e, err := scanEntry(r.q.QueryRowContext(ctx, q, id))
	if err != nil {
		return nil, err
	}

	const qTags = `
		SELECT t.id, t.name
		FROM tags t
		JOIN entry_tags et ON et.tag_id = t.id
		WHERE et.entry_id = $1
		ORDER BY t.id
	`
	rows, err := r.q.QueryContext(ctx, qTags, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var t model.Tag
		if err := rows.Scan(&t.ID, &t.Name); err != nil {
			return nil, err
		}
		e.Tags = append(e.Tags, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return e, nil
}

// List returns entries newest year first using LIMIT/OFFSET pagination and a total count.
func (r *EntryPostgres) List(ctx context.Context, pq repository.PageQuery) (*repository.PageResult[model.Entry], error) {
	const qCount = `SELECT COUNT(*) FROM entries`
	var total int
	if err := r.q.QueryRowContext(ctx, qCount).Scan(&total); err != nil {
		return nil, err
	}

	const qList = `
		SELECT ` + entryColumns + `
		FROM entries
		ORDER BY year DESC, id DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.q.QueryContext(ctx, qList, pq.Limit, pq.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Entry, 0)
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &repository.PageResult[model.Entry]{
		Items: items,
		Total: total,
	}, nil
}

// Delete removes the entry's tag links and then the entry row.
func (r *EntryPostgres) Delete(ctx context.Context, id int64) error {
	const qLinks = `DELETE FROM entry_tags WHERE entry_id = $1`
	if _, err := r.q.ExecContext(ctx, qLinks, id); err != nil {
		return err
	}
	const q = `DELETE FROM entries WHERE id = $1`
	res, err := r.q.ExecContext(ctx, q, id)
	if err != nil {
		return translate(err, repository.ConstraintReviewEntry)
	}
	return expectOne(res)
}

// CountByAsset counts the other entries still pointing at assetID.
func (r *EntryPostgres) CountByAsset(ctx context.Context, assetID, excludingEntryID int64) (int, error) {
	const q = `SELECT COUNT(*) FROM entries WHERE asset_id = $1 AND id <> $2`
	var n int
	if err := r.q.QueryRowContext(ctx, q, assetID, excludingEntryID).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
