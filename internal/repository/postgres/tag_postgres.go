package postgres

import (
	"context"
	"fmt"
	"strings"

	"catalogapi/internal/database"
	"catalogapi/internal/model"
	"catalogapi/internal/repository"
)

// TagPostgres is a PostgreSQL implementation of repository.TagRepository.
type TagPostgres struct {
	q database.DBTX
}

// NewTagPostgres creates a new TagPostgres repository.
func NewTagPostgres(q database.DBTX) *TagPostgres {
	return &TagPostgres{q: q}
}

var _ repository.TagRepository = (*TagPostgres)(nil)

func (r *TagPostgres) List(ctx context.Context) ([]model.Tag, error) {
	return r.query(ctx, `SELECT id, name FROM tags ORDER BY id`)
}

func (r *TagPostgres) FindByIDs(ctx context.Context, ids []int64) ([]model.Tag, error) {
	if len(ids) == 0 {
		return []model.Tag{}, nil
	}
	ph := make([]string, len(ids))
	args := make([]any, len(ids))
	for i, id := range ids {
		ph[i] = fmt.Sprintf("$%d", i+1)
		args[i] = id
	}
	q := `SELECT id, name FROM tags WHERE id IN (` + strings.Join(ph, ", ") + `) ORDER BY id`
	return r.query(ctx, q, args...)
}

func (r *TagPostgres) Create(ctx context.Context, name string) (*model.Tag, error) {
	const q = `INSERT INTO tags (name) VALUES ($1) RETURNING id, name`
	var t model.Tag
	if err := r.q.QueryRowContext(ctx, q, name).Scan(&t.ID, &t.Name); err != nil {
		return nil, translate(err)
	}
	return &t, nil
}

func (r *TagPostgres) query(ctx context.Context, q string, args ...any) ([]model.Tag, error) {
	rows, err := r.q.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Tag, 0)
	for rows.Next() {
		var t model.Tag
		if err := rows.Scan(&t.ID, &t.Name); err != nil {
			return nil, err
		}
		items = append(items, t)
	}
	return items, rows.Err()
}
