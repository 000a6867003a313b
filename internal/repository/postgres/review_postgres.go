package postgres

import (
	"context"

	"catalogapi/internal/database"
	"catalogapi/internal/model"
	"catalogapi/internal/repository"
)

// ReviewPostgres is a PostgreSQL implementation of repository.ReviewRepository.
type ReviewPostgres struct {
	q database.DBTX
}

// NewReviewPostgres creates a new ReviewPostgres repository.
func NewReviewPostgres(q database.DBTX) *ReviewPostgres {
	return &ReviewPostgres{q: q}
}

var _ repository.ReviewRepository = (*ReviewPostgres)(nil)

func (r *ReviewPostgres) Create(ctx context.Context, rv *model.Review) (*model.Review, error) {
	const q = `
		INSERT INTO reviews (entry_id, user_id, score, text)
		VALUES ($1, $2, $3, $4)
		RETURNING entry_id, user_id, score, text, created_at
	`
	var out model.Review
	err := r.q.QueryRowContext(ctx, q, rv.EntryID, rv.AuthorID, rv.Score, rv.Text).
		Scan(&out.EntryID, &out.AuthorID, &out.Score, &out.Text, timestamp{&out.CreatedAt})
	if err != nil {
		return nil, translate(err, repository.ConstraintReviewEntry)
	}
	return &out, nil
}

func (r *ReviewPostgres) Exists(ctx context.Context, entryID, authorID int64) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM reviews WHERE entry_id = $1 AND user_id = $2)`
	var ok bool
	if err := r.q.QueryRowContext(ctx, q, entryID, authorID).Scan(&ok); err != nil {
		return false, err
	}
	return ok, nil
}

func (r *ReviewPostgres) ListByEntry(ctx context.Context, entryID int64) ([]model.Review, error) {
	const q = `
		SELECT entry_id, user_id, score, text, created_at
		FROM reviews
		WHERE entry_id = $1
		ORDER BY created_at DESC, user_id
	`
	rows, err := r.q.QueryContext(ctx, q, entryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Review, 0)
	for rows.Next() {
		var rv model.Review
		if err := rows.Scan(&rv.EntryID, &rv.AuthorID, &rv.Score, &rv.Text, timestamp{&rv.CreatedAt}); err != nil {
			return nil, err
		}
		items = append(items, rv)
	}
	return items, rows.Err()
}

func (r *ReviewPostgres) DeleteByEntry(ctx context.Context, entryID int64) (int64, error) {
	const q = `DELETE FROM reviews WHERE entry_id = $1`
	res, err := r.q.ExecContext(ctx, q, entryID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
