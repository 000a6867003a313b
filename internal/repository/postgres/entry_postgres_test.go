package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalogapi/internal/model"
	"catalogapi/internal/repository"
)

var entryRowColumns = []string{"id", "title", "description", "year", "label", "author", "pages", "asset_id", "created_at"}

func TestEntryPostgres_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewEntryPostgres(db)
	ctx := context.Background()
	assetID := int64(9)
	in := &model.Entry{
		Title:       "Album X",
		Description: "debut",
		Year:        1999,
		Label:       "Warp",
		Author:      "Artist",
		Pages:       12,
		AssetID:     &assetID,
		Tags:        []model.Tag{{ID: 1, Name: "idm"}, {ID: 2, Name: "ambient"}},
	}

	t.Run("row and links", func(t *testing.T) {
		mock.ExpectQuery("INSERT INTO entries").
			WithArgs("Album X", "debut", 1999, "Warp", "Artist", 12, sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows(entryRowColumns).
				AddRow(5, "Album X", "debut", 1999, "Warp", "Artist", 12, 9, time.Now()))
		mock.ExpectExec("INSERT INTO entry_tags").WithArgs(int64(5), int64(1)).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("INSERT INTO entry_tags").WithArgs(int64(5), int64(2)).WillReturnResult(sqlmock.NewResult(0, 1))

		out, err := repo.Create(ctx, in)

		require.NoError(t, err)
		assert.Equal(t, int64(5), out.ID)
		require.NotNil(t, out.AssetID)
		assert.Equal(t, int64(9), *out.AssetID)
		assert.Len(t, out.Tags, 2)
	})

	t.Run("duplicate title", func(t *testing.T) {
		mock.ExpectQuery("INSERT INTO entries").
			WillReturnError(&pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: repository.ConstraintEntryTitle})

		out, err := repo.Create(ctx, in)

		assert.Nil(t, out)
		assert.True(t, repository.IsConstraint(err, repository.ConstraintEntryTitle))
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEntryPostgres_FindByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewEntryPostgres(db)
	ctx := context.Background()

	t.Run("found with tags", func(t *testing.T) {
		mock.ExpectQuery(`SELECT (.+) FROM entries WHERE id = \$1`).
			WithArgs(int64(5)).
			WillReturnRows(sqlmock.NewRows(entryRowColumns).
				AddRow(5, "Album X", "debut", 1999, "Warp", "Artist", 12, nil, time.Now()))
		mock.ExpectQuery("SELECT t.id, t.name FROM tags t JOIN entry_tags").
			WithArgs(int64(5)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(1, "idm"))

		e, err := repo.FindByID(ctx, 5)

		require.NoError(t, err)
		assert.Nil(t, e.AssetID)
		assert.Equal(t, []model.Tag{{ID: 1, Name: "idm"}}, e.Tags)
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery(`SELECT (.+) FROM entries WHERE id = \$1`).
			WithArgs(int64(6)).
			WillReturnError(sql.ErrNoRows)

		e, err := repo.FindByID(ctx, 6)

		assert.ErrorIs(t, err, sql.ErrNoRows)
		assert.Nil(t, e)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEntryPostgres_Update(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewEntryPostgres(db)
	e := &model.Entry{ID: 5, Title: "Album X (Remaster)", Description: "d", Year: 2001, Label: "Warp", Author: "A", Pages: 10}

	mock.ExpectExec("UPDATE entries SET").
		WithArgs(e.Title, e.Description, e.Year, e.Label, e.Author, e.Pages, e.ID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	assert.NoError(t, repo.Update(context.Background(), e))

	mock.ExpectExec("UPDATE entries SET").WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, repo.Update(context.Background(), e), sql.ErrNoRows)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEntryPostgres_SetTags(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewEntryPostgres(db)

	mock.ExpectExec(`DELETE FROM entry_tags WHERE entry_id = \$1`).WithArgs(int64(5)).WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("INSERT INTO entry_tags").WithArgs(int64(5), int64(3)).WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, repo.SetTags(context.Background(), 5, []int64{3}))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEntryPostgres_List(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewEntryPostgres(db)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM entries`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery("SELECT (.+) FROM entries ORDER BY year DESC").
		WithArgs(10, 0).
		WillReturnRows(sqlmock.NewRows(entryRowColumns).
			AddRow(5, "Album X", "debut", 1999, "Warp", "Artist", 12, 9, time.Now()))

	res, err := repo.List(context.Background(), repository.PageQuery{Limit: 10, Offset: 0})

	require.NoError(t, err)
	assert.Equal(t, 1, res.Total)
	assert.Len(t, res.Items, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEntryPostgres_Delete(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewEntryPostgres(db)

	mock.ExpectExec(`DELETE FROM entry_tags WHERE entry_id = \$1`).WithArgs(int64(5)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM entries WHERE id = \$1`).WithArgs(int64(5)).WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, repo.Delete(context.Background(), 5))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEntryPostgres_CountByAsset(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewEntryPostgres(db)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM entries WHERE asset_id = \$1 AND id <> \$2`).
		WithArgs(int64(9), int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	n, err := repo.CountByAsset(context.Background(), 9, 5)

	assert.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}
