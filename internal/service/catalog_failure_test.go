package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"catalogapi/internal/asset"
	"catalogapi/internal/database"
	"catalogapi/internal/digest"
	"catalogapi/internal/metrics"
	"catalogapi/internal/model"
	"catalogapi/internal/repository"
	repoMocks "catalogapi/internal/repository/mocks"
	"catalogapi/internal/repository/postgres"
	"catalogapi/internal/repository/storetest"
	"catalogapi/internal/storage"
	storeMocks "catalogapi/internal/storage/mocks"
)

var (
	assetCols = []string{"id", "digest", "content_type", "stored_name", "created_at"}
	entryCols = []string{"id", "title", "description", "year", "label", "author", "pages", "asset_id", "created_at"}
)

func TestCatalog_CreateEntry_FileWriteFailsAfterCommit(t *testing.T) {
	ctx := context.Background()
	db := storetest.New(t)
	tag, err := db.Tags().Create(ctx, "idm")
	require.NoError(t, err)

	mStore := new(storeMocks.MockStorage)
	mStore.On("Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(storage.ObjectInfo{}, errors.New("disk full"))

	svc := NewCatalogService(db, asset.NewStore(mStore, nil, nil), nil, nil)

	e, err := svc.CreateEntry(ctx, fieldsFor("Album X", tag.ID), png("cover.png", "coverA"))

	var fe *FileError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "write", fe.Op)
	assert.Contains(t, fe.Error(), "disk full")
	require.NotNil(t, e, "the committed entry is still returned")

	stored, err := db.Entries().FindByID(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, "Album X", stored.Title)
	mStore.AssertExpectations(t)
}

func TestCatalog_DeleteEntry_FileDeleteFailsAfterCommit(t *testing.T) {
	ctx := context.Background()
	db := storetest.New(t)
	tag, err := db.Tags().Create(ctx, "idm")
	require.NoError(t, err)

	mStore := new(storeMocks.MockStorage)
	mStore.On("Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(storage.ObjectInfo{}, nil)
	mStore.On("Delete", mock.Anything, mock.Anything).Return(errors.New("permission denied"))

	svc := NewCatalogService(db, asset.NewStore(mStore, nil, nil), nil, nil)
	e, err := svc.CreateEntry(ctx, fieldsFor("Album X", tag.ID), png("cover.png", "coverA"))
	require.NoError(t, err)

	err = svc.DeleteEntry(ctx, e.ID)

	var fe *FileError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "delete", fe.Op)
	assert.Equal(t, e.Cover.StoredName, fe.Key)

	_, err = db.Entries().FindByID(ctx, e.ID)
	assert.Error(t, err, "the row deletion is not undone")
	assets, err := db.Assets().List(ctx)
	require.NoError(t, err)
	assert.Empty(t, assets)
}

func TestCatalog_CreateEntry_CommitFailure(t *testing.T) {
	ctx := context.Background()
	sqlDB, dbMock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	content := []byte("coverA")
	d := digest.Sum(content)
	stored := asset.StoredName("cover.png", d, "0a1b2c3d4e5f")
	now := time.Now()

	dbMock.ExpectBegin()
	dbMock.ExpectQuery(`SELECT (.+) FROM assets WHERE digest = \$1 FOR SHARE`).
		WithArgs(d).
		WillReturnRows(sqlmock.NewRows(assetCols))
	dbMock.ExpectQuery("INSERT INTO assets").
		WithArgs(d, "image/png", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows(assetCols).
			AddRow(1, d, "image/png", stored, now))
	dbMock.ExpectQuery(`SELECT id, name FROM tags WHERE id IN \(\$1\)`).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(7, "idm"))
	dbMock.ExpectQuery("INSERT INTO entries").
		WillReturnRows(sqlmock.NewRows(entryCols).
			AddRow(3, "Album X", "A record.", 1999, "Warp", "Artist", 12, 1, now))
	dbMock.ExpectExec("INSERT INTO entry_tags").WithArgs(int64(3), int64(7)).WillReturnResult(sqlmock.NewResult(0, 1))
	dbMock.ExpectCommit().WillReturnError(errors.New("connection reset"))

	mStore := new(storeMocks.MockStorage)
	svc := NewCatalogService(postgres.NewStore(sqlDB, database.Postgres), asset.NewStore(mStore, nil, nil), nil, nil)

	e, err := svc.CreateEntry(ctx, fieldsFor("Album X", 7), &model.Upload{Filename: "cover.png", ContentType: "image/png", Content: content})

	assert.Nil(t, e)
	assert.ErrorIs(t, err, ErrCommit)
	mStore.AssertNotCalled(t, "Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	assert.NoError(t, dbMock.ExpectationsWereMet())
}

func TestCatalog_DeleteEntry_LocksAssetBeforeCounting(t *testing.T) {
	ctx := context.Background()
	sqlDB, dbMock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()
	now := time.Now()

	dbMock.ExpectBegin()
	dbMock.ExpectQuery(`SELECT (.+) FROM entries WHERE id = \$1`).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows(entryCols).
			AddRow(3, "Album X", "A record.", 1999, "Warp", "Artist", 12, 1, now))
	dbMock.ExpectQuery("SELECT t.id, t.name FROM tags t").
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}))
	dbMock.ExpectQuery(`SELECT id FROM assets WHERE id = \$1 FOR UPDATE`).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	dbMock.ExpectQuery(`SELECT (.+) FROM assets WHERE id = \$1`).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows(assetCols).
			AddRow(1, "d1", "image/png", "cover-d1.png", now))
	dbMock.ExpectQuery(`SELECT COUNT\(\*\) FROM entries WHERE asset_id = \$1 AND id <> \$2`).
		WithArgs(int64(1), int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	dbMock.ExpectExec(`DELETE FROM reviews WHERE entry_id = \$1`).WithArgs(int64(3)).WillReturnResult(sqlmock.NewResult(0, 2))
	dbMock.ExpectExec(`DELETE FROM entry_tags WHERE entry_id = \$1`).WithArgs(int64(3)).WillReturnResult(sqlmock.NewResult(0, 0))
	dbMock.ExpectExec(`DELETE FROM entries WHERE id = \$1`).WithArgs(int64(3)).WillReturnResult(sqlmock.NewResult(0, 1))
	dbMock.ExpectCommit()

	mStore := new(storeMocks.MockStorage)
	svc := NewCatalogService(postgres.NewStore(sqlDB, database.Postgres), asset.NewStore(mStore, nil, nil), nil, nil)

	require.NoError(t, svc.DeleteEntry(ctx, 3))
	mStore.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	assert.NoError(t, dbMock.ExpectationsWereMet())
}

// expectEntryWithCover queues the reads DeleteEntry makes before touching any row: the entry,
// its tags and the locked cover.
func expectEntryWithCover(dbMock sqlmock.Sqlmock, now time.Time) {
	dbMock.ExpectQuery(`SELECT (.+) FROM entries WHERE id = \$1`).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows(entryCols).
			AddRow(3, "Album X", "A record.", 1999, "Warp", "Artist", 12, 1, now))
	dbMock.ExpectQuery("SELECT t.id, t.name FROM tags t").
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}))
}

func TestCatalog_DeleteEntry_CommitFailureKeepsFile(t *testing.T) {
	ctx := context.Background()
	sqlDB, dbMock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()
	now := time.Now()

	dbMock.ExpectBegin()
	expectEntryWithCover(dbMock, now)
	dbMock.ExpectQuery(`SELECT id FROM assets WHERE id = \$1 FOR UPDATE`).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	dbMock.ExpectQuery(`SELECT (.+) FROM assets WHERE id = \$1`).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows(assetCols).AddRow(1, "d1", "image/png", "cover-d1.png", now))
	dbMock.ExpectQuery(`SELECT COUNT\(\*\) FROM entries WHERE asset_id = \$1 AND id <> \$2`).
		WithArgs(int64(1), int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	dbMock.ExpectExec(`DELETE FROM reviews WHERE entry_id = \$1`).WithArgs(int64(3)).WillReturnResult(sqlmock.NewResult(0, 0))
	dbMock.ExpectExec(`DELETE FROM entry_tags WHERE entry_id = \$1`).WithArgs(int64(3)).WillReturnResult(sqlmock.NewResult(0, 0))
	dbMock.ExpectExec(`DELETE FROM entries WHERE id = \$1`).WithArgs(int64(3)).WillReturnResult(sqlmock.NewResult(0, 1))
	dbMock.ExpectExec(`DELETE FROM assets WHERE id = \$1`).WithArgs(int64(1)).WillReturnResult(sqlmock.NewResult(0, 1))
	dbMock.ExpectCommit().WillReturnError(errors.New("connection reset"))

	mStore := new(storeMocks.MockStorage)
	svc := NewCatalogService(postgres.NewStore(sqlDB, database.Postgres), asset.NewStore(mStore, nil, nil), nil, nil)

	err = svc.DeleteEntry(ctx, 3)

	assert.ErrorIs(t, err, ErrCommit)
	var fe *FileError
	assert.False(t, errors.As(err, &fe))
	mStore.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	assert.NoError(t, dbMock.ExpectationsWereMet())
}

func TestCatalog_DeleteEntry_CoverReleasedConcurrently(t *testing.T) {
	ctx := context.Background()
	sqlDB, dbMock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	dbMock.ExpectBegin()
	expectEntryWithCover(dbMock, time.Now())
	dbMock.ExpectQuery(`SELECT id FROM assets WHERE id = \$1 FOR UPDATE`).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	dbMock.ExpectRollback()

	mStore := new(storeMocks.MockStorage)
	svc := NewCatalogService(postgres.NewStore(sqlDB, database.Postgres), asset.NewStore(mStore, nil, nil), nil, nil)

	err = svc.DeleteEntry(ctx, 3)

	assert.ErrorIs(t, err, ErrNotFound)
	mStore.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	assert.NoError(t, dbMock.ExpectationsWereMet())
}

func TestCatalog_CreateEntry_DigestConstraintRetries(t *testing.T) {
	ctx := context.Background()
	sqlDB, dbMock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	content := []byte("coverA")
	d := digest.Sum(content)
	stored := asset.StoredName("cover.png", d, "0a1b2c3d4e5f")
	now := time.Now()

	// First attempt: the digest is free when looked up, but a concurrent upload commits first.
	dbMock.ExpectBegin()
	dbMock.ExpectQuery(`SELECT (.+) FROM assets WHERE digest = \$1 FOR SHARE`).
		WithArgs(d).
		WillReturnRows(sqlmock.NewRows(assetCols))
	dbMock.ExpectQuery("INSERT INTO assets").
		WithArgs(d, "image/png", sqlmock.AnyArg()).
		WillReturnError(&pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: repository.ConstraintAssetDigest})
	dbMock.ExpectRollback()

	// Second attempt reuses the winner's row.
	dbMock.ExpectBegin()
	dbMock.ExpectQuery(`SELECT (.+) FROM assets WHERE digest = \$1 FOR SHARE`).
		WithArgs(d).
		WillReturnRows(sqlmock.NewRows(assetCols).AddRow(1, d, "image/png", stored, now))
	dbMock.ExpectQuery(`SELECT id, name FROM tags WHERE id IN \(\$1\)`).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(7, "idm"))
	dbMock.ExpectQuery("INSERT INTO entries").
		WillReturnRows(sqlmock.NewRows(entryCols).
			AddRow(3, "Album X", "A record.", 1999, "Warp", "Artist", 12, 1, now))
	dbMock.ExpectExec("INSERT INTO entry_tags").WithArgs(int64(3), int64(7)).WillReturnResult(sqlmock.NewResult(0, 1))
	dbMock.ExpectCommit()

	mStore := new(storeMocks.MockStorage)
	mStore.On("Stat", mock.Anything, stored).Return(storage.ObjectInfo{Key: stored}, nil)

	reg := prometheus.NewRegistry()
	m, err := metrics.NewAssets(reg)
	require.NoError(t, err)
	svc := NewCatalogService(postgres.NewStore(sqlDB, database.Postgres), asset.NewStore(mStore, nil, m), nil, m)

	e, err := svc.CreateEntry(ctx, fieldsFor("Album X", 7), &model.Upload{Filename: "cover.png", ContentType: "image/png", Content: content})

	require.NoError(t, err)
	assert.Equal(t, int64(1), *e.AssetID)
	assert.Equal(t, stored, e.Cover.StoredName)
	mStore.AssertNotCalled(t, "Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	mStore.AssertExpectations(t)
	assert.NoError(t, dbMock.ExpectationsWereMet())

	err = testutil.GatherAndCompare(reg, strings.NewReader(`
# HELP catalog_asset_digest_retries_total Create transactions re-run after losing a race on the same digest.
# TYPE catalog_asset_digest_retries_total counter
catalog_asset_digest_retries_total 1
`), "catalog_asset_digest_retries_total")
	assert.NoError(t, err)
}

func TestCatalog_DeleteEntry_CommitFailureWithMockStore(t *testing.T) {
	ctx := context.Background()
	store := repoMocks.NewMockStore()
	cover := &model.Asset{ID: 1, Digest: "d1", StoredName: "cover-d1.png"}
	assetID := cover.ID

	store.Tx.EntryRepo.On("FindByID", mock.Anything, int64(3)).Return(&model.Entry{ID: 3, AssetID: &assetID}, nil)
	store.Tx.AssetRepo.On("Lock", mock.Anything, int64(1)).Return(nil)
	store.Tx.AssetRepo.On("FindByID", mock.Anything, int64(1)).Return(cover, nil)
	store.Tx.EntryRepo.On("CountByAsset", mock.Anything, int64(1), int64(3)).Return(0, nil)
	store.Tx.ReviewRepo.On("DeleteByEntry", mock.Anything, int64(3)).Return(int64(0), nil)
	store.Tx.EntryRepo.On("Delete", mock.Anything, int64(3)).Return(nil)
	store.Tx.AssetRepo.On("Delete", mock.Anything, int64(1)).Return(nil)
	store.On("WithTx", mock.Anything).Return(database.Error.Wrap(errors.New("commit: connection reset")))

	mStore := new(storeMocks.MockStorage)
	svc := NewCatalogService(store, asset.NewStore(mStore, nil, nil), nil, nil)

	err := svc.DeleteEntry(ctx, 3)

	assert.ErrorIs(t, err, ErrCommit)
	mStore.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	store.AssertExpectations(t)
	store.Tx.AssetRepo.AssertExpectations(t)
	store.Tx.EntryRepo.AssertExpectations(t)
}

func TestCatalog_CreateEntry_BeginFailureIsUnavailable(t *testing.T) {
	ctx := context.Background()
	sqlDB, dbMock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	dbMock.ExpectBegin().WillReturnError(errors.New("too many connections"))

	mStore := new(storeMocks.MockStorage)
	svc := NewCatalogService(postgres.NewStore(sqlDB, database.Postgres), asset.NewStore(mStore, nil, nil), nil, nil)

	e, err := svc.CreateEntry(ctx, fieldsFor("Album X", 7), png("cover.png", "coverA"))

	assert.Nil(t, e)
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.NotErrorIs(t, err, ErrCommit)
	assert.NoError(t, dbMock.ExpectationsWereMet())
}
