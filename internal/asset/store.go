// Package asset manages content-addressed cover files: one stored object per distinct digest,
// shared by every entry that uploaded the same bytes.
//
// Rows and objects are changed in a fixed order. A row is staged inside the caller's transaction
// and its object is written only after that transaction commits; a row delete is staged only when
// no other entry references the asset and its object is removed only after the delete commits.
package asset

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"mime"
	"slices"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"catalogapi/internal/logging"
	"catalogapi/internal/metrics"
	"catalogapi/internal/model"
	"catalogapi/internal/repository"
	"catalogapi/internal/storage"
)

var (
	ErrEmptyUpload     = errors.New("cover file is empty")
	ErrUnsupportedType = errors.New("cover file type is not allowed")
	ErrTooLarge        = errors.New("cover file is too large")
)

// Store owns cover assets. Rows go through the repository.Tx handed in by the caller; bytes go
// to the blob storage.
type Store struct {
	blobs    storage.Storage
	log      *zap.Logger
	metrics  *metrics.Assets
	maxBytes int64
}

func newNonce() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}

// NewStore creates an asset Store. log and m may be nil.
func NewStore(blobs storage.Storage, log *zap.Logger, m *metrics.Assets) *Store {
	return &Store{
		blobs:   blobs,
		log:     logging.Component(log, "asset"),
		metrics: m,
	}
}

// WithMaxBytes caps the accepted upload size. Zero or less means no cap.
func (s *Store) WithMaxBytes(n int64) *Store {
	s.maxBytes = n
	return s
}

// Accept checks an upload before anything is staged: it must be non-empty, within the size cap,
// and its original file name must carry one of AllowedExtensions.
func (s *Store) Accept(up *model.Upload) error {
	if up == nil || up.Filename == "" || len(up.Content) == 0 {
		return ErrEmptyUpload
	}
	if s.maxBytes > 0 && int64(len(up.Content)) > s.maxBytes {
		return fmt.Errorf("%w: %d bytes, limit %d", ErrTooLarge, len(up.Content), s.maxBytes)
	}
	if !slices.Contains(AllowedExtensions, Extension(up.Filename)) {
		return fmt.Errorf("%w: %q", ErrUnsupportedType, up.Filename)
	}
	return nil
}

// FindOrCreate resolves digest to an asset inside tx. An existing asset is returned as is with
// created=false. Otherwise a new row is staged and created=true; nothing is written to storage.
func (s *Store) FindOrCreate(ctx context.Context, tx repository.Tx, digest string, up *model.Upload) (*model.Asset, bool, error) {
	a, err := tx.Assets().FindByDigest(ctx, digest)
	if err == nil {
		return a, false, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, false, fmt.Errorf("find asset: %w", err)
	}

	contentType := up.ContentType
	if contentType == "" {
		contentType = mime.TypeByExtension("." + Extension(up.Filename))
	}
	a, err = tx.Assets().Create(ctx, &model.Asset{
		Digest:      digest,
		ContentType: contentType,
		StoredName:  StoredName(up.Filename, digest, newNonce()),
	})
	if err != nil {
		return nil, false, fmt.Errorf("create asset: %w", err)
	}
	return a, true, nil
}

// Materialize writes content as the object of a newly created asset. Call it only after the row is committed.
func (s *Store) Materialize(ctx context.Context, a *model.Asset, content []byte) error {
	if err := s.write(ctx, a, content); err != nil {
		return err
	}
	s.metrics.Created()
	return nil
}

func (s *Store) write(ctx context.Context, a *model.Asset, content []byte) error {
	_, err := s.blobs.Put(ctx, a.StoredName, bytes.NewReader(content), storage.PutObjectOptions{
		Size:        int64(len(content)),
		ContentType: a.ContentType,
	})
	if err != nil {
		s.metrics.FileError("write")
		s.log.Error("cover write failed",
			zap.String("event", "asset_write"),
			zap.Int64("asset_id", a.ID),
			zap.String("key", a.StoredName),
			zap.Error(err),
		)
		return fmt.Errorf("write %s: %w", a.StoredName, err)
	}
	s.log.Info("cover written",
		zap.String("event", "asset_write"),
		zap.Int64("asset_id", a.ID),
		zap.String("key", a.StoredName),
		zap.Int("bytes", len(content)),
	)
	return nil
}

// Repair is called when an upload resolved to an existing asset. It writes content only if the
// asset's object is missing, which happens when an earlier post-commit write failed.
// It reports whether a write took place.
func (s *Store) Repair(ctx context.Context, a *model.Asset, content []byte) (bool, error) {
	s.metrics.Reused()
	_, err := s.blobs.Stat(ctx, a.StoredName)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, storage.ErrObjectNotFound) {
		s.metrics.FileError("write")
		return false, fmt.Errorf("stat %s: %w", a.StoredName, err)
	}
	s.log.Warn("cover missing for existing asset, rewriting",
		zap.String("event", "asset_repair"),
		zap.Int64("asset_id", a.ID),
		zap.String("key", a.StoredName),
	)
	if err := s.write(ctx, a, content); err != nil {
		return false, err
	}
	s.metrics.Repaired()
	return true, nil
}

// ReleaseIfUnreferenced stages the deletion of the asset row when refs is zero and reports
// whether it did. refs must count the entries other than the one being deleted, taken while
// the asset row is locked. The object is left alone; call Discard after commit.
func (s *Store) ReleaseIfUnreferenced(ctx context.Context, tx repository.Tx, a *model.Asset, refs int) (bool, error) {
	if refs > 0 {
		return false, nil
	}
	if err := tx.Assets().Delete(ctx, a.ID); err != nil {
		return false, fmt.Errorf("delete asset %d: %w", a.ID, err)
	}
	return true, nil
}

// Discard removes the object of an asset whose row deletion has committed. The release is
// counted even when the object cannot be removed. An object that is already gone is not an error.
func (s *Store) Discard(ctx context.Context, a *model.Asset) error {
	s.metrics.Released()
	if err := s.blobs.Delete(ctx, a.StoredName); err != nil {
		s.metrics.FileError("delete")
		s.log.Error("cover delete failed",
			zap.String("event", "asset_discard"),
			zap.Int64("asset_id", a.ID),
			zap.String("key", a.StoredName),
			zap.Error(err),
		)
		return fmt.Errorf("delete %s: %w", a.StoredName, err)
	}
	s.log.Info("cover released",
		zap.String("event", "asset_discard"),
		zap.Int64("asset_id", a.ID),
		zap.String("key", a.StoredName),
	)
	return nil
}

// Open streams the asset's object.
func (s *Store) Open(ctx context.Context, a *model.Asset) (io.ReadCloser, error) {
	rc, _, err := s.blobs.Get(ctx, a.StoredName)
	if err != nil {
		return nil, err
	}
	return rc, nil
}
