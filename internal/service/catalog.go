package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"catalogapi/internal/asset"
	"catalogapi/internal/digest"
	"catalogapi/internal/logging"
	"catalogapi/internal/metrics"
	"catalogapi/internal/model"
	"catalogapi/internal/repository"
	"catalogapi/internal/storage"
)

// maxCreateAttempts bounds how often a create is re-run after losing a digest race.
const maxCreateAttempts = 3

var tracer = otel.Tracer("catalogapi/internal/service")

// EntryListResult is the service-level DTO for paginated entries.
type EntryListResult struct {
	Items []model.Entry `json:"data"`
	Total int           `json:"total"`
}

// EntryView is an entry as shown to one viewer.
type EntryView struct {
	Entry        *model.Entry   `json:"entry"`
	Reviews      []model.Review `json:"reviews"`
	UserReviewed bool           `json:"user_reviewed"`
}

// CatalogService defines the catalog workflows.
type CatalogService interface {
	// CreateEntry validates fields and the cover upload, stages the asset (new or reused), the entry
	// and its tag links in one transaction and writes the cover file after the commit.
	// When only the file step fails the committed entry is returned together with a *FileError.
	CreateEntry(ctx context.Context, fields model.EntryFields, upload *model.Upload) (*model.Entry, error)

	// UpdateEntry replaces the editable fields and the tags. The cover is never changed.
	UpdateEntry(ctx context.Context, id int64, fields model.EntryFields) (*model.Entry, error)

	// DeleteEntry removes the entry with its reviews and tag links. The cover asset goes too
	// when no other entry references it; its file is removed after the commit.
	DeleteEntry(ctx context.Context, id int64) error

	// GetEntry returns an entry with its cover and reviews. viewerID marks whether that user has reviewed it.
	GetEntry(ctx context.Context, id, viewerID int64) (*EntryView, error)

	// ListEntries returns entries newest year first.
	ListEntries(ctx context.Context, limit, offset int) (*EntryListResult, error)

	// AddReview records authorID's single review of an entry.
	AddReview(ctx context.Context, entryID, authorID int64, score int, text string) (*model.Review, error)

	ListTags(ctx context.Context) ([]model.Tag, error)
	CreateTag(ctx context.Context, name string) (*model.Tag, error)

	// OpenCover streams the stored cover of an asset.
	OpenCover(ctx context.Context, assetID int64) (io.ReadCloser, *model.Asset, error)
}

type catalogService struct {
	store   repository.Store
	assets  *asset.Store
	log     *zap.Logger
	metrics *metrics.Assets
}

// NewCatalogService constructs a new CatalogService. log and m may be nil.
func NewCatalogService(store repository.Store, assets *asset.Store, log *zap.Logger, m *metrics.Assets) CatalogService {
	return &catalogService{
		store:   store,
		assets:  assets,
		log:     logging.Component(log, "catalog"),
		metrics: m,
	}
}

func (s *catalogService) CreateEntry(ctx context.Context, fields model.EntryFields, up *model.Upload) (_ *model.Entry, err error) {
	ctx, span := tracer.Start(ctx, "catalog.CreateEntry")
	defer func() { endSpan(span, err) }()

	fields = normalizeFields(fields)
	if err := validateFields(fields); err != nil {
		return nil, err
	}
	if err := s.assets.Accept(up); err != nil {
		return nil, &ValidationError{Fields: []string{"file"}, Reason: err.Error()}
	}
	sum := digest.Sum(up.Content)
	span.SetAttributes(attribute.String("asset.digest", sum))

	var (
		entry   *model.Entry
		cover   *model.Asset
		created bool
	)
	for attempt := 1; ; attempt++ {
		err := s.store.WithTx(ctx, func(ctx context.Context, tx repository.Tx) error {
			a, isNew, err := s.assets.FindOrCreate(ctx, tx, sum, up)
			if err != nil {
				return err
			}
			tags, err := resolveTags(ctx, tx, fields.TagIDs)
			if err != nil {
				return err
			}
			e := &model.Entry{AssetID: &a.ID, Tags: tags}
			fields.Apply(e)
			out, err := tx.Entries().Create(ctx, e)
			if err != nil {
				return err
			}
			entry, cover, created = out, a, isNew
			return nil
		})
		if err == nil {
			break
		}
		if !digestRace(err) {
			return nil, translate(err)
		}
		if attempt == maxCreateAttempts {
			s.log.Warn("giving up after digest conflicts",
				zap.String("event", "create_entry"),
				zap.String("digest", sum),
				zap.Int("attempts", attempt),
				zap.Error(err),
			)
			return nil, ErrTransientConflict
		}
		s.metrics.DigestRetry()
		s.log.Info("digest conflict, retrying",
			zap.String("event", "create_entry"),
			zap.String("digest", sum),
			zap.Int("attempt", attempt),
		)
	}
	entry.Cover = cover

	s.log.Info("entry created",
		zap.String("event", "create_entry"),
		zap.Int64("entry_id", entry.ID),
		zap.Int64("asset_id", cover.ID),
		zap.Bool("asset_created", created),
	)

	// The rows are committed; the file step must not be cut short by the caller going away.
	fileCtx := context.WithoutCancel(ctx)
	if created {
		err = s.assets.Materialize(fileCtx, cover, up.Content)
	} else {
		_, err = s.assets.Repair(fileCtx, cover, up.Content)
	}
	if err != nil {
		return entry, &FileError{Op: "write", Key: cover.StoredName, Err: err}
	}
	return entry, nil
}

func (s *catalogService) UpdateEntry(ctx context.Context, id int64, fields model.EntryFields) (_ *model.Entry, err error) {
	ctx, span := tracer.Start(ctx, "catalog.UpdateEntry", trace.WithAttributes(attribute.Int64("entry.id", id)))
	defer func() { endSpan(span, err) }()

	fields = normalizeFields(fields)
	if err := validateFields(fields); err != nil {
		return nil, err
	}

	var out *model.Entry
	err = s.store.WithTx(ctx, func(ctx context.Context, tx repository.Tx) error {
		e, err := tx.Entries().FindByID(ctx, id)
		if err != nil {
			return notFound(err)
		}
		tags, err := resolveTags(ctx, tx, fields.TagIDs)
		if err != nil {
			return err
		}
		fields.Apply(e)
		if err := tx.Entries().Update(ctx, e); err != nil {
			return notFound(err)
		}
		if err := tx.Entries().SetTags(ctx, id, fields.TagIDs); err != nil {
			return err
		}
		e.Tags = tags
		out = e
		return nil
	})
	if err != nil {
		return nil, translate(err)
	}
	return out, nil
}

func (s *catalogService) DeleteEntry(ctx context.Context, id int64) (err error) {
	ctx, span := tracer.Start(ctx, "catalog.DeleteEntry", trace.WithAttributes(attribute.Int64("entry.id", id)))
	defer func() { endSpan(span, err) }()

	var (
		released *model.Asset
		reviews  int64
	)
	err = s.store.WithTx(ctx, func(ctx context.Context, tx repository.Tx) error {
		released, reviews = nil, 0

		e, err := tx.Entries().FindByID(ctx, id)
		if err != nil {
			return notFound(err)
		}

		var (
			cover *model.Asset
			refs  int
		)
		if e.AssetID != nil {
			// Lock before counting so two deletes sharing a cover cannot both see the other's reference.
			// A concurrent delete of the same entry may have released the asset while we waited.
			if err := tx.Assets().Lock(ctx, *e.AssetID); err != nil {
				return notFound(fmt.Errorf("lock asset: %w", err))
			}
			if cover, err = tx.Assets().FindByID(ctx, *e.AssetID); err != nil {
				return notFound(fmt.Errorf("find asset: %w", err))
			}
			if refs, err = tx.Entries().CountByAsset(ctx, cover.ID, e.ID); err != nil {
				return fmt.Errorf("count references: %w", err)
			}
		}

		if reviews, err = tx.Reviews().DeleteByEntry(ctx, id); err != nil {
			return fmt.Errorf("delete reviews: %w", err)
		}
		if err := tx.Entries().Delete(ctx, id); err != nil {
			return notFound(err)
		}

		if cover != nil {
			ok, err := s.assets.ReleaseIfUnreferenced(ctx, tx, cover, refs)
			if err != nil {
				return err
			}
			if ok {
				released = cover
			}
		}
		return nil
	})
	if err != nil {
		return translate(err)
	}

	s.log.Info("entry deleted",
		zap.String("event", "delete_entry"),
		zap.Int64("entry_id", id),
		zap.Int64("reviews_deleted", reviews),
		zap.Bool("asset_released", released != nil),
	)

	if released == nil {
		return nil
	}
	if err := s.assets.Discard(context.WithoutCancel(ctx), released); err != nil {
		return &FileError{Op: "delete", Key: released.StoredName, Err: err}
	}
	return nil
}

func (s *catalogService) GetEntry(ctx context.Context, id, viewerID int64) (*EntryView, error) {
	e, err := s.store.Entries().FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	if e.AssetID != nil {
		a, err := s.store.Assets().FindByID(ctx, *e.AssetID)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		e.Cover = a
	}

	reviews, err := s.store.Reviews().ListByEntry(ctx, id)
	if err != nil {
		return nil, err
	}
	view := &EntryView{Entry: e, Reviews: reviews}
	for _, rv := range reviews {
		if rv.AuthorID == viewerID {
			view.UserReviewed = true
			break
		}
	}
	return view, nil
}

// ListEntries returns paginated entries without exposing repository types.
func (s *catalogService) ListEntries(ctx context.Context, limit, offset int) (*EntryListResult, error) {
	if limit <= 0 {
		limit = defaultPageSize
	}
	if offset < 0 {
		offset = 0
	}

	res, err := s.store.Entries().List(ctx, repository.PageQuery{Limit: limit, Offset: offset})
	if err != nil {
		return nil, err
	}
	return &EntryListResult{Items: res.Items, Total: res.Total}, nil
}

func (s *catalogService) AddReview(ctx context.Context, entryID, authorID int64, score int, text string) (_ *model.Review, err error) {
	ctx, span := tracer.Start(ctx, "catalog.AddReview", trace.WithAttributes(attribute.Int64("entry.id", entryID)))
	defer func() { endSpan(span, err) }()

	text = strings.TrimSpace(text)
	if err := validateReview(score, text); err != nil {
		return nil, err
	}

	var out *model.Review
	err = s.store.WithTx(ctx, func(ctx context.Context, tx repository.Tx) error {
		if _, err := tx.Entries().FindByID(ctx, entryID); err != nil {
			return notFound(err)
		}
		exists, err := tx.Reviews().Exists(ctx, entryID, authorID)
		if err != nil {
			return err
		}
		if exists {
			return ErrDuplicateReview
		}
		out, err = tx.Reviews().Create(ctx, &model.Review{
			EntryID:  entryID,
			AuthorID: authorID,
			Score:    score,
			Text:     text,
		})
		return err
	})
	if err != nil {
		return nil, translate(err)
	}
	return out, nil
}

func (s *catalogService) ListTags(ctx context.Context) ([]model.Tag, error) {
	return s.store.Tags().List(ctx)
}

func (s *catalogService) CreateTag(ctx context.Context, name string) (*model.Tag, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, &ValidationError{Fields: []string{"name"}, Reason: "please fill in all fields"}
	}
	t, err := s.store.Tags().Create(ctx, name)
	if err != nil {
		return nil, translate(err)
	}
	return t, nil
}

func (s *catalogService) OpenCover(ctx context.Context, assetID int64) (io.ReadCloser, *model.Asset, error) {
	a, err := s.store.Assets().FindByID(ctx, assetID)
	if err != nil {
		return nil, nil, notFound(err)
	}
	rc, err := s.assets.Open(ctx, a)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, err
	}
	return rc, a, nil
}

// resolveTags loads the tags for ids and rejects any ID that does not exist.
func resolveTags(ctx context.Context, tx repository.Tx, ids []int64) ([]model.Tag, error) {
	tags, err := tx.Tags().FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("find tags: %w", err)
	}
	if len(tags) != len(ids) {
		return nil, &ValidationError{Fields: []string{"tags"}, Reason: "unknown tag"}
	}
	return tags, nil
}

func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
