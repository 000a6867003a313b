package mocks

import (
	"context"
	"io"

	"catalogapi/internal/model"
	"catalogapi/internal/service"
	"github.com/stretchr/testify/mock"
)

type MockCatalogService struct {
	mock.Mock
}

func (m *MockCatalogService) CreateEntry(ctx context.Context, fields model.EntryFields, upload *model.Upload) (*model.Entry, error) {
	args := m.Called(ctx, fields, upload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Entry), args.Error(1)
}

func (m *MockCatalogService) UpdateEntry(ctx context.Context, id int64, fields model.EntryFields) (*model.Entry, error) {
	args := m.Called(ctx, id, fields)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Entry), args.Error(1)
}

func (m *MockCatalogService) DeleteEntry(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCatalogService) GetEntry(ctx context.Context, id, viewerID int64) (*service.EntryView, error) {
	args := m.Called(ctx, id, viewerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.EntryView), args.Error(1)
}

func (m *MockCatalogService) ListEntries(ctx context.Context, limit, offset int) (*service.EntryListResult, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.EntryListResult), args.Error(1)
}

func (m *MockCatalogService) AddReview(ctx context.Context, entryID, authorID int64, score int, text string) (*model.Review, error) {
	args := m.Called(ctx, entryID, authorID, score, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Review), args.Error(1)
}

func (m *MockCatalogService) ListTags(ctx context.Context) ([]model.Tag, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Tag), args.Error(1)
}

func (m *MockCatalogService) CreateTag(ctx context.Context, name string) (*model.Tag, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Tag), args.Error(1)
}

func (m *MockCatalogService) OpenCover(ctx context.Context, assetID int64) (io.ReadCloser, *model.Asset, error) {
	args := m.Called(ctx, assetID)
	var (
		rc io.ReadCloser
		a  *model.Asset
	)
	if v := args.Get(0); v != nil {
		rc = v.(io.ReadCloser)
	}
	if v := args.Get(1); v != nil {
		a = v.(*model.Asset)
	}
	return rc, a, args.Error(2)
}
