package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"catalogapi/internal/auth"
	"catalogapi/internal/model"
	"catalogapi/internal/service"
	"catalogapi/internal/service/mocks"
)

func TestAuthorizedCatalog_Gates(t *testing.T) {
	admin := &auth.Principal{ID: 1, Role: auth.RoleAdmin}
	mod := &auth.Principal{ID: 2, Role: auth.RoleMod}
	user := &auth.Principal{ID: 3, Role: auth.RoleUser}

	tests := []struct {
		name    string
		p       *auth.Principal
		call    func(ctx context.Context, svc service.CatalogService) error
		setup   func(m *mocks.MockCatalogService)
		wantErr error
	}{
		{
			name: "anonymous create",
			call: func(ctx context.Context, svc service.CatalogService) error {
				_, err := svc.CreateEntry(ctx, model.EntryFields{}, nil)
				return err
			},
			wantErr: auth.ErrUnauthenticated,
		},
		{
			name: "mod create",
			p:    mod,
			call: func(ctx context.Context, svc service.CatalogService) error {
				_, err := svc.CreateEntry(ctx, model.EntryFields{}, nil)
				return err
			},
			wantErr: auth.ErrForbidden,
		},
		{
			name: "admin create",
			p:    admin,
			setup: func(m *mocks.MockCatalogService) {
				m.On("CreateEntry", mock.Anything, model.EntryFields{}, (*model.Upload)(nil)).Return(&model.Entry{ID: 1}, nil)
			},
			call: func(ctx context.Context, svc service.CatalogService) error {
				_, err := svc.CreateEntry(ctx, model.EntryFields{}, nil)
				return err
			},
		},
		{
			name: "mod update",
			p:    mod,
			setup: func(m *mocks.MockCatalogService) {
				m.On("UpdateEntry", mock.Anything, int64(5), model.EntryFields{}).Return(&model.Entry{ID: 5}, nil)
			},
			call: func(ctx context.Context, svc service.CatalogService) error {
				_, err := svc.UpdateEntry(ctx, 5, model.EntryFields{})
				return err
			},
		},
		{
			name: "user update",
			p:    user,
			call: func(ctx context.Context, svc service.CatalogService) error {
				_, err := svc.UpdateEntry(ctx, 5, model.EntryFields{})
				return err
			},
			wantErr: auth.ErrForbidden,
		},
		{
			name: "mod delete",
			p:    mod,
			call: func(ctx context.Context, svc service.CatalogService) error {
				return svc.DeleteEntry(ctx, 5)
			},
			wantErr: auth.ErrForbidden,
		},
		{
			name: "user view",
			p:    user,
			setup: func(m *mocks.MockCatalogService) {
				m.On("GetEntry", mock.Anything, int64(5), int64(3)).Return(&service.EntryView{}, nil)
			},
			call: func(ctx context.Context, svc service.CatalogService) error {
				_, err := svc.GetEntry(ctx, 5, 3)
				return err
			},
		},
		{
			name: "user review as self",
			p:    user,
			setup: func(m *mocks.MockCatalogService) {
				m.On("AddReview", mock.Anything, int64(5), int64(3), 4, "ok").Return(&model.Review{}, nil)
			},
			call: func(ctx context.Context, svc service.CatalogService) error {
				_, err := svc.AddReview(ctx, 5, 3, 4, "ok")
				return err
			},
		},
		{
			name: "user review as someone else",
			p:    user,
			call: func(ctx context.Context, svc service.CatalogService) error {
				_, err := svc.AddReview(ctx, 5, 1, 4, "ok")
				return err
			},
			wantErr: auth.ErrForbidden,
		},
		{
			name: "user create tag",
			p:    user,
			call: func(ctx context.Context, svc service.CatalogService) error {
				_, err := svc.CreateTag(ctx, "idm")
				return err
			},
			wantErr: auth.ErrForbidden,
		},
		{
			name: "anonymous list",
			setup: func(m *mocks.MockCatalogService) {
				m.On("ListEntries", mock.Anything, 10, 0).Return(&service.EntryListResult{}, nil)
			},
			call: func(ctx context.Context, svc service.CatalogService) error {
				_, err := svc.ListEntries(ctx, 10, 0)
				return err
			},
		},
		{
			name: "anonymous tags",
			setup: func(m *mocks.MockCatalogService) {
				m.On("ListTags", mock.Anything).Return([]model.Tag{}, nil)
			},
			call: func(ctx context.Context, svc service.CatalogService) error {
				_, err := svc.ListTags(ctx)
				return err
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inner := new(mocks.MockCatalogService)
			if tt.setup != nil {
				tt.setup(inner)
			}
			svc := service.NewAuthorizedCatalogService(inner)

			ctx := context.Background()
			if tt.p != nil {
				ctx = auth.WithPrincipal(ctx, tt.p)
			}

			err := tt.call(ctx, svc)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			inner.AssertExpectations(t)
		})
	}
}
