package service

import (
	"context"
	"io"

	"catalogapi/internal/auth"
	"catalogapi/internal/model"
)

// Roles allowed to run each workflow. Listing entries and tags and reading covers are public.
var (
	rolesManage = []string{auth.RoleAdmin}
	rolesEdit   = []string{auth.RoleAdmin, auth.RoleMod}
	rolesMember = []string{auth.RoleAdmin, auth.RoleMod, auth.RoleUser}
)

// authorizedCatalog checks the principal carried by the context before delegating.
type authorizedCatalog struct {
	next CatalogService
}

// NewAuthorizedCatalogService wraps next with role checks against auth.FromContext.
// next itself knows nothing about callers.
func NewAuthorizedCatalogService(next CatalogService) CatalogService {
	return &authorizedCatalog{next: next}
}

func (a *authorizedCatalog) CreateEntry(ctx context.Context, fields model.EntryFields, up *model.Upload) (*model.Entry, error) {
	if err := auth.RequireRole(auth.FromContext(ctx), rolesManage...); err != nil {
		return nil, err
	}
	return a.next.CreateEntry(ctx, fields, up)
}

func (a *authorizedCatalog) UpdateEntry(ctx context.Context, id int64, fields model.EntryFields) (*model.Entry, error) {
	if err := auth.RequireRole(auth.FromContext(ctx), rolesEdit...); err != nil {
		return nil, err
	}
	return a.next.UpdateEntry(ctx, id, fields)
}

func (a *authorizedCatalog) DeleteEntry(ctx context.Context, id int64) error {
	if err := auth.RequireRole(auth.FromContext(ctx), rolesManage...); err != nil {
		return err
	}
	return a.next.DeleteEntry(ctx, id)
}

func (a *authorizedCatalog) GetEntry(ctx context.Context, id, viewerID int64) (*EntryView, error) {
	if err := auth.RequireRole(auth.FromContext(ctx), rolesMember...); err != nil {
		return nil, err
	}
	return a.next.GetEntry(ctx, id, viewerID)
}

func (a *authorizedCatalog) ListEntries(ctx context.Context, limit, offset int) (*EntryListResult, error) {
	return a.next.ListEntries(ctx, limit, offset)
}

// AddReview also requires the review to be written in the caller's own name.
func (a *authorizedCatalog) AddReview(ctx context.Context, entryID, authorID int64, score int, text string) (*model.Review, error) {
	p := auth.FromContext(ctx)
	if err := auth.RequireRole(p, rolesMember...); err != nil {
		return nil, err
	}
	if p.ID != authorID {
		return nil, auth.ErrForbidden
	}
	return a.next.AddReview(ctx, entryID, authorID, score, text)
}

func (a *authorizedCatalog) ListTags(ctx context.Context) ([]model.Tag, error) {
	return a.next.ListTags(ctx)
}

func (a *authorizedCatalog) CreateTag(ctx context.Context, name string) (*model.Tag, error) {
	if err := auth.RequireRole(auth.FromContext(ctx), rolesManage...); err != nil {
		return nil, err
	}
	return a.next.CreateTag(ctx, name)
}

func (a *authorizedCatalog) OpenCover(ctx context.Context, assetID int64) (io.ReadCloser, *model.Asset, error) {
	return a.next.OpenCover(ctx, assetID)
}
