package asset

import (
	"context"
	"fmt"

	"catalogapi/internal/model"
	"catalogapi/internal/repository"
)

// Report lists the places where asset rows and stored objects disagree.
type Report struct {
	Checked int
	// Missing are rows whose object does not exist, the state a failed post-commit write leaves.
	Missing []model.Asset
	// Stray are stored objects no row points at, left when a post-commit delete failed.
	Stray []string
}

// OK reports whether rows and objects match one to one.
func (r *Report) OK() bool {
	return len(r.Missing) == 0 && len(r.Stray) == 0
}

// Verify compares every asset row against the blob storage. It changes nothing.
func (s *Store) Verify(ctx context.Context, assets repository.AssetRepository) (*Report, error) {
	rows, err := assets.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list assets: %w", err)
	}
	keys, err := s.blobs.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list objects: %w", err)
	}

	stored := make(map[string]bool, len(keys))
	for _, k := range keys {
		stored[k] = true
	}

	rep := &Report{Checked: len(rows), Missing: []model.Asset{}, Stray: []string{}}
	for _, a := range rows {
		if stored[a.StoredName] {
			delete(stored, a.StoredName)
			continue
		}
		rep.Missing = append(rep.Missing, a)
	}
	for _, k := range keys {
		if stored[k] {
			rep.Stray = append(rep.Stray, k)
		}
	}
	return rep, nil
}
