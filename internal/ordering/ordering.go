// Package ordering persists the user-defined album sequence and resolves
// album listings against it.
package ordering

import (
	"context"

	"photo-vault/internal/metadata"
)

// Service applies and resolves album ordering. Positions are written by
// this service only; album creation seeds the initial slot.
type Service struct {
	meta *metadata.Store
}

// NewService returns an ordering service over the metadata store.
func NewService(meta *metadata.Store) *Service {
	return &Service{meta: meta}
}

// Reorder assigns each album a position equal to its index in
// orderedIDs, as one all-or-nothing operation. If any id is unknown the
// whole batch is rejected with a not-found fault and no position
// changes. Albums omitted from the list lose their explicit position and
// fall back to the default ordering.
func (s *Service) Reorder(ctx context.Context, orderedIDs []string) error {
	return s.meta.SetPositions(ctx, orderedIDs)
}

// Resolve returns all albums in the requested order: explicit position
// ascending for SortCustom, or date descending with name ascending as
// the deterministic tie-break for SortByDate.
func (s *Service) Resolve(ctx context.Context, mode metadata.SortMode) ([]metadata.Album, error) {
	return s.meta.ListAlbums(ctx, mode)
}
