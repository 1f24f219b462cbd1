package asset

import (
	"context"

	"github.com/google/uuid"
)

// ParentLookup returns the parent of id, or nil for a root
type ParentLookup func(ctx context.Context, id uuid.UUID) (*uuid.UUID, error)

// EnsureNoCycle walks up from parentID and fails with ErrRecursiveAsset if
// assetID is reached, which would make assetID its own ancestor
func EnsureNoCycle(ctx context.Context, assetID uuid.UUID, parentID *uuid.UUID, lookup ParentLookup) error {
	if parentID == nil {
		return nil
	}
	visited := map[uuid.UUID]bool{}
	current := parentID
	for current != nil {
		if *current == assetID {
			return ErrRecursiveAsset
		}
		if visited[*current] {
			// pre-existing cycle above assetID
			return ErrRecursiveAsset
		}
		visited[*current] = true

		next, err := lookup(ctx, *current)
		if err != nil {
			return err
		}
		current = next
	}
	return nil
}
