package asset

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func lookupFrom(parents map[uuid.UUID]*uuid.UUID) ParentLookup {
	return func(_ context.Context, id uuid.UUID) (*uuid.UUID, error) {
		return parents[id], nil
	}
}

func TestEnsureNoCycle(t *testing.T) {
	a, b, c := uuid.New(), uuid.New(), uuid.New()
	// c -> b -> a (root)
	parents := map[uuid.UUID]*uuid.UUID{b: &a, c: &b}
	ctx := context.Background()

	assert.NoError(t, EnsureNoCycle(ctx, c, nil, lookupFrom(parents)))
	assert.NoError(t, EnsureNoCycle(ctx, uuid.New(), &c, lookupFrom(parents)))
	// a under c closes the loop
	assert.ErrorIs(t, EnsureNoCycle(ctx, a, &c, lookupFrom(parents)), ErrRecursiveAsset)
	assert.ErrorIs(t, EnsureNoCycle(ctx, a, &a, lookupFrom(parents)), ErrRecursiveAsset)
}

func TestEnsureNoCycle_ExistingLoop(t *testing.T) {
	x, y := uuid.New(), uuid.New()
	parents := map[uuid.UUID]*uuid.UUID{x: &y, y: &x}
	err := EnsureNoCycle(context.Background(), uuid.New(), &x, lookupFrom(parents))
	assert.ErrorIs(t, err, ErrRecursiveAsset)
}

func TestEnsureNoCycle_LookupError(t *testing.T) {
	boom := errors.New("boom")
	parent := uuid.New()
	err := EnsureNoCycle(context.Background(), uuid.New(), &parent, func(context.Context, uuid.UUID) (*uuid.UUID, error) {
		return nil, boom
	})
	assert.ErrorIs(t, err, boom)
}
