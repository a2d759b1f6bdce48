package service

import (
	"context"
	"fmt"
)

type idStore interface {
	MaxID(ctx context.Context) (int64, error)
	Exists(ctx context.Context, id int64) (bool, error)
}

// nextID returns max(existing id)+1, or 1 for an empty collection.
func nextID(ctx context.Context, s idStore) (int64, error) {
	current, err := s.MaxID(ctx)
	if err != nil {
		return 0, fmt.Errorf("read max id: %w", err)
	}

	return current + 1, nil
}

// allocateID honours an explicitly requested id if it is free and otherwise
// hands out the next sequential one. Callers must hold the service's create
// lock so two requests can't be handed the same id.
func allocateID(ctx context.Context, s idStore, requested *int64, taken error) (int64, error) {
	if requested == nil || *requested <= 0 {
		return nextID(ctx, s)
	}

	exists, err := s.Exists(ctx, *requested)
	if err != nil {
		return 0, fmt.Errorf("check id uniqueness: %w", err)
	}

	if exists {
		return 0, taken
	}

	return *requested, nil
}

func collectIDs[T any](items []T, id func(T) int64) []int64 {
	ids := make([]int64, 0, len(items))
	for _, it := range items {
		ids = append(ids, id(it))
	}
	return ids
}
