package memory

import (
	"sort"
)

// page sorts items by id ascending and cuts out the [offset, offset+limit)
// window. It always returns a non-nil slice so empty pages encode as [].
func page[T any](items []T, id func(T) int64, limit, offset int) []T {
	sort.Slice(items, func(i, j int) bool { return id(items[i]) < id(items[j]) })

	if offset < 0 {
		offset = 0
	}

	if offset >= len(items) {
		return []T{}
	}

	end := len(items)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}

	out := make([]T, end-offset)
	copy(out, items[offset:end])

	return out
}
