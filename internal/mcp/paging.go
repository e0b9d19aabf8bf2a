package mcp

// Pagination defaults and bounds shared by every list/search tool.
const (
	defaultLimit = 25
	maxLimit     = 100
)

// clampLimit bounds a caller-supplied page size to 1..maxLimit, defaulting
// when absent or non-positive.
func clampLimit(limit int) int {
	if limit <= 0 {
		return defaultLimit
	}
	if limit > maxLimit {
		return maxLimit
	}
	return limit
}

// pageForOffset translates offset-based pagination into the upstream's
// 1-indexed page-based pagination: page = floor(offset/limit) + 1.
func pageForOffset(offset, limit int) int {
	if offset < 0 {
		offset = 0
	}
	return offset/limit + 1
}

// slicePage returns the [offset, offset+limit) window of a list the registry
// paginates itself (used where the upstream endpoint is not paginated).
func slicePage[T any](items []T, offset, limit int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return []T{}
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}
