// Package listview implements the client-side list behavior shared by every
// table page of the dashboard: status-tab filtering, per-status tally badges,
// free-text search and pagination. Each entity type declares a View describing
// its status buckets and searchable fields; the engine itself is generic.
package listview

import "strings"

// TabAll is the unfiltered tab present on every list view.
const TabAll = "All"

// View describes how a list of T is categorized and searched.
type View[T any] struct {
	// Statuses are the tab buckets, excluding "All". Order is the tab order.
	Statuses []string
	// StatusOf extracts the entity's status value.
	StatusOf func(T) string
	// SearchFields extracts the values matched by the free-text filter.
	// Numeric ids should be included as their decimal string form.
	SearchFields func(T) []string
}

// Tally counts entities per status bucket. Every bucket is present in the
// result, zero when empty, and Tally[All] is always len(items). An entity
// whose status is not a declared bucket counts toward "All" only, so the
// bucket sum can fall short of the total when foreign statuses slip in.
func (v View[T]) Tally(items []T) map[string]int {
	counts := make(map[string]int, len(v.Statuses)+1)
	counts[TabAll] = len(items)
	for _, s := range v.Statuses {
		counts[s] = 0
	}
	for _, it := range items {
		s := v.StatusOf(it)
		if _, ok := counts[s]; ok && s != TabAll {
			counts[s]++
		}
	}
	return counts
}

// Filter returns the entities passing both the tab predicate and the
// case-insensitive substring search, preserving source order. An empty
// query matches everything; matching is substring, never fuzzy.
func (v View[T]) Filter(items []T, tab, query string) []T {
	query = strings.ToLower(strings.TrimSpace(query))
	out := make([]T, 0, len(items))
	for _, it := range items {
		if tab != TabAll && tab != "" && v.StatusOf(it) != tab {
			continue
		}
		if query != "" && !v.matches(it, query) {
			continue
		}
		out = append(out, it)
	}
	return out
}

func (v View[T]) matches(it T, lowered string) bool {
	for _, f := range v.SearchFields(it) {
		if strings.Contains(strings.ToLower(f), lowered) {
			return true
		}
	}
	return false
}

// Paginate slices the window for page (1-based). A page beyond the end
// yields an empty slice rather than an error.
func Paginate[T any](items []T, page, pageSize int) []T {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 1
	}
	start := (page - 1) * pageSize
	if start >= len(items) {
		return []T{}
	}
	end := start + pageSize
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

// Window tracks pagination state for a server-backed list, where filtering
// and slicing happen remotely and only the returned total is trusted.
type Window struct {
	Page     int
	PageSize int
}

// Skip returns the remote offset for the current page.
func (w Window) Skip() int {
	if w.Page < 1 {
		return 0
	}
	return (w.Page - 1) * w.PageSize
}

// Resize changes the page size and resets to the first page, so the next
// request can never ask for a window past the end of the shrunken list.
func (w *Window) Resize(pageSize int) {
	if pageSize < 1 {
		return
	}
	w.PageSize = pageSize
	w.Page = 1
}

// Pages returns the page count for a remote-reported total.
func (w Window) Pages(total int) int {
	if w.PageSize < 1 || total <= 0 {
		return 0
	}
	return (total + w.PageSize - 1) / w.PageSize
}
