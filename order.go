package d7r

import "sort"

// CombinatorEntry holds a middleware with its priority for auto-ordering.
type CombinatorEntry[T any] struct {
	MW       Middleware[T]
	Name     string
	Priority int
}

// Priority constants define the execution order for combinators.
// Lower priority = outermost middleware (executed first).
const (
	priorityCatch    = 0 // outermost — guards everything below
	priorityTimeit   = 1 // times the whole repeated batch
	priorityRepeat   = 2
	priorityThreaded = 3 // innermost — closest to user function
)

// SortCombinators sorts entries by priority (lowest first = outermost).
// Stable sort to preserve order of entries with the same priority.
func SortCombinators[T any](entries []CombinatorEntry[T]) []Middleware[T] {
	if len(entries) == 0 {
		return nil
	}

	// Copy to avoid mutating the caller's slice.
	sorted := make([]CombinatorEntry[T], 0, len(entries))
	sorted = append(sorted, entries...)

	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Priority < sorted[j].Priority
	})

	mws := make([]Middleware[T], 0, len(sorted))
	for _, e := range sorted {
		mws = append(mws, e.MW)
	}

	return mws
}
