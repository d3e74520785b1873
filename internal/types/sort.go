package types

import "slices"

// SortByCreatedDesc orders issues newest first. The sort is stable so that
// issues sharing a timestamp keep their incoming relative order.
func SortByCreatedDesc(issues []*Issue) {
	slices.SortStableFunc(issues, func(a, b *Issue) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
}
