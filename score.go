package main

import (
	"cmp"
	"slices"
)

// ── Pool ranking ────────────────────────────────────────────────────

// sortPool orders the pool by descending value in place. Equal values are
// ordered by item set so that equal sacks end up next to each other.
func sortPool(pool []*Sack) {
	slices.SortStableFunc(pool, func(a, b *Sack) int {
		if c := cmp.Compare(b.Value, a.Value); c != 0 {
			return c
		}
		return slices.Compare(a.key, b.key)
	})
}

// dedupAdjacent collapses runs of equal sacks into their first member.
// The pool must already be sorted by sortPool. It reuses the backing array.
func dedupAdjacent(pool []*Sack) []*Sack {
	return slices.CompactFunc(pool, func(a, b *Sack) bool { return a.Equal(b) })
}

// rankPool sorts and deduplicates.
func rankPool(pool []*Sack) []*Sack {
	sortPool(pool)
	return dedupAdjacent(pool)
}

// topHalfAverage is the truncated mean value of the better half of a sorted
// pool. Pools of one sack average over that sack.
func topHalfAverage(pool []*Sack) int64 {
	if len(pool) == 0 {
		return 0
	}
	top := len(pool) / 2
	if top == 0 {
		top = 1
	}
	var sum int64
	for _, s := range pool[:top] {
		sum += s.Value
	}
	return sum / int64(top)
}
