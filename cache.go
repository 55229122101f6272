package main

import (
	"cmp"
	"slices"
	"sort"

	lru "github.com/hashicorp/golang-lru/v2"
)

// ── Residual-capacity index ─────────────────────────────────────────

// CapacityIndex answers "which items weigh at most w". Items are kept sorted
// by weight, so every answer is a prefix of byWeight; callers must treat the
// returned slices as read-only.
//
// The lightest distinct weights are indexed eagerly; other thresholds are
// resolved by binary search on first use and memoized in a bounded LRU.
type CapacityIndex struct {
	byWeight []int   // catalog indices ordered by ascending weight
	weights  []int64 // weights[i] = weight of byWeight[i]
	distinct []int64 // ascending distinct weights

	eager   map[int64][]int
	eagerTo int64 // largest weight covered by eager, -1 if none
	lazy    *lru.Cache[int64, []int]
}

// NewCapacityIndex builds the index for catalog. eagerFraction is the share
// of distinct weights precomputed; lazySize bounds the memo of the rest.
func NewCapacityIndex(catalog *Catalog, eagerFraction float64, lazySize int) (*CapacityIndex, error) {
	n := catalog.Len()
	byWeight := make([]int, n)
	for i := range byWeight {
		byWeight[i] = i
	}
	slices.SortStableFunc(byWeight, func(a, b int) int {
		return cmp.Compare(catalog.Items[a].Weight, catalog.Items[b].Weight)
	})

	weights := make([]int64, n)
	var distinct []int64
	for i, idx := range byWeight {
		w := catalog.Items[idx].Weight
		weights[i] = w
		if len(distinct) == 0 || distinct[len(distinct)-1] != w {
			distinct = append(distinct, w)
		}
	}

	lazy, err := lru.New[int64, []int](lazySize)
	if err != nil {
		return nil, err
	}

	ci := &CapacityIndex{
		byWeight: byWeight,
		weights:  weights,
		distinct: distinct,
		eager:    make(map[int64][]int),
		eagerTo:  -1,
		lazy:     lazy,
	}

	nEager := int(float64(len(distinct)) * eagerFraction)
	end := 0
	for _, w := range distinct[:nEager] {
		for end < n && weights[end] <= w {
			end++
		}
		ci.eager[w] = byWeight[:end:end]
		ci.eagerTo = w
	}
	return ci, nil
}

// ItemsWithWeightAtMost returns the catalog indices of every item whose
// weight does not exceed w. The result for a smaller w is always a prefix of
// the result for a larger one.
func (ci *CapacityIndex) ItemsWithWeightAtMost(w int64) []int {
	// floor to the greatest distinct catalog weight <= w
	pos := sort.Search(len(ci.distinct), func(i int) bool { return ci.distinct[i] > w }) - 1
	if pos < 0 {
		return nil
	}
	floor := ci.distinct[pos]
	if floor <= ci.eagerTo {
		return ci.eager[floor]
	}
	if items, ok := ci.lazy.Get(floor); ok {
		return items
	}
	end := sort.Search(len(ci.weights), func(i int) bool { return ci.weights[i] > floor })
	items := ci.byWeight[:end:end]
	ci.lazy.Add(floor, items)
	return items
}

// EagerLen reports how many thresholds were precomputed.
func (ci *CapacityIndex) EagerLen() int { return len(ci.eager) }

// LazyLen reports how many thresholds are memoized right now.
func (ci *CapacityIndex) LazyLen() int { return ci.lazy.Len() }
