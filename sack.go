package main

import (
	"math/rand/v2"
	"slices"
	"sync/atomic"
)

// Sack is a capacity-feasible set of catalog items. It is never mutated
// after construction.
type Sack struct {
	ID     uint64
	Items  []int // catalog indices in insertion order
	Weight int64
	Value  int64

	key []int // Items sorted, for equality
}

// Equal reports whether both sacks hold exactly the same catalog entries.
func (s *Sack) Equal(o *Sack) bool {
	if s == o {
		return true
	}
	return s.Value == o.Value && slices.Equal(s.key, o.key)
}

// Contains reports whether the sack holds catalog entry idx.
func (s *Sack) Contains(idx int) bool {
	_, ok := slices.BinarySearch(s.key, idx)
	return ok
}

// ── Sack builder ────────────────────────────────────────────────────

// rejectTries bounds the draw-and-reject loop of the top-up phase before it
// falls back to filtering.
const rejectTries = 32

// sackBuilder creates sacks for one worker. The catalog, index and id
// counter are shared; rng and scratch are owned by the worker.
type sackBuilder struct {
	catalog   *Catalog
	index     *CapacityIndex
	capacity  int64
	minWeight int64
	density   int
	ids       *atomic.Uint64
	rng       *rand.Rand
	scratch   []int
}

func newSackBuilder(catalog *Catalog, index *CapacityIndex, cfg Config, ids *atomic.Uint64, rng *rand.Rand) *sackBuilder {
	minWeight := cfg.MinItemWeight
	if minWeight == 0 {
		minWeight = catalog.MinWeight
	}
	return &sackBuilder{
		catalog:   catalog,
		index:     index,
		capacity:  cfg.Capacity,
		minWeight: minWeight,
		density:   cfg.DensityRatio,
		ids:       ids,
		rng:       rng,
	}
}

func (b *sackBuilder) newSack(items []int) *Sack {
	s := &Sack{
		ID:    b.ids.Add(1),
		Items: items,
		key:   slices.Clone(items),
	}
	slices.Sort(s.key)
	for _, idx := range items {
		it := b.catalog.Items[idx]
		s.Weight += it.Weight
		s.Value += it.Value
	}
	return s
}

// random packs a sack by drawing random items until the first one that does
// not fit, then tops it up from the index.
func (b *sackBuilder) random() *Sack {
	n := b.catalog.Len()
	chosen := make(map[int]struct{})
	var picked []int
	var w int64
	// each redraw of an already chosen item counts against n
	for misses := 0; len(picked) < n && misses < n; {
		idx := b.rng.IntN(n)
		if _, ok := chosen[idx]; ok {
			misses++
			continue
		}
		wt := b.catalog.Items[idx].Weight
		if w+wt > b.capacity {
			break
		}
		chosen[idx] = struct{}{}
		picked = append(picked, idx)
		w += wt
	}
	picked = b.topUp(chosen, picked, w)
	return b.newSack(picked)
}

// mix interleaves the items of a and c, keeps them until the first one that
// overflows, then tops the child up from the index.
func (b *sackBuilder) mix(a, c *Sack) *Sack {
	chosen := make(map[int]struct{}, len(a.Items)+len(c.Items))
	picked := make([]int, 0, max(len(a.Items), len(c.Items)))
	var w int64
	n := max(len(a.Items), len(c.Items))
	parents := [2]*Sack{a, c}
interleave:
	for i := 0; i < n; i++ {
		for _, p := range parents {
			if i >= len(p.Items) {
				continue
			}
			idx := p.Items[i]
			if _, ok := chosen[idx]; ok {
				continue
			}
			wt := b.catalog.Items[idx].Weight
			if w+wt > b.capacity {
				break interleave
			}
			chosen[idx] = struct{}{}
			picked = append(picked, idx)
			w += wt
		}
	}
	picked = b.topUp(chosen, picked, w)
	return b.newSack(picked)
}

// topUp adds random fitting items until the residual capacity drops below
// the minimum item weight or nothing unchosen fits.
func (b *sackBuilder) topUp(chosen map[int]struct{}, picked []int, w int64) []int {
	for b.capacity-w >= b.minWeight {
		fits := b.index.ItemsWithWeightAtMost(b.capacity - w)
		if len(fits) == 0 {
			break
		}
		pick := -1
		if len(fits) > b.density*len(picked) {
			for try := 0; try < rejectTries; try++ {
				idx := fits[b.rng.IntN(len(fits))]
				if _, ok := chosen[idx]; !ok {
					pick = idx
					break
				}
			}
		}
		if pick < 0 {
			free := b.scratch[:0]
			for _, idx := range fits {
				if _, ok := chosen[idx]; !ok {
					free = append(free, idx)
				}
			}
			b.scratch = free
			if len(free) == 0 {
				break
			}
			pick = free[b.rng.IntN(len(free))]
		}
		chosen[pick] = struct{}{}
		picked = append(picked, pick)
		w += b.catalog.Items[pick].Weight
	}
	return picked
}
