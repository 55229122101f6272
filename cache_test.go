package main

import (
	"math/rand/v2"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCapacityIndexSoundAndComplete(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 7))
	catalog := NewCatalog(randomItems(rng, 500, 200, 1000))

	for _, frac := range []float64{0, 1.0 / 3.0, 1} {
		ci, err := NewCapacityIndex(catalog, frac, 8)
		require.NoError(t, err)

		for w := int64(0); w <= catalog.MaxWeight+5; w++ {
			got := ci.ItemsWithWeightAtMost(w)
			want := 0
			for _, it := range catalog.Items {
				if it.Weight <= w {
					want++
				}
			}
			require.Len(t, got, want, "frac=%g w=%d", frac, w)
			for _, idx := range got {
				require.LessOrEqual(t, catalog.Items[idx].Weight, w)
			}
		}
		assert.LessOrEqual(t, ci.LazyLen(), 8)
	}
}

func TestCapacityIndexMonotonic(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 9))
	catalog := NewCatalog(randomItems(rng, 300, 50, 100))
	ci, err := NewCapacityIndex(catalog, 1.0/3.0, 16)
	require.NoError(t, err)

	prev := ci.ItemsWithWeightAtMost(0)
	for w := int64(1); w <= 60; w++ {
		cur := ci.ItemsWithWeightAtMost(w)
		require.GreaterOrEqual(t, len(cur), len(prev))
		set := make(map[int]bool, len(cur))
		for _, idx := range cur {
			set[idx] = true
		}
		for _, idx := range prev {
			require.True(t, set[idx], "item %d present at w=%d but not at w=%d", idx, w-1, w)
		}
		prev = cur
	}
}

func TestCapacityIndexEdges(t *testing.T) {
	t.Run("below lightest item", func(t *testing.T) {
		ci, err := NewCapacityIndex(NewCatalog([]Item{{10, 5}, {20, 15}, {30, 25}}), 1.0/3.0, 4)
		require.NoError(t, err)
		assert.Empty(t, ci.ItemsWithWeightAtMost(9))
		assert.Len(t, ci.ItemsWithWeightAtMost(10), 1)
		assert.Len(t, ci.ItemsWithWeightAtMost(25), 2)
		assert.Len(t, ci.ItemsWithWeightAtMost(1<<40), 3)
	})
	t.Run("empty catalog", func(t *testing.T) {
		ci, err := NewCapacityIndex(NewCatalog(nil), 1.0/3.0, 4)
		require.NoError(t, err)
		assert.Empty(t, ci.ItemsWithWeightAtMost(100))
	})
	t.Run("duplicate weights", func(t *testing.T) {
		ci, err := NewCapacityIndex(NewCatalog([]Item{{5, 1}, {5, 1}, {5, 2}, {8, 3}}), 1, 4)
		require.NoError(t, err)
		assert.ElementsMatch(t, []int{0, 1, 2}, ci.ItemsWithWeightAtMost(7))
		assert.Equal(t, 2, ci.EagerLen())
	})
	t.Run("invalid lazy size", func(t *testing.T) {
		_, err := NewCapacityIndex(NewCatalog(nil), 0, 0)
		assert.Error(t, err)
	})
}

func TestCapacityIndexConcurrentLookups(t *testing.T) {
	rng := rand.New(rand.NewPCG(11, 13))
	catalog := NewCatalog(randomItems(rng, 1000, 500, 1000))
	// a tiny LRU forces constant eviction under contention
	ci, err := NewCapacityIndex(catalog, 0.1, 4)
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make(chan int64, 8)
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(seed uint64) {
			defer wg.Done()
			r := rand.New(rand.NewPCG(seed, seed))
			for i := 0; i < 2000; i++ {
				w := r.Int64N(520)
				for _, idx := range ci.ItemsWithWeightAtMost(w) {
					if catalog.Items[idx].Weight > w {
						errs <- w
						return
					}
				}
			}
		}(uint64(g))
	}
	wg.Wait()
	close(errs)
	for w := range errs {
		t.Errorf("item heavier than %d returned", w)
	}
	assert.LessOrEqual(t, ci.LazyLen(), 4)
}
