package main

import (
	"context"
	"fmt"
	"math/rand/v2"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

var runSeeds = []uint64{680020, 680050, 680080, 680095}

func loadTestCatalog(t *testing.T, n int) *Catalog {
	t.Helper()
	g := DefaultGeneratorConfig()
	g.NbItem = n
	g.WeightMax = 100_000
	items, err := GenerateItems(g, rand.New(rand.NewPCG(2024, 2024)))
	require.NoError(t, err)

	// go through the file layer like the CLI does
	path := filepath.Join(t.TempDir(), "items.yml")
	require.NoError(t, SaveItems(path, items))
	items, err = LoadItems(path)
	require.NoError(t, err)
	return NewCatalog(items)
}

// verifyResult runs the checklist against an optimizer result.
func verifyResult(t *testing.T, catalog *Catalog, cfg Config, best *Sack) {
	t.Helper()

	// 1. value > 0
	if best.Value <= 0 {
		t.Errorf("best value %d, want > 0", best.Value)
	}

	seen := map[int]bool{}
	var weight, value int64
	for _, idx := range best.Items {
		// 2. index in bounds
		if idx < 0 || idx >= catalog.Len() {
			t.Errorf("item index %d out of bounds (len=%d)", idx, catalog.Len())
			continue
		}
		// 3. no duplicate item
		if seen[idx] {
			t.Errorf("duplicate item %d", idx)
		}
		seen[idx] = true
		weight += catalog.Items[idx].Weight
		value += catalog.Items[idx].Value
	}

	// 4. cached aggregates match recomputation
	if weight != best.Weight || value != best.Value {
		t.Errorf("recomputed (w=%d, v=%d) != cached (w=%d, v=%d)", weight, value, best.Weight, best.Value)
	}

	// 5. capacity respected
	if best.Weight > cfg.Capacity {
		t.Errorf("weight %d exceeds capacity %d", best.Weight, cfg.Capacity)
	}

	// 6. nothing left that still fits
	residual := cfg.Capacity - best.Weight
	for idx, it := range catalog.Items {
		if !seen[idx] && it.Weight <= residual {
			t.Errorf("item %d (w=%d) fits residual %d", idx, it.Weight, residual)
			break
		}
	}
}

func TestRealRuns(t *testing.T) {
	n := 20_000
	seeds := runSeeds
	if testing.Short() {
		n = 2_000
		seeds = seeds[:1]
	}
	catalog := loadTestCatalog(t, n)

	// Reduced search params for test speed.
	testCfg := DefaultConfig()
	testCfg.Capacity = 5_000_000
	testCfg.PoolSize = 40
	testCfg.KeepBest = 20
	testCfg.Rounds = 15
	testCfg.Workers = 4

	for _, seed := range seeds {
		t.Run(fmt.Sprintf("seed_%d", seed), func(t *testing.T) {
			t.Parallel()
			cfg := testCfg
			cfg.Seed = seed

			var firstRound int64
			res, err := Run(context.Background(), catalog, cfg, func(st RoundStats) {
				if st.Round == 1 {
					firstRound = st.BestEver
				}
			})
			require.NoError(t, err)
			t.Logf("seed %d: value=%d rounds=%d elapsed=%v", seed, res.Best.Value, res.Rounds, res.Elapsed)

			if res.Best.Value < firstRound {
				t.Errorf("best %d below round 1 best %d", res.Best.Value, firstRound)
			}
			verifyResult(t, catalog, cfg, res.Best)
		})
	}
}
