package main

import (
	"context"
	"math/rand/v2"
	"slices"
	"sync"
	"sync/atomic"
	"time"
)

// ── Optimizer ───────────────────────────────────────────────────────

// Optimizer runs the generational search for the most valuable sack.
type Optimizer struct {
	catalog *Catalog
	cfg     Config
	index   *CapacityIndex

	ids      atomic.Uint64
	builders []*sackBuilder // one per worker

	// Observer, when set, is called after every round.
	Observer Observer
}

// Result is the outcome of a run.
type Result struct {
	Best    *Sack
	Rounds  int // rounds completed
	Elapsed time.Duration
}

// NewOptimizer validates cfg and indexes the catalog.
func NewOptimizer(catalog *Catalog, cfg Config) (*Optimizer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	index, err := NewCapacityIndex(catalog, cfg.CacheEagerFraction, cfg.CacheLazySize)
	if err != nil {
		return nil, err
	}
	o := &Optimizer{
		catalog: catalog,
		cfg:     cfg,
		index:   index,
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	root := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	workers := max(cfg.Workers, 1)
	o.builders = make([]*sackBuilder, workers)
	for w := range o.builders {
		rng := rand.New(rand.NewPCG(root.Uint64(), root.Uint64()))
		o.builders[w] = newSackBuilder(catalog, index, cfg, &o.ids, rng)
	}
	return o, nil
}

// Index exposes the residual-capacity index built for the catalog.
func (o *Optimizer) Index() *CapacityIndex { return o.index }

// ── Parallel production ─────────────────────────────────────────────

// produce builds n sacks with fn, spreading the work over the builders.
// Builders share only read-only state, so sacks are independent.
func (o *Optimizer) produce(n int, fn func(b *sackBuilder) *Sack) []*Sack {
	if n <= 0 {
		return nil
	}
	out := make([]*Sack, n)
	numWorkers := min(len(o.builders), n)
	if numWorkers == 1 {
		for i := range out {
			out[i] = fn(o.builders[0])
		}
		return out
	}

	jobs := make(chan int, n)
	for i := range n {
		jobs <- i
	}
	close(jobs)

	var wg sync.WaitGroup
	for w := 0; w < numWorkers; w++ {
		wg.Add(1)
		go func(b *sackBuilder) {
			defer wg.Done()
			for i := range jobs {
				out[i] = fn(b)
			}
		}(o.builders[w])
	}
	wg.Wait()
	return out
}

// pickPair draws two parents, redrawing the second a bounded number of times
// while it equals the first. After that the pair is used as is.
func (b *sackBuilder) pickPair(pool []*Sack, retries int) (*Sack, *Sack) {
	a := pool[b.rng.IntN(len(pool))]
	c := pool[b.rng.IntN(len(pool))]
	for try := 0; try < retries && a.Equal(c); try++ {
		c = pool[b.rng.IntN(len(pool))]
	}
	return a, c
}

// ── Generations ─────────────────────────────────────────────────────

func (o *Optimizer) initPool() []*Sack {
	return rankPool(o.produce(o.cfg.PoolSize, (*sackBuilder).random))
}

// oneRound keeps the best sacks, injects fresh random ones and breeds the
// next generation from that survivor set.
func (o *Optimizer) oneRound(pool []*Sack, moreRandom bool) ([]*Sack, int) {
	pool = rankPool(pool)
	if len(pool) > o.cfg.KeepBest {
		pool = pool[:o.cfg.KeepBest]
	}

	qtRandom := o.cfg.AddRandomLow
	if moreRandom {
		qtRandom = o.cfg.AddRandomHigh
	}
	survivors := append(slices.Clip(pool), o.produce(qtRandom, (*sackBuilder).random)...)

	retries := o.cfg.PairRetries
	next := o.produce(o.cfg.PoolSize, func(b *sackBuilder) *Sack {
		a, c := b.pickPair(survivors, retries)
		return b.mix(a, c)
	})
	// dedup may leave fewer than PoolSize; the pool is not refilled
	return rankPool(next), qtRandom
}

// Optimize runs the configured rounds and returns the best sack seen in any
// generation, the initial one included. If ctx is cancelled between rounds
// the best sack so far is returned with ctx.Err().
func (o *Optimizer) Optimize(ctx context.Context) (Result, error) {
	start := time.Now()

	pool := o.initPool()
	best := pool[0]
	lastAverage := topHalfAverage(pool)
	moreRandom := false

	res := Result{Best: best}
	for round := 1; round <= o.cfg.Rounds; round++ {
		if err := ctx.Err(); err != nil {
			res.Elapsed = time.Since(start)
			return res, err
		}

		var injected int
		pool, injected = o.oneRound(pool, moreRandom)
		if pool[0].Value > best.Value {
			best = pool[0]
		}
		topAverage := topHalfAverage(pool)
		// stagnation, including a flat average, widens the next injection
		moreRandom = topAverage <= lastAverage
		lastAverage = topAverage

		res.Best = best
		res.Rounds = round
		if o.Observer != nil {
			o.Observer(RoundStats{
				Round:          round,
				PoolSize:       len(pool),
				RoundBest:      pool[0].Value,
				BestEver:       best.Value,
				TopHalfAverage: topAverage,
				MoreRandom:     moreRandom,
				Injected:       injected,
				Top:            pool[:min(3, len(pool))],
			})
		}
	}
	res.Elapsed = time.Since(start)
	return res, nil
}

// Run is the one-call entry point: validate, index, search.
func Run(ctx context.Context, catalog *Catalog, cfg Config, observer Observer) (Result, error) {
	opt, err := NewOptimizer(catalog, cfg)
	if err != nil {
		return Result{}, err
	}
	opt.Observer = observer
	return opt.Optimize(ctx)
}
