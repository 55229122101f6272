package main

import (
	"errors"
	"fmt"
)

// ErrEmptyCatalog is returned by loaders when an items file holds no items.
// The search itself tolerates an empty catalog and yields empty sacks.
var ErrEmptyCatalog = errors.New("catalog has no items")

// Item is one packable entry of the catalog. Items are referenced by their
// position in the catalog, so two equal items are still distinct entries.
type Item struct {
	Weight int64 `yaml:"weight" json:"weight"`
	Value  int64 `yaml:"value" json:"value"`
}

// Catalog is the immutable, ordered item set shared by every worker.
type Catalog struct {
	Items     []Item
	MinWeight int64 // smallest item weight, 0 when empty
	MaxWeight int64
}

// NewCatalog wraps items and precomputes the weight bounds.
func NewCatalog(items []Item) *Catalog {
	c := &Catalog{Items: items}
	for i, it := range items {
		if i == 0 || it.Weight < c.MinWeight {
			c.MinWeight = it.Weight
		}
		if it.Weight > c.MaxWeight {
			c.MaxWeight = it.Weight
		}
	}
	return c
}

func (c *Catalog) Len() int { return len(c.Items) }

// ConfigError reports an invalid search parameter. It is fatal and is
// returned before any round runs.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid config %s: %s", e.Field, e.Reason)
}

// RoundStats is what the driver reports after each round.
type RoundStats struct {
	Round          int
	PoolSize       int
	RoundBest      int64 // best value in this round's pool
	BestEver       int64
	TopHalfAverage int64
	MoreRandom     bool // next round injects the larger batch
	Injected       int
	Top            []*Sack // up to three best sacks of the round
}

// Observer receives progress after every round. It must not retain or
// mutate the sacks beyond the call.
type Observer func(RoundStats)
