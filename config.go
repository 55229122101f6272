package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"runtime"

	"gopkg.in/yaml.v3"
)

// Config holds the search parameters. YAML keys follow params.yml.
type Config struct {
	// Capacity is the maximum total weight of a sack.
	Capacity int64 `yaml:"sack_max_weight"`
	// PoolSize is the number of sacks produced per generation.
	PoolSize int `yaml:"pool_size"`
	// KeepBest is how many sacks survive into the next generation.
	KeepBest int `yaml:"pool_keep_best"`
	// AddRandomLow is the injection batch while the pool keeps improving.
	AddRandomLow int `yaml:"pool_add_random_low"`
	// AddRandomHigh is the injection batch once the pool stagnates.
	AddRandomHigh int `yaml:"pool_add_random_high"`
	// Rounds is the number of generations to run.
	Rounds int `yaml:"rounds"`
	// MinItemWeight stops the top-up phase once the residual capacity drops
	// below it. 0 means use the catalog's lightest item.
	MinItemWeight int64 `yaml:"min_item_weight"`
	// CacheEagerFraction is the share of distinct weights indexed up front.
	CacheEagerFraction float64 `yaml:"cache_eager_fraction"`
	// CacheLazySize bounds the LRU holding the remaining thresholds.
	CacheLazySize int `yaml:"cache_lazy_size"`
	// DensityRatio switches top-up sampling from reject-and-redraw to
	// filter-then-draw once fitting items are fewer than ratio*chosen.
	DensityRatio int `yaml:"density_ratio"`
	// PairRetries bounds the search for two distinct parents.
	PairRetries int `yaml:"pair_retries"`
	// Workers is the number of goroutines building sacks within a round.
	Workers int `yaml:"workers"`
	// Seed makes runs reproducible when Workers is 1. 0 seeds from time.
	Seed uint64 `yaml:"seed"`
}

// DefaultConfig returns the stock parameters.
func DefaultConfig() Config {
	return Config{
		Capacity:           1_000_000_000,
		PoolSize:           100,
		KeepBest:           50,
		AddRandomLow:       10,
		AddRandomHigh:      30,
		Rounds:             100,
		CacheEagerFraction: 1.0 / 3.0,
		CacheLazySize:      4096,
		DensityRatio:       5,
		PairRetries:        8,
		Workers:            runtime.GOMAXPROCS(0),
	}
}

// Validate reports the first invalid parameter as a *ConfigError.
func (c Config) Validate() error {
	switch {
	case c.Capacity < 0:
		return &ConfigError{"sack_max_weight", fmt.Sprintf("must be >= 0, got %d", c.Capacity)}
	case c.PoolSize <= 0:
		return &ConfigError{"pool_size", fmt.Sprintf("must be > 0, got %d", c.PoolSize)}
	case c.KeepBest <= 0 || c.KeepBest > c.PoolSize:
		return &ConfigError{"pool_keep_best", fmt.Sprintf("must be in (0, %d], got %d", c.PoolSize, c.KeepBest)}
	case c.AddRandomLow < 0:
		return &ConfigError{"pool_add_random_low", fmt.Sprintf("must be >= 0, got %d", c.AddRandomLow)}
	case c.AddRandomHigh < 0:
		return &ConfigError{"pool_add_random_high", fmt.Sprintf("must be >= 0, got %d", c.AddRandomHigh)}
	case c.Rounds < 0:
		return &ConfigError{"rounds", fmt.Sprintf("must be >= 0, got %d", c.Rounds)}
	case c.MinItemWeight < 0:
		return &ConfigError{"min_item_weight", fmt.Sprintf("must be >= 0, got %d", c.MinItemWeight)}
	case c.CacheEagerFraction < 0 || c.CacheEagerFraction > 1:
		return &ConfigError{"cache_eager_fraction", fmt.Sprintf("must be in [0, 1], got %g", c.CacheEagerFraction)}
	case c.CacheLazySize <= 0:
		return &ConfigError{"cache_lazy_size", fmt.Sprintf("must be > 0, got %d", c.CacheLazySize)}
	case c.DensityRatio < 1:
		return &ConfigError{"density_ratio", fmt.Sprintf("must be >= 1, got %d", c.DensityRatio)}
	case c.PairRetries < 0:
		return &ConfigError{"pair_retries", fmt.Sprintf("must be >= 0, got %d", c.PairRetries)}
	}
	return nil
}

// LoadConfig overlays the YAML file at path on DefaultConfig. A missing file
// is not an error: the defaults are returned.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read params %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse params %s: %w", path, err)
	}
	return cfg, nil
}

// Verbose controls whether detailed search progress is printed to stderr.
var Verbose bool
