package main

import (
	"errors"
	"fmt"
	"math"

	"github.com/tidwall/gjson"
)

// parseItemsJSON accepts either {"items": [...]} or a bare array. Each entry
// is [weight, value] or {"weight": w, "value": v}.
func parseItemsJSON(data string) ([]Item, error) {
	if !gjson.Valid(data) {
		return nil, errors.New("invalid JSON")
	}
	list := gjson.Parse(data)
	if list.IsObject() {
		list = list.Get("items")
	}
	return readItems(list)
}

func readItems(list gjson.Result) ([]Item, error) {
	if list.Exists() && !list.IsArray() {
		return nil, fmt.Errorf("items: want array, got %s", list.Type)
	}
	var items []Item
	var bad error
	i := 0
	list.ForEach(func(_, v gjson.Result) bool {
		var w, val gjson.Result
		switch {
		case v.IsArray():
			pair := v.Array()
			if len(pair) != 2 {
				bad = fmt.Errorf("item %d: want [weight, value], got %d fields", i, len(pair))
				return false
			}
			w, val = pair[0], pair[1]
		case v.IsObject():
			w, val = v.Get("weight"), v.Get("value")
		default:
			bad = fmt.Errorf("item %d: unexpected %s", i, v.Type)
			return false
		}
		var it Item
		if it.Weight, bad = jsonInt(w); bad != nil {
			bad = fmt.Errorf("item %d: weight: %w", i, bad)
			return false
		}
		if it.Value, bad = jsonInt(val); bad != nil {
			bad = fmt.Errorf("item %d: value: %w", i, bad)
			return false
		}
		if bad = checkItem(i, it); bad != nil {
			return false
		}
		items = append(items, it)
		i++
		return true
	})
	return items, bad
}

// jsonInt rejects anything but an integral JSON number.
func jsonInt(v gjson.Result) (int64, error) {
	if v.Type != gjson.Number {
		return 0, fmt.Errorf("want integer, got %s", v.Type)
	}
	if v.Num != math.Trunc(v.Num) {
		return 0, fmt.Errorf("want integer, got %s", v.Raw)
	}
	return v.Int(), nil
}

// Upper bounds on work a single posted request may ask for.
const (
	maxRequestPoolSize = 1_000
	maxRequestRounds   = 1_000
)

// readConfigOverrides applies the keys present in a posted JSON config
// object on top of cfg. Keys match params.yml; pool_size and rounds are
// capped at maxRequestPoolSize and maxRequestRounds.
func readConfigOverrides(cfg *Config, obj gjson.Result) error {
	if !obj.Exists() || obj.Type == gjson.Null {
		return nil
	}
	if !obj.IsObject() {
		return &ConfigError{"config", fmt.Sprintf("want object, got %s", obj.Type)}
	}
	ints := []struct {
		key string
		set func(int64)
	}{
		{"sack_max_weight", func(n int64) { cfg.Capacity = n }},
		{"pool_size", func(n int64) { cfg.PoolSize = int(n) }},
		{"pool_keep_best", func(n int64) { cfg.KeepBest = int(n) }},
		{"pool_add_random_low", func(n int64) { cfg.AddRandomLow = int(n) }},
		{"pool_add_random_high", func(n int64) { cfg.AddRandomHigh = int(n) }},
		{"rounds", func(n int64) { cfg.Rounds = int(n) }},
		{"min_item_weight", func(n int64) { cfg.MinItemWeight = n }},
	}
	for _, f := range ints {
		v := obj.Get(f.key)
		if !v.Exists() {
			continue
		}
		n, err := jsonInt(v)
		if err != nil {
			return &ConfigError{f.key, err.Error()}
		}
		f.set(n)
	}
	if v := obj.Get("seed"); v.Exists() {
		if _, err := jsonInt(v); err != nil || v.Num < 0 {
			return &ConfigError{"seed", "want non-negative integer, got " + v.Raw}
		}
		cfg.Seed = v.Uint()
	}
	if v := obj.Get("cache_eager_fraction"); v.Exists() {
		if v.Type != gjson.Number {
			return &ConfigError{"cache_eager_fraction", fmt.Sprintf("want number, got %s", v.Type)}
		}
		cfg.CacheEagerFraction = v.Float()
	}

	if cfg.PoolSize > maxRequestPoolSize {
		return &ConfigError{"pool_size", fmt.Sprintf("must be <= %d", maxRequestPoolSize)}
	}
	if cfg.Rounds > maxRequestRounds {
		return &ConfigError{"rounds", fmt.Sprintf("must be <= %d", maxRequestRounds)}
	}
	return nil
}
