package main

import (
	"errors"
	"fmt"
	"io/fs"
	"math/rand/v2"
	"os"

	"gopkg.in/yaml.v3"
)

// GeneratorConfig controls synthetic catalog generation.
type GeneratorConfig struct {
	NbItem    int   `yaml:"nb_item"`
	ValueMin  int64 `yaml:"value_min"`
	ValueMax  int64 `yaml:"value_max"`
	WeightMin int64 `yaml:"weight_min"`
	WeightMax int64 `yaml:"weight_max"`
}

// DefaultGeneratorConfig returns the stock generator ranges.
func DefaultGeneratorConfig() GeneratorConfig {
	return GeneratorConfig{
		NbItem:    100_000,
		ValueMin:  1,
		ValueMax:  1_000_000_000,
		WeightMin: 1,
		WeightMax: 10_000_000,
	}
}

// LoadGeneratorConfig overlays the YAML file at path on the defaults; a
// missing file yields the defaults.
func LoadGeneratorConfig(path string) (GeneratorConfig, error) {
	gc := DefaultGeneratorConfig()
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return gc, nil
	}
	if err != nil {
		return gc, fmt.Errorf("read params %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &gc); err != nil {
		return gc, fmt.Errorf("parse params %s: %w", path, err)
	}
	return gc, nil
}

func (g GeneratorConfig) Validate() error {
	switch {
	case g.NbItem < 0:
		return &ConfigError{"nb_item", "must be >= 0"}
	case g.WeightMin < 0 || g.WeightMax < g.WeightMin:
		return &ConfigError{"weight_min/weight_max", fmt.Sprintf("bad range [%d, %d]", g.WeightMin, g.WeightMax)}
	case g.ValueMin < 0 || g.ValueMax < g.ValueMin:
		return &ConfigError{"value_min/value_max", fmt.Sprintf("bad range [%d, %d]", g.ValueMin, g.ValueMax)}
	}
	if float64(g.NbItem) > g.distinctPairs() {
		return &ConfigError{"nb_item", "more items requested than distinct pairs exist"}
	}
	return nil
}

// distinctPairs counts the items GenerateItems can produce. Weight 0 always
// yields value ValueMin, so it contributes a single pair.
func (g GeneratorConfig) distinctPairs() float64 {
	wRange := float64(g.WeightMax - g.WeightMin + 1)
	vRange := float64(g.ValueMax - g.ValueMin + 1)
	if g.WeightMin == 0 {
		return (wRange-1)*vRange + 1
	}
	return wRange * vRange
}

// GenerateItems draws NbItem distinct items. Value scales with weight:
// value = weight*r + ValueMin with r uniform in [0, ValueMax-ValueMin].
func GenerateItems(g GeneratorConfig, rng *rand.Rand) ([]Item, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}
	wRange := g.WeightMax - g.WeightMin + 1
	vRange := g.ValueMax - g.ValueMin + 1
	seen := make(map[Item]struct{}, g.NbItem)
	items := make([]Item, 0, g.NbItem)
	for len(items) < g.NbItem {
		w := rng.Int64N(wRange) + g.WeightMin
		it := Item{Weight: w, Value: w*rng.Int64N(vRange) + g.ValueMin}
		if _, dup := seen[it]; dup {
			continue
		}
		seen[it] = struct{}{}
		items = append(items, it)
	}
	return items, nil
}

// CatalogStats summarizes a catalog for display.
type CatalogStats struct {
	Count         int
	MaxWeight     Item
	MaxValue      Item
	MinWeight     Item
	MinValue      Item
	AverageWeight float64
	AverageValue  float64
}

func ComputeCatalogStats(items []Item) CatalogStats {
	st := CatalogStats{Count: len(items)}
	if len(items) == 0 {
		return st
	}
	st.MaxWeight, st.MaxValue, st.MinWeight, st.MinValue = items[0], items[0], items[0], items[0]
	var sumW, sumV float64
	for _, it := range items {
		if it.Weight > st.MaxWeight.Weight {
			st.MaxWeight = it
		}
		if it.Weight < st.MinWeight.Weight {
			st.MinWeight = it
		}
		if it.Value > st.MaxValue.Value {
			st.MaxValue = it
		}
		if it.Value < st.MinValue.Value {
			st.MinValue = it
		}
		sumW += float64(it.Weight)
		sumV += float64(it.Value)
	}
	st.AverageWeight = sumW / float64(len(items))
	st.AverageValue = sumV / float64(len(items))
	return st
}
