package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func TestReadItemsRejectsNonIntegers(t *testing.T) {
	for _, body := range []string{
		`[["abc", 2]]`,
		`[[1, 1.7]]`,
		`[[true, 2]]`,
		`[{"weight": "5", "value": 9}]`,
		`[{"weight": 5, "value": null}]`,
	} {
		_, err := readItems(gjson.Parse(body))
		assert.Error(t, err, body)
	}

	items, err := readItems(gjson.Parse(`[[1, 2], {"weight": 3, "value": 4}]`))
	require.NoError(t, err)
	assert.Equal(t, []Item{{1, 2}, {3, 4}}, items)
}

func TestReadConfigOverrides(t *testing.T) {
	cfg := DefaultConfig()
	body := `{"sack_max_weight": 500, "pool_size": 40, "pool_keep_best": 20,
		"rounds": 7, "seed": 42, "cache_eager_fraction": 0.5}`
	require.NoError(t, readConfigOverrides(&cfg, gjson.Parse(body)))
	assert.Equal(t, int64(500), cfg.Capacity)
	assert.Equal(t, 40, cfg.PoolSize)
	assert.Equal(t, 20, cfg.KeepBest)
	assert.Equal(t, 7, cfg.Rounds)
	assert.Equal(t, uint64(42), cfg.Seed)
	assert.InDelta(t, 0.5, cfg.CacheEagerFraction, 1e-9)
	assert.Equal(t, DefaultConfig().AddRandomLow, cfg.AddRandomLow)

	cfg = DefaultConfig()
	require.NoError(t, readConfigOverrides(&cfg, gjson.Parse(`{"config": 1}`).Get("config.missing")))
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestReadConfigOverridesRejects(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		field string
	}{
		{"pool too large", `{"pool_size": 1000001}`, "pool_size"},
		{"rounds too large", `{"rounds": 5000}`, "rounds"},
		{"string rounds", `{"rounds": "abc"}`, "rounds"},
		{"fractional pool", `{"pool_size": 1.7}`, "pool_size"},
		{"negative seed", `{"seed": -3}`, "seed"},
		{"string fraction", `{"cache_eager_fraction": "half"}`, "cache_eager_fraction"},
		{"not an object", `[1, 2]`, "config"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			err := readConfigOverrides(&cfg, gjson.Parse(tt.body))
			var cfgErr *ConfigError
			require.ErrorAs(t, err, &cfgErr)
			assert.Equal(t, tt.field, cfgErr.Field)
		})
	}

	cfg := DefaultConfig()
	body := `{"pool_size": 1000, "rounds": 1000}`
	assert.NoError(t, readConfigOverrides(&cfg, gjson.Parse(body)))
}
