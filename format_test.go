package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
	"github.com/xuri/excelize/v2"
)

func TestShortRepr(t *testing.T) {
	s := &Sack{ID: 42, Items: []int{0, 1, 2}, Weight: 567, Value: 1234567}
	assert.Equal(t, "<val=1,234,567 wt=567 qt=3 #42>", s.ShortRepr())
}

func TestFormatResult(t *testing.T) {
	catalog := NewCatalog([]Item{{10, 5}, {2000, 15000}})
	s := &Sack{ID: 1, Items: []int{1}, Weight: 2000, Value: 15000}
	out := FormatResult(s, catalog)
	assert.Contains(t, out, "Result: <val=15,000")
	assert.Contains(t, out, "2,000")
	assert.Equal(t, 3, strings.Count(out, "\n"))
}

func TestPrintBests(t *testing.T) {
	var buf bytes.Buffer
	printBests(&buf, RoundStats{
		Round:          4,
		PoolSize:       2,
		TopHalfAverage: 9000,
		Top:            []*Sack{{ID: 1, Value: 10}, {ID: 2, Value: 8}},
	})
	out := buf.String()
	assert.Contains(t, out, "round 4")
	assert.Contains(t, out, "best of pool of 2:")
	assert.Contains(t, out, "#2>")
	assert.Contains(t, out, "average value top half: 9,000")
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	res := Result{
		Best:    &Sack{ID: 7, Items: []int{3, 1}, Weight: 12, Value: 99},
		Rounds:  5,
		Elapsed: 1500 * time.Millisecond,
	}
	require.NoError(t, WriteJSON(&buf, res, 4))

	doc := buf.String()
	require.True(t, gjson.Valid(doc))
	assert.Equal(t, int64(99), gjson.Get(doc, "value").Int())
	assert.Equal(t, int64(12), gjson.Get(doc, "weight").Int())
	assert.Equal(t, "[3,1]", gjson.Get(doc, "items").Raw)
	assert.Equal(t, int64(1500), gjson.Get(doc, "timeMs").Int())
	assert.Equal(t, int64(4), gjson.Get(doc, "workers").Int())
}

func TestExportXLSX(t *testing.T) {
	catalog := NewCatalog([]Item{{10, 5}, {20, 15}})
	s := &Sack{ID: 1, Items: []int{1, 0}, Weight: 30, Value: 20}
	path := filepath.Join(t.TempDir(), "best.xlsx")
	require.NoError(t, ExportXLSX(path, s, catalog))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Sack")
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, []string{"Index", "Weight", "Value"}, rows[0])
	assert.Equal(t, []string{"1", "20", "15"}, rows[1])
	assert.Equal(t, []string{"Total", "30", "20"}, rows[3])
}
