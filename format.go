package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/sugawarayuuta/sonnet"
	"github.com/xuri/excelize/v2"
)

// ShortRepr renders a sack as <val=1,234 wt=567 qt=3 #42>.
func (s *Sack) ShortRepr() string {
	return fmt.Sprintf("<val=%s wt=%s qt=%d #%d>",
		humanize.Comma(s.Value), humanize.Comma(s.Weight), len(s.Items), s.ID)
}

func line() string { return strings.Repeat("-", 80) }

// printBests writes the round summary shown after every generation.
func printBests(w io.Writer, st RoundStats) {
	fmt.Fprintln(w, line())
	fmt.Fprintf(w, "round %d\n", st.Round)
	fmt.Fprintf(w, "best of pool of %d:\n", st.PoolSize)
	for _, s := range st.Top {
		fmt.Fprintln(w, "    ", s.ShortRepr())
	}
	fmt.Fprintf(w, "average value top half: %s\n", humanize.Comma(st.TopHalfAverage))
}

// FormatResult lists the items of the winning sack in packing order.
func FormatResult(best *Sack, catalog *Catalog) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Result: %s\n", best.ShortRepr())
	fmt.Fprintf(&b, "%8s %14s %18s\n", "Index", "Weight", "Value")
	for _, idx := range best.Items {
		it := catalog.Items[idx]
		fmt.Fprintf(&b, "%8d %14s %18s\n", idx, humanize.Comma(it.Weight), humanize.Comma(it.Value))
	}
	return b.String()
}

// FormatStats renders catalog statistics like the generator does.
func FormatStats(st CatalogStats) string {
	var b strings.Builder
	fmt.Fprintln(&b, line())
	fmt.Fprintf(&b, "Items: %s\n", humanize.Comma(int64(st.Count)))
	fmt.Fprintf(&b, "  - max weight: %+v\n", st.MaxWeight)
	fmt.Fprintf(&b, "  - max value : %+v\n", st.MaxValue)
	fmt.Fprintf(&b, "  - min weight: %+v\n", st.MinWeight)
	fmt.Fprintf(&b, "  - min value : %+v\n", st.MinValue)
	fmt.Fprintf(&b, "  - average weight : %.1f\n", st.AverageWeight)
	fmt.Fprintf(&b, "  - average value : %.1f\n", st.AverageValue)
	return b.String()
}

// SackOutput is the JSON form of a run result.
type SackOutput struct {
	ID      uint64 `json:"id"`
	Value   int64  `json:"value"`
	Weight  int64  `json:"weight"`
	Items   []int  `json:"items"`
	Rounds  int    `json:"rounds"`
	TimeMs  int64  `json:"timeMs"`
	Workers int    `json:"workers"`
}

func newSackOutput(res Result, workers int) SackOutput {
	out := SackOutput{Rounds: res.Rounds, TimeMs: res.Elapsed.Milliseconds(), Workers: workers}
	if res.Best != nil {
		out.ID = res.Best.ID
		out.Value = res.Best.Value
		out.Weight = res.Best.Weight
		out.Items = res.Best.Items
	}
	return out
}

// WriteJSON encodes the run result to w.
func WriteJSON(w io.Writer, res Result, workers int) error {
	data, err := sonnet.Marshal(newSackOutput(res, workers))
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// ExportXLSX writes one spreadsheet row per item of best.
func ExportXLSX(path string, best *Sack, catalog *Catalog) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Sack"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return err
	}
	rows := [][]any{{"Index", "Weight", "Value"}}
	for _, idx := range best.Items {
		it := catalog.Items[idx]
		rows = append(rows, []any{idx, it.Weight, it.Value})
	}
	rows = append(rows, []any{"Total", best.Weight, best.Value})
	for r, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, r+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}
