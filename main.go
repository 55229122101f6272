//go:build !lambda

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"math/rand/v2"
	"os"
	"os/signal"
	"time"

	"github.com/dustin/go-humanize"
)

const usage = `Usage: knapsack-optimizer [flags]
       knapsack-optimizer generate [flags]

Searches items.yml for the most valuable sack under sack_max_weight and keeps
the best result found across runs in the high-score store.

Flags:
`

var defaultStorePath = map[string]string{
	"yaml":   "high_score.yml",
	"badger": "high_score.badger",
	"sqlite": "high_score.db",
}

func main() {
	if len(os.Args) > 1 && os.Args[1] == "generate" {
		os.Exit(runGenerate(os.Args[2:]))
	}
	os.Exit(runSearch(os.Args[1:]))
}

func runSearch(args []string) int {
	fset := flag.NewFlagSet("knapsack-optimizer", flag.ContinueOnError)
	paramsPath := fset.String("params", "params.yml", "Search parameters (YAML)")
	itemsPath := fset.String("items", "items.yml", "Item catalog (YAML or .json)")
	storeKind := fset.String("store", "yaml", "High-score store: yaml, badger or sqlite")
	storePath := fset.String("store-path", "", "High-score location (default depends on -store)")
	rounds := fset.Int("rounds", 0, "Override rounds")
	seed := fset.Uint64("seed", 0, "Override random seed")
	workers := fset.Int("workers", 0, "Override worker count")
	jsonOut := fset.Bool("json", false, "Output result as JSON")
	xlsxPath := fset.String("xlsx", "", "Also export the best sack to this .xlsx file")
	verbose := fset.Bool("verbose", false, "Print detailed search progress to stderr")
	fset.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		fset.PrintDefaults()
	}
	if err := fset.Parse(args); err != nil {
		return 2
	}
	Verbose = *verbose

	cfg, err := LoadConfig(*paramsPath)
	if err != nil {
		fmt.Fprintf(logw(), "error: %v\n", err)
		return 1
	}
	fset.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "rounds":
			cfg.Rounds = *rounds
		case "seed":
			cfg.Seed = *seed
		case "workers":
			cfg.Workers = *workers
		}
	})

	fmt.Fprintf(logw(), "[init] reading %s\n", *itemsPath)
	items, err := LoadItems(*itemsPath)
	if errors.Is(err, ErrEmptyCatalog) {
		fmt.Fprintf(logw(), "warning: %v, every sack will be empty\n", err)
	} else if err != nil {
		fmt.Fprintf(logw(), "error: %v\n", err)
		return 1
	}
	catalog := NewCatalog(items)
	fmt.Fprintf(logw(), "[init] items=%s capacity=%s pool=%d rounds=%d\n",
		humanize.Comma(int64(catalog.Len())), humanize.Comma(cfg.Capacity), cfg.PoolSize, cfg.Rounds)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	opt, err := NewOptimizer(catalog, cfg)
	if err != nil {
		fmt.Fprintf(logw(), "error: %v\n", err)
		return 1
	}
	opt.Observer = logRound
	if Verbose {
		fmt.Fprintf(logw(), "[verbose] index eager thresholds=%d\n", opt.Index().EagerLen())
	}

	res, err := opt.Optimize(ctx)
	switch {
	case errors.Is(err, context.Canceled):
		fmt.Fprintf(logw(), "[stop] interrupted after %d rounds\n", res.Rounds)
	case err != nil:
		fmt.Fprintf(logw(), "error: %v\n", err)
		return 1
	}
	fmt.Fprintf(logw(), "[done] best=%s, elapsed=%v\n", humanize.Comma(res.Best.Value), res.Elapsed.Round(time.Millisecond))
	if Verbose {
		fmt.Fprintf(logw(), "[verbose] index lazy thresholds cached=%d\n", opt.Index().LazyLen())
	}

	if *jsonOut {
		if err := WriteJSON(os.Stdout, res, max(cfg.Workers, 1)); err != nil {
			fmt.Fprintf(logw(), "error: %v\n", err)
			return 1
		}
	} else {
		fmt.Print(FormatResult(res.Best, catalog))
	}

	if *xlsxPath != "" {
		if err := ExportXLSX(*xlsxPath, res.Best, catalog); err != nil {
			fmt.Fprintf(logw(), "error: %v\n", err)
			return 1
		}
	}

	return checkHighScore(ctx, *storeKind, *storePath, res.Best, catalog)
}

func checkHighScore(ctx context.Context, kind, path string, best *Sack, catalog *Catalog) int {
	if path == "" {
		path = defaultStorePath[kind]
	}
	store, err := OpenStore(kind, path)
	if err != nil {
		fmt.Fprintf(logw(), "error: %v\n", err)
		return 1
	}
	defer store.Close()

	// the result is already printed; a store failure only affects the exit code
	improved, prev, err := CheckHighScore(context.WithoutCancel(ctx), store, best, catalog)
	if err != nil {
		fmt.Fprintf(logw(), "error: %v\n", err)
		return 1
	}
	fmt.Fprintln(logw(), line())
	fmt.Fprintf(logw(), "Result: %s\n", humanize.Comma(best.Value))
	if improved {
		fmt.Fprintln(logw(), "This is the high score !")
	} else {
		fmt.Fprintf(logw(), "Try again! The high score is currently %s\n", humanize.Comma(prev))
	}
	fmt.Fprintln(logw(), line())
	return 0
}

func logRound(st RoundStats) {
	fmt.Fprintf(logw(), "[round] %d best=%s top-half=%s\n",
		st.Round, humanize.Comma(st.BestEver), humanize.Comma(st.TopHalfAverage))
	if Verbose {
		printBests(logw(), st)
		fmt.Fprintf(logw(), "[verbose] injected=%d next-more-random=%v\n", st.Injected, st.MoreRandom)
	}
}

func runGenerate(args []string) int {
	fset := flag.NewFlagSet("generate", flag.ContinueOnError)
	paramsPath := fset.String("params", "params.yml", "Generator parameters (YAML)")
	out := fset.String("out", "items.yml", "Output catalog")
	n := fset.Int("n", 0, "Override nb_item")
	seed := fset.Uint64("seed", 0, "Random seed (0 = from time)")
	if err := fset.Parse(args); err != nil {
		return 2
	}

	gc, err := LoadGeneratorConfig(*paramsPath)
	if err != nil {
		fmt.Fprintf(logw(), "error: %v\n", err)
		return 1
	}
	if *n > 0 {
		gc.NbItem = *n
	}
	s := *seed
	if s == 0 {
		s = uint64(time.Now().UnixNano())
	}

	fmt.Fprintln(logw(), line())
	fmt.Fprintf(logw(), "Generating %s items, weight: %d-%s, value: %d-%s\n",
		humanize.Comma(int64(gc.NbItem)), gc.WeightMin, humanize.Comma(gc.WeightMax),
		gc.ValueMin, humanize.Comma(gc.ValueMax))
	items, err := GenerateItems(gc, rand.New(rand.NewPCG(s, s>>1)))
	if err != nil {
		fmt.Fprintf(logw(), "error: %v\n", err)
		return 1
	}
	fmt.Fprint(logw(), FormatStats(ComputeCatalogStats(items)))
	fmt.Fprintln(logw(), "(Remove high score file if any.)")

	fmt.Fprintln(logw(), line())
	fmt.Fprintln(logw(), "Saving to", *out)
	if err := SaveItems(*out, items); err != nil {
		fmt.Fprintf(logw(), "error: %v\n", err)
		return 1
	}
	return 0
}

func logw() *os.File { return os.Stderr }
