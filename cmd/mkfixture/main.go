// mkfixture writes synthetic hospital price tables for tests and demos.
// Usage: go run ./cmd/mkfixture --kind wide --rows 200 --banner --out testdata/wide.csv
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/gyeh/pricemelt/internal/banner"
	"github.com/gyeh/pricemelt/internal/fixture"
	"github.com/gyeh/pricemelt/internal/melt"
	"github.com/gyeh/pricemelt/internal/semantics"
	"github.com/gyeh/pricemelt/internal/shape"
	"github.com/gyeh/pricemelt/internal/tableread"
	"github.com/gyeh/pricemelt/internal/vocab"
)

func main() {
	kind := flag.String("kind", "tall", "table layout: tall, wide or periodic")
	out := flag.String("out", "testdata/fixture.csv", "output file (.csv or .csv.gz)")
	items := flag.Int("rows", 200, "items to generate")
	payers := flag.String("payers", "", "comma-separated payer:plan pairs (default Aetna:PPO,Cigna:HMO)")
	withBanner := flag.Bool("banner", false, "prepend the CMS metadata banner")
	checkOnly := flag.Bool("check", false, "only classify and melt --out, don't write")
	flag.Parse()

	if *checkOnly {
		if err := check(*out); err != nil {
			fmt.Fprintf(os.Stderr, "check: %v\n", err)
			os.Exit(1)
		}
		return
	}

	groups, err := parseGroups(*payers)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	var rows [][]string
	switch *kind {
	case "tall":
		rows = fixture.Tall(*items, groups)
	case "wide":
		rows = fixture.Wide(*items, groups)
	case "periodic":
		rows = fixture.Periodic(*items)
	default:
		fmt.Fprintf(os.Stderr, "unknown --kind %q\n", *kind)
		os.Exit(1)
	}
	if *withBanner {
		rows = fixture.WithBanner(rows)
	}

	if err := fixture.WriteCSV(*out, rows); err != nil {
		fmt.Fprintf(os.Stderr, "write: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Wrote %d rows (%d columns) to %s\n", len(rows), len(rows[len(rows)-1]), *out)
}

func parseGroups(s string) ([]fixture.Group, error) {
	if s == "" {
		return nil, nil
	}
	var groups []fixture.Group
	for _, pair := range strings.Split(s, ",") {
		payer, plan, ok := strings.Cut(strings.TrimSpace(pair), ":")
		if !ok || payer == "" || plan == "" {
			return nil, fmt.Errorf("bad --payers entry %q (want payer:plan)", pair)
		}
		groups = append(groups, fixture.Group{Payer: payer, Plan: plan})
	}
	return groups, nil
}

// check runs a fixture back through the reader and engine and prints
// what a load would see.
func check(path string) error {
	tables, err := tableread.ReadFile(path, tableread.Options{})
	if err != nil {
		return err
	}
	v := vocab.Default()
	det, err := banner.New(banner.StrategyVocabulary, v)
	if err != nil {
		return err
	}
	classifier := shape.New(shape.DefaultOptions())
	resolver := semantics.NewResolver(v)
	engine := melt.New(v, melt.Options{})

	for _, t := range tables {
		body, blob := det.Detect(t)
		verdict := classifier.Classify(body)
		hm := resolver.Resolve(body.Header())
		res, err := engine.Normalize(context.Background(), body, hm, blob, melt.Source{File: path})
		if err != nil {
			return err
		}
		fmt.Printf("%s\n", t.Label)
		fmt.Printf("  banner rows:  %d\n", len(t.Rows)-len(body.Rows))
		fmt.Printf("  shape:        %s (%s)\n", verdict.Shape, verdict.Reason)
		fmt.Printf("  variant:      %s, %d groups\n", hm.Variant(), len(hm.Groups()))
		fmt.Printf("  long rows:    %d emitted, %d dropped of %d candidates\n",
			len(res.Rows), res.Dropped, res.Stats.Candidates)
		for reason, n := range res.Stats.DropReasons {
			fmt.Printf("    %-20s %d\n", reason, n)
		}
		if res.Reason != "" {
			fmt.Printf("  note:         %s\n", res.Reason)
		}
	}
	return nil
}
