package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"prodinsight/internal/productgen"
)

func main() {
	defaults := productgen.DefaultConfig()

	out := flag.String("out", "amazon_sales_data.csv", "output file path")
	rows := flag.Int("rows", defaults.Rows, "number of products")
	format := flag.String("format", "", "output format: xlsx or csv (default inferred from -out)")
	seed := flag.Int64("seed", defaults.Seed, "RNG seed (deterministic)")
	missing := flag.Float64("missing", defaults.MissingRate, "probability that a numeric cell is blank or malformed")
	penalty := flag.Float64("discount-penalty", defaults.DiscountPenalty, "rating penalty for products discounted 30% or more")
	reviews := flag.Bool("review-titles", defaults.IncludeReviewTitle, "include the review_title column")
	flag.Parse()

	if *rows <= 0 {
		fmt.Fprintln(os.Stderr, "rows must be > 0")
		os.Exit(2)
	}

	fmtName := strings.ToLower(strings.TrimSpace(*format))
	if fmtName == "" {
		switch strings.ToLower(filepath.Ext(*out)) {
		case ".xlsx":
			fmtName = "xlsx"
		default:
			fmtName = "csv"
		}
	}

	cfg := defaults
	cfg.Rows = *rows
	cfg.Seed = *seed
	cfg.MissingRate = *missing
	cfg.DiscountPenalty = *penalty
	cfg.IncludeReviewTitle = *reviews

	ds, err := productgen.Generate(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error generating dataset:", err)
		os.Exit(1)
	}

	switch fmtName {
	case "csv":
		if err := productgen.WriteCSV(*out, ds); err != nil {
			fmt.Fprintln(os.Stderr, "error writing csv:", err)
			os.Exit(1)
		}
	case "xlsx":
		if err := productgen.WriteXLSX(*out, ds); err != nil {
			fmt.Fprintln(os.Stderr, "error writing xlsx:", err)
			os.Exit(1)
		}
	default:
		fmt.Fprintln(os.Stderr, "unsupported format:", fmtName)
		os.Exit(2)
	}

	fmt.Printf("Product catalog written: %s\n", *out)
	fmt.Printf("Total Columns: %d | Total Rows: %d\n", len(ds.Headers), len(ds.Rows))
}
