// Command validate checks one observation CSV file without scoring or
// storing it: it runs the same validation the pipeline runs and prints a
// summary of accepted rows, rejected rows by reason, and null density.
// Exits non-zero on a fatal dataset error.
//
// Usage:
//
//	go run ./cmd/validate -file data/2023.csv
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"sort"

	"github.com/couchcryptid/climate-quality-monitor/internal/adapter/csvsource"
	"github.com/couchcryptid/climate-quality-monitor/internal/domain"
)

func main() {
	file := flag.String("file", "", "observation CSV file to validate")
	flag.Parse()

	if *file == "" {
		flag.Usage()
		os.Exit(1)
	}
	if code := run(*file); code != 0 {
		os.Exit(code)
	}
}

func run(path string) int {
	columns, rows, err := csvsource.New(path).Fetch(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: %v\n", err)
		return 1
	}

	result, err := domain.ValidateRows(columns, rows)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: %v\n", err)
		if errors.Is(err, domain.ErrMissingColumns) {
			fmt.Fprintf(os.Stderr, "required columns: %v\n", domain.RequiredColumns)
		}
		return 1
	}

	d := result.Dataset
	fmt.Printf("=== Validation: %s ===\n\n", path)
	fmt.Printf("columns:        %d %v\n", d.ColumnCount(), d.Columns)
	fmt.Printf("rows accepted:  %d\n", d.RowCount())
	fmt.Printf("rows rejected:  %d\n", result.Rejected)

	if len(result.Reasons) > 0 {
		reasons := make([]string, 0, len(result.Reasons))
		for r := range result.Reasons {
			reasons = append(reasons, string(r))
		}
		sort.Strings(reasons)
		for _, r := range reasons {
			fmt.Printf("  %-20s %d\n", r, result.Reasons[domain.RejectReason(r)])
		}
	}

	cells := d.RowCount() * d.ColumnCount()
	nullPct := 0.0
	if cells > 0 {
		nullPct = float64(d.NullCells) / float64(cells) * 100
	}
	fmt.Printf("null cells:     %d (%.2f%%)\n", d.NullCells, nullPct)
	fmt.Printf("stations:       %d\n", domain.StationCount(d))
	fmt.Printf("elements:       %v\n", d.Elements())

	if result.Rejected > 0 {
		fmt.Println("\nsome rows were rejected")
	} else {
		fmt.Println("\nall rows valid")
	}
	return 0
}
