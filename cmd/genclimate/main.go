// Command genclimate writes deterministic synthetic climate CSV fixtures:
// daily TMAX/TMIN/PRCP rows following a seasonal sine cycle, optionally with
// injected out-of-bounds readings on chosen days of the year.
//
// Usage:
//
//	go run ./cmd/genclimate -year 2023 -out data/2023.csv
//	go run ./cmd/genclimate -year 2023 -stations 4 -outlier-days 10,20,30 -out data/noisy.csv
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/couchcryptid/climate-quality-monitor/internal/domain"
	"github.com/couchcryptid/climate-quality-monitor/internal/synth"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	year := flag.Int("year", 2023, "calendar year to generate")
	stations := flag.Int("stations", 1, "number of stations")
	outlierDays := flag.String("outlier-days", "", "comma-separated days of the year whose TMAX is replaced with an out-of-bounds reading")
	out := flag.String("out", "", "output CSV path")
	flag.Parse()

	if *out == "" {
		flag.Usage()
		return fmt.Errorf("missing required flag: -out")
	}

	days, err := parseDays(*outlierDays)
	if err != nil {
		return err
	}

	rows := synth.Generate(synth.Spec{
		Year:        *year,
		Stations:    *stations,
		OutlierDays: days,
	})
	if err := writeCSV(*out, rows); err != nil {
		return fmt.Errorf("writing %s: %w", *out, err)
	}

	log.Printf("wrote %d rows for %d (%d stations, %d outlier days): %s",
		len(rows), *year, *stations, len(days), *out)
	return nil
}

func parseDays(raw string) (map[int]bool, error) {
	if raw == "" {
		return nil, nil
	}
	days := map[int]bool{}
	for _, part := range strings.Split(raw, ",") {
		d, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || d < 1 || d > 366 {
			return nil, fmt.Errorf("invalid outlier day %q", part)
		}
		days[d] = true
	}
	return days, nil
}

func writeCSV(path string, rows []domain.RawRow) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	columns := synth.Columns()
	if err := w.Write(columns); err != nil {
		return err
	}
	record := make([]string, len(columns))
	for _, row := range rows {
		for i, col := range columns {
			record[i] = row[col]
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
