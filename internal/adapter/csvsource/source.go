// Package csvsource reads observation rows from a local CSV file with a
// header row naming the columns.
package csvsource

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/couchcryptid/climate-quality-monitor/internal/domain"
)

// Source reads one CSV file per Fetch call, so a re-run picks up file
// changes without restarting the service.
type Source struct {
	path string
}

// New creates a Source for the CSV file at path.
func New(path string) *Source {
	return &Source{path: path}
}

// Name identifies the source in logs.
func (s *Source) Name() string {
	return "csv:" + s.path
}

// Fetch reads the file and returns its header as the column set and every
// data line as a raw row. Short lines leave their trailing columns blank;
// validation downstream decides whether that matters.
func (s *Source) Fetch(ctx context.Context) ([]string, []domain.RawRow, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, nil, fmt.Errorf("open data file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err == io.EOF {
		return nil, nil, fmt.Errorf("data file %s is empty", s.path)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("read header of %s: %w", s.path, err)
	}
	columns := make([]string, len(header))
	for i, h := range header {
		columns[i] = strings.TrimSpace(h)
	}

	var rows []domain.RawRow
	for line := 2; ; line++ {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}

		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("read %s line %d: %w", s.path, line, err)
		}

		row := make(domain.RawRow, len(columns))
		for i, col := range columns {
			if i < len(record) {
				row[col] = record[i]
			}
		}
		rows = append(rows, row)
	}
	return columns, rows, nil
}
