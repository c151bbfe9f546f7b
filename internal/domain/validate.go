package domain

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Fatal dataset-level errors. When one of these is returned no quality
// report is produced for the run.
var (
	ErrMissingColumns = errors.New("dataset missing required columns")
	ErrNoValidRows    = errors.New("no valid rows after filtering")
)

// RejectReason names the first validation step a row failed. Checks run in a
// fixed order, so a row with several problems is counted once, under the
// earliest failing step.
type RejectReason string

const (
	RejectBadDate        RejectReason = "bad_date"
	RejectUnknownElement RejectReason = "unknown_element"
	RejectNonNumeric     RejectReason = "non_numeric_value"
	RejectMissingStation RejectReason = "missing_station_id"
)

const dateLayout = "2006-01-02"

// ValidationResult holds the validated dataset and row-level rejection
// diagnostics. Rejected rows are dropped, never partially kept.
type ValidationResult struct {
	Dataset  *Dataset
	Rejected int
	Reasons  map[RejectReason]int
}

// ValidateRows turns raw rows into a validated Dataset.
//
// The required-column check is dataset-level: if the column set is missing
// any of RequiredColumns the whole run fails with ErrMissingColumns. Row
// checks then apply in order (date format, element membership, numeric
// finite value, station id presence); the first failing check rejects the
// row. A dataset with zero surviving rows fails with ErrNoValidRows.
func ValidateRows(columns []string, rows []RawRow) (*ValidationResult, error) {
	if missing := missingRequiredColumns(columns); len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumns, strings.Join(missing, ", "))
	}

	ds := &Dataset{
		Columns: append([]string(nil), columns...),
		Records: make([]Observation, 0, len(rows)),
	}
	result := &ValidationResult{
		Dataset: ds,
		Reasons: make(map[RejectReason]int),
	}

	for _, row := range rows {
		obs, reason, ok := validateRow(row)
		if !ok {
			result.Rejected++
			result.Reasons[reason]++
			continue
		}
		ds.Records = append(ds.Records, obs)
		ds.NullCells += countNullCells(columns, row)
	}

	if len(ds.Records) == 0 {
		return nil, fmt.Errorf("%w: %d rows rejected", ErrNoValidRows, result.Rejected)
	}
	return result, nil
}

func missingRequiredColumns(columns []string) []string {
	present := make(map[string]struct{}, len(columns))
	for _, c := range columns {
		present[c] = struct{}{}
	}
	var missing []string
	for _, req := range RequiredColumns {
		if _, ok := present[req]; !ok {
			missing = append(missing, req)
		}
	}
	return missing
}

// validateRow applies the row-level checks in spec order and returns the
// parsed observation, or the reason the row was rejected.
func validateRow(row RawRow) (Observation, RejectReason, bool) {
	date, err := time.Parse(dateLayout, row[ColumnDate])
	if err != nil {
		return Observation{}, RejectBadDate, false
	}

	element := Element(strings.TrimSpace(row[ColumnElement]))
	if !element.Valid() {
		return Observation{}, RejectUnknownElement, false
	}

	value, err := strconv.ParseFloat(strings.TrimSpace(row[ColumnValue]), 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return Observation{}, RejectNonNumeric, false
	}

	station := strings.TrimSpace(row[ColumnStationID])
	if station == "" {
		return Observation{}, RejectMissingStation, false
	}

	return Observation{
		StationID:  station,
		Date:       date,
		Element:    element,
		Value:      value,
		SourceFlag: strings.TrimSpace(row[ColumnSource]),
	}, "", true
}

// countNullCells counts blank cells across the observed columns of a valid
// row. Required cells are never blank here (the row survived validation),
// so nulls come from optional columns such as source_flag.
func countNullCells(columns []string, row RawRow) int {
	n := 0
	for _, c := range columns {
		if strings.TrimSpace(row[c]) == "" {
			n++
		}
	}
	return n
}
