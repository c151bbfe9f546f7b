package domain

import "time"

// Element is a GHCN-Daily measurement type code.
type Element string

// Recognized GHCN-Daily element codes.
const (
	ElementPRCP Element = "PRCP" // precipitation (mm)
	ElementTMAX Element = "TMAX" // maximum temperature
	ElementTMIN Element = "TMIN" // minimum temperature
	ElementTOBS Element = "TOBS" // temperature at observation time
	ElementSNOW Element = "SNOW" // snowfall
	ElementSNWD Element = "SNWD" // snow depth
	ElementEVAP Element = "EVAP" // evaporation
	ElementMXPN Element = "MXPN" // maximum pressure
	ElementMNPN Element = "MNPN" // minimum pressure
	ElementPGTM Element = "PGTM" // peak gust time
	ElementWDMV Element = "WDMV" // wind movement
)

var validElements = map[Element]struct{}{
	ElementPRCP: {}, ElementTMAX: {}, ElementTMIN: {}, ElementTOBS: {},
	ElementSNOW: {}, ElementSNWD: {}, ElementEVAP: {}, ElementMXPN: {},
	ElementMNPN: {}, ElementPGTM: {}, ElementWDMV: {},
}

// Valid reports whether e is a recognized GHCN element code.
func (e Element) Valid() bool {
	_, ok := validElements[e]
	return ok
}

// Temperature reports whether e is a temperature-like element, the only
// elements the outlier calculator considers.
func (e Element) Temperature() bool {
	return e == ElementTMAX || e == ElementTMIN || e == ElementTOBS
}

// Required column names. A dataset missing any of these fails validation
// as a whole before any row is examined.
const (
	ColumnStationID = "station_id"
	ColumnDate      = "date"
	ColumnElement   = "element"
	ColumnValue     = "value"
	ColumnSource    = "source_flag"
)

// RequiredColumns lists the columns every dataset must carry.
var RequiredColumns = []string{ColumnStationID, ColumnDate, ColumnElement, ColumnValue}

// RawRow is one unvalidated input row, keyed by column name. Values are the
// raw text exactly as supplied by the source adapter.
type RawRow map[string]string

// Observation is one validated station/date/element/value measurement.
type Observation struct {
	StationID  string    `json:"station_id"`
	Date       time.Time `json:"date"`
	Element    Element   `json:"element"`
	Value      float64   `json:"value"`
	SourceFlag string    `json:"source_flag,omitempty"` // provenance tag, passthrough only
}

// Dataset is the validated record set plus the observed column shape.
// It is immutable once produced by the validator; calculators only read it.
type Dataset struct {
	Columns   []string      // observed column set, source order preserved
	Records   []Observation // valid rows, input order preserved
	NullCells int           // blank cells across all observed columns of valid rows
}

// RowCount returns the post-validation row count.
func (d *Dataset) RowCount() int { return len(d.Records) }

// ColumnCount returns the observed column count.
func (d *Dataset) ColumnCount() int { return len(d.Columns) }

// HasColumn reports whether the dataset's source carried the named column.
func (d *Dataset) HasColumn(name string) bool {
	for _, c := range d.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// Elements returns the distinct element codes present, in first-seen order.
func (d *Dataset) Elements() []Element {
	seen := make(map[Element]struct{}, 4)
	var out []Element
	for _, r := range d.Records {
		if _, ok := seen[r.Element]; ok {
			continue
		}
		seen[r.Element] = struct{}{}
		out = append(out, r.Element)
	}
	return out
}
