package domain

import "sort"

// ElementStats summarizes the values of one element.
type ElementStats struct {
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Mean  float64 `json:"mean"`
	Count int     `json:"count"`
}

// TemperatureStats carries per-element temperature summaries. Nil means the
// element is absent from the dataset.
type TemperatureStats struct {
	TMax *ElementStats `json:"tmax,omitempty"`
	TMin *ElementStats `json:"tmin,omitempty"`
}

// PrecipitationStats summarizes PRCP readings. ZeroPercentage is the share
// of readings that are exactly zero (dry days are normal, not missing data).
// Extremes counts readings above the configured daily maximum.
type PrecipitationStats struct {
	Stats          *ElementStats `json:"stats,omitempty"`
	ZeroPercentage float64       `json:"zero_percentage"`
	Extremes       int           `json:"extremes"`
}

// Diagnostics are descriptive statistics carried alongside the score. They
// never feed the scoring formula.
type Diagnostics struct {
	Temperature   TemperatureStats   `json:"temperature"`
	Precipitation PrecipitationStats `json:"precipitation"`
}

func elementValues(d *Dataset, e Element) []float64 {
	var out []float64
	for _, r := range d.Records {
		if r.Element == e {
			out = append(out, r.Value)
		}
	}
	return out
}

func summarize(values []float64) *ElementStats {
	if len(values) == 0 {
		return nil
	}
	s := &ElementStats{Min: values[0], Max: values[0], Count: len(values)}
	sum := 0.0
	for _, v := range values {
		if v < s.Min {
			s.Min = v
		}
		if v > s.Max {
			s.Max = v
		}
		sum += v
	}
	s.Mean = sum / float64(len(values))
	return s
}

// DescriptiveStats computes the diagnostic statistics for a dataset.
func DescriptiveStats(d *Dataset, t Thresholds) Diagnostics {
	diag := Diagnostics{
		Temperature: TemperatureStats{
			TMax: summarize(elementValues(d, ElementTMAX)),
			TMin: summarize(elementValues(d, ElementTMIN)),
		},
	}

	prcp := elementValues(d, ElementPRCP)
	diag.Precipitation.Stats = summarize(prcp)
	if len(prcp) > 0 {
		zero := 0
		for _, v := range prcp {
			if v == 0 {
				zero++
			}
			if v > t.PrecipMaxDaily {
				diag.Precipitation.Extremes++
			}
		}
		diag.Precipitation.ZeroPercentage = float64(zero) / float64(len(prcp)) * 100
	}
	return diag
}

// recordKey identifies a logical observation for duplicate detection.
type recordKey struct {
	station string
	date    string
	element Element
}

// DuplicateCount counts the distinct (station_id, date, element) keys that
// occur more than once. Duplicates are counted for diagnostics only; every
// record, duplicate or not, stays in the calculators' input sets.
func DuplicateCount(d *Dataset) int {
	seen := make(map[recordKey]int, len(d.Records))
	for _, r := range d.Records {
		seen[recordKey{r.StationID, r.Date.Format(dateLayout), r.Element}]++
	}
	dups := 0
	for _, n := range seen {
		if n > 1 {
			dups++
		}
	}
	return dups
}

// StationCount counts distinct reporting stations.
func StationCount(d *Dataset) int {
	stations := make(map[string]struct{})
	for _, r := range d.Records {
		stations[r.StationID] = struct{}{}
	}
	return len(stations)
}

func stationSet(d *Dataset) map[string]struct{} {
	set := make(map[string]struct{})
	for _, r := range d.Records {
		set[r.StationID] = struct{}{}
	}
	return set
}

// NewStations lists stations present in current but not in previous.
func NewStations(current, previous *Dataset) []string {
	return stationDiff(stationSet(current), stationSet(previous))
}

// InactiveStations lists stations present in previous but not in current.
func InactiveStations(current, previous *Dataset) []string {
	return stationDiff(stationSet(previous), stationSet(current))
}

func stationDiff(a, b map[string]struct{}) []string {
	var out []string
	for s := range a {
		if _, ok := b[s]; !ok {
			out = append(out, s)
		}
	}
	sort.Strings(out)
	return out
}
