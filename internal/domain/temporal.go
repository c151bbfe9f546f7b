package domain

import "time"

// TemporalScore is the date-range coverage sub-score, weight 20.
type TemporalScore struct {
	Score        float64 `json:"score"`
	ExpectedDays int     `json:"expected_days"`
	ActualDays   int     `json:"actual_days"`
	Coverage     float64 `json:"coverage"`
}

// TemporalCoverage compares the distinct dates present against the inclusive
// day count of the [min(date), max(date)] span. The expected range is defined
// by the data itself, so a single-day dataset has coverage 1.0 by
// construction.
func TemporalCoverage(d *Dataset) TemporalScore {
	if len(d.Records) == 0 {
		return TemporalScore{}
	}

	distinct := make(map[time.Time]struct{})
	minDate, maxDate := d.Records[0].Date, d.Records[0].Date
	for _, r := range d.Records {
		distinct[r.Date] = struct{}{}
		if r.Date.Before(minDate) {
			minDate = r.Date
		}
		if r.Date.After(maxDate) {
			maxDate = r.Date
		}
	}

	expected := int(maxDate.Sub(minDate).Hours()/24) + 1
	actual := len(distinct)
	coverage := float64(actual) / float64(expected)

	return TemporalScore{
		Score:        clamp(WeightTemporal*coverage, WeightTemporal),
		ExpectedDays: expected,
		ActualDays:   actual,
		Coverage:     coverage,
	}
}
