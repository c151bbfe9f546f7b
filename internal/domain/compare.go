package domain

// Trend labels the direction of a quality change between two reports.
type Trend string

const (
	TrendImproved Trend = "improved"
	TrendDegraded Trend = "degraded"
	TrendStable   Trend = "stable"
)

// trendThreshold is the score delta below which a change reads as noise.
const trendThreshold = 0.5

// Drift describes the difference between two quality reports for the same
// dataset lineage over time.
type Drift struct {
	ScoreDelta        float64 `json:"score_delta"`
	CompletenessDelta float64 `json:"completeness_delta"`
	OutliersDelta     float64 `json:"outliers_delta"`
	TemporalDelta     float64 `json:"temporal_delta"`
	SeasonalityDelta  float64 `json:"seasonality_delta"`
	SchemaDelta       float64 `json:"schema_delta"`
	RowCountDelta     int     `json:"row_count_delta"`
	StationCountDelta int     `json:"station_count_delta"`
	Trend             Trend   `json:"trend"`
}

// CompareReports computes the drift from an earlier report to a later one.
// Positive deltas mean the later report scores higher.
func CompareReports(earlier, later QualityReport) Drift {
	d := Drift{
		ScoreDelta:        later.QualityScore - earlier.QualityScore,
		CompletenessDelta: later.Completeness.Score - earlier.Completeness.Score,
		OutliersDelta:     later.Outliers.Score - earlier.Outliers.Score,
		TemporalDelta:     later.Temporal.Score - earlier.Temporal.Score,
		SeasonalityDelta:  later.Seasonality.Score - earlier.Seasonality.Score,
		SchemaDelta:       later.Schema.Score - earlier.Schema.Score,
		RowCountDelta:     later.RowCount - earlier.RowCount,
		StationCountDelta: later.StationCount - earlier.StationCount,
	}

	switch {
	case d.ScoreDelta > trendThreshold:
		d.Trend = TrendImproved
	case d.ScoreDelta < -trendThreshold:
		d.Trend = TrendDegraded
	default:
		d.Trend = TrendStable
	}
	return d
}
