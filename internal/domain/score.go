package domain

import "time"

// QualityReport is the one persisted artifact of a pipeline run. It is
// created once per run from one validated dataset and never mutated; a new
// run produces a new report under a new package version.
type QualityReport struct {
	Timestamp   time.Time `json:"timestamp"`
	RowCount    int       `json:"row_count"`
	ColumnCount int       `json:"column_count"`

	Completeness CompletenessScore `json:"completeness"`
	Outliers     OutlierScore      `json:"outliers"`
	Temporal     TemporalScore     `json:"temporal"`
	Seasonality  SeasonalityScore  `json:"seasonality"`
	Schema       SchemaScore       `json:"schema"`

	// QualityScore is the straight sum of the five sub-scores, in [0, 100]
	// by construction since each sub-score is pre-clamped to its weight.
	QualityScore float64 `json:"quality_score"`

	// Descriptive statistics, not part of the scoring formula.
	NullPercentage float64     `json:"null_percentage"`
	DuplicateCount int         `json:"duplicate_count"`
	StationCount   int         `json:"station_count"`
	Diagnostics    Diagnostics `json:"diagnostics"`
}

// NewQualityReport runs the five calculators over a validated dataset and
// aggregates the result. The calculators are independent pure functions over
// the same read-only dataset; nothing here depends on evaluation order.
func NewQualityReport(d *Dataset, t Thresholds) QualityReport {
	completeness := Completeness(d)
	outliers := Outliers(d, t)
	temporal := TemporalCoverage(d)
	seasonality := SeasonalityConfidence(d)
	schema := SchemaStability(d)

	return QualityReport{
		Timestamp:   clock.Now().UTC(),
		RowCount:    d.RowCount(),
		ColumnCount: d.ColumnCount(),

		Completeness: completeness,
		Outliers:     outliers,
		Temporal:     temporal,
		Seasonality:  seasonality,
		Schema:       schema,

		QualityScore: completeness.Score + outliers.Score + temporal.Score +
			seasonality.Score + schema.Score,

		NullPercentage: completeness.NullPercentage,
		DuplicateCount: DuplicateCount(d),
		StationCount:   StationCount(d),
		Diagnostics:    DescriptiveStats(d, t),
	}
}

// SameScores reports whether two reports carry identical sub-scores and
// aggregate. Timestamps are deliberately excluded: two runs over the same
// input must agree on every number except when they ran.
func (r QualityReport) SameScores(other QualityReport) bool {
	return r.Completeness == other.Completeness &&
		r.Outliers == other.Outliers &&
		r.Temporal == other.Temporal &&
		r.Seasonality == other.Seasonality &&
		r.Schema.Score == other.Schema.Score &&
		r.QualityScore == other.QualityScore
}
