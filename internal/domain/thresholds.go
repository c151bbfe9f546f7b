package domain

// Thresholds holds the configuration consumed by the calculators and by the
// caller-side accept/reject gate. The calculators always compute a score;
// MinQualityScore and MaxNullPercentage only gate downstream decisions.
type Thresholds struct {
	TempOutlierStdDev float64 `yaml:"temp_outlier_std_dev"`
	TempMinValid      float64 `yaml:"temp_min_valid"`
	TempMaxValid      float64 `yaml:"temp_max_valid"`
	PrecipMaxDaily    float64 `yaml:"precip_max_daily"`
	MaxNullPercentage float64 `yaml:"max_null_percentage"`
	MinQualityScore   float64 `yaml:"min_quality_score"`
}

// DefaultThresholds returns the documented defaults.
func DefaultThresholds() Thresholds {
	return Thresholds{
		TempOutlierStdDev: 3,
		TempMinValid:      -60,
		TempMaxValid:      60,
		PrecipMaxDaily:    500,
		MaxNullPercentage: 15,
		MinQualityScore:   75,
	}
}

// Sub-score weights. The aggregate is the straight sum of the five weighted
// sub-scores, so a perfect dataset scores exactly 100.
const (
	WeightCompleteness = 30.0
	WeightOutliers     = 25.0
	WeightTemporal     = 20.0
	WeightSeasonality  = 15.0
	WeightSchema       = 10.0
)

// clamp bounds v to [0, limit].
func clamp(v, limit float64) float64 {
	if v < 0 {
		return 0
	}
	if v > limit {
		return limit
	}
	return v
}
