package domain

import "math"

// OutlierScore is the temperature-outlier sub-score, weight 25.
type OutlierScore struct {
	Score               float64 `json:"score"`
	OutlierCount        int     `json:"outlier_count"`
	TemperatureReadings int     `json:"temperature_readings"`
	OutlierRate         float64 `json:"outlier_rate"`
}

// Outliers flags temperature readings that sit more than k·σ from their
// element's mean, or outside the absolute physical bounds. Mean and
// population standard deviation are computed per element (TMAX and TMIN are
// different distributions; mixing them would inflate σ). A reading failing
// both checks counts once.
//
// With σ = 0 (single reading or constant values) no σ-based outlier is
// possible and only the bound check applies, so a lone in-range reading
// always earns the full 25 points.
func Outliers(d *Dataset, t Thresholds) OutlierScore {
	byElement := make(map[Element][]float64)
	total := 0
	for _, r := range d.Records {
		if !r.Element.Temperature() {
			continue
		}
		byElement[r.Element] = append(byElement[r.Element], r.Value)
		total++
	}
	if total == 0 {
		// No temperature readings means nothing to penalize.
		return OutlierScore{Score: WeightOutliers}
	}

	outliers := 0
	for _, values := range byElement {
		mean, stddev := meanStddev(values)
		for _, v := range values {
			sigmaFlag := stddev > 0 && math.Abs(v-mean) > t.TempOutlierStdDev*stddev
			boundFlag := v < t.TempMinValid || v > t.TempMaxValid
			if sigmaFlag || boundFlag {
				outliers++
			}
		}
	}

	rate := float64(outliers) / float64(total)
	return OutlierScore{
		Score:               clamp(WeightOutliers*(1-rate), WeightOutliers),
		OutlierCount:        outliers,
		TemperatureReadings: total,
		OutlierRate:         rate,
	}
}

// meanStddev returns the mean and population standard deviation of values.
func meanStddev(values []float64) (float64, float64) {
	n := float64(len(values))
	if n == 0 {
		return 0, 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	mean := sum / n

	sq := 0.0
	for _, v := range values {
		diff := v - mean
		sq += diff * diff
	}
	return mean, math.Sqrt(sq / n)
}
