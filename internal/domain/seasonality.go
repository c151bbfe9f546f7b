package domain

// SeasonalityScore is the month-coverage sub-score, weight 15.
type SeasonalityScore struct {
	Score          float64 `json:"score"`
	DistinctMonths int     `json:"distinct_months"`
}

// monthKey identifies a distinct calendar month (year + month), so two
// Januaries a year apart count separately toward the 12-month target.
type monthKey struct {
	year  int
	month int
}

// SeasonalityConfidence scores how much of a seasonal cycle the data spans:
// 15 * min(distinct_months / 12, 1). This is a coverage proxy, not a
// statistical seasonality test.
func SeasonalityConfidence(d *Dataset) SeasonalityScore {
	months := make(map[monthKey]struct{})
	for _, r := range d.Records {
		months[monthKey{r.Date.Year(), int(r.Date.Month())}] = struct{}{}
	}

	frac := float64(len(months)) / 12
	if frac > 1 {
		frac = 1
	}
	return SeasonalityScore{
		Score:          clamp(WeightSeasonality*frac, WeightSeasonality),
		DistinctMonths: len(months),
	}
}
