package domain

// CompletenessScore is the null-density sub-score, weight 30.
type CompletenessScore struct {
	Score          float64 `json:"score"`
	NullPercentage float64 `json:"null_percentage"`
}

// Completeness measures null density over the full row × column cell grid of
// the validated dataset. Measuring cells rather than rows keeps a wide
// dataset from understating missingness: a blank optional column counts
// against every row that leaves it empty.
func Completeness(d *Dataset) CompletenessScore {
	cells := d.RowCount() * d.ColumnCount()
	if cells == 0 {
		return CompletenessScore{}
	}
	nullPct := float64(d.NullCells) / float64(cells) * 100
	return CompletenessScore{
		Score:          clamp(WeightCompleteness*(1-nullPct/100), WeightCompleteness),
		NullPercentage: nullPct,
	}
}
