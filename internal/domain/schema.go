package domain

// SchemaScore is the required-column sub-score, weight 10. Binary, not
// proportional: any dataset that survived validation already has all four
// required columns, so this reads as 10 for every report that exists. It is
// kept as an explicit sub-score for auditability and so optional columns can
// participate later without changing the report shape.
type SchemaScore struct {
	Score          float64  `json:"score"`
	MissingColumns []string `json:"missing_columns,omitempty"`
}

// SchemaStability checks that all required columns are present in the
// dataset's observed column set.
func SchemaStability(d *Dataset) SchemaScore {
	missing := missingRequiredColumns(d.Columns)
	if len(missing) > 0 {
		return SchemaScore{MissingColumns: missing}
	}
	return SchemaScore{Score: WeightSchema}
}
