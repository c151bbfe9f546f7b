package domain

import (
	"fmt"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func frozenClock(t *testing.T) time.Time {
	t.Helper()
	at := time.Date(2026, time.March, 14, 9, 26, 53, 0, time.UTC)
	SetClock(clockwork.NewFakeClockAt(at))
	t.Cleanup(func() { SetClock(nil) })
	return at
}

// perfectYear builds one clean year: every day present, all 12 months, no
// nulls, no outliers, all required columns.
func perfectYear(t *testing.T) *Dataset {
	t.Helper()
	var rows []RawRow
	date := time.Date(2023, time.January, 1, 0, 0, 0, 0, time.UTC)
	for date.Year() == 2023 {
		d := date.Format("2006-01-02")
		rows = append(rows,
			makeRow("USW00094728", d, "TMAX", "15.0"),
			makeRow("USW00094728", d, "TMIN", "7.0"),
			makeRow("USW00094728", d, "PRCP", "0.0"),
		)
		date = date.AddDate(0, 0, 1)
	}
	result, err := ValidateRows(testColumns, rows)
	require.NoError(t, err)
	require.Zero(t, result.Rejected)
	return result.Dataset
}

func TestNewQualityReport_PerfectDatasetScores100(t *testing.T) {
	at := frozenClock(t)

	report := NewQualityReport(perfectYear(t), DefaultThresholds())

	assert.Equal(t, 100.0, report.QualityScore)
	assert.Equal(t, WeightCompleteness, report.Completeness.Score)
	assert.Equal(t, WeightOutliers, report.Outliers.Score)
	assert.Equal(t, WeightTemporal, report.Temporal.Score)
	assert.Equal(t, WeightSeasonality, report.Seasonality.Score)
	assert.Equal(t, WeightSchema, report.Schema.Score)
	assert.Equal(t, at, report.Timestamp)
	assert.Equal(t, 365*3, report.RowCount)
	assert.Equal(t, 5, report.ColumnCount)
	assert.Equal(t, 1, report.StationCount)
	assert.Zero(t, report.DuplicateCount)
}

func TestNewQualityReport_ScoreIsExactSumAndBounded(t *testing.T) {
	frozenClock(t)

	datasets := map[string]*Dataset{
		"perfect year": perfectYear(t),
		"single reading": obsDataset(
			obs(t, "A", "2024-01-01", ElementTMAX, 10),
		),
		"sparse with outlier": obsDataset(
			obs(t, "A", "2024-01-01", ElementTMAX, 10),
			obs(t, "A", "2024-03-01", ElementTMAX, 90),
			obs(t, "B", "2024-07-15", ElementPRCP, 3),
		),
	}

	for name, d := range datasets {
		t.Run(name, func(t *testing.T) {
			r := NewQualityReport(d, DefaultThresholds())
			sum := r.Completeness.Score + r.Outliers.Score + r.Temporal.Score +
				r.Seasonality.Score + r.Schema.Score
			assert.Equal(t, sum, r.QualityScore)
			assert.GreaterOrEqual(t, r.QualityScore, 0.0)
			assert.LessOrEqual(t, r.QualityScore, 100.0)
		})
	}
}

// Null cells live only in surviving rows' optional columns; rows missing a
// required value never reach the dataset. Completeness is therefore the one
// metric that sees null density; the other four are untouched by it.
func TestNewQualityReport_NullDensityOnlyAffectsCompleteness(t *testing.T) {
	frozenClock(t)

	blank := func(d string) RawRow {
		r := makeRow("USW00094728", d, "TMAX", "15.0")
		r[ColumnSource] = ""
		return r
	}
	var rows []RawRow
	date := time.Date(2023, time.January, 1, 0, 0, 0, 0, time.UTC)
	for date.Year() == 2023 {
		rows = append(rows, blank(date.Format("2006-01-02")))
		date = date.AddDate(0, 0, 1)
	}

	result, err := ValidateRows(testColumns, rows)
	require.NoError(t, err)
	report := NewQualityReport(result.Dataset, DefaultThresholds())

	// One blank cell out of five per row: 20% null density.
	assert.InDelta(t, 20.0, report.NullPercentage, 1e-9)
	assert.InDelta(t, 24.0, report.Completeness.Score, 1e-9)
	assert.Equal(t, WeightOutliers, report.Outliers.Score)
	assert.Equal(t, WeightTemporal, report.Temporal.Score)
	assert.Equal(t, WeightSeasonality, report.Seasonality.Score)
	assert.Equal(t, WeightSchema, report.Schema.Score)
	assert.InDelta(t, 94.0, report.QualityScore, 1e-9)
}

func TestNewQualityReport_FullyNullGridCapsAt70(t *testing.T) {
	frozenClock(t)

	// Direct calculator input: a grid where every cell reads as null. Not
	// reachable through the validator (required cells are never blank), but
	// the formula must still bottom out at zero completeness.
	d := perfectYear(t)
	d.NullCells = d.RowCount() * d.ColumnCount()

	report := NewQualityReport(d, DefaultThresholds())
	assert.Zero(t, report.Completeness.Score)
	assert.LessOrEqual(t, report.QualityScore, 70.0)
}

// Duplicate (station_id, date, element) tuples stay in every calculator's
// input set and double-count toward denominators; duplicate_count is
// diagnostic only.
func TestDuplicatesDoubleCountInDenominators(t *testing.T) {
	frozenClock(t)

	base := []Observation{
		obs(t, "A", "2024-01-01", ElementTMAX, 10),
		obs(t, "A", "2024-01-02", ElementTMAX, 90), // bound outlier
	}
	noDup := obsDataset(base...)
	withDup := obsDataset(append(append([]Observation{}, base...),
		obs(t, "A", "2024-01-01", ElementTMAX, 10), // exact duplicate of a clean reading
	)...)

	plain := NewQualityReport(noDup, DefaultThresholds())
	duped := NewQualityReport(withDup, DefaultThresholds())

	assert.Zero(t, plain.DuplicateCount)
	assert.Equal(t, 1, duped.DuplicateCount)

	// The duplicate grows the outlier denominator: 1/2 vs 1/3.
	assert.Equal(t, 2, plain.Outliers.TemperatureReadings)
	assert.Equal(t, 3, duped.Outliers.TemperatureReadings)
	assert.Greater(t, duped.Outliers.Score, plain.Outliers.Score)

	// And the completeness cell grid: 3 rows vs 2 rows of cells.
	assert.Equal(t, 3, duped.RowCount)
}

func TestQualityReport_SameScores(t *testing.T) {
	frozenClock(t)
	d := perfectYear(t)

	a := NewQualityReport(d, DefaultThresholds())
	SetClock(clockwork.NewFakeClockAt(time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC)))
	b := NewQualityReport(d, DefaultThresholds())

	assert.NotEqual(t, a.Timestamp, b.Timestamp)
	assert.True(t, a.SameScores(b))

	b.QualityScore++
	assert.False(t, a.SameScores(b))
}

func TestDescriptiveStats(t *testing.T) {
	d := obsDataset(
		obs(t, "A", "2024-01-01", ElementTMAX, 10),
		obs(t, "A", "2024-01-02", ElementTMAX, 20),
		obs(t, "A", "2024-01-01", ElementTMIN, -5),
		obs(t, "A", "2024-01-01", ElementPRCP, 0),
		obs(t, "A", "2024-01-02", ElementPRCP, 12),
		obs(t, "A", "2024-01-03", ElementPRCP, 600),
	)
	diag := DescriptiveStats(d, DefaultThresholds())

	require.NotNil(t, diag.Temperature.TMax)
	assert.Equal(t, 10.0, diag.Temperature.TMax.Min)
	assert.Equal(t, 20.0, diag.Temperature.TMax.Max)
	assert.Equal(t, 15.0, diag.Temperature.TMax.Mean)
	assert.Equal(t, 2, diag.Temperature.TMax.Count)

	require.NotNil(t, diag.Temperature.TMin)
	assert.Equal(t, -5.0, diag.Temperature.TMin.Mean)

	require.NotNil(t, diag.Precipitation.Stats)
	assert.Equal(t, 3, diag.Precipitation.Stats.Count)
	assert.InDelta(t, 100.0/3, diag.Precipitation.ZeroPercentage, 1e-9)
	assert.Equal(t, 1, diag.Precipitation.Extremes) // 600 > 500 default

	t.Run("absent elements leave nil stats", func(t *testing.T) {
		empty := DescriptiveStats(obsDataset(obs(t, "A", "2024-01-01", ElementSNOW, 3)), DefaultThresholds())
		assert.Nil(t, empty.Temperature.TMax)
		assert.Nil(t, empty.Temperature.TMin)
		assert.Nil(t, empty.Precipitation.Stats)
	})
}

func TestDuplicateCount_CountsDuplicatedKeys(t *testing.T) {
	// A key occurring three times is one duplicated key, not two.
	d := obsDataset(
		obs(t, "A", "2024-01-01", ElementTMAX, 10),
		obs(t, "A", "2024-01-01", ElementTMAX, 11),
		obs(t, "A", "2024-01-01", ElementTMAX, 12),
		obs(t, "B", "2024-01-01", ElementTMAX, 10),
		obs(t, "B", "2024-01-01", ElementTMAX, 10),
		obs(t, "C", "2024-01-01", ElementTMAX, 10),
	)
	assert.Equal(t, 2, DuplicateCount(d))
}

func TestStationTurnover(t *testing.T) {
	current := obsDataset(
		obs(t, "A", "2024-02-01", ElementTMAX, 10),
		obs(t, "C", "2024-02-01", ElementTMAX, 10),
		obs(t, "D", "2024-02-01", ElementTMAX, 10),
	)
	previous := obsDataset(
		obs(t, "A", "2024-01-01", ElementTMAX, 10),
		obs(t, "B", "2024-01-01", ElementTMAX, 10),
	)

	assert.Equal(t, []string{"C", "D"}, NewStations(current, previous))
	assert.Equal(t, []string{"B"}, InactiveStations(current, previous))
	assert.Equal(t, 3, StationCount(current))
}

func TestElements_FirstSeenOrder(t *testing.T) {
	d := obsDataset(
		obs(t, "A", "2024-01-01", ElementPRCP, 0),
		obs(t, "A", "2024-01-01", ElementTMAX, 10),
		obs(t, "A", "2024-01-02", ElementPRCP, 1),
	)
	assert.Equal(t, []Element{ElementPRCP, ElementTMAX}, d.Elements())
}

func ExampleNewQualityReport() {
	SetClock(clockwork.NewFakeClockAt(time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)))
	defer SetClock(nil)

	d := &Dataset{
		Columns: RequiredColumns,
		Records: []Observation{
			{StationID: "USW00094728", Date: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), Element: ElementTMAX, Value: 27.8},
		},
	}
	report := NewQualityReport(d, DefaultThresholds())
	fmt.Printf("%.2f\n", report.QualityScore)
	// Output: 86.25
}
