// Package synth generates deterministic synthetic climate data with a
// seasonal sine cycle. The output involves no randomness, so regression
// tests can assert exact scores against it.
package synth

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/couchcryptid/climate-quality-monitor/internal/domain"
)

// Spec controls one generated year of daily TMAX/TMIN/PRCP rows.
type Spec struct {
	Year     int
	Stations int
	// OutlierDays lists days of the year whose station-0 TMAX reading is
	// replaced with OutlierValue, breaching the absolute physical bound.
	OutlierDays map[int]bool
}

// OutlierValue is the injected out-of-bounds TMAX reading (°C). Above the
// default 60 °C validity ceiling, so the bound check flags it regardless of
// the σ rule.
const OutlierValue = 75.0

const sourceFlag = "synthetic"

// Columns returns the column set of generated rows.
func Columns() []string {
	return []string{
		domain.ColumnStationID, domain.ColumnDate, domain.ColumnElement,
		domain.ColumnValue, domain.ColumnSource,
	}
}

// Generate produces one year of daily rows: TMAX follows a seasonal sine
// wave around 10 °C with ±15 °C amplitude, TMIN trails TMAX by 8 °C, and
// PRCP rains 5 mm every fourth day. Station offsets stay small enough that
// no clean reading ever trips the k·σ rule.
func Generate(s Spec) []domain.RawRow {
	if s.Stations < 1 {
		s.Stations = 1
	}

	var rows []domain.RawRow
	date := time.Date(s.Year, time.January, 1, 0, 0, 0, 0, time.UTC)
	for day := 1; date.Year() == s.Year; day++ {
		base := 10 + 15*math.Sin(2*math.Pi*float64(day-1)/365)

		for st := 0; st < s.Stations; st++ {
			stationID := fmt.Sprintf("SYNTH%04d%02d", s.Year, st)
			offset := float64(st%5)*3 - 6
			if st == 0 {
				offset = 0
			}

			tmax := round1(base + offset)
			if st == 0 && s.OutlierDays[day] {
				tmax = OutlierValue
			}
			tmin := round1(base + offset - 8)

			prcp := 0.0
			if day%4 == 0 {
				prcp = 5.0
			}

			rows = append(rows,
				row(stationID, date, domain.ElementTMAX, tmax),
				row(stationID, date, domain.ElementTMIN, tmin),
				row(stationID, date, domain.ElementPRCP, prcp),
			)
		}
		date = date.AddDate(0, 0, 1)
	}
	return rows
}

func row(station string, date time.Time, element domain.Element, value float64) domain.RawRow {
	return domain.RawRow{
		domain.ColumnStationID: station,
		domain.ColumnDate:      date.Format("2006-01-02"),
		domain.ColumnElement:   string(element),
		domain.ColumnValue:     strconv.FormatFloat(value, 'f', 1, 64),
		domain.ColumnSource:    sourceFlag,
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
