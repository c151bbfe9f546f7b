// Package domain models GHCN-Daily climate observations and computes the
// composite data-quality score attached to each versioned package.
//
// # Data Source
//
// Observations follow the NOAA GHCN-Daily row layout: one measurement per row
// with columns station_id, date, element, value, and an optional source_flag.
// Rows arrive from a CSV file or the Open-Meteo archive API via the adapters
// in internal/adapter; the domain never performs I/O itself.
//
// # GHCN Conventions
//
// Element codes (closed set, unknown codes reject the row):
//
//	PRCP  precipitation (mm)          TMAX  max temperature (°C)
//	TMIN  min temperature (°C)        TOBS  temperature at observation time
//	SNOW  snowfall                    SNWD  snow depth
//	EVAP  evaporation                 MXPN  max pressure
//	MNPN  min pressure                PGTM  peak gust time
//	WDMV  wind movement
//
// Dates are calendar dates in strict YYYY-MM-DD form with no timezone.
// Temperatures are interpreted in whole degrees Celsius; raw GHCN files that
// encode tenths of a degree must be converted upstream, because the absolute
// validity bounds (default −60 °C to 60 °C) assume degrees.
//
// # Quality Scoring
//
// Five independent calculators each produce a bounded sub-score over the
// validated record set:
//
//	completeness  30 pts  null density over the row × column cell grid
//	outliers      25 pts  k·σ and absolute-bound checks on temperature readings
//	temporal      20 pts  distinct days vs. the inclusive min..max date span
//	seasonality   15 pts  distinct calendar months present, saturating at 12
//	schema        10 pts  binary: all required columns present
//
// The quality score is the straight sum of the five, in [0, 100] by
// construction. The seasonality sub-score is a month-coverage proxy, not a
// statistical seasonality test. All statistics are float64; the validator
// rejects NaN and ±Inf values so the calculators never see them.
//
// # Validation
//
// A missing required column is fatal for the whole dataset. Row-level
// failures (bad date, unknown element, non-numeric value, missing station id)
// drop the row and count it by reason; a record is either fully valid or
// excluded entirely. Zero valid rows after filtering is fatal.
package domain
