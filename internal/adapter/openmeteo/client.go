// Package openmeteo fetches historical daily weather from the Open-Meteo
// archive API and reshapes it into long-format observation rows, one row per
// (date, element) pair.
package openmeteo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/couchcryptid/climate-quality-monitor/internal/domain"
)

const archivePath = "/v1/archive"

// Config holds the query parameters for one archive request.
type Config struct {
	BaseURL   string
	Latitude  float64
	Longitude float64
	Start     string // YYYY-MM-DD
	End       string // YYYY-MM-DD
	Timeout   time.Duration
	// RPS throttles requests to the public API. Zero disables throttling.
	RPS float64
}

// Source implements the row source over the Open-Meteo archive API.
type Source struct {
	cfg        Config
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *slog.Logger
}

// New creates an Open-Meteo archive source.
func New(cfg Config, logger *slog.Logger) *Source {
	var limiter *rate.Limiter
	if cfg.RPS > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RPS), 1)
	}
	return &Source{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		limiter:    limiter,
		logger:     logger,
	}
}

// Name identifies the source in logs.
func (s *Source) Name() string {
	return "openmeteo"
}

// archive response types.

type response struct {
	Daily daily `json:"daily"`
}

type daily struct {
	Time             []string   `json:"time"`
	TemperatureMax   []*float64 `json:"temperature_2m_max"`
	TemperatureMin   []*float64 `json:"temperature_2m_min"`
	PrecipitationSum []*float64 `json:"precipitation_sum"`
}

// Fetch requests the configured date range and converts each day into up to
// three rows (TMAX, TMIN, PRCP). Days where the archive has no reading for
// an element produce no row for it.
func (s *Source) Fetch(ctx context.Context) ([]string, []domain.RawRow, error) {
	if s.limiter != nil {
		if err := s.limiter.Wait(ctx); err != nil {
			return nil, nil, fmt.Errorf("rate limit wait: %w", err)
		}
	}

	params := url.Values{
		"latitude":   {strconv.FormatFloat(s.cfg.Latitude, 'f', 4, 64)},
		"longitude":  {strconv.FormatFloat(s.cfg.Longitude, 'f', 4, 64)},
		"start_date": {s.cfg.Start},
		"end_date":   {s.cfg.End},
		"daily":      {"temperature_2m_max,temperature_2m_min,precipitation_sum"},
		"timezone":   {"UTC"},
	}
	fullURL := s.cfg.BaseURL + archivePath + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("create request: %w", err)
	}

	s.logger.Debug("requesting archive data",
		"start", s.cfg.Start, "end", s.cfg.End,
		"lat", s.cfg.Latitude, "lon", s.cfg.Longitude)
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("archive request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, nil, fmt.Errorf("open-meteo API error: status %d: %s", resp.StatusCode, body)
	}

	var archive response
	if err := json.NewDecoder(resp.Body).Decode(&archive); err != nil {
		return nil, nil, fmt.Errorf("decode response: %w", err)
	}

	columns := []string{
		domain.ColumnStationID, domain.ColumnDate, domain.ColumnElement,
		domain.ColumnValue, domain.ColumnSource,
	}
	return columns, s.toRows(archive.Daily), nil
}

// stationID derives a synthetic station identifier from the coordinates.
// Open-Meteo models a grid point, not a physical station, so the grid cell
// is the closest stable analogue.
func (s *Source) stationID() string {
	return fmt.Sprintf("OM_%.2f_%.2f", s.cfg.Latitude, s.cfg.Longitude)
}

func (s *Source) toRows(d daily) []domain.RawRow {
	station := s.stationID()

	var rows []domain.RawRow
	add := func(date string, element domain.Element, value *float64) {
		if value == nil {
			return
		}
		rows = append(rows, domain.RawRow{
			domain.ColumnStationID: station,
			domain.ColumnDate:      date,
			domain.ColumnElement:   string(element),
			domain.ColumnValue:     strconv.FormatFloat(*value, 'f', -1, 64),
			domain.ColumnSource:    "openmeteo",
		})
	}

	for i, date := range d.Time {
		if i < len(d.TemperatureMax) {
			add(date, domain.ElementTMAX, d.TemperatureMax[i])
		}
		if i < len(d.TemperatureMin) {
			add(date, domain.ElementTMIN, d.TemperatureMin[i])
		}
		if i < len(d.PrecipitationSum) {
			add(date, domain.ElementPRCP, d.PrecipitationSum[i])
		}
	}
	return rows
}
