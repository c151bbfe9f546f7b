package openmeteo

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/climate-quality-monitor/internal/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

const archiveBody = `{
	"daily": {
		"time": ["2023-01-01", "2023-01-02", "2023-01-03"],
		"temperature_2m_max": [5.6, null, 7.1],
		"temperature_2m_min": [-1.0, -2.3, 0.4],
		"precipitation_sum": [0.0, 12.5, null]
	}
}`

func newTestSource(t *testing.T, handler http.HandlerFunc) *Source {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return New(Config{
		BaseURL:   srv.URL,
		Latitude:  40.78,
		Longitude: -73.97,
		Start:     "2023-01-01",
		End:       "2023-01-03",
		Timeout:   5 * time.Second,
	}, discardLogger())
}

func TestFetch(t *testing.T) {
	var gotQuery map[string][]string
	src := newTestSource(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/archive", r.URL.Path)
		gotQuery = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(archiveBody))
	})

	columns, rows, err := src.Fetch(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"2023-01-01"}, gotQuery["start_date"])
	assert.Equal(t, []string{"2023-01-03"}, gotQuery["end_date"])
	assert.Equal(t, []string{"40.7800"}, gotQuery["latitude"])

	assert.Equal(t, []string{"station_id", "date", "element", "value", "source_flag"}, columns)
	// 3 days x 3 elements minus the two null readings.
	require.Len(t, rows, 7)

	assert.Equal(t, domain.RawRow{
		"station_id":  "OM_40.78_-73.97",
		"date":        "2023-01-01",
		"element":     "TMAX",
		"value":       "5.6",
		"source_flag": "openmeteo",
	}, rows[0])

	// Day 2 skips TMAX, day 3 skips PRCP.
	for _, row := range rows {
		if row["date"] == "2023-01-02" {
			assert.NotEqual(t, "TMAX", row["element"])
		}
		if row["date"] == "2023-01-03" {
			assert.NotEqual(t, "PRCP", row["element"])
		}
	}
}

func TestFetch_RowsSurviveValidation(t *testing.T) {
	src := newTestSource(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(archiveBody))
	})

	columns, rows, err := src.Fetch(context.Background())
	require.NoError(t, err)

	validated, err := domain.ValidateRows(columns, rows)
	require.NoError(t, err)
	assert.Equal(t, len(rows), validated.Dataset.RowCount())
	assert.Zero(t, validated.Rejected)
}

func TestFetch_APIError(t *testing.T) {
	src := newTestSource(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"reason":"Out of range"}`, http.StatusBadRequest)
	})

	_, _, err := src.Fetch(context.Background())
	require.ErrorContains(t, err, "status 400")
}

func TestFetch_BadJSON(t *testing.T) {
	src := newTestSource(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("not json"))
	})

	_, _, err := src.Fetch(context.Background())
	require.ErrorContains(t, err, "decode response")
}

func TestFetch_RateLimited(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(archiveBody))
	}))
	t.Cleanup(srv.Close)

	src := New(Config{
		BaseURL: srv.URL,
		Start:   "2023-01-01",
		End:     "2023-01-03",
		Timeout: 5 * time.Second,
		RPS:     100,
	}, discardLogger())

	// Second call waits for a token; with a cancelled context it must fail
	// before hitting the network.
	_, _, err := src.Fetch(context.Background())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err = src.Fetch(ctx)
	require.ErrorContains(t, err, "rate limit wait")
}
