package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATA_FILE", "data/sample.csv")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "climate/observations", cfg.PackageName)
	assert.Equal(t, SourceCSV, cfg.Source)
	assert.Equal(t, time.Duration(0), cfg.RunInterval)
	assert.Equal(t, "data/registry.db", cfg.RegistryPath)
	assert.False(t, cfg.KafkaEnabled)
	assert.Empty(t, cfg.KafkaBrokers)
	assert.Equal(t, "quality-reports", cfg.KafkaReportTopic)

	assert.Equal(t, 3.0, cfg.Thresholds.TempOutlierStdDev)
	assert.Equal(t, -60.0, cfg.Thresholds.TempMinValid)
	assert.Equal(t, 60.0, cfg.Thresholds.TempMaxValid)
	assert.Equal(t, 500.0, cfg.Thresholds.PrecipMaxDaily)
	assert.Equal(t, 15.0, cfg.Thresholds.MaxNullPercentage)
	assert.Equal(t, 75.0, cfg.Thresholds.MinQualityScore)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("DATA_SOURCE", "openmeteo")
	t.Setenv("OPENMETEO_START", "2023-01-01")
	t.Setenv("OPENMETEO_END", "2023-12-31")
	t.Setenv("OPENMETEO_LATITUDE", "59.91")
	t.Setenv("OPENMETEO_LONGITUDE", "10.75")
	t.Setenv("OPENMETEO_RPS", "0.5")
	t.Setenv("PACKAGE_NAME", "climate/oslo")
	t.Setenv("RUN_INTERVAL", "6h")
	t.Setenv("KAFKA_BROKERS", "broker1:9092, broker2:9092")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("MIN_QUALITY_SCORE", "90")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, SourceOpenMeteo, cfg.Source)
	assert.Equal(t, 59.91, cfg.OpenMeteoLatitude)
	assert.Equal(t, 10.75, cfg.OpenMeteoLongitude)
	assert.Equal(t, 0.5, cfg.OpenMeteoRPS)
	assert.Equal(t, "climate/oslo", cfg.PackageName)
	assert.Equal(t, 6*time.Hour, cfg.RunInterval)
	assert.True(t, cfg.KafkaEnabled)
	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 90.0, cfg.Thresholds.MinQualityScore)
}

func TestLoad_ThresholdsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quality.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
quality:
  thresholds:
    temp_outlier_std_dev: 2.5
    temp_min_valid: -50
    temp_max_valid: 55
    min_quality_score: 80
`), 0o600))

	t.Setenv("DATA_FILE", "data/sample.csv")
	t.Setenv("QUALITY_CONFIG_FILE", path)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 2.5, cfg.Thresholds.TempOutlierStdDev)
	assert.Equal(t, -50.0, cfg.Thresholds.TempMinValid)
	assert.Equal(t, 55.0, cfg.Thresholds.TempMaxValid)
	assert.Equal(t, 80.0, cfg.Thresholds.MinQualityScore)
	// Unset keys keep their defaults.
	assert.Equal(t, 500.0, cfg.Thresholds.PrecipMaxDaily)
	assert.Equal(t, 15.0, cfg.Thresholds.MaxNullPercentage)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quality.yaml")
	require.NoError(t, os.WriteFile(path, []byte("quality:\n  thresholds:\n    min_quality_score: 80\n"), 0o600))

	t.Setenv("DATA_FILE", "data/sample.csv")
	t.Setenv("QUALITY_CONFIG_FILE", path)
	t.Setenv("MIN_QUALITY_SCORE", "95")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 95.0, cfg.Thresholds.MinQualityScore)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"csv without data file", map[string]string{"DATA_SOURCE": "csv"}},
		{"openmeteo without range", map[string]string{"DATA_SOURCE": "openmeteo"}},
		{"unknown source", map[string]string{"DATA_SOURCE": "ftp", "DATA_FILE": "x.csv"}},
		{"bad interval", map[string]string{"DATA_FILE": "x.csv", "RUN_INTERVAL": "soon"}},
		{"bad threshold", map[string]string{"DATA_FILE": "x.csv", "MIN_QUALITY_SCORE": "high"}},
		{"inverted temp bounds", map[string]string{"DATA_FILE": "x.csv", "TEMP_MIN_VALID": "70"}},
		{"non-positive k", map[string]string{"DATA_FILE": "x.csv", "TEMP_OUTLIER_STD_DEV": "0"}},
		{"missing config file", map[string]string{"DATA_FILE": "x.csv", "QUALITY_CONFIG_FILE": "/nonexistent.yaml"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			require.Error(t, err)
		})
	}
}
