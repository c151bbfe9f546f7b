package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/couchcryptid/climate-quality-monitor/internal/domain"
	"gopkg.in/yaml.v3"
)

// Source names the configured row source adapter.
const (
	SourceCSV       = "csv"
	SourceOpenMeteo = "openmeteo"
)

// Config holds all service settings, populated from environment variables.
// An optional YAML file (QUALITY_CONFIG_FILE) can override the scoring
// thresholds; environment variables win over the file.
type Config struct {
	LogLevel        string
	LogFormat       string
	HTTPAddr        string
	ShutdownTimeout time.Duration

	// Run settings.
	PackageName  string
	Source       string
	DataFile     string        // csv source
	RunInterval  time.Duration // 0 = run once and exit
	RegistryPath string

	// Open-Meteo source settings.
	OpenMeteoBaseURL   string
	OpenMeteoLatitude  float64
	OpenMeteoLongitude float64
	OpenMeteoStart     string // YYYY-MM-DD
	OpenMeteoEnd       string // YYYY-MM-DD
	OpenMeteoRPS       float64
	OpenMeteoTimeout   time.Duration

	// Kafka report publishing (disabled unless brokers are set).
	KafkaEnabled     bool
	KafkaBrokers     []string
	KafkaReportTopic string

	Thresholds domain.Thresholds
}

// thresholdsFile mirrors the original YAML layout: a quality.thresholds
// section carrying the scoring knobs.
type thresholdsFile struct {
	Quality struct {
		Thresholds domain.Thresholds `yaml:"thresholds"`
	} `yaml:"quality"`
}

// Load reads configuration from environment variables, applying defaults
// where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := parseDuration("SHUTDOWN_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}
	runInterval, err := parseDuration("RUN_INTERVAL", 0)
	if err != nil {
		return nil, err
	}
	omTimeout, err := parseDuration("OPENMETEO_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, err
	}

	thresholds, err := loadThresholds()
	if err != nil {
		return nil, err
	}

	brokers := parseBrokers(os.Getenv("KAFKA_BROKERS"))
	kafkaEnabled := len(brokers) > 0
	if v := os.Getenv("KAFKA_ENABLED"); v != "" {
		kafkaEnabled = v == "true"
	}

	cfg := &Config{
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		ShutdownTimeout: shutdownTimeout,

		PackageName:  envOrDefault("PACKAGE_NAME", "climate/observations"),
		Source:       envOrDefault("DATA_SOURCE", SourceCSV),
		DataFile:     os.Getenv("DATA_FILE"),
		RunInterval:  runInterval,
		RegistryPath: envOrDefault("REGISTRY_PATH", "data/registry.db"),

		OpenMeteoBaseURL: envOrDefault("OPENMETEO_BASE_URL", "https://archive-api.open-meteo.com"),
		OpenMeteoStart:   os.Getenv("OPENMETEO_START"),
		OpenMeteoEnd:     os.Getenv("OPENMETEO_END"),
		OpenMeteoTimeout: omTimeout,

		KafkaEnabled:     kafkaEnabled,
		KafkaBrokers:     brokers,
		KafkaReportTopic: envOrDefault("KAFKA_REPORT_TOPIC", "quality-reports"),

		Thresholds: thresholds,
	}

	if cfg.OpenMeteoLatitude, err = parseFloat("OPENMETEO_LATITUDE", 40.78); err != nil {
		return nil, err
	}
	if cfg.OpenMeteoLongitude, err = parseFloat("OPENMETEO_LONGITUDE", -73.97); err != nil {
		return nil, err
	}
	if cfg.OpenMeteoRPS, err = parseFloat("OPENMETEO_RPS", 1); err != nil {
		return nil, err
	}

	switch cfg.Source {
	case SourceCSV:
		if cfg.DataFile == "" {
			return nil, errors.New("DATA_FILE is required when DATA_SOURCE is csv")
		}
	case SourceOpenMeteo:
		if cfg.OpenMeteoStart == "" || cfg.OpenMeteoEnd == "" {
			return nil, errors.New("OPENMETEO_START and OPENMETEO_END are required when DATA_SOURCE is openmeteo")
		}
	default:
		return nil, fmt.Errorf("unknown DATA_SOURCE %q", cfg.Source)
	}
	if cfg.PackageName == "" {
		return nil, errors.New("PACKAGE_NAME is required")
	}
	if cfg.KafkaEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is not set")
	}

	return cfg, nil
}

// loadThresholds starts from defaults, layers the optional YAML file, then
// applies per-threshold environment overrides.
func loadThresholds() (domain.Thresholds, error) {
	t := domain.DefaultThresholds()

	if path := os.Getenv("QUALITY_CONFIG_FILE"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return t, fmt.Errorf("read QUALITY_CONFIG_FILE: %w", err)
		}
		var file thresholdsFile
		file.Quality.Thresholds = t
		if err := yaml.Unmarshal(data, &file); err != nil {
			return t, fmt.Errorf("parse QUALITY_CONFIG_FILE: %w", err)
		}
		t = file.Quality.Thresholds
	}

	overrides := []struct {
		env string
		dst *float64
	}{
		{"TEMP_OUTLIER_STD_DEV", &t.TempOutlierStdDev},
		{"TEMP_MIN_VALID", &t.TempMinValid},
		{"TEMP_MAX_VALID", &t.TempMaxValid},
		{"PRECIP_MAX_DAILY", &t.PrecipMaxDaily},
		{"MAX_NULL_PERCENTAGE", &t.MaxNullPercentage},
		{"MIN_QUALITY_SCORE", &t.MinQualityScore},
	}
	for _, o := range overrides {
		v, err := parseFloat(o.env, *o.dst)
		if err != nil {
			return t, err
		}
		*o.dst = v
	}

	if t.TempOutlierStdDev <= 0 {
		return t, errors.New("TEMP_OUTLIER_STD_DEV must be positive")
	}
	if t.TempMinValid >= t.TempMaxValid {
		return t, errors.New("TEMP_MIN_VALID must be below TEMP_MAX_VALID")
	}
	return t, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseBrokers(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parseDuration(key string, fallback time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d < 0 {
		return 0, fmt.Errorf("invalid %s: %q", key, raw)
	}
	return d, nil
}

func parseFloat(key string, fallback float64) (float64, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q", key, raw)
	}
	return v, nil
}
