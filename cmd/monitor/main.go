// Command monitor runs the quality-monitoring service: it fetches
// observation rows from the configured source, validates and scores them,
// stores the report in the package registry, and optionally announces it on
// Kafka. With RUN_INTERVAL unset it performs a single run and exits.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/couchcryptid/climate-quality-monitor/internal/adapter/csvsource"
	httpadapter "github.com/couchcryptid/climate-quality-monitor/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/climate-quality-monitor/internal/adapter/kafka"
	"github.com/couchcryptid/climate-quality-monitor/internal/adapter/openmeteo"
	"github.com/couchcryptid/climate-quality-monitor/internal/adapter/registry"
	"github.com/couchcryptid/climate-quality-monitor/internal/config"
	"github.com/couchcryptid/climate-quality-monitor/internal/observability"
	"github.com/couchcryptid/climate-quality-monitor/internal/pipeline"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	source := buildSource(cfg, logger)

	store, err := registry.Open(cfg.RegistryPath)
	if err != nil {
		logger.Error("failed to open registry", "path", cfg.RegistryPath, "error", err)
		os.Exit(1)
	}
	defer store.Close()

	var publisher pipeline.Publisher
	var kafkaPublisher *kafkaadapter.Publisher
	if cfg.KafkaEnabled {
		kafkaPublisher = kafkaadapter.NewPublisher(cfg.KafkaBrokers, cfg.KafkaReportTopic, logger)
		publisher = kafkaPublisher
		logger.Info("kafka publishing enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaReportTopic)
	} else {
		logger.Info("kafka publishing disabled")
	}

	p := pipeline.New(source, store, publisher, cfg.Thresholds, cfg.PackageName, logger, metrics)

	srv := httpadapter.NewServer(cfg.HTTPAddr, p, store, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	runErr := runLoop(ctx, p, cfg.RunInterval, logger)

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if kafkaPublisher != nil {
		if err := kafkaPublisher.Close(); err != nil {
			logger.Error("kafka publisher close error", "error", err)
		}
	}

	if runErr != nil {
		os.Exit(1)
	}
	logger.Info("shutdown complete")
}

func buildSource(cfg *config.Config, logger *slog.Logger) pipeline.RowSource {
	switch cfg.Source {
	case config.SourceOpenMeteo:
		return openmeteo.New(openmeteo.Config{
			BaseURL:   cfg.OpenMeteoBaseURL,
			Latitude:  cfg.OpenMeteoLatitude,
			Longitude: cfg.OpenMeteoLongitude,
			Start:     cfg.OpenMeteoStart,
			End:       cfg.OpenMeteoEnd,
			Timeout:   cfg.OpenMeteoTimeout,
			RPS:       cfg.OpenMeteoRPS,
		}, logger)
	default:
		// config.Load only admits known sources.
		return csvsource.New(cfg.DataFile)
	}
}

// runLoop runs the pipeline once, then keeps re-running on the configured
// interval until the context is cancelled. A zero interval means run once.
func runLoop(ctx context.Context, p *pipeline.Pipeline, interval time.Duration, logger *slog.Logger) error {
	result, err := p.Run(ctx)
	if err != nil {
		logger.Error("pipeline run failed", "error", err)
		if interval == 0 {
			return err
		}
	} else {
		logResult(logger, result)
	}
	if interval == 0 {
		return err
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			result, err := p.Run(ctx)
			if err != nil {
				logger.Error("pipeline run failed", "error", err)
				continue
			}
			logResult(logger, result)
		}
	}
}

func logResult(logger *slog.Logger, r *pipeline.RunResult) {
	logger.Info("run complete",
		"package", r.Package,
		"version", r.Version,
		"score", r.Report.QualityScore,
		"accepted", r.Accepted,
		"rejected_rows", r.Rejected,
		"duration", r.Duration,
	)
}
