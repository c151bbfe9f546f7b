package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/climate-quality-monitor/internal/domain"
	"github.com/couchcryptid/climate-quality-monitor/internal/observability"
)

// RowSource supplies raw observation rows and the observed column set.
type RowSource interface {
	Fetch(ctx context.Context) (columns []string, rows []domain.RawRow, err error)
	Name() string
}

// Packager stores a finished report, attached as metadata to a new version
// of the named package, and returns the version it created.
type Packager interface {
	Store(ctx context.Context, pkg string, report domain.QualityReport, records []domain.Observation) (version int64, err error)
}

// Publisher announces a finished report to downstream consumers. Optional;
// the pipeline runs without one.
type Publisher interface {
	Publish(ctx context.Context, pkg string, version int64, report domain.QualityReport) error
}

// RunResult summarizes one pipeline run.
type RunResult struct {
	Package  string                      `json:"package"`
	Version  int64                       `json:"version"`
	Report   domain.QualityReport        `json:"report"`
	Rejected int                         `json:"rejected_rows"`
	Reasons  map[domain.RejectReason]int `json:"reject_reasons,omitempty"`
	Accepted bool                        `json:"accepted"`
	Gate     []string                    `json:"gate_failures,omitempty"`
	Duration time.Duration               `json:"-"`
}

// Pipeline orchestrates one fetch → validate → score → package → publish run.
type Pipeline struct {
	source     RowSource
	packager   Packager
	publisher  Publisher
	thresholds domain.Thresholds
	pkg        string
	logger     *slog.Logger
	metrics    *observability.Metrics
	ready      atomic.Bool
}

// New creates a Pipeline. publisher may be nil to skip the announce step.
func New(source RowSource, packager Packager, publisher Publisher,
	thresholds domain.Thresholds, pkg string,
	logger *slog.Logger, metrics *observability.Metrics) *Pipeline {
	return &Pipeline{
		source:     source,
		packager:   packager,
		publisher:  publisher,
		thresholds: thresholds,
		pkg:        pkg,
		logger:     logger,
		metrics:    metrics,
	}
}

// CheckReadiness returns nil once at least one run has completed, or an
// error describing why the service is not yet ready.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("pipeline has not completed a run yet")
	}
	return nil
}

// Run executes one complete assessment. Dataset-level validation failures
// abort the run with no report; row-level failures are dropped, counted, and
// surfaced on the result.
func (p *Pipeline) Run(ctx context.Context) (*RunResult, error) {
	start := time.Now()
	p.metrics.RunsStarted.Inc()

	p.logger.Info("fetching rows", "source", p.source.Name(), "package", p.pkg)
	columns, rows, err := p.source.Fetch(ctx)
	if err != nil {
		p.metrics.RunFailures.Inc()
		return nil, fmt.Errorf("fetch rows from %s: %w", p.source.Name(), err)
	}

	validated, err := domain.ValidateRows(columns, rows)
	if err != nil {
		// Missing columns or zero valid rows: fatal, no report.
		p.metrics.RunFailures.Inc()
		return nil, fmt.Errorf("validate dataset: %w", err)
	}
	p.metrics.RowsValidated.Add(float64(validated.Dataset.RowCount()))
	p.metrics.RowsRejected.Add(float64(validated.Rejected))
	if validated.Rejected > 0 {
		p.logger.Warn("rows rejected during validation",
			"rejected", validated.Rejected, "reasons", validated.Reasons)
	}

	report := domain.NewQualityReport(validated.Dataset, p.thresholds)
	p.metrics.QualityScore.Set(report.QualityScore)
	p.logger.Info("quality assessed",
		"score", report.QualityScore,
		"rows", report.RowCount,
		"stations", report.StationCount,
		"null_pct", report.NullPercentage,
	)

	result := &RunResult{
		Package:  p.pkg,
		Report:   report,
		Rejected: validated.Rejected,
		Reasons:  validated.Reasons,
	}
	result.Accepted, result.Gate = evaluateGate(report, p.thresholds)
	if !result.Accepted {
		p.logger.Warn("quality gate failed", "failures", result.Gate)
		p.metrics.GateFailures.Inc()
	}

	version, err := p.packager.Store(ctx, p.pkg, report, validated.Dataset.Records)
	if err != nil {
		p.metrics.RunFailures.Inc()
		return nil, fmt.Errorf("store package %s: %w", p.pkg, err)
	}
	result.Version = version
	p.logger.Info("package stored", "package", p.pkg, "version", version)

	if p.publisher != nil {
		if err := p.publisher.Publish(ctx, p.pkg, version, report); err != nil {
			// The package is already stored; publishing is best-effort.
			p.logger.Error("publish report failed", "error", err)
			p.metrics.PublishErrors.Inc()
		}
	}

	result.Duration = time.Since(start)
	p.metrics.RunDuration.Observe(result.Duration.Seconds())
	p.ready.Store(true)
	return result, nil
}

// evaluateGate applies the caller-side accept/reject thresholds. The score
// is always computed; the gate only annotates the outcome.
func evaluateGate(report domain.QualityReport, t domain.Thresholds) (bool, []string) {
	var failures []string
	if report.QualityScore < t.MinQualityScore {
		failures = append(failures, fmt.Sprintf(
			"quality score %.2f below minimum %.2f", report.QualityScore, t.MinQualityScore))
	}
	if report.NullPercentage > t.MaxNullPercentage {
		failures = append(failures, fmt.Sprintf(
			"null percentage %.2f above maximum %.2f", report.NullPercentage, t.MaxNullPercentage))
	}
	return len(failures) == 0, failures
}
