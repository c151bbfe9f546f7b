// Package registry implements the versioned package registry that finished
// quality reports are attached to. Each pipeline run appends one immutable
// package revision: the report as metadata, a content digest, and a capped
// sample of the validated rows for ad-hoc inspection.
package registry

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/couchcryptid/climate-quality-monitor/internal/domain"
	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when the requested package or version is absent.
var ErrNotFound = errors.New("package not found")

// maxSampleRows caps how many validated rows are stored per revision.
const maxSampleRows = 50

// Package is one immutable revision in the registry.
type Package struct {
	Name         string               `json:"name"`
	Version      int64                `json:"version"`
	TopHash      string               `json:"top_hash"`
	CreatedAt    time.Time            `json:"created_at"`
	QualityScore float64              `json:"quality_score"`
	RowCount     int                  `json:"row_count"`
	StationCount int                  `json:"station_count"`
	Elements     []string             `json:"elements"`
	Report       domain.QualityReport `json:"report"`
}

// Store is the SQLite-backed registry.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the registry database at path.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create registry dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open registry: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS packages (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			version INTEGER NOT NULL,
			top_hash TEXT NOT NULL,
			created_at TEXT NOT NULL,
			quality_score REAL NOT NULL,
			row_count INTEGER NOT NULL,
			station_count INTEGER NOT NULL,
			elements TEXT NOT NULL,
			report_json TEXT NOT NULL,
			sample_rows_json TEXT NOT NULL,
			UNIQUE(name, version)
		);
		CREATE INDEX IF NOT EXISTS idx_packages_name_version
			ON packages(name, version DESC);
		CREATE INDEX IF NOT EXISTS idx_packages_score
			ON packages(quality_score);
	`)
	if err != nil {
		return fmt.Errorf("migrate registry: %w", err)
	}
	return nil
}

// Store appends a new revision of pkg carrying the report as metadata.
// Versions are sequential per package name, starting at 1. Revisions are
// never updated in place; a new run always creates a new version.
func (s *Store) Store(ctx context.Context, pkg string, report domain.QualityReport, records []domain.Observation) (int64, error) {
	reportJSON, err := domain.EncodeReport(report)
	if err != nil {
		return 0, err
	}

	sample := records
	if len(sample) > maxSampleRows {
		sample = sample[:maxSampleRows]
	}
	sampleJSON, err := json.Marshal(sample)
	if err != nil {
		return 0, fmt.Errorf("encode sample rows: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("store package: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	var version int64
	err = tx.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(version), 0) + 1 FROM packages WHERE name = ?`, pkg,
	).Scan(&version)
	if err != nil {
		return 0, fmt.Errorf("next version for %s: %w", pkg, err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO packages
			(name, version, top_hash, created_at, quality_score,
			 row_count, station_count, elements, report_json, sample_rows_json)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		pkg, version, domain.ReportDigest(report),
		report.Timestamp.UTC().Format(time.RFC3339),
		report.QualityScore, report.RowCount, report.StationCount,
		joinElements(records), string(reportJSON), string(sampleJSON),
	)
	if err != nil {
		return 0, fmt.Errorf("insert package %s v%d: %w", pkg, version, err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("store package: %w", err)
	}
	return version, nil
}

// Get fetches one specific revision.
func (s *Store) Get(ctx context.Context, name string, version int64) (*Package, error) {
	return s.scanOne(s.db.QueryRowContext(ctx,
		selectColumns+` WHERE name = ? AND version = ?`, name, version))
}

// Latest fetches the newest revision of a package.
func (s *Store) Latest(ctx context.Context, name string) (*Package, error) {
	return s.scanOne(s.db.QueryRowContext(ctx,
		selectColumns+` WHERE name = ? ORDER BY version DESC LIMIT 1`, name))
}

// List returns the latest revision of every package, newest first.
func (s *Store) List(ctx context.Context) ([]Package, error) {
	rows, err := s.db.QueryContext(ctx, selectColumns+`
		WHERE (name, version) IN
			(SELECT name, MAX(version) FROM packages GROUP BY name)
		ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list packages: %w", err)
	}
	return scanAll(rows)
}

// Versions returns every revision of one package, oldest first.
func (s *Store) Versions(ctx context.Context, name string) ([]Package, error) {
	rows, err := s.db.QueryContext(ctx,
		selectColumns+` WHERE name = ? ORDER BY version ASC`, name)
	if err != nil {
		return nil, fmt.Errorf("list versions of %s: %w", name, err)
	}
	return scanAll(rows)
}

// Search returns the latest revisions whose quality score is at least
// minScore and, when elements is non-empty, which contain at least one of
// the given element codes.
func (s *Store) Search(ctx context.Context, minScore float64, elements []string) ([]Package, error) {
	all, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	var out []Package
	for _, p := range all {
		if p.QualityScore < minScore {
			continue
		}
		if len(elements) > 0 && !containsAny(p.Elements, elements) {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

// SampleRows returns up to limit stored sample rows of one revision.
func (s *Store) SampleRows(ctx context.Context, name string, version int64, limit int) ([]domain.Observation, error) {
	var raw string
	err := s.db.QueryRowContext(ctx,
		`SELECT sample_rows_json FROM packages WHERE name = ? AND version = ?`,
		name, version,
	).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s v%d", ErrNotFound, name, version)
	}
	if err != nil {
		return nil, fmt.Errorf("sample rows of %s v%d: %w", name, version, err)
	}

	var records []domain.Observation
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		return nil, fmt.Errorf("decode sample rows: %w", err)
	}
	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}
	return records, nil
}

const selectColumns = `
	SELECT name, version, top_hash, created_at, quality_score,
	       row_count, station_count, elements, report_json
	FROM packages`

type rowScanner interface {
	Scan(dest ...any) error
}

func (s *Store) scanOne(row rowScanner) (*Package, error) {
	p, err := scanPackage(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func scanAll(rows *sql.Rows) ([]Package, error) {
	defer rows.Close()
	var out []Package
	for rows.Next() {
		p, err := scanPackage(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

func scanPackage(row rowScanner) (*Package, error) {
	var (
		p          Package
		createdAt  string
		elements   string
		reportJSON string
	)
	err := row.Scan(&p.Name, &p.Version, &p.TopHash, &createdAt, &p.QualityScore,
		&p.RowCount, &p.StationCount, &elements, &reportJSON)
	if err != nil {
		return nil, err
	}

	if p.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return nil, fmt.Errorf("parse created_at %q: %w", createdAt, err)
	}
	if elements != "" {
		p.Elements = strings.Split(elements, ",")
	}
	if p.Report, err = domain.DecodeReport([]byte(reportJSON)); err != nil {
		return nil, err
	}
	return &p, nil
}

func joinElements(records []domain.Observation) string {
	seen := make(map[domain.Element]struct{})
	var parts []string
	for _, r := range records {
		if _, ok := seen[r.Element]; ok {
			continue
		}
		seen[r.Element] = struct{}{}
		parts = append(parts, string(r.Element))
	}
	return strings.Join(parts, ",")
}

func containsAny(have, want []string) bool {
	set := make(map[string]struct{}, len(have))
	for _, h := range have {
		set[strings.ToUpper(h)] = struct{}{}
	}
	for _, w := range want {
		if _, ok := set[strings.ToUpper(w)]; ok {
			return true
		}
	}
	return false
}
