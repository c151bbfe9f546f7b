// Package query exposes the registry to interactive clients. Every request
// names one of a closed set of commands; dispatch is an exhaustive switch,
// so adding a command without handling it is a compile-visible gap rather
// than a silent fallthrough.
package query

import (
	"context"
	"errors"
	"fmt"

	"github.com/couchcryptid/climate-quality-monitor/internal/adapter/registry"
	"github.com/couchcryptid/climate-quality-monitor/internal/domain"
)

// Command names one query operation.
type Command string

// The complete command set.
const (
	CommandSearchPackages    Command = "search_packages"
	CommandGetPackageMetrics Command = "get_package_metrics"
	CommandComparePackages   Command = "compare_packages"
	CommandGetSampleRows     Command = "get_sample_rows"
	CommandListPackages      Command = "list_packages"
)

// Commands lists every supported command.
func Commands() []Command {
	return []Command{
		CommandSearchPackages,
		CommandGetPackageMetrics,
		CommandComparePackages,
		CommandGetSampleRows,
		CommandListPackages,
	}
}

// ErrUnknownCommand is returned for commands outside the closed set.
var ErrUnknownCommand = errors.New("unknown command")

// Request carries the command plus its arguments. Unused fields are ignored
// by commands that do not take them. Version zero means "latest".
type Request struct {
	Command Command `json:"command"`

	Package string `json:"package,omitempty"`
	Version int64  `json:"version,omitempty"`

	// compare_packages: the revision compared against.
	OtherPackage string `json:"other_package,omitempty"`
	OtherVersion int64  `json:"other_version,omitempty"`

	// search_packages filters.
	MinScore float64  `json:"min_score,omitempty"`
	Elements []string `json:"elements,omitempty"`

	// get_sample_rows row cap.
	Limit int `json:"limit,omitempty"`
}

// Registry is the slice of the package registry the query layer reads.
type Registry interface {
	Get(ctx context.Context, name string, version int64) (*registry.Package, error)
	Latest(ctx context.Context, name string) (*registry.Package, error)
	List(ctx context.Context) ([]registry.Package, error)
	Search(ctx context.Context, minScore float64, elements []string) ([]registry.Package, error)
	SampleRows(ctx context.Context, name string, version int64, limit int) ([]domain.Observation, error)
}

// Comparison pairs the two compared revisions with their score drift.
type Comparison struct {
	Earlier registry.Package `json:"earlier"`
	Later   registry.Package `json:"later"`
	Drift   domain.Drift     `json:"drift"`
}

// Service answers queries against one registry.
type Service struct {
	reg Registry
}

// NewService creates a query service over the given registry.
func NewService(reg Registry) *Service {
	return &Service{reg: reg}
}

// Dispatch routes a request to its command handler. The switch enumerates
// every member of the command set.
func (s *Service) Dispatch(ctx context.Context, req Request) (any, error) {
	switch req.Command {
	case CommandSearchPackages:
		return s.reg.Search(ctx, req.MinScore, req.Elements)
	case CommandGetPackageMetrics:
		return s.resolve(ctx, req.Package, req.Version)
	case CommandComparePackages:
		return s.compare(ctx, req)
	case CommandGetSampleRows:
		return s.sampleRows(ctx, req)
	case CommandListPackages:
		return s.reg.List(ctx)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownCommand, req.Command)
	}
}

// resolve fetches one revision, defaulting to the latest when version is
// zero or negative.
func (s *Service) resolve(ctx context.Context, name string, version int64) (*registry.Package, error) {
	if name == "" {
		return nil, errors.New("package name is required")
	}
	if version <= 0 {
		return s.reg.Latest(ctx, name)
	}
	return s.reg.Get(ctx, name, version)
}

// compare resolves both revisions and reports their drift, earlier to later
// by creation time.
func (s *Service) compare(ctx context.Context, req Request) (*Comparison, error) {
	if req.OtherPackage == "" {
		req.OtherPackage = req.Package
	}

	a, err := s.resolve(ctx, req.Package, req.Version)
	if err != nil {
		return nil, err
	}
	b, err := s.resolve(ctx, req.OtherPackage, req.OtherVersion)
	if err != nil {
		return nil, err
	}

	earlier, later := a, b
	if later.CreatedAt.Before(earlier.CreatedAt) {
		earlier, later = later, earlier
	}
	return &Comparison{
		Earlier: *earlier,
		Later:   *later,
		Drift:   domain.CompareReports(earlier.Report, later.Report),
	}, nil
}

func (s *Service) sampleRows(ctx context.Context, req Request) ([]domain.Observation, error) {
	pkg, err := s.resolve(ctx, req.Package, req.Version)
	if err != nil {
		return nil, err
	}
	return s.reg.SampleRows(ctx, pkg.Name, pkg.Version, req.Limit)
}
