package services

import (
	"context"

	"github.com/pratik-mahalle/cisaudit/internal/domain/catalog"
	"github.com/pratik-mahalle/cisaudit/internal/pkg/errors"
	"github.com/pratik-mahalle/cisaudit/internal/pkg/logger"
)

// CatalogService implements catalog.Service
type CatalogService struct {
	repo   catalog.Repository
	logger *logger.Logger
}

// NewCatalogService creates a new catalog service
func NewCatalogService(repo catalog.Repository, log *logger.Logger) catalog.Service {
	return &CatalogService{
		repo:   repo,
		logger: log,
	}
}

// ListPlatforms returns every platform
func (s *CatalogService) ListPlatforms(ctx context.Context) ([]*catalog.Platform, error) {
	return s.repo.ListPlatforms(ctx)
}

// GetPlatform returns a platform with its benchmarks
func (s *CatalogService) GetPlatform(ctx context.Context, slug string) (*catalog.PlatformDetail, error) {
	p, err := s.repo.GetPlatformBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	benchmarks, err := s.repo.ListBenchmarks(ctx, p.ID)
	if err != nil {
		return nil, err
	}

	return &catalog.PlatformDetail{Platform: p, Benchmarks: nonNil(benchmarks)}, nil
}

// ListBenchmarks returns every benchmark with its platform and check total
func (s *CatalogService) ListBenchmarks(ctx context.Context) ([]*catalog.Benchmark, error) {
	return s.repo.ListBenchmarks(ctx, 0)
}

// GetBenchmark returns a benchmark with its top-level sections
func (s *CatalogService) GetBenchmark(ctx context.Context, id int64) (*catalog.BenchmarkDetail, error) {
	b, err := s.repo.GetBenchmark(ctx, id)
	if err != nil {
		return nil, err
	}

	tree, err := s.LoadTree(ctx, id)
	if err != nil {
		return nil, err
	}

	return &catalog.BenchmarkDetail{Benchmark: b, Sections: withTotals(tree, tree.Roots())}, nil
}

// GetSection returns a section of a benchmark with its children, every
// check beneath it and its breadcrumb. A section of another benchmark is
// reported as not found.
func (s *CatalogService) GetSection(ctx context.Context, benchmarkID, sectionID int64) (*catalog.SectionDetail, error) {
	b, err := s.repo.GetBenchmark(ctx, benchmarkID)
	if err != nil {
		return nil, err
	}

	tree, err := s.LoadTree(ctx, benchmarkID)
	if err != nil {
		return nil, err
	}

	sec := tree.Section(sectionID)
	if sec == nil {
		return nil, errors.NotFound("Section")
	}
	sec.TotalChecks = tree.TotalChecks(sectionID)

	return &catalog.SectionDetail{
		Benchmark:  b,
		Section:    sec,
		Children:   withTotals(tree, tree.Children(sectionID)),
		Checks:     nonNil(tree.DescendantChecks(sectionID)),
		Breadcrumb: tree.Breadcrumb(sectionID),
	}, nil
}

// GetCheck returns a check with its section, benchmark and breadcrumb
func (s *CatalogService) GetCheck(ctx context.Context, id int64) (*catalog.CheckDetail, error) {
	c, err := s.repo.GetCheck(ctx, id)
	if err != nil {
		return nil, err
	}

	sec, err := s.repo.GetSection(ctx, c.SectionID)
	if err != nil {
		return nil, err
	}

	b, err := s.repo.GetBenchmark(ctx, sec.BenchmarkID)
	if err != nil {
		return nil, err
	}

	tree, err := s.LoadTree(ctx, b.ID)
	if err != nil {
		return nil, err
	}

	return &catalog.CheckDetail{
		Check:      c,
		Section:    sec,
		Benchmark:  b,
		Breadcrumb: tree.Breadcrumb(sec.ID),
	}, nil
}

// SearchChecks finds checks across benchmarks. A query without criteria
// returns the first page of all checks.
func (s *CatalogService) SearchChecks(ctx context.Context, q catalog.SearchQuery) ([]*catalog.CheckHit, error) {
	hits, err := s.repo.SearchChecks(ctx, q)
	if err != nil {
		s.logger.ErrorWithErr(err, "Failed to search checks")
		return nil, err
	}
	return nonNil(hits), nil
}

// LoadTree builds the section tree of a benchmark
func (s *CatalogService) LoadTree(ctx context.Context, benchmarkID int64) (*catalog.Tree, error) {
	sections, err := s.repo.ListSections(ctx, benchmarkID)
	if err != nil {
		return nil, err
	}

	checks, err := s.repo.ListChecks(ctx, benchmarkID)
	if err != nil {
		return nil, err
	}

	tree, err := catalog.NewTree(sections, checks)
	if err != nil {
		s.logger.WithFields(map[string]interface{}{
			"benchmark_id": benchmarkID,
		}).ErrorWithErr(err, "Invalid section hierarchy")
		return nil, errors.Internal("Invalid section hierarchy", err)
	}
	return tree, nil
}

// ChecklistChecks returns the filtered checks of a benchmark ordered by
// check number
func (s *CatalogService) ChecklistChecks(ctx context.Context, benchmarkID int64, f catalog.CheckFilter) ([]*catalog.Check, error) {
	tree, err := s.LoadTree(ctx, benchmarkID)
	if err != nil {
		return nil, err
	}

	checks := catalog.FilterChecks(tree.AllChecks(), f)
	catalog.SortByNumber(checks)
	return checks, nil
}

// Counts returns the size of the catalog
func (s *CatalogService) Counts(ctx context.Context) (*catalog.Counts, error) {
	return s.repo.Counts(ctx)
}

func withTotals(tree *catalog.Tree, sections []*catalog.Section) []*catalog.Section {
	for _, sec := range sections {
		sec.TotalChecks = tree.TotalChecks(sec.ID)
	}
	return sections
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
