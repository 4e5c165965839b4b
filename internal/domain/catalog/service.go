package catalog

import "context"

// Service defines the read side of the catalog used by handlers and reports
type Service interface {
	ListPlatforms(ctx context.Context) ([]*Platform, error)
	GetPlatform(ctx context.Context, slug string) (*PlatformDetail, error)

	ListBenchmarks(ctx context.Context) ([]*Benchmark, error)
	GetBenchmark(ctx context.Context, id int64) (*BenchmarkDetail, error)
	GetSection(ctx context.Context, benchmarkID, sectionID int64) (*SectionDetail, error)
	GetCheck(ctx context.Context, id int64) (*CheckDetail, error)
	SearchChecks(ctx context.Context, q SearchQuery) ([]*CheckHit, error)

	// LoadTree builds the section tree of a benchmark
	LoadTree(ctx context.Context, benchmarkID int64) (*Tree, error)

	// ChecklistChecks returns the checks of a benchmark that pass the filter,
	// ordered by check number
	ChecklistChecks(ctx context.Context, benchmarkID int64, f CheckFilter) ([]*Check, error)

	Counts(ctx context.Context) (*Counts, error)
}

// PlatformDetail is a platform with its benchmarks
type PlatformDetail struct {
	Platform   *Platform    `json:"platform"`
	Benchmarks []*Benchmark `json:"benchmarks"`
}

// BenchmarkDetail is a benchmark with its top-level sections
type BenchmarkDetail struct {
	Benchmark *Benchmark `json:"benchmark"`
	Sections  []*Section `json:"sections"`
}

// SectionDetail is a section page: the section, its children, every check
// beneath it and the path from the root
type SectionDetail struct {
	Benchmark  *Benchmark `json:"benchmark"`
	Section    *Section   `json:"section"`
	Children   []*Section `json:"children"`
	Checks     []*Check   `json:"checks"`
	Breadcrumb []*Section `json:"breadcrumb"`
}

// CheckDetail is a check with the context needed to display it
type CheckDetail struct {
	Check      *Check     `json:"check"`
	Section    *Section   `json:"section"`
	Benchmark  *Benchmark `json:"benchmark"`
	Breadcrumb []*Section `json:"breadcrumb"`
}
