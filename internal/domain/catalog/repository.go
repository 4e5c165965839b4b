package catalog

import "context"

// Repository defines the interface for catalog data access
type Repository interface {
	// ListPlatforms returns all platforms ordered by OS family, then name
	ListPlatforms(ctx context.Context) ([]*Platform, error)

	// GetPlatformBySlug retrieves a platform by its slug
	GetPlatformBySlug(ctx context.Context, slug string) (*Platform, error)

	// CreatePlatform inserts a platform
	CreatePlatform(ctx context.Context, p *Platform) error

	// ListBenchmarks returns benchmarks ordered by name, with platform and
	// check totals. platformID 0 lists every platform.
	ListBenchmarks(ctx context.Context, platformID int64) ([]*Benchmark, error)

	// GetBenchmark retrieves a benchmark with platform and check total
	GetBenchmark(ctx context.Context, id int64) (*Benchmark, error)

	// FindBenchmark looks a benchmark up by name and version
	FindBenchmark(ctx context.Context, name, version string) (*Benchmark, error)

	// ImportBenchmark writes a benchmark with all of its sections and checks
	// in one transaction
	ImportBenchmark(ctx context.Context, in *BenchmarkImport) error

	// ListSections returns every section of a benchmark
	ListSections(ctx context.Context, benchmarkID int64) ([]*Section, error)

	// ListChecks returns every check of a benchmark
	ListChecks(ctx context.Context, benchmarkID int64) ([]*Check, error)

	// GetSection retrieves a section by ID
	GetSection(ctx context.Context, id int64) (*Section, error)

	// GetCheck retrieves a check by ID
	GetCheck(ctx context.Context, id int64) (*Check, error)

	// SearchChecks finds checks across all benchmarks ordered by check number
	SearchChecks(ctx context.Context, q SearchQuery) ([]*CheckHit, error)

	// Counts returns the number of rows in each catalog table
	Counts(ctx context.Context) (*Counts, error)
}
