package services

import (
	"context"
	"testing"

	"github.com/pratik-mahalle/cisaudit/internal/domain/catalog"
	"github.com/pratik-mahalle/cisaudit/internal/testutil"
)

// seededCatalog returns a mock catalog holding the sample benchmark
func seededCatalog(t *testing.T) (*testutil.MockCatalogRepository, *catalog.Benchmark) {
	t.Helper()
	ctx := context.Background()
	repo := testutil.NewMockCatalogRepository()

	p := testutil.SamplePlatform()
	if err := repo.CreatePlatform(ctx, p); err != nil {
		t.Fatal(err)
	}
	in := testutil.SampleBenchmark(p.ID)
	if err := repo.ImportBenchmark(ctx, in); err != nil {
		t.Fatal(err)
	}
	return repo, in.Benchmark
}

// checkID looks a check up by number
func checkID(t *testing.T, repo *testutil.MockCatalogRepository, number string) int64 {
	t.Helper()
	for _, c := range repo.Checks {
		if c.CheckNumber == number {
			return c.ID
		}
	}
	t.Fatalf("no check %s", number)
	return 0
}

// sectionID looks a section up by number
func sectionID(t *testing.T, repo *testutil.MockCatalogRepository, number string) int64 {
	t.Helper()
	for _, s := range repo.Sections {
		if s.Number == number {
			return s.ID
		}
	}
	t.Fatalf("no section %s", number)
	return 0
}
