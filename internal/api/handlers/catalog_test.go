package handlers

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pratik-mahalle/cisaudit/internal/api/dto"
	"github.com/pratik-mahalle/cisaudit/internal/domain/catalog"
	"github.com/pratik-mahalle/cisaudit/internal/testutil"
)

func TestCatalogHandler_GetBenchmark(t *testing.T) {
	f := newFixture(t)
	handler := NewCatalogHandler(f.catalog, f.log)

	tests := []struct {
		name           string
		id             string
		expectedStatus int
	}{
		{"existing benchmark", fmt.Sprint(f.benchmark.ID), http.StatusOK},
		{"unknown benchmark", "9999", http.StatusNotFound},
		{"malformed id", "abc", http.StatusBadRequest},
		{"zero id", "0", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			handler.GetBenchmark(rr, newRequest(t, http.MethodGet, "/api/v1/benchmarks/"+tt.id, nil, f.alice,
				map[string]string{"id": tt.id}))

			var detail catalog.BenchmarkDetail
			decode(t, rr, tt.expectedStatus, &detail)
			if tt.expectedStatus != http.StatusOK {
				return
			}
			if len(detail.Sections) != 2 {
				t.Fatalf("top-level sections = %d, want 2", len(detail.Sections))
			}
			if detail.Sections[0].TotalChecks != 2 || detail.Sections[1].TotalChecks != 1 {
				t.Errorf("section totals = %d, %d", detail.Sections[0].TotalChecks, detail.Sections[1].TotalChecks)
			}
			if detail.Benchmark.TotalChecks != 3 {
				t.Errorf("benchmark total = %d, want 3", detail.Benchmark.TotalChecks)
			}
		})
	}
}

func TestCatalogHandler_GetSection(t *testing.T) {
	f := newFixture(t)
	handler := NewCatalogHandler(f.catalog, f.log)

	// a second benchmark whose sections must not resolve under the first
	other := testutil.SampleBenchmark(f.benchmark.PlatformID)
	other.Benchmark.Name = "Other"
	if err := f.catalogRepo.ImportBenchmark(context.Background(), other); err != nil {
		t.Fatal(err)
	}
	var foreign int64
	for _, s := range f.catalogRepo.Sections {
		if s.BenchmarkID == other.Benchmark.ID {
			foreign = s.ID
			break
		}
	}

	tests := []struct {
		name           string
		sectionID      int64
		expectedStatus int
		expectedChecks int
		expectedCrumbs int
	}{
		{"top-level section", f.sectionID(t, "1"), http.StatusOK, 2, 1},
		{"leaf section", f.sectionID(t, "1.2"), http.StatusOK, 1, 2},
		{"section of another benchmark", foreign, http.StatusNotFound, 0, 0},
		{"unknown section", 9999, http.StatusNotFound, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			handler.GetSection(rr, newRequest(t, http.MethodGet, "/", nil, f.alice, map[string]string{
				"id":        fmt.Sprint(f.benchmark.ID),
				"sectionId": fmt.Sprint(tt.sectionID),
			}))

			var detail catalog.SectionDetail
			decode(t, rr, tt.expectedStatus, &detail)
			if tt.expectedStatus != http.StatusOK {
				return
			}
			if len(detail.Checks) != tt.expectedChecks {
				t.Errorf("checks = %d, want %d", len(detail.Checks), tt.expectedChecks)
			}
			if len(detail.Breadcrumb) != tt.expectedCrumbs {
				t.Errorf("breadcrumb = %d, want %d", len(detail.Breadcrumb), tt.expectedCrumbs)
			}
		})
	}
}

func TestCatalogHandler_GetCheck(t *testing.T) {
	f := newFixture(t)
	handler := NewCatalogHandler(f.catalog, f.log)

	id := fmt.Sprint(f.checkID(t, "1.1"))
	rr := httptest.NewRecorder()
	handler.GetCheck(rr, newRequest(t, http.MethodGet, "/api/v1/checks/"+id, nil, f.alice, map[string]string{"id": id}))

	var detail catalog.CheckDetail
	decode(t, rr, http.StatusOK, &detail)
	if detail.Check.CheckNumber != "1.1" || detail.Section.Number != "1.1" {
		t.Errorf("check = %s in section %s", detail.Check.CheckNumber, detail.Section.Number)
	}
	if len(detail.Breadcrumb) != 2 || detail.Breadcrumb[0].Number != "1" {
		t.Errorf("breadcrumb = %+v", detail.Breadcrumb)
	}
}

func TestCatalogHandler_SearchChecks(t *testing.T) {
	f := newFixture(t)
	handler := NewCatalogHandler(f.catalog, f.log)

	tests := []struct {
		name          string
		query         string
		expectedCount int
	}{
		{"no criteria returns everything", "", 3},
		{"title text", "?q=TELNET", 1},
		{"number text", "?q=1.2", 1},
		{"audit command text", "?q=findmnt", 1},
		{"level 2", "?level=2", 1},
		{"unknown level is ignored", "?level=7", 3},
		{"not scored", "?scored=false", 1},
		{"scored and level 1", "?scored=true&level=1", 2},
		{"platform slug", "?platform=debian-12", 3},
		{"unknown platform", "?platform=windows-11", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			handler.SearchChecks(rr, newRequest(t, http.MethodGet, "/api/v1/checks/search"+tt.query, nil, f.alice, nil))

			var resp dto.CheckHitsResponse
			decode(t, rr, http.StatusOK, &resp)
			if resp.Count != tt.expectedCount || len(resp.Results) != tt.expectedCount {
				t.Errorf("count = %d (%d results), want %d", resp.Count, len(resp.Results), tt.expectedCount)
			}
			if resp.Limit != catalog.SearchLimit {
				t.Errorf("limit = %d", resp.Limit)
			}
		})
	}
}

func TestCatalogHandler_Platforms(t *testing.T) {
	f := newFixture(t)
	handler := NewCatalogHandler(f.catalog, f.log)

	rr := httptest.NewRecorder()
	handler.GetPlatform(rr, newRequest(t, http.MethodGet, "/", nil, f.alice, map[string]string{"slug": "debian-12"}))
	var detail catalog.PlatformDetail
	decode(t, rr, http.StatusOK, &detail)
	if len(detail.Benchmarks) != 1 || detail.Benchmarks[0].Name != "Test" {
		t.Errorf("benchmarks = %+v", detail.Benchmarks)
	}

	rr = httptest.NewRecorder()
	handler.GetPlatform(rr, newRequest(t, http.MethodGet, "/", nil, f.alice, map[string]string{"slug": "nope"}))
	decode(t, rr, http.StatusNotFound, nil)
}
