package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pratik-mahalle/cisaudit/internal/api/dto"
)

func TestDashboardHandler_Get(t *testing.T) {
	f := newFixture(t)
	handler := NewDashboardHandler(f.catalog, f.audits, f.log)
	for i := 0; i < 7; i++ {
		f.startAudit(t, f.alice)
	}
	f.startAudit(t, f.bob)

	rr := httptest.NewRecorder()
	handler.Get(rr, newRequest(t, http.MethodGet, "/api/v1/dashboard", nil, f.alice, nil))

	var resp dto.DashboardResponse
	decode(t, rr, http.StatusOK, &resp)
	if len(resp.Platforms) != 1 || len(resp.Benchmarks) != 1 {
		t.Errorf("platforms = %d, benchmarks = %d", len(resp.Platforms), len(resp.Benchmarks))
	}
	if resp.TotalChecks != 3 {
		t.Errorf("total checks = %d, want 3", resp.TotalChecks)
	}
	if len(resp.RecentSessions) != recentSessions {
		t.Errorf("recent sessions = %d, want %d", len(resp.RecentSessions), recentSessions)
	}
}
