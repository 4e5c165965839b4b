package handlers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pratik-mahalle/cisaudit/internal/api/dto"
	"github.com/pratik-mahalle/cisaudit/internal/domain/audit"
	"github.com/pratik-mahalle/cisaudit/internal/pkg/utils"
)

func TestAuditHandler_Create(t *testing.T) {
	f := newFixture(t)
	handler := NewAuditHandler(f.audits, f.log, f.val)

	tests := []struct {
		name           string
		req            dto.CreateAuditRequest
		expectedStatus int
		expectedTarget string
	}{
		{
			name:           "default target name",
			req:            dto.CreateAuditRequest{BenchmarkID: f.benchmark.ID},
			expectedStatus: http.StatusCreated,
			expectedTarget: audit.DefaultTargetName,
		},
		{
			name:           "named target",
			req:            dto.CreateAuditRequest{BenchmarkID: f.benchmark.ID, TargetName: "  db-01 ", TargetIP: "10.0.0.5"},
			expectedStatus: http.StatusCreated,
			expectedTarget: "db-01",
		},
		{
			name:           "missing benchmark",
			req:            dto.CreateAuditRequest{TargetName: "x"},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "unknown benchmark",
			req:            dto.CreateAuditRequest{BenchmarkID: 9999},
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			handler.Create(rr, newRequest(t, http.MethodPost, "/api/v1/audits", tt.req, f.alice, nil))

			var resp dto.CreateAuditResponse
			decode(t, rr, tt.expectedStatus, &resp)
			if tt.expectedStatus != http.StatusCreated {
				return
			}
			if resp.ChecksCreated != 3 {
				t.Errorf("checks created = %d, want 3", resp.ChecksCreated)
			}
			if resp.Session.TargetName != tt.expectedTarget {
				t.Errorf("target = %q, want %q", resp.Session.TargetName, tt.expectedTarget)
			}
			if resp.Session.Status != audit.SessionInProgress || resp.Session.Progress != 0 {
				t.Errorf("session = %+v", resp.Session)
			}
		})
	}
}

func TestAuditHandler_Ownership(t *testing.T) {
	f := newFixture(t)
	handler := NewAuditHandler(f.audits, f.log, f.val)
	session := f.startAudit(t, f.alice)
	id := fmt.Sprint(session.ID)
	checkID := fmt.Sprint(f.checkID(t, "1.1"))

	calls := []struct {
		name string
		do   func(w http.ResponseWriter, r *http.Request)
		body interface{}
	}{
		{"get", handler.Get, nil},
		{"update result", handler.UpdateResult, dto.UpdateResultRequest{Status: audit.StatusPass}},
		{"complete", handler.Complete, nil},
		{"delete", handler.Delete, nil},
	}

	for _, c := range calls {
		t.Run(c.name, func(t *testing.T) {
			params := map[string]string{"id": id, "checkId": checkID}

			rr := httptest.NewRecorder()
			c.do(rr, newRequest(t, http.MethodPost, "/", c.body, f.bob, params))
			env := decode(t, rr, http.StatusForbidden, nil)
			if env.Error.Code != "FORBIDDEN" {
				t.Errorf("code = %q", env.Error.Code)
			}

			params["id"] = "9999"
			rr = httptest.NewRecorder()
			c.do(rr, newRequest(t, http.MethodPost, "/", c.body, f.bob, params))
			decode(t, rr, http.StatusNotFound, nil)
		})
	}
}

func TestAuditHandler_UpdateResult(t *testing.T) {
	f := newFixture(t)
	handler := NewAuditHandler(f.audits, f.log, f.val)
	session := f.startAudit(t, f.alice)

	tests := []struct {
		name           string
		check          string
		req            dto.UpdateResultRequest
		expectedStatus int
	}{
		{"pass", "1.1", dto.UpdateResultRequest{Status: audit.StatusPass, Finding: " ok "}, http.StatusOK},
		{"not applicable", "1.2", dto.UpdateResultRequest{Status: audit.StatusNotApplicable}, http.StatusOK},
		{"invalid status", "2.1", dto.UpdateResultRequest{Status: "passed"}, http.StatusBadRequest},
		{"missing status", "2.1", dto.UpdateResultRequest{Finding: "x"}, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			handler.UpdateResult(rr, newRequest(t, http.MethodPut, "/", tt.req, f.alice, map[string]string{
				"id":      fmt.Sprint(session.ID),
				"checkId": fmt.Sprint(f.checkID(t, tt.check)),
			}))

			var result audit.Result
			decode(t, rr, tt.expectedStatus, &result)
			if tt.expectedStatus != http.StatusOK {
				return
			}
			if result.Status != tt.req.Status || result.CheckedAt == nil {
				t.Errorf("result = %+v", result)
			}
		})
	}

	// a check outside the session
	rr := httptest.NewRecorder()
	handler.UpdateResult(rr, newRequest(t, http.MethodPut, "/", dto.UpdateResultRequest{Status: audit.StatusFail}, f.alice,
		map[string]string{"id": fmt.Sprint(session.ID), "checkId": "9999"}))
	decode(t, rr, http.StatusNotFound, nil)

	rr = httptest.NewRecorder()
	handler.Get(rr, newRequest(t, http.MethodGet, "/", nil, f.alice, map[string]string{"id": fmt.Sprint(session.ID)}))
	var detail dto.AuditDetailResponse
	decode(t, rr, http.StatusOK, &detail)

	want := audit.Counts{Total: 3, Checked: 2, Pass: 1, NotApplicable: 1, NotChecked: 1}
	if detail.Summary.Counts != want {
		t.Errorf("counts = %+v, want %+v", detail.Summary.Counts, want)
	}
	if detail.Session.Progress != 66 {
		t.Errorf("progress = %d, want 66", detail.Session.Progress)
	}
	if detail.Summary.ComplianceRate != 0.5 {
		t.Errorf("compliance = %v, want 0.5", detail.Summary.ComplianceRate)
	}
	if len(detail.Results) != 3 || detail.Results[0].Finding != "ok" {
		t.Errorf("results = %+v", detail.Results)
	}
}

func TestAuditHandler_CompleteAndDelete(t *testing.T) {
	f := newFixture(t)
	handler := NewAuditHandler(f.audits, f.log, f.val)
	session := f.startAudit(t, f.alice)
	params := map[string]string{"id": fmt.Sprint(session.ID)}

	var first, second dto.SessionDTO
	rr := httptest.NewRecorder()
	handler.Complete(rr, newRequest(t, http.MethodPost, "/", nil, f.alice, params))
	decode(t, rr, http.StatusOK, &first)
	if first.Status != audit.SessionCompleted || first.CompletedAt == nil {
		t.Fatalf("session = %+v", first)
	}

	rr = httptest.NewRecorder()
	handler.Complete(rr, newRequest(t, http.MethodPost, "/", nil, f.alice, params))
	decode(t, rr, http.StatusOK, &second)
	if !second.CompletedAt.Equal(*first.CompletedAt) {
		t.Errorf("completed_at moved from %v to %v", first.CompletedAt, second.CompletedAt)
	}

	rr = httptest.NewRecorder()
	handler.Delete(rr, newRequest(t, http.MethodDelete, "/", nil, f.alice, params))
	decode(t, rr, http.StatusOK, nil)

	rr = httptest.NewRecorder()
	handler.Get(rr, newRequest(t, http.MethodGet, "/", nil, f.alice, params))
	decode(t, rr, http.StatusNotFound, nil)
}

func TestAuditHandler_List(t *testing.T) {
	f := newFixture(t)
	handler := NewAuditHandler(f.audits, f.log, f.val)
	for i := 0; i < 3; i++ {
		f.startAudit(t, f.alice)
	}
	f.startAudit(t, f.bob)

	rr := httptest.NewRecorder()
	handler.List(rr, newRequest(t, http.MethodGet, "/api/v1/audits?page=1&page_size=2", nil, f.alice, nil))

	var page struct {
		utils.PaginatedResponse
		Data []*dto.SessionDTO `json:"data"`
	}
	decode(t, rr, http.StatusOK, &page)
	if page.TotalItems != 3 || page.TotalPages != 2 {
		t.Errorf("total items = %d, pages = %d", page.TotalItems, page.TotalPages)
	}
	if len(page.Data) != 2 {
		t.Errorf("page length = %d, want 2", len(page.Data))
	}
}
