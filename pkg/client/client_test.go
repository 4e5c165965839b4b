package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func writeEnvelope(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": status < 400,
		"data":    data,
	})
}

func TestClient_LoginSetsToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/auth/login":
			var req LoginRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				t.Fatalf("decode login: %v", err)
			}
			if req.Username != "alice" {
				t.Errorf("username = %q", req.Username)
			}
			writeEnvelope(w, http.StatusOK, map[string]interface{}{
				"accessToken":  "access-1",
				"refreshToken": "refresh-1",
				"user":         map[string]interface{}{"id": 7, "username": "alice"},
			})
		case "/api/v1/auth/me":
			if got := r.Header.Get("Authorization"); got != "Bearer access-1" {
				t.Errorf("Authorization = %q", got)
			}
			writeEnvelope(w, http.StatusOK, map[string]interface{}{"id": 7, "username": "alice"})
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL})
	resp, err := c.Login(context.Background(), "alice", "secret")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if resp.User == nil || resp.User.ID != 7 {
		t.Fatalf("user = %+v", resp.User)
	}
	if c.GetToken() != "access-1" {
		t.Errorf("token = %q", c.GetToken())
	}

	me, err := c.GetCurrentUser(context.Background())
	if err != nil {
		t.Fatalf("GetCurrentUser() error = %v", err)
	}
	if me.Username != "alice" {
		t.Errorf("username = %q", me.Username)
	}
}

func TestClient_ErrorEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"success":false,"error":{"code":"FORBIDDEN","message":"Access denied"}}`))
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL, Token: "t"})
	_, err := c.Audits().Get(context.Background(), 3)
	apiErr, ok := err.(*APIError)
	if !ok {
		t.Fatalf("error type = %T, want *APIError", err)
	}
	if !apiErr.IsForbidden() || apiErr.Code != "FORBIDDEN" || apiErr.Message != "Access denied" {
		t.Errorf("unexpected error: %+v", apiErr)
	}
}

func TestClient_NonJSONError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	}))
	defer srv.Close()

	err := NewClient(Config{BaseURL: srv.URL}).Ping(context.Background())
	apiErr, ok := err.(*APIError)
	if !ok {
		t.Fatalf("error type = %T, want *APIError", err)
	}
	if !apiErr.IsServerError() || apiErr.Message != "upstream down" {
		t.Errorf("unexpected error: %+v", apiErr)
	}
}

func TestAuditService_ListQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") != "2" || r.URL.Query().Get("page_size") != "5" {
			t.Errorf("query = %s", r.URL.RawQuery)
		}
		writeEnvelope(w, http.StatusOK, map[string]interface{}{
			"data":        []map[string]interface{}{{"id": 11, "target_name": "web-01", "progress": 50}},
			"page":        2,
			"page_size":   5,
			"total_items": 6,
			"total_pages": 2,
		})
	}))
	defer srv.Close()

	list, err := NewClient(Config{BaseURL: srv.URL}).Audits().List(context.Background(), &ListOptions{Page: 2, PageSize: 5})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(list.Data) != 1 || list.Data[0].ID != 11 || list.Data[0].Progress != 50 {
		t.Errorf("data = %+v", list.Data)
	}
	if list.TotalItems != 6 || list.TotalPages != 2 {
		t.Errorf("totals = %d/%d", list.TotalItems, list.TotalPages)
	}
}

func TestAuditService_DeleteIgnoresNullData(t *testing.T) {
	var method string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method = r.Method
		writeEnvelope(w, http.StatusOK, nil)
	}))
	defer srv.Close()

	if err := NewClient(Config{BaseURL: srv.URL}).Audits().Delete(context.Background(), 4); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if method != http.MethodDelete {
		t.Errorf("method = %s", method)
	}
}

func TestExportService_Checklist(t *testing.T) {
	body := []byte("PK\x03\x04fake")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/export/benchmarks/9" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if r.URL.Query().Get("level") != "2" || r.URL.Query().Get("scored_only") != "true" {
			t.Errorf("query = %s", r.URL.RawQuery)
		}
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", `attachment; filename="CIS_Checklist_debian-12_1.0.0.xlsx"`)
		w.Write(body)
	}))
	defer srv.Close()

	file, err := NewClient(Config{BaseURL: srv.URL}).Exports().Checklist(context.Background(), 9, &ChecklistOptions{Level: 2, ScoredOnly: true})
	if err != nil {
		t.Fatalf("Checklist() error = %v", err)
	}
	if file.Filename != "CIS_Checklist_debian-12_1.0.0.xlsx" {
		t.Errorf("filename = %q", file.Filename)
	}
	if string(file.Data) != string(body) {
		t.Errorf("data = %q", file.Data)
	}
}

func TestClient_ReadyNotReady(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/readyz" {
			t.Errorf("path = %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"success":false,"error":{"code":"SERVICE_UNAVAILABLE","message":"Benchmark catalog not loaded"}}`))
	}))
	defer srv.Close()

	_, err := NewClient(Config{BaseURL: srv.URL}).Ready(context.Background())
	apiErr, ok := err.(*APIError)
	if !ok {
		t.Fatalf("error type = %T, want *APIError", err)
	}
	if !apiErr.IsServerError() || apiErr.Code != "SERVICE_UNAVAILABLE" {
		t.Errorf("unexpected error: %+v", apiErr)
	}
}
