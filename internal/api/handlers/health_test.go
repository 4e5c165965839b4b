package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/pratik-mahalle/cisaudit/internal/testutil"
)

func TestHealthHandler_Healthz(t *testing.T) {
	db := testutil.NewTestDB(t)
	defer testutil.CleanupDB(db)
	h := NewHealthHandler(db, testutil.NewLogger())

	rr := httptest.NewRecorder()
	h.Healthz(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	var body struct {
		Data map[string]string `json:"data"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.Data["status"] != "ok" || body.Data["version"] != Version {
		t.Errorf("data = %v", body.Data)
	}
}

func TestHealthHandler_Readyz(t *testing.T) {
	db := testutil.NewTestDB(t)
	defer testutil.CleanupDB(db)
	h := NewHealthHandler(db, testutil.NewLogger())

	ready := func() *httptest.ResponseRecorder {
		rr := httptest.NewRecorder()
		h.Readyz(rr, httptest.NewRequest(http.MethodGet, "/readyz", nil))
		return rr
	}

	// schema applied by hand, so nothing is recorded in schema_migrations
	rr := ready()
	if rr.Code != http.StatusServiceUnavailable || !strings.Contains(rr.Body.String(), "not migrated") {
		t.Fatalf("unmigrated: %d %s", rr.Code, rr.Body.String())
	}

	if _, err := db.Exec(`CREATE TABLE schema_migrations (version TEXT PRIMARY KEY)`); err != nil {
		t.Fatal(err)
	}
	if _, err := db.Exec(`INSERT INTO schema_migrations (version) VALUES ('001_catalog.sql')`); err != nil {
		t.Fatal(err)
	}

	rr = ready()
	if rr.Code != http.StatusServiceUnavailable || !strings.Contains(rr.Body.String(), "catalog not loaded") {
		t.Fatalf("empty catalog: %d %s", rr.Code, rr.Body.String())
	}

	db.Close()
	if rr := ready(); rr.Code != http.StatusServiceUnavailable {
		t.Errorf("closed db: %d", rr.Code)
	}
}
