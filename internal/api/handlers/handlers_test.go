package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/pratik-mahalle/cisaudit/internal/api/middleware"
	"github.com/pratik-mahalle/cisaudit/internal/config"
	"github.com/pratik-mahalle/cisaudit/internal/domain/audit"
	"github.com/pratik-mahalle/cisaudit/internal/domain/catalog"
	"github.com/pratik-mahalle/cisaudit/internal/domain/user"
	"github.com/pratik-mahalle/cisaudit/internal/pkg/logger"
	"github.com/pratik-mahalle/cisaudit/internal/pkg/validator"
	"github.com/pratik-mahalle/cisaudit/internal/services"
	"github.com/pratik-mahalle/cisaudit/internal/testutil"
)

type fixture struct {
	catalogRepo *testutil.MockCatalogRepository
	benchmark   *catalog.Benchmark

	users    user.Service
	catalog  catalog.Service
	audits   audit.Service
	exporter *services.ExportService

	cfg *config.Config
	log *logger.Logger
	val *validator.Validator

	alice, bob int64
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	log := testutil.NewLogger()

	catalogRepo := testutil.NewMockCatalogRepository()
	p := testutil.SamplePlatform()
	if err := catalogRepo.CreatePlatform(ctx, p); err != nil {
		t.Fatal(err)
	}
	in := testutil.SampleBenchmark(p.ID)
	if err := catalogRepo.ImportBenchmark(ctx, in); err != nil {
		t.Fatal(err)
	}

	userService := services.NewUserService(testutil.NewMockUserRepository(), bcrypt.MinCost, log)
	catalogService := services.NewCatalogService(catalogRepo, log)
	auditService := services.NewAuditService(testutil.NewMockAuditRepository(catalogRepo), catalogRepo, log)

	f := &fixture{
		catalogRepo: catalogRepo,
		benchmark:   in.Benchmark,
		users:       userService,
		catalog:     catalogService,
		audits:      auditService,
		exporter:    services.NewExportService(catalogService, auditService, userService, nil, "", log),
		cfg: &config.Config{
			Auth: config.AuthConfig{
				JWTSecret:          "test-secret",
				AccessTokenExpiry:  15 * time.Minute,
				RefreshTokenExpiry: time.Hour,
				BCryptCost:         bcrypt.MinCost,
			},
		},
		log: log,
		val: validator.New(),
	}
	f.alice = f.register(t, "alice")
	f.bob = f.register(t, "bob")
	return f
}

func (f *fixture) register(t *testing.T, username string) int64 {
	t.Helper()
	u, err := f.users.Register(context.Background(), user.Registration{
		Username:        username,
		Password:        "password123",
		ConfirmPassword: "password123",
	})
	if err != nil {
		t.Fatalf("register %s: %v", username, err)
	}
	return u.ID
}

// startAudit creates a session on the sample benchmark for userID
func (f *fixture) startAudit(t *testing.T, userID int64) *audit.Session {
	t.Helper()
	s, err := f.audits.Create(context.Background(), userID, audit.NewSession{
		BenchmarkID: f.benchmark.ID,
		TargetName:  "web 01",
	})
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func (f *fixture) checkID(t *testing.T, number string) int64 {
	t.Helper()
	for _, c := range f.catalogRepo.Checks {
		if c.CheckNumber == number {
			return c.ID
		}
	}
	t.Fatalf("no check %s", number)
	return 0
}

func (f *fixture) sectionID(t *testing.T, number string) int64 {
	t.Helper()
	for _, s := range f.catalogRepo.Sections {
		if s.Number == number && s.BenchmarkID == f.benchmark.ID {
			return s.ID
		}
	}
	t.Fatalf("no section %s", number)
	return 0
}

// newRequest builds a request with an optional JSON body, authenticated
// user and chi URL parameters
func newRequest(t *testing.T, method, target string, body interface{}, userID int64, params map[string]string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, target, &buf)
	if userID > 0 {
		req = req.WithContext(middleware.WithUser(req.Context(), userID, "tester"))
	}
	if len(params) > 0 {
		rctx := chi.NewRouteContext()
		for k, v := range params {
			rctx.URLParams.Add(k, v)
		}
		req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
	}
	return req
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// decode checks the status and unmarshals the envelope's data into v
func decode(t *testing.T, rr *httptest.ResponseRecorder, wantStatus int, v interface{}) envelope {
	t.Helper()
	if rr.Code != wantStatus {
		t.Fatalf("status = %d, want %d; body: %s", rr.Code, wantStatus, rr.Body.String())
	}
	var env envelope
	if err := json.Unmarshal(rr.Body.Bytes(), &env); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if v != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, v); err != nil {
			t.Fatalf("failed to decode data: %v", err)
		}
	}
	return env
}
