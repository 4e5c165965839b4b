package services

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
	"golang.org/x/crypto/bcrypt"

	"github.com/pratik-mahalle/cisaudit/internal/domain/audit"
	"github.com/pratik-mahalle/cisaudit/internal/domain/catalog"
	"github.com/pratik-mahalle/cisaudit/internal/domain/user"
	"github.com/pratik-mahalle/cisaudit/internal/pkg/errors"
	"github.com/pratik-mahalle/cisaudit/internal/pkg/utils"
	"github.com/pratik-mahalle/cisaudit/internal/testutil"
)

// recordingStore keeps every key it was asked to store
type recordingStore struct {
	keys []string
	err  error
}

func (s *recordingStore) Put(_ context.Context, key string, _ []byte, _ string) error {
	s.keys = append(s.keys, key)
	return s.err
}

func (s *recordingStore) Name() string { return "recording" }

type exportFixture struct {
	exporter *ExportService
	audits   audit.Service
	store    *recordingStore
	catalog  *testutil.MockCatalogRepository
	benchID  int64
	userID   int64
}

func newExportFixture(t *testing.T) *exportFixture {
	t.Helper()
	log := testutil.NewLogger()
	cat, b := seededCatalog(t)

	users := NewUserService(testutil.NewMockUserRepository(), bcrypt.MinCost, log)
	u, err := users.Register(context.Background(), user.Registration{
		Username: "auditor", Password: "s3cretpass", ConfirmPassword: "s3cretpass", DisplayName: "Audit Person",
	})
	if err != nil {
		t.Fatal(err)
	}

	catalogService := NewCatalogService(cat, log)
	audits := NewAuditService(testutil.NewMockAuditRepository(cat), cat, log)
	store := &recordingStore{}

	return &exportFixture{
		exporter: NewExportService(catalogService, audits, users, store, "reports", log),
		audits:   audits,
		store:    store,
		catalog:  cat,
		benchID:  b.ID,
		userID:   u.ID,
	}
}

func TestExportService_Checklist(t *testing.T) {
	f := newExportFixture(t)

	file, err := f.exporter.Checklist(context.Background(), f.benchID, catalog.CheckFilter{Level: 1})
	if err != nil {
		t.Fatalf("Checklist() error = %v", err)
	}
	if file.Name != "CIS_Checklist_debian-12_v1.xlsx" || file.ContentType != utils.XLSXContentType {
		t.Errorf("file = %s (%s)", file.Name, file.ContentType)
	}

	wb, err := excelize.OpenReader(bytes.NewReader(file.Data))
	if err != nil {
		t.Fatal(err)
	}
	defer wb.Close()

	rows, err := wb.GetRows("Checklist")
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 3 || rows[1][0] != "1.1" || rows[2][0] != "2.1" {
		t.Errorf("level 1 checklist rows = %v", rows)
	}
	if total, _ := wb.GetCellValue("Cover", "B12"); total != "3" {
		t.Errorf("Total Checks = %q, want the unfiltered 3", total)
	}

	if len(f.store.keys) != 1 ||
		!strings.HasPrefix(f.store.keys[0], fmt.Sprintf("reports/checklist/benchmark-%d/", f.benchID)) ||
		!strings.HasSuffix(f.store.keys[0], "_CIS_Checklist_debian-12_v1.xlsx") {
		t.Errorf("archived keys = %v", f.store.keys)
	}

	// a repeated export keeps the earlier copy
	if _, err := f.exporter.Checklist(context.Background(), f.benchID, catalog.CheckFilter{Level: 1}); err != nil {
		t.Fatal(err)
	}
	if len(f.store.keys) != 2 || f.store.keys[0] == f.store.keys[1] {
		t.Errorf("repeated export keys = %v", f.store.keys)
	}

	if _, err := f.exporter.Checklist(context.Background(), 999, catalog.CheckFilter{}); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("Checklist(999) error = %v", err)
	}
}

func TestExportService_Audit(t *testing.T) {
	f := newExportFixture(t)
	ctx := context.Background()

	s, err := f.audits.Create(ctx, f.userID, audit.NewSession{BenchmarkID: f.benchID, TargetName: "web server"})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.audits.UpdateResult(ctx, f.userID, s.ID, checkID(t, f.catalog, "1.1"), audit.StatusPass, "ok"); err != nil {
		t.Fatal(err)
	}

	// archive failures do not fail the download
	f.store.err = fmt.Errorf("bucket unavailable")

	file, err := f.exporter.Audit(ctx, f.userID, s.ID)
	if err != nil {
		t.Fatalf("Audit() error = %v", err)
	}
	wantName := "Audit_Report_web_server_" + s.StartedAt.UTC().Format("20060102") + ".xlsx"
	if file.Name != wantName {
		t.Errorf("file name = %s, want %s", file.Name, wantName)
	}

	wb, err := excelize.OpenReader(bytes.NewReader(file.Data))
	if err != nil {
		t.Fatal(err)
	}
	defer wb.Close()

	if got := strings.Join(wb.GetSheetList(), ","); got != "Cover,Checklist,Summary,_chart_data" {
		t.Errorf("sheets = %s", got)
	}
	if auditor, _ := wb.GetCellValue("Cover", "B10"); auditor != "Audit Person" {
		t.Errorf("Auditor = %q", auditor)
	}
	if status, _ := wb.GetCellValue("Checklist", "G2"); status != "Pass" {
		t.Errorf("first result status = %q", status)
	}
	wantDir := fmt.Sprintf("reports/audit/user-%d/session-%d/", f.userID, s.ID)
	if len(f.store.keys) != 1 || !strings.HasPrefix(f.store.keys[0], wantDir) || !strings.HasSuffix(f.store.keys[0], "_"+wantName) {
		t.Errorf("archived keys = %v, want under %s", f.store.keys, wantDir)
	}

	if _, err := f.exporter.Audit(ctx, f.userID+1, s.ID); !errors.Is(err, errors.ErrCodeForbidden) {
		t.Errorf("Audit() by another user error = %v, want FORBIDDEN", err)
	}
}
