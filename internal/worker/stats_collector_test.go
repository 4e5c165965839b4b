package worker

import (
	"context"
	"testing"

	"github.com/pratik-mahalle/cisaudit/internal/domain/audit"
	"github.com/pratik-mahalle/cisaudit/internal/services"
	"github.com/pratik-mahalle/cisaudit/internal/testutil"
)

func newCollector(t *testing.T, schedule string) (*StatsCollector, error) {
	t.Helper()
	log := testutil.NewLogger()
	cat := testutil.NewMockCatalogRepository()
	p := testutil.SamplePlatform()
	if err := cat.CreatePlatform(context.Background(), p); err != nil {
		t.Fatal(err)
	}
	if err := cat.ImportBenchmark(context.Background(), testutil.SampleBenchmark(p.ID)); err != nil {
		t.Fatal(err)
	}

	repo := testutil.NewMockAuditRepository(cat)
	repo.Sessions[1] = &audit.Session{ID: 1, UserID: 1, Status: audit.SessionCompleted}

	return NewStatsCollector(
		services.NewAuditService(repo, cat, log),
		services.NewCatalogService(cat, log),
		schedule,
		log,
	)
}

func TestNewStatsCollector(t *testing.T) {
	tests := []struct {
		schedule string
		wantErr  bool
	}{
		{"*/5 * * * *", false},
		{"@every 1m", false},
		{"not a schedule", true},
		{"* * * * * *", true},
	}

	for _, tt := range tests {
		_, err := newCollector(t, tt.schedule)
		if (err != nil) != tt.wantErr {
			t.Errorf("NewStatsCollector(%q) error = %v, wantErr %v", tt.schedule, err, tt.wantErr)
		}
	}
}

func TestStatsCollector_StartStop(t *testing.T) {
	c, err := newCollector(t, "@every 1h")
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := c.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if len(c.cron.Entries()) != 1 {
		t.Errorf("cron entries = %d, want 1", len(c.cron.Entries()))
	}
	c.Stop()
}
