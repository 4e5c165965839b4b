package testutil

import (
	"database/sql"
	"io/fs"
	"sort"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"github.com/pratik-mahalle/cisaudit/internal/domain/catalog"
	"github.com/pratik-mahalle/cisaudit/internal/pkg/logger"
	"github.com/pratik-mahalle/cisaudit/migrations"
)

// NewTestDB creates an in-memory SQLite database with the production schema
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", "file::memory:?_pragma=foreign_keys(1)")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	// every connection to :memory: is a separate database
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(0)

	schema, err := migrations.ForDriver("sqlite")
	if err != nil {
		t.Fatalf("Failed to load migrations: %v", err)
	}
	files, err := fs.Glob(schema, "*.sql")
	if err != nil {
		t.Fatalf("Failed to list migrations: %v", err)
	}
	sort.Strings(files)

	for _, f := range files {
		content, err := fs.ReadFile(schema, f)
		if err != nil {
			t.Fatalf("Failed to read %s: %v", f, err)
		}
		if _, err := db.Exec(string(content)); err != nil {
			t.Fatalf("Failed to apply %s: %v", f, err)
		}
	}

	return db
}

// CleanupDB closes the test database
func CleanupDB(db *sql.DB) {
	if db != nil {
		db.Close()
	}
}

// NewLogger returns a logger that only prints errors
func NewLogger() *logger.Logger {
	return logger.New(logger.Config{Level: "error", Format: "json"})
}

// SamplePlatform is the platform SampleBenchmark belongs to
func SamplePlatform() *catalog.Platform {
	return &catalog.Platform{
		Slug:        "debian-12",
		Name:        "Debian 12",
		OSFamily:    "linux",
		Icon:        "debian",
		Description: "Debian GNU/Linux 12 (Bookworm)",
	}
}

// SampleBenchmark builds "Test v1":
//
//	1 Initial Setup
//	  1.1 Filesystem   -> 1.1 (L1, scored)
//	  1.2 Updates      -> 1.2 (L2, not scored)
//	2 Services         -> 2.1 (L1, scored)
func SampleBenchmark(platformID int64) *catalog.BenchmarkImport {
	release := time.Date(2023, 9, 26, 0, 0, 0, 0, time.UTC)
	return &catalog.BenchmarkImport{
		Benchmark: &catalog.Benchmark{
			PlatformID:  platformID,
			Name:        "Test",
			Version:     "v1",
			ReleaseDate: &release,
			Description: "Sample benchmark",
			URL:         "https://example.com/bench",
		},
		Sections: []*catalog.SectionImport{
			{
				Number: "1",
				Title:  "Initial Setup",
				Children: []*catalog.SectionImport{
					{
						Number: "1.1",
						Title:  "Filesystem",
						Checks: []*catalog.Check{{
							CheckNumber:    "1.1",
							Title:          "Ensure /tmp is a separate partition",
							Level:          catalog.Level1,
							Scored:         true,
							AuditCommand:   "findmnt /tmp",
							ExpectedOutput: "/tmp tmpfs",
							Remediation:    "Configure /etc/fstab",
						}},
					},
					{
						Number: "1.2",
						Title:  "Updates",
						Checks: []*catalog.Check{{
							CheckNumber: "1.2",
							Title:       "Ensure updates are installed",
							Level:       catalog.Level2,
							Scored:      false,
							AuditSteps:  "Review apt history",
						}},
					},
				},
			},
			{
				Number: "2",
				Title:  "Services",
				Checks: []*catalog.Check{{
					CheckNumber:  "2.1",
					Title:        "Ensure telnet is not installed",
					Description:  "Telnet sends credentials in clear text",
					Level:        catalog.Level1,
					Scored:       true,
					AuditCommand: "dpkg -s telnet",
				}},
			},
		},
	}
}
