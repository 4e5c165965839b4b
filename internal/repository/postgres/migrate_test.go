package postgres

import (
	"database/sql"
	"testing"
	"testing/fstest"

	_ "modernc.org/sqlite"

	"github.com/pratik-mahalle/cisaudit/migrations"
)

func openEmptyDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", "file::memory:?_pragma=foreign_keys(1)")
	if err != nil {
		t.Fatal(err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestRunMigrations_Idempotent(t *testing.T) {
	db := openEmptyDB(t)
	schema, err := migrations.ForDriver("sqlite")
	if err != nil {
		t.Fatal(err)
	}

	applied, err := RunMigrations(db, schema)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	if len(applied) != 2 || applied[0] != "001_catalog.sql" || applied[1] != "002_audits.sql" {
		t.Errorf("applied = %v", applied)
	}

	again, err := RunMigrations(db, schema)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if len(again) != 0 {
		t.Errorf("second run applied %v, want nothing", again)
	}

	var n int
	if err := db.QueryRow("SELECT COUNT(*) FROM audit_results").Scan(&n); err != nil {
		t.Errorf("audit_results missing: %v", err)
	}
}

func TestRunMigrations_FailureRollsBack(t *testing.T) {
	db := openEmptyDB(t)
	fsys := fstest.MapFS{
		"001_ok.sql":     {Data: []byte("CREATE TABLE a (id INTEGER PRIMARY KEY);")},
		"002_broken.sql": {Data: []byte("CREATE TABLE b (id INTEGER PRIMARY KEY); NOT SQL;")},
		"README.md":      {Data: []byte("ignored")},
	}

	applied, err := RunMigrations(db, fsys)
	if err == nil {
		t.Fatal("expected error from broken migration")
	}
	if len(applied) != 1 || applied[0] != "001_ok.sql" {
		t.Errorf("applied = %v", applied)
	}

	var n int
	if err := db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&n); err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("recorded migrations = %d, want 1", n)
	}
}
