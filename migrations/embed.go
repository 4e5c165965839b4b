package migrations

import (
	"embed"
	"fmt"
	"io/fs"
)

// Files holds the schema for every supported driver, one directory each.
//
//go:embed sqlite/*.sql postgres/*.sql
var Files embed.FS

// ForDriver returns the migrations for driver ("sqlite" or "postgres").
func ForDriver(driver string) (fs.FS, error) {
	switch driver {
	case "sqlite", "postgres":
		return fs.Sub(Files, driver)
	default:
		return nil, fmt.Errorf("no migrations for driver %q", driver)
	}
}
