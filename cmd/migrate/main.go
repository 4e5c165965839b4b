package main

import (
	"context"
	"fmt"
	"os"

	"github.com/pratik-mahalle/cisaudit/internal/config"
	"github.com/pratik-mahalle/cisaudit/internal/pkg/logger"
	"github.com/pratik-mahalle/cisaudit/internal/repository/postgres"
	"github.com/pratik-mahalle/cisaudit/internal/seed"
	"github.com/pratik-mahalle/cisaudit/migrations"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{
		Level:  cfg.Logging.Level,
		Format: "console",
	})

	// Connect to database
	db, err := postgres.New(cfg.Database)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	fmt.Println("Connected to database successfully")

	schema, err := migrations.ForDriver(cfg.Database.Driver)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load migrations: %v\n", err)
		os.Exit(1)
	}

	applied, err := postgres.RunMigrations(db, schema)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Migration failed: %v\n", err)
		os.Exit(1)
	}
	for _, name := range applied {
		fmt.Printf("✓ Migration %s completed successfully\n", name)
	}
	if len(applied) == 0 {
		fmt.Println("Schema is up to date")
	}

	seeder := seed.New(
		postgres.NewCatalogRepository(db),
		postgres.NewUserRepository(db),
		cfg.Auth.BCryptCost,
		cfg.Seed.AdminPassword,
		log,
	)

	fmt.Printf("Seeding from %s\n", cfg.Seed.DataDir)
	sum, err := seeder.Run(context.Background(), cfg.Seed.DataDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Seeding failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("\nDatabase seeded:")
	fmt.Printf("  Platforms:  %d\n", sum.Platforms)
	fmt.Printf("  Benchmarks: %d (%d loaded, %d skipped)\n", sum.Benchmarks, sum.BenchmarksLoaded, sum.BenchmarksSkipped)
	fmt.Printf("  Sections:   %d\n", sum.Sections)
	fmt.Printf("  Checks:     %d\n", sum.Checks)
	fmt.Printf("  Users:      %d\n", sum.Users)
}
