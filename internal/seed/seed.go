// Package seed loads the built-in platforms, initial users and benchmark
// YAML files into an empty or partially seeded database. Every step skips
// rows that already exist, so running it twice is harmless.
package seed

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/pratik-mahalle/cisaudit/internal/auth"
	"github.com/pratik-mahalle/cisaudit/internal/domain/catalog"
	"github.com/pratik-mahalle/cisaudit/internal/domain/user"
	"github.com/pratik-mahalle/cisaudit/internal/pkg/errors"
	"github.com/pratik-mahalle/cisaudit/internal/pkg/logger"
)

// UsersFile and BenchmarksDir are looked up inside the data directory
const (
	UsersFile     = "seed_users.yaml"
	BenchmarksDir = "benchmarks"
	AdminUsername = "admin"
)

// Platforms are the operating systems the catalog ships benchmarks for
var Platforms = []catalog.Platform{
	{Name: "Debian Linux 12", Slug: "debian-12", OSFamily: "Linux", Icon: "debian", Description: "Debian GNU/Linux 12 (Bookworm)"},
	{Name: "Ubuntu 24.04 LTS", Slug: "ubuntu-2404", OSFamily: "Linux", Icon: "ubuntu", Description: "Ubuntu 24.04 LTS (Noble Numbat)"},
	{Name: "Windows Server 2022", Slug: "windows-2022", OSFamily: "Windows", Icon: "windows", Description: "Microsoft Windows Server 2022"},
	{Name: "RHEL 9", Slug: "rhel-9", OSFamily: "Linux", Icon: "redhat", Description: "Red Hat Enterprise Linux 9"},
	{Name: "CentOS 7", Slug: "centos-7", OSFamily: "Linux", Icon: "centos", Description: "CentOS Linux 7"},
	{Name: "Amazon Linux 2023", Slug: "amazon-linux-2023", OSFamily: "Linux", Icon: "amazon", Description: "Amazon Linux 2023"},
	{Name: "macOS Sonoma", Slug: "macos-sonoma", OSFamily: "macOS", Icon: "apple", Description: "Apple macOS 14 (Sonoma)"},
	{Name: "Cisco IOS 17", Slug: "cisco-ios-17", OSFamily: "Network", Icon: "cisco", Description: "Cisco IOS XE 17"},
}

// Seeder writes seed data through the repositories
type Seeder struct {
	catalog       catalog.Repository
	users         user.Repository
	bcryptCost    int
	adminPassword string
	logger        *logger.Logger
}

// Summary is the number of rows present after a run
type Summary struct {
	catalog.Counts
	Users int64 `json:"users"`

	BenchmarksLoaded  int `json:"benchmarks_loaded"`
	BenchmarksSkipped int `json:"benchmarks_skipped"`
}

// New creates a seeder. adminPassword is used for the default admin account
// when the data directory has no users file.
func New(catalogRepo catalog.Repository, userRepo user.Repository, bcryptCost int, adminPassword string, log *logger.Logger) *Seeder {
	return &Seeder{
		catalog:       catalogRepo,
		users:         userRepo,
		bcryptCost:    bcryptCost,
		adminPassword: adminPassword,
		logger:        log,
	}
}

// Run seeds platforms, users and every benchmark file under dir
func (s *Seeder) Run(ctx context.Context, dir string) (*Summary, error) {
	sum := &Summary{}

	if err := s.Platforms(ctx); err != nil {
		return nil, err
	}
	if err := s.Users(ctx, dir); err != nil {
		return nil, err
	}

	loaded, skipped, err := s.Benchmarks(ctx, filepath.Join(dir, BenchmarksDir))
	if err != nil {
		return nil, err
	}
	sum.BenchmarksLoaded, sum.BenchmarksSkipped = loaded, skipped

	counts, err := s.catalog.Counts(ctx)
	if err != nil {
		return nil, err
	}
	sum.Counts = *counts

	if sum.Users, err = s.users.Count(ctx); err != nil {
		return nil, err
	}
	return sum, nil
}

// Platforms inserts the built-in platforms that are missing
func (s *Seeder) Platforms(ctx context.Context) error {
	for _, p := range Platforms {
		if _, err := s.catalog.GetPlatformBySlug(ctx, p.Slug); err == nil {
			continue
		} else if !errors.Is(err, errors.ErrCodeNotFound) {
			return err
		}

		p := p
		if err := s.catalog.CreatePlatform(ctx, &p); err != nil {
			return err
		}
		s.logger.WithFields(map[string]interface{}{"slug": p.Slug}).Info("Created platform")
	}
	return nil
}

type usersFile struct {
	Users []struct {
		Username    string `yaml:"username"`
		Password    string `yaml:"password"`
		DisplayName string `yaml:"display_name"`
	} `yaml:"users"`
}

// Users creates the accounts listed in seed_users.yaml. Without that file a
// default admin account is created unless one exists.
func (s *Seeder) Users(ctx context.Context, dir string) error {
	raw, err := os.ReadFile(filepath.Join(dir, UsersFile))
	if os.IsNotExist(err) {
		return s.createUser(ctx, AdminUsername, s.adminPassword, "Administrator")
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", UsersFile, err)
	}

	var f usersFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return fmt.Errorf("parse %s: %w", UsersFile, err)
	}

	for _, u := range f.Users {
		if u.Username == "" || u.Password == "" {
			return fmt.Errorf("%s: every user needs a username and password", UsersFile)
		}
		display := u.DisplayName
		if display == "" {
			display = u.Username
		}
		if err := s.createUser(ctx, u.Username, u.Password, display); err != nil {
			return err
		}
	}
	return nil
}

func (s *Seeder) createUser(ctx context.Context, username, password, displayName string) error {
	if _, err := s.users.GetByUsername(ctx, username); err == nil {
		return nil
	} else if !errors.Is(err, errors.ErrCodeNotFound) {
		return err
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return fmt.Errorf("hash password for %s: %w", username, err)
	}

	if err := s.users.Create(ctx, &user.User{
		Username:     username,
		PasswordHash: hash,
		DisplayName:  displayName,
	}); err != nil {
		return err
	}

	s.logger.WithFields(map[string]interface{}{"username": username}).Info("Created user")
	return nil
}

// Benchmarks loads every .yaml or .yml file in dir in name order. A missing
// directory loads nothing.
func (s *Seeder) Benchmarks(ctx context.Context, dir string) (loaded, skipped int, err error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		s.logger.WithFields(map[string]interface{}{"dir": dir}).Warn("No benchmarks directory found")
		return 0, 0, nil
	}
	if err != nil {
		return 0, 0, err
	}

	var files []string
	for _, e := range entries {
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if !e.IsDir() && (ext == ".yaml" || ext == ".yml") {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)

	for _, name := range files {
		ok, err := s.BenchmarkFile(ctx, filepath.Join(dir, name))
		if err != nil {
			return loaded, skipped, fmt.Errorf("%s: %w", name, err)
		}
		if ok {
			loaded++
		} else {
			skipped++
		}
	}
	return loaded, skipped, nil
}

// BenchmarkFile loads one benchmark. It reports false without error when the
// platform is unknown or the benchmark name and version already exist.
func (s *Seeder) BenchmarkFile(ctx context.Context, path string) (bool, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return false, err
	}

	var f benchmarkFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return false, fmt.Errorf("parse yaml: %w", err)
	}
	if err := f.validate(); err != nil {
		return false, err
	}

	log := s.logger.WithFields(map[string]interface{}{
		"file":      filepath.Base(path),
		"benchmark": f.Benchmark.Name,
		"version":   f.Benchmark.Version,
	})

	platform, err := s.catalog.GetPlatformBySlug(ctx, f.Benchmark.Platform)
	if errors.Is(err, errors.ErrCodeNotFound) {
		log.WithFields(map[string]interface{}{"platform": f.Benchmark.Platform}).Warn("Platform not found, skipping benchmark")
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if _, err := s.catalog.FindBenchmark(ctx, f.Benchmark.Name, f.Benchmark.Version); err == nil {
		log.Info("Benchmark already exists")
		return false, nil
	} else if !errors.Is(err, errors.ErrCodeNotFound) {
		return false, err
	}

	in, err := f.toImport(platform.ID)
	if err != nil {
		return false, err
	}
	if err := s.catalog.ImportBenchmark(ctx, in); err != nil {
		return false, err
	}

	log.WithFields(map[string]interface{}{"checks": in.CheckCount()}).Info("Loaded benchmark")
	return true, nil
}

type benchmarkFile struct {
	Benchmark struct {
		Name        string `yaml:"name"`
		Version     string `yaml:"version"`
		Platform    string `yaml:"platform"`
		ReleaseDate string `yaml:"release_date"`
		Description string `yaml:"description"`
		URL         string `yaml:"url"`
	} `yaml:"benchmark"`
	Sections []sectionEntry `yaml:"sections"`
}

type sectionEntry struct {
	Number      string         `yaml:"number"`
	Title       string         `yaml:"title"`
	Description string         `yaml:"description"`
	Checks      []checkEntry   `yaml:"checks"`
	Children    []sectionEntry `yaml:"children"`
}

// checkEntry leaves level and scored as pointers so that absent keys take
// the defaults (level 1, scored)
type checkEntry struct {
	Number         string `yaml:"number"`
	Title          string `yaml:"title"`
	Description    string `yaml:"description"`
	Rationale      string `yaml:"rationale"`
	Level          *int   `yaml:"level"`
	Scored         *bool  `yaml:"scored"`
	AuditCommand   string `yaml:"audit_command"`
	AuditSteps     string `yaml:"audit_steps"`
	ExpectedOutput string `yaml:"expected_output"`
	Remediation    string `yaml:"remediation"`
	References     string `yaml:"references"`
}

func (f *benchmarkFile) validate() error {
	b := f.Benchmark
	if b.Name == "" || b.Version == "" || b.Platform == "" {
		return fmt.Errorf("benchmark name, version and platform are required")
	}
	return nil
}

func (f *benchmarkFile) toImport(platformID int64) (*catalog.BenchmarkImport, error) {
	b := &catalog.Benchmark{
		PlatformID:  platformID,
		Name:        f.Benchmark.Name,
		Version:     f.Benchmark.Version,
		Description: f.Benchmark.Description,
		URL:         f.Benchmark.URL,
	}
	if f.Benchmark.ReleaseDate != "" {
		d, err := time.Parse(catalog.DateLayout, f.Benchmark.ReleaseDate)
		if err != nil {
			return nil, fmt.Errorf("release_date %q: %w", f.Benchmark.ReleaseDate, err)
		}
		b.ReleaseDate = &d
	}

	in := &catalog.BenchmarkImport{Benchmark: b}
	for _, sec := range f.Sections {
		imp, err := sec.toImport()
		if err != nil {
			return nil, err
		}
		in.Sections = append(in.Sections, imp)
	}
	return in, nil
}

func (e sectionEntry) toImport() (*catalog.SectionImport, error) {
	if e.Number == "" || e.Title == "" {
		return nil, fmt.Errorf("section needs a number and title")
	}
	out := &catalog.SectionImport{
		Number:      e.Number,
		Title:       e.Title,
		Description: e.Description,
	}

	for _, c := range e.Checks {
		check, err := c.toCheck()
		if err != nil {
			return nil, fmt.Errorf("section %s: %w", e.Number, err)
		}
		out.Checks = append(out.Checks, check)
	}
	for _, child := range e.Children {
		imp, err := child.toImport()
		if err != nil {
			return nil, err
		}
		out.Children = append(out.Children, imp)
	}
	return out, nil
}

func (c checkEntry) toCheck() (*catalog.Check, error) {
	if c.Number == "" || c.Title == "" {
		return nil, fmt.Errorf("check needs a number and title")
	}
	level := catalog.Level1
	if c.Level != nil {
		level = *c.Level
	}
	if level != catalog.Level1 && level != catalog.Level2 {
		return nil, fmt.Errorf("check %s: level must be 1 or 2, got %d", c.Number, level)
	}
	scored := true
	if c.Scored != nil {
		scored = *c.Scored
	}

	return &catalog.Check{
		CheckNumber:    c.Number,
		Title:          c.Title,
		Description:    c.Description,
		Rationale:      c.Rationale,
		Level:          level,
		Scored:         scored,
		AuditCommand:   c.AuditCommand,
		AuditSteps:     c.AuditSteps,
		ExpectedOutput: c.ExpectedOutput,
		Remediation:    c.Remediation,
		References:     c.References,
	}, nil
}
