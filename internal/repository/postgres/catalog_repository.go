package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/pratik-mahalle/cisaudit/internal/domain/catalog"
	"github.com/pratik-mahalle/cisaudit/internal/pkg/errors"
)

// CatalogRepository implements catalog.Repository
type CatalogRepository struct {
	db *sql.DB
}

// NewCatalogRepository creates a new catalog repository
func NewCatalogRepository(db *sql.DB) catalog.Repository {
	return &CatalogRepository{db: db}
}

const platformColumns = `p.id, p.slug, p.name, p.os_family, p.icon, p.description`

const benchmarkSelect = `
	SELECT b.id, b.platform_id, b.name, b.version, b.release_date, b.description, b.url, b.created_at,
		` + platformColumns + `,
		(SELECT COUNT(*) FROM checks c JOIN benchmark_sections s ON s.id = c.section_id
			WHERE s.benchmark_id = b.id)
	FROM benchmarks b
	JOIN platforms p ON p.id = b.platform_id
`

const sectionColumns = `s.id, s.benchmark_id, s.parent_id, s.number, s.title, s.description, s.sort_order`

const checkColumns = `c.id, c.section_id, c.check_number, c.title, c.description, c.rationale,
	c.level, c.scored, c.audit_command, c.audit_steps, c.expected_output, c.remediation,
	c.references_text, c.sort_order`

// ListPlatforms returns all platforms ordered by OS family, then name
func (r *CatalogRepository) ListPlatforms(ctx context.Context) ([]*catalog.Platform, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+platformColumns+` FROM platforms p ORDER BY p.os_family, p.name`)
	if err != nil {
		return nil, errors.DatabaseError("Failed to list platforms", err)
	}
	defer rows.Close()

	var platforms []*catalog.Platform
	for rows.Next() {
		p, err := scanPlatform(rows)
		if err != nil {
			return nil, errors.DatabaseError("Failed to scan platform", err)
		}
		platforms = append(platforms, p)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.DatabaseError("Failed to iterate platforms", err)
	}
	return platforms, nil
}

// GetPlatformBySlug retrieves a platform by its slug
func (r *CatalogRepository) GetPlatformBySlug(ctx context.Context, slug string) (*catalog.Platform, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+platformColumns+` FROM platforms p WHERE p.slug = $1`, slug)
	p, err := scanPlatform(row)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("Platform")
	}
	if err != nil {
		return nil, errors.DatabaseError("Failed to get platform", err)
	}
	return p, nil
}

// CreatePlatform inserts a platform
func (r *CatalogRepository) CreatePlatform(ctx context.Context, p *catalog.Platform) error {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO platforms (slug, name, os_family, icon, description)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, p.Slug, p.Name, p.OSFamily, p.Icon, p.Description).Scan(&p.ID)
	if errors.IsUniqueViolation(err) {
		return errors.Conflict(fmt.Sprintf("Platform %s already exists", p.Slug))
	}
	if err != nil {
		return errors.DatabaseError("Failed to create platform", err)
	}
	return nil
}

// ListBenchmarks returns benchmarks ordered by name with platform and totals
func (r *CatalogRepository) ListBenchmarks(ctx context.Context, platformID int64) ([]*catalog.Benchmark, error) {
	query := benchmarkSelect
	var args []interface{}
	if platformID != 0 {
		query += ` WHERE b.platform_id = $1`
		args = append(args, platformID)
	}
	query += ` ORDER BY b.name, b.version`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.DatabaseError("Failed to list benchmarks", err)
	}
	defer rows.Close()

	var benchmarks []*catalog.Benchmark
	for rows.Next() {
		b, err := scanBenchmark(rows)
		if err != nil {
			return nil, errors.DatabaseError("Failed to scan benchmark", err)
		}
		benchmarks = append(benchmarks, b)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.DatabaseError("Failed to iterate benchmarks", err)
	}
	return benchmarks, nil
}

// GetBenchmark retrieves a benchmark with platform and check total
func (r *CatalogRepository) GetBenchmark(ctx context.Context, id int64) (*catalog.Benchmark, error) {
	b, err := scanBenchmark(r.db.QueryRowContext(ctx, benchmarkSelect+` WHERE b.id = $1`, id))
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("Benchmark")
	}
	if err != nil {
		return nil, errors.DatabaseError("Failed to get benchmark", err)
	}
	return b, nil
}

// FindBenchmark looks a benchmark up by name and version
func (r *CatalogRepository) FindBenchmark(ctx context.Context, name, version string) (*catalog.Benchmark, error) {
	b, err := scanBenchmark(r.db.QueryRowContext(ctx,
		benchmarkSelect+` WHERE b.name = $1 AND b.version = $2`, name, version))
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("Benchmark")
	}
	if err != nil {
		return nil, errors.DatabaseError("Failed to find benchmark", err)
	}
	return b, nil
}

// ImportBenchmark writes a benchmark, its sections and checks in one transaction
func (r *CatalogRepository) ImportBenchmark(ctx context.Context, in *catalog.BenchmarkImport) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.DatabaseError("Failed to begin transaction", err)
	}
	defer tx.Rollback()

	b := in.Benchmark
	if b.CreatedAt.IsZero() {
		b.CreatedAt = time.Now().UTC()
	}
	var releaseDate interface{}
	if b.ReleaseDate != nil {
		releaseDate = b.ReleaseDateString()
	}

	err = tx.QueryRowContext(ctx, `
		INSERT INTO benchmarks (platform_id, name, version, release_date, description, url, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`, b.PlatformID, b.Name, b.Version, releaseDate, b.Description, b.URL, b.CreatedAt.Unix()).Scan(&b.ID)
	if errors.IsUniqueViolation(err) {
		return errors.Conflict(fmt.Sprintf("Benchmark %s %s already exists", b.Name, b.Version))
	}
	if err != nil {
		return errors.DatabaseError("Failed to create benchmark", err)
	}

	for i, s := range in.Sections {
		if err := insertSection(ctx, tx, b.ID, nil, i, s); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.DatabaseError("Failed to commit benchmark import", err)
	}
	return nil
}

func insertSection(ctx context.Context, tx *sql.Tx, benchmarkID int64, parentID *int64, order int, s *catalog.SectionImport) error {
	var id int64
	err := tx.QueryRowContext(ctx, `
		INSERT INTO benchmark_sections (benchmark_id, parent_id, number, title, description, sort_order)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`, benchmarkID, parentID, s.Number, s.Title, s.Description, order).Scan(&id)
	if err != nil {
		return errors.DatabaseError(fmt.Sprintf("Failed to create section %s", s.Number), err)
	}

	for i, c := range s.Checks {
		c.SectionID = id
		c.SortOrder = i
		err := tx.QueryRowContext(ctx, `
			INSERT INTO checks (section_id, check_number, title, description, rationale, level, scored,
				audit_command, audit_steps, expected_output, remediation, references_text, sort_order)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
			RETURNING id
		`, c.SectionID, c.CheckNumber, c.Title, c.Description, c.Rationale, c.Level, c.Scored,
			c.AuditCommand, c.AuditSteps, c.ExpectedOutput, c.Remediation, c.References, c.SortOrder,
		).Scan(&c.ID)
		if err != nil {
			return errors.DatabaseError(fmt.Sprintf("Failed to create check %s", c.CheckNumber), err)
		}
	}

	for i, child := range s.Children {
		if err := insertSection(ctx, tx, benchmarkID, &id, i, child); err != nil {
			return err
		}
	}
	return nil
}

// ListSections returns every section of a benchmark
func (r *CatalogRepository) ListSections(ctx context.Context, benchmarkID int64) ([]*catalog.Section, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+sectionColumns+`
		FROM benchmark_sections s
		WHERE s.benchmark_id = $1
		ORDER BY s.sort_order, s.id
	`, benchmarkID)
	if err != nil {
		return nil, errors.DatabaseError("Failed to list sections", err)
	}
	defer rows.Close()

	var sections []*catalog.Section
	for rows.Next() {
		s, err := scanSection(rows)
		if err != nil {
			return nil, errors.DatabaseError("Failed to scan section", err)
		}
		sections = append(sections, s)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.DatabaseError("Failed to iterate sections", err)
	}
	return sections, nil
}

// ListChecks returns every check of a benchmark
func (r *CatalogRepository) ListChecks(ctx context.Context, benchmarkID int64) ([]*catalog.Check, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+checkColumns+`
		FROM checks c
		JOIN benchmark_sections s ON s.id = c.section_id
		WHERE s.benchmark_id = $1
		ORDER BY c.section_id, c.sort_order, c.id
	`, benchmarkID)
	if err != nil {
		return nil, errors.DatabaseError("Failed to list checks", err)
	}
	defer rows.Close()

	var checks []*catalog.Check
	for rows.Next() {
		c, err := scanCheck(rows)
		if err != nil {
			return nil, errors.DatabaseError("Failed to scan check", err)
		}
		checks = append(checks, c)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.DatabaseError("Failed to iterate checks", err)
	}
	return checks, nil
}

// GetSection retrieves a section by ID
func (r *CatalogRepository) GetSection(ctx context.Context, id int64) (*catalog.Section, error) {
	s, err := scanSection(r.db.QueryRowContext(ctx,
		`SELECT `+sectionColumns+` FROM benchmark_sections s WHERE s.id = $1`, id))
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("Section")
	}
	if err != nil {
		return nil, errors.DatabaseError("Failed to get section", err)
	}
	return s, nil
}

// GetCheck retrieves a check by ID
func (r *CatalogRepository) GetCheck(ctx context.Context, id int64) (*catalog.Check, error) {
	c, err := scanCheck(r.db.QueryRowContext(ctx, `SELECT `+checkColumns+` FROM checks c WHERE c.id = $1`, id))
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("Check")
	}
	if err != nil {
		return nil, errors.DatabaseError("Failed to get check", err)
	}
	return c, nil
}

// SearchChecks finds checks across all benchmarks ordered by check number
func (r *CatalogRepository) SearchChecks(ctx context.Context, q catalog.SearchQuery) ([]*catalog.CheckHit, error) {
	var where []string
	var args []interface{}
	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if text := strings.TrimSpace(q.Text); text != "" {
		p := arg("%" + strings.ToLower(text) + "%")
		where = append(where, fmt.Sprintf(
			"(LOWER(c.title) LIKE %[1]s OR LOWER(c.check_number) LIKE %[1]s OR LOWER(c.description) LIKE %[1]s OR LOWER(c.audit_command) LIKE %[1]s)", p))
	}
	if q.PlatformSlug != "" {
		where = append(where, "p.slug = "+arg(q.PlatformSlug))
	}
	if q.Level != 0 {
		where = append(where, "c.level = "+arg(q.Level))
	}
	if q.Scored != nil {
		where = append(where, "c.scored = "+arg(*q.Scored))
	}

	limit := q.Limit
	if limit <= 0 || limit > catalog.SearchLimit {
		limit = catalog.SearchLimit
	}

	query := `
		SELECT ` + checkColumns + `, s.number, b.id, b.name, b.version, p.slug, p.name
		FROM checks c
		JOIN benchmark_sections s ON s.id = c.section_id
		JOIN benchmarks b ON b.id = s.benchmark_id
		JOIN platforms p ON p.id = b.platform_id`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY c.check_number, c.id LIMIT " + arg(limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.DatabaseError("Failed to search checks", err)
	}
	defer rows.Close()

	var hits []*catalog.CheckHit
	for rows.Next() {
		var h catalog.CheckHit
		if err := scanCheckInto(rows, &h.Check,
			&h.SectionNumber, &h.BenchmarkID, &h.BenchmarkName, &h.BenchmarkVersion, &h.PlatformSlug, &h.PlatformName,
		); err != nil {
			return nil, errors.DatabaseError("Failed to scan check", err)
		}
		hits = append(hits, &h)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.DatabaseError("Failed to iterate checks", err)
	}
	return hits, nil
}

// Counts returns the number of rows in each catalog table
func (r *CatalogRepository) Counts(ctx context.Context) (*catalog.Counts, error) {
	var c catalog.Counts
	err := r.db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM platforms),
			(SELECT COUNT(*) FROM benchmarks),
			(SELECT COUNT(*) FROM benchmark_sections),
			(SELECT COUNT(*) FROM checks)
	`).Scan(&c.Platforms, &c.Benchmarks, &c.Sections, &c.Checks)
	if err != nil {
		return nil, errors.DatabaseError("Failed to count catalog", err)
	}
	return &c, nil
}

func scanPlatform(row scanner) (*catalog.Platform, error) {
	var p catalog.Platform
	if err := row.Scan(&p.ID, &p.Slug, &p.Name, &p.OSFamily, &p.Icon, &p.Description); err != nil {
		return nil, err
	}
	return &p, nil
}

func scanBenchmark(row scanner) (*catalog.Benchmark, error) {
	var b catalog.Benchmark
	var p catalog.Platform
	var releaseDate sql.NullString
	var createdAt int64

	err := row.Scan(
		&b.ID, &b.PlatformID, &b.Name, &b.Version, &releaseDate, &b.Description, &b.URL, &createdAt,
		&p.ID, &p.Slug, &p.Name, &p.OSFamily, &p.Icon, &p.Description,
		&b.TotalChecks,
	)
	if err != nil {
		return nil, err
	}

	if releaseDate.Valid && releaseDate.String != "" {
		if t, err := time.Parse(catalog.DateLayout, releaseDate.String); err == nil {
			b.ReleaseDate = &t
		}
	}
	b.CreatedAt = time.Unix(createdAt, 0).UTC()
	b.Platform = &p
	return &b, nil
}

func scanSection(row scanner) (*catalog.Section, error) {
	var s catalog.Section
	var parentID sql.NullInt64
	if err := row.Scan(&s.ID, &s.BenchmarkID, &parentID, &s.Number, &s.Title, &s.Description, &s.SortOrder); err != nil {
		return nil, err
	}
	if parentID.Valid {
		s.ParentID = &parentID.Int64
	}
	return &s, nil
}

func scanCheck(row scanner) (*catalog.Check, error) {
	var c catalog.Check
	if err := scanCheckInto(row, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// scanCheckInto scans the checkColumns into c followed by any extra columns
func scanCheckInto(row scanner, c *catalog.Check, extra ...interface{}) error {
	dest := []interface{}{
		&c.ID, &c.SectionID, &c.CheckNumber, &c.Title, &c.Description, &c.Rationale,
		&c.Level, &c.Scored, &c.AuditCommand, &c.AuditSteps, &c.ExpectedOutput, &c.Remediation,
		&c.References, &c.SortOrder,
	}
	return row.Scan(append(dest, extra...)...)
}
