package catalog

import (
	"fmt"
	"strings"
	"time"
)

// Platform is an operating system or device family benchmarks target
type Platform struct {
	ID          int64  `json:"id"`
	Slug        string `json:"slug"`
	Name        string `json:"name"`
	OSFamily    string `json:"os_family"`
	Icon        string `json:"icon"`
	Description string `json:"description"`
}

// Benchmark is one published version of a hardening guide for a platform
type Benchmark struct {
	ID          int64      `json:"id"`
	PlatformID  int64      `json:"platform_id"`
	Name        string     `json:"name"`
	Version     string     `json:"version"`
	ReleaseDate *time.Time `json:"release_date,omitempty"`
	Description string     `json:"description"`
	URL         string     `json:"url"`
	CreatedAt   time.Time  `json:"created_at"`

	// Populated by read queries
	Platform    *Platform `json:"platform,omitempty"`
	TotalChecks int       `json:"total_checks"`
}

// DateLayout is how release dates are stored and displayed
const DateLayout = "2006-01-02"

// ReleaseDateString returns the release date as YYYY-MM-DD, or "" when unknown.
func (b *Benchmark) ReleaseDateString() string {
	if b.ReleaseDate == nil {
		return ""
	}
	return b.ReleaseDate.Format(DateLayout)
}

// Section is a node in a benchmark's section hierarchy
type Section struct {
	ID          int64  `json:"id"`
	BenchmarkID int64  `json:"benchmark_id"`
	ParentID    *int64 `json:"parent_id,omitempty"`
	Number      string `json:"number"`
	Title       string `json:"title"`
	Description string `json:"description"`
	SortOrder   int    `json:"sort_order"`

	TotalChecks int `json:"total_checks,omitempty"`
}

// Label renders a section as "{number}. {title}"
func (s *Section) Label() string {
	return fmt.Sprintf("%s. %s", s.Number, s.Title)
}

// Check levels
const (
	Level1 = 1
	Level2 = 2
)

// Check is a single auditable recommendation
type Check struct {
	ID             int64  `json:"id"`
	SectionID      int64  `json:"section_id"`
	CheckNumber    string `json:"check_number"`
	Title          string `json:"title"`
	Description    string `json:"description"`
	Rationale      string `json:"rationale"`
	Level          int    `json:"level"`
	Scored         bool   `json:"scored"`
	AuditCommand   string `json:"audit_command"`
	AuditSteps     string `json:"audit_steps"`
	ExpectedOutput string `json:"expected_output"`
	Remediation    string `json:"remediation"`
	References     string `json:"references"`
	SortOrder      int    `json:"sort_order"`
}

// LevelDisplay renders the level as "L1" or "L2"
func (c *Check) LevelDisplay() string {
	return fmt.Sprintf("L%d", c.Level)
}

// ScoredDisplay renders the scored flag for people
func (c *Check) ScoredDisplay() string {
	if c.Scored {
		return "Scored"
	}
	return "Not Scored"
}

// AuditText is the trimmed command to run, or the trimmed manual steps when
// no command is stored. A whitespace-only command still wins and yields "".
func (c *Check) AuditText() string {
	if c.AuditCommand != "" {
		return strings.TrimSpace(c.AuditCommand)
	}
	return strings.TrimSpace(c.AuditSteps)
}

// CheckFilter narrows the checks exported in a checklist. Level 0 means any.
type CheckFilter struct {
	Level      int
	ScoredOnly bool
}

// Match reports whether c passes the filter
func (f CheckFilter) Match(c *Check) bool {
	if f.Level != 0 && c.Level != f.Level {
		return false
	}
	if f.ScoredOnly && !c.Scored {
		return false
	}
	return true
}

// SearchLimit caps the rows returned by a check search
const SearchLimit = 50

// SearchQuery are the optional criteria of a cross-benchmark check search
type SearchQuery struct {
	Text         string
	PlatformSlug string
	Level        int
	Scored       *bool
	Limit        int
}

// CheckHit is a search result with enough context to locate the check
type CheckHit struct {
	Check
	SectionNumber    string `json:"section_number"`
	BenchmarkID      int64  `json:"benchmark_id"`
	BenchmarkName    string `json:"benchmark_name"`
	BenchmarkVersion string `json:"benchmark_version"`
	PlatformSlug     string `json:"platform_slug"`
	PlatformName     string `json:"platform_name"`
}

// Counts summarizes the size of the catalog
type Counts struct {
	Platforms  int64 `json:"platforms"`
	Benchmarks int64 `json:"benchmarks"`
	Sections   int64 `json:"sections"`
	Checks     int64 `json:"checks"`
}

// SectionImport is a section with its checks and child sections, as read
// from a seed file. Sort orders are assigned from slice positions.
type SectionImport struct {
	Number      string
	Title       string
	Description string
	Checks      []*Check
	Children    []*SectionImport
}

// BenchmarkImport is a complete benchmark ready to be written in one transaction
type BenchmarkImport struct {
	Benchmark *Benchmark
	Sections  []*SectionImport
}

// CheckCount is the number of checks in the import, across all sections
func (in *BenchmarkImport) CheckCount() int {
	n := 0
	for _, s := range in.Sections {
		n += s.checkCount()
	}
	return n
}

func (s *SectionImport) checkCount() int {
	n := len(s.Checks)
	for _, c := range s.Children {
		n += c.checkCount()
	}
	return n
}
