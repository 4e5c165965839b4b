package client

import "time"

// Platform is an operating system or device family
type Platform struct {
	ID          int64  `json:"id"`
	Slug        string `json:"slug"`
	Name        string `json:"name"`
	OSFamily    string `json:"os_family"`
	Icon        string `json:"icon"`
	Description string `json:"description"`
}

// Benchmark is one version of a hardening guide
type Benchmark struct {
	ID          int64      `json:"id"`
	PlatformID  int64      `json:"platform_id"`
	Name        string     `json:"name"`
	Version     string     `json:"version"`
	ReleaseDate *time.Time `json:"release_date,omitempty"`
	Description string     `json:"description"`
	URL         string     `json:"url"`
	CreatedAt   time.Time  `json:"created_at"`
	Platform    *Platform  `json:"platform,omitempty"`
	TotalChecks int        `json:"total_checks"`
}

// Section is a node of a benchmark's section tree
type Section struct {
	ID          int64  `json:"id"`
	BenchmarkID int64  `json:"benchmark_id"`
	ParentID    *int64 `json:"parent_id,omitempty"`
	Number      string `json:"number"`
	Title       string `json:"title"`
	Description string `json:"description"`
	SortOrder   int    `json:"sort_order"`
	TotalChecks int    `json:"total_checks,omitempty"`
}

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

// BenchmarkDetail is a benchmark with its top-level sections
type BenchmarkDetail struct {
	Benchmark *Benchmark `json:"benchmark"`
	Sections  []*Section `json:"sections"`
}

// Counts are the result tallies of a session
type Counts struct {
	Total         int `json:"total"`
	Checked       int `json:"checked"`
	Pass          int `json:"pass"`
	Fail          int `json:"fail"`
	NotApplicable int `json:"not_applicable"`
	NotChecked    int `json:"not_checked"`
}

// Session is an audit session with its progress
type Session struct {
	ID            int64      `json:"id"`
	BenchmarkID   int64      `json:"benchmark_id"`
	Benchmark     *Benchmark `json:"benchmark,omitempty"`
	TargetName    string     `json:"target_name"`
	TargetIP      string     `json:"target_ip"`
	Notes         string     `json:"notes"`
	Status        string     `json:"status"` // in_progress, completed
	StatusDisplay string     `json:"status_display"`
	StartedAt     time.Time  `json:"started_at"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
	Counts        Counts     `json:"counts"`
	Progress      int        `json:"progress"`
}

// Result is the outcome of one check within a session
type Result struct {
	ID        int64      `json:"id"`
	SessionID int64      `json:"session_id"`
	CheckID   int64      `json:"check_id"`
	Status    string     `json:"status"` // pass, fail, not_applicable, not_checked
	Finding   string     `json:"finding"`
	CheckedAt *time.Time `json:"checked_at,omitempty"`
	Check     *Check     `json:"check,omitempty"`
}

// SectionSummary is the compliance of one top-level section
type SectionSummary struct {
	Label          string  `json:"label"`
	Pass           int     `json:"pass"`
	Checked        int     `json:"checked"`
	ComplianceRate float64 `json:"compliance_rate"`
}

// Summary aggregates the results of a session
type Summary struct {
	Counts
	ComplianceRate float64          `json:"compliance_rate"`
	Sections       []SectionSummary `json:"sections"`
}

// AuditDetail is a session with its results and summary
type AuditDetail struct {
	Session *Session  `json:"session"`
	Results []*Result `json:"results"`
	Summary Summary   `json:"summary"`
}

// ListOptions contains common options for list operations
type ListOptions struct {
	Page     int `json:"page,omitempty"`      // Page number (1-based)
	PageSize int `json:"page_size,omitempty"` // Items per page
}

// SessionList is a page of audit sessions
type SessionList struct {
	Data       []*Session `json:"data"`
	Page       int        `json:"page"`
	PageSize   int        `json:"page_size"`
	TotalItems int64      `json:"total_items"`
	TotalPages int        `json:"total_pages"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Uptime  string `json:"uptime"`
}

// ReadinessResponse is returned by /readyz once the server can take traffic
type ReadinessResponse struct {
	Status     string `json:"status"`
	Database   string `json:"database"`
	Migrations int    `json:"migrations"`
	Benchmarks int    `json:"benchmarks"`
}
