package audit

import (
	"strings"
	"time"

	"github.com/pratik-mahalle/cisaudit/internal/domain/catalog"
)

// Session statuses
const (
	SessionInProgress = "in_progress"
	SessionCompleted  = "completed"
)

// Result statuses
const (
	StatusPass          = "pass"
	StatusFail          = "fail"
	StatusNotApplicable = "not_applicable"
	StatusNotChecked    = "not_checked"
)

// ResultStatuses lists every result status in display order
var ResultStatuses = []string{StatusPass, StatusFail, StatusNotApplicable, StatusNotChecked}

// DefaultTargetName is used when a session is created without a target
const DefaultTargetName = "Unnamed Target"

// ValidResultStatus reports whether s is one of the four result statuses
func ValidResultStatus(s string) bool {
	switch s {
	case StatusPass, StatusFail, StatusNotApplicable, StatusNotChecked:
		return true
	}
	return false
}

// StatusDisplay renders a result status for people
func StatusDisplay(s string) string {
	switch s {
	case StatusPass:
		return "Pass"
	case StatusFail:
		return "Fail"
	case StatusNotApplicable:
		return "N/A"
	default:
		return "Not Checked"
	}
}

// Session is one user's audit of one target against one benchmark
type Session struct {
	ID          int64      `json:"id"`
	UserID      int64      `json:"user_id"`
	BenchmarkID int64      `json:"benchmark_id"`
	TargetName  string     `json:"target_name"`
	TargetIP    string     `json:"target_ip"`
	StartedAt   time.Time  `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	Status      string     `json:"status"`
	Notes       string     `json:"notes"`

	// Populated by read queries
	Counts    Counts             `json:"counts"`
	Benchmark *catalog.Benchmark `json:"benchmark,omitempty"`
}

// Progress is the whole percentage of results that have been checked
func (s *Session) Progress() int {
	return s.Counts.Progress()
}

// IsCompleted reports whether the session has been closed
func (s *Session) IsCompleted() bool {
	return s.Status == SessionCompleted
}

// Complete closes the session. Completing twice keeps the first timestamp.
func (s *Session) Complete(now time.Time) {
	if s.IsCompleted() {
		return
	}
	s.Status = SessionCompleted
	s.CompletedAt = &now
}

// StatusDisplay renders the session status in title case
func (s *Session) StatusDisplay() string {
	words := strings.Split(s.Status, "_")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

// Result is the recorded outcome of one check within a session
type Result struct {
	ID        int64      `json:"id"`
	SessionID int64      `json:"session_id"`
	CheckID   int64      `json:"check_id"`
	Status    string     `json:"status"`
	Finding   string     `json:"finding"`
	CheckedAt *time.Time `json:"checked_at,omitempty"`

	Check *catalog.Check `json:"check,omitempty"`
}

// Apply records a new status and finding. checked_at follows the status:
// stamped when checked, cleared when reset to not_checked. The finding is
// kept as given in either case.
func (r *Result) Apply(status, finding string, now time.Time) {
	r.Status = status
	r.Finding = strings.TrimSpace(finding)
	if status == StatusNotChecked {
		r.CheckedAt = nil
		return
	}
	r.CheckedAt = &now
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

// Add tallies one result status
func (c *Counts) Add(status string) {
	c.Total++
	switch status {
	case StatusPass:
		c.Pass++
	case StatusFail:
		c.Fail++
	case StatusNotApplicable:
		c.NotApplicable++
	default:
		c.NotChecked++
		return
	}
	c.Checked++
}

// Progress is floor(100 * checked / total), 0 for an empty session
func (c Counts) Progress() int {
	return Progress(c.Total, c.Checked)
}

// ComplianceRate is pass / checked, 0 when nothing is checked
func (c Counts) ComplianceRate() float64 {
	return ComplianceRate(c.Pass, c.Checked)
}

// Progress is floor(100 * checked / total), 0 when total is 0
func Progress(total, checked int) int {
	if total <= 0 {
		return 0
	}
	return checked * 100 / total
}

// ComplianceRate is pass / checked, 0 when checked is 0
func ComplianceRate(pass, checked int) float64 {
	if checked <= 0 {
		return 0
	}
	return float64(pass) / float64(checked)
}

// NewSession is the input for starting an audit
type NewSession struct {
	BenchmarkID int64
	TargetName  string
	TargetIP    string
	Notes       string
}

// Normalize trims the fields and applies the default target name
func (n *NewSession) Normalize() {
	n.TargetName = strings.TrimSpace(n.TargetName)
	if n.TargetName == "" {
		n.TargetName = DefaultTargetName
	}
	n.TargetIP = strings.TrimSpace(n.TargetIP)
	n.Notes = strings.TrimSpace(n.Notes)
}
