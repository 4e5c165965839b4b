package dto

import (
	"time"

	"github.com/pratik-mahalle/cisaudit/internal/domain/audit"
	"github.com/pratik-mahalle/cisaudit/internal/domain/catalog"
)

// CreateAuditRequest starts an audit session
type CreateAuditRequest struct {
	BenchmarkID int64  `json:"benchmark_id" validate:"required,gt=0"`
	TargetName  string `json:"target_name,omitempty" validate:"max=200"`
	TargetIP    string `json:"target_ip,omitempty" validate:"omitempty,max=45"`
	Notes       string `json:"notes,omitempty"`
}

// UpdateResultRequest records the outcome of one check
type UpdateResultRequest struct {
	Status  string `json:"status" validate:"required,oneof=pass fail not_applicable not_checked"`
	Finding string `json:"finding"`
}

// SessionDTO is an audit session with its progress
type SessionDTO struct {
	ID            int64              `json:"id"`
	BenchmarkID   int64              `json:"benchmark_id"`
	Benchmark     *catalog.Benchmark `json:"benchmark,omitempty"`
	TargetName    string             `json:"target_name"`
	TargetIP      string             `json:"target_ip"`
	Notes         string             `json:"notes"`
	Status        string             `json:"status"`
	StatusDisplay string             `json:"status_display"`
	StartedAt     time.Time          `json:"started_at"`
	CompletedAt   *time.Time         `json:"completed_at,omitempty"`
	Counts        audit.Counts       `json:"counts"`
	Progress      int                `json:"progress"`
}

// ToSessionDTO converts a domain session
func ToSessionDTO(s *audit.Session) *SessionDTO {
	return &SessionDTO{
		ID:            s.ID,
		BenchmarkID:   s.BenchmarkID,
		Benchmark:     s.Benchmark,
		TargetName:    s.TargetName,
		TargetIP:      s.TargetIP,
		Notes:         s.Notes,
		Status:        s.Status,
		StatusDisplay: s.StatusDisplay(),
		StartedAt:     s.StartedAt,
		CompletedAt:   s.CompletedAt,
		Counts:        s.Counts,
		Progress:      s.Progress(),
	}
}

// ToSessionDTOs converts a list of sessions
func ToSessionDTOs(sessions []*audit.Session) []*SessionDTO {
	out := make([]*SessionDTO, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, ToSessionDTO(s))
	}
	return out
}

// CreateAuditResponse is returned when a session starts
type CreateAuditResponse struct {
	Session       *SessionDTO `json:"session"`
	ChecksCreated int         `json:"checks_created"`
}

// AuditDetailResponse is a session with its results and summary
type AuditDetailResponse struct {
	Session *SessionDTO     `json:"session"`
	Results []*audit.Result `json:"results"`
	Summary audit.Summary   `json:"summary"`
}

// DashboardResponse is the landing page payload
type DashboardResponse struct {
	Platforms      []*catalog.Platform  `json:"platforms"`
	Benchmarks     []*catalog.Benchmark `json:"benchmarks"`
	TotalChecks    int64                `json:"total_checks"`
	RecentSessions []*SessionDTO        `json:"recent_sessions"`
}
