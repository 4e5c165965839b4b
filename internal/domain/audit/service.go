package audit

import (
	"context"

	"github.com/pratik-mahalle/cisaudit/internal/domain/catalog"
)

// Service defines the audit workflow. Every method taking a userID enforces
// that the session belongs to that user.
type Service interface {
	// Create starts a session and returns it with the number of results created
	Create(ctx context.Context, userID int64, in NewSession) (*Session, error)

	Get(ctx context.Context, userID, sessionID int64) (*Session, error)
	GetDetail(ctx context.Context, userID, sessionID int64) (*Detail, error)
	List(ctx context.Context, userID int64, limit, offset int) ([]*Session, int64, error)

	UpdateResult(ctx context.Context, userID, sessionID, checkID int64, status, finding string) (*Result, error)
	Complete(ctx context.Context, userID, sessionID int64) (*Session, error)
	Delete(ctx context.Context, userID, sessionID int64) error

	// CountByStatus is used by the metrics collector
	CountByStatus(ctx context.Context) (map[string]int64, error)
}

// Detail is everything needed to display or export one session
type Detail struct {
	Session   *Session           `json:"session"`
	Benchmark *catalog.Benchmark `json:"benchmark"`
	Results   []*Result          `json:"results"`
	Summary   Summary            `json:"summary"`

	Tree *catalog.Tree `json:"-"`
}
