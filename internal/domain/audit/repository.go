package audit

import "context"

// Repository defines the interface for audit session data access
type Repository interface {
	// CreateSession inserts the session and one not_checked result per check
	// id in a single transaction
	CreateSession(ctx context.Context, s *Session, checkIDs []int64) error

	// GetSession retrieves a session with its result counts
	GetSession(ctx context.Context, id int64) (*Session, error)

	// ListByUser returns a user's sessions, newest first, with result counts
	ListByUser(ctx context.Context, userID int64, limit, offset int) ([]*Session, int64, error)

	// UpdateSession persists status, completion time and notes
	UpdateSession(ctx context.Context, s *Session) error

	// DeleteSession removes a session and, by cascade, its results
	DeleteSession(ctx context.Context, id int64) error

	// ListResults returns a session's results with their checks, ordered by
	// check number
	ListResults(ctx context.Context, sessionID int64) ([]*Result, error)

	// GetResult retrieves the result of one check in a session
	GetResult(ctx context.Context, sessionID, checkID int64) (*Result, error)

	// UpdateResult persists status, finding and checked_at
	UpdateResult(ctx context.Context, r *Result) error

	// CountByStatus returns the number of sessions per session status
	CountByStatus(ctx context.Context) (map[string]int64, error)
}
