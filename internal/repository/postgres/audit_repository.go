package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/pratik-mahalle/cisaudit/internal/domain/audit"
	"github.com/pratik-mahalle/cisaudit/internal/domain/catalog"
	"github.com/pratik-mahalle/cisaudit/internal/pkg/errors"
)

// AuditRepository implements audit.Repository
type AuditRepository struct {
	db *sql.DB
}

// NewAuditRepository creates a new audit repository
func NewAuditRepository(db *sql.DB) audit.Repository {
	return &AuditRepository{db: db}
}

const sessionSelect = `
	SELECT s.id, s.user_id, s.benchmark_id, s.target_name, s.target_ip, s.started_at, s.completed_at,
		s.status, s.notes, b.name, b.version,
		COUNT(r.id),
		COALESCE(SUM(CASE WHEN r.status = 'pass' THEN 1 ELSE 0 END), 0),
		COALESCE(SUM(CASE WHEN r.status = 'fail' THEN 1 ELSE 0 END), 0),
		COALESCE(SUM(CASE WHEN r.status = 'not_applicable' THEN 1 ELSE 0 END), 0),
		COALESCE(SUM(CASE WHEN r.status = 'not_checked' THEN 1 ELSE 0 END), 0)
	FROM audit_sessions s
	JOIN benchmarks b ON b.id = s.benchmark_id
	LEFT JOIN audit_results r ON r.session_id = s.id
`

const sessionGroupBy = ` GROUP BY s.id, b.id `

const resultSelect = `
	SELECT r.id, r.session_id, r.check_id, r.status, r.finding, r.checked_at, ` + checkColumns + `
	FROM audit_results r
	JOIN checks c ON c.id = r.check_id
`

// CreateSession inserts the session and its results in one transaction
func (r *AuditRepository) CreateSession(ctx context.Context, s *audit.Session, checkIDs []int64) error {
	if s.StartedAt.IsZero() {
		s.StartedAt = time.Now().UTC()
	}
	if s.Status == "" {
		s.Status = audit.SessionInProgress
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.DatabaseError("Failed to begin transaction", err)
	}
	defer tx.Rollback()

	err = tx.QueryRowContext(ctx, `
		INSERT INTO audit_sessions (user_id, benchmark_id, target_name, target_ip, started_at, completed_at, status, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`, s.UserID, s.BenchmarkID, s.TargetName, s.TargetIP, s.StartedAt.Unix(), unixOrNil(s.CompletedAt),
		s.Status, s.Notes).Scan(&s.ID)
	if err != nil {
		return errors.DatabaseError("Failed to create audit session", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO audit_results (session_id, check_id, status, finding)
		VALUES ($1, $2, $3, '')
	`)
	if err != nil {
		return errors.DatabaseError("Failed to prepare result insert", err)
	}
	defer stmt.Close()

	for _, checkID := range checkIDs {
		if _, err := stmt.ExecContext(ctx, s.ID, checkID, audit.StatusNotChecked); err != nil {
			if errors.IsUniqueViolation(err) {
				return errors.Conflict("Check listed twice in audit session")
			}
			return errors.DatabaseError("Failed to create audit result", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.DatabaseError("Failed to commit audit session", err)
	}

	s.Counts = audit.Counts{Total: len(checkIDs), NotChecked: len(checkIDs)}
	return nil
}

// GetSession retrieves a session with its result counts
func (r *AuditRepository) GetSession(ctx context.Context, id int64) (*audit.Session, error) {
	row := r.db.QueryRowContext(ctx, sessionSelect+` WHERE s.id = $1`+sessionGroupBy, id)
	s, err := scanSession(row)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("Audit session")
	}
	if err != nil {
		return nil, errors.DatabaseError("Failed to get audit session", err)
	}
	return s, nil
}

// ListByUser returns a user's sessions, newest first
func (r *AuditRepository) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]*audit.Session, int64, error) {
	var total int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM audit_sessions WHERE user_id = $1`, userID).Scan(&total)
	if err != nil {
		return nil, 0, errors.DatabaseError("Failed to count audit sessions", err)
	}

	rows, err := r.db.QueryContext(ctx, sessionSelect+` WHERE s.user_id = $1`+sessionGroupBy+`
		ORDER BY s.started_at DESC, s.id DESC
		LIMIT $2 OFFSET $3
	`, userID, limit, offset)
	if err != nil {
		return nil, 0, errors.DatabaseError("Failed to list audit sessions", err)
	}
	defer rows.Close()

	var sessions []*audit.Session
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, 0, errors.DatabaseError("Failed to scan audit session", err)
		}
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, errors.DatabaseError("Failed to iterate audit sessions", err)
	}
	return sessions, total, nil
}

// UpdateSession persists status, completion time and notes
func (r *AuditRepository) UpdateSession(ctx context.Context, s *audit.Session) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE audit_sessions SET status = $1, completed_at = $2, notes = $3
		WHERE id = $4
	`, s.Status, unixOrNil(s.CompletedAt), s.Notes, s.ID)
	if err != nil {
		return errors.DatabaseError("Failed to update audit session", err)
	}
	return requireRow(result, "Audit session")
}

// DeleteSession removes a session; results go with it by cascade
func (r *AuditRepository) DeleteSession(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM audit_sessions WHERE id = $1`, id)
	if err != nil {
		return errors.DatabaseError("Failed to delete audit session", err)
	}
	return requireRow(result, "Audit session")
}

// ListResults returns a session's results ordered by check number
func (r *AuditRepository) ListResults(ctx context.Context, sessionID int64) ([]*audit.Result, error) {
	rows, err := r.db.QueryContext(ctx, resultSelect+`
		WHERE r.session_id = $1
		ORDER BY c.check_number, c.id
	`, sessionID)
	if err != nil {
		return nil, errors.DatabaseError("Failed to list audit results", err)
	}
	defer rows.Close()

	var results []*audit.Result
	for rows.Next() {
		res, err := scanResult(rows)
		if err != nil {
			return nil, errors.DatabaseError("Failed to scan audit result", err)
		}
		results = append(results, res)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.DatabaseError("Failed to iterate audit results", err)
	}
	return results, nil
}

// GetResult retrieves the result of one check in a session
func (r *AuditRepository) GetResult(ctx context.Context, sessionID, checkID int64) (*audit.Result, error) {
	row := r.db.QueryRowContext(ctx, resultSelect+` WHERE r.session_id = $1 AND r.check_id = $2`, sessionID, checkID)
	res, err := scanResult(row)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("Audit result")
	}
	if err != nil {
		return nil, errors.DatabaseError("Failed to get audit result", err)
	}
	return res, nil
}

// UpdateResult persists status, finding and checked_at
func (r *AuditRepository) UpdateResult(ctx context.Context, res *audit.Result) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE audit_results SET status = $1, finding = $2, checked_at = $3
		WHERE id = $4
	`, res.Status, res.Finding, unixOrNil(res.CheckedAt), res.ID)
	if err != nil {
		return errors.DatabaseError("Failed to update audit result", err)
	}
	return requireRow(result, "Audit result")
}

// CountByStatus returns the number of sessions per status
func (r *AuditRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT status, COUNT(*) FROM audit_sessions GROUP BY status`)
	if err != nil {
		return nil, errors.DatabaseError("Failed to count audit sessions", err)
	}
	defer rows.Close()

	counts := map[string]int64{
		audit.SessionInProgress: 0,
		audit.SessionCompleted:  0,
	}
	for rows.Next() {
		var status string
		var n int64
		if err := rows.Scan(&status, &n); err != nil {
			return nil, errors.DatabaseError("Failed to scan session count", err)
		}
		counts[status] = n
	}
	if err := rows.Err(); err != nil {
		return nil, errors.DatabaseError("Failed to iterate session counts", err)
	}
	return counts, nil
}

func scanSession(row scanner) (*audit.Session, error) {
	var s audit.Session
	var b catalog.Benchmark
	var startedAt int64
	var completedAt sql.NullInt64

	err := row.Scan(
		&s.ID, &s.UserID, &s.BenchmarkID, &s.TargetName, &s.TargetIP, &startedAt, &completedAt,
		&s.Status, &s.Notes, &b.Name, &b.Version,
		&s.Counts.Total, &s.Counts.Pass, &s.Counts.Fail, &s.Counts.NotApplicable, &s.Counts.NotChecked,
	)
	if err != nil {
		return nil, err
	}

	s.StartedAt = time.Unix(startedAt, 0).UTC()
	s.CompletedAt = timeFromNull(completedAt)
	s.Counts.Checked = s.Counts.Total - s.Counts.NotChecked
	b.ID = s.BenchmarkID
	s.Benchmark = &b
	return &s, nil
}

func scanResult(row scanner) (*audit.Result, error) {
	var res audit.Result
	var c catalog.Check
	var checkedAt sql.NullInt64

	err := row.Scan(
		&res.ID, &res.SessionID, &res.CheckID, &res.Status, &res.Finding, &checkedAt,
		&c.ID, &c.SectionID, &c.CheckNumber, &c.Title, &c.Description, &c.Rationale,
		&c.Level, &c.Scored, &c.AuditCommand, &c.AuditSteps, &c.ExpectedOutput, &c.Remediation,
		&c.References, &c.SortOrder,
	)
	if err != nil {
		return nil, err
	}

	res.CheckedAt = timeFromNull(checkedAt)
	res.Check = &c
	return &res, nil
}

func requireRow(result sql.Result, resource string) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return errors.DatabaseError("Failed to get affected rows", err)
	}
	if rows == 0 {
		return errors.NotFound(resource)
	}
	return nil
}
