package services

import (
	"context"
	"time"

	"github.com/pratik-mahalle/cisaudit/internal/domain/audit"
	"github.com/pratik-mahalle/cisaudit/internal/domain/catalog"
	"github.com/pratik-mahalle/cisaudit/internal/pkg/errors"
	"github.com/pratik-mahalle/cisaudit/internal/pkg/logger"
	"github.com/pratik-mahalle/cisaudit/internal/pkg/metrics"
)

// AuditService implements audit.Service
type AuditService struct {
	repo    audit.Repository
	catalog catalog.Repository
	logger  *logger.Logger
}

// NewAuditService creates a new audit service
func NewAuditService(repo audit.Repository, catalogRepo catalog.Repository, log *logger.Logger) audit.Service {
	return &AuditService{
		repo:    repo,
		catalog: catalogRepo,
		logger:  log,
	}
}

// Create starts a session with one not_checked result per check of the benchmark
func (s *AuditService) Create(ctx context.Context, userID int64, in audit.NewSession) (*audit.Session, error) {
	in.Normalize()
	if in.BenchmarkID <= 0 {
		return nil, errors.ValidationError("Benchmark is required", nil)
	}

	b, err := s.catalog.GetBenchmark(ctx, in.BenchmarkID)
	if err != nil {
		return nil, err
	}

	checks, err := s.catalog.ListChecks(ctx, b.ID)
	if err != nil {
		return nil, err
	}
	ids := make([]int64, 0, len(checks))
	for _, c := range checks {
		ids = append(ids, c.ID)
	}

	session := &audit.Session{
		UserID:      userID,
		BenchmarkID: b.ID,
		TargetName:  in.TargetName,
		TargetIP:    in.TargetIP,
		Notes:       in.Notes,
		StartedAt:   time.Now().UTC(),
		Status:      audit.SessionInProgress,
	}
	if err := s.repo.CreateSession(ctx, session, ids); err != nil {
		s.logger.ErrorWithErr(err, "Failed to create audit session")
		return nil, err
	}
	session.Benchmark = b

	metrics.RecordSessionCreated()
	s.logger.WithFields(map[string]interface{}{
		"session_id":   session.ID,
		"user_id":      userID,
		"benchmark_id": b.ID,
		"checks":       len(ids),
	}).Info("Audit session created")

	return session, nil
}

// Get returns a session owned by userID
func (s *AuditService) Get(ctx context.Context, userID, sessionID int64) (*audit.Session, error) {
	session, err := s.repo.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.UserID != userID {
		s.logger.WithFields(map[string]interface{}{
			"session_id": sessionID,
			"user_id":    userID,
		}).Warn("Access to another user's audit session denied")
		return nil, errors.Forbidden("You do not have access to this audit session")
	}
	return session, nil
}

// GetDetail returns a session with its benchmark, ordered results and summary
func (s *AuditService) GetDetail(ctx context.Context, userID, sessionID int64) (*audit.Detail, error) {
	session, err := s.Get(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}

	b, err := s.catalog.GetBenchmark(ctx, session.BenchmarkID)
	if err != nil {
		return nil, err
	}
	session.Benchmark = b

	tree, err := s.loadTree(ctx, b.ID)
	if err != nil {
		return nil, err
	}

	results, err := s.repo.ListResults(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	return &audit.Detail{
		Session:   session,
		Benchmark: b,
		Results:   nonNil(results),
		Summary:   audit.Summarize(results, tree),
		Tree:      tree,
	}, nil
}

// List returns a page of the user's sessions, newest first
func (s *AuditService) List(ctx context.Context, userID int64, limit, offset int) ([]*audit.Session, int64, error) {
	sessions, total, err := s.repo.ListByUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	return nonNil(sessions), total, nil
}

// UpdateResult records the status and finding of one check. Results stay
// editable after the session is completed.
func (s *AuditService) UpdateResult(ctx context.Context, userID, sessionID, checkID int64, status, finding string) (*audit.Result, error) {
	if !audit.ValidResultStatus(status) {
		return nil, errors.ValidationError("Invalid result status", map[string]string{
			"status": "must be one of pass, fail, not_applicable, not_checked",
		})
	}

	if _, err := s.Get(ctx, userID, sessionID); err != nil {
		return nil, err
	}

	result, err := s.repo.GetResult(ctx, sessionID, checkID)
	if err != nil {
		return nil, err
	}

	result.Apply(status, finding, time.Now().UTC())
	if err := s.repo.UpdateResult(ctx, result); err != nil {
		s.logger.ErrorWithErr(err, "Failed to update audit result")
		return nil, err
	}

	metrics.RecordResultUpdated(status)
	s.logger.WithFields(map[string]interface{}{
		"session_id": sessionID,
		"check_id":   checkID,
		"status":     status,
	}).Info("Audit result updated")

	return result, nil
}

// Complete closes a session. Completing a completed session changes nothing.
func (s *AuditService) Complete(ctx context.Context, userID, sessionID int64) (*audit.Session, error) {
	session, err := s.Get(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	if session.IsCompleted() {
		return session, nil
	}

	session.Complete(time.Now().UTC())
	if err := s.repo.UpdateSession(ctx, session); err != nil {
		s.logger.ErrorWithErr(err, "Failed to complete audit session")
		return nil, err
	}

	s.logger.WithFields(map[string]interface{}{
		"session_id": sessionID,
		"user_id":    userID,
		"progress":   session.Progress(),
	}).Info("Audit session completed")

	return session, nil
}

// Delete removes a session and its results
func (s *AuditService) Delete(ctx context.Context, userID, sessionID int64) error {
	if _, err := s.Get(ctx, userID, sessionID); err != nil {
		return err
	}

	if err := s.repo.DeleteSession(ctx, sessionID); err != nil {
		s.logger.ErrorWithErr(err, "Failed to delete audit session")
		return err
	}

	s.logger.WithFields(map[string]interface{}{
		"session_id": sessionID,
		"user_id":    userID,
	}).Info("Audit session deleted")

	return nil
}

// CountByStatus returns the number of sessions per status
func (s *AuditService) CountByStatus(ctx context.Context) (map[string]int64, error) {
	return s.repo.CountByStatus(ctx)
}

func (s *AuditService) loadTree(ctx context.Context, benchmarkID int64) (*catalog.Tree, error) {
	sections, err := s.catalog.ListSections(ctx, benchmarkID)
	if err != nil {
		return nil, err
	}
	checks, err := s.catalog.ListChecks(ctx, benchmarkID)
	if err != nil {
		return nil, err
	}
	tree, err := catalog.NewTree(sections, checks)
	if err != nil {
		return nil, errors.Internal("Invalid section hierarchy", err)
	}
	return tree, nil
}
