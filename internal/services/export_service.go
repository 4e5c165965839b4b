package services

import (
	"context"
	"fmt"
	"time"

	"github.com/pratik-mahalle/cisaudit/internal/archive"
	"github.com/pratik-mahalle/cisaudit/internal/domain/audit"
	"github.com/pratik-mahalle/cisaudit/internal/domain/catalog"
	"github.com/pratik-mahalle/cisaudit/internal/domain/user"
	"github.com/pratik-mahalle/cisaudit/internal/pkg/errors"
	"github.com/pratik-mahalle/cisaudit/internal/pkg/logger"
	"github.com/pratik-mahalle/cisaudit/internal/pkg/metrics"
	"github.com/pratik-mahalle/cisaudit/internal/pkg/utils"
	"github.com/pratik-mahalle/cisaudit/internal/report"
)

// Export kinds, also used as archive folders and metric labels
const (
	ExportChecklist = "checklist"
	ExportAudit     = "audit"
)

// ExportFile is a rendered workbook ready for download
type ExportFile struct {
	Name        string
	ContentType string
	Data        []byte
}

// Exporter renders workbooks for download
type Exporter interface {
	// Checklist renders a blank checklist of a benchmark's filtered checks
	Checklist(ctx context.Context, benchmarkID int64, f catalog.CheckFilter) (*ExportFile, error)

	// Audit renders a session owned by userID with its results and summary
	Audit(ctx context.Context, userID, sessionID int64) (*ExportFile, error)
}

// ExportService implements Exporter and copies every workbook to the archive
type ExportService struct {
	catalog       catalog.Service
	audits        audit.Service
	users         user.Service
	store         archive.Store
	archivePrefix string
	logger        *logger.Logger
}

// NewExportService creates a new export service
func NewExportService(
	catalogService catalog.Service,
	auditService audit.Service,
	userService user.Service,
	store archive.Store,
	archivePrefix string,
	log *logger.Logger,
) *ExportService {
	if store == nil {
		store = archive.Nop{}
	}
	return &ExportService{
		catalog:       catalogService,
		audits:        auditService,
		users:         userService,
		store:         store,
		archivePrefix: archivePrefix,
		logger:        log,
	}
}

// Checklist renders a benchmark checklist
func (s *ExportService) Checklist(ctx context.Context, benchmarkID int64, f catalog.CheckFilter) (*ExportFile, error) {
	start := time.Now()

	detail, err := s.catalog.GetBenchmark(ctx, benchmarkID)
	if err != nil {
		return nil, err
	}
	b := detail.Benchmark

	checks, err := s.catalog.ChecklistChecks(ctx, benchmarkID, f)
	if err != nil {
		return nil, err
	}

	data, err := report.Checklist(report.ChecklistInput{
		Benchmark:   b,
		Platform:    b.Platform,
		ExportedAt:  time.Now().UTC(),
		TotalChecks: b.TotalChecks,
		Checks:      checks,
	})
	if err != nil {
		s.logger.ErrorWithErr(err, "Failed to render checklist")
		return nil, errors.ReportError(ExportChecklist, err)
	}

	slug := ""
	if b.Platform != nil {
		slug = b.Platform.Slug
	}
	file := &ExportFile{
		Name:        report.ChecklistFilename(slug, b.Version),
		ContentType: utils.XLSXContentType,
		Data:        data,
	}
	s.finish(ctx, ExportChecklist, fmt.Sprintf("benchmark-%d", benchmarkID), file, start, map[string]interface{}{
		"benchmark_id": benchmarkID,
		"checks":       len(checks),
		"level":        f.Level,
		"scored_only":  f.ScoredOnly,
	})
	return file, nil
}

// Audit renders an audit report
func (s *ExportService) Audit(ctx context.Context, userID, sessionID int64) (*ExportFile, error) {
	start := time.Now()

	detail, err := s.audits.GetDetail(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}

	auditor, err := s.users.GetByID(ctx, detail.Session.UserID)
	if err != nil {
		return nil, err
	}

	data, err := report.Audit(report.AuditInput{
		Session:   detail.Session,
		Benchmark: detail.Benchmark,
		Auditor:   auditor,
		Results:   detail.Results,
		Summary:   detail.Summary,
	})
	if err != nil {
		s.logger.ErrorWithErr(err, "Failed to render audit report")
		return nil, errors.ReportError(ExportAudit, err)
	}

	file := &ExportFile{
		Name:        report.AuditFilename(detail.Session.TargetName, detail.Session.StartedAt),
		ContentType: utils.XLSXContentType,
		Data:        data,
	}
	scope := fmt.Sprintf("user-%d/session-%d", detail.Session.UserID, sessionID)
	s.finish(ctx, ExportAudit, scope, file, start, map[string]interface{}{
		"session_id": sessionID,
		"user_id":    userID,
		"results":    len(detail.Results),
	})
	return file, nil
}

// finish archives the file under scope and records the export. Archive
// failures are logged; the download still succeeds.
func (s *ExportService) finish(ctx context.Context, kind, scope string, file *ExportFile, start time.Time, fields map[string]interface{}) {
	key := archive.Key(s.archivePrefix, kind, scope, start, file.Name)
	if err := s.store.Put(ctx, key, file.Data, file.ContentType); err != nil {
		s.logger.WithFields(map[string]interface{}{
			"backend": s.store.Name(),
			"key":     key,
		}).ErrorWithErr(err, "Failed to archive report")
	}

	metrics.RecordReportExport(kind, time.Since(start))

	fields["kind"] = kind
	fields["file"] = file.Name
	fields["archive_key"] = key
	fields["bytes"] = len(file.Data)
	s.logger.WithFields(fields).Info("Report exported")
}
