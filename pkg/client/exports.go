package client

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

// ExportService downloads xlsx workbooks
type ExportService struct {
	client *Client
}

// ChecklistOptions filters the checks of a checklist workbook
type ChecklistOptions struct {
	Level      int  // 1 or 2, 0 for every level
	ScoredOnly bool // only scored checks
}

// Checklist downloads the blank checklist workbook of a benchmark
func (s *ExportService) Checklist(ctx context.Context, benchmarkID int64, opts *ChecklistOptions) (*Download, error) {
	path := fmt.Sprintf("/api/v1/export/benchmarks/%d", benchmarkID)
	if opts != nil {
		params := url.Values{}
		if opts.Level > 0 {
			params.Set("level", strconv.Itoa(opts.Level))
		}
		if opts.ScoredOnly {
			params.Set("scored_only", "true")
		}
		if len(params) > 0 {
			path += "?" + params.Encode()
		}
	}
	return s.client.doDownload(ctx, path)
}

// Audit downloads the report workbook of an audit session
func (s *ExportService) Audit(ctx context.Context, sessionID int64) (*Download, error) {
	path := fmt.Sprintf("/api/v1/export/audits/%d", sessionID)
	return s.client.doDownload(ctx, path)
}
