package client

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

// AuditService handles audit session operations
type AuditService struct {
	client *Client
}

// CreateAuditRequest starts an audit session
type CreateAuditRequest struct {
	BenchmarkID int64  `json:"benchmark_id"`
	TargetName  string `json:"target_name,omitempty"`
	TargetIP    string `json:"target_ip,omitempty"`
	Notes       string `json:"notes,omitempty"`
}

// CreateAuditResponse is the new session and how many results were seeded
type CreateAuditResponse struct {
	Session       *Session `json:"session"`
	ChecksCreated int      `json:"checks_created"`
}

// UpdateResultRequest records the outcome of one check
type UpdateResultRequest struct {
	Status  string `json:"status"`
	Finding string `json:"finding"`
}

// List retrieves the caller's audit sessions, newest first
func (s *AuditService) List(ctx context.Context, opts *ListOptions) (*SessionList, error) {
	path := "/api/v1/audits"
	if opts != nil {
		params := url.Values{}
		if opts.Page > 0 {
			params.Set("page", strconv.Itoa(opts.Page))
		}
		if opts.PageSize > 0 {
			params.Set("page_size", strconv.Itoa(opts.PageSize))
		}
		if len(params) > 0 {
			path += "?" + params.Encode()
		}
	}

	var list SessionList
	if err := s.client.doRequest(ctx, "GET", path, nil, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// Get retrieves a session with its results and summary
func (s *AuditService) Get(ctx context.Context, id int64) (*AuditDetail, error) {
	var detail AuditDetail
	path := fmt.Sprintf("/api/v1/audits/%d", id)
	if err := s.client.doRequest(ctx, "GET", path, nil, &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

// Create starts a new audit session against a benchmark
func (s *AuditService) Create(ctx context.Context, req CreateAuditRequest) (*CreateAuditResponse, error) {
	var resp CreateAuditResponse
	if err := s.client.doRequest(ctx, "POST", "/api/v1/audits", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// UpdateResult records the status and finding of a check in a session
func (s *AuditService) UpdateResult(ctx context.Context, sessionID, checkID int64, req UpdateResultRequest) (*Result, error) {
	var result Result
	path := fmt.Sprintf("/api/v1/audits/%d/checks/%d", sessionID, checkID)
	if err := s.client.doRequest(ctx, "PUT", path, req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Complete marks a session as completed
func (s *AuditService) Complete(ctx context.Context, id int64) (*Session, error) {
	var session Session
	path := fmt.Sprintf("/api/v1/audits/%d/complete", id)
	if err := s.client.doRequest(ctx, "POST", path, nil, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// Delete removes a session and its results
func (s *AuditService) Delete(ctx context.Context, id int64) error {
	path := fmt.Sprintf("/api/v1/audits/%d", id)
	return s.client.doRequest(ctx, "DELETE", path, nil, nil)
}
