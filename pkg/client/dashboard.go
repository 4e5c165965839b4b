package client

import "context"

// Dashboard is the catalog overview and the caller's recent sessions
type Dashboard struct {
	Platforms      []*Platform  `json:"platforms"`
	Benchmarks     []*Benchmark `json:"benchmarks"`
	TotalChecks    int64        `json:"total_checks"`
	RecentSessions []*Session   `json:"recent_sessions"`
}

// Dashboard retrieves the landing page summary
func (c *Client) Dashboard(ctx context.Context) (*Dashboard, error) {
	var d Dashboard
	if err := c.doRequest(ctx, "GET", "/api/v1/dashboard", nil, &d); err != nil {
		return nil, err
	}
	return &d, nil
}
