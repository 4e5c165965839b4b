package client

import "context"

// Health calls the liveness probe
func (c *Client) Health(ctx context.Context) (*HealthResponse, error) {
	var health HealthResponse
	if err := c.doRequest(ctx, "GET", "/healthz", nil, &health); err != nil {
		return nil, err
	}
	return &health, nil
}

// Ready calls the readiness probe. A server that is up but has no schema or
// no benchmarks loaded answers with a 503 APIError.
func (c *Client) Ready(ctx context.Context) (*ReadinessResponse, error) {
	var ready ReadinessResponse
	if err := c.doRequest(ctx, "GET", "/readyz", nil, &ready); err != nil {
		return nil, err
	}
	return &ready, nil
}

// Ping is a simple connectivity test
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.Health(ctx)
	return err
}
