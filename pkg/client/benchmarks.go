package client

import (
	"context"
	"fmt"
)

// BenchmarkService handles benchmark catalog operations
type BenchmarkService struct {
	client *Client
}

// List retrieves every benchmark with its platform and check count
func (s *BenchmarkService) List(ctx context.Context) ([]*Benchmark, error) {
	var benchmarks []*Benchmark
	if err := s.client.doRequest(ctx, "GET", "/api/v1/benchmarks", nil, &benchmarks); err != nil {
		return nil, err
	}
	return benchmarks, nil
}

// Get retrieves a benchmark with its top-level sections
func (s *BenchmarkService) Get(ctx context.Context, id int64) (*BenchmarkDetail, error) {
	var detail BenchmarkDetail
	path := fmt.Sprintf("/api/v1/benchmarks/%d", id)
	if err := s.client.doRequest(ctx, "GET", path, nil, &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}
