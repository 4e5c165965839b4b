package dto

import "github.com/pratik-mahalle/cisaudit/internal/domain/catalog"

// CheckHitsResponse wraps a search so clients can tell an empty result from a capped one
type CheckHitsResponse struct {
	Query   string              `json:"query"`
	Results []*catalog.CheckHit `json:"results"`
	Count   int                 `json:"count"`
	Limit   int                 `json:"limit"`
}
