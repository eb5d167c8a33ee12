// Package layoutapi exposes layout generation and retrieval over HTTP.
package layoutapi

import (
	"time"

	"github.com/beka-birhanu/vinom-structures/catalog"
	dmn "github.com/beka-birhanu/vinom-structures/domain"
	"github.com/google/uuid"
)

// GenerateLayoutRequest represents a request to generate a batch of layouts.
// Omitted fields use the server defaults.
type GenerateLayoutRequest struct {
	Width           int   `json:"width" binding:"omitempty,min=1"`
	Depth           int   `json:"depth" binding:"omitempty,min=1"`
	Tries           int   `json:"tries" binding:"omitempty,min=1"`
	TrialMultiplier int   `json:"trial_multiplier" binding:"omitempty,min=1"`
	Seed            int64 `json:"seed"`
}

// BatchSummaryResponse describes a batch without its placements.
type BatchSummaryResponse struct {
	ID        uuid.UUID `json:"id"`
	Seed      int64     `json:"seed"`
	Width     int       `json:"width"`
	Depth     int       `json:"depth"`
	Tries     int       `json:"tries"`
	CreatedAt time.Time `json:"created_at"`
}

// StructuresResponse lists the catalog.
type StructuresResponse struct {
	Structures []catalog.Structure `json:"structures"`
}

func newBatchSummary(b *dmn.Batch) BatchSummaryResponse {
	return BatchSummaryResponse{
		ID:        b.ID,
		Seed:      b.Seed,
		Width:     b.Width,
		Depth:     b.Depth,
		Tries:     b.Tries,
		CreatedAt: b.CreatedAt,
	}
}
