package i

import (
	"context"

	"github.com/beka-birhanu/vinom-structures/catalog"
	dmn "github.com/beka-birhanu/vinom-structures/domain"
	"github.com/google/uuid"
)

// GenerateRequest describes a batch of layouts to generate.
// Zero fields fall back to the service defaults.
type GenerateRequest struct {
	Width           int
	Depth           int
	Tries           int
	TrialMultiplier int
	Seed            int64 // 0 draws a seed from the clock
}

// LayoutService generates, stores and retrieves layout batches.
type LayoutService interface {
	Generate(ctx context.Context, req GenerateRequest) (*dmn.Batch, error)
	Batch(id uuid.UUID) (*dmn.Batch, error)
	Recent(limit int) ([]*dmn.Batch, error)
	Structures() []catalog.Structure
}
