package i

import (
	dmn "github.com/beka-birhanu/vinom-structures/domain"
	"github.com/google/uuid"
)

// LayoutRepo defines the interface for layout batch persistence operations.
type LayoutRepo interface {
	// Save inserts or replaces a batch in the repository.
	Save(batch *dmn.Batch) error

	// ByID retrieves a batch by its unique ID.
	// Returns ErrBatchNotFound if no batch has that ID.
	ByID(id uuid.UUID) (*dmn.Batch, error)

	// Recent returns up to limit batches, newest first.
	Recent(limit int64) ([]*dmn.Batch, error)
}
