package i

import (
	"context"

	"github.com/google/uuid"
)

// LayoutCache remembers which batch a deterministic request already produced.
type LayoutCache interface {
	// BatchID returns the batch cached under key, if any.
	BatchID(ctx context.Context, key string) (uuid.UUID, bool, error)

	// SetBatchID caches id under key.
	SetBatchID(ctx context.Context, key string, id uuid.UUID) error

	// Lock acquires an exclusive lock on key. The returned func releases it
	// and reports a lock that expired before release.
	Lock(ctx context.Context, key string) (func() error, error)
}
