package draft

import (
	"context"
	"time"
)

type Repository interface {
	Get(ctx context.Context, id string) (*State, error)
	Save(ctx context.Context, s *State) error
	Delete(ctx context.Context, s *State) error
	ListByVendor(ctx context.Context, vendorID string) ([]State, error)
}

// Locker serializes writers of one draft.
type Locker interface {
	AcquireLock(ctx context.Context, key, value string, ttl time.Duration) (bool, error)
	ReleaseLock(ctx context.Context, key, value string) error
}
