package audit

import (
	"context"
)

// Repository defines audit log storage operations.
// Record participates in the caller's transaction when one is active.
type Repository interface {
	Record(ctx context.Context, entry Entry) error
	List(ctx context.Context, filter Filter) ([]Entry, int, error)
}
