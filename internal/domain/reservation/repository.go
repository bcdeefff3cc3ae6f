package reservation

import (
	"context"
	"time"

	"rezerve/internal/core/id"
)

// Filter narrows reservation listings.
type Filter struct {
	BranchID   *id.ID
	StaffID    *id.ID
	CustomerID *id.ID
	From       *time.Time
	To         *time.Time
	// IncludeCanceled keeps canceled rows in the listing (default: only active)
	IncludeCanceled bool
	Limit           int
	Offset          int
}

// Repository defines reservation storage operations.
// Create and Update surface active-slot uniqueness violations as
// SLOT_TAKEN conflict errors.
type Repository interface {
	Create(ctx context.Context, r *Reservation) error
	GetByID(ctx context.Context, reservationID id.ID) (*Reservation, error)

	// Update writes only while the stored row is still active. A row
	// canceled by a concurrent transaction is never overwritten; the
	// write fails with RESERVATION_CANCELED instead.
	Update(ctx context.Context, r *Reservation) error
	List(ctx context.Context, filter Filter) ([]*Reservation, int, error)

	// ListUpcoming returns active reservations of a branch from the given
	// instant onward, soonest first.
	ListUpcoming(ctx context.Context, branchID id.ID, from time.Time, limit int) ([]*Reservation, error)

	// CountByBranch counts all reservations (canceled included) of a branch.
	CountByBranch(ctx context.Context, branchID id.ID) (int, error)

	// CountByStaff counts all reservations (canceled included) of a staff member.
	CountByStaff(ctx context.Context, staffID id.ID) (int, error)

	// Customer coupling (cascade delete, unlink, PII scrub)
	ListIDsByCustomer(ctx context.Context, customerID id.ID) ([]id.ID, error)
	DeleteByCustomer(ctx context.Context, customerID id.ID) (int, error)
	UnlinkCustomer(ctx context.Context, customerID id.ID) (int, error)
	ScrubCustomerPII(ctx context.Context, customerID id.ID, name, phone string) (int, error)
}
