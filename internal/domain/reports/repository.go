package reports

import (
	"context"

	"rezerve/internal/core/id"
	"rezerve/internal/core/types"
)

// RawAggregate is what the store computes per scope: plain counts and
// sums the service composes into an AggregateResult.
type RawAggregate struct {
	ActiveCount     int         `db:"active_count"`
	CanceledCount   int         `db:"canceled_count"`
	TotalGuests     int         `db:"total_guests"`
	ActiveRevenue   types.Money `db:"active_revenue"`
	CanceledRevenue types.Money `db:"canceled_revenue"`
}

// Repository defines the read-side queries of the aggregation engine.
// Implementations read the entity store directly and never cache.
type Repository interface {
	// Aggregate computes the rollup for one scope/id over a range.
	// entityID is ignored for ScopeGlobal.
	Aggregate(ctx context.Context, scope Scope, entityID id.ID, period Range) (RawAggregate, error)

	// AggregateByBranch computes rollups for every branch in one pass.
	AggregateByBranch(ctx context.Context, period Range) (map[id.ID]RawAggregate, error)

	// AggregateByStaff computes rollups for every staff member of a branch.
	AggregateByStaff(ctx context.Context, branchID id.ID, period Range) (map[id.ID]RawAggregate, error)

	// CustomerStats reads the customer analytics row (active rows only,
	// PAID-based spending, preferred payment, group sizes, last visit).
	CustomerStats(ctx context.Context, customerID id.ID) (CustomerStats, error)
}
