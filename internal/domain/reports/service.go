package reports

import (
	"context"
	"sort"

	"rezerve/internal/core/apperror"
	"rezerve/internal/core/id"
	"rezerve/internal/core/types"
	"rezerve/internal/domain/catalogs/branch"
	"rezerve/internal/domain/catalogs/customer"
	"rezerve/internal/domain/catalogs/staff"
)

// BranchLister enumerates branches for comparisons.
type BranchLister interface {
	GetByID(ctx context.Context, branchID id.ID) (*branch.Branch, error)
	All(ctx context.Context) ([]*branch.Branch, error)
}

// StaffLister enumerates a branch's staff for performance views.
type StaffLister interface {
	ListByBranch(ctx context.Context, branchID id.ID) ([]*staff.Staff, error)
}

// CustomerGetter loads customers for the stats view.
type CustomerGetter interface {
	GetByID(ctx context.Context, customerID id.ID) (*customer.Customer, error)
}

// Service is the aggregation engine. Branch summaries, comparisons,
// staff reports and the monthly archiver all go through it so their
// numbers can never drift apart.
type Service struct {
	repo      Repository
	branches  BranchLister
	staff     StaffLister
	customers CustomerGetter
}

// NewService creates the aggregation engine.
func NewService(repo Repository, branches BranchLister, staffLister StaffLister, customers CustomerGetter) *Service {
	return &Service{
		repo:      repo,
		branches:  branches,
		staff:     staffLister,
		customers: customers,
	}
}

// compose applies the shared composition rules to raw sums.
func compose(raw RawAggregate) AggregateResult {
	res := AggregateResult{
		ActiveCount:      raw.ActiveCount,
		CanceledCount:    raw.CanceledCount,
		ReservationCount: raw.ActiveCount + raw.CanceledCount,
		TotalGuests:      raw.TotalGuests,
		ActiveRevenue:    raw.ActiveRevenue,
		CanceledRevenue:  raw.CanceledRevenue,
		TotalRevenue:     raw.ActiveRevenue.Add(raw.CanceledRevenue),
		AvgPrice:         types.Zero(),
		AvgGuests:        types.Zero(),
	}
	if raw.ActiveCount > 0 {
		n := types.NewMoney(float64(raw.ActiveCount))
		res.AvgPrice = raw.ActiveRevenue.Div(n).Round(2)
		res.AvgGuests = types.NewMoney(float64(raw.TotalGuests)).Div(n).Round(2)
	}
	return res
}

// Aggregate computes the rollup for a scope over a period.
func (s *Service) Aggregate(ctx context.Context, scope Scope, entityID id.ID, period Range) (AggregateResult, error) {
	switch scope {
	case ScopeGlobal, ScopeBranch, ScopeStaff:
	default:
		return AggregateResult{}, apperror.NewValidation("unknown aggregate scope").
			WithDetail("scope", string(scope))
	}
	raw, err := s.repo.Aggregate(ctx, scope, entityID, period)
	if err != nil {
		return AggregateResult{}, err
	}
	return compose(raw), nil
}

// CompareBranches returns per-branch aggregates for the period plus
// each branch's revenue share of the grand total (0 when total is 0).
func (s *Service) CompareBranches(ctx context.Context, period Range) ([]BranchComparisonRow, error) {
	branches, err := s.branches.All(ctx)
	if err != nil {
		return nil, err
	}

	raws, err := s.repo.AggregateByBranch(ctx, period)
	if err != nil {
		return nil, err
	}

	grandTotal := types.Zero()
	rows := make([]BranchComparisonRow, 0, len(branches))
	for _, b := range branches {
		agg := compose(raws[b.ID])
		grandTotal = grandTotal.Add(agg.TotalRevenue)
		rows = append(rows, BranchComparisonRow{
			BranchID:        b.ID,
			BranchName:      b.Name,
			AggregateResult: agg,
		})
	}

	for i := range rows {
		rows[i].RevenuePercentage = types.Ratio(rows[i].TotalRevenue, grandTotal)
	}

	sort.Slice(rows, func(i, j int) bool {
		return rows[i].TotalRevenue.GreaterThan(rows[j].TotalRevenue)
	})
	return rows, nil
}

// StaffPerformance returns per-staff aggregates within a branch.
func (s *Service) StaffPerformance(ctx context.Context, branchID id.ID, period Range) ([]StaffPerformanceRow, error) {
	if _, err := s.branches.GetByID(ctx, branchID); err != nil {
		return nil, err
	}

	members, err := s.staff.ListByBranch(ctx, branchID)
	if err != nil {
		return nil, err
	}

	raws, err := s.repo.AggregateByStaff(ctx, branchID, period)
	if err != nil {
		return nil, err
	}

	rows := make([]StaffPerformanceRow, 0, len(members))
	for _, m := range members {
		rows = append(rows, StaffPerformanceRow{
			StaffID:         m.ID,
			StaffName:       m.Name,
			AggregateResult: compose(raws[m.ID]),
		})
	}

	sort.Slice(rows, func(i, j int) bool {
		return rows[i].TotalRevenue.GreaterThan(rows[j].TotalRevenue)
	})
	return rows, nil
}

// CustomerStats returns the customer analytics view.
// Anonymized customers report zeroes: their history stays in revenue
// aggregates but is no longer attributable to a person.
func (s *Service) CustomerStats(ctx context.Context, customerID id.ID) (CustomerStats, error) {
	c, err := s.customers.GetByID(ctx, customerID)
	if err != nil {
		return CustomerStats{}, err
	}
	if c.Anonymized {
		return CustomerStats{
			CustomerID:    customerID,
			TotalSpending: types.Zero(),
			AvgGroupSize:  types.Zero(),
		}, nil
	}
	return s.repo.CustomerStats(ctx, customerID)
}
