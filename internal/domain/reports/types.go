package reports

import (
	"time"

	"rezerve/internal/core/id"
	"rezerve/internal/core/types"
)

// Scope selects what an aggregate is computed over.
type Scope string

const (
	ScopeGlobal Scope = "global"
	ScopeBranch Scope = "branch"
	ScopeStaff  Scope = "staff"
)

// AggregateResult is the shared rollup every reporting surface uses.
//
// Composition rules:
//   - guests and active revenue come from active rows only
//   - canceled revenue sums retained advances (cancel_revenue > 0)
//   - total_revenue = active_revenue + canceled_revenue
//   - averages divide by active_count and are 0 when it is 0
type AggregateResult struct {
	ActiveCount      int         `json:"activeCount"`
	CanceledCount    int         `json:"canceledCount"`
	ReservationCount int         `json:"reservationCount"`
	TotalGuests      int         `json:"totalGuests"`
	ActiveRevenue    types.Money `json:"activeRevenue"`
	CanceledRevenue  types.Money `json:"canceledRevenue"`
	TotalRevenue     types.Money `json:"totalRevenue"`
	AvgPrice         types.Money `json:"avgPrice"`
	AvgGuests        types.Money `json:"avgGuests"`
}

// BranchComparisonRow is one branch's aggregate within a comparison,
// plus its share of the grand total revenue.
type BranchComparisonRow struct {
	BranchID   id.ID  `json:"branchId"`
	BranchName string `json:"branchName"`
	AggregateResult
	RevenuePercentage types.Money `json:"revenuePercentage"`
}

// StaffPerformanceRow is one staff member's aggregate within a branch.
type StaffPerformanceRow struct {
	StaffID   id.ID  `json:"staffId"`
	StaffName string `json:"staffName"`
	AggregateResult
}

// CustomerStats is the customer-facing analytics view.
// Anonymized customers report zeroes across the board.
type CustomerStats struct {
	CustomerID       id.ID       `json:"customerId"`
	TotalVisits      int         `json:"totalVisits"`
	TotalSpending    types.Money `json:"totalSpending"`
	PreferredPayment string      `json:"preferredPayment,omitempty"`
	AvgGroupSize     types.Money `json:"avgGroupSize"`
	LastVisit        *time.Time  `json:"lastVisit,omitempty"`
}
