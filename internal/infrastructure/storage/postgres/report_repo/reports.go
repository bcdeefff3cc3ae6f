// Package report_repo provides the PostgreSQL implementation of the
// reporting queries.
package report_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"rezerve/internal/core/id"
	"rezerve/internal/domain/reports"
	"rezerve/internal/infrastructure/storage/postgres"
)

const reservationTable = "reservations"

// aggregateCols computes one RawAggregate row. Guests and active revenue
// come from active rows only; canceled revenue sums retained advances.
const aggregateCols = `
	COUNT(*) FILTER (WHERE NOT is_canceled) AS active_count,
	COUNT(*) FILTER (WHERE is_canceled) AS canceled_count,
	COALESCE(SUM(num_people) FILTER (WHERE NOT is_canceled), 0) AS total_guests,
	COALESCE(SUM(total_price) FILTER (WHERE NOT is_canceled), 0) AS active_revenue,
	COALESCE(SUM(cancel_revenue) FILTER (WHERE is_canceled AND cancel_revenue > 0), 0) AS canceled_revenue`

// ReportRepo implements reports.Repository.
type ReportRepo struct {
	txManager *postgres.TxManager
	builder   squirrel.StatementBuilderType
}

// NewReportRepo creates a new report repository.
func NewReportRepo(txManager *postgres.TxManager) *ReportRepo {
	return &ReportRepo{
		txManager: txManager,
		builder:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (r *ReportRepo) querier(ctx context.Context) postgres.Querier {
	return r.txManager.GetQuerier(ctx)
}

func applyPeriod(q squirrel.SelectBuilder, period reports.Range) squirrel.SelectBuilder {
	if period.Start != nil {
		q = q.Where(squirrel.GtOrEq{"reservation_date": *period.Start})
	}
	if period.End != nil {
		q = q.Where(squirrel.LtOrEq{"reservation_date": *period.End})
	}
	return q
}

// Aggregate computes the rollup for one scope/id over a range.
func (r *ReportRepo) Aggregate(ctx context.Context, scope reports.Scope, entityID id.ID, period reports.Range) (reports.RawAggregate, error) {
	q := r.builder.
		Select(aggregateCols).
		From(reservationTable)

	switch scope {
	case reports.ScopeGlobal:
		// no entity filter
	case reports.ScopeBranch:
		q = q.Where(squirrel.Eq{"branch_id": entityID})
	case reports.ScopeStaff:
		q = q.Where(squirrel.Eq{"staff_id": entityID})
	default:
		return reports.RawAggregate{}, fmt.Errorf("unknown scope: %s", scope)
	}

	q = applyPeriod(q, period)

	sql, args, err := q.ToSql()
	if err != nil {
		return reports.RawAggregate{}, fmt.Errorf("build aggregate: %w", err)
	}

	var agg reports.RawAggregate
	if err := pgxscan.Get(ctx, r.querier(ctx), &agg, sql, args...); err != nil {
		return reports.RawAggregate{}, fmt.Errorf("aggregate: %w", err)
	}

	return agg, nil
}

type groupedAggregate struct {
	GroupID id.ID `db:"group_id"`
	reports.RawAggregate
}

func (r *ReportRepo) aggregateGrouped(ctx context.Context, q squirrel.SelectBuilder) (map[id.ID]reports.RawAggregate, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build grouped aggregate: %w", err)
	}

	var rows []groupedAggregate
	if err := pgxscan.Select(ctx, r.querier(ctx), &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("grouped aggregate: %w", err)
	}

	result := make(map[id.ID]reports.RawAggregate, len(rows))
	for _, row := range rows {
		result[row.GroupID] = row.RawAggregate
	}
	return result, nil
}

// AggregateByBranch computes rollups for every branch in one pass.
func (r *ReportRepo) AggregateByBranch(ctx context.Context, period reports.Range) (map[id.ID]reports.RawAggregate, error) {
	q := r.builder.
		Select("branch_id AS group_id," + aggregateCols).
		From(reservationTable).
		GroupBy("branch_id")

	return r.aggregateGrouped(ctx, applyPeriod(q, period))
}

// AggregateByStaff computes rollups for every staff member of a branch.
func (r *ReportRepo) AggregateByStaff(ctx context.Context, branchID id.ID, period reports.Range) (map[id.ID]reports.RawAggregate, error) {
	q := r.builder.
		Select("staff_id AS group_id," + aggregateCols).
		From(reservationTable).
		Where(squirrel.Eq{"branch_id": branchID}).
		GroupBy("staff_id")

	return r.aggregateGrouped(ctx, applyPeriod(q, period))
}

// CustomerStats reads the customer analytics row. Visits, group sizes and
// last visit come from active reservations; spending counts fully paid
// rows only.
func (r *ReportRepo) CustomerStats(ctx context.Context, customerID id.ID) (reports.CustomerStats, error) {
	const query = `
		SELECT
			COUNT(*) AS total_visits,
			COALESCE(SUM(total_price) FILTER (WHERE payment_status = 'PAID'), 0) AS total_spending,
			COALESCE(MODE() WITHIN GROUP (ORDER BY payment_type), '') AS preferred_payment,
			COALESCE(AVG(num_people), 0) AS avg_group_size,
			MAX(reservation_date) AS last_visit
		FROM reservations
		WHERE customer_id = $1 AND NOT is_canceled`

	stats := reports.CustomerStats{CustomerID: customerID}
	if err := pgxscan.Get(ctx, r.querier(ctx), &stats, query, customerID); err != nil {
		return reports.CustomerStats{}, fmt.Errorf("customer stats: %w", err)
	}

	return stats, nil
}
