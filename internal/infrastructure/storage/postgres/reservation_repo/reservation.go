// Package reservation_repo provides the PostgreSQL reservation repository.
package reservation_repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgconn"

	"rezerve/internal/core/apperror"
	"rezerve/internal/core/id"
	"rezerve/internal/domain/reservation"
	"rezerve/internal/infrastructure/storage/postgres"
)

const reservationTable = "reservations"

// Repo implements reservation.Repository.
type Repo struct {
	txManager  *postgres.TxManager
	selectCols []string
}

// NewRepo creates a new reservation repository.
func NewRepo(txManager *postgres.TxManager) *Repo {
	return &Repo{
		txManager:  txManager,
		selectCols: postgres.ExtractDBColumns[reservation.Reservation](),
	}
}

func (r *Repo) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

func (r *Repo) querier(ctx context.Context) postgres.Querier {
	return r.txManager.GetQuerier(ctx)
}

func (r *Repo) baseSelect() squirrel.SelectBuilder {
	return r.builder().
		Select(r.selectCols...).
		From(reservationTable)
}

// mapSlotConflict converts an active-slot unique violation into a
// SLOT_TAKEN conflict.
func (r *Repo) mapSlotConflict(err error, res *reservation.Reservation) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" && pgErr.ConstraintName == "uq_active_slot" {
		return apperror.NewSlotTaken(
			res.BranchID.String(),
			res.Date.Format("2006-01-02"),
			res.Time.String(),
		).WithCause(err)
	}
	return nil
}

// Create inserts a new reservation.
func (r *Repo) Create(ctx context.Context, res *reservation.Reservation) error {
	data := postgres.StructToMap(res)

	filtered := make(map[string]any, len(r.selectCols))
	for _, col := range r.selectCols {
		if val, ok := data[col]; ok {
			filtered[col] = val
		}
	}

	q := r.builder().
		Insert(reservationTable).
		SetMap(filtered)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.querier(ctx).Exec(ctx, sql, args...); err != nil {
		if conflict := r.mapSlotConflict(err, res); conflict != nil {
			return conflict
		}
		return fmt.Errorf("insert reservation: %w", err)
	}

	return nil
}

// GetByID retrieves a reservation by ID.
func (r *Repo) GetByID(ctx context.Context, reservationID id.ID) (*reservation.Reservation, error) {
	res := &reservation.Reservation{}

	q := r.baseSelect().
		Where(squirrel.Eq{"id": reservationID}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	if err := pgxscan.Get(ctx, r.querier(ctx), res, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("reservation", reservationID.String())
		}
		return nil, fmt.Errorf("get reservation: %w", err)
	}

	return res, nil
}

// Update modifies an existing reservation. The write only lands while
// the stored row is still active, so a cancel committed by a concurrent
// transaction can never be overwritten: the loser gets
// RESERVATION_CANCELED instead.
func (r *Repo) Update(ctx context.Context, res *reservation.Reservation) error {
	data := postgres.StructToMap(res)

	filtered := make(map[string]any, len(r.selectCols))
	for _, col := range r.selectCols {
		if col == "id" || col == "created_at" {
			continue
		}
		if val, ok := data[col]; ok {
			filtered[col] = val
		}
	}

	q := r.builder().
		Update(reservationTable).
		SetMap(filtered).
		Where(squirrel.Eq{"id": res.ID, "is_canceled": false})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		if conflict := r.mapSlotConflict(err, res); conflict != nil {
			return conflict
		}
		return fmt.Errorf("update reservation: %w", err)
	}

	if result.RowsAffected() == 0 {
		// Row gone or already canceled; the follow-up read tells which.
		check := r.builder().
			Select("is_canceled").
			From(reservationTable).
			Where(squirrel.Eq{"id": res.ID})

		checkSQL, checkArgs, err := check.ToSql()
		if err != nil {
			return fmt.Errorf("build state check: %w", err)
		}

		var canceled bool
		if err := pgxscan.Get(ctx, r.querier(ctx), &canceled, checkSQL, checkArgs...); err != nil {
			if pgxscan.NotFound(err) {
				return apperror.NewNotFound("reservation", res.ID.String())
			}
			return fmt.Errorf("check reservation state: %w", err)
		}
		return apperror.NewReservationCanceled(res.ID.String())
	}

	return nil
}

// List retrieves reservations with filtering and pagination. Returns the
// page and the total count before pagination.
func (r *Repo) List(ctx context.Context, filter reservation.Filter) ([]*reservation.Reservation, int, error) {
	q := r.baseSelect()

	if filter.BranchID != nil {
		q = q.Where(squirrel.Eq{"branch_id": *filter.BranchID})
	}
	if filter.StaffID != nil {
		q = q.Where(squirrel.Eq{"staff_id": *filter.StaffID})
	}
	if filter.CustomerID != nil {
		q = q.Where(squirrel.Eq{"customer_id": *filter.CustomerID})
	}
	if filter.From != nil {
		q = q.Where(squirrel.GtOrEq{"reservation_date": *filter.From})
	}
	if filter.To != nil {
		q = q.Where(squirrel.LtOrEq{"reservation_date": *filter.To})
	}
	if !filter.IncludeCanceled {
		q = q.Where(squirrel.Eq{"is_canceled": false})
	}

	countQ := r.builder().
		Select("COUNT(*)").
		FromSelect(q, "sub")

	countSQL, countArgs, err := countQ.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build count query: %w", err)
	}

	querier := r.querier(ctx)
	var total int
	if err := querier.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count reservations: %w", err)
	}

	q = q.OrderBy("reservation_date DESC", "reservation_time DESC")
	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build query: %w", err)
	}

	var items []*reservation.Reservation
	if err := pgxscan.Select(ctx, querier, &items, sql, args...); err != nil {
		return nil, 0, fmt.Errorf("list reservations: %w", err)
	}

	return items, total, nil
}

// ListUpcoming returns active reservations of a branch from the given
// instant onward, soonest first.
func (r *Repo) ListUpcoming(ctx context.Context, branchID id.ID, from time.Time, limit int) ([]*reservation.Reservation, error) {
	q := r.baseSelect().
		Where(squirrel.Eq{"branch_id": branchID}).
		Where(squirrel.Eq{"is_canceled": false}).
		Where(squirrel.GtOrEq{"reservation_date": from.Truncate(24 * time.Hour)}).
		OrderBy("reservation_date ASC", "reservation_time ASC").
		Limit(uint64(limit))

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var items []*reservation.Reservation
	if err := pgxscan.Select(ctx, r.querier(ctx), &items, sql, args...); err != nil {
		return nil, fmt.Errorf("list upcoming: %w", err)
	}

	return items, nil
}

func (r *Repo) countWhere(ctx context.Context, cond squirrel.Eq) (int, error) {
	q := r.builder().
		Select("COUNT(*)").
		From(reservationTable).
		Where(cond)

	sql, args, err := q.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count: %w", err)
	}

	var count int
	if err := r.querier(ctx).QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count reservations: %w", err)
	}
	return count, nil
}

// CountByBranch counts all reservations of a branch, canceled included.
func (r *Repo) CountByBranch(ctx context.Context, branchID id.ID) (int, error) {
	return r.countWhere(ctx, squirrel.Eq{"branch_id": branchID})
}

// CountByStaff counts all reservations of a staff member, canceled included.
func (r *Repo) CountByStaff(ctx context.Context, staffID id.ID) (int, error) {
	return r.countWhere(ctx, squirrel.Eq{"staff_id": staffID})
}

// ListIDsByCustomer returns the IDs of all reservations linked to a customer.
func (r *Repo) ListIDsByCustomer(ctx context.Context, customerID id.ID) ([]id.ID, error) {
	q := r.builder().
		Select("id").
		From(reservationTable).
		Where(squirrel.Eq{"customer_id": customerID})

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var ids []id.ID
	if err := pgxscan.Select(ctx, r.querier(ctx), &ids, sql, args...); err != nil {
		return nil, fmt.Errorf("list reservation ids: %w", err)
	}

	return ids, nil
}

// DeleteByCustomer removes all reservations linked to a customer.
func (r *Repo) DeleteByCustomer(ctx context.Context, customerID id.ID) (int, error) {
	q := r.builder().
		Delete(reservationTable).
		Where(squirrel.Eq{"customer_id": customerID})

	sql, args, err := q.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build delete: %w", err)
	}

	result, err := r.querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return 0, fmt.Errorf("delete by customer: %w", err)
	}

	return int(result.RowsAffected()), nil
}

// UnlinkCustomer detaches reservations from a customer while keeping the
// denormalized contact fields in place.
func (r *Repo) UnlinkCustomer(ctx context.Context, customerID id.ID) (int, error) {
	q := r.builder().
		Update(reservationTable).
		Set("customer_id", nil).
		Where(squirrel.Eq{"customer_id": customerID})

	sql, args, err := q.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build update: %w", err)
	}

	result, err := r.querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return 0, fmt.Errorf("unlink customer: %w", err)
	}

	return int(result.RowsAffected()), nil
}

// ScrubCustomerPII overwrites the denormalized contact fields on every
// reservation linked to a customer.
func (r *Repo) ScrubCustomerPII(ctx context.Context, customerID id.ID, name, phone string) (int, error) {
	q := r.builder().
		Update(reservationTable).
		Set("customer_name", name).
		Set("customer_phone", phone).
		Where(squirrel.Eq{"customer_id": customerID})

	sql, args, err := q.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build update: %w", err)
	}

	result, err := r.querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return 0, fmt.Errorf("scrub customer pii: %w", err)
	}

	return int(result.RowsAffected()), nil
}
