package catalog_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"rezerve/internal/core/id"
	"rezerve/internal/domain/catalogs/staff"
	"rezerve/internal/infrastructure/storage/postgres"
)

const staffTable = "staff"

// StaffRepo implements staff.Repository.
type StaffRepo struct {
	*BaseCatalogRepo[*staff.Staff]
}

// NewStaffRepo creates a new staff repository.
func NewStaffRepo(txManager *postgres.TxManager) *StaffRepo {
	return &StaffRepo{
		BaseCatalogRepo: NewBaseCatalogRepo[*staff.Staff](
			txManager,
			staffTable,
			postgres.ExtractDBColumns[staff.Staff](),
			[]string{"name", "phone"},
			func() *staff.Staff { return &staff.Staff{} },
		),
	}
}

// DeleteByBranch removes every staff member of a branch. Runs inside the
// branch delete transaction so the branch row never loses its staff
// references alone.
func (r *StaffRepo) DeleteByBranch(ctx context.Context, branchID id.ID) (int, error) {
	q := r.Builder().
		Delete(staffTable).
		Where(squirrel.Eq{"branch_id": branchID})

	sql, args, err := q.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build delete: %w", err)
	}

	result, err := r.Querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return 0, fmt.Errorf("delete staff by branch: %w", err)
	}

	return int(result.RowsAffected()), nil
}

// ListByBranch returns all staff members assigned to a branch.
func (r *StaffRepo) ListByBranch(ctx context.Context, branchID id.ID) ([]*staff.Staff, error) {
	q := r.Builder().
		Select(postgres.ExtractDBColumns[staff.Staff]()...).
		From(staffTable).
		Where(squirrel.Eq{"branch_id": branchID}).
		OrderBy("name ASC")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var items []*staff.Staff
	if err := pgxscan.Select(ctx, r.Querier(ctx), &items, sql, args...); err != nil {
		return nil, fmt.Errorf("list staff by branch: %w", err)
	}

	return items, nil
}
