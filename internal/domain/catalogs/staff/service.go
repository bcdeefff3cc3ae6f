package staff

import (
	"context"

	"rezerve/internal/core/apperror"
	"rezerve/internal/core/id"
	"rezerve/internal/core/tx"
	"rezerve/internal/domain"
)

// BranchChecker verifies branch existence.
type BranchChecker interface {
	Exists(ctx context.Context, branchID id.ID) (bool, error)
}

// ReservationCounter reports how many reservations reference a staff member.
type ReservationCounter interface {
	CountByStaff(ctx context.Context, staffID id.ID) (int, error)
}

// Repository extends the catalog contract with branch-scoped listing.
type Repository interface {
	domain.CatalogRepository[*Staff]

	ListByBranch(ctx context.Context, branchID id.ID) ([]*Staff, error)
}

// Service provides staff business logic.
type Service struct {
	*domain.CatalogService[*Staff]
	repo Repository
}

// NewService creates the staff service.
// Staff with reservation history cannot be deleted.
func NewService(
	repo Repository,
	txManager tx.Manager,
	branches BranchChecker,
	reservations ReservationCounter,
) *Service {
	svc := &Service{
		CatalogService: domain.NewCatalogService(domain.CatalogServiceConfig[*Staff]{
			Repo:       repo,
			TxManager:  txManager,
			EntityName: "Staff",
		}),
		repo: repo,
	}

	checkBranch := func(ctx context.Context, st *Staff) error {
		exists, err := branches.Exists(ctx, st.BranchID)
		if err != nil {
			return err
		}
		if !exists {
			return apperror.NewNotFound("Branch", st.BranchID.String())
		}
		return nil
	}
	svc.Hooks().On(domain.BeforeCreate, checkBranch)
	svc.Hooks().On(domain.BeforeUpdate, checkBranch)

	svc.Hooks().On(domain.BeforeDelete, func(ctx context.Context, st *Staff) error {
		count, err := reservations.CountByStaff(ctx, st.ID)
		if err != nil {
			return err
		}
		if count > 0 {
			return apperror.NewBusinessRule(apperror.CodeStaffInUse,
				"staff member has reservations and cannot be deleted").
				WithDetail("staff_id", st.ID.String()).
				WithDetail("reservation_count", count)
		}
		return nil
	})

	return svc
}

// ListByBranch returns all staff of a branch ordered by name.
func (s *Service) ListByBranch(ctx context.Context, branchID id.ID) ([]*Staff, error) {
	return s.repo.ListByBranch(ctx, branchID)
}
