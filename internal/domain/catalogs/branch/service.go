package branch

import (
	"context"
	"fmt"

	"rezerve/internal/core/apperror"
	"rezerve/internal/core/id"
	"rezerve/internal/core/tx"
	"rezerve/internal/domain"
	"rezerve/internal/domain/audit"
)

// ReservationCounter reports how many reservations reference a branch.
// Implemented by the reservation repository.
type ReservationCounter interface {
	CountByBranch(ctx context.Context, branchID id.ID) (int, error)
}

// StaffStore removes the staff rows of a deleted branch.
// Implemented by the staff repository.
type StaffStore interface {
	DeleteByBranch(ctx context.Context, branchID id.ID) (int, error)
}

// Service provides branch business logic.
type Service struct {
	*domain.CatalogService[*Branch]
	txManager tx.Manager
	auditor   *audit.Service
}

// NewService creates the branch service.
// Deleting a branch is blocked while any reservation references it:
// revenue history is never destroyed by catalog maintenance. A branch
// without reservations takes its staff rows with it.
func NewService(
	repo domain.CatalogRepository[*Branch],
	txManager tx.Manager,
	reservations ReservationCounter,
	staffRows StaffStore,
	auditor *audit.Service,
) *Service {
	svc := &Service{
		CatalogService: domain.NewCatalogService(domain.CatalogServiceConfig[*Branch]{
			Repo:       repo,
			TxManager:  txManager,
			EntityName: "Branch",
		}),
		txManager: txManager,
		auditor:   auditor,
	}

	svc.Hooks().On(domain.BeforeDelete, func(ctx context.Context, b *Branch) error {
		count, err := reservations.CountByBranch(ctx, b.ID)
		if err != nil {
			return err
		}
		if count > 0 {
			return apperror.NewBusinessRule(apperror.CodeBranchInUse,
				"branch has reservations and cannot be deleted").
				WithDetail("branch_id", b.ID.String()).
				WithDetail("reservation_count", count)
		}
		return nil
	})

	// Runs after the reservation guard, inside the delete transaction.
	svc.Hooks().On(domain.BeforeDelete, func(ctx context.Context, b *Branch) error {
		removed, err := staffRows.DeleteByBranch(ctx, b.ID)
		if err != nil {
			return err
		}
		if removed > 0 {
			entry := audit.NewEntry(audit.LogTypeSystem, audit.ActionDelete,
				fmt.Sprintf("%d staff removed with branch %s", removed, b.Name)).
				WithBranch(b.ID)
			return auditor.Log(ctx, entry)
		}
		return nil
	})

	svc.Hooks().On(domain.AfterCreate, func(ctx context.Context, b *Branch) error {
		auditor.TryLog(ctx, audit.NewEntry(audit.LogTypeSystem, audit.ActionCreate,
			"branch created: "+b.Name).WithBranch(b.ID))
		return nil
	})

	svc.Hooks().On(domain.AfterDelete, func(ctx context.Context, b *Branch) error {
		auditor.TryLog(ctx, audit.NewEntry(audit.LogTypeSystem, audit.ActionDelete,
			"branch deleted: "+b.Name))
		return nil
	})

	return svc
}

// Delete removes a branch and its staff rows in one transaction.
func (s *Service) Delete(ctx context.Context, branchID id.ID) error {
	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.CatalogService.Delete(ctx, branchID)
	})
}

// All returns every branch ordered by name.
func (s *Service) All(ctx context.Context) ([]*Branch, error) {
	result, err := s.Repo().List(ctx, domain.ListFilter{OrderBy: "name", Limit: 1000})
	if err != nil {
		return nil, err
	}
	return result.Items, nil
}

// FindByChatID resolves the branch bound to a messaging channel.
// Used when routing inbound bot commands.
func (s *Service) FindByChatID(ctx context.Context, chatID string) (*Branch, error) {
	b, err := s.CatalogService.Repo().FindOne(ctx, map[string]any{"chat_id": chatID})
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound("Branch", chatID)
		}
		return nil, err
	}
	return b, nil
}
