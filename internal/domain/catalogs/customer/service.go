package customer

import (
	"context"
	"fmt"

	"rezerve/internal/core/apperror"
	"rezerve/internal/core/id"
	"rezerve/internal/core/tx"
	"rezerve/internal/domain"
	"rezerve/internal/domain/audit"
)

// DeleteMode selects what happens to a deleted customer's reservations.
type DeleteMode string

const (
	// DeleteModeCascade removes the customer's reservations too.
	DeleteModeCascade DeleteMode = "cascade"

	// DeleteModeUnlink keeps reservations with their denormalized
	// customer fields and clears the customer reference.
	DeleteModeUnlink DeleteMode = "unlink"
)

// Valid reports whether the mode is known.
func (m DeleteMode) Valid() bool {
	return m == DeleteModeCascade || m == DeleteModeUnlink
}

// Repository extends the catalog contract with phone-keyed operations.
type Repository interface {
	domain.CatalogRepository[*Customer]

	// GetByPhone retrieves a customer by exact phone match.
	GetByPhone(ctx context.Context, phone string) (*Customer, error)

	// FindOrCreateByPhone resolves a customer by unique phone, inserting
	// when absent. Safe under concurrent saves of the same phone.
	// Returns the customer and whether it was created.
	FindOrCreateByPhone(ctx context.Context, name, phone string) (*Customer, bool, error)
}

// ReservationStore is the reservation-side surface the customer service
// needs for cascade deletes, unlinking and PII scrubbing.
type ReservationStore interface {
	ListIDsByCustomer(ctx context.Context, customerID id.ID) ([]id.ID, error)
	DeleteByCustomer(ctx context.Context, customerID id.ID) (int, error)
	UnlinkCustomer(ctx context.Context, customerID id.ID) (int, error)
	ScrubCustomerPII(ctx context.Context, customerID id.ID, name, phone string) (int, error)
}

// Service provides customer business logic.
type Service struct {
	*domain.CatalogService[*Customer]
	repo         Repository
	reservations ReservationStore
	txManager    tx.Manager
	auditor      *audit.Service
}

// NewService creates the customer service.
func NewService(
	repo Repository,
	txManager tx.Manager,
	reservations ReservationStore,
	auditor *audit.Service,
) *Service {
	return &Service{
		CatalogService: domain.NewCatalogService(domain.CatalogServiceConfig[*Customer]{
			Repo:       repo,
			TxManager:  txManager,
			EntityName: "Customer",
		}),
		repo:         repo,
		reservations: reservations,
		txManager:    txManager,
		auditor:      auditor,
	}
}

// Resolve finds or creates the customer for a reservation save.
// Returns the customer and whether a new record was created.
func (s *Service) Resolve(ctx context.Context, name, phone string) (*Customer, bool, error) {
	candidate := New(name, phone)
	if err := candidate.Validate(ctx); err != nil {
		return nil, false, err
	}
	return s.repo.FindOrCreateByPhone(ctx, candidate.Name, candidate.Phone)
}

// GetByPhone retrieves a customer by phone.
func (s *Service) GetByPhone(ctx context.Context, phone string) (*Customer, error) {
	c, err := s.repo.GetByPhone(ctx, phone)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound("Customer", phone)
		}
		return nil, err
	}
	return c, nil
}

// DeleteWithMode removes a customer. Cascade mode also removes the
// customer's reservations, one audit entry per reservation; unlink mode
// keeps reservations with denormalized fields only.
func (s *Service) DeleteWithMode(ctx context.Context, customerID id.ID, mode DeleteMode) error {
	if !mode.Valid() {
		return apperror.NewValidation("unknown delete mode").WithDetail("mode", string(mode))
	}

	c, err := s.GetByID(ctx, customerID)
	if err != nil {
		return err
	}

	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		switch mode {
		case DeleteModeCascade:
			ids, err := s.reservations.ListIDsByCustomer(ctx, customerID)
			if err != nil {
				return err
			}
			for _, rid := range ids {
				entry := audit.NewEntry(audit.LogTypeReservation, audit.ActionDelete,
					fmt.Sprintf("reservation %s removed with customer %s", rid, c.Name))
				if err := s.auditor.Log(ctx, entry); err != nil {
					return err
				}
			}
			if _, err := s.reservations.DeleteByCustomer(ctx, customerID); err != nil {
				return err
			}
		case DeleteModeUnlink:
			if _, err := s.reservations.UnlinkCustomer(ctx, customerID); err != nil {
				return err
			}
		}

		if err := s.repo.Delete(ctx, customerID); err != nil {
			return err
		}

		entry := audit.NewEntry(audit.LogTypeCustomer, audit.ActionDelete,
			fmt.Sprintf("customer %s deleted (%s mode)", c.Name, mode))
		return s.auditor.Log(ctx, entry)
	})
}

// Anonymize scrubs a customer's PII and the denormalized copies on all
// linked reservations. Prices, payment state and dates stay untouched.
func (s *Service) Anonymize(ctx context.Context, customerID id.ID) error {
	c, err := s.GetByID(ctx, customerID)
	if err != nil {
		return err
	}
	if c.Anonymized {
		return apperror.NewBusinessRule(apperror.CodeBusinessRule,
			"customer data is already cleared").
			WithDetail("customer_id", customerID.String())
	}

	original := c.Name
	c.Anonymize()

	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Update(ctx, c); err != nil {
			return err
		}

		scrubbed, err := s.reservations.ScrubCustomerPII(ctx, customerID, c.Name, c.Phone)
		if err != nil {
			return err
		}

		entry := audit.NewEntry(audit.LogTypeCustomer, audit.ActionClear,
			fmt.Sprintf("personal data cleared for %s, %d reservations scrubbed", original, scrubbed))
		return s.auditor.Log(ctx, entry)
	})
}
