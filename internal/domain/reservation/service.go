package reservation

import (
	"context"
	"fmt"
	"time"

	"rezerve/internal/core/apperror"
	"rezerve/internal/core/entity"
	"rezerve/internal/core/id"
	"rezerve/internal/core/tx"
	"rezerve/internal/core/types"
	"rezerve/internal/domain/audit"
	"rezerve/internal/domain/catalogs/branch"
	"rezerve/internal/domain/catalogs/customer"
	"rezerve/internal/domain/catalogs/staff"
	"rezerve/internal/domain/notify"
	"rezerve/pkg/logger"
)

// CustomerResolver resolves or creates the customer for a booking.
type CustomerResolver interface {
	Resolve(ctx context.Context, name, phone string) (*customer.Customer, bool, error)
}

// BranchGetter loads branches for consistency checks and event payloads.
type BranchGetter interface {
	GetByID(ctx context.Context, branchID id.ID) (*branch.Branch, error)
}

// StaffGetter loads staff for consistency checks and event payloads.
type StaffGetter interface {
	GetByID(ctx context.Context, staffID id.ID) (*staff.Staff, error)
}

// Service is the reservation lifecycle engine.
// Every mutation runs in one transaction that also carries its audit
// entries and outbox events; notification delivery happens elsewhere.
type Service struct {
	repo      Repository
	customers CustomerResolver
	branches  BranchGetter
	staff     StaffGetter
	txManager tx.Manager
	auditor   *audit.Service
	publisher notify.Publisher
}

// NewService creates the lifecycle engine.
func NewService(
	repo Repository,
	customers CustomerResolver,
	branches BranchGetter,
	staffGetter StaffGetter,
	txManager tx.Manager,
	auditor *audit.Service,
	publisher notify.Publisher,
) *Service {
	return &Service{
		repo:      repo,
		customers: customers,
		branches:  branches,
		staff:     staffGetter,
		txManager: txManager,
		auditor:   auditor,
		publisher: publisher,
	}
}

// CreateInput carries the booking form fields.
type CreateInput struct {
	CustomerName  string
	CustomerPhone string
	NumPeople     int
	TotalPrice    types.Money
	AdvancePct    types.Money
	PaymentType   PaymentType
	PaymentStatus PaymentStatus
	BranchID      id.ID
	StaffID       id.ID
	Date          time.Time
	Time          types.TimeSlot
	Notes         string
}

// Create books a slot. In one transaction it resolves the customer by
// phone, inserts the reservation, writes the audit trail and enqueues
// the notification event. A concurrent booking of the same slot loses
// with a SLOT_TAKEN conflict from the store's partial unique index.
func (s *Service) Create(ctx context.Context, in CreateInput) (*Reservation, error) {
	r := &Reservation{
		Base:          entity.NewBase(),
		CustomerName:  in.CustomerName,
		CustomerPhone: in.CustomerPhone,
		NumPeople:     in.NumPeople,
		TotalPrice:    in.TotalPrice,
		AdvancePct:    in.AdvancePct,
		PaymentType:   in.PaymentType,
		PaymentStatus: in.PaymentStatus,
		BranchID:      in.BranchID,
		StaffID:       in.StaffID,
		Date:          in.Date,
		Time:          in.Time,
		Notes:         in.Notes,
	}
	if err := r.Validate(ctx); err != nil {
		return nil, err
	}

	b, st, err := s.loadBranchAndStaff(ctx, r.BranchID, r.StaffID)
	if err != nil {
		return nil, err
	}

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		c, created, err := s.customers.Resolve(ctx, in.CustomerName, in.CustomerPhone)
		if err != nil {
			return err
		}
		r.CustomerID = &c.ID
		r.CustomerName = c.Name
		r.CustomerPhone = c.Phone

		if created {
			entry := audit.NewEntry(audit.LogTypeCustomer, audit.ActionCreate,
				fmt.Sprintf("customer %s (%s) created during booking", c.Name, c.Phone)).
				WithBranch(r.BranchID)
			if err := s.auditor.Log(ctx, entry); err != nil {
				return err
			}
		}

		if err := s.repo.Create(ctx, r); err != nil {
			return err
		}

		entry := audit.NewEntry(audit.LogTypeReservation, audit.ActionCreate,
			fmt.Sprintf("reservation for %s, %d people, %s %s, staff %s",
				r.CustomerName, r.NumPeople, r.Date.Format("2006-01-02"), r.Time, st.Name)).
			WithBranch(r.BranchID)
		if err := s.auditor.Log(ctx, entry); err != nil {
			return err
		}

		return s.publisher.Publish(ctx, s.buildEvent(notify.EventReservationCreated, r, b, st))
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "reservation created",
		"reservation_id", r.ID,
		"branch_id", r.BranchID,
		"date", r.Date.Format("2006-01-02"),
		"time", r.Time,
	)
	return r, nil
}

// UpdateInput carries optional field overrides. Nil means keep current.
// Date and Time move the slot only when both are supplied together.
type UpdateInput struct {
	CustomerName  *string
	CustomerPhone *string
	NumPeople     *int
	TotalPrice    *types.Money
	AdvancePct    *types.Money
	PaymentType   *PaymentType
	PaymentStatus *PaymentStatus
	StaffID       *id.ID
	Date          *time.Time
	Time          *types.TimeSlot
	Notes         *string
}

// Update overwrites mutable fields of an active reservation.
func (s *Service) Update(ctx context.Context, reservationID id.ID, in UpdateInput) (*Reservation, error) {
	r, err := s.GetByID(ctx, reservationID)
	if err != nil {
		return nil, err
	}
	if r.IsCanceled {
		return nil, apperror.NewReservationCanceled(reservationID.String())
	}

	if in.CustomerName != nil {
		r.CustomerName = *in.CustomerName
	}
	if in.CustomerPhone != nil {
		r.CustomerPhone = *in.CustomerPhone
	}
	if in.NumPeople != nil {
		r.NumPeople = *in.NumPeople
	}
	if in.TotalPrice != nil {
		r.TotalPrice = *in.TotalPrice
	}
	if in.AdvancePct != nil {
		r.AdvancePct = *in.AdvancePct
	}
	if in.PaymentType != nil {
		r.PaymentType = *in.PaymentType
	}
	if in.PaymentStatus != nil {
		r.PaymentStatus = *in.PaymentStatus
	}
	if in.StaffID != nil {
		r.StaffID = *in.StaffID
	}
	// Slot moves only when both halves arrive together
	if in.Date != nil && in.Time != nil {
		r.Date = *in.Date
		r.Time = *in.Time
	}
	if in.Notes != nil {
		r.Notes = *in.Notes
	}
	r.Touch()

	if err := r.Validate(ctx); err != nil {
		return nil, err
	}
	if _, _, err := s.loadBranchAndStaff(ctx, r.BranchID, r.StaffID); err != nil {
		return nil, err
	}

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Update(ctx, r); err != nil {
			return err
		}
		entry := audit.NewEntry(audit.LogTypeReservation, audit.ActionUpdate,
			fmt.Sprintf("reservation %s updated for %s", r.ID, r.CustomerName)).
			WithBranch(r.BranchID)
		return s.auditor.Log(ctx, entry)
	})
	if err != nil {
		return nil, err
	}
	return r, nil
}

// Cancel performs the terminal ACTIVE -> CANCELED transition.
// withRefund=false keeps the advance as revenue; true refunds everything.
// A second cancel is rejected, never overwritten.
func (s *Service) Cancel(ctx context.Context, reservationID id.ID, withRefund bool, operator string) (*Reservation, error) {
	var r *Reservation

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		r, err = s.GetByID(ctx, reservationID)
		if err != nil {
			return err
		}

		if err := r.MarkCanceled(withRefund); err != nil {
			return err
		}

		if err := s.repo.Update(ctx, r); err != nil {
			return err
		}

		b, st, err := s.loadBranchAndStaff(ctx, r.BranchID, r.StaffID)
		if err != nil {
			return err
		}

		var details string
		if withRefund {
			details = fmt.Sprintf("reservation %s canceled with full refund of %s by %s",
				r.ID, r.AdvanceAmount().StringFixed(2), operator)
		} else {
			details = fmt.Sprintf("reservation %s canceled, advance %s retained, by %s",
				r.ID, r.CancelRevenue.StringFixed(2), operator)
		}
		entry := audit.NewEntry(audit.LogTypeReservation, audit.ActionCancel, details).
			WithBranch(r.BranchID)
		if err := s.auditor.Log(ctx, entry); err != nil {
			return err
		}

		event := s.buildEvent(notify.EventReservationCanceled, r, b, st)
		event.WithRefund = &withRefund
		event.RetainedAmount = r.CancelRevenue
		return s.publisher.Publish(ctx, event)
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "reservation canceled",
		"reservation_id", r.ID,
		"with_refund", withRefund,
		"operator", operator,
	)
	return r, nil
}

// GetByID retrieves a reservation.
func (s *Service) GetByID(ctx context.Context, reservationID id.ID) (*Reservation, error) {
	r, err := s.repo.GetByID(ctx, reservationID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound("Reservation", reservationID.String())
		}
		return nil, err
	}
	return r, nil
}

// List returns reservations matching the filter plus total count.
func (s *Service) List(ctx context.Context, filter Filter) ([]*Reservation, int, error) {
	if filter.Limit <= 0 || filter.Limit > 500 {
		filter.Limit = 100
	}
	return s.repo.List(ctx, filter)
}

// ListUpcoming returns the next active reservations of a branch.
// Serves the board view and the bot's listing command.
func (s *Service) ListUpcoming(ctx context.Context, branchID id.ID, limit int) ([]*Reservation, error) {
	if limit <= 0 || limit > 50 {
		limit = 10
	}
	return s.repo.ListUpcoming(ctx, branchID, time.Now(), limit)
}

func (s *Service) loadBranchAndStaff(ctx context.Context, branchID, staffID id.ID) (*branch.Branch, *staff.Staff, error) {
	b, err := s.branches.GetByID(ctx, branchID)
	if err != nil {
		return nil, nil, err
	}
	st, err := s.staff.GetByID(ctx, staffID)
	if err != nil {
		return nil, nil, err
	}
	if st.BranchID != b.ID {
		return nil, nil, apperror.NewBusinessRule(apperror.CodeStaffBranchMismatch,
			"staff member does not belong to the reservation branch").
			WithDetail("staff_id", staffID.String()).
			WithDetail("branch_id", branchID.String())
	}
	return b, st, nil
}

func (s *Service) buildEvent(kind string, r *Reservation, b *branch.Branch, st *staff.Staff) notify.Event {
	chatID := ""
	if b.NotifyEnabled && b.ChatID != nil {
		chatID = *b.ChatID
	}
	return notify.Event{
		Kind:          kind,
		ReservationID: r.ID,
		BranchID:      b.ID,
		BranchName:    b.Name,
		ChatID:        chatID,
		StaffName:     st.Name,
		CustomerName:  r.CustomerName,
		CustomerPhone: r.CustomerPhone,
		NumPeople:     r.NumPeople,
		Date:          r.Date.Format("2006-01-02"),
		Time:          r.Time.String(),
		TotalPrice:    r.TotalPrice,
		AdvanceAmount: r.AdvanceAmount(),
		Remaining:     r.RemainingAmount(),
		PaymentType:   string(r.PaymentType),
		PaymentStatus: string(r.PaymentStatus),
	}
}
