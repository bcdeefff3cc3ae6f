// Package reservation implements the booking lifecycle: slot-occupying
// create/update and terminal cancellation with revenue retention.
package reservation

import (
	"context"
	"strings"
	"time"

	"rezerve/internal/core/apperror"
	"rezerve/internal/core/entity"
	"rezerve/internal/core/id"
	"rezerve/internal/core/types"
)

// PaymentType is how the guest pays.
type PaymentType string

const (
	PaymentCash  PaymentType = "CASH"
	PaymentPOS   PaymentType = "POS"
	PaymentIBAN  PaymentType = "IBAN"
	PaymentOther PaymentType = "OTHER"
)

// Valid reports whether the payment type is known.
func (t PaymentType) Valid() bool {
	switch t {
	case PaymentCash, PaymentPOS, PaymentIBAN, PaymentOther:
		return true
	}
	return false
}

// PaymentStatus tracks how much of the price has been collected.
type PaymentStatus string

const (
	StatusPending PaymentStatus = "PENDING"
	StatusAdvance PaymentStatus = "ADVANCE"
	StatusPaid    PaymentStatus = "PAID"
)

// Valid reports whether the payment status is known.
func (s PaymentStatus) Valid() bool {
	switch s {
	case StatusPending, StatusAdvance, StatusPaid:
		return true
	}
	return false
}

// CancelType distinguishes cancellations that keep the advance from
// full refunds.
type CancelType string

const (
	CancelNormal CancelType = "NORMAL"
	CancelRefund CancelType = "REFUND"
)

// Reservation occupies one (branch, date, time) slot while active.
// Canceled rows are retained forever; they free the slot and feed
// revenue reports through cancel_revenue.
type Reservation struct {
	entity.Base

	// CustomerID may be nil after an unlink delete; the denormalized
	// name/phone below survive independently of the Customer record.
	CustomerID    *id.ID `db:"customer_id" json:"customerId,omitempty"`
	CustomerName  string `db:"customer_name" json:"customerName"`
	CustomerPhone string `db:"customer_phone" json:"customerPhone"`

	NumPeople  int         `db:"num_people" json:"numPeople"`
	TotalPrice types.Money `db:"total_price" json:"totalPrice"`

	// AdvancePct is the percentage of TotalPrice considered paid upfront.
	AdvancePct    types.Money   `db:"advance_pct" json:"advancePct"`
	PaymentType   PaymentType   `db:"payment_type" json:"paymentType"`
	PaymentStatus PaymentStatus `db:"payment_status" json:"paymentStatus"`

	BranchID id.ID `db:"branch_id" json:"branchId"`
	StaffID  id.ID `db:"staff_id" json:"staffId"`

	Date time.Time      `db:"reservation_date" json:"reservationDate"`
	Time types.TimeSlot `db:"reservation_time" json:"reservationTime"`

	IsCanceled    bool         `db:"is_canceled" json:"isCanceled"`
	CancelType    *CancelType  `db:"cancel_type" json:"cancelType,omitempty"`
	CancelRevenue *types.Money `db:"cancel_revenue" json:"cancelRevenue,omitempty"`

	Notes string `db:"notes" json:"notes,omitempty"`
}

// AdvanceAmount is the upfront portion of the price, computed from the
// current values (never frozen at booking time).
func (r *Reservation) AdvanceAmount() types.Money {
	return types.Percent(r.TotalPrice, r.AdvancePct)
}

// RemainingAmount is what the guest still owes on arrival.
func (r *Reservation) RemainingAmount() types.Money {
	return r.TotalPrice.Sub(r.AdvanceAmount())
}

// Validate checks reservation invariants.
func (r *Reservation) Validate(ctx context.Context) error {
	if strings.TrimSpace(r.CustomerName) == "" {
		return apperror.NewValidation("customer name is required").WithDetail("field", "customerName")
	}
	if strings.TrimSpace(r.CustomerPhone) == "" {
		return apperror.NewValidation("customer phone is required").WithDetail("field", "customerPhone")
	}
	if r.NumPeople <= 0 {
		return apperror.NewValidation("number of people must be positive").
			WithDetail("field", "numPeople").WithDetail("value", r.NumPeople)
	}
	if r.TotalPrice.IsNegative() {
		return apperror.NewValidation("total price cannot be negative").
			WithDetail("field", "totalPrice").WithDetail("value", r.TotalPrice.String())
	}
	if r.AdvancePct.IsNegative() || r.AdvancePct.GreaterThan(types.NewMoney(100)) {
		return apperror.NewValidation("advance percentage must be between 0 and 100").
			WithDetail("field", "advancePct").WithDetail("value", r.AdvancePct.String())
	}
	if !r.PaymentType.Valid() {
		return apperror.NewValidation("unknown payment type").
			WithDetail("field", "paymentType").WithDetail("value", string(r.PaymentType))
	}
	if !r.PaymentStatus.Valid() {
		return apperror.NewValidation("unknown payment status").
			WithDetail("field", "paymentStatus").WithDetail("value", string(r.PaymentStatus))
	}
	if id.IsNil(r.BranchID) {
		return apperror.NewValidation("branch is required").WithDetail("field", "branchId")
	}
	if id.IsNil(r.StaffID) {
		return apperror.NewValidation("staff is required").WithDetail("field", "staffId")
	}
	if r.Date.IsZero() {
		return apperror.NewValidation("reservation date is required").WithDetail("field", "reservationDate")
	}
	if r.Time.IsZero() {
		return apperror.NewValidation("reservation time is required").WithDetail("field", "reservationTime")
	}
	return nil
}

// MarkCanceled performs the terminal state transition.
// cancel_revenue is recomputed from the current price and percentage:
// the provider keeps the advance on a NORMAL cancel and nothing on REFUND.
// Calling it on an already-canceled reservation is rejected.
func (r *Reservation) MarkCanceled(withRefund bool) error {
	if r.IsCanceled {
		return apperror.NewReservationCanceled(r.ID.String())
	}

	r.IsCanceled = true
	var ct CancelType
	var revenue types.Money
	if withRefund {
		ct = CancelRefund
		revenue = types.Zero()
	} else {
		ct = CancelNormal
		revenue = r.AdvanceAmount()
	}
	r.CancelType = &ct
	r.CancelRevenue = &revenue
	r.Touch()
	return nil
}
