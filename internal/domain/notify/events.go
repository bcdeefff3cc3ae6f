// Package notify defines the structured events the lifecycle engine
// emits and the message rendering used by the delivery sink.
package notify

import (
	"context"

	"rezerve/internal/core/id"
	"rezerve/internal/core/types"
)

// Event kinds.
const (
	EventReservationCreated  = "reservation.created"
	EventReservationCanceled = "reservation.canceled"
)

// Event is the payload persisted to the outbox and delivered to the sink.
// Amounts are captured at emit time so the message renders exactly what
// the mutation computed.
type Event struct {
	Kind          string      `json:"event"`
	ReservationID id.ID       `json:"reservationId"`
	BranchID      id.ID       `json:"branchId"`
	BranchName    string      `json:"branch"`
	ChatID        string      `json:"chatId,omitempty"`
	StaffName     string      `json:"staff"`
	CustomerName  string      `json:"customerName"`
	CustomerPhone string      `json:"customerPhone"`
	NumPeople     int         `json:"numPeople"`
	Date          string      `json:"date"` // YYYY-MM-DD
	Time          string      `json:"time"` // HH:MM
	TotalPrice    types.Money `json:"totalPrice"`
	AdvanceAmount types.Money `json:"advanceAmount"`
	Remaining     types.Money `json:"remainingAmount"`
	PaymentType   string      `json:"paymentType"`
	PaymentStatus string      `json:"paymentStatus"`

	// Cancellation only
	WithRefund     *bool        `json:"withRefund,omitempty"`
	RetainedAmount *types.Money `json:"retainedAmount,omitempty"`
}

// Publisher enqueues events for asynchronous delivery.
// The implementation persists to the transactional outbox, so Publish
// MUST be called inside the mutating transaction.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}
