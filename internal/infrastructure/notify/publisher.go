// Package notify delivers reservation events to Telegram through the
// transactional outbox.
package notify

import (
	"context"

	domainnotify "rezerve/internal/domain/notify"
	"rezerve/internal/infrastructure/storage/postgres"
)

// OutboxEventPublisher implements notify.Publisher on top of the outbox.
type OutboxEventPublisher struct {
	outbox *postgres.OutboxPublisher
}

// NewOutboxEventPublisher creates a new publisher.
func NewOutboxEventPublisher(outbox *postgres.OutboxPublisher) *OutboxEventPublisher {
	return &OutboxEventPublisher{outbox: outbox}
}

// Publish writes the event to the outbox within the current transaction.
func (p *OutboxEventPublisher) Publish(ctx context.Context, event domainnotify.Event) error {
	return p.outbox.Publish(ctx, postgres.DomainEvent{
		AggregateType: "Reservation",
		AggregateID:   event.ReservationID,
		EventType:     event.Kind,
		Payload:       event,
	})
}
