package notify

import (
	"context"
	"encoding/json"
	"fmt"

	domainnotify "rezerve/internal/domain/notify"
	"rezerve/internal/infrastructure/storage/postgres"
	"rezerve/pkg/logger"
)

// TelegramHandler implements postgres.OutboxHandler: it renders the
// reservation event and delivers it to the branch chat.
type TelegramHandler struct {
	client *TelegramClient
}

// NewTelegramHandler creates a new delivery handler.
func NewTelegramHandler(client *TelegramClient) *TelegramHandler {
	return &TelegramHandler{client: client}
}

// Handle delivers a single outbox message. Events without a chat ID are
// acknowledged without delivery: the branch has notifications disabled.
func (h *TelegramHandler) Handle(ctx context.Context, msg *postgres.OutboxMessage) error {
	var event domainnotify.Event
	if err := json.Unmarshal(msg.Payload, &event); err != nil {
		return fmt.Errorf("unmarshal event payload: %w", err)
	}

	if event.ChatID == "" {
		logger.Debug(ctx, "skipping notification without chat",
			"event_type", msg.EventType,
			"reservation_id", event.ReservationID,
		)
		return nil
	}

	text := domainnotify.FormatMessage(event)
	if err := h.client.SendMessage(ctx, event.ChatID, text); err != nil {
		return fmt.Errorf("send telegram message: %w", err)
	}

	logger.Info(ctx, "notification delivered",
		"event_type", msg.EventType,
		"reservation_id", event.ReservationID,
		"chat_id", event.ChatID,
	)
	return nil
}
