// Package branch provides the Branch catalog entity and service.
package branch

import (
	"context"
	"strings"

	"rezerve/internal/core/apperror"
	"rezerve/internal/core/entity"
)

// Branch is a physical location that owns staff and reservations.
type Branch struct {
	entity.Base

	Name    string `db:"name" json:"name"`
	Address string `db:"address" json:"address,omitempty"`

	// ChatID is the messaging channel bound to this branch.
	// Notifications and inbound bot commands are routed by it.
	ChatID        *string `db:"chat_id" json:"chatId,omitempty"`
	NotifyEnabled bool    `db:"notify_enabled" json:"notifyEnabled"`
}

// New creates a branch with generated ID.
func New(name, address string) *Branch {
	return &Branch{
		Base:    entity.NewBase(),
		Name:    strings.TrimSpace(name),
		Address: strings.TrimSpace(address),
	}
}

// Validate checks branch invariants.
func (b *Branch) Validate(ctx context.Context) error {
	if strings.TrimSpace(b.Name) == "" {
		return apperror.NewValidation("branch name is required").WithDetail("field", "name")
	}
	if b.NotifyEnabled && (b.ChatID == nil || strings.TrimSpace(*b.ChatID) == "") {
		return apperror.NewValidation("chat id is required when notifications are enabled").
			WithDetail("field", "chatId")
	}
	return nil
}
