package audit

import (
	"context"

	"rezerve/internal/core/apperror"
	appctx "rezerve/internal/core/context"
	"rezerve/internal/core/id"
	"rezerve/pkg/logger"
)

// Service records and lists audit entries.
// Recording failures never abort the business operation when done through
// TryLog; callers that need the entry committed atomically use Log inside
// their own transaction.
type Service struct {
	repo Repository
}

// NewService creates the audit service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Log validates and records an entry. The authenticated user is attached
// from context when the entry does not carry one.
func (s *Service) Log(ctx context.Context, entry Entry) error {
	if entry.UserID == nil {
		if uid := appctx.GetUserID(ctx); uid != "" {
			if parsed, err := id.Parse(uid); err == nil {
				entry.UserID = &parsed
			}
		}
	}
	if err := entry.Validate(ctx); err != nil {
		return err
	}
	return s.repo.Record(ctx, entry)
}

// TryLog records an entry and only logs on failure.
// Use for best-effort entries outside transactions.
func (s *Service) TryLog(ctx context.Context, entry Entry) {
	if err := s.Log(ctx, entry); err != nil {
		logger.Error(ctx, "audit log write failed",
			"log_type", entry.LogType,
			"action", entry.Action,
			"error", err,
		)
	}
}

// List returns entries matching the filter plus the total count.
func (s *Service) List(ctx context.Context, filter Filter) ([]Entry, int, error) {
	if filter.Limit <= 0 || filter.Limit > 200 {
		filter.Limit = 50
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	if filter.LogType != "" && !filter.LogType.Valid() {
		return nil, 0, apperror.NewValidation("unknown log type").WithDetail("log_type", string(filter.LogType))
	}
	return s.repo.List(ctx, filter)
}
