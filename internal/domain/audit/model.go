// Package audit provides the operational audit log: every reservation,
// customer and system mutation leaves a typed entry.
package audit

import (
	"context"
	"time"

	"rezerve/internal/core/apperror"
	"rezerve/internal/core/id"
)

// LogType categorizes audit entries by subsystem.
type LogType string

const (
	LogTypeReservation LogType = "RESERVATION"
	LogTypeTime        LogType = "TIME"
	LogTypeCustomer    LogType = "CUSTOMER"
	LogTypeSystem      LogType = "SYSTEM"
)

// Valid reports whether the log type is known.
func (t LogType) Valid() bool {
	switch t {
	case LogTypeReservation, LogTypeTime, LogTypeCustomer, LogTypeSystem:
		return true
	}
	return false
}

// Action is the verb recorded with an entry.
type Action string

const (
	ActionCreate Action = "CREATE"
	ActionUpdate Action = "UPDATE"
	ActionDelete Action = "DELETE"
	ActionCancel Action = "CANCEL"
	ActionClear  Action = "CLEAR"
	ActionInit   Action = "INIT"
)

// Valid reports whether the action is known.
func (a Action) Valid() bool {
	switch a {
	case ActionCreate, ActionUpdate, ActionDelete, ActionCancel, ActionClear, ActionInit:
		return true
	}
	return false
}

// Entry is a single audit log record.
type Entry struct {
	ID        id.ID     `db:"id" json:"id"`
	LogType   LogType   `db:"log_type" json:"logType"`
	Action    Action    `db:"action" json:"action"`
	Details   string    `db:"details" json:"details"`
	BranchID  *id.ID    `db:"branch_id" json:"branchId,omitempty"`
	UserID    *id.ID    `db:"user_id" json:"userId,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// NewEntry creates an entry with generated ID and timestamp.
func NewEntry(logType LogType, action Action, details string) Entry {
	return Entry{
		ID:        id.New(),
		LogType:   logType,
		Action:    action,
		Details:   details,
		CreatedAt: time.Now().UTC(),
	}
}

// WithBranch scopes the entry to a branch.
func (e Entry) WithBranch(branchID id.ID) Entry {
	e.BranchID = &branchID
	return e
}

// WithUser attributes the entry to a user.
func (e Entry) WithUser(userID id.ID) Entry {
	e.UserID = &userID
	return e
}

// Validate checks entry invariants.
func (e *Entry) Validate(ctx context.Context) error {
	if !e.LogType.Valid() {
		return apperror.NewValidation("unknown log type").WithDetail("log_type", string(e.LogType))
	}
	if !e.Action.Valid() {
		return apperror.NewValidation("unknown log action").WithDetail("action", string(e.Action))
	}
	if e.Details == "" {
		return apperror.NewValidation("details are required").WithDetail("field", "details")
	}
	return nil
}

// Filter narrows audit log listings.
type Filter struct {
	LogType  LogType
	Action   Action
	BranchID *id.ID
	From     *time.Time
	To       *time.Time
	Limit    int
	Offset   int
}
