// Package staff provides the Staff catalog entity and service.
package staff

import (
	"context"
	"regexp"
	"strings"

	"rezerve/internal/core/apperror"
	"rezerve/internal/core/entity"
	"rezerve/internal/core/id"
)

var phoneRe = regexp.MustCompile(`^\+?[0-9 ()-]{7,20}$`)

// Staff is an employee assigned to exactly one branch.
// Reservations are always taken by a staff member of the same branch.
type Staff struct {
	entity.Base

	Name     string `db:"name" json:"name"`
	Phone    string `db:"phone" json:"phone,omitempty"`
	BranchID id.ID  `db:"branch_id" json:"branchId"`
}

// New creates a staff member with generated ID.
func New(name, phone string, branchID id.ID) *Staff {
	return &Staff{
		Base:     entity.NewBase(),
		Name:     strings.TrimSpace(name),
		Phone:    strings.TrimSpace(phone),
		BranchID: branchID,
	}
}

// Validate checks staff invariants.
func (s *Staff) Validate(ctx context.Context) error {
	if strings.TrimSpace(s.Name) == "" {
		return apperror.NewValidation("staff name is required").WithDetail("field", "name")
	}
	if id.IsNil(s.BranchID) {
		return apperror.NewValidation("branch is required").WithDetail("field", "branchId")
	}
	if s.Phone != "" && !phoneRe.MatchString(s.Phone) {
		return apperror.NewValidation("invalid phone number").WithDetail("field", "phone")
	}
	return nil
}
