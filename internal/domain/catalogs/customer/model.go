// Package customer provides the Customer catalog entity and service.
package customer

import (
	"context"
	"regexp"
	"strings"

	"rezerve/internal/core/apperror"
	"rezerve/internal/core/entity"
)

var (
	phoneRe = regexp.MustCompile(`^\+?[0-9 ()-]{7,20}$`)
	emailRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
)

// PII scrub values written by Anonymize.
const (
	AnonymizedName       = "Deleted Customer"
	AnonymizedNotes      = "Personal data cleared at customer request"
	anonymizedPhonePrefix = "xxxx-"
)

// Customer identifies a guest by unique phone number.
// Reservations resolve their customer by phone at save time,
// creating the record when it does not exist yet.
type Customer struct {
	entity.Base

	Name  string  `db:"name" json:"name"`
	Phone string  `db:"phone" json:"phone"`
	Email *string `db:"email" json:"email,omitempty"`
	Notes *string `db:"notes" json:"notes,omitempty"`

	// Anonymized customers keep their row for referential integrity
	// but are excluded from analytics.
	Anonymized bool `db:"anonymized" json:"anonymized"`
}

// New creates a customer with generated ID.
func New(name, phone string) *Customer {
	return &Customer{
		Base:  entity.NewBase(),
		Name:  strings.TrimSpace(name),
		Phone: normalizePhone(phone),
	}
}

// Validate checks customer invariants.
func (c *Customer) Validate(ctx context.Context) error {
	if strings.TrimSpace(c.Name) == "" {
		return apperror.NewValidation("customer name is required").WithDetail("field", "name")
	}
	if c.Anonymized {
		// Scrubbed rows carry placeholder values that skip format checks
		return nil
	}
	if !phoneRe.MatchString(c.Phone) {
		return apperror.NewValidation("invalid phone number").WithDetail("field", "phone")
	}
	if c.Email != nil && *c.Email != "" && !emailRe.MatchString(*c.Email) {
		return apperror.NewValidation("invalid email address").WithDetail("field", "email")
	}
	return nil
}

// Anonymize scrubs PII in place. The phone keeps its last four digits
// so front desk staff can still confirm identity verbally.
func (c *Customer) Anonymize() {
	c.Name = AnonymizedName
	c.Phone = MaskPhone(c.Phone)
	c.Email = nil
	notes := AnonymizedNotes
	c.Notes = &notes
	c.Anonymized = true
	c.Touch()
}

// MaskPhone reduces a phone number to "xxxx-<last4>".
func MaskPhone(phone string) string {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, phone)
	if len(digits) > 4 {
		digits = digits[len(digits)-4:]
	}
	return anonymizedPhonePrefix + digits
}

func normalizePhone(phone string) string {
	return strings.TrimSpace(phone)
}
