// Package auth provides authentication and authorization domain logic.
package auth

import (
	"context"
	"strings"
	"time"

	"rezerve/internal/core/apperror"
	"rezerve/internal/core/entity"
	"rezerve/internal/core/id"
)

// Permission flag codes carried in tokens and checked by middleware.
const (
	PermCreateReservation = "create_reservation"
	PermViewReports       = "view_reports"
	PermViewLogs          = "view_logs"
	PermViewSettings      = "view_settings"
	PermViewManagement    = "view_management"
)

// Role is a named bundle of permission flags.
type Role struct {
	entity.Base

	Name                 string `db:"name" json:"name"`
	CanCreateReservation bool   `db:"can_create_reservation" json:"canCreateReservation"`
	CanViewReports       bool   `db:"can_view_reports" json:"canViewReports"`
	CanViewLogs          bool   `db:"can_view_logs" json:"canViewLogs"`
	CanViewSettings      bool   `db:"can_view_settings" json:"canViewSettings"`
	CanViewManagement    bool   `db:"can_view_management" json:"canViewManagement"`
	IsSuperadmin         bool   `db:"is_superadmin" json:"isSuperadmin"`
}

// NewRole creates a role with no permissions granted.
func NewRole(name string) *Role {
	return &Role{
		Base: entity.NewBase(),
		Name: strings.TrimSpace(name),
	}
}

// Validate checks role invariants.
func (r *Role) Validate(ctx context.Context) error {
	if strings.TrimSpace(r.Name) == "" {
		return apperror.NewValidation("role name is required").WithDetail("field", "name")
	}
	return nil
}

// Permissions flattens the flags into permission codes.
func (r *Role) Permissions() []string {
	var perms []string
	if r.CanCreateReservation {
		perms = append(perms, PermCreateReservation)
	}
	if r.CanViewReports {
		perms = append(perms, PermViewReports)
	}
	if r.CanViewLogs {
		perms = append(perms, PermViewLogs)
	}
	if r.CanViewSettings {
		perms = append(perms, PermViewSettings)
	}
	if r.CanViewManagement {
		perms = append(perms, PermViewManagement)
	}
	return perms
}

// User is a staff-facing account with exactly one role.
type User struct {
	entity.Base

	Username     string `db:"username" json:"username"`
	PasswordHash string `db:"password_hash" json:"-"`
	FullName     string `db:"full_name" json:"fullName,omitempty"`
	RoleID       id.ID  `db:"role_id" json:"roleId"`

	// BranchID scopes the account to one branch; nil means all branches.
	BranchID *id.ID `db:"branch_id" json:"branchId,omitempty"`

	IsActive            bool       `db:"is_active" json:"isActive"`
	LastLoginAt         *time.Time `db:"last_login_at" json:"lastLoginAt,omitempty"`
	FailedLoginAttempts int        `db:"failed_login_attempts" json:"-"`
	LockedUntil         *time.Time `db:"locked_until" json:"-"`

	// Loaded relation
	Role *Role `db:"-" json:"role,omitempty"`
}

// NewUser creates an active user.
func NewUser(username, passwordHash string, roleID id.ID) *User {
	return &User{
		Base:         entity.NewBase(),
		Username:     strings.ToLower(strings.TrimSpace(username)),
		PasswordHash: passwordHash,
		RoleID:       roleID,
		IsActive:     true,
	}
}

// Validate checks user invariants.
func (u *User) Validate(ctx context.Context) error {
	if u.Username == "" {
		return apperror.NewValidation("username is required").WithDetail("field", "username")
	}
	if id.IsNil(u.RoleID) {
		return apperror.NewValidation("role is required").WithDetail("field", "roleId")
	}
	return nil
}

// IsLocked returns true if account is locked.
func (u *User) IsLocked() bool {
	if u.LockedUntil == nil {
		return false
	}
	return time.Now().Before(*u.LockedUntil)
}

// CanLogin checks if user can login.
func (u *User) CanLogin() error {
	if !u.IsActive {
		return apperror.NewForbidden("account is disabled")
	}
	if u.IsLocked() {
		return apperror.NewForbidden("account is temporarily locked")
	}
	return nil
}

// RecordFailedLogin increments failed login counter.
func (u *User) RecordFailedLogin(maxAttempts int, lockDuration time.Duration) {
	u.FailedLoginAttempts++
	if u.FailedLoginAttempts >= maxAttempts {
		lockUntil := time.Now().Add(lockDuration)
		u.LockedUntil = &lockUntil
	}
}

// RecordSuccessfulLogin resets failed login counter.
func (u *User) RecordSuccessfulLogin() {
	u.FailedLoginAttempts = 0
	u.LockedUntil = nil
	now := time.Now()
	u.LastLoginAt = &now
}

// RefreshToken represents a refresh token for JWT refresh.
type RefreshToken struct {
	ID        id.ID      `db:"id"`
	UserID    id.ID      `db:"user_id"`
	TokenHash string     `db:"token_hash"`
	ExpiresAt time.Time  `db:"expires_at"`
	CreatedAt time.Time  `db:"created_at"`
	RevokedAt *time.Time `db:"revoked_at"`
}

// IsValid checks if refresh token is valid.
func (t *RefreshToken) IsValid() bool {
	if t.RevokedAt != nil {
		return false
	}
	return time.Now().Before(t.ExpiresAt)
}

// TokenPair contains access and refresh tokens.
type TokenPair struct {
	AccessToken  string    `json:"accessToken"`
	RefreshToken string    `json:"refreshToken"`
	ExpiresAt    time.Time `json:"expiresAt"`
	TokenType    string    `json:"tokenType"`
}

// Credentials for login.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Setting is a key/value configuration row (e.g. the bot token).
type Setting struct {
	Key       string    `db:"key" json:"key"`
	Value     string    `db:"value" json:"value"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// Well-known setting keys.
const (
	SettingBotToken = "telegram_bot_token"
)
