package dto

import "time"

// LoginRequest for authentication.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RefreshRequest rotates a refresh token.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// TokenResponse carries an issued token pair.
type TokenResponse struct {
	AccessToken  string    `json:"accessToken"`
	RefreshToken string    `json:"refreshToken"`
	ExpiresAt    time.Time `json:"expiresAt"`
}

// ChangePasswordRequest for password rotation.
type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required"`
}

// CreateUserRequest for registering accounts.
type CreateUserRequest struct {
	Username string  `json:"username" binding:"required"`
	Password string  `json:"password" binding:"required"`
	FullName string  `json:"fullName"`
	RoleID   string  `json:"roleId" binding:"required"`
	BranchID *string `json:"branchId"`
}

// UpdateUserRequest for account changes.
type UpdateUserRequest struct {
	FullName *string `json:"fullName"`
	RoleID   *string `json:"roleId"`
	BranchID *string `json:"branchId"`
	IsActive *bool   `json:"isActive"`
}

// CreateRoleRequest for new roles.
type CreateRoleRequest struct {
	Name                 string `json:"name" binding:"required"`
	CanCreateReservation bool   `json:"canCreateReservation"`
	CanViewReports       bool   `json:"canViewReports"`
	CanViewLogs          bool   `json:"canViewLogs"`
	CanViewSettings      bool   `json:"canViewSettings"`
	CanViewManagement    bool   `json:"canViewManagement"`
}

// SettingRequest stores one setting value.
type SettingRequest struct {
	Value string `json:"value"`
}
