package handlers

import (
	"github.com/gin-gonic/gin"

	"rezerve/internal/core/apperror"
	"rezerve/internal/core/id"
	"rezerve/internal/domain/auth"
	"rezerve/internal/infrastructure/http/v1/dto"
)

// AuthHandler handles authentication and account management endpoints.
type AuthHandler struct {
	*BaseHandler
	service *auth.Service
}

// NewAuthHandler creates an auth handler.
func NewAuthHandler(base *BaseHandler, service *auth.Service) *AuthHandler {
	return &AuthHandler{BaseHandler: base, service: service}
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !h.BindJSON(c, &req) {
		return
	}

	pair, _, err := h.service.Login(c.Request.Context(), auth.Credentials{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, pair)
}

// Refresh handles POST /auth/refresh - rotates a refresh token.
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req dto.RefreshRequest
	if !h.BindJSON(c, &req) {
		return
	}

	pair, err := h.service.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, pair)
}

// Logout handles POST /auth/logout - revokes all sessions.
func (h *AuthHandler) Logout(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	if err := h.service.Logout(c.Request.Context(), userID); err != nil {
		h.Error(c, err)
		return
	}

	h.Success(c, "logged out")
}

// Me handles GET /auth/me.
func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	user, err := h.service.GetUser(c.Request.Context(), userID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, user)
}

// ChangePassword handles POST /auth/change-password.
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	var req dto.ChangePasswordRequest
	if !h.BindJSON(c, &req) {
		return
	}

	if err := h.service.ChangePassword(c.Request.Context(), userID, req.OldPassword, req.NewPassword); err != nil {
		h.Error(c, err)
		return
	}

	h.Success(c, "password changed")
}

// ListUsers handles GET /users.
func (h *AuthHandler) ListUsers(c *gin.Context) {
	users, err := h.service.ListUsers(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, users)
}

// GetUser handles GET /users/:id.
func (h *AuthHandler) GetUser(c *gin.Context) {
	userID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	user, err := h.service.GetUser(c.Request.Context(), userID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, user)
}

// CreateUser handles POST /users.
func (h *AuthHandler) CreateUser(c *gin.Context) {
	var req dto.CreateUserRequest
	if !h.BindJSON(c, &req) {
		return
	}

	roleID, err := id.Parse(req.RoleID)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid role id").WithDetail("field", "roleId"))
		return
	}

	user := auth.NewUser(req.Username, "", roleID)
	user.FullName = req.FullName
	if req.BranchID != nil {
		branchID, err := id.Parse(*req.BranchID)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid branch id").WithDetail("field", "branchId"))
			return
		}
		user.BranchID = &branchID
	}

	if err := h.service.RegisterUser(c.Request.Context(), user, req.Password); err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, user.ID.String())
}

// UpdateUser handles PUT /users/:id.
func (h *AuthHandler) UpdateUser(c *gin.Context) {
	userID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	var req dto.UpdateUserRequest
	if !h.BindJSON(c, &req) {
		return
	}

	user, err := h.service.GetUser(c.Request.Context(), userID)
	if err != nil {
		h.Error(c, err)
		return
	}

	if req.FullName != nil {
		user.FullName = *req.FullName
	}
	if req.RoleID != nil {
		roleID, err := id.Parse(*req.RoleID)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid role id").WithDetail("field", "roleId"))
			return
		}
		user.RoleID = roleID
		user.Role = nil
	}
	if req.BranchID != nil {
		if *req.BranchID == "" {
			user.BranchID = nil
		} else {
			branchID, err := id.Parse(*req.BranchID)
			if err != nil {
				h.Error(c, apperror.NewValidation("invalid branch id").WithDetail("field", "branchId"))
				return
			}
			user.BranchID = &branchID
		}
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}

	if err := h.service.UpdateUser(c.Request.Context(), user); err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, user)
}

// DeactivateUser handles DELETE /users/:id - disables the account
// and revokes its sessions. Accounts are never hard-deleted.
func (h *AuthHandler) DeactivateUser(c *gin.Context) {
	userID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	if err := h.service.DeactivateUser(c.Request.Context(), userID); err != nil {
		h.Error(c, err)
		return
	}

	h.NoContent(c)
}

// ListRoles handles GET /roles.
func (h *AuthHandler) ListRoles(c *gin.Context) {
	roles, err := h.service.ListRoles(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, roles)
}

// CreateRole handles POST /roles.
func (h *AuthHandler) CreateRole(c *gin.Context) {
	var req dto.CreateRoleRequest
	if !h.BindJSON(c, &req) {
		return
	}

	role := auth.NewRole(req.Name)
	role.CanCreateReservation = req.CanCreateReservation
	role.CanViewReports = req.CanViewReports
	role.CanViewLogs = req.CanViewLogs
	role.CanViewSettings = req.CanViewSettings
	role.CanViewManagement = req.CanViewManagement

	if err := h.service.CreateRole(c.Request.Context(), role); err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, role.ID.String())
}

func (h *AuthHandler) currentUserID(c *gin.Context) (id.ID, bool) {
	userID, err := id.Parse(h.GetUserID(c))
	if err != nil {
		h.Error(c, apperror.NewUnauthorized("authentication required"))
		return id.Nil(), false
	}
	return userID, true
}
