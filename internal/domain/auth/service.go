package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"rezerve/internal/core/apperror"
	"rezerve/internal/core/id"
	"rezerve/internal/core/tx"
	"rezerve/pkg/logger"
)

const refreshTokenTTL = 30 * 24 * time.Hour

// Five failed attempts lock the account for fifteen minutes.
const (
	maxLoginAttempts  = 5
	loginLockDuration = 15 * time.Minute
)

// Service handles authentication and account management.
type Service struct {
	users     UserRepository
	roles     RoleRepository
	tokens    TokenRepository
	settings  SettingsRepository
	jwt       *JWTService
	txManager tx.Manager
}

// NewService creates an authentication service.
func NewService(
	users UserRepository,
	roles RoleRepository,
	tokens TokenRepository,
	settings SettingsRepository,
	jwtService *JWTService,
	txManager tx.Manager,
) *Service {
	return &Service{
		users:     users,
		roles:     roles,
		tokens:    tokens,
		settings:  settings,
		jwt:       jwtService,
		txManager: txManager,
	}
}

// Login authenticates a user and issues a token pair.
func (s *Service) Login(ctx context.Context, creds Credentials) (*TokenPair, *User, error) {
	user, err := s.users.GetByUsername(ctx, creds.Username)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, nil, apperror.NewUnauthorized("invalid credentials")
		}
		return nil, nil, fmt.Errorf("get user: %w", err)
	}

	if err := user.CanLogin(); err != nil {
		return nil, nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(creds.Password)); err != nil {
		user.RecordFailedLogin(maxLoginAttempts, loginLockDuration)
		if updErr := s.users.Update(ctx, user); updErr != nil {
			logger.Warn(ctx, "failed to record login attempt", "user_id", user.ID, "error", updErr)
		}
		return nil, nil, apperror.NewUnauthorized("invalid credentials")
	}

	user.RecordSuccessfulLogin()

	var pair *TokenPair
	err = s.txManager.RunInTransaction(ctx, func(txCtx context.Context) error {
		if err := s.users.Update(txCtx, user); err != nil {
			return fmt.Errorf("update user: %w", err)
		}
		p, err := s.issueTokens(txCtx, user)
		if err != nil {
			return err
		}
		pair = p
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	logger.Info(ctx, "user logged in", "user_id", user.ID, "username", user.Username)
	return pair, user, nil
}

// Refresh rotates a refresh token and issues a new pair.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	stored, err := s.tokens.GetByHash(ctx, hashToken(refreshToken))
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewUnauthorized("invalid refresh token")
		}
		return nil, fmt.Errorf("get refresh token: %w", err)
	}
	if !stored.IsValid() {
		return nil, apperror.NewUnauthorized("refresh token expired or revoked")
	}

	user, err := s.users.GetByID(ctx, stored.UserID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if err := user.CanLogin(); err != nil {
		return nil, apperror.NewUnauthorized("account disabled")
	}

	var pair *TokenPair
	err = s.txManager.RunInTransaction(ctx, func(txCtx context.Context) error {
		if err := s.tokens.Revoke(txCtx, stored.ID); err != nil {
			return fmt.Errorf("revoke token: %w", err)
		}
		p, err := s.issueTokens(txCtx, user)
		if err != nil {
			return err
		}
		pair = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return pair, nil
}

// Logout revokes all refresh tokens of a user.
func (s *Service) Logout(ctx context.Context, userID id.ID) error {
	if err := s.tokens.RevokeAllForUser(ctx, userID); err != nil {
		return fmt.Errorf("revoke tokens: %w", err)
	}
	logger.Info(ctx, "user logged out", "user_id", userID)
	return nil
}

// CleanupExpiredTokens removes refresh tokens past their expiry.
func (s *Service) CleanupExpiredTokens(ctx context.Context) (int64, error) {
	return s.tokens.DeleteExpired(ctx, time.Now())
}

func (s *Service) issueTokens(ctx context.Context, user *User) (*TokenPair, error) {
	if user.Role == nil {
		role, err := s.roles.GetByID(ctx, user.RoleID)
		if err != nil {
			return nil, fmt.Errorf("get role: %w", err)
		}
		user.Role = role
	}

	accessToken, expiresAt, err := s.jwt.GenerateAccessToken(user)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}

	raw, err := generateRefreshToken()
	if err != nil {
		return nil, fmt.Errorf("generate refresh token: %w", err)
	}

	record := &RefreshToken{
		ID:        id.New(),
		UserID:    user.ID,
		TokenHash: hashToken(raw),
		ExpiresAt: time.Now().Add(refreshTokenTTL),
		CreatedAt: time.Now(),
	}
	if err := s.tokens.Save(ctx, record); err != nil {
		return nil, fmt.Errorf("save refresh token: %w", err)
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: raw,
		ExpiresAt:    expiresAt,
	}, nil
}

// RegisterUser creates a new user account with a hashed password.
func (s *Service) RegisterUser(ctx context.Context, user *User, password string) error {
	if len(password) < 8 {
		return apperror.NewValidation("password must be at least 8 characters")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	user.PasswordHash = string(hash)

	if err := user.Validate(ctx); err != nil {
		return err
	}
	if _, err := s.roles.GetByID(ctx, user.RoleID); err != nil {
		if apperror.IsNotFound(err) {
			return apperror.NewValidation("role does not exist").WithDetail("role_id", user.RoleID)
		}
		return fmt.Errorf("get role: %w", err)
	}

	if err := s.users.Create(ctx, user); err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	logger.Info(ctx, "user registered", "user_id", user.ID, "username", user.Username)
	return nil
}

// ChangePassword updates a user's password and revokes existing sessions.
func (s *Service) ChangePassword(ctx context.Context, userID id.ID, oldPassword, newPassword string) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("get user: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(oldPassword)); err != nil {
		return apperror.NewUnauthorized("current password is incorrect")
	}
	if len(newPassword) < 8 {
		return apperror.NewValidation("password must be at least 8 characters")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	user.PasswordHash = string(hash)
	user.Touch()

	return s.txManager.RunInTransaction(ctx, func(txCtx context.Context) error {
		if err := s.users.Update(txCtx, user); err != nil {
			return fmt.Errorf("update user: %w", err)
		}
		return s.tokens.RevokeAllForUser(txCtx, userID)
	})
}

// ListUsers returns all user accounts with their roles attached.
func (s *Service) ListUsers(ctx context.Context) ([]*User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	roles, err := s.roles.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}
	byID := make(map[id.ID]*Role, len(roles))
	for _, r := range roles {
		byID[r.ID] = r
	}
	for _, u := range users {
		u.Role = byID[u.RoleID]
	}
	return users, nil
}

// GetUser returns a single user account.
func (s *Service) GetUser(ctx context.Context, userID id.ID) (*User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	role, err := s.roles.GetByID(ctx, user.RoleID)
	if err == nil {
		user.Role = role
	}
	return user, nil
}

// UpdateUser updates mutable account fields.
func (s *Service) UpdateUser(ctx context.Context, user *User) error {
	if err := user.Validate(ctx); err != nil {
		return err
	}
	user.Touch()
	return s.users.Update(ctx, user)
}

// DeactivateUser disables an account and revokes its sessions.
func (s *Service) DeactivateUser(ctx context.Context, userID id.ID) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	user.IsActive = false
	user.Touch()
	return s.txManager.RunInTransaction(ctx, func(txCtx context.Context) error {
		if err := s.users.Update(txCtx, user); err != nil {
			return fmt.Errorf("update user: %w", err)
		}
		return s.tokens.RevokeAllForUser(txCtx, userID)
	})
}

// ListRoles returns all roles.
func (s *Service) ListRoles(ctx context.Context) ([]*Role, error) {
	return s.roles.List(ctx)
}

// CreateRole creates a new role.
func (s *Service) CreateRole(ctx context.Context, role *Role) error {
	if err := role.Validate(ctx); err != nil {
		return err
	}
	return s.roles.Create(ctx, role)
}

// GetSetting returns a setting value, empty string when unset.
func (s *Service) GetSetting(ctx context.Context, key string) (string, error) {
	setting, err := s.settings.Get(ctx, key)
	if err != nil {
		if apperror.IsNotFound(err) {
			return "", nil
		}
		return "", fmt.Errorf("get setting: %w", err)
	}
	return setting.Value, nil
}

// SetSetting stores a setting value.
func (s *Service) SetSetting(ctx context.Context, key, value string) error {
	if key == "" {
		return apperror.NewValidation("setting key is required")
	}
	if err := s.settings.Set(ctx, key, value); err != nil {
		return fmt.Errorf("set setting: %w", err)
	}
	logger.Info(ctx, "setting updated", "key", key)
	return nil
}

// AllSettings returns every stored setting.
func (s *Service) AllSettings(ctx context.Context) ([]*Setting, error) {
	return s.settings.All(ctx)
}

func generateRefreshToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
