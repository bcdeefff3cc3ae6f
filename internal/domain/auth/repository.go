package auth

import (
	"context"
	"time"

	"rezerve/internal/core/id"
)

// UserRepository provides access to user accounts.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, userID id.ID) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	Update(ctx context.Context, user *User) error
	List(ctx context.Context) ([]*User, error)
	Delete(ctx context.Context, userID id.ID) error
}

// RoleRepository provides access to roles.
type RoleRepository interface {
	Create(ctx context.Context, role *Role) error
	GetByID(ctx context.Context, roleID id.ID) (*Role, error)
	GetByName(ctx context.Context, name string) (*Role, error)
	Update(ctx context.Context, role *Role) error
	List(ctx context.Context) ([]*Role, error)
	Delete(ctx context.Context, roleID id.ID) error
}

// TokenRepository stores refresh tokens. Only token hashes hit the database.
type TokenRepository interface {
	Save(ctx context.Context, token *RefreshToken) error
	GetByHash(ctx context.Context, tokenHash string) (*RefreshToken, error)
	Revoke(ctx context.Context, tokenID id.ID) error
	RevokeAllForUser(ctx context.Context, userID id.ID) error
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}

// SettingsRepository stores application-wide key/value settings.
type SettingsRepository interface {
	Get(ctx context.Context, key string) (*Setting, error)
	Set(ctx context.Context, key, value string) error
	All(ctx context.Context) ([]*Setting, error)
}
