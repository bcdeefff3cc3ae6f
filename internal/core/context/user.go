// Package context provides request-scoped values extraction.
package context

import (
	"context"
)

// UserContext contains authenticated user information.
type UserContext struct {
	UserID       string
	Username     string
	Permissions  []string
	IsSuperadmin bool
}

// HasPermission checks if the user carries a permission flag.
// Superadmins pass every check.
func (u *UserContext) HasPermission(permission string) bool {
	if u == nil {
		return false
	}
	if u.IsSuperadmin {
		return true
	}
	for _, p := range u.Permissions {
		if p == permission {
			return true
		}
	}
	return false
}

type userContextKey struct{}

// WithUser adds UserContext to context.
func WithUser(ctx context.Context, user *UserContext) context.Context {
	return context.WithValue(ctx, userContextKey{}, user)
}

// GetUser returns UserContext from context.
func GetUser(ctx context.Context) *UserContext {
	if v, ok := ctx.Value(userContextKey{}).(*UserContext); ok {
		return v
	}
	return nil
}

// GetUserID returns user ID from context or empty string.
func GetUserID(ctx context.Context) string {
	if u := GetUser(ctx); u != nil {
		return u.UserID
	}
	return ""
}

// HasPermission checks the context user for a permission flag.
func HasPermission(ctx context.Context, permission string) bool {
	return GetUser(ctx).HasPermission(permission)
}
