// Package auth_repo provides PostgreSQL implementations for auth repositories.
package auth_repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgconn"

	"rezerve/internal/core/apperror"
	"rezerve/internal/core/id"
	"rezerve/internal/domain/auth"
	"rezerve/internal/infrastructure/storage/postgres"
)

// UserRepo implements auth.UserRepository.
type UserRepo struct {
	txManager *postgres.TxManager
}

// NewUserRepo creates a new user repository.
func NewUserRepo(txManager *postgres.TxManager) *UserRepo {
	return &UserRepo{txManager: txManager}
}

func (r *UserRepo) querier(ctx context.Context) postgres.Querier {
	return r.txManager.GetQuerier(ctx)
}

const userCols = `id, username, password_hash, full_name, role_id, branch_id,
	is_active, last_login_at, failed_login_attempts, locked_until,
	created_at, updated_at`

// Create creates a new user.
func (r *UserRepo) Create(ctx context.Context, user *auth.User) error {
	query := `
		INSERT INTO users (
			id, username, password_hash, full_name, role_id, branch_id,
			is_active, last_login_at, failed_login_attempts, locked_until,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := r.querier(ctx).Exec(ctx, query,
		user.ID, user.Username, user.PasswordHash, user.FullName,
		user.RoleID, user.BranchID, user.IsActive, user.LastLoginAt,
		user.FailedLoginAttempts, user.LockedUntil,
		user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return apperror.NewDuplicate("user", "username", user.Username).WithCause(err)
		}
		return fmt.Errorf("insert user: %w", err)
	}

	return nil
}

// GetByID retrieves user by ID.
func (r *UserRepo) GetByID(ctx context.Context, userID id.ID) (*auth.User, error) {
	query := `SELECT ` + userCols + ` FROM users WHERE id = $1`

	var user auth.User
	if err := pgxscan.Get(ctx, r.querier(ctx), &user, query, userID); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("user", userID.String())
		}
		return nil, fmt.Errorf("query user: %w", err)
	}

	return &user, nil
}

// GetByUsername retrieves user by username (case-insensitive).
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*auth.User, error) {
	query := `SELECT ` + userCols + ` FROM users WHERE username = LOWER($1)`

	var user auth.User
	if err := pgxscan.Get(ctx, r.querier(ctx), &user, query, username); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("user", username)
		}
		return nil, fmt.Errorf("query user: %w", err)
	}

	return &user, nil
}

// Update updates user data.
func (r *UserRepo) Update(ctx context.Context, user *auth.User) error {
	query := `
		UPDATE users SET
			username = $2, password_hash = $3, full_name = $4, role_id = $5,
			branch_id = $6, is_active = $7, last_login_at = $8,
			failed_login_attempts = $9, locked_until = $10, updated_at = $11
		WHERE id = $1
	`

	result, err := r.querier(ctx).Exec(ctx, query,
		user.ID, user.Username, user.PasswordHash, user.FullName,
		user.RoleID, user.BranchID, user.IsActive, user.LastLoginAt,
		user.FailedLoginAttempts, user.LockedUntil, user.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("user", user.ID.String())
	}

	return nil
}

// List retrieves all users.
func (r *UserRepo) List(ctx context.Context) ([]*auth.User, error) {
	query := `SELECT ` + userCols + ` FROM users ORDER BY username`

	var users []*auth.User
	if err := pgxscan.Select(ctx, r.querier(ctx), &users, query); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	return users, nil
}

// Delete removes a user.
func (r *UserRepo) Delete(ctx context.Context, userID id.ID) error {
	result, err := r.querier(ctx).Exec(ctx, `DELETE FROM users WHERE id = $1`, userID)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("user", userID.String())
	}

	return nil
}
