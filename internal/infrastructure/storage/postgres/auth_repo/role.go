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

// RoleRepo implements auth.RoleRepository.
type RoleRepo struct {
	txManager *postgres.TxManager
}

// NewRoleRepo creates a new role repository.
func NewRoleRepo(txManager *postgres.TxManager) *RoleRepo {
	return &RoleRepo{txManager: txManager}
}

func (r *RoleRepo) querier(ctx context.Context) postgres.Querier {
	return r.txManager.GetQuerier(ctx)
}

const roleCols = `id, name, can_create_reservation, can_view_reports,
	can_view_logs, can_view_settings, can_view_management, is_superadmin,
	created_at, updated_at`

// Create creates a new role.
func (r *RoleRepo) Create(ctx context.Context, role *auth.Role) error {
	query := `
		INSERT INTO roles (
			id, name, can_create_reservation, can_view_reports,
			can_view_logs, can_view_settings, can_view_management,
			is_superadmin, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.querier(ctx).Exec(ctx, query,
		role.ID, role.Name, role.CanCreateReservation, role.CanViewReports,
		role.CanViewLogs, role.CanViewSettings, role.CanViewManagement,
		role.IsSuperadmin, role.CreatedAt, role.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return apperror.NewDuplicate("role", "name", role.Name).WithCause(err)
		}
		return fmt.Errorf("insert role: %w", err)
	}

	return nil
}

// GetByID retrieves role by ID.
func (r *RoleRepo) GetByID(ctx context.Context, roleID id.ID) (*auth.Role, error) {
	query := `SELECT ` + roleCols + ` FROM roles WHERE id = $1`

	var role auth.Role
	if err := pgxscan.Get(ctx, r.querier(ctx), &role, query, roleID); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("role", roleID.String())
		}
		return nil, fmt.Errorf("query role: %w", err)
	}

	return &role, nil
}

// GetByName retrieves role by name.
func (r *RoleRepo) GetByName(ctx context.Context, name string) (*auth.Role, error) {
	query := `SELECT ` + roleCols + ` FROM roles WHERE name = $1`

	var role auth.Role
	if err := pgxscan.Get(ctx, r.querier(ctx), &role, query, name); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("role", name)
		}
		return nil, fmt.Errorf("query role: %w", err)
	}

	return &role, nil
}

// Update updates role data.
func (r *RoleRepo) Update(ctx context.Context, role *auth.Role) error {
	query := `
		UPDATE roles SET
			name = $2, can_create_reservation = $3, can_view_reports = $4,
			can_view_logs = $5, can_view_settings = $6,
			can_view_management = $7, is_superadmin = $8, updated_at = $9
		WHERE id = $1
	`

	result, err := r.querier(ctx).Exec(ctx, query,
		role.ID, role.Name, role.CanCreateReservation, role.CanViewReports,
		role.CanViewLogs, role.CanViewSettings, role.CanViewManagement,
		role.IsSuperadmin, role.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update role: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("role", role.ID.String())
	}

	return nil
}

// List retrieves all roles.
func (r *RoleRepo) List(ctx context.Context) ([]*auth.Role, error) {
	query := `SELECT ` + roleCols + ` FROM roles ORDER BY name`

	var roles []*auth.Role
	if err := pgxscan.Select(ctx, r.querier(ctx), &roles, query); err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}

	return roles, nil
}

// Delete removes a role. Roles still referenced by users cannot be removed.
func (r *RoleRepo) Delete(ctx context.Context, roleID id.ID) error {
	result, err := r.querier(ctx).Exec(ctx, `DELETE FROM roles WHERE id = $1`, roleID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return apperror.NewConflict("cannot delete: role is assigned to users").
				WithDetail("role_id", roleID.String()).
				WithCause(err)
		}
		return fmt.Errorf("delete role: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("role", roleID.String())
	}

	return nil
}
