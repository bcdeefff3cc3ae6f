package auth_repo

import (
	"context"
	"fmt"

	"github.com/georgysavva/scany/v2/pgxscan"

	"rezerve/internal/core/apperror"
	"rezerve/internal/domain/auth"
	"rezerve/internal/infrastructure/storage/postgres"
)

// SettingsRepo implements auth.SettingsRepository.
type SettingsRepo struct {
	txManager *postgres.TxManager
}

// NewSettingsRepo creates a new settings repository.
func NewSettingsRepo(txManager *postgres.TxManager) *SettingsRepo {
	return &SettingsRepo{txManager: txManager}
}

func (r *SettingsRepo) querier(ctx context.Context) postgres.Querier {
	return r.txManager.GetQuerier(ctx)
}

// Get retrieves a setting by key.
func (r *SettingsRepo) Get(ctx context.Context, key string) (*auth.Setting, error) {
	query := `SELECT key, value, updated_at FROM settings WHERE key = $1`

	var setting auth.Setting
	if err := pgxscan.Get(ctx, r.querier(ctx), &setting, query, key); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("setting", key)
		}
		return nil, fmt.Errorf("query setting: %w", err)
	}

	return &setting, nil
}

// Set stores a setting value, inserting or overwriting.
func (r *SettingsRepo) Set(ctx context.Context, key, value string) error {
	query := `
		INSERT INTO settings (key, value, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()
	`

	if _, err := r.querier(ctx).Exec(ctx, query, key, value); err != nil {
		return fmt.Errorf("upsert setting: %w", err)
	}

	return nil
}

// All retrieves every stored setting.
func (r *SettingsRepo) All(ctx context.Context) ([]*auth.Setting, error) {
	query := `SELECT key, value, updated_at FROM settings ORDER BY key`

	var settings []*auth.Setting
	if err := pgxscan.Select(ctx, r.querier(ctx), &settings, query); err != nil {
		return nil, fmt.Errorf("list settings: %w", err)
	}

	return settings, nil
}
