package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/band-site/internal/domain"
)

// SettingRepository stores site key/value settings.
type SettingRepository interface {
	List(ctx context.Context) ([]domain.SiteSetting, error)
	Get(ctx context.Context, key string) (*domain.SiteSetting, error)
	Upsert(ctx context.Context, key, value string) (*domain.SiteSetting, error)
	Delete(ctx context.Context, key string) error
}

type settingRepository struct {
	pool *pgxpool.Pool
}

// NewSettingRepository instantiates repository.
func NewSettingRepository(pool *pgxpool.Pool) SettingRepository {
	return &settingRepository{pool: pool}
}

func (r *settingRepository) List(ctx context.Context) ([]domain.SiteSetting, error) {
	rows, err := r.pool.Query(ctx, `SELECT key, value, updated_at FROM site_settings ORDER BY key`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.SiteSetting
	for rows.Next() {
		var s domain.SiteSetting
		if err := rows.Scan(&s.Key, &s.Value, &s.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *settingRepository) Get(ctx context.Context, key string) (*domain.SiteSetting, error) {
	var s domain.SiteSetting
	err := r.pool.QueryRow(ctx, `SELECT key, value, updated_at FROM site_settings WHERE key=$1`, key).
		Scan(&s.Key, &s.Value, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *settingRepository) Upsert(ctx context.Context, key, value string) (*domain.SiteSetting, error) {
	const query = `
        INSERT INTO site_settings (key, value) VALUES ($1, $2)
        ON CONFLICT (key) DO UPDATE SET value=EXCLUDED.value, updated_at=NOW()
        RETURNING key, value, updated_at`

	var s domain.SiteSetting
	if err := r.pool.QueryRow(ctx, query, key, value).Scan(&s.Key, &s.Value, &s.UpdatedAt); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *settingRepository) Delete(ctx context.Context, key string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM site_settings WHERE key=$1`, key)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
