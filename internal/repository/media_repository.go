package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/band-site/internal/domain"
)

// MediaFilter narrows the gallery listing.
type MediaFilter struct {
	Kind *domain.MediaKind
	Page Page
}

// MediaRepository encapsulates gallery persistence.
type MediaRepository interface {
	Create(ctx context.Context, m *domain.Media) error
	Update(ctx context.Context, m *domain.Media) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Media, error)
	List(ctx context.Context, filter MediaFilter) ([]domain.Media, int, error)
}

type mediaRepository struct {
	pool *pgxpool.Pool
}

// NewMediaRepository instantiates repository.
func NewMediaRepository(pool *pgxpool.Pool) MediaRepository {
	return &mediaRepository{pool: pool}
}

const mediaColumns = `id, kind, title, description, url, storage_key, uploaded_by, created_at, updated_at`

func scanMedia(row pgx.Row) (*domain.Media, error) {
	var m domain.Media
	if err := row.Scan(
		&m.ID,
		&m.Kind,
		&m.Title,
		&m.Description,
		&m.URL,
		&m.StorageKey,
		&m.UploadedBy,
		&m.CreatedAt,
		&m.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *mediaRepository) Create(ctx context.Context, m *domain.Media) error {
	const query = `
        INSERT INTO media (kind, title, description, url, storage_key, uploaded_by)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		string(m.Kind),
		m.Title,
		m.Description,
		m.URL,
		m.StorageKey,
		m.UploadedBy,
	).Scan(&m.ID, &m.CreatedAt, &m.UpdatedAt)
}

func (r *mediaRepository) Update(ctx context.Context, m *domain.Media) error {
	const query = `
        UPDATE media SET title=$1, description=$2, url=$3, updated_at=NOW()
        WHERE id=$4
        RETURNING updated_at`
	return r.pool.QueryRow(ctx, query,
		m.Title,
		m.Description,
		m.URL,
		m.ID,
	).Scan(&m.UpdatedAt)
}

func (r *mediaRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM media WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *mediaRepository) GetByID(ctx context.Context, id string) (*domain.Media, error) {
	query := `SELECT ` + mediaColumns + ` FROM media WHERE id=$1`
	return scanMedia(r.pool.QueryRow(ctx, query, id))
}

func (r *mediaRepository) List(ctx context.Context, filter MediaFilter) ([]domain.Media, int, error) {
	where := ""
	args := []any{}
	if filter.Kind != nil {
		args = append(args, string(*filter.Kind))
		where = " WHERE kind=$1"
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM media`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit, offset := filter.Page.limitOffset()
	args = append(args, limit, offset)
	query := `SELECT ` + mediaColumns + ` FROM media` + where + ` ORDER BY created_at DESC`
	if filter.Kind != nil {
		query += ` LIMIT $2 OFFSET $3`
	} else {
		query += ` LIMIT $1 OFFSET $2`
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []domain.Media
	for rows.Next() {
		m, err := scanMedia(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *m)
	}
	return out, total, rows.Err()
}
