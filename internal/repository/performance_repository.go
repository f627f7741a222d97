package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/band-site/internal/domain"
)

// PerformanceRepository encapsulates past-show persistence.
type PerformanceRepository interface {
	Create(ctx context.Context, p *domain.Performance) error
	Update(ctx context.Context, p *domain.Performance) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Performance, error)
	List(ctx context.Context, page Page) ([]domain.Performance, int, error)
}

type performanceRepository struct {
	pool *pgxpool.Pool
}

// NewPerformanceRepository instantiates repository.
func NewPerformanceRepository(pool *pgxpool.Pool) PerformanceRepository {
	return &performanceRepository{pool: pool}
}

const performanceColumns = `id, title, description, venue, performed_at, video_url, image_url, created_at, updated_at`

func scanPerformance(row pgx.Row) (*domain.Performance, error) {
	var p domain.Performance
	if err := row.Scan(
		&p.ID,
		&p.Title,
		&p.Description,
		&p.Venue,
		&p.PerformedAt,
		&p.VideoURL,
		&p.ImageURL,
		&p.CreatedAt,
		&p.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *performanceRepository) Create(ctx context.Context, p *domain.Performance) error {
	const query = `
        INSERT INTO performances (title, description, venue, performed_at, video_url, image_url)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		p.Title,
		p.Description,
		p.Venue,
		p.PerformedAt,
		p.VideoURL,
		p.ImageURL,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
}

func (r *performanceRepository) Update(ctx context.Context, p *domain.Performance) error {
	const query = `
        UPDATE performances SET title=$1, description=$2, venue=$3, performed_at=$4, video_url=$5,
            image_url=$6, updated_at=NOW()
        WHERE id=$7
        RETURNING updated_at`
	return r.pool.QueryRow(ctx, query,
		p.Title,
		p.Description,
		p.Venue,
		p.PerformedAt,
		p.VideoURL,
		p.ImageURL,
		p.ID,
	).Scan(&p.UpdatedAt)
}

func (r *performanceRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM performances WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *performanceRepository) GetByID(ctx context.Context, id string) (*domain.Performance, error) {
	query := `SELECT ` + performanceColumns + ` FROM performances WHERE id=$1`
	return scanPerformance(r.pool.QueryRow(ctx, query, id))
}

func (r *performanceRepository) List(ctx context.Context, page Page) ([]domain.Performance, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM performances`).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit, offset := page.limitOffset()
	query := `SELECT ` + performanceColumns + ` FROM performances ORDER BY performed_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []domain.Performance
	for rows.Next() {
		p, err := scanPerformance(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *p)
	}
	return out, total, rows.Err()
}
