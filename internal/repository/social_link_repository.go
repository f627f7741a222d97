package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/band-site/internal/domain"
)

// SocialLinkRepository encapsulates social profile links.
type SocialLinkRepository interface {
	Create(ctx context.Context, link *domain.SocialLink) error
	Update(ctx context.Context, link *domain.SocialLink) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.SocialLink, error)
	List(ctx context.Context) ([]domain.SocialLink, error)
}

type socialLinkRepository struct {
	pool *pgxpool.Pool
}

// NewSocialLinkRepository instantiates repository.
func NewSocialLinkRepository(pool *pgxpool.Pool) SocialLinkRepository {
	return &socialLinkRepository{pool: pool}
}

const socialLinkColumns = `id, name, url, icon, display_order, created_at, updated_at`

func scanSocialLink(row pgx.Row) (*domain.SocialLink, error) {
	var l domain.SocialLink
	if err := row.Scan(&l.ID, &l.Name, &l.URL, &l.Icon, &l.DisplayOrder, &l.CreatedAt, &l.UpdatedAt); err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *socialLinkRepository) Create(ctx context.Context, link *domain.SocialLink) error {
	const query = `
        INSERT INTO social_links (name, url, icon, display_order)
        VALUES ($1,$2,$3,$4)
        RETURNING id, created_at, updated_at`
	err := r.pool.QueryRow(ctx, query, link.Name, link.URL, link.Icon, link.DisplayOrder).
		Scan(&link.ID, &link.CreatedAt, &link.UpdatedAt)
	return translate(err)
}

func (r *socialLinkRepository) Update(ctx context.Context, link *domain.SocialLink) error {
	const query = `
        UPDATE social_links SET name=$1, url=$2, icon=$3, display_order=$4, updated_at=NOW()
        WHERE id=$5
        RETURNING updated_at`
	err := r.pool.QueryRow(ctx, query, link.Name, link.URL, link.Icon, link.DisplayOrder, link.ID).
		Scan(&link.UpdatedAt)
	return translate(err)
}

func (r *socialLinkRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM social_links WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *socialLinkRepository) GetByID(ctx context.Context, id string) (*domain.SocialLink, error) {
	query := `SELECT ` + socialLinkColumns + ` FROM social_links WHERE id=$1`
	return scanSocialLink(r.pool.QueryRow(ctx, query, id))
}

func (r *socialLinkRepository) List(ctx context.Context) ([]domain.SocialLink, error) {
	query := `SELECT ` + socialLinkColumns + ` FROM social_links ORDER BY display_order ASC, name ASC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.SocialLink
	for rows.Next() {
		l, err := scanSocialLink(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *l)
	}
	return out, rows.Err()
}
