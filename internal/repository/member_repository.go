package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/band-site/internal/domain"
)

// MemberRepository encapsulates band member persistence.
type MemberRepository interface {
	Create(ctx context.Context, m *domain.Member) error
	Update(ctx context.Context, m *domain.Member) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Member, error)
	List(ctx context.Context) ([]domain.Member, error)
}

type memberRepository struct {
	pool *pgxpool.Pool
}

// NewMemberRepository instantiates repository.
func NewMemberRepository(pool *pgxpool.Pool) MemberRepository {
	return &memberRepository{pool: pool}
}

const memberColumns = `id, name, instrument, bio, photo_url, display_order, user_id, created_at, updated_at`

func scanMember(row pgx.Row) (*domain.Member, error) {
	var m domain.Member
	if err := row.Scan(
		&m.ID,
		&m.Name,
		&m.Instrument,
		&m.Bio,
		&m.PhotoURL,
		&m.DisplayOrder,
		&m.UserID,
		&m.CreatedAt,
		&m.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *memberRepository) Create(ctx context.Context, m *domain.Member) error {
	const query = `
        INSERT INTO members (name, instrument, bio, photo_url, display_order, user_id)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		m.Name,
		m.Instrument,
		m.Bio,
		m.PhotoURL,
		m.DisplayOrder,
		m.UserID,
	).Scan(&m.ID, &m.CreatedAt, &m.UpdatedAt)
}

func (r *memberRepository) Update(ctx context.Context, m *domain.Member) error {
	const query = `
        UPDATE members SET name=$1, instrument=$2, bio=$3, photo_url=$4, display_order=$5, user_id=$6,
            updated_at=NOW()
        WHERE id=$7
        RETURNING updated_at`
	return r.pool.QueryRow(ctx, query,
		m.Name,
		m.Instrument,
		m.Bio,
		m.PhotoURL,
		m.DisplayOrder,
		m.UserID,
		m.ID,
	).Scan(&m.UpdatedAt)
}

func (r *memberRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM members WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *memberRepository) GetByID(ctx context.Context, id string) (*domain.Member, error) {
	query := `SELECT ` + memberColumns + ` FROM members WHERE id=$1`
	return scanMember(r.pool.QueryRow(ctx, query, id))
}

func (r *memberRepository) List(ctx context.Context) ([]domain.Member, error) {
	query := `SELECT ` + memberColumns + ` FROM members ORDER BY display_order ASC, name ASC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Member
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *m)
	}
	return out, rows.Err()
}
