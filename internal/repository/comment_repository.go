package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/band-site/internal/domain"
)

// CommentRepository encapsulates comments attached to site content.
type CommentRepository interface {
	Create(ctx context.Context, comment *domain.Comment) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Comment, error)
	ListByTarget(ctx context.Context, target domain.TargetType, targetID string, page Page) ([]domain.Comment, int, error)
}

type commentRepository struct {
	pool *pgxpool.Pool
}

// NewCommentRepository instantiates repository.
func NewCommentRepository(pool *pgxpool.Pool) CommentRepository {
	return &commentRepository{pool: pool}
}

const commentSelect = `
        SELECT c.id, c.target_type, c.target_id, c.user_id, u.name, c.content, c.created_at, c.updated_at
        FROM comments c JOIN users u ON u.id = c.user_id`

func scanComment(row pgx.Row) (*domain.Comment, error) {
	var c domain.Comment
	if err := row.Scan(
		&c.ID,
		&c.TargetType,
		&c.TargetID,
		&c.UserID,
		&c.AuthorName,
		&c.Content,
		&c.CreatedAt,
		&c.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *commentRepository) Create(ctx context.Context, c *domain.Comment) error {
	const query = `
        WITH inserted AS (
            INSERT INTO comments (target_type, target_id, user_id, content)
            VALUES ($1,$2,$3,$4)
            RETURNING id, user_id, created_at, updated_at
        )
        SELECT i.id, u.name, i.created_at, i.updated_at
        FROM inserted i JOIN users u ON u.id = i.user_id`
	return r.pool.QueryRow(ctx, query,
		string(c.TargetType),
		c.TargetID,
		c.UserID,
		c.Content,
	).Scan(&c.ID, &c.AuthorName, &c.CreatedAt, &c.UpdatedAt)
}

func (r *commentRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM comments WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *commentRepository) GetByID(ctx context.Context, id string) (*domain.Comment, error) {
	return scanComment(r.pool.QueryRow(ctx, commentSelect+` WHERE c.id=$1`, id))
}

func (r *commentRepository) ListByTarget(ctx context.Context, target domain.TargetType, targetID string, page Page) ([]domain.Comment, int, error) {
	var total int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM comments WHERE target_type=$1 AND target_id=$2`,
		string(target), targetID,
	).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	limit, offset := page.limitOffset()
	query := commentSelect + ` WHERE c.target_type=$1 AND c.target_id=$2 ORDER BY c.created_at ASC LIMIT $3 OFFSET $4`
	rows, err := r.pool.Query(ctx, query, string(target), targetID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []domain.Comment
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *c)
	}
	return out, total, rows.Err()
}
