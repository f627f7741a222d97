package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/band-site/internal/domain"
)

// LikeRepository stores one like per (user, target).
type LikeRepository interface {
	// Add returns false when the like already existed.
	Add(ctx context.Context, userID string, target domain.TargetType, targetID string) (bool, error)
	// Remove returns false when there was nothing to remove.
	Remove(ctx context.Context, userID string, target domain.TargetType, targetID string) (bool, error)
	Exists(ctx context.Context, userID string, target domain.TargetType, targetID string) (bool, error)
	Count(ctx context.Context, target domain.TargetType, targetID string) (int, error)
}

type likeRepository struct {
	pool *pgxpool.Pool
}

// NewLikeRepository instantiates repository.
func NewLikeRepository(pool *pgxpool.Pool) LikeRepository {
	return &likeRepository{pool: pool}
}

func (r *likeRepository) Add(ctx context.Context, userID string, target domain.TargetType, targetID string) (bool, error) {
	const query = `
        INSERT INTO likes (user_id, target_type, target_id) VALUES ($1,$2,$3)
        ON CONFLICT (user_id, target_type, target_id) DO NOTHING`
	cmd, err := r.pool.Exec(ctx, query, userID, string(target), targetID)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() == 1, nil
}

func (r *likeRepository) Remove(ctx context.Context, userID string, target domain.TargetType, targetID string) (bool, error) {
	const query = `DELETE FROM likes WHERE user_id=$1 AND target_type=$2 AND target_id=$3`
	cmd, err := r.pool.Exec(ctx, query, userID, string(target), targetID)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() == 1, nil
}

func (r *likeRepository) Exists(ctx context.Context, userID string, target domain.TargetType, targetID string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM likes WHERE user_id=$1 AND target_type=$2 AND target_id=$3)`
	var ok bool
	err := r.pool.QueryRow(ctx, query, userID, string(target), targetID).Scan(&ok)
	return ok, err
}

func (r *likeRepository) Count(ctx context.Context, target domain.TargetType, targetID string) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM likes WHERE target_type=$1 AND target_id=$2`,
		string(target), targetID,
	).Scan(&n)
	return n, err
}
