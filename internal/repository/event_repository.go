package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/band-site/internal/domain"
)

// EventFilter narrows the event listing.
type EventFilter struct {
	StartsAfter        *time.Time
	IncludeUnpublished bool
	Page               Page
}

// EventRepository encapsulates event persistence.
type EventRepository interface {
	Create(ctx context.Context, event *domain.Event) error
	Update(ctx context.Context, event *domain.Event) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Event, error)
	List(ctx context.Context, filter EventFilter) ([]domain.Event, int, error)
}

type eventRepository struct {
	pool *pgxpool.Pool
}

// NewEventRepository instantiates repository.
func NewEventRepository(pool *pgxpool.Pool) EventRepository {
	return &eventRepository{pool: pool}
}

const eventColumns = `id, title, description, venue, city, starts_at, ends_at, ticket_url, image_url,
               published, created_at, updated_at`

func scanEvent(row pgx.Row) (*domain.Event, error) {
	var ev domain.Event
	if err := row.Scan(
		&ev.ID,
		&ev.Title,
		&ev.Description,
		&ev.Venue,
		&ev.City,
		&ev.StartsAt,
		&ev.EndsAt,
		&ev.TicketURL,
		&ev.ImageURL,
		&ev.Published,
		&ev.CreatedAt,
		&ev.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &ev, nil
}

func (r *eventRepository) Create(ctx context.Context, ev *domain.Event) error {
	const query = `
        INSERT INTO events (title, description, venue, city, starts_at, ends_at, ticket_url, image_url, published)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		ev.Title,
		ev.Description,
		ev.Venue,
		ev.City,
		ev.StartsAt,
		ev.EndsAt,
		ev.TicketURL,
		ev.ImageURL,
		ev.Published,
	).Scan(&ev.ID, &ev.CreatedAt, &ev.UpdatedAt)
}

func (r *eventRepository) Update(ctx context.Context, ev *domain.Event) error {
	const query = `
        UPDATE events SET title=$1, description=$2, venue=$3, city=$4, starts_at=$5, ends_at=$6,
            ticket_url=$7, image_url=$8, published=$9, updated_at=NOW()
        WHERE id=$10
        RETURNING updated_at`
	return r.pool.QueryRow(ctx, query,
		ev.Title,
		ev.Description,
		ev.Venue,
		ev.City,
		ev.StartsAt,
		ev.EndsAt,
		ev.TicketURL,
		ev.ImageURL,
		ev.Published,
		ev.ID,
	).Scan(&ev.UpdatedAt)
}

func (r *eventRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM events WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id=$1`
	return scanEvent(r.pool.QueryRow(ctx, query, id))
}

func (r *eventRepository) List(ctx context.Context, filter EventFilter) ([]domain.Event, int, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if !filter.IncludeUnpublished {
		clauses = append(clauses, "published")
	}
	if filter.StartsAfter != nil {
		args = append(args, *filter.StartsAfter)
		clauses = append(clauses, fmt.Sprintf("starts_at >= $%d", len(args)))
	}
	where := " WHERE " + strings.Join(clauses, " AND ")

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM events`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	order := " ORDER BY starts_at DESC"
	if filter.StartsAfter != nil {
		order = " ORDER BY starts_at ASC"
	}
	limit, offset := filter.Page.limitOffset()
	args = append(args, limit, offset)
	query := `SELECT ` + eventColumns + ` FROM events` + where + order +
		fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var events []domain.Event
	for rows.Next() {
		ev, err := scanEvent(rows)
		if err != nil {
			return nil, 0, err
		}
		events = append(events, *ev)
	}
	return events, total, rows.Err()
}
