package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/oklog/ulid/v2"

	"github.com/spec-kit/band-site/internal/domain"
	"github.com/spec-kit/band-site/internal/events"
	"github.com/spec-kit/band-site/internal/repository"
	apperrors "github.com/spec-kit/band-site/pkg/util"
)

// Pagination defaults.
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// PageRequest is the caller-supplied listing window, 1-based.
type PageRequest struct {
	Page     int
	PageSize int
}

// Normalize clamps the request to valid bounds.
func (p PageRequest) Normalize() PageRequest {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = DefaultPageSize
	}
	if p.PageSize > MaxPageSize {
		p.PageSize = MaxPageSize
	}
	return p
}

func (p PageRequest) repo() repository.Page {
	p = p.Normalize()
	return repository.Page{Limit: p.PageSize, Offset: (p.Page - 1) * p.PageSize}
}

// PageInfo describes the window returned by a listing.
type PageInfo struct {
	Page     int
	PageSize int
	Total    int
}

func pageInfo(p PageRequest, total int) PageInfo {
	p = p.Normalize()
	return PageInfo{Page: p.Page, PageSize: p.PageSize, Total: total}
}

var errNoRows = pgx.ErrNoRows

// requireID rejects ids that cannot exist so they never reach the database.
func requireID(id, notFoundMsg string) error {
	if _, err := uuid.Parse(id); err != nil {
		return apperrors.NewNotFound(notFoundMsg)
	}
	return nil
}

// notFound converts a missing-row error into a 404 with msg.
func notFound(err error, msg string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NewNotFound(msg)
	}
	return err
}

// publish fills event metadata and dispatches it. Handler failures never fail
// the operation that emitted the event.
func publish(ctx context.Context, d events.Dispatcher, event events.Event) {
	if d == nil {
		return
	}
	if event.ID == "" {
		event.ID = ulid.Make().String()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	_ = d.Publish(ctx, event)
}

func actorOf(id *domain.Identity) events.Actor {
	if id == nil {
		return events.Actor{}
	}
	return events.Actor{UserID: id.ID, Role: id.Role}
}

func stringPreview(body string, max int) string {
	body = strings.TrimSpace(body)
	r := []rune(body)
	if len(r) <= max {
		return body
	}
	if max <= 3 {
		return string(r[:max])
	}
	return string(r[:max-3]) + "..."
}

func trimPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
