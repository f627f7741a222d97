package service

import (
	"context"
	"time"

	"github.com/spec-kit/band-site/internal/domain"
	"github.com/spec-kit/band-site/internal/repository"
	"github.com/spec-kit/band-site/internal/sanitize"
)

// MsgPerformanceNotFound is returned for missing performances.
const MsgPerformanceNotFound = "Performance introuvable"

// PerformanceService manages past shows.
type PerformanceService struct {
	performances repository.PerformanceRepository
}

// PerformanceInput is the full writable state of a performance.
type PerformanceInput struct {
	Title       string
	Description string
	Venue       string
	PerformedAt time.Time
	VideoURL    *string
	ImageURL    *string
}

// NewPerformanceService constructs the service.
func NewPerformanceService(performances repository.PerformanceRepository) *PerformanceService {
	return &PerformanceService{performances: performances}
}

// List returns performances, most recent first.
func (s *PerformanceService) List(ctx context.Context, page PageRequest) ([]domain.Performance, PageInfo, error) {
	items, total, err := s.performances.List(ctx, page.repo())
	if err != nil {
		return nil, PageInfo{}, err
	}
	return items, pageInfo(page, total), nil
}

// Get returns performance id.
func (s *PerformanceService) Get(ctx context.Context, id string) (*domain.Performance, error) {
	if err := requireID(id, MsgPerformanceNotFound); err != nil {
		return nil, err
	}
	p, err := s.performances.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, MsgPerformanceNotFound)
	}
	return p, nil
}

// Create stores a new performance.
func (s *PerformanceService) Create(ctx context.Context, input PerformanceInput) (*domain.Performance, error) {
	p := &domain.Performance{}
	applyPerformanceInput(p, input)
	if err := s.performances.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Update replaces the writable fields of performance id.
func (s *PerformanceService) Update(ctx context.Context, id string, input PerformanceInput) (*domain.Performance, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	applyPerformanceInput(p, input)
	if err := s.performances.Update(ctx, p); err != nil {
		return nil, notFound(err, MsgPerformanceNotFound)
	}
	return p, nil
}

// Delete removes performance id.
func (s *PerformanceService) Delete(ctx context.Context, id string) error {
	if err := requireID(id, MsgPerformanceNotFound); err != nil {
		return err
	}
	return notFound(s.performances.Delete(ctx, id), MsgPerformanceNotFound)
}

func applyPerformanceInput(p *domain.Performance, in PerformanceInput) {
	p.Title = sanitize.Text(in.Title)
	p.Description = sanitize.HTML(in.Description)
	p.Venue = sanitize.Text(in.Venue)
	p.PerformedAt = in.PerformedAt.UTC()
	p.VideoURL = trimPtr(in.VideoURL)
	p.ImageURL = trimPtr(in.ImageURL)
}
