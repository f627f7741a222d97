package service

import (
	"context"
	"time"

	"github.com/spec-kit/band-site/internal/auth"
	"github.com/spec-kit/band-site/internal/domain"
	"github.com/spec-kit/band-site/internal/repository"
	"github.com/spec-kit/band-site/internal/sanitize"
)

// MsgEventNotFound is returned for missing or hidden events.
const MsgEventNotFound = "Événement introuvable"

// EventService manages concert dates.
type EventService struct {
	events repository.EventRepository
	policy auth.Policy
	now    func() time.Time
}

// EventInput is the full writable state of an event.
type EventInput struct {
	Title       string
	Description string
	Venue       string
	City        string
	StartsAt    time.Time
	EndsAt      *time.Time
	TicketURL   *string
	ImageURL    *string
	Published   *bool
}

// EventListInput filters the public listing.
type EventListInput struct {
	Upcoming bool
	Page     PageRequest
}

// NewEventService constructs the service.
func NewEventService(events repository.EventRepository, policy auth.Policy) *EventService {
	return &EventService{events: events, policy: policy, now: time.Now}
}

// canSeeDrafts reports whether viewer may see unpublished events.
func (s *EventService) canSeeDrafts(viewer *domain.Identity) bool {
	return s.policy.IsAllowed(viewer, auth.Can(auth.ActionUpdate, auth.ResourceEvents))
}

// List returns events. Upcoming listings are sorted soonest first.
func (s *EventService) List(ctx context.Context, viewer *domain.Identity, input EventListInput) ([]domain.Event, PageInfo, error) {
	filter := repository.EventFilter{
		IncludeUnpublished: s.canSeeDrafts(viewer),
		Page:               input.Page.repo(),
	}
	if input.Upcoming {
		now := s.now()
		filter.StartsAfter = &now
	}
	events, total, err := s.events.List(ctx, filter)
	if err != nil {
		return nil, PageInfo{}, err
	}
	return events, pageInfo(input.Page, total), nil
}

// Get returns a single event. Drafts are reported missing to non-admins.
func (s *EventService) Get(ctx context.Context, viewer *domain.Identity, id string) (*domain.Event, error) {
	if err := requireID(id, MsgEventNotFound); err != nil {
		return nil, err
	}
	ev, err := s.events.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, MsgEventNotFound)
	}
	if !ev.Published && !s.canSeeDrafts(viewer) {
		return nil, notFound(errNoRows, MsgEventNotFound)
	}
	return ev, nil
}

// Create stores a new event.
func (s *EventService) Create(ctx context.Context, input EventInput) (*domain.Event, error) {
	ev := &domain.Event{Published: true}
	applyEventInput(ev, input)
	if err := s.events.Create(ctx, ev); err != nil {
		return nil, err
	}
	return ev, nil
}

// Update replaces the writable fields of event id.
func (s *EventService) Update(ctx context.Context, id string, input EventInput) (*domain.Event, error) {
	if err := requireID(id, MsgEventNotFound); err != nil {
		return nil, err
	}
	ev, err := s.events.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, MsgEventNotFound)
	}
	applyEventInput(ev, input)
	if err := s.events.Update(ctx, ev); err != nil {
		return nil, notFound(err, MsgEventNotFound)
	}
	return ev, nil
}

// Delete removes event id.
func (s *EventService) Delete(ctx context.Context, id string) error {
	if err := requireID(id, MsgEventNotFound); err != nil {
		return err
	}
	return notFound(s.events.Delete(ctx, id), MsgEventNotFound)
}

func applyEventInput(ev *domain.Event, in EventInput) {
	ev.Title = sanitize.Text(in.Title)
	ev.Description = sanitize.HTML(in.Description)
	ev.Venue = sanitize.Text(in.Venue)
	ev.City = sanitize.Text(in.City)
	ev.StartsAt = in.StartsAt.UTC()
	if in.EndsAt != nil {
		end := in.EndsAt.UTC()
		ev.EndsAt = &end
	} else {
		ev.EndsAt = nil
	}
	ev.TicketURL = trimPtr(in.TicketURL)
	ev.ImageURL = trimPtr(in.ImageURL)
	if in.Published != nil {
		ev.Published = *in.Published
	}
}
