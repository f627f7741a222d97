package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/band-site/internal/auth"
	"github.com/spec-kit/band-site/internal/domain"
	"github.com/spec-kit/band-site/internal/repository/repotest"
)

func TestEventVisibility(t *testing.T) {
	repo := repotest.NewEvents()
	svc := NewEventService(repo, auth.DefaultPolicy())
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }
	ctx := context.Background()

	draft := false
	past, err := svc.Create(ctx, EventInput{Title: "Past", Venue: "Club", StartsAt: now.Add(-48 * time.Hour)})
	require.NoError(t, err)
	soon, err := svc.Create(ctx, EventInput{Title: "Soon", Venue: "Club", StartsAt: now.Add(24 * time.Hour)})
	require.NoError(t, err)
	later, err := svc.Create(ctx, EventInput{Title: "Later", Venue: "Arena", StartsAt: now.Add(72 * time.Hour)})
	require.NoError(t, err)
	hidden, err := svc.Create(ctx, EventInput{Title: "Draft", Venue: "Secret", StartsAt: now.Add(48 * time.Hour), Published: &draft})
	require.NoError(t, err)

	list, info, err := svc.List(ctx, nil, EventListInput{Upcoming: true})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, soon.ID, list[0].ID)
	assert.Equal(t, later.ID, list[1].ID)
	assert.Equal(t, 2, info.Total)

	all, _, err := svc.List(ctx, ident(domain.RoleAdmin), EventListInput{})
	require.NoError(t, err)
	assert.Len(t, all, 4)
	assert.Equal(t, past.ID, all[3].ID)

	_, err = svc.Get(ctx, ident(domain.RoleUser), hidden.ID)
	requireStatus(t, err, statusNotFound, MsgEventNotFound)

	got, err := svc.Get(ctx, ident(domain.RoleAdmin), hidden.ID)
	require.NoError(t, err)
	assert.False(t, got.Published)
}

func TestEventUpdateAndDelete(t *testing.T) {
	svc := NewEventService(repotest.NewEvents(), auth.DefaultPolicy())
	ctx := context.Background()
	start := time.Now().Add(time.Hour)

	ev, err := svc.Create(ctx, EventInput{Title: "Gig", Venue: "Bar", StartsAt: start})
	require.NoError(t, err)
	assert.True(t, ev.Published)

	link := " https://tickets.example.org/gig "
	updated, err := svc.Update(ctx, ev.ID, EventInput{Title: "Gig <i>2</i>", Venue: "Bar", StartsAt: start, TicketURL: &link})
	require.NoError(t, err)
	assert.Equal(t, "Gig 2", updated.Title)
	require.NotNil(t, updated.TicketURL)
	assert.Equal(t, "https://tickets.example.org/gig", *updated.TicketURL)
	assert.True(t, updated.Published)

	require.NoError(t, svc.Delete(ctx, ev.ID))
	requireStatus(t, svc.Delete(ctx, ev.ID), statusNotFound, MsgEventNotFound)

	_, err = svc.Update(ctx, "nope", EventInput{})
	requireStatus(t, err, statusNotFound, MsgEventNotFound)
}
