package service

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/band-site/internal/domain"
	"github.com/spec-kit/band-site/internal/events"
	apperrors "github.com/spec-kit/band-site/pkg/util"
)

type recordingDispatcher struct {
	mu     sync.Mutex
	events []events.Event
}

func (d *recordingDispatcher) Publish(_ context.Context, e events.Event) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, e)
	return nil
}

func (d *recordingDispatcher) Subscribe(events.EventType, events.EventHandler) {}

func (d *recordingDispatcher) types() []events.EventType {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]events.EventType, 0, len(d.events))
	for _, e := range d.events {
		out = append(out, e.Type)
	}
	return out
}

func ident(role domain.Role) *domain.Identity {
	return &domain.Identity{ID: uuid.NewString(), Email: string(role) + "@example.com", Role: role}
}

func requireStatus(t *testing.T, err error, status int, msg string) {
	t.Helper()
	var de *apperrors.DomainError
	require.True(t, errors.As(err, &de), "expected DomainError, got %v", err)
	require.Equal(t, status, de.HTTPStatus)
	if msg != "" {
		require.Equal(t, msg, de.Message)
	}
}

const (
	statusBadRequest   = http.StatusBadRequest
	statusUnauthorized = http.StatusUnauthorized
	statusForbidden    = http.StatusForbidden
	statusNotFound     = http.StatusNotFound
)
