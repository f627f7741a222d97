package service

import (
	"context"

	"github.com/spec-kit/band-site/internal/domain"
	"github.com/spec-kit/band-site/internal/events"
	"github.com/spec-kit/band-site/internal/repository"
	apperrors "github.com/spec-kit/band-site/pkg/util"
)

// MsgOwnRoleChange rejects an administrator demoting themself.
const MsgOwnRoleChange = "Vous ne pouvez pas modifier votre propre rôle"

// UserService backs the admin user management endpoints.
type UserService struct {
	users      repository.UserRepository
	dispatcher events.Dispatcher
}

// NewUserService constructs the service.
func NewUserService(users repository.UserRepository, dispatcher events.Dispatcher) *UserService {
	return &UserService{users: users, dispatcher: dispatcher}
}

// List returns accounts, newest first.
func (s *UserService) List(ctx context.Context, page PageRequest) ([]domain.User, PageInfo, error) {
	users, total, err := s.users.List(ctx, page.repo())
	if err != nil {
		return nil, PageInfo{}, err
	}
	return users, pageInfo(page, total), nil
}

// UpdateRole changes the role of account id.
func (s *UserService) UpdateRole(ctx context.Context, actor *domain.Identity, id string, role domain.Role) (*domain.User, error) {
	if err := requireID(id, MsgUserNotFound); err != nil {
		return nil, err
	}
	if !role.Valid() {
		return nil, apperrors.NewValidationError(apperrors.FieldError{Field: "role", Message: "Rôle invalide"})
	}
	if actor != nil && actor.ID == id {
		return nil, apperrors.NewBadRequest(MsgOwnRoleChange)
	}

	current, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, MsgUserNotFound)
	}
	if current.Role == role {
		return current, nil
	}

	updated, err := s.users.UpdateRole(ctx, id, role)
	if err != nil {
		return nil, notFound(err, MsgUserNotFound)
	}
	publish(ctx, s.dispatcher, events.Event{
		Type:      events.EventUserRoleChanged,
		SubjectID: id,
		Actor:     actorOf(actor),
		Payload:   events.UserRoleChangedPayload{OldRole: current.Role, NewRole: role},
	})
	return updated, nil
}
