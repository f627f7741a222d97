package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/band-site/internal/events"
)

// NotificationService writes a moderation trail for user-generated content
// and account changes.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventUserRegistered, n.handleAccount)
	n.dispatcher.Subscribe(events.EventUserRoleChanged, n.handleAccount)
	n.dispatcher.Subscribe(events.EventCommentCreated, n.handleContent)
	n.dispatcher.Subscribe(events.EventCommentDeleted, n.handleContent)
	n.dispatcher.Subscribe(events.EventMediaUploaded, n.handleContent)
	n.dispatcher.Subscribe(events.EventMediaDeleted, n.handleContent)
	n.dispatcher.Subscribe(events.EventLikeToggled, n.handleLike)
}

func (n *NotificationService) handleAccount(_ context.Context, event events.Event) error {
	n.logger.Info(string(event.Type),
		zap.String("event_id", event.ID),
		zap.String("user_id", event.SubjectID),
		zap.String("actor_id", event.Actor.UserID),
		zap.Any("payload", event.Payload))
	return nil
}

func (n *NotificationService) handleContent(_ context.Context, event events.Event) error {
	n.logger.Info(string(event.Type),
		zap.String("event_id", event.ID),
		zap.String("subject_id", event.SubjectID),
		zap.String("actor_id", event.Actor.UserID),
		zap.String("actor_role", string(event.Actor.Role)),
		zap.Any("payload", event.Payload))
	return nil
}

func (n *NotificationService) handleLike(_ context.Context, event events.Event) error {
	n.logger.Debug(string(event.Type),
		zap.String("subject_id", event.SubjectID),
		zap.String("actor_id", event.Actor.UserID),
		zap.Any("payload", event.Payload))
	return nil
}
