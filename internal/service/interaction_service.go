package service

import (
	"context"

	"github.com/spec-kit/band-site/internal/auth"
	"github.com/spec-kit/band-site/internal/domain"
	"github.com/spec-kit/band-site/internal/events"
	"github.com/spec-kit/band-site/internal/repository"
	"github.com/spec-kit/band-site/internal/sanitize"
	apperrors "github.com/spec-kit/band-site/pkg/util"
)

// Interaction messages.
const (
	MsgTargetNotFound  = "Contenu introuvable"
	MsgCommentNotFound = "Commentaire introuvable"
	MsgCommentEmpty    = "Le commentaire ne peut pas être vide"
	MsgInvalidTarget   = "Type de contenu invalide"
)

// InteractionService handles comments and likes on events, performances and media.
type InteractionService struct {
	comments     repository.CommentRepository
	likes        repository.LikeRepository
	events       repository.EventRepository
	performances repository.PerformanceRepository
	media        repository.MediaRepository
	policy       auth.Policy
	dispatcher   events.Dispatcher
}

// InteractionDependencies bundles repositories for the interaction service.
type InteractionDependencies struct {
	CommentRepo     repository.CommentRepository
	LikeRepo        repository.LikeRepository
	EventRepo       repository.EventRepository
	PerformanceRepo repository.PerformanceRepository
	MediaRepo       repository.MediaRepository
	Policy          auth.Policy
	Dispatcher      events.Dispatcher
}

// Target identifies a piece of content.
type Target struct {
	Type domain.TargetType
	ID   string
}

// LikeStatus is the like summary of a target for one viewer.
type LikeStatus struct {
	Liked bool
	Count int
}

// NewInteractionService constructs the service.
func NewInteractionService(deps InteractionDependencies) *InteractionService {
	return &InteractionService{
		comments:     deps.CommentRepo,
		likes:        deps.LikeRepo,
		events:       deps.EventRepo,
		performances: deps.PerformanceRepo,
		media:        deps.MediaRepo,
		policy:       deps.Policy,
		dispatcher:   deps.Dispatcher,
	}
}

// ListComments returns comments on target, oldest first.
func (s *InteractionService) ListComments(ctx context.Context, viewer *domain.Identity, target Target, page PageRequest) ([]domain.Comment, PageInfo, error) {
	if err := s.ensureTarget(ctx, viewer, target); err != nil {
		return nil, PageInfo{}, err
	}
	items, total, err := s.comments.ListByTarget(ctx, target.Type, target.ID, page.repo())
	if err != nil {
		return nil, PageInfo{}, err
	}
	return items, pageInfo(page, total), nil
}

// AddComment posts a plain-text comment as actor.
func (s *InteractionService) AddComment(ctx context.Context, actor *domain.Identity, target Target, content string) (*domain.Comment, error) {
	if err := s.policy.Authorize(actor, auth.Can(auth.ActionCreate, auth.ResourceComments)); err != nil {
		return nil, auth.AsHTTPError(err)
	}
	content = sanitize.Text(content)
	if content == "" {
		return nil, apperrors.NewValidationError(apperrors.FieldError{Field: "content", Message: MsgCommentEmpty})
	}
	if err := s.ensureTarget(ctx, actor, target); err != nil {
		return nil, err
	}

	c := &domain.Comment{
		TargetType: target.Type,
		TargetID:   target.ID,
		UserID:     actor.ID,
		Content:    content,
	}
	if err := s.comments.Create(ctx, c); err != nil {
		return nil, err
	}
	publish(ctx, s.dispatcher, events.Event{
		Type:      events.EventCommentCreated,
		SubjectID: c.ID,
		Actor:     actorOf(actor),
		Payload: events.CommentPayload{
			TargetType:  c.TargetType,
			TargetID:    c.TargetID,
			AuthorID:    c.UserID,
			BodyPreview: stringPreview(c.Content, 80),
		},
	})
	return c, nil
}

// DeleteComment removes comment id. Authors may delete their own comments.
func (s *InteractionService) DeleteComment(ctx context.Context, actor *domain.Identity, id string) error {
	if err := requireID(id, MsgCommentNotFound); err != nil {
		return err
	}
	c, err := s.comments.GetByID(ctx, id)
	if err != nil {
		return notFound(err, MsgCommentNotFound)
	}
	if err := s.policy.AuthorizeOwned(actor, auth.Can(auth.ActionDelete, auth.ResourceComments), c.UserID); err != nil {
		return auth.AsHTTPError(err)
	}
	if err := s.comments.Delete(ctx, id); err != nil {
		return notFound(err, MsgCommentNotFound)
	}
	publish(ctx, s.dispatcher, events.Event{
		Type:      events.EventCommentDeleted,
		SubjectID: c.ID,
		Actor:     actorOf(actor),
		Payload:   events.CommentPayload{TargetType: c.TargetType, TargetID: c.TargetID, AuthorID: c.UserID},
	})
	return nil
}

// ToggleLike likes target for actor, or removes the like if it exists.
func (s *InteractionService) ToggleLike(ctx context.Context, actor *domain.Identity, target Target) (*LikeStatus, error) {
	if err := s.policy.Authorize(actor, auth.Can(auth.ActionCreate, auth.ResourceLikes)); err != nil {
		return nil, auth.AsHTTPError(err)
	}
	if err := s.ensureTarget(ctx, actor, target); err != nil {
		return nil, err
	}

	removed, err := s.likes.Remove(ctx, actor.ID, target.Type, target.ID)
	if err != nil {
		return nil, err
	}
	liked := false
	if !removed {
		if _, err := s.likes.Add(ctx, actor.ID, target.Type, target.ID); err != nil {
			return nil, err
		}
		liked = true
	}

	count, err := s.likes.Count(ctx, target.Type, target.ID)
	if err != nil {
		return nil, err
	}
	publish(ctx, s.dispatcher, events.Event{
		Type:      events.EventLikeToggled,
		SubjectID: target.ID,
		Actor:     actorOf(actor),
		Payload:   events.LikeToggledPayload{TargetType: target.Type, TargetID: target.ID, Liked: liked, Count: count},
	})
	return &LikeStatus{Liked: liked, Count: count}, nil
}

// Likes returns the like count of target and whether viewer liked it.
func (s *InteractionService) Likes(ctx context.Context, viewer *domain.Identity, target Target) (*LikeStatus, error) {
	if err := s.ensureTarget(ctx, viewer, target); err != nil {
		return nil, err
	}
	count, err := s.likes.Count(ctx, target.Type, target.ID)
	if err != nil {
		return nil, err
	}
	status := &LikeStatus{Count: count}
	if viewer != nil {
		status.Liked, err = s.likes.Exists(ctx, viewer.ID, target.Type, target.ID)
		if err != nil {
			return nil, err
		}
	}
	return status, nil
}

// ensureTarget checks that target names existing content visible to viewer.
// Draft events are only visible to those who may edit events.
func (s *InteractionService) ensureTarget(ctx context.Context, viewer *domain.Identity, target Target) error {
	if err := requireID(target.ID, MsgTargetNotFound); err != nil {
		return err
	}

	var err error
	switch target.Type {
	case domain.TargetEvent:
		var ev *domain.Event
		ev, err = s.events.GetByID(ctx, target.ID)
		if err == nil && !ev.Published && !s.policy.IsAllowed(viewer, auth.Can(auth.ActionUpdate, auth.ResourceEvents)) {
			err = errNoRows
		}
	case domain.TargetPerformance:
		_, err = s.performances.GetByID(ctx, target.ID)
	case domain.TargetMedia:
		_, err = s.media.GetByID(ctx, target.ID)
	default:
		return apperrors.NewValidationError(apperrors.FieldError{Field: "target_type", Message: MsgInvalidTarget})
	}
	if err != nil {
		return notFound(err, MsgTargetNotFound)
	}
	return nil
}
