package events

import (
	"time"

	"github.com/spec-kit/band-site/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventUserRegistered  EventType = "user_registered"
	EventUserRoleChanged EventType = "user_role_changed"
	EventCommentCreated  EventType = "comment_created"
	EventCommentDeleted  EventType = "comment_deleted"
	EventMediaUploaded   EventType = "media_uploaded"
	EventMediaDeleted    EventType = "media_deleted"
	EventLikeToggled     EventType = "like_toggled"
)

// Actor identifies who triggered an event.
type Actor struct {
	UserID string      `json:"user_id"`
	Role   domain.Role `json:"role"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	SubjectID string      `json:"subject_id"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// UserRoleChangedPayload payload.
type UserRoleChangedPayload struct {
	OldRole domain.Role `json:"old_role"`
	NewRole domain.Role `json:"new_role"`
}

// CommentPayload is shared by comment events.
type CommentPayload struct {
	TargetType  domain.TargetType `json:"target_type"`
	TargetID    string            `json:"target_id"`
	AuthorID    string            `json:"author_id"`
	BodyPreview string            `json:"body_preview,omitempty"`
}

// MediaPayload is shared by media events.
type MediaPayload struct {
	Kind       domain.MediaKind `json:"kind"`
	Title      string           `json:"title"`
	StorageKey *string          `json:"storage_key,omitempty"`
}

// LikeToggledPayload payload.
type LikeToggledPayload struct {
	TargetType domain.TargetType `json:"target_type"`
	TargetID   string            `json:"target_id"`
	Liked      bool              `json:"liked"`
	Count      int               `json:"count"`
}
