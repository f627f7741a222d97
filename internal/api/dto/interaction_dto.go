package dto

import (
	"time"

	"github.com/spec-kit/band-site/internal/domain"
)

// TargetQuery selects the content a comment or like listing refers to.
type TargetQuery struct {
	TargetType domain.TargetType `query:"target_type" validate:"required,oneof=EVENT PERFORMANCE MEDIA"`
	TargetID   string            `query:"target_id" validate:"required,uuid"`
}

// CommentRequest posts a comment.
type CommentRequest struct {
	TargetType domain.TargetType `json:"target_type" validate:"required,oneof=EVENT PERFORMANCE MEDIA"`
	TargetID   string            `json:"target_id" validate:"required,uuid"`
	Content    string            `json:"content" validate:"required,min=1,max=1000"`
}

// CommentResponse is the public view of a comment.
type CommentResponse struct {
	ID         string            `json:"id"`
	TargetType domain.TargetType `json:"target_type"`
	TargetID   string            `json:"target_id"`
	UserID     string            `json:"user_id"`
	AuthorName string            `json:"author_name"`
	Content    string            `json:"content"`
	CreatedAt  time.Time         `json:"created_at"`
}

// LikeRequest toggles a like.
type LikeRequest struct {
	TargetType domain.TargetType `json:"target_type" validate:"required,oneof=EVENT PERFORMANCE MEDIA"`
	TargetID   string            `json:"target_id" validate:"required,uuid"`
}

// LikeResponse summarises likes on a target.
type LikeResponse struct {
	Liked bool `json:"liked"`
	Count int  `json:"count"`
}
