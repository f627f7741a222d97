package domain

import "time"

// TargetType names the kinds of content that accept comments and likes.
type TargetType string

const (
	TargetEvent       TargetType = "EVENT"
	TargetPerformance TargetType = "PERFORMANCE"
	TargetMedia       TargetType = "MEDIA"
)

// Comment is a user message attached to a piece of content.
type Comment struct {
	ID         string
	TargetType TargetType
	TargetID   string
	UserID     string
	AuthorName string
	Content    string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Like records that a user liked a piece of content.
type Like struct {
	UserID     string
	TargetType TargetType
	TargetID   string
	CreatedAt  time.Time
}
