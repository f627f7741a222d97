package dto

import (
	"time"

	"github.com/spec-kit/band-site/internal/domain"
)

// EventRequest creates or replaces an event.
type EventRequest struct {
	Title       string     `json:"title" validate:"required,max=200"`
	Description string     `json:"description" validate:"max=5000"`
	Venue       string     `json:"venue" validate:"required,max=200"`
	City        string     `json:"city" validate:"max=100"`
	StartsAt    time.Time  `json:"starts_at" validate:"required"`
	EndsAt      *time.Time `json:"ends_at" validate:"omitempty,gtfield=StartsAt"`
	TicketURL   *string    `json:"ticket_url" validate:"omitempty,url"`
	ImageURL    *string    `json:"image_url" validate:"omitempty,url"`
	Published   *bool      `json:"published"`
}

// EventResponse is the public view of an event.
type EventResponse struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Venue       string     `json:"venue"`
	City        string     `json:"city"`
	StartsAt    time.Time  `json:"starts_at"`
	EndsAt      *time.Time `json:"ends_at"`
	TicketURL   *string    `json:"ticket_url"`
	ImageURL    *string    `json:"image_url"`
	Published   bool       `json:"published"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// PerformanceRequest creates or replaces a performance.
type PerformanceRequest struct {
	Title       string    `json:"title" validate:"required,max=200"`
	Description string    `json:"description" validate:"max=5000"`
	Venue       string    `json:"venue" validate:"max=200"`
	PerformedAt time.Time `json:"performed_at" validate:"required"`
	VideoURL    *string   `json:"video_url" validate:"omitempty,url"`
	ImageURL    *string   `json:"image_url" validate:"omitempty,url"`
}

// PerformanceResponse is the public view of a performance.
type PerformanceResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Venue       string    `json:"venue"`
	PerformedAt time.Time `json:"performed_at"`
	VideoURL    *string   `json:"video_url"`
	ImageURL    *string   `json:"image_url"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// MemberRequest creates or edits a member profile.
type MemberRequest struct {
	Name         string  `json:"name" validate:"required,max=100"`
	Instrument   string  `json:"instrument" validate:"max=100"`
	Bio          string  `json:"bio" validate:"max=5000"`
	PhotoURL     *string `json:"photo_url" validate:"omitempty,url"`
	DisplayOrder *int    `json:"display_order" validate:"omitempty,min=0"`
	UserID       *string `json:"user_id" validate:"omitempty,uuid"`
}

// MemberResponse is the public view of a member.
type MemberResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Instrument   string    `json:"instrument"`
	Bio          string    `json:"bio"`
	PhotoURL     *string   `json:"photo_url"`
	DisplayOrder int       `json:"display_order"`
	UserID       *string   `json:"user_id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// MediaRequest records an externally hosted gallery item.
type MediaRequest struct {
	Kind        domain.MediaKind `json:"kind" validate:"required,oneof=IMAGE VIDEO"`
	Title       string           `json:"title" validate:"required,max=200"`
	Description string           `json:"description" validate:"max=2000"`
	URL         string           `json:"url" validate:"required,url"`
}

// MediaUpdateRequest edits gallery metadata.
type MediaUpdateRequest struct {
	Title       string  `json:"title" validate:"required,max=200"`
	Description string  `json:"description" validate:"max=2000"`
	URL         *string `json:"url" validate:"omitempty,url"`
}

// MediaUploadForm is the non-file part of a multipart upload.
type MediaUploadForm struct {
	Title       string `form:"title" validate:"required,max=200"`
	Description string `form:"description" validate:"max=2000"`
}

// MediaListQuery filters the gallery.
type MediaListQuery struct {
	Kind string `query:"kind" validate:"omitempty,oneof=IMAGE VIDEO"`
}

// MediaResponse is the public view of a gallery item.
type MediaResponse struct {
	ID          string           `json:"id"`
	Kind        domain.MediaKind `json:"kind"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	URL         string           `json:"url"`
	UploadedBy  string           `json:"uploaded_by"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}
