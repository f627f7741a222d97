package domain

import "time"

// MediaKind distinguishes gallery items.
type MediaKind string

const (
	MediaKindImage MediaKind = "IMAGE"
	MediaKindVideo MediaKind = "VIDEO"
)

// Media is a gallery entry. StorageKey is set when the file was uploaded to the blob store.
type Media struct {
	ID          string
	Kind        MediaKind
	Title       string
	Description string
	URL         string
	StorageKey  *string
	UploadedBy  string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
