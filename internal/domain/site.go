package domain

import "time"

// SiteSetting is a key/value entry editable from the admin area.
type SiteSetting struct {
	Key       string
	Value     string
	UpdatedAt time.Time
}

// SocialLink points to one of the band's profiles. Name is unique.
type SocialLink struct {
	ID           string
	Name         string
	URL          string
	Icon         *string
	DisplayOrder int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
