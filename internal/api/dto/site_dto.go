package dto

import "time"

// SettingRequest sets the value of a site setting.
type SettingRequest struct {
	Value string `json:"value" validate:"max=10000"`
}

// SettingResponse is a single setting.
type SettingResponse struct {
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SocialLinkRequest creates or replaces a social link.
type SocialLinkRequest struct {
	Name         string  `json:"name" validate:"required,max=50"`
	URL          string  `json:"url" validate:"required,url"`
	Icon         *string `json:"icon" validate:"omitempty,max=50"`
	DisplayOrder int     `json:"display_order" validate:"min=0"`
}

// SocialLinkResponse is the public view of a social link.
type SocialLinkResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	URL          string    `json:"url"`
	Icon         *string   `json:"icon"`
	DisplayOrder int       `json:"display_order"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
