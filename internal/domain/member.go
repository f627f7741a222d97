package domain

import "time"

// Member is a band member bio. UserID links the ARTIST account allowed to edit it.
type Member struct {
	ID           string
	Name         string
	Instrument   string
	Bio          string
	PhotoURL     *string
	DisplayOrder int
	UserID       *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// OwnerID returns the owning account id, or "" when the profile is unclaimed.
func (m *Member) OwnerID() string {
	if m == nil || m.UserID == nil {
		return ""
	}
	return *m.UserID
}
