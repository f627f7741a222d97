package domain

import "time"

// Event is an upcoming or past concert date announced on the site.
type Event struct {
	ID          string
	Title       string
	Description string
	Venue       string
	City        string
	StartsAt    time.Time
	EndsAt      *time.Time
	TicketURL   *string
	ImageURL    *string
	Published   bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Performance is a past show, usually with a recording.
type Performance struct {
	ID          string
	Title       string
	Description string
	Venue       string
	PerformedAt time.Time
	VideoURL    *string
	ImageURL    *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
