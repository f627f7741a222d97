package domain

import "time"

// Identity is the verified payload of an access token.
type Identity struct {
	ID        string
	Email     string
	Role      Role
	IssuedAt  time.Time
	ExpiresAt time.Time
}
