package domain

import "time"

// Role enumerates account privileges.
type Role string

const (
	RoleUser   Role = "USER"
	RoleArtist Role = "ARTIST"
	RoleAdmin  Role = "ADMIN"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleArtist, RoleAdmin:
		return true
	}
	return false
}

// User is a registered account: fan, band member or administrator.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
