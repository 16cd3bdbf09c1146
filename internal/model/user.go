package model

import "time"

// Role values stored in users.role and carried in the JWT "role" claim.
const (
	RoleAdmin     = "ADMIN"
	RoleOrganizer = "ORGANIZER"
	RoleAttendee  = "ATTENDEE"
)

// User represents an application user record as stored in the
// `users` table. Each field corresponds to a column. Handlers
// define separate response types with JSON tags; this struct is
// used by the repository layer only.
type User struct {
	ID           uint64    // users.id
	Email        string    // users.email (unique, lower-cased)
	Username     string    // users.username (unique)
	PasswordHash string    // users.password_hash (bcrypt)
	Role         string    // users.role (ADMIN, ORGANIZER, ATTENDEE)
	FirstName    string    // users.first_name
	LastName     string    // users.last_name
	IsActive     bool      // users.is_active
	CreatedAt    time.Time // users.created_at
	UpdatedAt    time.Time // users.updated_at
}

// DisplayName returns the user's full name, falling back to the
// username when both name parts are empty.
func (u *User) DisplayName() string {
	switch {
	case u.FirstName != "" && u.LastName != "":
		return u.FirstName + " " + u.LastName
	case u.FirstName != "":
		return u.FirstName
	case u.LastName != "":
		return u.LastName
	}
	return u.Username
}
