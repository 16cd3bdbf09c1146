package model

import "time"

// Announcement is a message posted by an admin or organizer,
// optionally tied to a specific event.
type Announcement struct {
	ID        uint64    // announcements.id
	EventID   *uint64   // announcements.event_id (nullable, nil = site-wide)
	Title     string    // announcements.title
	Message   string    // announcements.message
	CreatedBy uint64    // announcements.created_by
	CreatedAt time.Time // announcements.created_at
}
