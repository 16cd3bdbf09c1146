package model

import "time"

// Event represents a scheduled event created by an organizer or
// admin. It carries the scheduling window, the registration
// capacity and the running registered counter.
//
// Fields:
//  ID             – primary key identifier.
//  Title          – event title.
//  Description    – free-form description.
//  Location       – venue or address string.
//  StartsAt       – when the event begins.
//  EndsAt         – when the event ends (must be after StartsAt).
//  Capacity       – number of seats offered; informational, the
//                   create path does not reject past it.
//  Registered     – running count of registrations, maintained in
//                   the same transaction as registration writes.
//  Status         – persisted lifecycle phase (UPCOMING, ONGOING,
//                   COMPLETED); canonical value is derived from the
//                   schedule and reconciled in the background.
//  CreatedBy      – user who created the event (nullable when the
//                   creator account was removed).
//  OrganizerName  – denormalized creator name snapshot.
//  OrganizerEmail – denormalized creator email snapshot.
//  CreatedAt      – creation timestamp.
//  UpdatedAt      – last update timestamp.
type Event struct {
	ID             uint64    // events.id
	Title          string    // events.title
	Description    string    // events.description
	Location       string    // events.location
	StartsAt       time.Time // events.starts_at
	EndsAt         time.Time // events.ends_at
	Capacity       uint32    // events.capacity
	Registered     uint32    // events.registered
	Status         string    // events.status
	CreatedBy      *uint64   // events.created_by (nullable)
	OrganizerName  string    // events.organizer_name
	OrganizerEmail string    // events.organizer_email
	CreatedAt      time.Time // events.created_at
	UpdatedAt      time.Time // events.updated_at
}

// Remaining returns the number of seats left. The counter can
// exceed capacity because the create path never enforces the
// ceiling, so the result is clamped at zero.
func (e *Event) Remaining() uint32 {
	if e.Registered >= e.Capacity {
		return 0
	}
	return e.Capacity - e.Registered
}

// IsFull reports whether the registered counter has reached (or
// passed) the capacity.
func (e *Event) IsFull() bool {
	return e.Registered >= e.Capacity
}
