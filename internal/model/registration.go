package model

import "time"

// Registration status values. A registration starts INACTIVE and
// becomes ACTIVE exactly once, when its ticket is scanned at the
// door.
const (
	RegistrationInactive = "INACTIVE"
	RegistrationActive   = "ACTIVE"
)

// Registration binds one attendee or one admin to an event.
// Exactly one of AttendeeID and AdminID is non-nil. The ticket
// code is the opaque string encoded into the ticket QR and used
// for check-in lookup.
//
// Fields:
//  ID           – primary key identifier.
//  EventID      – event being registered for.
//  AttendeeID   – registering attendee (nil when AdminID is set).
//  AdminID      – registering admin (nil when AttendeeID is set).
//  AttendeeName – display name snapshot taken at registration time.
//  TicketCode   – unique opaque ticket identifier.
//  Status       – INACTIVE until checked in, then ACTIVE.
//  RegisteredAt – creation timestamp.
type Registration struct {
	ID           uint64    // registrations.id
	EventID      uint64    // registrations.event_id
	AttendeeID   *uint64   // registrations.attendee_id (nullable)
	AdminID      *uint64   // registrations.admin_id (nullable)
	AttendeeName string    // registrations.attendee_name
	TicketCode   string    // registrations.ticket_code
	Status       string    // registrations.status
	RegisteredAt time.Time // registrations.registered_at
}

// RegistrantID returns the ID of whichever account owns the
// registration, preferring the attendee branch.
func (r *Registration) RegistrantID() uint64 {
	if r.AttendeeID != nil {
		return *r.AttendeeID
	}
	if r.AdminID != nil {
		return *r.AdminID
	}
	return 0
}

// BelongsTo reports whether the registration is owned by the given
// user, regardless of which branch of the registrant pair is set.
func (r *Registration) BelongsTo(userID uint64) bool {
	return r.RegistrantID() == userID && r.RegistrantID() != 0
}
