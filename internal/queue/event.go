// Package queue defines message payloads exchanged over the
// message broker and the background consumer that delivers them.
package queue

// RegistrationConfirmedEvent is published after a registration
// commits. It carries enough context for downstream consumers to
// notify the registrant without querying the primary database.
type RegistrationConfirmedEvent struct {
	RegistrationID uint64 `json:"registration_id"`
	EventID        uint64 `json:"event_id"`
	EventTitle     string `json:"event_title"`
	EventLocation  string `json:"event_location"`
	StartsAt       string `json:"starts_at"`
	AttendeeName   string `json:"attendee_name"`
	RecipientEmail string `json:"recipient_email"`
	TicketCode     string `json:"ticket_code"`
	RegisteredAt   string `json:"registered_at"`
}
