// Package handler exposes the HTTP handlers for authentication,
// event management, registrations, check-in and announcements.
package handler

import (
	"errors"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/dmarku/eventdesk/internal/model"
	"github.com/dmarku/eventdesk/internal/status"
)

// getUserID extracts the authenticated user's id from the context.
// JWT numeric claims arrive as float64; tests may store native ints.
func getUserID(c echo.Context) (uint64, error) {
	switch t := c.Get("user_id").(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}

// getRole returns the role claim stored by the JWT middleware.
func getRole(c echo.Context) string {
	if r, ok := c.Get("role").(string); ok {
		return r
	}
	return ""
}

// pathID parses a numeric :id path parameter.
func pathID(c echo.Context, name string) (uint64, error) {
	return pathIDFromString(c.Param(name))
}

func pathIDFromString(raw string) (uint64, error) {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, errors.New("invalid id")
	}
	return id, nil
}

// eventResponse is the JSON shape for events on every read surface.
// Status is derived at response time so clients never re-derive it;
// Registered/Capacity/Remaining feed availability displays.
type eventResponse struct {
	ID             uint64    `json:"id"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	Location       string    `json:"location"`
	StartsAt       time.Time `json:"starts_at"`
	EndsAt         time.Time `json:"ends_at"`
	Capacity       uint32    `json:"capacity"`
	Registered     uint32    `json:"registered"`
	Remaining      uint32    `json:"remaining"`
	Status         string    `json:"status"`
	OrganizerName  string    `json:"organizer_name,omitempty"`
	OrganizerEmail string    `json:"organizer_email,omitempty"`
}

func toEventResponse(ev model.Event, now time.Time) eventResponse {
	return eventResponse{
		ID:             ev.ID,
		Title:          ev.Title,
		Description:    ev.Description,
		Location:       ev.Location,
		StartsAt:       ev.StartsAt,
		EndsAt:         ev.EndsAt,
		Capacity:       ev.Capacity,
		Registered:     ev.Registered,
		Remaining:      ev.Remaining(),
		Status:         string(status.Derive(ev.StartsAt, ev.EndsAt, now)),
		OrganizerName:  ev.OrganizerName,
		OrganizerEmail: ev.OrganizerEmail,
	}
}

// registrationResponse is the JSON shape for registrations.
type registrationResponse struct {
	ID           uint64    `json:"id"`
	EventID      uint64    `json:"event_id"`
	AttendeeID   *uint64   `json:"attendee_id,omitempty"`
	AdminID      *uint64   `json:"admin_id,omitempty"`
	AttendeeName string    `json:"attendee_name"`
	TicketCode   string    `json:"ticket_code"`
	Status       string    `json:"status"`
	RegisteredAt time.Time `json:"registered_at"`
}

func toRegistrationResponse(reg model.Registration) registrationResponse {
	return registrationResponse{
		ID:           reg.ID,
		EventID:      reg.EventID,
		AttendeeID:   reg.AttendeeID,
		AdminID:      reg.AdminID,
		AttendeeName: reg.AttendeeName,
		TicketCode:   reg.TicketCode,
		Status:       reg.Status,
		RegisteredAt: reg.RegisteredAt,
	}
}
