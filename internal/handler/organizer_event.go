package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/dmarku/eventdesk/internal/model"
	"github.com/dmarku/eventdesk/internal/repository"
	"github.com/dmarku/eventdesk/internal/status"
)

// EventHandler implements event management for organizers and
// admins: CRUD on events and listing an event's registrations.
// Organizers may only touch their own events; admins may touch any.
type EventHandler struct {
	Events        *repository.EventRepo
	Users         *repository.UserRepo
	Registrations *repository.RegistrationRepo
}

func NewEventHandler(events *repository.EventRepo, users *repository.UserRepo, regs *repository.RegistrationRepo) *EventHandler {
	if events == nil || users == nil || regs == nil {
		panic("nil repository passed to NewEventHandler")
	}
	return &EventHandler{Events: events, Users: users, Registrations: regs}
}

type eventReq struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	StartsAt    time.Time `json:"starts_at"`
	EndsAt      time.Time `json:"ends_at"`
	Capacity    uint32    `json:"capacity"`
}

func (r *eventReq) validate() string {
	r.Title = strings.TrimSpace(r.Title)
	if r.Title == "" {
		return "title is required"
	}
	if r.StartsAt.IsZero() || r.EndsAt.IsZero() {
		return "starts_at and ends_at are required"
	}
	if !r.EndsAt.After(r.StartsAt) {
		return "ends_at must be after starts_at"
	}
	return ""
}

// CreateEvent handles POST /v1/events. The creator's current name
// and email are snapshotted onto the row so attribution survives a
// later account removal.
func (h *EventHandler) CreateEvent(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req eventReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	creator, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load user failed"})
	}

	now := time.Now().UTC()
	ev := model.Event{
		Title:          req.Title,
		Description:    req.Description,
		Location:       req.Location,
		StartsAt:       req.StartsAt.UTC(),
		EndsAt:         req.EndsAt.UTC(),
		Capacity:       req.Capacity,
		Status:         string(status.Derive(req.StartsAt.UTC(), req.EndsAt.UTC(), now)),
		CreatedBy:      &uid,
		OrganizerName:  creator.DisplayName(),
		OrganizerEmail: creator.Email,
	}
	if err := h.Events.Create(ctx, &ev); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create event failed"})
	}
	return c.JSON(http.StatusCreated, toEventResponse(ev, now))
}

// ListMyEvents handles GET /v1/my-events: the caller's own events
// with derived status and attribution.
func (h *EventHandler) ListMyEvents(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	events, err := h.Events.List(c.Request().Context(), &uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	now := time.Now().UTC()
	out := make([]eventResponse, 0, len(events))
	for _, ev := range events {
		out = append(out, toEventResponse(ev, now))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// UpdateEvent handles PUT /v1/events/:id.
func (h *EventHandler) UpdateEvent(c echo.Context) error {
	ev, errResp := h.loadOwned(c)
	if ev == nil {
		return errResp
	}
	var req eventReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	now := time.Now().UTC()
	ev.Title = req.Title
	ev.Description = req.Description
	ev.Location = req.Location
	ev.StartsAt = req.StartsAt.UTC()
	ev.EndsAt = req.EndsAt.UTC()
	ev.Capacity = req.Capacity
	ev.Status = string(status.Derive(ev.StartsAt, ev.EndsAt, now))

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Events.Update(ctx, ev); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update event failed"})
	}
	return c.JSON(http.StatusOK, toEventResponse(*ev, now))
}

// DeleteEvent handles DELETE /v1/events/:id. Registrations go with
// the event via ON DELETE CASCADE.
func (h *EventHandler) DeleteEvent(c echo.Context) error {
	ev, errResp := h.loadOwned(c)
	if ev == nil {
		return errResp
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Events.Delete(ctx, ev.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete event failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// ListEventRegistrations handles GET /v1/events/:id/registrations
// for the event's organizer (or an admin).
func (h *EventHandler) ListEventRegistrations(c echo.Context) error {
	ev, errResp := h.loadOwned(c)
	if ev == nil {
		return errResp
	}
	regs, err := h.Registrations.ListByEvent(c.Request().Context(), ev.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	out := make([]registrationResponse, 0, len(regs))
	for _, reg := range regs {
		out = append(out, toRegistrationResponse(reg))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// loadOwned fetches the :id event and enforces ownership: the
// caller must be the creator or an admin. On failure the event is
// nil and the second return value is the already-written response.
func (h *EventHandler) loadOwned(c echo.Context) (*model.Event, error) {
	uid, err := getUserID(c)
	if err != nil {
		return nil, c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c, "id")
	if err != nil {
		return nil, c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ev, err := h.Events.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
		}
		return nil, c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if getRole(c) != model.RoleAdmin {
		if ev.CreatedBy == nil || *ev.CreatedBy != uid {
			return nil, c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		}
	}
	return &ev, nil
}
