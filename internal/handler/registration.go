package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/dmarku/eventdesk/internal/model"
	"github.com/dmarku/eventdesk/internal/queue"
	"github.com/dmarku/eventdesk/internal/repository"
	"github.com/dmarku/eventdesk/internal/service"
	"github.com/dmarku/eventdesk/internal/utils"
)

// RegistrationHandler implements the registration ledger surface:
// self-registration, cancellation, the caller's ticket list and the
// ticket QR image. Attendees register on the attendee branch of the
// registrant pair, admins on the admin branch.
type RegistrationHandler struct {
	Events        *repository.EventRepo
	Users         *repository.UserRepo
	Registrations *repository.RegistrationRepo
	Log           *logrus.Logger
}

func NewRegistrationHandler(events *repository.EventRepo, users *repository.UserRepo, regs *repository.RegistrationRepo, log *logrus.Logger) *RegistrationHandler {
	if events == nil || users == nil || regs == nil {
		panic("nil repository passed to NewRegistrationHandler")
	}
	return &RegistrationHandler{Events: events, Users: users, Registrations: regs, Log: log}
}

// Register handles POST /v1/events/:id/register. The registration
// row and the event counter move in one transaction; the
// confirmation notification is dispatched after commit and is
// best-effort. Duplicate registration for the same event is a 409,
// a missing event a 404. Capacity is not enforced.
func (h *RegistrationHandler) Register(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	eventID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load user failed"})
	}

	reg := model.Registration{
		EventID:      eventID,
		AttendeeName: u.DisplayName(),
		TicketCode:   utils.NewTicketCode(),
	}
	if u.Role == model.RoleAdmin {
		reg.AdminID = &uid
	} else {
		reg.AttendeeID = &uid
	}

	if err := h.Registrations.Create(ctx, &reg); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
		case errors.Is(err, repository.ErrConflict):
			return c.JSON(http.StatusConflict, echo.Map{"error": "already registered for this event"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create registration failed"})
		}
	}

	// Best-effort confirmation; the registration has committed, so
	// a broker failure only loses the notification.
	if ev, err := h.Events.GetByID(ctx, eventID); err == nil {
		confirmed := queue.RegistrationConfirmedEvent{
			RegistrationID: reg.ID,
			EventID:        ev.ID,
			EventTitle:     ev.Title,
			EventLocation:  ev.Location,
			StartsAt:       ev.StartsAt.Format(time.RFC3339),
			AttendeeName:   reg.AttendeeName,
			RecipientEmail: u.Email,
			TicketCode:     reg.TicketCode,
			RegisteredAt:   reg.RegisteredAt.UTC().Format(time.RFC3339),
		}
		go func() {
			_ = service.PublishRegistrationConfirmed(context.Background(), h.Log, confirmed)
		}()
	}

	return c.JSON(http.StatusCreated, toRegistrationResponse(reg))
}

// Cancel handles DELETE /v1/registrations/:id. Only the owning
// registrant (or an admin) may cancel; the row delete and counter
// decrement share a transaction.
func (h *RegistrationHandler) Cancel(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	reg, err := h.Registrations.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "registration not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if getRole(c) != model.RoleAdmin && !reg.BelongsTo(uid) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}

	if err := h.Registrations.Cancel(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "registration not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "cancel registration failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// ListMine handles GET /v1/my-registrations.
func (h *RegistrationHandler) ListMine(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	regs, err := h.Registrations.ListByRegistrant(c.Request().Context(), uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	out := make([]registrationResponse, 0, len(regs))
	for _, reg := range regs {
		out = append(out, toRegistrationResponse(reg))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// TicketQR handles GET /v1/registrations/:id/ticket. It renders the
// registration's ticket code as a PNG QR image for scanning at
// check-in. Only the owning registrant (or an admin) can fetch it.
func (h *RegistrationHandler) TicketQR(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	reg, err := h.Registrations.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "registration not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if getRole(c) != model.RoleAdmin && !reg.BelongsTo(uid) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	png, err := utils.TicketQR(reg.TicketCode, 256)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "render ticket failed"})
	}
	return c.Blob(http.StatusOK, "image/png", png)
}
