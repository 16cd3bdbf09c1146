package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/dmarku/eventdesk/internal/enrich"
	"github.com/dmarku/eventdesk/internal/model"
	"github.com/dmarku/eventdesk/internal/repository"
)

// BrowseHandler serves the unauthenticated read surface: event
// listings and details with derived status, availability figures
// and organizer attribution. Reads never write; persisted status
// drift is handled by the background reconciler.
type BrowseHandler struct {
	Events *repository.EventRepo
	Users  *repository.UserRepo
}

func NewBrowseHandler(events *repository.EventRepo, users *repository.UserRepo) *BrowseHandler {
	if events == nil || users == nil {
		panic("nil repository passed to NewBrowseHandler")
	}
	return &BrowseHandler{Events: events, Users: users}
}

// ListEvents handles GET /v1/events. Each event carries its derived
// status and the registered/capacity availability figures; creator
// ids are resolved to current organizer name/email in one batch
// before the response is built.
func (h *BrowseHandler) ListEvents(c echo.Context) error {
	ctx := c.Request().Context()
	events, err := h.Events.List(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if err := enrich.Organizers(ctx, h.Users, events); err != nil {
		// Attribution is display-only; fall back to the stored
		// snapshots rather than failing the listing.
		c.Logger().Warnf("organizer enrichment failed: %v", err)
	}
	now := time.Now().UTC()
	out := make([]eventResponse, 0, len(events))
	for _, ev := range events {
		out = append(out, toEventResponse(ev, now))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// GetEvent handles GET /v1/events/:id.
func (h *BrowseHandler) GetEvent(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx := c.Request().Context()
	ev, err := h.Events.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	events := []model.Event{ev}
	if err := enrich.Organizers(ctx, h.Users, events); err != nil {
		c.Logger().Warnf("organizer enrichment failed: %v", err)
	}
	return c.JSON(http.StatusOK, toEventResponse(events[0], time.Now().UTC()))
}
