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
)

// AnnouncementHandler manages announcements: organizers and admins
// post them, everyone can read them, and deletion is limited to the
// author or an admin.
type AnnouncementHandler struct {
	Announcements *repository.AnnouncementRepo
	Events        *repository.EventRepo
}

func NewAnnouncementHandler(a *repository.AnnouncementRepo, events *repository.EventRepo) *AnnouncementHandler {
	if a == nil || events == nil {
		panic("nil repository passed to NewAnnouncementHandler")
	}
	return &AnnouncementHandler{Announcements: a, Events: events}
}

type announcementReq struct {
	EventID *uint64 `json:"event_id"`
	Title   string  `json:"title"`
	Message string  `json:"message"`
}

type announcementResp struct {
	ID        uint64    `json:"id"`
	EventID   *uint64   `json:"event_id,omitempty"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	CreatedBy uint64    `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
}

func toAnnouncementResp(a model.Announcement) announcementResp {
	return announcementResp{
		ID: a.ID, EventID: a.EventID, Title: a.Title,
		Message: a.Message, CreatedBy: a.CreatedBy, CreatedAt: a.CreatedAt,
	}
}

// Create handles POST /v1/announcements. When event_id is given the
// event must exist.
func (h *AnnouncementHandler) Create(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req announcementReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Title = strings.TrimSpace(req.Title)
	req.Message = strings.TrimSpace(req.Message)
	if req.Title == "" || req.Message == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title/message required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if req.EventID != nil {
		if _, err := h.Events.GetByID(ctx, *req.EventID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
		}
	}

	a := model.Announcement{
		EventID:   req.EventID,
		Title:     req.Title,
		Message:   req.Message,
		CreatedBy: uid,
	}
	if err := h.Announcements.Create(ctx, &a); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create announcement failed"})
	}
	return c.JSON(http.StatusCreated, toAnnouncementResp(a))
}

// List handles GET /v1/announcements with an optional ?event_id=
// filter.
func (h *AnnouncementHandler) List(c echo.Context) error {
	var eventID *uint64
	if raw := c.QueryParam("event_id"); raw != "" {
		id, err := pathIDFromString(raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event_id"})
		}
		eventID = &id
	}
	items, err := h.Announcements.List(c.Request().Context(), eventID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	out := make([]announcementResp, 0, len(items))
	for _, a := range items {
		out = append(out, toAnnouncementResp(a))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// Delete handles DELETE /v1/announcements/:id for the author or an
// admin.
func (h *AnnouncementHandler) Delete(c echo.Context) error {
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

	a, err := h.Announcements.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "announcement not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if getRole(c) != model.RoleAdmin && a.CreatedBy != uid {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	if err := h.Announcements.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "announcement not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete announcement failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
