package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/dmarku/eventdesk/internal/repository"
)

// CheckInHandler redeems tickets at the door. The ticket code comes
// from the scanned QR; role middleware limits the endpoint to
// organizers and admins.
type CheckInHandler struct {
	Registrations *repository.RegistrationRepo
}

func NewCheckInHandler(regs *repository.RegistrationRepo) *CheckInHandler {
	if regs == nil {
		panic("nil repository passed to NewCheckInHandler")
	}
	return &CheckInHandler{Registrations: regs}
}

type checkInReq struct {
	TicketCode string `json:"ticket_code"`
}

// CheckIn handles POST /v1/checkin. It transitions the matching
// registration from INACTIVE to ACTIVE. An unknown code is a 404;
// a ticket that is already active is a 409, surfacing reuse to the
// scanner instead of silently succeeding.
func (h *CheckInHandler) CheckIn(c echo.Context) error {
	var req checkInReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.TicketCode) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "ticket_code required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	reg, err := h.Registrations.CheckInByCode(ctx, strings.TrimSpace(req.TicketCode))
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "ticket not found"})
		case errors.Is(err, repository.ErrConflict):
			return c.JSON(http.StatusConflict, echo.Map{"error": "ticket already checked in"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "check-in failed"})
		}
	}
	return c.JSON(http.StatusOK, toRegistrationResponse(reg))
}
