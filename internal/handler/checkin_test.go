package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"

	"github.com/dmarku/eventdesk/internal/model"
	"github.com/dmarku/eventdesk/internal/repository"
)

const selectByTicket = "SELECT id,event_id,attendee_id,admin_id,attendee_name,ticket_code,status,registered_at FROM registrations WHERE ticket_code=? LIMIT 1"

func newCheckInHarness(t *testing.T) (*CheckInHandler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	events := repository.NewEventRepo(db)
	regs := repository.NewRegistrationRepo(db, events)
	return NewCheckInHandler(regs), mock
}

func postCheckIn(h *CheckInHandler, body string) (*httptest.ResponseRecorder, error) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/checkin", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return rec, h.CheckIn(e.NewContext(req, rec))
}

func ticketRow(status string) *sqlmock.Rows {
	return sqlmock.NewRows(strings.Split("id,event_id,attendee_id,admin_id,attendee_name,ticket_code,status,registered_at", ",")).
		AddRow(4, 2, 7, nil, "Jonas Richter", "tck-1", status, time.Date(2026, 2, 10, 8, 0, 0, 0, time.UTC))
}

func TestCheckInEmptyBody(t *testing.T) {
	h, _ := newCheckInHarness(t)
	rec, err := postCheckIn(h, `{"ticket_code":"  "}`)
	if err != nil {
		t.Fatalf("CheckIn: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestCheckInUnknownTicket(t *testing.T) {
	h, mock := newCheckInHarness(t)
	mock.ExpectQuery(regexp.QuoteMeta(selectByTicket)).
		WithArgs("nope").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	rec, err := postCheckIn(h, `{"ticket_code":"nope"}`)
	if err != nil {
		t.Fatalf("CheckIn: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestCheckInActivatesTicket(t *testing.T) {
	h, mock := newCheckInHarness(t)
	mock.ExpectQuery(regexp.QuoteMeta(selectByTicket)).
		WithArgs("tck-1").
		WillReturnRows(ticketRow(model.RegistrationInactive))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE registrations SET status=? WHERE id=? AND status=?")).
		WithArgs(model.RegistrationActive, 4, model.RegistrationInactive).
		WillReturnResult(sqlmock.NewResult(0, 1))

	rec, err := postCheckIn(h, `{"ticket_code":"tck-1"}`)
	if err != nil {
		t.Fatalf("CheckIn: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body %s", rec.Code, rec.Body.String())
	}
	var resp registrationResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Status != model.RegistrationActive {
		t.Errorf("response status = %s, want %s", resp.Status, model.RegistrationActive)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestCheckInSecondScanConflicts(t *testing.T) {
	h, mock := newCheckInHarness(t)
	mock.ExpectQuery(regexp.QuoteMeta(selectByTicket)).
		WithArgs("tck-1").
		WillReturnRows(ticketRow(model.RegistrationActive))

	rec, err := postCheckIn(h, `{"ticket_code":"tck-1"}`)
	if err != nil {
		t.Fatalf("CheckIn: %v", err)
	}
	if rec.Code != http.StatusConflict {
		t.Errorf("status = %d, want 409", rec.Code)
	}
}
