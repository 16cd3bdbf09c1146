package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/dmarku/eventdesk/internal/model"
)

func newMockRepos(t *testing.T) (*RegistrationRepo, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	events := NewEventRepo(db)
	return NewRegistrationRepo(db, events), mock, func() { _ = db.Close() }
}

func uptr(v uint64) *uint64 { return &v }

const selectRegistration = "SELECT id,event_id,attendee_id,admin_id,attendee_name,ticket_code,status,registered_at FROM registrations WHERE id=?"

func registrationRow(id, eventID uint64, attendeeID interface{}, name, code, status string, at time.Time) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "event_id", "attendee_id", "admin_id", "attendee_name", "ticket_code", "status", "registered_at"}).
		AddRow(id, eventID, attendeeID, nil, name, code, status, at)
}

func TestCreateBundlesRowAndCounter(t *testing.T) {
	repo, mock, done := newMockRepos(t)
	defer done()

	at := time.Date(2026, 2, 15, 8, 0, 0, 0, time.UTC)
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM events WHERE id=? LIMIT 1")).
		WithArgs(3).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(3))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM registrations WHERE event_id=? AND attendee_id=? LIMIT 1")).
		WithArgs(3, 7).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO registrations")).
		WithArgs(3, 7, nil, "Ada Lovelace", "tkt-1", model.RegistrationInactive).
		WillReturnResult(sqlmock.NewResult(42, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE events SET registered = registered + 1 WHERE id=?")).
		WithArgs(3).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta(selectRegistration)).
		WithArgs(42).
		WillReturnRows(registrationRow(42, 3, 7, "Ada Lovelace", "tkt-1", model.RegistrationInactive, at))
	mock.ExpectCommit()

	reg := model.Registration{
		EventID:      3,
		AttendeeID:   uptr(7),
		AttendeeName: "Ada Lovelace",
		TicketCode:   "tkt-1",
	}
	if err := repo.Create(context.Background(), &reg); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if reg.ID != 42 {
		t.Errorf("reg.ID = %d, want 42", reg.ID)
	}
	if reg.Status != model.RegistrationInactive {
		t.Errorf("reg.Status = %q, want %q", reg.Status, model.RegistrationInactive)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestCreateDuplicateIsConflict(t *testing.T) {
	repo, mock, done := newMockRepos(t)
	defer done()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM events WHERE id=? LIMIT 1")).
		WithArgs(3).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(3))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM registrations WHERE event_id=? AND attendee_id=? LIMIT 1")).
		WithArgs(3, 7).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(40))
	mock.ExpectRollback()

	reg := model.Registration{EventID: 3, AttendeeID: uptr(7), AttendeeName: "Ada", TicketCode: "tkt-2"}
	err := repo.Create(context.Background(), &reg)
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("Create = %v, want ErrConflict", err)
	}
	// No INSERT and no counter increment were expected; a second
	// increment would have tripped the mock.
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestCreateMissingEventIsNotFound(t *testing.T) {
	repo, mock, done := newMockRepos(t)
	defer done()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM events WHERE id=? LIMIT 1")).
		WithArgs(99).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	reg := model.Registration{EventID: 99, AttendeeID: uptr(7), TicketCode: "tkt-3"}
	if err := repo.Create(context.Background(), &reg); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Create = %v, want ErrNotFound", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestCreateAdminBranch(t *testing.T) {
	repo, mock, done := newMockRepos(t)
	defer done()

	at := time.Date(2026, 2, 15, 8, 0, 0, 0, time.UTC)
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM events WHERE id=? LIMIT 1")).
		WithArgs(3).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(3))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM registrations WHERE event_id=? AND admin_id=? LIMIT 1")).
		WithArgs(3, 1).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO registrations")).
		WithArgs(3, nil, 1, "Root Admin", "tkt-4", model.RegistrationInactive).
		WillReturnResult(sqlmock.NewResult(43, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE events SET registered = registered + 1 WHERE id=?")).
		WithArgs(3).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta(selectRegistration)).
		WithArgs(43).
		WillReturnRows(sqlmock.NewRows([]string{"id", "event_id", "attendee_id", "admin_id", "attendee_name", "ticket_code", "status", "registered_at"}).
			AddRow(43, 3, nil, 1, "Root Admin", "tkt-4", model.RegistrationInactive, at))
	mock.ExpectCommit()

	reg := model.Registration{EventID: 3, AdminID: uptr(1), AttendeeName: "Root Admin", TicketCode: "tkt-4"}
	if err := repo.Create(context.Background(), &reg); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if reg.AdminID == nil || *reg.AdminID != 1 {
		t.Errorf("AdminID = %v, want 1", reg.AdminID)
	}
	if reg.AttendeeID != nil {
		t.Errorf("AttendeeID = %v, want nil", reg.AttendeeID)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestCancelDecrementsCounter(t *testing.T) {
	repo, mock, done := newMockRepos(t)
	defer done()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT event_id FROM registrations WHERE id=? LIMIT 1")).
		WithArgs(42).
		WillReturnRows(sqlmock.NewRows([]string{"event_id"}).AddRow(3))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM registrations WHERE id=?")).
		WithArgs(42).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE events SET registered = IF(registered > 0, registered - 1, 0) WHERE id=?")).
		WithArgs(3).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	if err := repo.Cancel(context.Background(), 42); err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestCancelMissingIsNotFound(t *testing.T) {
	repo, mock, done := newMockRepos(t)
	defer done()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT event_id FROM registrations WHERE id=? LIMIT 1")).
		WithArgs(404).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	if err := repo.Cancel(context.Background(), 404); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Cancel = %v, want ErrNotFound", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestCheckInActivatesOnce(t *testing.T) {
	repo, mock, done := newMockRepos(t)
	defer done()

	at := time.Date(2026, 2, 15, 8, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id,event_id,attendee_id,admin_id,attendee_name,ticket_code,status,registered_at FROM registrations WHERE ticket_code=? LIMIT 1")).
		WithArgs("tkt-1").
		WillReturnRows(registrationRow(42, 3, 7, "Ada", "tkt-1", model.RegistrationInactive, at))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE registrations SET status=? WHERE id=? AND status=?")).
		WithArgs(model.RegistrationActive, 42, model.RegistrationInactive).
		WillReturnResult(sqlmock.NewResult(0, 1))

	reg, err := repo.CheckInByCode(context.Background(), "tkt-1")
	if err != nil {
		t.Fatalf("CheckInByCode: %v", err)
	}
	if reg.Status != model.RegistrationActive {
		t.Errorf("status = %q, want %q", reg.Status, model.RegistrationActive)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestCheckInTwiceIsConflict(t *testing.T) {
	repo, mock, done := newMockRepos(t)
	defer done()

	at := time.Date(2026, 2, 15, 8, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id,event_id,attendee_id,admin_id,attendee_name,ticket_code,status,registered_at FROM registrations WHERE ticket_code=? LIMIT 1")).
		WithArgs("tkt-1").
		WillReturnRows(registrationRow(42, 3, 7, "Ada", "tkt-1", model.RegistrationActive, at))

	if _, err := repo.CheckInByCode(context.Background(), "tkt-1"); !errors.Is(err, ErrConflict) {
		t.Fatalf("CheckInByCode = %v, want ErrConflict", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestCheckInRaceLoserGetsConflict(t *testing.T) {
	repo, mock, done := newMockRepos(t)
	defer done()

	at := time.Date(2026, 2, 15, 8, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id,event_id,attendee_id,admin_id,attendee_name,ticket_code,status,registered_at FROM registrations WHERE ticket_code=? LIMIT 1")).
		WithArgs("tkt-1").
		WillReturnRows(registrationRow(42, 3, 7, "Ada", "tkt-1", model.RegistrationInactive, at))
	// Another scanner activated the ticket between read and update.
	mock.ExpectExec(regexp.QuoteMeta("UPDATE registrations SET status=? WHERE id=? AND status=?")).
		WithArgs(model.RegistrationActive, 42, model.RegistrationInactive).
		WillReturnResult(sqlmock.NewResult(0, 0))

	if _, err := repo.CheckInByCode(context.Background(), "tkt-1"); !errors.Is(err, ErrConflict) {
		t.Fatalf("CheckInByCode = %v, want ErrConflict", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestCheckInUnknownCodeIsNotFound(t *testing.T) {
	repo, mock, done := newMockRepos(t)
	defer done()

	mock.ExpectQuery(regexp.QuoteMeta("FROM registrations WHERE ticket_code=? LIMIT 1")).
		WithArgs("nope").
		WillReturnError(sql.ErrNoRows)

	if _, err := repo.CheckInByCode(context.Background(), "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("CheckInByCode = %v, want ErrNotFound", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
