package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/dmarku/eventdesk/internal/status"
)

func TestGetByIDMissingEvent(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()
	repo := NewEventRepo(db)

	mock.ExpectQuery("FROM events WHERE id=").
		WithArgs(9).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	if _, err := repo.GetByID(context.Background(), 9); !errors.Is(err, ErrNotFound) {
		t.Fatalf("GetByID = %v, want ErrNotFound", err)
	}
}

func TestSchedulesAndSetStatus(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()
	repo := NewEventRepo(db)

	start := time.Date(2026, 2, 15, 9, 0, 0, 0, time.UTC)
	end := start.Add(8 * time.Hour)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, starts_at, ends_at, status FROM events")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "starts_at", "ends_at", "status"}).
			AddRow(1, start, end, "UPCOMING").
			AddRow(2, start.Add(24*time.Hour), end.Add(24*time.Hour), "UPCOMING"))

	schedules, err := repo.Schedules(context.Background())
	if err != nil {
		t.Fatalf("Schedules: %v", err)
	}
	if len(schedules) != 2 {
		t.Fatalf("len(schedules) = %d, want 2", len(schedules))
	}
	if schedules[0].Status != status.Upcoming {
		t.Errorf("schedules[0].Status = %s, want %s", schedules[0].Status, status.Upcoming)
	}

	mock.ExpectExec(regexp.QuoteMeta("UPDATE events SET status=? WHERE id=?")).
		WithArgs("ONGOING", 1).
		WillReturnResult(sqlmock.NewResult(0, 1))
	if err := repo.SetStatus(context.Background(), 1, status.Ongoing); err != nil {
		t.Fatalf("SetStatus: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
