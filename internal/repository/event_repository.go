package repository

import (
	"context"
	"database/sql"

	"github.com/dmarku/eventdesk/internal/model"
	"github.com/dmarku/eventdesk/internal/status"
)

const eventColumns = "id,title,description,location,starts_at,ends_at,capacity,registered,status,created_by,organizer_name,organizer_email,created_at,updated_at"

// EventRepo provides CRUD operations for events and maintains the
// persisted status and registered counter. All timestamps are
// stored in UTC.
type EventRepo struct{ db *sql.DB }

func NewEventRepo(db *sql.DB) *EventRepo { return &EventRepo{db: db} }

// DB exposes the underlying handle so callers can open transactions
// that span events and registrations.
func (r *EventRepo) DB() *sql.DB { return r.db }

// Create inserts an event and queries the full row back so the
// caller sees generated timestamps and defaults.
func (r *EventRepo) Create(ctx context.Context, ev *model.Event) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO events (title, description, location, starts_at, ends_at, capacity, status, created_by, organizer_name, organizer_email)
		 VALUES (?,?,?,?,?,?,?,?,?,?)`,
		ev.Title, ev.Description, ev.Location, ev.StartsAt, ev.EndsAt,
		ev.Capacity, ev.Status, ev.CreatedBy, ev.OrganizerName, ev.OrganizerEmail)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	got, err := r.GetByID(ctx, uint64(id))
	if err != nil {
		return err
	}
	*ev = got
	return nil
}

// GetByID fetches a single event. ErrNotFound when absent.
func (r *EventRepo) GetByID(ctx context.Context, id uint64) (model.Event, error) {
	ev, err := scanEvent(r.db.QueryRowContext(ctx,
		"SELECT "+eventColumns+" FROM events WHERE id=? LIMIT 1", id))
	if err == sql.ErrNoRows {
		return ev, ErrNotFound
	}
	return ev, err
}

// List returns events ordered by start time ascending. When
// creatorID is non-nil only that creator's events are returned.
func (r *EventRepo) List(ctx context.Context, creatorID *uint64) ([]model.Event, error) {
	q := "SELECT " + eventColumns + " FROM events"
	args := []interface{}{}
	if creatorID != nil {
		q += " WHERE created_by=?"
		args = append(args, *creatorID)
	}
	q += " ORDER BY starts_at ASC"
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Event, 0)
	for rows.Next() {
		ev, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, ev)
	}
	return out, rows.Err()
}

// Update rewrites the mutable fields of an event.
func (r *EventRepo) Update(ctx context.Context, ev *model.Event) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE events SET title=?, description=?, location=?, starts_at=?, ends_at=?, capacity=?, status=? WHERE id=?`,
		ev.Title, ev.Description, ev.Location, ev.StartsAt, ev.EndsAt, ev.Capacity, ev.Status, ev.ID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		// RowsAffected is 0 both for a missing row and a no-op
		// update; distinguish with a lookup.
		if _, err := r.GetByID(ctx, ev.ID); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes an event and, through ON DELETE CASCADE, its
// registrations. ErrNotFound when no row matched.
func (r *EventRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM events WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// Schedules returns the id, window and persisted status of every
// event. Part of the status.Store surface used by the reconciler.
func (r *EventRepo) Schedules(ctx context.Context) ([]status.Schedule, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, starts_at, ends_at, status FROM events")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []status.Schedule
	for rows.Next() {
		var s status.Schedule
		var st string
		if err := rows.Scan(&s.ID, &s.StartsAt, &s.EndsAt, &st); err != nil {
			return nil, err
		}
		s.Status = status.Status(st)
		out = append(out, s)
	}
	return out, rows.Err()
}

// SetStatus persists a derived status for one event.
func (r *EventRepo) SetStatus(ctx context.Context, id uint64, s status.Status) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE events SET status=? WHERE id=?", string(s), id)
	return err
}

// IncrementRegisteredTx bumps the registered counter inside an
// existing transaction. The caller pairs it with the registration
// row insert so the two writes commit or roll back together.
func (r *EventRepo) IncrementRegisteredTx(ctx context.Context, tx *sql.Tx, eventID uint64) error {
	_, err := tx.ExecContext(ctx,
		"UPDATE events SET registered = registered + 1 WHERE id=?", eventID)
	return err
}

// DecrementRegisteredTx lowers the registered counter inside an
// existing transaction, clamping at zero so the unsigned column
// can never underflow.
func (r *EventRepo) DecrementRegisteredTx(ctx context.Context, tx *sql.Tx, eventID uint64) error {
	_, err := tx.ExecContext(ctx,
		"UPDATE events SET registered = IF(registered > 0, registered - 1, 0) WHERE id=?", eventID)
	return err
}

// scanner covers *sql.Row and *sql.Rows.
type scanner interface{ Scan(dest ...interface{}) error }

func scanEvent(s scanner) (model.Event, error) {
	var ev model.Event
	var createdBy sql.NullInt64
	var orgName, orgEmail sql.NullString
	err := s.Scan(&ev.ID, &ev.Title, &ev.Description, &ev.Location,
		&ev.StartsAt, &ev.EndsAt, &ev.Capacity, &ev.Registered, &ev.Status,
		&createdBy, &orgName, &orgEmail, &ev.CreatedAt, &ev.UpdatedAt)
	if err != nil {
		return ev, err
	}
	if createdBy.Valid {
		id := uint64(createdBy.Int64)
		ev.CreatedBy = &id
	}
	if orgName.Valid {
		ev.OrganizerName = orgName.String
	}
	if orgEmail.Valid {
		ev.OrganizerEmail = orgEmail.String
	}
	return ev, nil
}
