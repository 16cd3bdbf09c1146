package repository

import (
	"context"
	"database/sql"

	"github.com/dmarku/eventdesk/internal/model"
)

const registrationColumns = "id,event_id,attendee_id,admin_id,attendee_name,ticket_code,status,registered_at"

// RegistrationRepo manages the registration ledger. Create and
// Cancel bundle the registration row write and the event counter
// update into one transaction so the two can never diverge under
// partial failure.
type RegistrationRepo struct {
	db     *sql.DB
	events *EventRepo
}

func NewRegistrationRepo(db *sql.DB, events *EventRepo) *RegistrationRepo {
	return &RegistrationRepo{db: db, events: events}
}

// Create inserts a registration for the event and increments the
// event's registered counter in the same transaction. Exactly one
// of reg.AttendeeID and reg.AdminID must be set.
//
// Returns ErrNotFound when the event does not exist and
// ErrConflict when the registrant already holds a registration for
// the event. Capacity is intentionally not checked; the ledger
// accepts registrations past the ceiling and leaves the limit to
// the availability surface.
func (r *RegistrationRepo) Create(ctx context.Context, reg *model.Registration) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	// Event must exist before anything is written.
	var eventID uint64
	err = tx.QueryRowContext(ctx,
		"SELECT id FROM events WHERE id=? LIMIT 1", reg.EventID).Scan(&eventID)
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	if err != nil {
		return err
	}

	// At most one registration per (event, registrant) pair.
	var existing uint64
	switch {
	case reg.AttendeeID != nil:
		err = tx.QueryRowContext(ctx,
			"SELECT id FROM registrations WHERE event_id=? AND attendee_id=? LIMIT 1",
			reg.EventID, *reg.AttendeeID).Scan(&existing)
	case reg.AdminID != nil:
		err = tx.QueryRowContext(ctx,
			"SELECT id FROM registrations WHERE event_id=? AND admin_id=? LIMIT 1",
			reg.EventID, *reg.AdminID).Scan(&existing)
	default:
		return ErrForbidden
	}
	if err == nil {
		return ErrConflict
	}
	if err != sql.ErrNoRows {
		return err
	}

	res, err := tx.ExecContext(ctx,
		`INSERT INTO registrations (event_id, attendee_id, admin_id, attendee_name, ticket_code, status)
		 VALUES (?,?,?,?,?,?)`,
		reg.EventID, reg.AttendeeID, reg.AdminID, reg.AttendeeName, reg.TicketCode, model.RegistrationInactive)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	reg.ID = uint64(id)

	if err := r.events.IncrementRegisteredTx(ctx, tx, reg.EventID); err != nil {
		return err
	}

	// Query the row back for generated timestamp and defaults.
	err = tx.QueryRowContext(ctx,
		"SELECT "+registrationColumns+" FROM registrations WHERE id=?", reg.ID).
		Scan(scanRegistrationDest(reg)...)
	if err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// GetByID fetches a registration by id. ErrNotFound when absent.
func (r *RegistrationRepo) GetByID(ctx context.Context, id uint64) (model.Registration, error) {
	var reg model.Registration
	err := r.db.QueryRowContext(ctx,
		"SELECT "+registrationColumns+" FROM registrations WHERE id=? LIMIT 1", id).
		Scan(scanRegistrationDest(&reg)...)
	if err == sql.ErrNoRows {
		return reg, ErrNotFound
	}
	return reg, err
}

// GetByTicketCode fetches a registration by its ticket code, the
// identifier encoded in the ticket QR.
func (r *RegistrationRepo) GetByTicketCode(ctx context.Context, code string) (model.Registration, error) {
	var reg model.Registration
	err := r.db.QueryRowContext(ctx,
		"SELECT "+registrationColumns+" FROM registrations WHERE ticket_code=? LIMIT 1", code).
		Scan(scanRegistrationDest(&reg)...)
	if err == sql.ErrNoRows {
		return reg, ErrNotFound
	}
	return reg, err
}

// Cancel deletes a registration and decrements the owning event's
// registered counter in the same transaction. ErrNotFound when the
// registration does not exist.
func (r *RegistrationRepo) Cancel(ctx context.Context, id uint64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	var eventID uint64
	err = tx.QueryRowContext(ctx,
		"SELECT event_id FROM registrations WHERE id=? LIMIT 1", id).Scan(&eventID)
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM registrations WHERE id=?", id); err != nil {
		return err
	}
	if err := r.events.DecrementRegisteredTx(ctx, tx, eventID); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// CheckInByCode transitions a registration from INACTIVE to ACTIVE
// by its ticket code. A second scan of the same ticket returns
// ErrConflict so door staff see the reuse instead of a silent
// success. ErrNotFound when the code matches nothing.
func (r *RegistrationRepo) CheckInByCode(ctx context.Context, code string) (model.Registration, error) {
	var reg model.Registration
	err := r.db.QueryRowContext(ctx,
		"SELECT "+registrationColumns+" FROM registrations WHERE ticket_code=? LIMIT 1", code).
		Scan(scanRegistrationDest(&reg)...)
	if err == sql.ErrNoRows {
		return reg, ErrNotFound
	}
	if err != nil {
		return reg, err
	}
	if reg.Status == model.RegistrationActive {
		return reg, ErrConflict
	}
	res, err := r.db.ExecContext(ctx,
		"UPDATE registrations SET status=? WHERE id=? AND status=?",
		model.RegistrationActive, reg.ID, model.RegistrationInactive)
	if err != nil {
		return reg, err
	}
	// A concurrent scan may have won the race between the read and
	// the guarded update.
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return reg, ErrConflict
	}
	reg.Status = model.RegistrationActive
	return reg, nil
}

// ListByEvent returns all registrations for an event, newest first.
func (r *RegistrationRepo) ListByEvent(ctx context.Context, eventID uint64) ([]model.Registration, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+registrationColumns+" FROM registrations WHERE event_id=? ORDER BY registered_at DESC",
		eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRegistrations(rows)
}

// ListByRegistrant returns all registrations owned by a user on
// either branch of the registrant pair, newest first.
func (r *RegistrationRepo) ListByRegistrant(ctx context.Context, userID uint64) ([]model.Registration, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+registrationColumns+" FROM registrations WHERE attendee_id=? OR admin_id=? ORDER BY registered_at DESC",
		userID, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRegistrations(rows)
}

func collectRegistrations(rows *sql.Rows) ([]model.Registration, error) {
	out := make([]model.Registration, 0)
	for rows.Next() {
		var reg model.Registration
		if err := rows.Scan(scanRegistrationDest(&reg)...); err != nil {
			return nil, err
		}
		out = append(out, reg)
	}
	return out, rows.Err()
}

// scanRegistrationDest returns scan targets matching
// registrationColumns order. AttendeeID and AdminID are nullable
// and scan directly into the pointer fields.
func scanRegistrationDest(reg *model.Registration) []interface{} {
	return []interface{}{
		&reg.ID, &reg.EventID, &reg.AttendeeID, &reg.AdminID,
		&reg.AttendeeName, &reg.TicketCode, &reg.Status, &reg.RegisteredAt,
	}
}
