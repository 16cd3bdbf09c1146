package repository

import (
	"context"
	"database/sql"

	"github.com/dmarku/eventdesk/internal/model"
)

// AnnouncementRepo provides CRUD for announcements.
type AnnouncementRepo struct{ db *sql.DB }

func NewAnnouncementRepo(db *sql.DB) *AnnouncementRepo { return &AnnouncementRepo{db: db} }

// Create inserts an announcement and populates the generated ID
// and timestamp.
func (r *AnnouncementRepo) Create(ctx context.Context, a *model.Announcement) error {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO announcements (event_id, title, message, created_by) VALUES (?,?,?,?)",
		a.EventID, a.Title, a.Message, a.CreatedBy)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	a.ID = uint64(id)
	return r.db.QueryRowContext(ctx,
		"SELECT created_at FROM announcements WHERE id=?", a.ID).Scan(&a.CreatedAt)
}

// GetByID fetches one announcement. ErrNotFound when absent.
func (r *AnnouncementRepo) GetByID(ctx context.Context, id uint64) (model.Announcement, error) {
	var a model.Announcement
	err := r.db.QueryRowContext(ctx,
		"SELECT id,event_id,title,message,created_by,created_at FROM announcements WHERE id=? LIMIT 1", id).
		Scan(&a.ID, &a.EventID, &a.Title, &a.Message, &a.CreatedBy, &a.CreatedAt)
	if err == sql.ErrNoRows {
		return a, ErrNotFound
	}
	return a, err
}

// List returns announcements newest first. When eventID is non-nil
// only announcements for that event (not site-wide ones) are
// returned.
func (r *AnnouncementRepo) List(ctx context.Context, eventID *uint64) ([]model.Announcement, error) {
	q := "SELECT id,event_id,title,message,created_by,created_at FROM announcements"
	args := []interface{}{}
	if eventID != nil {
		q += " WHERE event_id=?"
		args = append(args, *eventID)
	}
	q += " ORDER BY created_at DESC"
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Announcement, 0)
	for rows.Next() {
		var a model.Announcement
		if err := rows.Scan(&a.ID, &a.EventID, &a.Title, &a.Message, &a.CreatedBy, &a.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// Delete removes an announcement. ErrNotFound when no row matched.
func (r *AnnouncementRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM announcements WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}
