package status

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

// Schedule is the slice of an event the reconciler needs: its id,
// scheduling window and currently persisted status.
type Schedule struct {
	ID       uint64
	StartsAt time.Time
	EndsAt   time.Time
	Status   Status
}

// Store is the persistence surface the reconciler runs against.
// EventRepo satisfies it.
type Store interface {
	Schedules(ctx context.Context) ([]Schedule, error)
	SetStatus(ctx context.Context, id uint64, s Status) error
}

// Reconciler periodically rewrites persisted event statuses that
// have drifted from the derived value. Reads never mutate data;
// this job is the only writer of events.status outside of event
// CRUD. Failures are logged and retried on the next tick.
type Reconciler struct {
	store Store
	log   *logrus.Entry
	now   func() time.Time // overridable in tests
}

// NewReconciler builds a Reconciler over the given store.
func NewReconciler(store Store, log *logrus.Logger) *Reconciler {
	return &Reconciler{
		store: store,
		log:   log.WithField("component", "status-reconciler"),
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// Run executes ReconcileOnce on every tick of the given interval
// until the context is cancelled. An immediate first pass runs
// before the ticker starts so freshly booted instances converge
// without waiting a full interval.
func (r *Reconciler) Run(ctx context.Context, interval time.Duration) {
	r.ReconcileOnce(ctx)
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			r.ReconcileOnce(ctx)
		}
	}
}

// ReconcileOnce loads all event schedules, derives each status and
// persists the ones that differ. It returns the number of rows
// rewritten; errors are logged per event and do not abort the pass.
func (r *Reconciler) ReconcileOnce(ctx context.Context) int {
	schedules, err := r.store.Schedules(ctx)
	if err != nil {
		r.log.WithError(err).Warn("load schedules failed")
		return 0
	}
	now := r.now()
	updated := 0
	for _, s := range schedules {
		derived := Derive(s.StartsAt, s.EndsAt, now)
		if derived == s.Status {
			continue
		}
		if err := r.store.SetStatus(ctx, s.ID, derived); err != nil {
			r.log.WithError(err).WithField("event_id", s.ID).Warn("persist status failed")
			continue
		}
		updated++
	}
	if updated > 0 {
		r.log.WithField("updated", updated).Info("event statuses reconciled")
	}
	return updated
}
