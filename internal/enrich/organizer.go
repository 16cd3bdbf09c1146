// Package enrich implements the organizer attribution backfill: a
// read-time join substitute that resolves each event's creator id
// into the organizer's current display name and email before a
// listing is returned. Nothing here is persisted.
package enrich

import (
	"context"

	"github.com/dmarku/eventdesk/internal/model"
)

// OrganizerSource supplies user records for a set of ids in one
// call. UserRepo satisfies it.
type OrganizerSource interface {
	ListByIDs(ctx context.Context, ids []uint64) (map[uint64]model.User, error)
}

// Organizers resolves creator attribution for the given events in
// place. Distinct non-nil creator ids are batch-fetched once; for
// events whose creator cannot be resolved, the previously stored
// snapshot fields are left as-is.
func Organizers(ctx context.Context, src OrganizerSource, events []model.Event) error {
	ids := distinctCreators(events)
	if len(ids) == 0 {
		return nil
	}
	users, err := src.ListByIDs(ctx, ids)
	if err != nil {
		return err
	}
	Apply(events, users)
	return nil
}

// Apply writes denormalized organizer name/email onto the events
// using the supplied user map. Events with no creator, or whose
// creator is missing from the map, keep whatever snapshot values
// they already carry.
func Apply(events []model.Event, users map[uint64]model.User) {
	for i := range events {
		ev := &events[i]
		if ev.CreatedBy == nil {
			continue
		}
		u, ok := users[*ev.CreatedBy]
		if !ok {
			continue
		}
		if name := u.DisplayName(); name != "" {
			ev.OrganizerName = name
		}
		if u.Email != "" {
			ev.OrganizerEmail = u.Email
		}
	}
}

func distinctCreators(events []model.Event) []uint64 {
	seen := make(map[uint64]struct{}, len(events))
	ids := make([]uint64, 0, len(events))
	for i := range events {
		if events[i].CreatedBy == nil {
			continue
		}
		id := *events[i].CreatedBy
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids
}
