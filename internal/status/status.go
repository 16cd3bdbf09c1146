// Package status derives an event's lifecycle phase from its
// scheduled window. One canonical rule is used everywhere: strict
// timestamp comparison, no widening of the ongoing window to the
// whole calendar day of the start.
package status

import "time"

// Status is the lifecycle phase of an event.
type Status string

const (
	Upcoming  Status = "UPCOMING"
	Ongoing   Status = "ONGOING"
	Completed Status = "COMPLETED"
)

// Derive computes the phase of an event scheduled for [start, end]
// as of now:
//
//	now <  start        -> Upcoming
//	start <= now <= end -> Ongoing
//	now >  end          -> Completed
//
// The result is monotonic in now: once Completed, an event stays
// Completed for every later now.
func Derive(start, end, now time.Time) Status {
	if now.After(end) {
		return Completed
	}
	if now.Before(start) {
		return Upcoming
	}
	return Ongoing
}
