// Package lifecycle holds the retention rules shared by the anonymous
// session store and the patient record store: when a record stops being
// reachable and how its history is bounded.
package lifecycle

import "time"

const (
	// DefaultSessionWindow is the inactivity window for anonymous sessions.
	DefaultSessionWindow = time.Hour

	// DefaultPatientHorizon is the fixed retention of patient records.
	DefaultPatientHorizon = 30 * 24 * time.Hour

	// DefaultSessionHistoryLimit caps the analyses kept per session.
	DefaultSessionHistoryLimit = 50
)

// Policy computes the deadline after which a record is unreachable.
type Policy interface {
	// Deadline returns the instant the record expires. A record is expired
	// once now is at or past this instant.
	Deadline(createdAt, lastAccessed time.Time) time.Time
}

// SlidingWindow expires a record Window after its last access.
type SlidingWindow struct {
	Window time.Duration
}

func (p SlidingWindow) Deadline(_, lastAccessed time.Time) time.Time {
	return lastAccessed.Add(p.Window)
}

// FixedHorizon expires a record Horizon after creation, regardless of use.
type FixedHorizon struct {
	Horizon time.Duration
}

func (p FixedHorizon) Deadline(createdAt, _ time.Time) time.Time {
	return createdAt.Add(p.Horizon)
}

// Expired reports whether deadline has been reached at now.
func Expired(deadline, now time.Time) bool {
	return !now.Before(deadline)
}

// Remaining is the time left until deadline, never negative.
func Remaining(deadline, now time.Time) time.Duration {
	d := deadline.Sub(now)
	if d < 0 {
		return 0
	}
	return d
}
