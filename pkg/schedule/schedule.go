// Package schedule defines the external Schedule collaborator the lister
// consumes (spec.md §3 "Schedule (external, consumed by C8)"), plus a
// simple always-on, fixed-interval implementation used as the daemon's
// default.
package schedule

import "time"

// Schedule answers the lister's cycle-pacing questions. A production
// deployment wires a richer implementation (business-hours windows,
// externally configured rate limits); this package only defines the shape
// and ships the degenerate always-available case.
type Schedule interface {
	// Rate is advisory: documents/minute a traverser should aim for.
	Rate() int
	// RetryDelay is how long to sleep after a clean cycle; negative means
	// "wait indefinitely until interrupted".
	RetryDelay() time.Duration
	// IsDisabled means the lister should sleep indefinitely between checks.
	IsDisabled() bool
	// InScheduledInterval reports whether now falls inside an allowed
	// crawl window.
	InScheduledInterval(now time.Time) bool
	// NextScheduledInterval is how long until the next allowed window
	// starts, valid only when InScheduledInterval is false.
	NextScheduledInterval(now time.Time) time.Duration
	// ShouldRun is the composite answer InScheduledInterval && !IsDisabled.
	ShouldRun(now time.Time) bool
}

// Fixed is an always-in-interval schedule with a constant retry delay —
// the crawler's zero-config default.
type Fixed struct {
	RateDocsPerMin int
	Retry          time.Duration
	Disabled       bool
}

func (f Fixed) Rate() int                   { return f.RateDocsPerMin }
func (f Fixed) RetryDelay() time.Duration   { return f.Retry }
func (f Fixed) IsDisabled() bool            { return f.Disabled }
func (f Fixed) InScheduledInterval(time.Time) bool { return true }
func (f Fixed) NextScheduledInterval(time.Time) time.Duration { return 0 }
func (f Fixed) ShouldRun(now time.Time) bool {
	return f.InScheduledInterval(now) && !f.IsDisabled()
}
