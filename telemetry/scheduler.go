package telemetry

import "time"

// DefaultPeriod is the telemetry scheduler's default fire interval (§4.8).
const DefaultPeriod = 1000 * time.Millisecond

// Scheduler is an edge-triggered fixed-interval timer: ShouldEmit returns
// true exactly once per interval elapsed, advancing its own next-fire
// time, rather than the caller having to track elapsed time itself — the
// same "trigger once, re-arm" shape as the teacher's measureWorker timer.
type Scheduler struct {
	period   time.Duration
	nextFire time.Time
	enabled  bool
}

// NewScheduler returns a disabled scheduler with the given period.
func NewScheduler(period time.Duration) *Scheduler {
	return &Scheduler{period: period}
}

// Enable arms the scheduler so the next ShouldEmit(now) call can fire
// after one period has elapsed from now.
func (s *Scheduler) Enable(now time.Time) {
	s.enabled = true
	s.nextFire = now.Add(s.period)
}

// Disable stops emission; ShouldEmit always returns false until re-enabled.
func (s *Scheduler) Disable() { s.enabled = false }

// Enabled reports whether the scheduler is currently armed.
func (s *Scheduler) Enabled() bool { return s.enabled }

// Reset re-arms the next fire time relative to now without changing the
// enabled/disabled state.
func (s *Scheduler) Reset(now time.Time) { s.nextFire = now.Add(s.period) }

// ShouldEmit reports whether the interval has elapsed, advancing the next
// fire time by exactly one period so a caller that calls this every cycle
// gets exactly one true per period, even if cycles run slightly late.
func (s *Scheduler) ShouldEmit(now time.Time) bool {
	if !s.enabled {
		return false
	}
	if now.Before(s.nextFire) {
		return false
	}
	s.nextFire = s.nextFire.Add(s.period)
	if !s.nextFire.After(now) {
		// Large clock jump or long stall: resynchronise instead of firing
		// a burst of catch-up ticks.
		s.nextFire = now.Add(s.period)
	}
	return true
}
