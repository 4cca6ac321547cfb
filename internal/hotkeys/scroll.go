package hotkeys

import "time"

// scrollDebouncer accepts a scroll event only if more than threshold has
// passed since the last accepted one. Dropped events do not move the window.
type scrollDebouncer struct {
	threshold    time.Duration
	lastAccepted time.Time
}

func newScrollDebouncer(threshold time.Duration) *scrollDebouncer {
	return &scrollDebouncer{threshold: threshold}
}

func (d *scrollDebouncer) accept(now time.Time) bool {
	if !d.lastAccepted.IsZero() && now.Sub(d.lastAccepted) <= d.threshold {
		return false
	}
	d.lastAccepted = now
	return true
}
