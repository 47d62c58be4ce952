// internal/domain/notification/window.go
package notification

import "time"

// ElapsedSeconds returns the whole seconds between now and the event start,
// both projected into the recipient's zone before subtracting. The
// projection matches how the start time is rendered for that recipient.
func ElapsedSeconds(now, start time.Time, zone *time.Location) int64 {
	return int64(start.In(zone).Sub(now.In(zone)) / time.Second)
}

// InWindow reports whether elapsed falls inside the notify-now band for the
// given lead time, with tick the scanner period.
//
// The one-day band is a one-tick window closing exactly at the threshold:
// [86400-tick, 86400). Every other band is centered on its threshold, half a
// tick wide on each side, both ends open. The asymmetry keeps two
// consecutive ticks from both landing inside the one-day window.
func InWindow(elapsed int64, lead LeadTime, tick time.Duration) bool {
	threshold := lead.Seconds()
	tickSec := int64(tick / time.Second)

	if lead == LeadOneDay {
		return elapsed >= threshold-tickSec && elapsed < threshold
	}

	half := tickSec / 2
	return elapsed > threshold-half && elapsed < threshold+half
}
