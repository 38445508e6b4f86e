// Package worktime implements business-time arithmetic over a fixed
// working window: Monday to Friday, 09:00 to 17:00 local time. The
// window is deliberately not configurable and holidays are not modeled;
// results are advisory.
package worktime

import "time"

const (
	// WorkdayStartHour and WorkdayEndHour bound the working window.
	// The strict predicate treats the window as [start, end), while the
	// adjusters treat the 17:00-17:59 hour as still working; see
	// NextWorkingHourOrSame.
	WorkdayStartHour = 9
	WorkdayEndHour   = 17

	// WorkdayLength is the span of one full working day.
	WorkdayLength = time.Duration(WorkdayEndHour-WorkdayStartHour) * time.Hour
)

// IsWorkingDay reports whether t falls on Monday through Friday in its
// own location.
func IsWorkingDay(t time.Time) bool {
	wd := t.Weekday()
	return wd != time.Saturday && wd != time.Sunday
}

// IsWorkingHour reports whether t's local hour is within [9, 17).
func IsWorkingHour(t time.Time) bool {
	h := t.Hour()
	return h >= WorkdayStartHour && h < WorkdayEndHour
}

// NextWorkingDayOrSame advances Saturday by two days and Sunday by one,
// preserving the local time of day. Weekdays pass through unchanged.
func NextWorkingDayOrSame(t time.Time) time.Time {
	switch t.Weekday() {
	case time.Saturday:
		return addDays(t, 2)
	case time.Sunday:
		return addDays(t, 1)
	default:
		return t
	}
}

// NextWorkingDay returns the next working day strictly after t,
// preserving the local time of day: Friday jumps to Monday, Saturday to
// Monday, everything else to the next day.
func NextWorkingDay(t time.Time) time.Time {
	switch t.Weekday() {
	case time.Friday:
		return addDays(t, 3)
	case time.Saturday:
		return addDays(t, 2)
	default:
		return addDays(t, 1)
	}
}

// NextWorkingHourOrSame moves t forward to the next start of the working
// window, or leaves it unchanged if already inside:
//
//   - hour in [0, 9)  -> same day 09:00
//   - hour >= 18      -> next day 09:00
//   - hour in [9, 17] -> unchanged
//
// The whole 17:00-17:59 hour counts as already-working here. That is
// intentionally looser than IsWorkingHour and is pinned by test.
func NextWorkingHourOrSame(t time.Time) time.Time {
	switch h := t.Hour(); {
	case h < WorkdayStartHour:
		return atHour(t, WorkdayStartHour)
	case h > WorkdayEndHour:
		return atHour(addDays(t, 1), WorkdayStartHour)
	default:
		return t
	}
}

// PrevWorkingHour moves t backward to the nearest working boundary,
// irrespective of weekday:
//
//   - hour in [9, 17] -> same day 09:00
//   - hour in [0, 9)  -> previous day 17:00
//   - hour >= 18      -> same day 17:00
func PrevWorkingHour(t time.Time) time.Time {
	switch h := t.Hour(); {
	case h >= WorkdayStartHour && h <= WorkdayEndHour:
		return atHour(t, WorkdayStartHour)
	case h < WorkdayStartHour:
		return atHour(addDays(t, -1), WorkdayEndHour)
	default:
		return atHour(t, WorkdayEndHour)
	}
}

// NextNonWorkingHourOrSame moves t forward to the end of its working
// window (17:00 same day), or leaves it unchanged once the 17:00 hour
// is reached. Never moves backward: 17:30 stays 17:30, consistent with
// the adjusters treating 17:00-17:59 as still working.
func NextNonWorkingHourOrSame(t time.Time) time.Time {
	if t.Hour() < WorkdayEndHour {
		return atHour(t, WorkdayEndHour)
	}
	return t
}

// StartOfDay returns local midnight of t's day.
func StartOfDay(t time.Time) time.Time {
	return atHour(t, 0)
}

// SameDay reports whether a and b share the same local calendar date.
func SameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

// WithinWindow reports whether the adjusters consider t already inside
// the working window. Unlike IsWorkingHour this includes 17:00-17:59.
func WithinWindow(t time.Time) bool {
	return NextWorkingHourOrSame(t).Equal(t)
}

// BeforeWindow reports whether t is before 09:00 on its local day.
func BeforeWindow(t time.Time) bool {
	return t.Hour() < WorkdayStartHour
}

// AfterWindow reports whether t is past the adjusters' working window,
// i.e. at or after 18:00 local.
func AfterWindow(t time.Time) bool {
	return t.Hour() > WorkdayEndHour
}

// addDays shifts the calendar date by n days keeping the wall-clock
// time. Built from time.Date rather than Add so zones with non-whole
// hour offsets and DST transitions keep the local time of day intact.
func addDays(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	h, min, sec := t.Clock()
	return time.Date(y, m, d+n, h, min, sec, t.Nanosecond(), t.Location())
}

// atHour pins t to hh:00:00 on the same local day.
func atHour(t time.Time, hour int) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, hour, 0, 0, 0, t.Location())
}
