package worktime

import (
	"fmt"
	"time"

	"gh-pr-stats/internal/domain"
	"gh-pr-stats/internal/pkg/logger"
)

// Engine converts wall-clock instant pairs into business time elapsed
// within the working window, in a given time zone.
type Engine struct {
	logger *logger.Logger
}

func NewEngine(log *logger.Logger) *Engine {
	return &Engine{logger: log.Component("worktime/differ")}
}

// DiffWorkingHours computes the business time between start and end
// evaluated in loc. It fails with domain.ErrInvalidInterval when end
// precedes start.
//
// The computation is coarse on purpose: when both endpoints sit inside
// the working window of the same day the raw difference is returned
// unchanged, and multi-day intervals subtract a single boundary gap
// rather than walking every intervening day. Good enough for advisory
// review-time reporting, not for payroll.
func (e *Engine) DiffWorkingHours(start, end time.Time, loc *time.Location) (time.Duration, error) {
	if end.Before(start) {
		return 0, fmt.Errorf("%w: start=%s end=%s",
			domain.ErrInvalidInterval, start.Format(time.RFC3339), end.Format(time.RFC3339))
	}

	s := start.In(loc)
	en := end.In(loc)
	raw := en.Sub(s)

	if SameDay(s, en) && IsWorkingDay(s) {
		return e.sameDayDuration(s, en), nil
	}

	switch {
	case !WithinWindow(s):
		// Start landed outside the window: drop the lead-in up to the
		// next working boundary.
		gap := NextWorkingHourOrSame(s).Sub(s)
		return e.clamp(raw-gap, s, en, gap), nil

	case !WithinWindow(en):
		// End landed outside the window: drop the tail after the last
		// working boundary.
		gap := en.Sub(PrevWorkingHour(en))
		return e.clamp(raw-gap, s, en, gap), nil

	default:
		// Both endpoints are inside a working window but on different
		// days: drop the non-working stretch that follows the start
		// day, from its 17:00 to 09:00 on the next working day. Covers
		// both the overnight and the weekend case (Fri 17:00 -> Mon
		// 09:00).
		dayEnd := NextNonWorkingHourOrSame(s)
		resume := atHour(NextWorkingDay(s), WorkdayStartHour)
		gap := resume.Sub(dayEnd)
		return e.clamp(raw-gap, s, en, gap), nil
	}
}

// sameDayDuration handles intervals contained in one working day.
func (e *Engine) sameDayDuration(s, en time.Time) time.Duration {
	raw := en.Sub(s)

	switch {
	case WithinWindow(s) && WithinWindow(en):
		return raw

	case !WithinWindow(s) && !WithinWindow(en):
		if (BeforeWindow(s) && BeforeWindow(en)) || (AfterWindow(s) && AfterWindow(en)) {
			// Entirely before or entirely after hours.
			return 0
		}
		// Straddles the whole window: count the full working day.
		return WorkdayLength

	case !WithinWindow(s):
		// Early start: count from the window opening only.
		return e.clamp(en.Sub(PrevWorkingHour(en)), s, en, NextWorkingHourOrSame(s).Sub(s))

	default:
		// Late end: count up to the window closing only.
		return e.clamp(NextNonWorkingHourOrSame(s).Sub(s), s, en, en.Sub(PrevWorkingHour(en)))
	}
}

// clamp floors negative results at zero. A negative value means the
// subtracted boundary gap exceeded the raw interval (for example both
// endpoints inside one weekend), which is worth a warning but not an
// error.
func (e *Engine) clamp(d time.Duration, s, en time.Time, gap time.Duration) time.Duration {
	if d < 0 {
		e.logger.Warn("working duration clamped to zero",
			"start", s.Format(time.RFC3339),
			"end", en.Format(time.RFC3339),
			"subtracted_gap", gap,
		)
		return 0
	}
	return d
}
