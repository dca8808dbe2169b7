package schedule

import "time"

// MinRenderMinutes floors the rendered length of a clamped interval so that
// point-in-time or near-zero events still draw a visible block. Display
// concession only; the event's scheduled instants carry the real interval.
const MinRenderMinutes = 10

// Default day window for the agency day view.
const (
	DefaultWindowStartHour = 6
	DefaultWindowEndHour   = 22
)

// ClampedInterval is an interval expressed as minute offsets from the start
// of a day window, clamped to the window.
type ClampedInterval struct {
	StartOffset int
	EndOffset   int
}

// DayWindow returns the instants bounding [startHour:00, endHour:00) on the
// calendar day of date. Dates are treated as naive local days; no timezone
// conversion happens here.
func DayWindow(date time.Time, startHour, endHour int) (time.Time, time.Time) {
	y, m, d := date.Date()
	start := time.Date(y, m, d, startHour, 0, 0, 0, date.Location())
	end := time.Date(y, m, d, endHour, 0, 0, 0, date.Location())
	return start, end
}

// StartOfDay returns midnight on the calendar day of date.
func StartOfDay(date time.Time) time.Time {
	y, m, d := date.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, date.Location())
}

// EndOfDay returns the last nanosecond of the calendar day of date.
func EndOfDay(date time.Time) time.Time {
	return StartOfDay(date).Add(24*time.Hour - time.Nanosecond)
}

// MinutesFromWindowStart returns the difference in whole minutes between
// instant and windowStart. Not clamped; instants before the window yield a
// negative offset.
func MinutesFromWindowStart(instant, windowStart time.Time) int {
	return int(instant.Sub(windowStart) / time.Minute)
}

// ClampInterval projects [start, end) onto the window, returning false when
// the interval does not intersect it. Returned offsets are clamped to
// [0, windowLength] and the rendered duration is floored at MinRenderMinutes.
func ClampInterval(start, end, windowStart, windowEnd time.Time) (ClampedInterval, bool) {
	if !end.After(windowStart) || !start.Before(windowEnd) {
		return ClampedInterval{}, false
	}

	windowLen := MinutesFromWindowStart(windowEnd, windowStart)

	startOffset := MinutesFromWindowStart(start, windowStart)
	if startOffset < 0 {
		startOffset = 0
	}

	endOffset := MinutesFromWindowStart(end, windowStart)
	if endOffset > windowLen {
		endOffset = windowLen
	}

	if endOffset-startOffset < MinRenderMinutes {
		endOffset = startOffset + MinRenderMinutes
		if endOffset > windowLen {
			endOffset = windowLen
			startOffset = endOffset - MinRenderMinutes
			if startOffset < 0 {
				startOffset = 0
			}
		}
	}

	return ClampedInterval{StartOffset: startOffset, EndOffset: endOffset}, true
}
