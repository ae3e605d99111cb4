package schedule

import (
	"errors"
	"time"
)

var (
	ErrInvalidWeekday  = errors.New("invalid weekday, expected 0-6")
	ErrNoOpenIntervals = errors.New("at least one open interval is required")
	ErrUnknownTimeZone = errors.New("unknown schedule timezone")
)

// BusinessHours is the weekday-keyed table of open spans for the practice.
// Days missing from the table are closed.
type BusinessHours struct {
	loc  *time.Location
	week map[time.Weekday][]OpenSpan
}

// NewBusinessHours builds the table from configuration primitives: weekday
// numbers (Sunday=0) and "HH:MM-HH:MM" spans applied to each open day.
func NewBusinessHours(tz string, days []int, spans []string) (BusinessHours, error) {
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return BusinessHours{}, ErrUnknownTimeZone
	}

	if len(spans) == 0 {
		return BusinessHours{}, ErrNoOpenIntervals
	}
	parsed := make([]OpenSpan, 0, len(spans))
	for _, s := range spans {
		sp, err := ParseOpenSpan(s)
		if err != nil {
			return BusinessHours{}, err
		}
		parsed = append(parsed, sp)
	}

	week := make(map[time.Weekday][]OpenSpan, len(days))
	for _, d := range days {
		if d < 0 || d > 6 {
			return BusinessHours{}, ErrInvalidWeekday
		}
		week[time.Weekday(d)] = parsed
	}

	return BusinessHours{loc: loc, week: week}, nil
}

func (b BusinessHours) Location() *time.Location {
	return b.loc
}

func (b BusinessHours) IsOpenDay(day time.Time) bool {
	spans, ok := b.week[day.In(b.loc).Weekday()]
	return ok && len(spans) > 0
}

// OpenIntervalsOn materializes the open spans of the given calendar day as
// concrete intervals, ascending.
func (b BusinessHours) OpenIntervalsOn(day time.Time) []Interval {
	spans := b.week[day.In(b.loc).Weekday()]
	intervals := make([]Interval, 0, len(spans))
	for _, sp := range spans {
		iv, err := NewInterval(sp.open.On(day, b.loc), sp.close.On(day, b.loc))
		if err != nil {
			continue
		}
		intervals = append(intervals, iv)
	}
	return intervals
}

// Covers reports whether the whole interval fits inside a single open span
// of its day.
func (b BusinessHours) Covers(iv Interval) bool {
	for _, open := range b.OpenIntervalsOn(iv.Start()) {
		if open.Contains(iv) {
			return true
		}
	}
	return false
}
