package schedule

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrInvalidInterval  = errors.New("interval start must be before end")
	ErrInvalidClockTime = errors.New("invalid clock time, expected HH:MM")
	ErrInvalidOpenSpan  = errors.New("invalid open span, expected HH:MM-HH:MM")
)

// Interval is a half-open time range [Start, End).
type Interval struct {
	start time.Time
	end   time.Time
}

func NewInterval(start, end time.Time) (Interval, error) {
	if !start.Before(end) {
		return Interval{}, ErrInvalidInterval
	}
	return Interval{start: start, end: end}, nil
}

func IntervalFromDuration(start time.Time, d time.Duration) (Interval, error) {
	return NewInterval(start, start.Add(d))
}

func (iv Interval) Start() time.Time        { return iv.start }
func (iv Interval) End() time.Time          { return iv.end }
func (iv Interval) Duration() time.Duration { return iv.end.Sub(iv.start) }

func (iv Interval) Overlaps(other Interval) bool {
	return iv.start.Before(other.end) && other.start.Before(iv.end)
}

func (iv Interval) Contains(other Interval) bool {
	return !other.start.Before(iv.start) && !other.end.After(iv.end)
}

// ClockTime is a wall-clock time of day without a date.
type ClockTime struct {
	hour   int
	minute int
}

func ParseClockTime(s string) (ClockTime, error) {
	var h, m int
	if _, err := fmt.Sscanf(s, "%d:%d", &h, &m); err != nil {
		return ClockTime{}, ErrInvalidClockTime
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return ClockTime{}, ErrInvalidClockTime
	}
	return ClockTime{hour: h, minute: m}, nil
}

func (ct ClockTime) Hour() int   { return ct.hour }
func (ct ClockTime) Minute() int { return ct.minute }

func (ct ClockTime) On(day time.Time, loc *time.Location) time.Time {
	y, m, d := day.In(loc).Date()
	return time.Date(y, m, d, ct.hour, ct.minute, 0, 0, loc)
}

func (ct ClockTime) Before(other ClockTime) bool {
	if ct.hour != other.hour {
		return ct.hour < other.hour
	}
	return ct.minute < other.minute
}

func (ct ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", ct.hour, ct.minute)
}

// OpenSpan is one open window within a business day, e.g. 09:00-12:00.
type OpenSpan struct {
	open  ClockTime
	close ClockTime
}

func ParseOpenSpan(s string) (OpenSpan, error) {
	openStr, closeStr, ok := strings.Cut(strings.TrimSpace(s), "-")
	if !ok {
		return OpenSpan{}, ErrInvalidOpenSpan
	}
	open, err := ParseClockTime(openStr)
	if err != nil {
		return OpenSpan{}, ErrInvalidOpenSpan
	}
	closeAt, err := ParseClockTime(closeStr)
	if err != nil {
		return OpenSpan{}, ErrInvalidOpenSpan
	}
	if !open.Before(closeAt) {
		return OpenSpan{}, ErrInvalidOpenSpan
	}
	return OpenSpan{open: open, close: closeAt}, nil
}

func (sp OpenSpan) Open() ClockTime  { return sp.open }
func (sp OpenSpan) Close() ClockTime { return sp.close }

// TimeSlot is a transient availability result, never persisted.
type TimeSlot struct {
	DateTime        time.Time
	DurationMinutes int
	Available       bool
	Reason          string
}

const (
	ReasonBooked       = "booked"
	ReasonOutsideHours = "outside hours"
	ReasonBlocked      = "blocked"
)
