package schedule

import (
	"errors"
	"time"
)

var ErrInvalidRules = errors.New("invalid scheduling rules")

// Rules bundles the runtime scheduling parameters shared by availability
// computation, conflict detection and booking validation.
type Rules struct {
	Hours               BusinessHours
	GranularityMin      int
	MinAdvance          time.Duration
	MaxAdvance          time.Duration
	MaxAlternatives     int
	AlternativeScanDays int
	ReminderLead        time.Duration
}

func NewRules(hours BusinessHours, granularityMin int, minAdvance, maxAdvance time.Duration, maxAlternatives, alternativeScanDays int, reminderLead time.Duration) (Rules, error) {
	if granularityMin <= 0 || minAdvance < 0 || maxAdvance <= 0 || maxAlternatives < 0 || alternativeScanDays < 0 || reminderLead < 0 {
		return Rules{}, ErrInvalidRules
	}
	return Rules{
		Hours:               hours,
		GranularityMin:      granularityMin,
		MinAdvance:          minAdvance,
		MaxAdvance:          maxAdvance,
		MaxAlternatives:     maxAlternatives,
		AlternativeScanDays: alternativeScanDays,
		ReminderLead:        reminderLead,
	}, nil
}

// EarliestStart is the first instant a new booking may occupy, given now.
func (r Rules) EarliestStart(now time.Time) time.Time {
	return now.Add(r.MinAdvance)
}
