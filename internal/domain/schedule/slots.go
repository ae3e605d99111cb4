package schedule

import "time"

// SlotParams carries everything slot enumeration needs besides the
// business-hours table. Busy holds PENDING/CONFIRMED appointment windows,
// Blocked holds admin-defined closures; both are point-in-time snapshots.
type SlotParams struct {
	Day             time.Time
	DurationMinutes int
	GranularityMin  int
	EarliestStart   time.Time
	Busy            []Interval
	Blocked         []Interval
}

// EnumerateSlots walks each open interval of the day at granularity steps
// and emits candidate slots ascending. Candidates whose end would spill past
// the interval close, or that start before EarliestStart, are dropped;
// candidates overlapping a busy or blocked interval are emitted unavailable
// with the corresponding reason. Pure: identical inputs yield identical
// output.
func EnumerateSlots(hours BusinessHours, p SlotParams) []TimeSlot {
	if p.DurationMinutes <= 0 || p.GranularityMin <= 0 {
		return nil
	}

	duration := time.Duration(p.DurationMinutes) * time.Minute
	step := time.Duration(p.GranularityMin) * time.Minute

	var slots []TimeSlot
	for _, open := range hours.OpenIntervalsOn(p.Day) {
		for start := open.Start(); ; start = start.Add(step) {
			end := start.Add(duration)
			if end.After(open.End()) {
				break
			}
			if start.Before(p.EarliestStart) {
				continue
			}

			candidate := Interval{start: start, end: end}
			slot := TimeSlot{
				DateTime:        start,
				DurationMinutes: p.DurationMinutes,
				Available:       true,
			}
			switch {
			case overlapsAny(candidate, p.Busy):
				slot.Available = false
				slot.Reason = ReasonBooked
			case overlapsAny(candidate, p.Blocked):
				slot.Available = false
				slot.Reason = ReasonBlocked
			}
			slots = append(slots, slot)
		}
	}
	return slots
}

func overlapsAny(iv Interval, list []Interval) bool {
	for _, other := range list {
		if iv.Overlaps(other) {
			return true
		}
	}
	return false
}
