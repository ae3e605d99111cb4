package schedule

type ConflictKind string

const (
	ConflictNone         ConflictKind = "NONE"
	ConflictAppointment  ConflictKind = "APPOINTMENT"
	ConflictOutsideHours ConflictKind = "OUTSIDE_HOURS"
	ConflictBlocked      ConflictKind = "BLOCKED"
)

func (k ConflictKind) HasConflict() bool {
	return k != ConflictNone
}

// ClassifyWindow runs the checks that need no appointment data: business
// hours first, then admin blocks. Callers query the store for overlapping
// appointments only when this returns ConflictNone.
func ClassifyWindow(hours BusinessHours, candidate Interval, blocked []Interval) ConflictKind {
	if !hours.Covers(candidate) {
		return ConflictOutsideHours
	}
	for _, b := range blocked {
		if candidate.Overlaps(b) {
			return ConflictBlocked
		}
	}
	return ConflictNone
}
