package appointment

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
	StatusNoShow    Status = "no_show"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled, StatusNoShow:
		return true
	default:
		return false
	}
}

// Completed, cancelled and no-show are terminal: nothing leaves them.
func (s Status) IsTerminal() bool {
	switch s {
	case StatusCompleted, StatusCancelled, StatusNoShow:
		return true
	default:
		return false
	}
}

func NewStatus(s string) (Status, error) {
	status := Status(s)
	if !status.IsValid() {
		return "", ErrInvalidStatus
	}
	return status, nil
}

// Single transition table consulted by every mutation path.
var allowedTransitions = map[Status][]Status{
	StatusPending:   {StatusConfirmed, StatusCompleted, StatusCancelled, StatusNoShow},
	StatusConfirmed: {StatusCompleted, StatusCancelled, StatusNoShow},
	StatusCompleted: {},
	StatusCancelled: {},
	StatusNoShow:    {},
}

func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range allowedTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Rescheduling is not a row in the table: it is legal only from pending or
// confirmed and always lands back in pending for re-confirmation.
func (s Status) CanReschedule() bool {
	return s == StatusPending || s == StatusConfirmed
}

// ActiveStatuses are the statuses that occupy calendar time. Only these
// participate in overlap detection.
func ActiveStatuses() []Status {
	return []Status{StatusPending, StatusConfirmed}
}

type HistoryAction string

const (
	ActionCreated       HistoryAction = "created"
	ActionRescheduled   HistoryAction = "rescheduled"
	ActionCancelled     HistoryAction = "cancelled"
	ActionCompleted     HistoryAction = "completed"
	ActionNoShow        HistoryAction = "no_show"
	ActionStatusChanged HistoryAction = "status_changed"
	ActionNotesUpdated  HistoryAction = "notes_updated"
)

func (a HistoryAction) String() string {
	return string(a)
}

func (a HistoryAction) IsValid() bool {
	switch a {
	case ActionCreated, ActionRescheduled, ActionCancelled, ActionCompleted,
		ActionNoShow, ActionStatusChanged, ActionNotesUpdated:
		return true
	default:
		return false
	}
}
