package shared

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type NotificationKind string

const (
	NotificationBooked       NotificationKind = "booked"
	NotificationConfirmation NotificationKind = "confirmation"
	NotificationReminder     NotificationKind = "reminder"
	NotificationReschedule   NotificationKind = "reschedule"
	NotificationCancellation NotificationKind = "cancellation"
)

type Notification struct {
	Kind          NotificationKind
	AppointmentID uuid.UUID
	ClientID      uuid.UUID
	DateTime      time.Time
}

// NotificationSender dispatches after the mutation has committed.
// Failures never unwind the mutation; callers report them through the
// operation result instead.
type NotificationSender interface {
	Send(ctx context.Context, n Notification) error
}
