package notification

import (
	"context"
	"fmt"
	"log/slog"

	"counseling-portal/internal/usecase/shared"
)

// LogSender writes notifications to the structured log instead of an email
// or SMS gateway. The scheduling flow only depends on the Send contract, so
// swapping in a real provider is a wiring change.
type LogSender struct{}

func NewLogSender() shared.NotificationSender {
	return &LogSender{}
}

func (s *LogSender) Send(_ context.Context, n shared.Notification) error {
	slog.Info("notification dispatched",
		"kind", string(n.Kind),
		"appointment_id", n.AppointmentID,
		"client_id", n.ClientID,
		"date_time", n.DateTime,
		"subject", subjectFor(n),
	)
	return nil
}

func subjectFor(n shared.Notification) string {
	switch n.Kind {
	case shared.NotificationBooked:
		return fmt.Sprintf("Appointment request received for %s", n.DateTime.Format("Jan 2 15:04"))
	case shared.NotificationConfirmation:
		return fmt.Sprintf("Appointment confirmed for %s", n.DateTime.Format("Jan 2 15:04"))
	case shared.NotificationReminder:
		return fmt.Sprintf("Reminder: your appointment is on %s", n.DateTime.Format("Jan 2 15:04"))
	case shared.NotificationReschedule:
		return fmt.Sprintf("Appointment moved to %s", n.DateTime.Format("Jan 2 15:04"))
	case shared.NotificationCancellation:
		return "Appointment cancelled"
	default:
		return "Appointment update"
	}
}
