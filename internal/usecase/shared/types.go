package shared

import (
	"time"

	"github.com/google/uuid"
)

// AppointmentSnapshot carries every persisted column so commands can
// rehydrate the domain entity inside a transaction.
type AppointmentSnapshot struct {
	ID                 uuid.UUID
	ServiceID          uuid.UUID
	ClientID           uuid.UUID
	DateTime           time.Time
	DurationMinutes    int
	Status             string
	Notes              *string
	AdminNotes         *string
	ClientNotes        *string
	CancellationReason *string
	ConfirmationSentAt *time.Time
	ReminderSentAt     *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

func (s *AppointmentSnapshot) EndTime() time.Time {
	return s.DateTime.Add(time.Duration(s.DurationMinutes) * time.Minute)
}

type ServiceSnapshot struct {
	ID              uuid.UUID
	Title           string
	Description     *string
	DurationMinutes int
	PriceCents      int64
	Active          bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type BlockedIntervalSnapshot struct {
	ID        uuid.UUID
	StartTime time.Time
	EndTime   time.Time
	Reason    string
	CreatedBy uuid.UUID
	CreatedAt time.Time
}
