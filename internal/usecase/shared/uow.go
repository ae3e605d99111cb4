package shared

import (
	"context"
	"time"

	"counseling-portal/internal/domain/appointment"
	"counseling-portal/internal/domain/schedule"
	"counseling-portal/internal/infra/db"

	"github.com/google/uuid"
)

type UnitOfWork interface {
	// Within: Full transaction for write operations with retry logic
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// CommandReads: Direct access to command reads for validation outside transactions
	CommandReads() CommandReads
}

type Tx interface {
	Appointments() AppointmentRepository
	History() HistoryRepository
	BlockedIntervals() BlockedIntervalRepository
	Users() UserRepository
	Reads() CommandReads
	DB() db.DBTX
}

type CommandReads interface {
	AppointmentByID(ctx context.Context, id uuid.UUID) (*AppointmentSnapshot, error)
	ServiceByID(ctx context.Context, id uuid.UUID) (*ServiceSnapshot, error)
	// CountActiveOverlapping counts active appointments whose window
	// intersects [start, end), excluding excludeID when non-nil.
	CountActiveOverlapping(ctx context.Context, start, end time.Time, excludeID *uuid.UUID) (int64, error)
	BlockedIntervalsWithin(ctx context.Context, start, end time.Time) ([]BlockedIntervalSnapshot, error)
	ActiveAppointmentsEndedBefore(ctx context.Context, cutoff time.Time) ([]AppointmentSnapshot, error)
	// ConfirmedNeedingReminder lists confirmed appointments starting in
	// (from, until] that have not been sent a reminder yet.
	ConfirmedNeedingReminder(ctx context.Context, from, until time.Time) ([]AppointmentSnapshot, error)
}

type AppointmentRepository interface {
	Create(ctx context.Context, tx db.DBTX, appt *appointment.Appointment) (uuid.UUID, error)
	Update(ctx context.Context, tx db.DBTX, appt *appointment.Appointment) error
	// FindByIDForUpdate locks the row until the surrounding transaction ends.
	FindByIDForUpdate(ctx context.Context, tx db.DBTX, id uuid.UUID) (*AppointmentSnapshot, error)
	// StampConfirmationSent records a successful confirmation dispatch. Kept
	// apart from Update so the post-commit notification path cannot clobber
	// fields written by the mutation itself.
	StampConfirmationSent(ctx context.Context, tx db.DBTX, id uuid.UUID, at time.Time) error
	StampReminderSent(ctx context.Context, tx db.DBTX, id uuid.UUID, at time.Time) error
}

type HistoryRepository interface {
	Create(ctx context.Context, tx db.DBTX, record *appointment.HistoryRecord) (uuid.UUID, error)
}

type BlockedIntervalRepository interface {
	Create(ctx context.Context, tx db.DBTX, blocked *schedule.BlockedInterval) (uuid.UUID, error)
	Delete(ctx context.Context, tx db.DBTX, id uuid.UUID) error
}

type UserRepository interface {
	UpdateLastLogin(ctx context.Context, tx db.DBTX, userID uuid.UUID) error
}
