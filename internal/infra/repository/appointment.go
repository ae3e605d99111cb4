package repository

import (
	"context"
	"time"

	"counseling-portal/internal/domain/appointment"
	"counseling-portal/internal/infra"
	"counseling-portal/internal/infra/db"
	"counseling-portal/internal/pkg/pgconv"
	"counseling-portal/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const appointmentColumns = `id, service_id, client_id, date_time, duration_minutes, status,
	notes, admin_notes, client_notes, cancellation_reason, confirmation_sent_at,
	reminder_sent_at, created_at, updated_at`

type AppointmentRepository struct{}

func NewAppointmentRepository() *AppointmentRepository {
	return &AppointmentRepository{}
}

func (r *AppointmentRepository) Create(ctx context.Context, tx db.DBTX, appt *appointment.Appointment) (uuid.UUID, error) {
	const query = `
		INSERT INTO appointments (id, service_id, client_id, date_time, duration_minutes, status, notes, admin_notes, client_notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`

	var id uuid.UUID
	err := tx.QueryRow(ctx, query,
		appt.ID(), appt.ServiceID(), appt.ClientID(),
		appt.DateTime(), appt.DurationMinutes(), appt.Status().String(),
		appt.Notes(), appt.AdminNotes(), appt.ClientNotes(),
	).Scan(&id)
	if err != nil {
		return uuid.Nil, infra.WrapRepoErr("failed to create appointment", err)
	}
	return id, nil
}

func (r *AppointmentRepository) Update(ctx context.Context, tx db.DBTX, appt *appointment.Appointment) error {
	const query = `
		UPDATE appointments
		SET date_time = $2,
		    status = $3,
		    notes = $4,
		    admin_notes = $5,
		    client_notes = $6,
		    cancellation_reason = $7,
		    confirmation_sent_at = $8,
		    reminder_sent_at = $9,
		    updated_at = $10
		WHERE id = $1`

	tag, err := tx.Exec(ctx, query,
		appt.ID(), appt.DateTime(), appt.Status().String(),
		appt.Notes(), appt.AdminNotes(), appt.ClientNotes(),
		appt.CancellationReason(), appt.ConfirmationSentAt(), appt.ReminderSentAt(), appt.UpdatedAt(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to update appointment", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("appointment not found", pgx.ErrNoRows, infra.KindNotFound)
	}
	return nil
}

// FindByIDForUpdate locks the appointment row until the surrounding
// transaction commits or rolls back.
func (r *AppointmentRepository) FindByIDForUpdate(ctx context.Context, tx db.DBTX, id uuid.UUID) (*shared.AppointmentSnapshot, error) {
	const query = `
		SELECT ` + appointmentColumns + `
		FROM appointments
		WHERE id = $1
		FOR UPDATE`

	snap, err := scanAppointmentSnapshot(tx.QueryRow(ctx, query, id))
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("appointment not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to lock appointment", err)
	}
	return snap, nil
}

func (r *AppointmentRepository) FindByID(ctx context.Context, tx db.DBTX, id uuid.UUID) (*shared.AppointmentSnapshot, error) {
	const query = `
		SELECT ` + appointmentColumns + `
		FROM appointments
		WHERE id = $1`

	snap, err := scanAppointmentSnapshot(tx.QueryRow(ctx, query, id))
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("appointment not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find appointment", err)
	}
	return snap, nil
}

// CountActiveOverlapping counts pending or confirmed appointments whose
// window intersects [start, end). The same half-open range semantics back
// the exclusion constraint on the table.
func (r *AppointmentRepository) CountActiveOverlapping(ctx context.Context, tx db.DBTX, start, end time.Time, excludeID *uuid.UUID) (int64, error) {
	const query = `
		SELECT count(*)
		FROM appointments
		WHERE status IN ('pending', 'confirmed')
		  AND date_time < $2
		  AND end_time > $1
		  AND ($3::uuid IS NULL OR id <> $3)`

	var count int64
	if err := tx.QueryRow(ctx, query, start, end, pgconv.UUIDPtrToPgtype(excludeID)).Scan(&count); err != nil {
		return 0, infra.WrapRepoErr("failed to count overlapping appointments", err)
	}
	return count, nil
}

// FindActiveEndedBefore returns pending or confirmed appointments whose end
// time has passed; the no-show sweep feeds on it.
func (r *AppointmentRepository) FindActiveEndedBefore(ctx context.Context, tx db.DBTX, cutoff time.Time) ([]shared.AppointmentSnapshot, error) {
	const query = `
		SELECT ` + appointmentColumns + `
		FROM appointments
		WHERE status IN ('pending', 'confirmed')
		  AND end_time < $1
		ORDER BY date_time, id`

	rows, err := tx.Query(ctx, query, cutoff)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find elapsed appointments", err)
	}
	defer rows.Close()

	var snaps []shared.AppointmentSnapshot
	for rows.Next() {
		snap, serr := scanAppointmentSnapshot(rows)
		if serr != nil {
			return nil, infra.WrapRepoErr("failed to scan elapsed appointment", serr)
		}
		snaps = append(snaps, *snap)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read elapsed appointments", err)
	}
	return snaps, nil
}

func (r *AppointmentRepository) StampConfirmationSent(ctx context.Context, tx db.DBTX, id uuid.UUID, at time.Time) error {
	const query = `
		UPDATE appointments
		SET confirmation_sent_at = $2
		WHERE id = $1`

	tag, err := tx.Exec(ctx, query, id, at)
	if err != nil {
		return infra.WrapRepoErr("failed to stamp confirmation", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("appointment not found", pgx.ErrNoRows, infra.KindNotFound)
	}
	return nil
}

func (r *AppointmentRepository) StampReminderSent(ctx context.Context, tx db.DBTX, id uuid.UUID, at time.Time) error {
	const query = `
		UPDATE appointments
		SET reminder_sent_at = $2
		WHERE id = $1`

	tag, err := tx.Exec(ctx, query, id, at)
	if err != nil {
		return infra.WrapRepoErr("failed to stamp reminder", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("appointment not found", pgx.ErrNoRows, infra.KindNotFound)
	}
	return nil
}

// FindConfirmedNeedingReminder returns confirmed appointments starting in
// (from, until] that have no reminder stamp yet.
func (r *AppointmentRepository) FindConfirmedNeedingReminder(ctx context.Context, tx db.DBTX, from, until time.Time) ([]shared.AppointmentSnapshot, error) {
	const query = `
		SELECT ` + appointmentColumns + `
		FROM appointments
		WHERE status = 'confirmed'
		  AND reminder_sent_at IS NULL
		  AND date_time > $1
		  AND date_time <= $2
		ORDER BY date_time, id`

	rows, err := tx.Query(ctx, query, from, until)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find appointments needing reminder", err)
	}
	defer rows.Close()

	var snaps []shared.AppointmentSnapshot
	for rows.Next() {
		snap, serr := scanAppointmentSnapshot(rows)
		if serr != nil {
			return nil, infra.WrapRepoErr("failed to scan reminder candidate", serr)
		}
		snaps = append(snaps, *snap)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read reminder candidates", err)
	}
	return snaps, nil
}

func scanAppointmentSnapshot(row pgx.Row) (*shared.AppointmentSnapshot, error) {
	var snap shared.AppointmentSnapshot
	err := row.Scan(
		&snap.ID, &snap.ServiceID, &snap.ClientID,
		&snap.DateTime, &snap.DurationMinutes, &snap.Status,
		&snap.Notes, &snap.AdminNotes, &snap.ClientNotes,
		&snap.CancellationReason, &snap.ConfirmationSentAt, &snap.ReminderSentAt,
		&snap.CreatedAt, &snap.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &snap, nil
}
