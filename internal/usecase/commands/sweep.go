package commands

import (
	"context"
	"errors"
	"log/slog"

	"counseling-portal/internal/domain/appointment"
	"counseling-portal/internal/pkg/errs"
	"counseling-portal/internal/usecase/shared"

	"github.com/google/uuid"
)

// SweepResult reports one no-show sweep run.
type SweepResult struct {
	Candidates int
	Marked     []uuid.UUID
	Skipped    int
}

// SweepNoShows marks every pending or confirmed appointment whose end time
// has passed as a no-show. Each appointment is its own transaction, so an
// appointment cancelled mid-sweep is skipped without spoiling the rest.
func (uc *appointmentUseCaseImpl) SweepNoShows(ctx context.Context) (*SweepResult, error) {
	cutoff := uc.clock.Now()
	rows, err := uc.uow.CommandReads().ActiveAppointmentsEndedBefore(ctx, cutoff)
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	result := &SweepResult{
		Candidates: len(rows),
		Marked:     []uuid.UUID{},
	}
	for i := range rows {
		pre := rows[i]
		_, merr := uc.mutate(ctx, &pre, true, func(_ context.Context, _ shared.Tx, appt *appointment.Appointment) (*appointment.HistoryRecord, error) {
			now := uc.clock.Now()
			old := appt.Status()
			if derr := appt.MarkNoShow(now); derr != nil {
				return nil, derr
			}
			return appointment.NewStatusChangeRecord(appt.ID(), appointment.ActionNoShow, old, appt.Status(), "missed appointment", appointment.SystemActor, now)
		})
		switch {
		case merr == nil:
			result.Marked = append(result.Marked, pre.ID)
		case errors.Is(merr, appointment.ErrInvalidTransition),
			errors.Is(merr, ErrAppointmentNotFoundWrite),
			errors.Is(merr, ErrConcurrentUpdate):
			// Lost the race to a concurrent cancel or complete.
			result.Skipped++
		default:
			return nil, merr
		}
	}
	return result, nil
}

// ReminderResult reports one reminder sweep run.
type ReminderResult struct {
	Candidates int
	Sent       []uuid.UUID
	Failed     int
}

// SendReminders dispatches a reminder for every confirmed appointment
// starting within the configured lead window that has none yet. The stamp is
// written only after a successful send, so a failed dispatch is retried by
// the next run.
func (uc *appointmentUseCaseImpl) SendReminders(ctx context.Context) (*ReminderResult, error) {
	now := uc.clock.Now()
	until := now.Add(uc.rules.ReminderLead)
	rows, err := uc.uow.CommandReads().ConfirmedNeedingReminder(ctx, now, until)
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	result := &ReminderResult{
		Candidates: len(rows),
		Sent:       []uuid.UUID{},
	}
	for i := range rows {
		snap := rows[i]
		notification := shared.Notification{
			Kind:          shared.NotificationReminder,
			AppointmentID: snap.ID,
			ClientID:      snap.ClientID,
			DateTime:      snap.DateTime,
		}
		if nerr := uc.notifier.Send(ctx, notification); nerr != nil {
			slog.Warn("reminder dispatch failed", "appointment_id", snap.ID, "error", nerr)
			result.Failed++
			continue
		}

		at := uc.clock.Now()
		serr := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
			return tx.Appointments().StampReminderSent(ctx, tx.DB(), snap.ID, at)
		})
		if serr != nil {
			// The reminder went out; the missing stamp only means the next
			// run may send a duplicate.
			slog.Warn("failed to stamp reminder dispatch", "appointment_id", snap.ID, "error", serr)
		}
		result.Sent = append(result.Sent, snap.ID)
	}
	return result, nil
}
