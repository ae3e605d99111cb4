package commands

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"counseling-portal/internal/domain/appointment"
	"counseling-portal/internal/domain/policy"
	"counseling-portal/internal/domain/schedule"
	"counseling-portal/internal/domain/service"
	"counseling-portal/internal/infra"
	"counseling-portal/internal/pkg/clock"
	"counseling-portal/internal/pkg/errs"
	"counseling-portal/internal/usecase/queries"
	"counseling-portal/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrAppointmentNotFoundWrite = errs.New("appointment not found")
	ErrServiceNotFoundWrite     = errs.New("service not found")
	ErrServiceInactive          = errs.New("service is not bookable")
	ErrAppointmentNotOwned      = errs.New("appointment not owned by user")
	ErrSlotConflict             = errs.New("requested slot is not available")
	ErrConcurrentUpdate         = errs.New("appointment was modified concurrently")
	ErrRescheduleWindowClosed   = errs.New("appointment can no longer be rescheduled")
	ErrNotesForbidden           = errs.New("notes field not editable by this role")
	ErrEmptyNotesPatch          = errs.New("notes update carries no fields")
	ErrDatabaseOperationFailed  = errs.New("database operation failed")
)

// SlotConflictError carries the full conflict report, alternatives included,
// so the rejection response can show the caller where to move instead.
type SlotConflictError struct {
	Result *queries.ConflictResultView
}

func (e *SlotConflictError) Error() string { return "requested slot is not available" }

func (e *SlotConflictError) Is(target error) bool { return target == ErrSlotConflict }

// Actor is the authenticated principal issuing the command.
type Actor struct {
	ID   uuid.UUID
	Role string
}

func (a Actor) isAdmin() bool { return a.Role == queries.RoleAdmin }

type BookAppointmentRequest struct {
	ServiceID uuid.UUID
	// ClientID lets an admin book on a client's behalf; ignored otherwise.
	ClientID    uuid.UUID
	DateTime    time.Time
	ClientNotes *string
}

type RescheduleAppointmentRequest struct {
	NewDateTime time.Time
	Reason      string
}

type CancelAppointmentRequest struct {
	Reason string
}

type UpdateNotesRequest struct {
	Notes       *string
	AdminNotes  *string
	ClientNotes *string
}

// MutationResult is what every state-changing operation returns: the fresh
// appointment view, the audit entry written in the same transaction, and the
// outcome of the post-commit notification dispatch.
type MutationResult struct {
	Appointment       *queries.AppointmentView
	History           *queries.HistoryView
	NotificationSent  bool
	NotificationError *string
}

type AppointmentCommands interface {
	Book(ctx context.Context, req BookAppointmentRequest, actor Actor) (*MutationResult, error)
	Confirm(ctx context.Context, id uuid.UUID, actor Actor) (*MutationResult, error)
	Reschedule(ctx context.Context, id uuid.UUID, req RescheduleAppointmentRequest, actor Actor) (*MutationResult, error)
	Cancel(ctx context.Context, id uuid.UUID, req CancelAppointmentRequest, actor Actor) (*MutationResult, error)
	Complete(ctx context.Context, id uuid.UUID, actor Actor) (*MutationResult, error)
	MarkNoShow(ctx context.Context, id uuid.UUID, actor Actor) (*MutationResult, error)
	UpdateNotes(ctx context.Context, id uuid.UUID, req UpdateNotesRequest, actor Actor) (*MutationResult, error)
	SweepNoShows(ctx context.Context) (*SweepResult, error)
	SendReminders(ctx context.Context) (*ReminderResult, error)
}

type appointmentUseCaseImpl struct {
	uow         shared.UnitOfWork
	factory     *appointment.Factory
	rules       schedule.Rules
	policyTable policy.Table
	apptQueries queries.AppointmentQueries
	conflicts   queries.ConflictQueries
	userStore   queries.UserReadStore
	notifier    shared.NotificationSender
	clock       clock.Clock
}

func NewAppointmentUseCase(
	uow shared.UnitOfWork,
	factory *appointment.Factory,
	rules schedule.Rules,
	policyTable policy.Table,
	apptQueries queries.AppointmentQueries,
	conflicts queries.ConflictQueries,
	userStore queries.UserReadStore,
	notifier shared.NotificationSender,
	clk clock.Clock,
) AppointmentCommands {
	return &appointmentUseCaseImpl{
		uow:         uow,
		factory:     factory,
		rules:       rules,
		policyTable: policyTable,
		apptQueries: apptQueries,
		conflicts:   conflicts,
		userStore:   userStore,
		notifier:    notifier,
		clock:       clk,
	}
}

func (uc *appointmentUseCaseImpl) Book(ctx context.Context, req BookAppointmentRequest, actor Actor) (*MutationResult, error) {
	clientID := actor.ID
	if actor.isAdmin() && req.ClientID != uuid.Nil {
		clientID = req.ClientID
	}

	svcSnap, err := uc.uow.CommandReads().ServiceByID(ctx, req.ServiceID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrServiceNotFoundWrite
		}
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	if !svcSnap.Active {
		return nil, ErrServiceInactive
	}
	svc := service.ReconstructService(
		svcSnap.ID, svcSnap.Title, svcSnap.Description,
		svcSnap.DurationMinutes, svcSnap.PriceCents, svcSnap.Active,
		svcSnap.CreatedAt, svcSnap.UpdatedAt,
	)

	appt, err := uc.factory.CreateAppointment(svc, clientID, req.DateTime, req.ClientNotes)
	if err != nil {
		return nil, err
	}

	actorRec, err := uc.resolveActor(ctx, actor)
	if err != nil {
		return nil, err
	}

	var record *appointment.HistoryRecord
	err = uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if derr := uc.ensureWindowFree(ctx, tx, appt.Window(), nil); derr != nil {
			return derr
		}

		id, derr := tx.Appointments().Create(ctx, tx.DB(), appt)
		if derr != nil {
			if infra.IsKind(derr, infra.KindConflict) {
				return ErrSlotConflict
			}
			return errs.Mark(derr, ErrDatabaseOperationFailed)
		}

		rec, derr := appointment.NewCreatedRecord(id, appt.Status(), actorRec, uc.clock.Now())
		if derr != nil {
			return derr
		}
		if _, derr = tx.History().Create(ctx, tx.DB(), rec); derr != nil {
			return errs.Mark(derr, ErrDatabaseOperationFailed)
		}
		record = rec
		return nil
	})
	if err != nil {
		return uc.rejection(ctx, err, queries.ConflictCandidate{
			DateTime:  req.DateTime,
			ServiceID: req.ServiceID,
		})
	}

	return uc.finish(ctx, appt.ID(), record, shared.NotificationBooked)
}

func (uc *appointmentUseCaseImpl) Confirm(ctx context.Context, id uuid.UUID, actor Actor) (*MutationResult, error) {
	pre, err := uc.loadOwned(ctx, id, actor)
	if err != nil {
		return nil, err
	}
	actorRec, err := uc.resolveActor(ctx, actor)
	if err != nil {
		return nil, err
	}

	record, err := uc.mutate(ctx, pre, true, func(_ context.Context, _ shared.Tx, appt *appointment.Appointment) (*appointment.HistoryRecord, error) {
		now := uc.clock.Now()
		old := appt.Status()
		if derr := appt.Confirm(now); derr != nil {
			return nil, derr
		}
		return appointment.NewStatusChangeRecord(appt.ID(), appointment.ActionStatusChanged, old, appt.Status(), "", actorRec, now)
	})
	if err != nil {
		return nil, err
	}

	return uc.finish(ctx, id, record, shared.NotificationConfirmation)
}

func (uc *appointmentUseCaseImpl) Reschedule(ctx context.Context, id uuid.UUID, req RescheduleAppointmentRequest, actor Actor) (*MutationResult, error) {
	pre, err := uc.loadOwned(ctx, id, actor)
	if err != nil {
		return nil, err
	}
	if !uc.policyTable.CanRescheduleAt(pre.DateTime, uc.clock.Now()) {
		return nil, ErrRescheduleWindowClosed
	}
	actorRec, err := uc.resolveActor(ctx, actor)
	if err != nil {
		return nil, err
	}

	record, err := uc.mutate(ctx, pre, true, func(ctx context.Context, tx shared.Tx, appt *appointment.Appointment) (*appointment.HistoryRecord, error) {
		now := uc.clock.Now()
		prev := appt.DateTime()
		if derr := appt.Reschedule(req.NewDateTime, uc.factory.Window, now); derr != nil {
			return nil, derr
		}
		apptID := appt.ID()
		if derr := uc.ensureWindowFree(ctx, tx, appt.Window(), &apptID); derr != nil {
			return nil, derr
		}
		return appointment.NewRescheduledRecord(apptID, prev, appt.DateTime(), req.Reason, actorRec, now)
	})
	if err != nil {
		return uc.rejection(ctx, err, queries.ConflictCandidate{
			DateTime:             req.NewDateTime,
			ServiceID:            pre.ServiceID,
			ExcludeAppointmentID: &id,
		})
	}

	return uc.finish(ctx, id, record, shared.NotificationReschedule)
}

func (uc *appointmentUseCaseImpl) Cancel(ctx context.Context, id uuid.UUID, req CancelAppointmentRequest, actor Actor) (*MutationResult, error) {
	pre, err := uc.loadOwned(ctx, id, actor)
	if err != nil {
		return nil, err
	}
	actorRec, err := uc.resolveActor(ctx, actor)
	if err != nil {
		return nil, err
	}

	record, err := uc.mutate(ctx, pre, true, func(_ context.Context, _ shared.Tx, appt *appointment.Appointment) (*appointment.HistoryRecord, error) {
		now := uc.clock.Now()
		old := appt.Status()
		if derr := appt.Cancel(req.Reason, now); derr != nil {
			return nil, derr
		}
		return appointment.NewStatusChangeRecord(appt.ID(), appointment.ActionCancelled, old, appt.Status(), req.Reason, actorRec, now)
	})
	if err != nil {
		return nil, err
	}

	return uc.finish(ctx, id, record, shared.NotificationCancellation)
}

func (uc *appointmentUseCaseImpl) Complete(ctx context.Context, id uuid.UUID, actor Actor) (*MutationResult, error) {
	pre, err := uc.loadOwned(ctx, id, actor)
	if err != nil {
		return nil, err
	}
	actorRec, err := uc.resolveActor(ctx, actor)
	if err != nil {
		return nil, err
	}

	record, err := uc.mutate(ctx, pre, true, func(_ context.Context, _ shared.Tx, appt *appointment.Appointment) (*appointment.HistoryRecord, error) {
		now := uc.clock.Now()
		old := appt.Status()
		if derr := appt.Complete(now); derr != nil {
			return nil, derr
		}
		return appointment.NewStatusChangeRecord(appt.ID(), appointment.ActionCompleted, old, appt.Status(), "", actorRec, now)
	})
	if err != nil {
		return nil, err
	}

	return uc.finish(ctx, id, record, "")
}

func (uc *appointmentUseCaseImpl) MarkNoShow(ctx context.Context, id uuid.UUID, actor Actor) (*MutationResult, error) {
	pre, err := uc.loadOwned(ctx, id, actor)
	if err != nil {
		return nil, err
	}
	actorRec, err := uc.resolveActor(ctx, actor)
	if err != nil {
		return nil, err
	}

	record, err := uc.mutate(ctx, pre, true, func(_ context.Context, _ shared.Tx, appt *appointment.Appointment) (*appointment.HistoryRecord, error) {
		now := uc.clock.Now()
		old := appt.Status()
		if derr := appt.MarkNoShow(now); derr != nil {
			return nil, derr
		}
		return appointment.NewStatusChangeRecord(appt.ID(), appointment.ActionNoShow, old, appt.Status(), "", actorRec, now)
	})
	if err != nil {
		return nil, err
	}

	return uc.finish(ctx, id, record, "")
}

func (uc *appointmentUseCaseImpl) UpdateNotes(ctx context.Context, id uuid.UUID, req UpdateNotesRequest, actor Actor) (*MutationResult, error) {
	patch := appointment.NotesPatch{
		Notes:       req.Notes,
		AdminNotes:  req.AdminNotes,
		ClientNotes: req.ClientNotes,
	}
	if patch.IsEmpty() {
		return nil, ErrEmptyNotesPatch
	}
	if !actor.isAdmin() && (req.Notes != nil || req.AdminNotes != nil) {
		return nil, ErrNotesForbidden
	}

	pre, err := uc.loadOwned(ctx, id, actor)
	if err != nil {
		return nil, err
	}
	actorRec, err := uc.resolveActor(ctx, actor)
	if err != nil {
		return nil, err
	}

	// Notes carry no status transition and patch field-wise, so concurrent
	// writers do not need the revision guard.
	record, err := uc.mutate(ctx, pre, false, func(_ context.Context, _ shared.Tx, appt *appointment.Appointment) (*appointment.HistoryRecord, error) {
		now := uc.clock.Now()
		appt.ApplyNotesPatch(patch, now)
		return appointment.NewNotesUpdatedRecord(appt.ID(), actorRec, now)
	})
	if err != nil {
		return nil, err
	}

	return uc.finish(ctx, id, record, "")
}

func (uc *appointmentUseCaseImpl) loadOwned(ctx context.Context, id uuid.UUID, actor Actor) (*shared.AppointmentSnapshot, error) {
	snap, err := uc.uow.CommandReads().AppointmentByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrAppointmentNotFoundWrite
		}
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	if !actor.isAdmin() && snap.ClientID != actor.ID {
		return nil, ErrAppointmentNotOwned
	}
	return snap, nil
}

func (uc *appointmentUseCaseImpl) resolveActor(ctx context.Context, actor Actor) (appointment.Actor, error) {
	view, err := uc.userStore.FindByID(ctx, actor.ID)
	if err != nil {
		return appointment.Actor{}, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	return appointment.Actor{ID: actor.ID, Name: view.DisplayName}, nil
}

// mutate runs one locked read-modify-write cycle: lock the row, rehydrate the
// entity, apply fn, compare against the pre-read revision, then persist the
// entity and its audit record in the same transaction.
func (uc *appointmentUseCaseImpl) mutate(
	ctx context.Context,
	pre *shared.AppointmentSnapshot,
	guardRevision bool,
	fn func(ctx context.Context, tx shared.Tx, appt *appointment.Appointment) (*appointment.HistoryRecord, error),
) (*appointment.HistoryRecord, error) {
	var record *appointment.HistoryRecord
	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		snap, derr := tx.Appointments().FindByIDForUpdate(ctx, tx.DB(), pre.ID)
		if derr != nil {
			if infra.IsKind(derr, infra.KindNotFound) {
				return ErrAppointmentNotFoundWrite
			}
			return errs.Mark(derr, ErrDatabaseOperationFailed)
		}

		appt, derr := appointmentFromSnapshot(snap)
		if derr != nil {
			return derr
		}

		rec, derr := fn(ctx, tx, appt)
		if derr != nil {
			return derr
		}

		// fn validated the transition against the current row, so a loser
		// whose appointment already reached a terminal status got the
		// transition error above. This catches the remaining case: the row
		// changed underneath but the requested transition is still legal.
		if guardRevision && !snap.UpdatedAt.Equal(pre.UpdatedAt) {
			return ErrConcurrentUpdate
		}

		if derr = tx.Appointments().Update(ctx, tx.DB(), appt); derr != nil {
			if infra.IsKind(derr, infra.KindConflict) {
				return ErrSlotConflict
			}
			return errs.Mark(derr, ErrDatabaseOperationFailed)
		}
		if _, derr = tx.History().Create(ctx, tx.DB(), rec); derr != nil {
			return errs.Mark(derr, ErrDatabaseOperationFailed)
		}
		record = rec
		return nil
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}

// ensureWindowFree re-runs conflict detection against current data while the
// transaction holds its locks. The exclusion constraint on the table backs
// this up for writes that race between the check and the insert.
func (uc *appointmentUseCaseImpl) ensureWindowFree(ctx context.Context, tx shared.Tx, window schedule.Interval, excludeID *uuid.UUID) error {
	blockedRows, err := tx.Reads().BlockedIntervalsWithin(ctx, window.Start(), window.End())
	if err != nil {
		return errs.Mark(err, ErrDatabaseOperationFailed)
	}
	blocked := make([]schedule.Interval, 0, len(blockedRows))
	for _, row := range blockedRows {
		iv, ierr := schedule.NewInterval(row.StartTime, row.EndTime)
		if ierr != nil {
			continue
		}
		blocked = append(blocked, iv)
	}
	if schedule.ClassifyWindow(uc.rules.Hours, window, blocked).HasConflict() {
		return ErrSlotConflict
	}

	overlapping, err := tx.Reads().CountActiveOverlapping(ctx, window.Start(), window.End(), excludeID)
	if err != nil {
		return errs.Mark(err, ErrDatabaseOperationFailed)
	}
	if overlapping > 0 {
		return ErrSlotConflict
	}
	return nil
}

// rejection upgrades a slot conflict into the full report, computed outside
// the failed transaction. Anything else passes through untouched.
func (uc *appointmentUseCaseImpl) rejection(ctx context.Context, err error, candidate queries.ConflictCandidate) (*MutationResult, error) {
	if !errors.Is(err, ErrSlotConflict) {
		return nil, err
	}
	report, cerr := uc.conflicts.Check(ctx, candidate)
	if cerr != nil {
		slog.Warn("failed to build conflict report", "service_id", candidate.ServiceID, "error", cerr)
		return nil, err
	}
	return nil, &SlotConflictError{Result: report}
}

// finish runs read-after-write and then dispatches the notification. The
// mutation is already committed: a failed dispatch is reported in the result,
// never as an error.
func (uc *appointmentUseCaseImpl) finish(ctx context.Context, id uuid.UUID, record *appointment.HistoryRecord, kind shared.NotificationKind) (*MutationResult, error) {
	view, err := uc.apptQueries.GetByIDSystem(ctx, id)
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	result := &MutationResult{
		Appointment: view,
		History:     historyViewFromRecord(record),
	}
	if kind == "" {
		return result, nil
	}

	notification := shared.Notification{
		Kind:          kind,
		AppointmentID: view.ID,
		ClientID:      view.ClientID,
		DateTime:      view.DateTime,
	}
	if nerr := uc.notifier.Send(ctx, notification); nerr != nil {
		slog.Warn("notification dispatch failed",
			"kind", string(kind),
			"appointment_id", view.ID,
			"error", nerr,
		)
		msg := nerr.Error()
		result.NotificationError = &msg
		return result, nil
	}

	result.NotificationSent = true
	if kind == shared.NotificationConfirmation {
		uc.stampConfirmation(ctx, id, result.Appointment)
	}
	return result, nil
}

// stampConfirmation records the dispatch time after a successful send. Best
// effort: on failure confirmation_sent_at stays null, which only means a
// later confirm would dispatch again.
func (uc *appointmentUseCaseImpl) stampConfirmation(ctx context.Context, id uuid.UUID, view *queries.AppointmentView) {
	at := uc.clock.Now()
	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.Appointments().StampConfirmationSent(ctx, tx.DB(), id, at)
	})
	if err != nil {
		slog.Warn("failed to stamp confirmation dispatch", "appointment_id", id, "error", err)
		return
	}
	view.ConfirmationSentAt = &at
}

func appointmentFromSnapshot(snap *shared.AppointmentSnapshot) (*appointment.Appointment, error) {
	status, err := appointment.NewStatus(snap.Status)
	if err != nil {
		return nil, err
	}
	return appointment.ReconstructAppointment(
		snap.ID, snap.ServiceID, snap.ClientID,
		snap.DateTime, snap.DurationMinutes, status,
		snap.Notes, snap.AdminNotes, snap.ClientNotes, snap.CancellationReason,
		snap.ConfirmationSentAt, snap.ReminderSentAt,
		snap.CreatedAt, snap.UpdatedAt,
	), nil
}

func historyViewFromRecord(rec *appointment.HistoryRecord) *queries.HistoryView {
	view := &queries.HistoryView{
		ID:            rec.ID(),
		AppointmentID: rec.AppointmentID(),
		Action:        rec.Action().String(),
		OldDateTime:   rec.OldDateTime(),
		NewDateTime:   rec.NewDateTime(),
		Reason:        rec.Reason(),
		ActorID:       rec.ActorID(),
		ActorName:     rec.ActorName(),
		CreatedAt:     rec.CreatedAt(),
	}
	if s := rec.OldStatus(); s != nil {
		str := s.String()
		view.OldStatus = &str
	}
	if s := rec.NewStatus(); s != nil {
		str := s.String()
		view.NewStatus = &str
	}
	return view
}
