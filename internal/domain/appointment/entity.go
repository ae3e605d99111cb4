package appointment

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"counseling-portal/internal/domain/schedule"

	"github.com/google/uuid"
)

var (
	ErrInvalidStatus     = errors.New("invalid appointment status")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrInvalidDuration   = errors.New("appointment duration must be positive")
	ErrTooSoon           = errors.New("appointment is below the minimum advance notice")
	ErrTooFarAhead       = errors.New("appointment is beyond the maximum booking horizon")
	ErrEmptyCancelReason = errors.New("cancellation reason cannot be empty")
)

// TransitionError reports a rejected status change together with the status
// the appointment currently holds.
type TransitionError struct {
	From Status
	To   Status
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot transition appointment from %s to %s", e.From, e.To)
}

func (e *TransitionError) Is(target error) bool {
	return target == ErrInvalidTransition
}

// BookingWindow bounds how far ahead an appointment may be placed.
type BookingWindow struct {
	MinAdvance time.Duration
	MaxAdvance time.Duration
}

func (w BookingWindow) Validate(dateTime, now time.Time) error {
	if dateTime.Before(now.Add(w.MinAdvance)) {
		return ErrTooSoon
	}
	if w.MaxAdvance > 0 && dateTime.After(now.Add(w.MaxAdvance)) {
		return ErrTooFarAhead
	}
	return nil
}

type Appointment struct {
	id                 uuid.UUID
	serviceID          uuid.UUID
	clientID           uuid.UUID
	dateTime           time.Time
	durationMin        int
	status             Status
	notes              *string
	adminNotes         *string
	clientNotes        *string
	cancellationReason *string
	confirmationSentAt *time.Time
	reminderSentAt     *time.Time
	createdAt          time.Time
	updatedAt          time.Time
}

func NewAppointment(serviceID, clientID uuid.UUID, dateTime time.Time, durationMin int, clientNotes *string) (*Appointment, error) {
	if durationMin <= 0 {
		return nil, ErrInvalidDuration
	}
	return &Appointment{
		id:          uuid.New(),
		serviceID:   serviceID,
		clientID:    clientID,
		dateTime:    dateTime.UTC(),
		durationMin: durationMin,
		status:      StatusPending,
		clientNotes: clientNotes,
	}, nil
}

func ReconstructAppointment(
	id, serviceID, clientID uuid.UUID,
	dateTime time.Time,
	durationMin int,
	status Status,
	notes, adminNotes, clientNotes, cancellationReason *string,
	confirmationSentAt, reminderSentAt *time.Time,
	createdAt, updatedAt time.Time,
) *Appointment {
	return &Appointment{
		id:                 id,
		serviceID:          serviceID,
		clientID:           clientID,
		dateTime:           dateTime,
		durationMin:        durationMin,
		status:             status,
		notes:              notes,
		adminNotes:         adminNotes,
		clientNotes:        clientNotes,
		cancellationReason: cancellationReason,
		confirmationSentAt: confirmationSentAt,
		reminderSentAt:     reminderSentAt,
		createdAt:          createdAt,
		updatedAt:          updatedAt,
	}
}

func (a *Appointment) ID() uuid.UUID                  { return a.id }
func (a *Appointment) ServiceID() uuid.UUID           { return a.serviceID }
func (a *Appointment) ClientID() uuid.UUID            { return a.clientID }
func (a *Appointment) DateTime() time.Time            { return a.dateTime }
func (a *Appointment) DurationMinutes() int           { return a.durationMin }
func (a *Appointment) Status() Status                 { return a.status }
func (a *Appointment) Notes() *string                 { return a.notes }
func (a *Appointment) AdminNotes() *string            { return a.adminNotes }
func (a *Appointment) ClientNotes() *string           { return a.clientNotes }
func (a *Appointment) CancellationReason() *string    { return a.cancellationReason }
func (a *Appointment) ConfirmationSentAt() *time.Time { return a.confirmationSentAt }
func (a *Appointment) ReminderSentAt() *time.Time     { return a.reminderSentAt }
func (a *Appointment) CreatedAt() time.Time           { return a.createdAt }
func (a *Appointment) UpdatedAt() time.Time           { return a.updatedAt }

func (a *Appointment) EndTime() time.Time {
	return a.dateTime.Add(time.Duration(a.durationMin) * time.Minute)
}

// Window is the calendar interval the appointment occupies.
func (a *Appointment) Window() schedule.Interval {
	iv, _ := schedule.NewInterval(a.dateTime, a.EndTime())
	return iv
}

func (a *Appointment) IsActive() bool {
	return a.status == StatusPending || a.status == StatusConfirmed
}

func (a *Appointment) transitionTo(next Status, now time.Time) error {
	if !a.status.CanTransitionTo(next) {
		return &TransitionError{From: a.status, To: next}
	}
	a.status = next
	a.updatedAt = now
	return nil
}

func (a *Appointment) Confirm(now time.Time) error {
	return a.transitionTo(StatusConfirmed, now)
}

func (a *Appointment) Cancel(reason string, now time.Time) error {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return ErrEmptyCancelReason
	}
	if err := a.transitionTo(StatusCancelled, now); err != nil {
		return err
	}
	a.cancellationReason = &reason
	return nil
}

func (a *Appointment) Complete(now time.Time) error {
	return a.transitionTo(StatusCompleted, now)
}

func (a *Appointment) MarkNoShow(now time.Time) error {
	return a.transitionTo(StatusNoShow, now)
}

// Reschedule moves the appointment and resets it to pending: the new time
// needs re-confirmation. Legal only from pending or confirmed.
func (a *Appointment) Reschedule(newDateTime time.Time, window BookingWindow, now time.Time) error {
	if !a.status.CanReschedule() {
		return &TransitionError{From: a.status, To: StatusPending}
	}
	if err := window.Validate(newDateTime, now); err != nil {
		return err
	}
	a.dateTime = newDateTime.UTC()
	a.status = StatusPending
	a.confirmationSentAt = nil
	a.reminderSentAt = nil
	a.updatedAt = now
	return nil
}

// NotesPatch updates only the fields that are set. Notes carry no status
// transition, so they may change in any status; admins routinely add
// session notes after completion.
type NotesPatch struct {
	Notes       *string
	AdminNotes  *string
	ClientNotes *string
}

func (p NotesPatch) IsEmpty() bool {
	return p.Notes == nil && p.AdminNotes == nil && p.ClientNotes == nil
}

func (a *Appointment) ApplyNotesPatch(p NotesPatch, now time.Time) {
	if p.Notes != nil {
		a.notes = p.Notes
	}
	if p.AdminNotes != nil {
		a.adminNotes = p.AdminNotes
	}
	if p.ClientNotes != nil {
		a.clientNotes = p.ClientNotes
	}
	a.updatedAt = now
}
