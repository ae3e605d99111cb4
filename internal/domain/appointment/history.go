package appointment

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var ErrMissingActor = errors.New("history record requires an actor")

// Actor identifies who performed a scheduling action: an admin, the client
// themselves, or a system process such as the no-show sweep.
type Actor struct {
	ID   uuid.UUID
	Name string
}

var SystemActor = Actor{ID: uuid.Nil, Name: "system"}

// HistoryRecord is one immutable audit entry. Records are only ever created,
// exactly once per mutation, inside the same transaction as the appointment
// write; there is no update or delete path anywhere in the codebase.
type HistoryRecord struct {
	id            uuid.UUID
	appointmentID uuid.UUID
	action        HistoryAction
	oldDateTime   *time.Time
	newDateTime   *time.Time
	oldStatus     *Status
	newStatus     *Status
	reason        *string
	actorID       uuid.UUID
	actorName     string
	createdAt     time.Time
}

func newHistoryRecord(appointmentID uuid.UUID, action HistoryAction, actor Actor, now time.Time) (*HistoryRecord, error) {
	if actor.Name == "" {
		return nil, ErrMissingActor
	}
	return &HistoryRecord{
		id:            uuid.New(),
		appointmentID: appointmentID,
		action:        action,
		actorID:       actor.ID,
		actorName:     actor.Name,
		createdAt:     now,
	}, nil
}

func NewCreatedRecord(appointmentID uuid.UUID, status Status, actor Actor, now time.Time) (*HistoryRecord, error) {
	rec, err := newHistoryRecord(appointmentID, ActionCreated, actor, now)
	if err != nil {
		return nil, err
	}
	rec.newStatus = &status
	return rec, nil
}

func NewRescheduledRecord(appointmentID uuid.UUID, oldDateTime, newDateTime time.Time, reason string, actor Actor, now time.Time) (*HistoryRecord, error) {
	rec, err := newHistoryRecord(appointmentID, ActionRescheduled, actor, now)
	if err != nil {
		return nil, err
	}
	rec.oldDateTime = &oldDateTime
	rec.newDateTime = &newDateTime
	rec.reason = optionalReason(reason)
	return rec, nil
}

// NewStatusChangeRecord covers cancel/complete/no-show and the generic
// status change, pairing the action with the old and new status.
func NewStatusChangeRecord(appointmentID uuid.UUID, action HistoryAction, oldStatus, newStatus Status, reason string, actor Actor, now time.Time) (*HistoryRecord, error) {
	rec, err := newHistoryRecord(appointmentID, action, actor, now)
	if err != nil {
		return nil, err
	}
	rec.oldStatus = &oldStatus
	rec.newStatus = &newStatus
	rec.reason = optionalReason(reason)
	return rec, nil
}

func NewNotesUpdatedRecord(appointmentID uuid.UUID, actor Actor, now time.Time) (*HistoryRecord, error) {
	return newHistoryRecord(appointmentID, ActionNotesUpdated, actor, now)
}

func (h *HistoryRecord) ID() uuid.UUID            { return h.id }
func (h *HistoryRecord) AppointmentID() uuid.UUID { return h.appointmentID }
func (h *HistoryRecord) Action() HistoryAction    { return h.action }
func (h *HistoryRecord) OldDateTime() *time.Time  { return h.oldDateTime }
func (h *HistoryRecord) NewDateTime() *time.Time  { return h.newDateTime }
func (h *HistoryRecord) OldStatus() *Status       { return h.oldStatus }
func (h *HistoryRecord) NewStatus() *Status       { return h.newStatus }
func (h *HistoryRecord) Reason() *string          { return h.reason }
func (h *HistoryRecord) ActorID() uuid.UUID       { return h.actorID }
func (h *HistoryRecord) ActorName() string        { return h.actorName }
func (h *HistoryRecord) CreatedAt() time.Time     { return h.createdAt }

func optionalReason(reason string) *string {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil
	}
	return &reason
}
