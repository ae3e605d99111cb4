package response

import (
	"time"

	"counseling-portal/internal/usecase/commands"
	"counseling-portal/internal/usecase/queries"

	"github.com/google/uuid"
)

type AppointmentResponse struct {
	ID                 uuid.UUID  `json:"id"`
	ServiceID          uuid.UUID  `json:"service_id"`
	ServiceTitle       string     `json:"service_title"`
	ClientID           uuid.UUID  `json:"client_id"`
	ClientName         string     `json:"client_name"`
	DateTime           time.Time  `json:"date_time"`
	EndTime            time.Time  `json:"end_time"`
	DurationMinutes    int        `json:"duration_minutes"`
	Status             string     `json:"status"`
	PriceCents         int64      `json:"price_cents"`
	Notes              *string    `json:"notes,omitempty"`
	AdminNotes         *string    `json:"admin_notes,omitempty"`
	ClientNotes        *string    `json:"client_notes,omitempty"`
	CancellationReason *string    `json:"cancellation_reason,omitempty"`
	ConfirmationSentAt *time.Time `json:"confirmation_sent_at,omitempty"`
	ReminderSentAt     *time.Time `json:"reminder_sent_at,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

func FromAppointmentView(v *queries.AppointmentView) *AppointmentResponse {
	return &AppointmentResponse{
		ID:                 v.ID,
		ServiceID:          v.ServiceID,
		ServiceTitle:       v.ServiceTitle,
		ClientID:           v.ClientID,
		ClientName:         v.ClientName,
		DateTime:           v.DateTime,
		EndTime:            v.EndTime,
		DurationMinutes:    v.DurationMinutes,
		Status:             v.Status,
		PriceCents:         v.PriceCents,
		Notes:              v.Notes,
		AdminNotes:         v.AdminNotes,
		ClientNotes:        v.ClientNotes,
		CancellationReason: v.CancellationReason,
		ConfirmationSentAt: v.ConfirmationSentAt,
		ReminderSentAt:     v.ReminderSentAt,
		CreatedAt:          v.CreatedAt,
		UpdatedAt:          v.UpdatedAt,
	}
}

type AppointmentListItemResponse struct {
	ID           uuid.UUID `json:"id"`
	ServiceID    uuid.UUID `json:"service_id"`
	ServiceTitle string    `json:"service_title"`
	ClientID     uuid.UUID `json:"client_id"`
	ClientName   string    `json:"client_name"`
	DateTime     time.Time `json:"date_time"`
	EndTime      time.Time `json:"end_time"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
}

func FromAppointmentList(items []*queries.AppointmentListItem) []*AppointmentListItemResponse {
	res := make([]*AppointmentListItemResponse, len(items))
	for i, it := range items {
		res[i] = &AppointmentListItemResponse{
			ID:           it.ID,
			ServiceID:    it.ServiceID,
			ServiceTitle: it.ServiceTitle,
			ClientID:     it.ClientID,
			ClientName:   it.ClientName,
			DateTime:     it.DateTime,
			EndTime:      it.EndTime,
			Status:       it.Status,
			CreatedAt:    it.CreatedAt,
		}
	}
	return res
}

type HistoryEntryResponse struct {
	ID            uuid.UUID  `json:"id"`
	AppointmentID uuid.UUID  `json:"appointment_id"`
	Action        string     `json:"action"`
	OldDateTime   *time.Time `json:"old_date_time,omitempty"`
	NewDateTime   *time.Time `json:"new_date_time,omitempty"`
	OldStatus     *string    `json:"old_status,omitempty"`
	NewStatus     *string    `json:"new_status,omitempty"`
	Reason        *string    `json:"reason,omitempty"`
	// ActorID is null for records written by the no-show sweep.
	ActorID   *uuid.UUID `json:"actor_id,omitempty"`
	ActorName string     `json:"actor_name"`
	CreatedAt time.Time  `json:"created_at"`
}

func FromHistoryView(v *queries.HistoryView) *HistoryEntryResponse {
	var actorID *uuid.UUID
	if v.ActorID != uuid.Nil {
		id := v.ActorID
		actorID = &id
	}
	return &HistoryEntryResponse{
		ID:            v.ID,
		AppointmentID: v.AppointmentID,
		Action:        v.Action,
		OldDateTime:   v.OldDateTime,
		NewDateTime:   v.NewDateTime,
		OldStatus:     v.OldStatus,
		NewStatus:     v.NewStatus,
		Reason:        v.Reason,
		ActorID:       actorID,
		ActorName:     v.ActorName,
		CreatedAt:     v.CreatedAt,
	}
}

func FromHistoryList(views []*queries.HistoryView) []*HistoryEntryResponse {
	res := make([]*HistoryEntryResponse, len(views))
	for i, v := range views {
		res[i] = FromHistoryView(v)
	}
	return res
}

// AppointmentMutationResponse is the envelope for every state-changing
// appointment endpoint: the fresh appointment, the audit entry written with
// it, and whether the follow-up notification went out.
type AppointmentMutationResponse struct {
	Appointment       *AppointmentResponse  `json:"appointment"`
	History           *HistoryEntryResponse `json:"history"`
	NotificationSent  bool                  `json:"notification_sent"`
	NotificationError *string               `json:"notification_error,omitempty"`
}

func FromMutationResult(r *commands.MutationResult) *AppointmentMutationResponse {
	return &AppointmentMutationResponse{
		Appointment:       FromAppointmentView(r.Appointment),
		History:           FromHistoryView(r.History),
		NotificationSent:  r.NotificationSent,
		NotificationError: r.NotificationError,
	}
}

type SweepResponse struct {
	Candidates int         `json:"candidates"`
	Marked     []uuid.UUID `json:"marked"`
	Skipped    int         `json:"skipped"`
}

func FromSweepResult(r *commands.SweepResult) *SweepResponse {
	return &SweepResponse{
		Candidates: r.Candidates,
		Marked:     r.Marked,
		Skipped:    r.Skipped,
	}
}

type ReminderSweepResponse struct {
	Candidates int         `json:"candidates"`
	Sent       []uuid.UUID `json:"sent"`
	Failed     int         `json:"failed"`
}

func FromReminderResult(r *commands.ReminderResult) *ReminderSweepResponse {
	return &ReminderSweepResponse{
		Candidates: r.Candidates,
		Sent:       r.Sent,
		Failed:     r.Failed,
	}
}
