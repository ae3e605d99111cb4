package request

import (
	"strings"
	"time"

	"counseling-portal/internal/pkg/patch"

	"github.com/google/uuid"
)

type BookAppointmentRequest struct {
	ServiceID uuid.UUID `json:"service_id" binding:"required"`
	// ClientID is honored only for admin callers booking on a client's behalf.
	ClientID    *uuid.UUID `json:"client_id,omitempty"`
	DateTime    time.Time  `json:"date_time" binding:"required"`
	ClientNotes *string    `json:"client_notes,omitempty" binding:"omitempty,max=2000"`
}

func (r BookAppointmentRequest) GetClientNotes() *string {
	if r.ClientNotes == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*r.ClientNotes)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func (r BookAppointmentRequest) OnBehalfOf() uuid.UUID {
	return patch.Coalesce(r.ClientID, uuid.Nil)
}

type RescheduleAppointmentRequest struct {
	NewDateTime time.Time `json:"new_date_time" binding:"required"`
	Reason      string    `json:"reason" binding:"omitempty,max=500"`
}

func (r RescheduleAppointmentRequest) GetReason() string {
	return strings.TrimSpace(r.Reason)
}

type CancelAppointmentRequest struct {
	Reason string `json:"reason" binding:"required,max=500"`
}

func (r CancelAppointmentRequest) GetReason() string {
	return strings.TrimSpace(r.Reason)
}

type UpdateNotesRequest struct {
	Notes       *string `json:"notes" binding:"omitempty,max=2000"`
	AdminNotes  *string `json:"admin_notes" binding:"omitempty,max=2000"`
	ClientNotes *string `json:"client_notes" binding:"omitempty,max=2000"`
}
