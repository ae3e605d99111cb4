package request

import (
	"time"

	"github.com/google/uuid"
)

type CheckConflictRequest struct {
	DateTime  time.Time `json:"date_time" binding:"required"`
	ServiceID uuid.UUID `json:"service_id" binding:"required"`
	// ExcludeAppointmentID removes one appointment from consideration so a
	// reschedule probe does not collide with the slot it is vacating.
	ExcludeAppointmentID *uuid.UUID `json:"exclude_appointment_id,omitempty"`
}
