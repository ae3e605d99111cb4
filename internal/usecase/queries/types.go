package queries

import (
	"time"

	"github.com/google/uuid"
)

// Actor roles as they appear in JWT claims and access checks.
const (
	RoleClient = "client"
	RoleAdmin  = "admin"
)

// Read models (DTO for read side)
type AppointmentView struct {
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

type AppointmentListItem struct {
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

type HistoryView struct {
	ID            uuid.UUID  `json:"id"`
	AppointmentID uuid.UUID  `json:"appointment_id"`
	Action        string     `json:"action"`
	OldDateTime   *time.Time `json:"old_date_time,omitempty"`
	NewDateTime   *time.Time `json:"new_date_time,omitempty"`
	OldStatus     *string    `json:"old_status,omitempty"`
	NewStatus     *string    `json:"new_status,omitempty"`
	Reason        *string    `json:"reason,omitempty"`
	ActorID       uuid.UUID  `json:"actor_id"`
	ActorName     string     `json:"actor_name"`
	CreatedAt     time.Time  `json:"created_at"`
}

type ServiceView struct {
	ID              uuid.UUID `json:"id"`
	Title           string    `json:"title"`
	Description     *string   `json:"description,omitempty"`
	DurationMinutes int       `json:"duration_minutes"`
	PriceCents      int64     `json:"price_cents"`
	Active          bool      `json:"active"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type AuthorizedUserView struct {
	ID          uuid.UUID `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	Role        string    `json:"role"`
	IsActive    bool      `json:"is_active"`
}

type BlockedIntervalView struct {
	ID        uuid.UUID `json:"id"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	Reason    string    `json:"reason"`
	CreatedBy uuid.UUID `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
}

type TimeSlotView struct {
	DateTime        time.Time `json:"date_time"`
	DurationMinutes int       `json:"duration_minutes"`
	Available       bool      `json:"available"`
	Reason          string    `json:"reason,omitempty"`
}

// ActiveAppointmentWindow is the row shape the conflict detector and the
// availability calculator both read: an active booking plus the display
// fields a conflict report needs.
type ActiveAppointmentWindow struct {
	ID              uuid.UUID `json:"id"`
	DateTime        time.Time `json:"date_time"`
	EndTime         time.Time `json:"end_time"`
	DurationMinutes int       `json:"duration_minutes"`
	Status          string    `json:"status"`
	ServiceTitle    string    `json:"service_title"`
	ClientName      string    `json:"client_name"`
}

type ConflictResultView struct {
	HasConflict             bool                      `json:"has_conflict"`
	ConflictType            string                    `json:"conflict_type"`
	ConflictingAppointments []ActiveAppointmentWindow `json:"conflicting_appointments"`
	Reason                  string                    `json:"reason,omitempty"`
	SuggestedAlternatives   []TimeSlotView            `json:"suggested_alternatives"`
}

type CancellationPolicyView struct {
	HoursUntil       int    `json:"hours_until"`
	RefundCents      int64  `json:"refund_cents"`
	RefundPercentage int    `json:"refund_percentage"`
	Message          string `json:"message"`
	Severity         string `json:"severity"`
}

type ReschedulePolicyView struct {
	HoursUntil    int    `json:"hours_until"`
	FeeCents      int64  `json:"fee_cents"`
	FeePercentage int    `json:"fee_percentage"`
	Message       string `json:"message"`
	Severity      string `json:"severity"`
	CanReschedule bool   `json:"can_reschedule"`
}
