//go:build unit || e2e

package builder

import (
	"time"

	reqdto "counseling-portal/internal/handler/dto/request"
	"counseling-portal/internal/usecase/queries"

	"github.com/google/uuid"
)

type AppointmentBuilder struct {
	ID              uuid.UUID
	ServiceID       uuid.UUID
	ServiceTitle    string
	ClientID        uuid.UUID
	ClientName      string
	DateTime        time.Time
	DurationMinutes int
	Status          string
	PriceCents      int64
	ClientNotes     *string
}

func NewAppointmentBuilder() *AppointmentBuilder {
	jst, _ := time.LoadLocation("Asia/Tokyo")
	return &AppointmentBuilder{
		ID:              uuid.New(),
		ServiceID:       uuid.New(),
		ServiceTitle:    "個別カウンセリング",
		ClientID:        uuid.New(),
		ClientName:      "Sato Hanako",
		DateTime:        time.Date(2025, 3, 12, 10, 0, 0, 0, jst),
		DurationMinutes: 60,
		Status:          "pending",
		PriceCents:      15000,
	}
}

// Fluent builder methods
func (b *AppointmentBuilder) WithID(id uuid.UUID) *AppointmentBuilder {
	b.ID = id
	return b
}

func (b *AppointmentBuilder) WithServiceID(id uuid.UUID) *AppointmentBuilder {
	b.ServiceID = id
	return b
}

func (b *AppointmentBuilder) WithClientID(id uuid.UUID) *AppointmentBuilder {
	b.ClientID = id
	return b
}

func (b *AppointmentBuilder) WithDateTime(t time.Time) *AppointmentBuilder {
	b.DateTime = t
	return b
}

func (b *AppointmentBuilder) WithStatus(status string) *AppointmentBuilder {
	b.Status = status
	return b
}

func (b *AppointmentBuilder) WithClientNotes(notes string) *AppointmentBuilder {
	b.ClientNotes = &notes
	return b
}

// Build methods
func (b *AppointmentBuilder) BuildBookRequestDTO() reqdto.BookAppointmentRequest {
	return reqdto.BookAppointmentRequest{
		ServiceID:   b.ServiceID,
		DateTime:    b.DateTime,
		ClientNotes: b.ClientNotes,
	}
}

func (b *AppointmentBuilder) BuildRescheduleRequestDTO(newDateTime time.Time, reason string) reqdto.RescheduleAppointmentRequest {
	return reqdto.RescheduleAppointmentRequest{
		NewDateTime: newDateTime,
		Reason:      reason,
	}
}

func (b *AppointmentBuilder) BuildCancelRequestDTO(reason string) reqdto.CancelAppointmentRequest {
	return reqdto.CancelAppointmentRequest{
		Reason: reason,
	}
}

func (b *AppointmentBuilder) BuildView() *queries.AppointmentView {
	return &queries.AppointmentView{
		ID:              b.ID,
		ServiceID:       b.ServiceID,
		ServiceTitle:    b.ServiceTitle,
		ClientID:        b.ClientID,
		ClientName:      b.ClientName,
		DateTime:        b.DateTime,
		EndTime:         b.DateTime.Add(time.Duration(b.DurationMinutes) * time.Minute),
		DurationMinutes: b.DurationMinutes,
		Status:          b.Status,
		PriceCents:      b.PriceCents,
		ClientNotes:     b.ClientNotes,
		CreatedAt:       b.DateTime.Add(-72 * time.Hour),
		UpdatedAt:       b.DateTime.Add(-72 * time.Hour),
	}
}

func (b *AppointmentBuilder) BuildListItem() *queries.AppointmentListItem {
	return &queries.AppointmentListItem{
		ID:           b.ID,
		ServiceID:    b.ServiceID,
		ServiceTitle: b.ServiceTitle,
		ClientID:     b.ClientID,
		ClientName:   b.ClientName,
		DateTime:     b.DateTime,
		EndTime:      b.DateTime.Add(time.Duration(b.DurationMinutes) * time.Minute),
		Status:       b.Status,
		CreatedAt:    b.DateTime.Add(-72 * time.Hour),
	}
}

func (b *AppointmentBuilder) BuildHistoryView(action string) *queries.HistoryView {
	oldStatus := "pending"
	newStatus := b.Status
	return &queries.HistoryView{
		ID:            uuid.New(),
		AppointmentID: b.ID,
		Action:        action,
		OldStatus:     &oldStatus,
		NewStatus:     &newStatus,
		ActorID:       b.ClientID,
		ActorName:     b.ClientName,
		CreatedAt:     b.DateTime.Add(-72 * time.Hour),
	}
}
