package repository

import (
	"context"

	"counseling-portal/internal/domain/appointment"
	"counseling-portal/internal/infra"
	"counseling-portal/internal/infra/db"

	"github.com/google/uuid"
)

// HistoryRepository appends audit entries. There is intentionally no update
// or delete statement in this file: history rows are immutable.
type HistoryRepository struct{}

func NewHistoryRepository() *HistoryRepository {
	return &HistoryRepository{}
}

func (r *HistoryRepository) Create(ctx context.Context, tx db.DBTX, record *appointment.HistoryRecord) (uuid.UUID, error) {
	const query = `
		INSERT INTO appointment_history (id, appointment_id, action, old_date_time, new_date_time, old_status, new_status, reason, actor_id, actor_name, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id`

	var oldStatus, newStatus *string
	if s := record.OldStatus(); s != nil {
		v := s.String()
		oldStatus = &v
	}
	if s := record.NewStatus(); s != nil {
		v := s.String()
		newStatus = &v
	}

	// System actions carry no user reference; NULL keeps the FK honest.
	var actorID *uuid.UUID
	if record.ActorID() != uuid.Nil {
		v := record.ActorID()
		actorID = &v
	}

	var id uuid.UUID
	err := tx.QueryRow(ctx, query,
		record.ID(), record.AppointmentID(), record.Action().String(),
		record.OldDateTime(), record.NewDateTime(),
		oldStatus, newStatus, record.Reason(),
		actorID, record.ActorName(), record.CreatedAt(),
	).Scan(&id)
	if err != nil {
		return uuid.Nil, infra.WrapRepoErr("failed to create history record", err)
	}
	return id, nil
}
