package readstore

import (
	"context"

	"github.com/google/uuid"

	"counseling-portal/internal/infra"
	"counseling-portal/internal/infra/db"
	"counseling-portal/internal/usecase/queries"
)

type HistoryReadStore struct {
	db db.DBTX
}

func NewHistoryReadStore(dbtx db.DBTX) *HistoryReadStore {
	return &HistoryReadStore{db: dbtx}
}

// ListByAppointment returns the audit trail newest first, with the id as a
// tiebreak so entries written in the same instant keep a stable order.
func (r *HistoryReadStore) ListByAppointment(ctx context.Context, appointmentID uuid.UUID) ([]*queries.HistoryView, error) {
	const query = `
		SELECT id, appointment_id, action, old_date_time, new_date_time, old_status, new_status, reason, actor_id, actor_name, created_at
		FROM appointment_history
		WHERE appointment_id = $1
		ORDER BY created_at DESC, id DESC`

	rows, err := r.db.Query(ctx, query, appointmentID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list appointment history", err)
	}
	defer rows.Close()

	views := []*queries.HistoryView{}
	for rows.Next() {
		var view queries.HistoryView
		var actorID *uuid.UUID
		if serr := rows.Scan(
			&view.ID, &view.AppointmentID, &view.Action,
			&view.OldDateTime, &view.NewDateTime,
			&view.OldStatus, &view.NewStatus, &view.Reason,
			&actorID, &view.ActorName, &view.CreatedAt,
		); serr != nil {
			return nil, infra.WrapRepoErr("failed to scan history record", serr)
		}
		if actorID != nil {
			view.ActorID = *actorID
		}
		views = append(views, &view)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read appointment history", err)
	}
	return views, nil
}
