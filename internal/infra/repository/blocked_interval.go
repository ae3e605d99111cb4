package repository

import (
	"context"

	"counseling-portal/internal/domain/schedule"
	"counseling-portal/internal/infra"
	"counseling-portal/internal/infra/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type BlockedIntervalRepository struct{}

func NewBlockedIntervalRepository() *BlockedIntervalRepository {
	return &BlockedIntervalRepository{}
}

func (r *BlockedIntervalRepository) Create(ctx context.Context, tx db.DBTX, blocked *schedule.BlockedInterval) (uuid.UUID, error) {
	const query = `
		INSERT INTO blocked_intervals (id, start_time, end_time, reason, created_by)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`

	var id uuid.UUID
	err := tx.QueryRow(ctx, query,
		blocked.ID(),
		blocked.Interval().Start(), blocked.Interval().End(),
		blocked.Reason(), blocked.CreatedBy(),
	).Scan(&id)
	if err != nil {
		return uuid.Nil, infra.WrapRepoErr("failed to create blocked interval", err)
	}
	return id, nil
}

func (r *BlockedIntervalRepository) Delete(ctx context.Context, tx db.DBTX, id uuid.UUID) error {
	const query = `DELETE FROM blocked_intervals WHERE id = $1`

	tag, err := tx.Exec(ctx, query, id)
	if err != nil {
		return infra.WrapRepoErr("failed to delete blocked interval", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("blocked interval not found", pgx.ErrNoRows, infra.KindNotFound)
	}
	return nil
}
