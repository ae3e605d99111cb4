package readstore

import (
	"context"
	"time"

	"counseling-portal/internal/infra"
	"counseling-portal/internal/infra/db"
	"counseling-portal/internal/usecase/queries"
)

type BlockedIntervalReadStore struct {
	db db.DBTX
}

func NewBlockedIntervalReadStore(dbtx db.DBTX) *BlockedIntervalReadStore {
	return &BlockedIntervalReadStore{db: dbtx}
}

// FindOverlapping returns blocks intersecting [from, to), half-open like
// every other interval in the schema.
func (r *BlockedIntervalReadStore) FindOverlapping(ctx context.Context, from, to time.Time) ([]*queries.BlockedIntervalView, error) {
	const query = `
		SELECT id, start_time, end_time, reason, created_by, created_at
		FROM blocked_intervals
		WHERE start_time < $2
		  AND end_time > $1
		ORDER BY start_time, id`

	rows, err := r.db.Query(ctx, query, from, to)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find blocked intervals", err)
	}
	defer rows.Close()

	views := []*queries.BlockedIntervalView{}
	for rows.Next() {
		var view queries.BlockedIntervalView
		if serr := rows.Scan(&view.ID, &view.StartTime, &view.EndTime, &view.Reason, &view.CreatedBy, &view.CreatedAt); serr != nil {
			return nil, infra.WrapRepoErr("failed to scan blocked interval", serr)
		}
		views = append(views, &view)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read blocked intervals", err)
	}
	return views, nil
}
