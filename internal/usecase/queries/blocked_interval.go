package queries

import (
	"context"
	"time"
)

type BlockedIntervalQueries interface {
	ListBetween(ctx context.Context, from, to time.Time) ([]*BlockedIntervalView, error)
}

type BlockedIntervalReadStore interface {
	FindOverlapping(ctx context.Context, from, to time.Time) ([]*BlockedIntervalView, error)
}

type blockedIntervalQueriesImpl struct {
	readStore BlockedIntervalReadStore
}

func NewBlockedIntervalQueries(readStore BlockedIntervalReadStore) BlockedIntervalQueries {
	return &blockedIntervalQueriesImpl{readStore: readStore}
}

func (q *blockedIntervalQueriesImpl) ListBetween(ctx context.Context, from, to time.Time) ([]*BlockedIntervalView, error) {
	return q.readStore.FindOverlapping(ctx, from, to)
}
