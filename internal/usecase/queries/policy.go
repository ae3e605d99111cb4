package queries

import (
	"context"
	"time"

	"counseling-portal/internal/domain/policy"
	"counseling-portal/internal/pkg/clock"
)

type PolicyQueries interface {
	AssessCancellation(ctx context.Context, dateTime time.Time, priceCents int64) *CancellationPolicyView
	AssessReschedule(ctx context.Context, dateTime time.Time, priceCents int64) *ReschedulePolicyView
}

type policyQueriesImpl struct {
	table policy.Table
	clock clock.Clock
}

func NewPolicyQueries(table policy.Table, clk clock.Clock) PolicyQueries {
	return &policyQueriesImpl{
		table: table,
		clock: clk,
	}
}

func (q *policyQueriesImpl) AssessCancellation(_ context.Context, dateTime time.Time, priceCents int64) *CancellationPolicyView {
	a := q.table.AssessCancellation(dateTime, priceCents, q.clock.Now())
	return &CancellationPolicyView{
		HoursUntil:       a.HoursUntil,
		RefundCents:      a.RefundCents,
		RefundPercentage: a.RefundPercent,
		Message:          a.Message,
		Severity:         string(a.Severity),
	}
}

func (q *policyQueriesImpl) AssessReschedule(_ context.Context, dateTime time.Time, priceCents int64) *ReschedulePolicyView {
	a := q.table.AssessReschedule(dateTime, priceCents, q.clock.Now())
	return &ReschedulePolicyView{
		HoursUntil:    a.HoursUntil,
		FeeCents:      a.FeeCents,
		FeePercentage: a.FeePercent,
		Message:       a.Message,
		Severity:      string(a.Severity),
		CanReschedule: a.CanReschedule,
	}
}
