package queries

import (
	"context"
	"time"

	"github.com/google/uuid"

	"counseling-portal/internal/domain/schedule"
	"counseling-portal/internal/infra"
	"counseling-portal/internal/pkg/clock"
)

type AvailabilityQueries interface {
	// ComputeDay returns every candidate slot of the given calendar day for
	// the service, ascending, with booked/blocked slots marked unavailable.
	ComputeDay(ctx context.Context, day time.Time, serviceID uuid.UUID) ([]TimeSlotView, error)
}

// slotLoader assembles the store inputs for one day of slot enumeration.
// Both the availability endpoint and the conflict detector's alternative
// scan build their slots through it, so the two can never disagree.
type slotLoader struct {
	rules        schedule.Rules
	apptStore    AppointmentReadStore
	blockedStore BlockedIntervalReadStore
}

func (l *slotLoader) daySlots(ctx context.Context, day time.Time, durationMinutes int, excludeID *uuid.UUID, earliest time.Time) ([]schedule.TimeSlot, error) {
	loc := l.rules.Hours.Location()
	y, m, d := day.In(loc).Date()
	dayStart := time.Date(y, m, d, 0, 0, 0, 0, loc)
	dayEnd := dayStart.AddDate(0, 0, 1)

	busyRows, err := l.apptStore.FindActiveOverlapping(ctx, dayStart, dayEnd, excludeID)
	if err != nil {
		return nil, err
	}
	busy := make([]schedule.Interval, 0, len(busyRows))
	for _, row := range busyRows {
		iv, err := schedule.NewInterval(row.DateTime, row.EndTime)
		if err != nil {
			continue
		}
		busy = append(busy, iv)
	}

	blockedRows, err := l.blockedStore.FindOverlapping(ctx, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}
	blocked := make([]schedule.Interval, 0, len(blockedRows))
	for _, row := range blockedRows {
		iv, err := schedule.NewInterval(row.StartTime, row.EndTime)
		if err != nil {
			continue
		}
		blocked = append(blocked, iv)
	}

	return schedule.EnumerateSlots(l.rules.Hours, schedule.SlotParams{
		Day:             dayStart,
		DurationMinutes: durationMinutes,
		GranularityMin:  l.rules.GranularityMin,
		EarliestStart:   earliest,
		Busy:            busy,
		Blocked:         blocked,
	}), nil
}

type availabilityQueriesImpl struct {
	loader       *slotLoader
	serviceStore ServiceReadStore
	clock        clock.Clock
}

func NewAvailabilityQueries(rules schedule.Rules, serviceStore ServiceReadStore, apptStore AppointmentReadStore, blockedStore BlockedIntervalReadStore, clk clock.Clock) AvailabilityQueries {
	return &availabilityQueriesImpl{
		loader: &slotLoader{
			rules:        rules,
			apptStore:    apptStore,
			blockedStore: blockedStore,
		},
		serviceStore: serviceStore,
		clock:        clk,
	}
}

func (q *availabilityQueriesImpl) ComputeDay(ctx context.Context, day time.Time, serviceID uuid.UUID) ([]TimeSlotView, error) {
	svc, err := q.serviceStore.FindByID(ctx, serviceID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrServiceNotFound
		}
		return nil, err
	}
	if !svc.Active {
		return nil, ErrServiceNotFound
	}

	earliest := q.loader.rules.EarliestStart(q.clock.Now())
	slots, err := q.loader.daySlots(ctx, day, svc.DurationMinutes, nil, earliest)
	if err != nil {
		return nil, err
	}

	views := make([]TimeSlotView, 0, len(slots))
	for _, s := range slots {
		views = append(views, TimeSlotView{
			DateTime:        s.DateTime,
			DurationMinutes: s.DurationMinutes,
			Available:       s.Available,
			Reason:          s.Reason,
		})
	}
	return views, nil
}
