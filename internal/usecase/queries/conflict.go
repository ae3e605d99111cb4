package queries

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"counseling-portal/internal/domain/schedule"
	"counseling-portal/internal/infra"
	"counseling-portal/internal/pkg/clock"
	"counseling-portal/internal/pkg/errs"
)

var ErrInvalidCandidate = errs.New("invalid candidate window")

// Alternatives offered in a conflict report never exceed this, whatever the
// configured scan settings say.
const maxSuggestedAlternatives = 6

type ConflictCandidate struct {
	DateTime             time.Time
	ServiceID            uuid.UUID
	ExcludeAppointmentID *uuid.UUID
}

type ConflictQueries interface {
	Check(ctx context.Context, candidate ConflictCandidate) (*ConflictResultView, error)
}

type conflictQueriesImpl struct {
	loader       *slotLoader
	serviceStore ServiceReadStore
	clock        clock.Clock
}

func NewConflictQueries(rules schedule.Rules, serviceStore ServiceReadStore, apptStore AppointmentReadStore, blockedStore BlockedIntervalReadStore, clk clock.Clock) ConflictQueries {
	return &conflictQueriesImpl{
		loader: &slotLoader{
			rules:        rules,
			apptStore:    apptStore,
			blockedStore: blockedStore,
		},
		serviceStore: serviceStore,
		clock:        clk,
	}
}

func (q *conflictQueriesImpl) Check(ctx context.Context, candidate ConflictCandidate) (*ConflictResultView, error) {
	svc, err := q.serviceStore.FindByID(ctx, candidate.ServiceID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrServiceNotFound
		}
		return nil, err
	}
	if !svc.Active {
		return nil, ErrServiceNotFound
	}

	window, err := schedule.IntervalFromDuration(candidate.DateTime, time.Duration(svc.DurationMinutes)*time.Minute)
	if err != nil {
		return nil, ErrInvalidCandidate
	}

	result := &ConflictResultView{
		ConflictType:            string(schedule.ConflictNone),
		ConflictingAppointments: []ActiveAppointmentWindow{},
		SuggestedAlternatives:   []TimeSlotView{},
	}

	blockedRows, err := q.loader.blockedStore.FindOverlapping(ctx, window.Start(), window.End())
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

	kind := schedule.ClassifyWindow(q.loader.rules.Hours, window, blocked)
	if kind == schedule.ConflictNone {
		overlapping, err := q.loader.apptStore.FindActiveOverlapping(ctx, window.Start(), window.End(), candidate.ExcludeAppointmentID)
		if err != nil {
			return nil, err
		}
		if len(overlapping) > 0 {
			kind = schedule.ConflictAppointment
			for _, row := range overlapping {
				result.ConflictingAppointments = append(result.ConflictingAppointments, *row)
			}
		}
	}

	result.ConflictType = string(kind)
	result.HasConflict = kind.HasConflict()
	result.Reason = conflictReason(kind, len(result.ConflictingAppointments))

	if result.HasConflict {
		alternatives, err := q.scanAlternatives(ctx, candidate.DateTime, svc.DurationMinutes, candidate.ExcludeAppointmentID)
		if err != nil {
			return nil, err
		}
		result.SuggestedAlternatives = alternatives
	}

	return result, nil
}

// scanAlternatives walks forward from the candidate time in granularity
// steps, covering the remainder of that day and a bounded run of following
// business days. Every suggestion comes from a fresh per-day store read, so
// nothing is assumed free from a stale scan.
func (q *conflictQueriesImpl) scanAlternatives(ctx context.Context, from time.Time, durationMinutes int, excludeID *uuid.UUID) ([]TimeSlotView, error) {
	alternatives := []TimeSlotView{}

	maxAlt := q.loader.rules.MaxAlternatives
	if maxAlt > maxSuggestedAlternatives {
		maxAlt = maxSuggestedAlternatives
	}
	if maxAlt <= 0 {
		return alternatives, nil
	}

	earliest := q.loader.rules.EarliestStart(q.clock.Now())
	loc := q.loader.rules.Hours.Location()

	// Closed days do not consume the business-day budget, so cap the
	// calendar walk as well.
	businessDays := 0
	maxCalendarDays := (q.loader.rules.AlternativeScanDays + 1) * 7

	for offset := 0; offset <= maxCalendarDays; offset++ {
		day := from.In(loc).AddDate(0, 0, offset)
		if offset > 0 {
			if !q.loader.rules.Hours.IsOpenDay(day) {
				continue
			}
			businessDays++
			if businessDays > q.loader.rules.AlternativeScanDays {
				break
			}
		}

		slots, err := q.loader.daySlots(ctx, day, durationMinutes, excludeID, earliest)
		if err != nil {
			return nil, err
		}
		for _, s := range slots {
			if !s.Available || s.DateTime.Before(from) {
				continue
			}
			alternatives = append(alternatives, TimeSlotView{
				DateTime:        s.DateTime,
				DurationMinutes: s.DurationMinutes,
				Available:       true,
			})
			if len(alternatives) >= maxAlt {
				return alternatives, nil
			}
		}
	}

	return alternatives, nil
}

func conflictReason(kind schedule.ConflictKind, conflicting int) string {
	switch kind {
	case schedule.ConflictOutsideHours:
		return "Requested time is outside business hours"
	case schedule.ConflictBlocked:
		return "Requested time falls within a blocked period"
	case schedule.ConflictAppointment:
		return fmt.Sprintf("Requested time conflicts with %d existing appointment(s)", conflicting)
	default:
		return ""
	}
}
