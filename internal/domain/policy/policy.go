package policy

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

var (
	ErrEmptyTable         = errors.New("policy table requires at least one tier")
	ErrUnorderedTiers     = errors.New("policy tiers must be ordered by descending hour threshold")
	ErrNonMonotonicRefund = errors.New("refund percentage must not increase as notice shrinks")
	ErrNonMonotonicFee    = errors.New("fee percentage must not decrease as notice shrinks")
	ErrInvalidPercent     = errors.New("policy percentage must be between 0 and 100")
	ErrInvalidTierSpec    = errors.New("invalid tier spec, expected minHours:refundPct:feePct:severity")
	ErrInvalidSeverity    = errors.New("invalid severity")
)

type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

func (s Severity) IsValid() bool {
	switch s {
	case SeverityLow, SeverityMedium, SeverityHigh:
		return true
	default:
		return false
	}
}

// Tier maps an amount of advance notice to a refund and a fee percentage.
// MinHoursBefore is inclusive: a tier applies while hoursUntil >= it.
type Tier struct {
	MinHoursBefore int
	RefundPercent  int
	FeePercent     int
	Severity       Severity
}

// Table is the single configuration both calculators consult. Tiers are
// ordered from most to least notice; anything below the last threshold
// (including appointments already in the past) falls into the final tier.
type Table struct {
	tiers              []Tier
	minRescheduleHours int
}

func NewTable(tiers []Tier, minRescheduleHours int) (Table, error) {
	if len(tiers) == 0 {
		return Table{}, ErrEmptyTable
	}
	for i, t := range tiers {
		if t.RefundPercent < 0 || t.RefundPercent > 100 || t.FeePercent < 0 || t.FeePercent > 100 {
			return Table{}, ErrInvalidPercent
		}
		if !t.Severity.IsValid() {
			return Table{}, ErrInvalidSeverity
		}
		if i == 0 {
			continue
		}
		prev := tiers[i-1]
		if t.MinHoursBefore >= prev.MinHoursBefore {
			return Table{}, ErrUnorderedTiers
		}
		if t.RefundPercent > prev.RefundPercent {
			return Table{}, ErrNonMonotonicRefund
		}
		if t.FeePercent < prev.FeePercent {
			return Table{}, ErrNonMonotonicFee
		}
	}
	if minRescheduleHours < 0 {
		minRescheduleHours = 0
	}
	return Table{tiers: tiers, minRescheduleHours: minRescheduleHours}, nil
}

// ParseTierSpecs reads the "minHours:refundPct:feePct:severity" entries the
// configuration carries.
func ParseTierSpecs(specs []string) ([]Tier, error) {
	tiers := make([]Tier, 0, len(specs))
	for _, spec := range specs {
		parts := strings.Split(strings.TrimSpace(spec), ":")
		if len(parts) != 4 {
			return nil, ErrInvalidTierSpec
		}
		minHours, err := strconv.Atoi(parts[0])
		if err != nil {
			return nil, ErrInvalidTierSpec
		}
		refund, err := strconv.Atoi(parts[1])
		if err != nil {
			return nil, ErrInvalidTierSpec
		}
		fee, err := strconv.Atoi(parts[2])
		if err != nil {
			return nil, ErrInvalidTierSpec
		}
		severity := Severity(parts[3])
		if !severity.IsValid() {
			return nil, ErrInvalidSeverity
		}
		tiers = append(tiers, Tier{
			MinHoursBefore: minHours,
			RefundPercent:  refund,
			FeePercent:     fee,
			Severity:       severity,
		})
	}
	return tiers, nil
}

func (t Table) Tiers() []Tier {
	out := make([]Tier, len(t.tiers))
	copy(out, t.tiers)
	return out
}

// HoursUntil rounds the remaining time up to whole hours, so 30h01m counts
// as 31 hours of notice. Past appointments yield zero or negative values.
func HoursUntil(dateTime, now time.Time) int {
	return int(math.Ceil(dateTime.Sub(now).Hours()))
}

func (t Table) tierFor(hoursUntil int) Tier {
	for _, tier := range t.tiers {
		if hoursUntil >= tier.MinHoursBefore {
			return tier
		}
	}
	return t.tiers[len(t.tiers)-1]
}

type CancellationAssessment struct {
	HoursUntil    int
	RefundCents   int64
	RefundPercent int
	Message       string
	Severity      Severity
}

type RescheduleAssessment struct {
	HoursUntil    int
	FeeCents      int64
	FeePercent    int
	Message       string
	Severity      Severity
	CanReschedule bool
}

// AssessCancellation computes the refund due if the appointment were
// cancelled now. Pure: it never touches the store.
func (t Table) AssessCancellation(dateTime time.Time, priceCents int64, now time.Time) CancellationAssessment {
	hours := HoursUntil(dateTime, now)
	tier := t.tierFor(hours)
	refund := percentOf(priceCents, tier.RefundPercent)

	var msg string
	switch {
	case hours <= 0:
		msg = "This appointment time has passed; no refund applies."
	case tier.RefundPercent == 100:
		msg = "Cancelling now qualifies for a full refund."
	case tier.RefundPercent == 0:
		msg = "Cancelling this close to the appointment is non-refundable."
	default:
		msg = fmt.Sprintf("Cancelling now refunds %d%% of the service price.", tier.RefundPercent)
	}

	return CancellationAssessment{
		HoursUntil:    hours,
		RefundCents:   refund,
		RefundPercent: tier.RefundPercent,
		Message:       msg,
		Severity:      tier.Severity,
	}
}

// CanRescheduleAt reports whether the appointment may still be moved. False
// once the time has passed or the remaining notice is under the absolute
// floor. The floor compares real remaining time, not the rounded hour count,
// so 30 minutes out is inside a 1 hour floor.
func (t Table) CanRescheduleAt(dateTime, now time.Time) bool {
	remaining := dateTime.Sub(now)
	return remaining > 0 && remaining >= time.Duration(t.minRescheduleHours)*time.Hour
}

// AssessReschedule computes the fee charged to move the appointment.
func (t Table) AssessReschedule(dateTime time.Time, priceCents int64, now time.Time) RescheduleAssessment {
	hours := HoursUntil(dateTime, now)
	tier := t.tierFor(hours)
	fee := percentOf(priceCents, tier.FeePercent)
	remaining := dateTime.Sub(now)
	can := t.CanRescheduleAt(dateTime, now)

	var msg string
	switch {
	case remaining <= 0:
		msg = "This appointment time has passed and can no longer be rescheduled."
	case !can:
		msg = fmt.Sprintf("Appointments within %d hour(s) can no longer be rescheduled.", t.minRescheduleHours)
	case tier.FeePercent == 0:
		msg = "Rescheduling now is free of charge."
	default:
		msg = fmt.Sprintf("Rescheduling now incurs a fee of %d%% of the service price.", tier.FeePercent)
	}

	return RescheduleAssessment{
		HoursUntil:    hours,
		FeeCents:      fee,
		FeePercent:    tier.FeePercent,
		Message:       msg,
		Severity:      tier.Severity,
		CanReschedule: can,
	}
}

func percentOf(cents int64, pct int) int64 {
	return cents * int64(pct) / 100
}
