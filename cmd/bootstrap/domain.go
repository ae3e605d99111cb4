package bootstrap

import (
	"time"

	"counseling-portal/internal/domain/appointment"
	"counseling-portal/internal/domain/policy"
	"counseling-portal/internal/domain/schedule"
	"counseling-portal/internal/pkg/clock"
	"counseling-portal/internal/pkg/config"

	"go.uber.org/fx"
)

// DomainModule turns configuration into the domain value objects the rest of
// the app consumes: business hours, scheduling rules, the policy tier table
// and the booking factory.
var DomainModule = fx.Module("domain",
	fx.Provide(
		NewScheduleRules,
		NewPolicyTable,
		NewAppointmentFactory,
	),
)

func NewScheduleRules(cfg config.Config) (schedule.Rules, error) {
	hours, err := schedule.NewBusinessHours(cfg.Schedule.TimeZone, cfg.Schedule.BusinessDays, cfg.Schedule.OpenIntervals)
	if err != nil {
		return schedule.Rules{}, err
	}

	return schedule.NewRules(
		hours,
		cfg.Schedule.SlotGranularityMin,
		time.Duration(cfg.Schedule.MinAdvanceHours)*time.Hour,
		time.Duration(cfg.Schedule.MaxAdvanceDays)*24*time.Hour,
		cfg.Schedule.MaxAlternatives,
		cfg.Schedule.AlternativeScanDays,
		time.Duration(cfg.Schedule.ReminderLeadHours)*time.Hour,
	)
}

func NewPolicyTable(cfg config.Config) (policy.Table, error) {
	tiers, err := policy.ParseTierSpecs(cfg.Policy.Tiers)
	if err != nil {
		return policy.Table{}, err
	}
	return policy.NewTable(tiers, cfg.Policy.MinRescheduleHrs)
}

func NewAppointmentFactory(clk clock.Clock, rules schedule.Rules) *appointment.Factory {
	return appointment.NewFactory(clk, appointment.BookingWindow{
		MinAdvance: rules.MinAdvance,
		MaxAdvance: rules.MaxAdvance,
	})
}
