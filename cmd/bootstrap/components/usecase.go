package components

import (
	"counseling-portal/internal/pkg/clock"
	"counseling-portal/internal/usecase"
	"counseling-portal/internal/usecase/commands"
	"counseling-portal/internal/usecase/queries"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseQueriesModule,
	usecaseValidatorsModule,
	usecaseCommandsModule,
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		commands.NewAuthCommands,
		commands.NewAppointmentUseCase,
		commands.NewBlockedIntervalUseCase,
	),
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewUserQueries,
		queries.NewServiceQueries,
		queries.NewAppointmentQueries,
		queries.NewAvailabilityQueries,
		queries.NewConflictQueries,
		queries.NewPolicyQueries,
		queries.NewBlockedIntervalQueries,
	),
)

var usecaseValidatorsModule = fx.Module("usecase/validators",
	fx.Provide(
		usecase.NewTokenValidator,
	),
)
