package components

import (
	"counseling-portal/internal/handler"
	"counseling-portal/internal/handler/api"
	"counseling-portal/internal/handler/middleware"
	"counseling-portal/internal/pkg/config"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		NewCookieConfig,
		api.NewAuthHandler,
		api.NewAppointmentHandler,
		api.NewServiceHandler,
		api.NewAvailabilityHandler,
		api.NewConflictHandler,
		api.NewPolicyHandler,
		api.NewBlockedIntervalHandler,
		NewHandlers,
		middleware.NewAuthMiddleware,
	),
	fx.Invoke(handler.NewRouter),
)

func NewCookieConfig(cfg config.Config) config.CookieConfig {
	return cfg.Cookie
}

func NewHandlers(
	auth *api.AuthHandler,
	appointment *api.AppointmentHandler,
	service *api.ServiceHandler,
	availability *api.AvailabilityHandler,
	conflict *api.ConflictHandler,
	policy *api.PolicyHandler,
	blockedInterval *api.BlockedIntervalHandler,
) handler.Handlers {
	return handler.Handlers{
		Auth:            auth,
		Appointment:     appointment,
		Service:         service,
		Availability:    availability,
		Conflict:        conflict,
		Policy:          policy,
		BlockedInterval: blockedInterval,
	}
}
