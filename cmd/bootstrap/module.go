package bootstrap

import (
	"counseling-portal/cmd/bootstrap/components"

	"go.uber.org/fx"
)

var Module = fx.Options(
	ConfigModule,
	DBModule,
	JWTModule,
	DomainModule,
	components.PersistenceModule,
	components.UseCaseModule,
	components.HandlerModule,
)
