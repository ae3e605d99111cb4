package components

import (
	"counseling-portal/internal/infra/db"
	"counseling-portal/internal/infra/notification"
	"counseling-portal/internal/infra/readstore"
	"counseling-portal/internal/infra/uow"
	"counseling-portal/internal/usecase/queries"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

// PersistenceModule wires the pgx pool into the unit of work and the
// read stores. Write-side repositories are constructed inside the unit of
// work so they always run on the transaction connection.
var PersistenceModule = fx.Module("persistence",
	fx.Provide(
		NewDBTX,
		uow.NewPostgresUoW,
		notification.NewLogSender,
		fx.Annotate(
			readstore.NewUserReadStore,
			fx.As(new(queries.UserReadStore)),
		),
		fx.Annotate(
			readstore.NewServiceReadStore,
			fx.As(new(queries.ServiceReadStore)),
		),
		fx.Annotate(
			readstore.NewAppointmentReadStore,
			fx.As(new(queries.AppointmentReadStore)),
		),
		fx.Annotate(
			readstore.NewHistoryReadStore,
			fx.As(new(queries.HistoryReadStore)),
		),
		fx.Annotate(
			readstore.NewBlockedIntervalReadStore,
			fx.As(new(queries.BlockedIntervalReadStore)),
		),
	),
)

func NewDBTX(pool *pgxpool.Pool) db.DBTX {
	return pool
}
