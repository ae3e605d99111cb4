package readstore

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"counseling-portal/internal/infra"
	"counseling-portal/internal/infra/db"
	"counseling-portal/internal/pkg/pgconv"
	"counseling-portal/internal/usecase/queries"
)

const serviceColumns = `id, title, description, duration_minutes, price_cents, active, created_at, updated_at`

type ServiceReadStore struct {
	db db.DBTX
}

func NewServiceReadStore(dbtx db.DBTX) *ServiceReadStore {
	return &ServiceReadStore{db: dbtx}
}

func (r *ServiceReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.ServiceView, error) {
	const query = `
		SELECT ` + serviceColumns + `
		FROM services
		WHERE id = $1`

	view, err := scanServiceView(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("service not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find service by ID", err)
	}
	return view, nil
}

func (r *ServiceReadStore) FindAllActive(ctx context.Context) ([]*queries.ServiceView, error) {
	const query = `
		SELECT ` + serviceColumns + `
		FROM services
		WHERE active
		ORDER BY title`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list active services", err)
	}
	defer rows.Close()

	var views []*queries.ServiceView
	for rows.Next() {
		view, serr := scanServiceView(rows)
		if serr != nil {
			return nil, infra.WrapRepoErr("failed to scan service", serr)
		}
		views = append(views, view)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read services", err)
	}
	return views, nil
}

func scanServiceView(row pgx.Row) (*queries.ServiceView, error) {
	var view queries.ServiceView
	err := row.Scan(
		&view.ID, &view.Title, &view.Description,
		&view.DurationMinutes, &view.PriceCents, &view.Active,
		&view.CreatedAt, &view.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &view, nil
}
