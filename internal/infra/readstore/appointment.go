package readstore

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"counseling-portal/internal/infra"
	"counseling-portal/internal/infra/db"
	"counseling-portal/internal/pkg/pgconv"
	"counseling-portal/internal/usecase/queries"
)

const appointmentViewColumns = `
	a.id, a.service_id, s.title, a.client_id, u.display_name,
	a.date_time, a.end_time, a.duration_minutes, a.status, s.price_cents,
	a.notes, a.admin_notes, a.client_notes, a.cancellation_reason,
	a.confirmation_sent_at, a.reminder_sent_at, a.created_at, a.updated_at`

const appointmentViewFrom = `
	FROM appointments a
	JOIN services s ON s.id = a.service_id
	JOIN users u ON u.id = a.client_id`

type AppointmentReadStore struct {
	db db.DBTX
}

func NewAppointmentReadStore(dbtx db.DBTX) *AppointmentReadStore {
	return &AppointmentReadStore{db: dbtx}
}

func (r *AppointmentReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.AppointmentView, error) {
	query := `SELECT` + appointmentViewColumns + appointmentViewFrom + `
	WHERE a.id = $1`

	view, err := scanAppointmentView(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("appointment not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find appointment by ID", err)
	}
	return view, nil
}

// FindActiveOverlapping returns pending or confirmed appointments whose
// window intersects [from, to). The predicate matches the overlap count the
// write side uses, so detector and guard can never disagree on what
// "overlapping" means.
func (r *AppointmentReadStore) FindActiveOverlapping(ctx context.Context, from, to time.Time, excludeID *uuid.UUID) ([]*queries.ActiveAppointmentWindow, error) {
	const query = `
		SELECT a.id, a.date_time, a.end_time, a.duration_minutes, a.status, s.title, u.display_name
		FROM appointments a
		JOIN services s ON s.id = a.service_id
		JOIN users u ON u.id = a.client_id
		WHERE a.status IN ('pending', 'confirmed')
		  AND a.date_time < $2
		  AND a.end_time > $1
		  AND ($3::uuid IS NULL OR a.id <> $3)
		ORDER BY a.date_time, a.id`

	rows, err := r.db.Query(ctx, query, from, to, pgconv.UUIDPtrToPgtype(excludeID))
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find overlapping appointments", err)
	}
	defer rows.Close()

	var views []*queries.ActiveAppointmentWindow
	for rows.Next() {
		var v queries.ActiveAppointmentWindow
		if serr := rows.Scan(&v.ID, &v.DateTime, &v.EndTime, &v.DurationMinutes, &v.Status, &v.ServiceTitle, &v.ClientName); serr != nil {
			return nil, infra.WrapRepoErr("failed to scan overlapping appointment", serr)
		}
		views = append(views, &v)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read overlapping appointments", err)
	}
	return views, nil
}

func (r *AppointmentReadStore) FindFirstPage(ctx context.Context, filter queries.AppointmentListFilter, limit int32) ([]*queries.AppointmentListItem, error) {
	where, args := appointmentListWhere(filter, nil, nil)
	query := fmt.Sprintf(`
		SELECT a.id, a.service_id, s.title, a.client_id, u.display_name, a.date_time, a.end_time, a.status, a.created_at
		%s
		%s
		ORDER BY a.date_time, a.id
		LIMIT $%d`, appointmentViewFrom, where, len(args)+1)
	args = append(args, limit)

	return r.listAppointments(ctx, query, args)
}

func (r *AppointmentReadStore) FindKeyset(ctx context.Context, filter queries.AppointmentListFilter, lastDateTime time.Time, lastID uuid.UUID, limit int32) ([]*queries.AppointmentListItem, error) {
	where, args := appointmentListWhere(filter, &lastDateTime, &lastID)
	query := fmt.Sprintf(`
		SELECT a.id, a.service_id, s.title, a.client_id, u.display_name, a.date_time, a.end_time, a.status, a.created_at
		%s
		%s
		ORDER BY a.date_time, a.id
		LIMIT $%d`, appointmentViewFrom, where, len(args)+1)
	args = append(args, limit)

	return r.listAppointments(ctx, query, args)
}

func (r *AppointmentReadStore) listAppointments(ctx context.Context, query string, args []any) ([]*queries.AppointmentListItem, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list appointments", err)
	}
	defer rows.Close()

	var items []*queries.AppointmentListItem
	for rows.Next() {
		var item queries.AppointmentListItem
		if serr := rows.Scan(
			&item.ID, &item.ServiceID, &item.ServiceTitle,
			&item.ClientID, &item.ClientName,
			&item.DateTime, &item.EndTime, &item.Status, &item.CreatedAt,
		); serr != nil {
			return nil, infra.WrapRepoErr("failed to scan appointment row", serr)
		}
		items = append(items, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read appointment rows", err)
	}
	return items, nil
}

// appointmentListWhere builds the WHERE clause for the list filters plus the
// optional keyset anchor. Every condition binds through placeholders.
func appointmentListWhere(filter queries.AppointmentListFilter, lastDateTime *time.Time, lastID *uuid.UUID) (string, []any) {
	var conds []string
	var args []any

	add := func(cond string, value any) {
		args = append(args, value)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if filter.ClientID != nil {
		add("a.client_id = $%d", *filter.ClientID)
	}
	if filter.Status != nil {
		add("a.status = $%d", *filter.Status)
	}
	if filter.From != nil {
		add("a.date_time >= $%d", *filter.From)
	}
	if filter.To != nil {
		add("a.date_time < $%d", *filter.To)
	}
	if lastDateTime != nil && lastID != nil {
		args = append(args, *lastDateTime, *lastID)
		conds = append(conds, fmt.Sprintf("(a.date_time, a.id) > ($%d, $%d)", len(args)-1, len(args)))
	}

	if len(conds) == 0 {
		return "", args
	}
	return "WHERE " + strings.Join(conds, " AND "), args
}

func scanAppointmentView(row pgx.Row) (*queries.AppointmentView, error) {
	var view queries.AppointmentView
	err := row.Scan(
		&view.ID, &view.ServiceID, &view.ServiceTitle,
		&view.ClientID, &view.ClientName,
		&view.DateTime, &view.EndTime, &view.DurationMinutes, &view.Status, &view.PriceCents,
		&view.Notes, &view.AdminNotes, &view.ClientNotes, &view.CancellationReason,
		&view.ConfirmationSentAt, &view.ReminderSentAt, &view.CreatedAt, &view.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &view, nil
}
