package queries

import (
	"context"
	"time"

	"github.com/google/uuid"

	"counseling-portal/internal/infra"
	"counseling-portal/internal/pkg/errs"
)

var (
	ErrAppointmentNotFound = errs.New("appointment not found")
	ErrAppointmentAccess   = errs.New("appointment access denied")
)

type AppointmentListFilter struct {
	From     *time.Time
	To       *time.Time
	ClientID *uuid.UUID
	Status   *string
}

type AppointmentQueries interface {
	GetByID(ctx context.Context, actorID uuid.UUID, actorRole string, id uuid.UUID) (*AppointmentView, error)
	// GetByIDSystem skips access checks; for read-after-write inside commands.
	GetByIDSystem(ctx context.Context, id uuid.UUID) (*AppointmentView, error)
	List(ctx context.Context, actorID uuid.UUID, actorRole string, filter AppointmentListFilter, cursor *Cursor, limit int) ([]*AppointmentListItem, *Cursor, error)
	GetHistory(ctx context.Context, actorID uuid.UUID, actorRole string, appointmentID uuid.UUID) ([]*HistoryView, error)
}

type AppointmentReadStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*AppointmentView, error)
	// FindActiveOverlapping returns pending/confirmed appointments whose
	// [date_time, end_time) window intersects [from, to).
	FindActiveOverlapping(ctx context.Context, from, to time.Time, excludeID *uuid.UUID) ([]*ActiveAppointmentWindow, error)
	FindFirstPage(ctx context.Context, filter AppointmentListFilter, limit int32) ([]*AppointmentListItem, error)
	FindKeyset(ctx context.Context, filter AppointmentListFilter, lastDateTime time.Time, lastID uuid.UUID, limit int32) ([]*AppointmentListItem, error)
}

type HistoryReadStore interface {
	// ListByAppointment returns records newest first, id as tiebreak, so
	// repeated reads always see the same order.
	ListByAppointment(ctx context.Context, appointmentID uuid.UUID) ([]*HistoryView, error)
}

type appointmentQueriesImpl struct {
	readStore    AppointmentReadStore
	historyStore HistoryReadStore
}

func NewAppointmentQueries(readStore AppointmentReadStore, historyStore HistoryReadStore) AppointmentQueries {
	return &appointmentQueriesImpl{
		readStore:    readStore,
		historyStore: historyStore,
	}
}

func (q *appointmentQueriesImpl) GetByID(ctx context.Context, actorID uuid.UUID, actorRole string, id uuid.UUID) (*AppointmentView, error) {
	view, err := q.readStore.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrAppointmentNotFound
		}
		return nil, err
	}

	if err := checkAppointmentAccess(actorID, actorRole, view.ClientID); err != nil {
		return nil, err
	}

	return view, nil
}

func (q *appointmentQueriesImpl) GetByIDSystem(ctx context.Context, id uuid.UUID) (*AppointmentView, error) {
	view, err := q.readStore.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrAppointmentNotFound
		}
		return nil, err
	}
	return view, nil
}

func (q *appointmentQueriesImpl) List(ctx context.Context, actorID uuid.UUID, actorRole string, filter AppointmentListFilter, cursor *Cursor, limit int) ([]*AppointmentListItem, *Cursor, error) {
	switch actorRole {
	case RoleAdmin:
	case RoleClient:
		// Clients only ever see their own appointments.
		filter.ClientID = &actorID
	default:
		return nil, nil, ErrAppointmentAccess
	}

	limit = ValidateLimit(limit)
	var rows []*AppointmentListItem
	var err error
	if cursor == nil || cursor.After == "" {
		rows, err = q.readStore.FindFirstPage(ctx, filter, int32(limit+1))
	} else {
		lastDateTime, lastID, derr := DecodeAfterCursor(cursor.After)
		if derr != nil {
			return nil, nil, ErrInvalidCursor
		}
		rows, err = q.readStore.FindKeyset(ctx, filter, lastDateTime, lastID, int32(limit+1))
	}
	if err != nil {
		return nil, nil, err
	}

	var next *Cursor
	if len(rows) > limit {
		last := rows[limit-1]
		next = &Cursor{After: EncodeAfterCursor(last.DateTime, last.ID)}
		rows = rows[:limit]
	}
	return rows, next, nil
}

func (q *appointmentQueriesImpl) GetHistory(ctx context.Context, actorID uuid.UUID, actorRole string, appointmentID uuid.UUID) ([]*HistoryView, error) {
	view, err := q.readStore.FindByID(ctx, appointmentID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrAppointmentNotFound
		}
		return nil, err
	}

	if err := checkAppointmentAccess(actorID, actorRole, view.ClientID); err != nil {
		return nil, err
	}

	return q.historyStore.ListByAppointment(ctx, appointmentID)
}

func checkAppointmentAccess(actorID uuid.UUID, actorRole string, clientID uuid.UUID) error {
	switch actorRole {
	case RoleAdmin:
		return nil
	case RoleClient:
		if clientID != actorID {
			return ErrAppointmentAccess
		}
		return nil
	default:
		return ErrAppointmentAccess
	}
}
