//go:build unit

package queries

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockHistoryReadStore struct {
	mock.Mock
}

func (m *MockHistoryReadStore) ListByAppointment(ctx context.Context, appointmentID uuid.UUID) ([]*HistoryView, error) {
	args := m.Called(ctx, appointmentID)
	if v := args.Get(0); v != nil {
		return v.([]*HistoryView), args.Error(1)
	}
	return nil, args.Error(1)
}

func appointmentViewFor(clientID uuid.UUID) *AppointmentView {
	return &AppointmentView{
		ID:              uuid.New(),
		ServiceID:       uuid.New(),
		ServiceTitle:    "Individual Counseling",
		ClientID:        clientID,
		ClientName:      "Sato Hanako",
		DateTime:        time.Date(2025, 3, 12, 1, 0, 0, 0, time.UTC),
		EndTime:         time.Date(2025, 3, 12, 2, 0, 0, 0, time.UTC),
		DurationMinutes: 60,
		Status:          "pending",
		PriceCents:      15000,
	}
}

func listItemAt(dt time.Time) *AppointmentListItem {
	return &AppointmentListItem{
		ID:           uuid.New(),
		ServiceID:    uuid.New(),
		ServiceTitle: "Individual Counseling",
		ClientID:     uuid.New(),
		ClientName:   "Sato Hanako",
		DateTime:     dt,
		EndTime:      dt.Add(time.Hour),
		Status:       "pending",
	}
}

func TestAppointmentGetByID(t *testing.T) {
	clientID := uuid.New()
	otherID := uuid.New()
	adminID := uuid.New()

	tests := []struct {
		name      string
		actorID   uuid.UUID
		actorRole string
		wantErr   error
	}{
		{name: "owner reads own appointment", actorID: clientID, actorRole: RoleClient},
		{name: "admin reads any appointment", actorID: adminID, actorRole: RoleAdmin},
		{name: "other client denied", actorID: otherID, actorRole: RoleClient, wantErr: ErrAppointmentAccess},
		{name: "unknown role denied", actorID: adminID, actorRole: "staff", wantErr: ErrAppointmentAccess},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			view := appointmentViewFor(clientID)

			readStore := new(MockAppointmentReadStore)
			readStore.On("FindByID", mock.Anything, view.ID).Return(view, nil)

			q := NewAppointmentQueries(readStore, new(MockHistoryReadStore))

			got, err := q.GetByID(context.Background(), tt.actorID, tt.actorRole, view.ID)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, view.ID, got.ID)
			assert.Equal(t, clientID, got.ClientID)
		})
	}

	t.Run("not found", func(t *testing.T) {
		id := uuid.New()
		readStore := new(MockAppointmentReadStore)
		readStore.On("FindByID", mock.Anything, id).Return(nil, notFoundErr())

		q := NewAppointmentQueries(readStore, new(MockHistoryReadStore))

		_, err := q.GetByID(context.Background(), clientID, RoleClient, id)
		require.ErrorIs(t, err, ErrAppointmentNotFound)
	})

	t.Run("store failure propagates", func(t *testing.T) {
		id := uuid.New()
		readStore := new(MockAppointmentReadStore)
		readStore.On("FindByID", mock.Anything, id).Return(nil, assert.AnError)

		q := NewAppointmentQueries(readStore, new(MockHistoryReadStore))

		_, err := q.GetByID(context.Background(), clientID, RoleClient, id)
		require.ErrorIs(t, err, assert.AnError)
	})
}

func TestAppointmentGetByIDSystem(t *testing.T) {
	t.Run("skips the access check", func(t *testing.T) {
		view := appointmentViewFor(uuid.New())

		readStore := new(MockAppointmentReadStore)
		readStore.On("FindByID", mock.Anything, view.ID).Return(view, nil)

		q := NewAppointmentQueries(readStore, new(MockHistoryReadStore))

		got, err := q.GetByIDSystem(context.Background(), view.ID)
		require.NoError(t, err)
		assert.Equal(t, view.ID, got.ID)
	})

	t.Run("not found", func(t *testing.T) {
		id := uuid.New()
		readStore := new(MockAppointmentReadStore)
		readStore.On("FindByID", mock.Anything, id).Return(nil, notFoundErr())

		q := NewAppointmentQueries(readStore, new(MockHistoryReadStore))

		_, err := q.GetByIDSystem(context.Background(), id)
		require.ErrorIs(t, err, ErrAppointmentNotFound)
	})
}

func TestAppointmentList(t *testing.T) {
	adminID := uuid.New()
	clientID := uuid.New()
	base := time.Date(2025, 3, 12, 1, 0, 0, 0, time.UTC)

	t.Run("first page under the limit has no next cursor", func(t *testing.T) {
		rows := []*AppointmentListItem{listItemAt(base), listItemAt(base.Add(time.Hour))}

		readStore := new(MockAppointmentReadStore)
		readStore.On("FindFirstPage", mock.Anything, mock.Anything, int32(21)).Return(rows, nil)

		q := NewAppointmentQueries(readStore, new(MockHistoryReadStore))

		got, next, err := q.List(context.Background(), adminID, RoleAdmin, AppointmentListFilter{}, nil, 20)
		require.NoError(t, err)
		assert.Len(t, got, 2)
		assert.Nil(t, next)
		readStore.AssertExpectations(t)
	})

	t.Run("full page yields a cursor pointing at the last returned row", func(t *testing.T) {
		rows := make([]*AppointmentListItem, 0, 3)
		for i := 0; i < 3; i++ {
			rows = append(rows, listItemAt(base.Add(time.Duration(i)*time.Hour)))
		}

		readStore := new(MockAppointmentReadStore)
		readStore.On("FindFirstPage", mock.Anything, mock.Anything, int32(3)).Return(rows, nil)

		q := NewAppointmentQueries(readStore, new(MockHistoryReadStore))

		got, next, err := q.List(context.Background(), adminID, RoleAdmin, AppointmentListFilter{}, nil, 2)
		require.NoError(t, err)
		require.Len(t, got, 2)
		require.NotNil(t, next)

		// The cursor must point at the last row the caller received, not the
		// probe row beyond the page.
		wantAfter := EncodeAfterCursor(rows[1].DateTime, rows[1].ID)
		assert.Equal(t, wantAfter, next.After)
	})

	t.Run("cursor page goes through the keyset path", func(t *testing.T) {
		lastDateTime := base
		lastID := uuid.New()
		rows := []*AppointmentListItem{listItemAt(base.Add(time.Hour))}

		readStore := new(MockAppointmentReadStore)
		// The cursor round-trips through unix micros, which drops the
		// location. Match on the instant, not the time.Time value.
		sameInstant := mock.MatchedBy(func(ts time.Time) bool { return ts.Equal(lastDateTime) })
		readStore.On("FindKeyset", mock.Anything, mock.Anything, sameInstant, lastID, int32(21)).Return(rows, nil)

		q := NewAppointmentQueries(readStore, new(MockHistoryReadStore))

		cursor := &Cursor{After: EncodeAfterCursor(lastDateTime, lastID)}
		got, next, err := q.List(context.Background(), adminID, RoleAdmin, AppointmentListFilter{}, cursor, 20)
		require.NoError(t, err)
		assert.Len(t, got, 1)
		assert.Nil(t, next)
		readStore.AssertExpectations(t)
	})

	t.Run("client is pinned to their own rows", func(t *testing.T) {
		readStore := new(MockAppointmentReadStore)
		readStore.On("FindFirstPage", mock.Anything, mock.MatchedBy(func(f AppointmentListFilter) bool {
			return f.ClientID != nil && *f.ClientID == clientID
		}), int32(21)).Return([]*AppointmentListItem{}, nil)

		q := NewAppointmentQueries(readStore, new(MockHistoryReadStore))

		_, _, err := q.List(context.Background(), clientID, RoleClient, AppointmentListFilter{}, nil, 20)
		require.NoError(t, err)
		readStore.AssertExpectations(t)
	})

	t.Run("client filter overrides a smuggled client id", func(t *testing.T) {
		otherID := uuid.New()

		readStore := new(MockAppointmentReadStore)
		readStore.On("FindFirstPage", mock.Anything, mock.MatchedBy(func(f AppointmentListFilter) bool {
			return f.ClientID != nil && *f.ClientID == clientID
		}), int32(21)).Return([]*AppointmentListItem{}, nil)

		q := NewAppointmentQueries(readStore, new(MockHistoryReadStore))

		_, _, err := q.List(context.Background(), clientID, RoleClient, AppointmentListFilter{ClientID: &otherID}, nil, 20)
		require.NoError(t, err)
		readStore.AssertExpectations(t)
	})

	t.Run("unknown role denied", func(t *testing.T) {
		q := NewAppointmentQueries(new(MockAppointmentReadStore), new(MockHistoryReadStore))

		_, _, err := q.List(context.Background(), adminID, "staff", AppointmentListFilter{}, nil, 20)
		require.ErrorIs(t, err, ErrAppointmentAccess)
	})

	t.Run("garbage cursor", func(t *testing.T) {
		q := NewAppointmentQueries(new(MockAppointmentReadStore), new(MockHistoryReadStore))

		_, _, err := q.List(context.Background(), adminID, RoleAdmin, AppointmentListFilter{}, &Cursor{After: "not-base64!"}, 20)
		require.ErrorIs(t, err, ErrInvalidCursor)
	})

	t.Run("limit is clamped", func(t *testing.T) {
		readStore := new(MockAppointmentReadStore)
		readStore.On("FindFirstPage", mock.Anything, mock.Anything, int32(MaxListLimit+1)).Return([]*AppointmentListItem{}, nil)

		q := NewAppointmentQueries(readStore, new(MockHistoryReadStore))

		_, _, err := q.List(context.Background(), adminID, RoleAdmin, AppointmentListFilter{}, nil, 1000)
		require.NoError(t, err)
		readStore.AssertExpectations(t)
	})
}

func TestAppointmentGetHistory(t *testing.T) {
	clientID := uuid.New()

	t.Run("owner reads history newest first", func(t *testing.T) {
		view := appointmentViewFor(clientID)
		records := []*HistoryView{
			{ID: uuid.New(), AppointmentID: view.ID, Action: "status_changed", CreatedAt: time.Now()},
			{ID: uuid.New(), AppointmentID: view.ID, Action: "created", CreatedAt: time.Now().Add(-time.Hour)},
		}

		readStore := new(MockAppointmentReadStore)
		historyStore := new(MockHistoryReadStore)
		readStore.On("FindByID", mock.Anything, view.ID).Return(view, nil)
		historyStore.On("ListByAppointment", mock.Anything, view.ID).Return(records, nil)

		q := NewAppointmentQueries(readStore, historyStore)

		got, err := q.GetHistory(context.Background(), clientID, RoleClient, view.ID)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "status_changed", got[0].Action)
		historyStore.AssertExpectations(t)
	})

	t.Run("other client denied before the history read", func(t *testing.T) {
		view := appointmentViewFor(clientID)

		readStore := new(MockAppointmentReadStore)
		historyStore := new(MockHistoryReadStore)
		readStore.On("FindByID", mock.Anything, view.ID).Return(view, nil)

		q := NewAppointmentQueries(readStore, historyStore)

		_, err := q.GetHistory(context.Background(), uuid.New(), RoleClient, view.ID)
		require.ErrorIs(t, err, ErrAppointmentAccess)
		historyStore.AssertNotCalled(t, "ListByAppointment", mock.Anything, mock.Anything)
	})

	t.Run("missing appointment", func(t *testing.T) {
		id := uuid.New()
		readStore := new(MockAppointmentReadStore)
		readStore.On("FindByID", mock.Anything, id).Return(nil, notFoundErr())

		q := NewAppointmentQueries(readStore, new(MockHistoryReadStore))

		_, err := q.GetHistory(context.Background(), clientID, RoleClient, id)
		require.ErrorIs(t, err, ErrAppointmentNotFound)
	})
}

func TestCursorCodec(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		id := uuid.New()
		at := time.Date(2025, 3, 12, 1, 30, 0, 123456000, time.UTC)

		gotTime, gotID, err := DecodeAfterCursor(EncodeAfterCursor(at, id))
		require.NoError(t, err)
		assert.True(t, gotTime.Equal(at))
		assert.Equal(t, id, gotID)
	})

	t.Run("rejects malformed input", func(t *testing.T) {
		bad := []string{
			"",
			"not-base64!",
			EncodeAfterCursor(time.Now(), uuid.New())[1:],
		}
		for _, cursor := range bad {
			_, _, err := DecodeAfterCursor(cursor)
			assert.Error(t, err, "cursor %q", cursor)
		}
	})
}

func TestValidateLimit(t *testing.T) {
	assert.Equal(t, 20, ValidateLimit(0))
	assert.Equal(t, 20, ValidateLimit(-5))
	assert.Equal(t, 1, ValidateLimit(1))
	assert.Equal(t, MaxListLimit, ValidateLimit(MaxListLimit))
	assert.Equal(t, MaxListLimit, ValidateLimit(MaxListLimit+1))
}
