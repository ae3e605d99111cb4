//go:build unit

package queries

import (
	"context"
	"testing"
	"time"

	"counseling-portal/internal/domain/schedule"
	"counseling-portal/internal/infra"
	"counseling-portal/internal/pkg/clock"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockServiceReadStore struct {
	mock.Mock
}

func (m *MockServiceReadStore) FindByID(ctx context.Context, id uuid.UUID) (*ServiceView, error) {
	args := m.Called(ctx, id)
	if v := args.Get(0); v != nil {
		return v.(*ServiceView), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockServiceReadStore) FindAllActive(ctx context.Context) ([]*ServiceView, error) {
	args := m.Called(ctx)
	if v := args.Get(0); v != nil {
		return v.([]*ServiceView), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockAppointmentReadStore struct {
	mock.Mock
}

func (m *MockAppointmentReadStore) FindByID(ctx context.Context, id uuid.UUID) (*AppointmentView, error) {
	args := m.Called(ctx, id)
	if v := args.Get(0); v != nil {
		return v.(*AppointmentView), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAppointmentReadStore) FindActiveOverlapping(ctx context.Context, from, to time.Time, excludeID *uuid.UUID) ([]*ActiveAppointmentWindow, error) {
	args := m.Called(ctx, from, to, excludeID)
	if v := args.Get(0); v != nil {
		return v.([]*ActiveAppointmentWindow), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAppointmentReadStore) FindFirstPage(ctx context.Context, filter AppointmentListFilter, limit int32) ([]*AppointmentListItem, error) {
	args := m.Called(ctx, filter, limit)
	if v := args.Get(0); v != nil {
		return v.([]*AppointmentListItem), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAppointmentReadStore) FindKeyset(ctx context.Context, filter AppointmentListFilter, lastDateTime time.Time, lastID uuid.UUID, limit int32) ([]*AppointmentListItem, error) {
	args := m.Called(ctx, filter, lastDateTime, lastID, limit)
	if v := args.Get(0); v != nil {
		return v.([]*AppointmentListItem), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockBlockedIntervalReadStore struct {
	mock.Mock
}

func (m *MockBlockedIntervalReadStore) FindOverlapping(ctx context.Context, from, to time.Time) ([]*BlockedIntervalView, error) {
	args := m.Called(ctx, from, to)
	if v := args.Get(0); v != nil {
		return v.([]*BlockedIntervalView), args.Error(1)
	}
	return nil, args.Error(1)
}

func testRules(t *testing.T) schedule.Rules {
	t.Helper()
	hours, err := schedule.NewBusinessHours("Asia/Tokyo", []int{1, 2, 3, 4, 5}, []string{"09:00-12:00", "13:00-18:00"})
	require.NoError(t, err)
	rules, err := schedule.NewRules(hours, 30, 24*time.Hour, 90*24*time.Hour, 6, 5, 24*time.Hour)
	require.NoError(t, err)
	return rules
}

func jst(t *testing.T, year int, month time.Month, day, hour, minute int) time.Time {
	t.Helper()
	loc, err := time.LoadLocation("Asia/Tokyo")
	require.NoError(t, err)
	return time.Date(year, month, day, hour, minute, 0, 0, loc)
}

func activeService(id uuid.UUID) *ServiceView {
	return &ServiceView{
		ID:              id,
		Title:           "Individual Counseling",
		DurationMinutes: 60,
		PriceCents:      15000,
		Active:          true,
	}
}

func notFoundErr() error {
	return infra.WrapRepoErr("not found", pgx.ErrNoRows, infra.KindNotFound)
}

func TestComputeDay(t *testing.T) {
	serviceID := uuid.New()
	// Monday noon; the queried Wednesday sits past the 24h advance notice.
	now := jst(t, 2025, 3, 10, 12, 0)
	day := jst(t, 2025, 3, 12, 0, 0)

	t.Run("marks booked and blocked slots", func(t *testing.T) {
		serviceStore := new(MockServiceReadStore)
		apptStore := new(MockAppointmentReadStore)
		blockedStore := new(MockBlockedIntervalReadStore)

		serviceStore.On("FindByID", mock.Anything, serviceID).Return(activeService(serviceID), nil)
		apptStore.On("FindActiveOverlapping", mock.Anything, mock.Anything, mock.Anything, (*uuid.UUID)(nil)).
			Return([]*ActiveAppointmentWindow{
				{
					ID:              uuid.New(),
					DateTime:        jst(t, 2025, 3, 12, 10, 0),
					EndTime:         jst(t, 2025, 3, 12, 11, 0),
					DurationMinutes: 60,
					Status:          "confirmed",
				},
			}, nil)
		blockedStore.On("FindOverlapping", mock.Anything, mock.Anything, mock.Anything).
			Return([]*BlockedIntervalView{
				{
					ID:        uuid.New(),
					StartTime: jst(t, 2025, 3, 12, 14, 0),
					EndTime:   jst(t, 2025, 3, 12, 15, 0),
					Reason:    "staff meeting",
				},
			}, nil)

		q := NewAvailabilityQueries(testRules(t), serviceStore, apptStore, blockedStore, clock.NewMockClock(now))

		slots, err := q.ComputeDay(context.Background(), day, serviceID)
		require.NoError(t, err)
		require.Len(t, slots, 14)

		// Key by UnixNano: time.Time map keys compare location pointers,
		// and jst loads a different *time.Location than testRules.
		byTime := make(map[int64]TimeSlotView, len(slots))
		for _, s := range slots {
			byTime[s.DateTime.UnixNano()] = s
		}

		booked := byTime[jst(t, 2025, 3, 12, 10, 0).UnixNano()]
		assert.False(t, booked.Available)
		assert.Equal(t, "booked", booked.Reason)

		grazing := byTime[jst(t, 2025, 3, 12, 9, 30).UnixNano()]
		assert.False(t, grazing.Available, "9:30-10:30 overlaps the 10:00 booking")

		blocked := byTime[jst(t, 2025, 3, 12, 14, 0).UnixNano()]
		assert.False(t, blocked.Available)
		assert.Equal(t, "blocked", blocked.Reason)

		free := byTime[jst(t, 2025, 3, 12, 11, 0).UnixNano()]
		assert.True(t, free.Available)
		assert.Empty(t, free.Reason)

		serviceStore.AssertExpectations(t)
		apptStore.AssertExpectations(t)
		blockedStore.AssertExpectations(t)
	})

	t.Run("advance notice hides the near slots", func(t *testing.T) {
		serviceStore := new(MockServiceReadStore)
		apptStore := new(MockAppointmentReadStore)
		blockedStore := new(MockBlockedIntervalReadStore)

		serviceStore.On("FindByID", mock.Anything, serviceID).Return(activeService(serviceID), nil)
		apptStore.On("FindActiveOverlapping", mock.Anything, mock.Anything, mock.Anything, (*uuid.UUID)(nil)).
			Return([]*ActiveAppointmentWindow{}, nil)
		blockedStore.On("FindOverlapping", mock.Anything, mock.Anything, mock.Anything).
			Return([]*BlockedIntervalView{}, nil)

		// Querying tomorrow with now at Tuesday 10:00 leaves only slots
		// from Wednesday 10:00 onward.
		lateNow := jst(t, 2025, 3, 11, 10, 0)
		q := NewAvailabilityQueries(testRules(t), serviceStore, apptStore, blockedStore, clock.NewMockClock(lateNow))

		slots, err := q.ComputeDay(context.Background(), day, serviceID)
		require.NoError(t, err)
		require.NotEmpty(t, slots)
		assert.True(t, slots[0].DateTime.Equal(jst(t, 2025, 3, 12, 10, 0)))
	})

	t.Run("unknown service", func(t *testing.T) {
		serviceStore := new(MockServiceReadStore)
		serviceStore.On("FindByID", mock.Anything, serviceID).Return(nil, notFoundErr())

		q := NewAvailabilityQueries(testRules(t), serviceStore, new(MockAppointmentReadStore), new(MockBlockedIntervalReadStore), clock.NewMockClock(now))

		_, err := q.ComputeDay(context.Background(), day, serviceID)
		require.ErrorIs(t, err, ErrServiceNotFound)
	})

	t.Run("inactive service behaves like missing", func(t *testing.T) {
		svc := activeService(serviceID)
		svc.Active = false

		serviceStore := new(MockServiceReadStore)
		serviceStore.On("FindByID", mock.Anything, serviceID).Return(svc, nil)

		q := NewAvailabilityQueries(testRules(t), serviceStore, new(MockAppointmentReadStore), new(MockBlockedIntervalReadStore), clock.NewMockClock(now))

		_, err := q.ComputeDay(context.Background(), day, serviceID)
		require.ErrorIs(t, err, ErrServiceNotFound)
	})

	t.Run("store failure propagates", func(t *testing.T) {
		serviceStore := new(MockServiceReadStore)
		apptStore := new(MockAppointmentReadStore)

		serviceStore.On("FindByID", mock.Anything, serviceID).Return(activeService(serviceID), nil)
		apptStore.On("FindActiveOverlapping", mock.Anything, mock.Anything, mock.Anything, (*uuid.UUID)(nil)).
			Return(nil, assert.AnError)

		q := NewAvailabilityQueries(testRules(t), serviceStore, apptStore, new(MockBlockedIntervalReadStore), clock.NewMockClock(now))

		_, err := q.ComputeDay(context.Background(), day, serviceID)
		require.Error(t, err)
		assert.ErrorIs(t, err, assert.AnError)
	})
}
