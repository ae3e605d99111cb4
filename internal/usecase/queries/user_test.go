//go:build unit

package queries

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockUserReadStore struct {
	mock.Mock
}

func (m *MockUserReadStore) FindByID(ctx context.Context, id uuid.UUID) (*AuthorizedUserView, error) {
	args := m.Called(ctx, id)
	if v := args.Get(0); v != nil {
		return v.(*AuthorizedUserView), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserReadStore) FindByEmail(ctx context.Context, email string) (*AuthorizedUserView, string, error) {
	args := m.Called(ctx, email)
	if v := args.Get(0); v != nil {
		return v.(*AuthorizedUserView), args.String(1), args.Error(2)
	}
	return nil, args.String(1), args.Error(2)
}

func TestGetCurrentUser(t *testing.T) {
	userID := uuid.New()

	t.Run("returns the active user", func(t *testing.T) {
		view := &AuthorizedUserView{
			ID:          userID,
			Email:       "client@example.com",
			DisplayName: "Sato Hanako",
			Role:        RoleClient,
			IsActive:    true,
		}

		store := new(MockUserReadStore)
		store.On("FindByID", mock.Anything, userID).Return(view, nil)

		got, err := NewUserQueries(store).GetCurrentUser(context.Background(), userID)
		require.NoError(t, err)
		assert.Equal(t, "client@example.com", got.Email)
		store.AssertExpectations(t)
	})

	t.Run("inactive user", func(t *testing.T) {
		view := &AuthorizedUserView{ID: userID, Email: "gone@example.com", Role: RoleClient}

		store := new(MockUserReadStore)
		store.On("FindByID", mock.Anything, userID).Return(view, nil)

		_, err := NewUserQueries(store).GetCurrentUser(context.Background(), userID)
		require.ErrorIs(t, err, ErrUserInactive)
	})

	t.Run("unknown user", func(t *testing.T) {
		store := new(MockUserReadStore)
		store.On("FindByID", mock.Anything, userID).Return(nil, notFoundErr())

		_, err := NewUserQueries(store).GetCurrentUser(context.Background(), userID)
		require.ErrorIs(t, err, ErrUserNotFound)
	})

	t.Run("store failure propagates", func(t *testing.T) {
		store := new(MockUserReadStore)
		store.On("FindByID", mock.Anything, userID).Return(nil, assert.AnError)

		_, err := NewUserQueries(store).GetCurrentUser(context.Background(), userID)
		require.ErrorIs(t, err, assert.AnError)
	})
}
