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

func TestServiceGetByID(t *testing.T) {
	serviceID := uuid.New()

	t.Run("found", func(t *testing.T) {
		store := new(MockServiceReadStore)
		store.On("FindByID", mock.Anything, serviceID).Return(activeService(serviceID), nil)

		got, err := NewServiceQueries(store).GetByID(context.Background(), serviceID)
		require.NoError(t, err)
		assert.Equal(t, serviceID, got.ID)
	})

	t.Run("not found", func(t *testing.T) {
		store := new(MockServiceReadStore)
		store.On("FindByID", mock.Anything, serviceID).Return(nil, notFoundErr())

		_, err := NewServiceQueries(store).GetByID(context.Background(), serviceID)
		require.ErrorIs(t, err, ErrServiceNotFound)
	})
}

func TestServiceListActive(t *testing.T) {
	store := new(MockServiceReadStore)
	store.On("FindAllActive", mock.Anything).Return([]*ServiceView{
		activeService(uuid.New()),
		activeService(uuid.New()),
	}, nil)

	got, err := NewServiceQueries(store).ListActive(context.Background())
	require.NoError(t, err)
	assert.Len(t, got, 2)
	store.AssertExpectations(t)
}
