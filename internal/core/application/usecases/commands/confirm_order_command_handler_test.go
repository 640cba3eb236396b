package commands_test

import (
	"testing"

	"khabarlagbe/internal/core/application/usecases/commands"
	"khabarlagbe/internal/core/domain/model/kernel"
	"khabarlagbe/internal/core/domain/model/order"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestNewConfirmOrderCommand(t *testing.T) {
	t.Run("requires_positive_estimate", func(t *testing.T) {
		o := newStoredOrder(t)

		_, err := commands.NewConfirmOrderCommand(o.ID(), o.RestaurantID(), 0)

		require.Error(t, err)
	})
}

func TestConfirmOrderCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	stored := newStoredOrder(t)
	cmd, err := commands.NewConfirmOrderCommand(stored.ID(), stored.RestaurantID(), 25)
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	uow := new(MockUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("Get", ctx, stored.ID()).Return(stored, nil).Once(),
		orderRepo.On("Update", ctx, stored).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	events := new(MockEventPublisher)
	notifications := new(MockNotificationPublisher)
	events.On("Publish", ctx, mock.MatchedBy(func(e order.Event) bool {
		return e.Kind == order.KindOrderUpdated && e.Status == order.Confirmed && e.Version == 1
	})).Return(nil).Once()
	notifications.On("Notify", ctx, mock.AnythingOfType("order.Event")).Return(nil).Once()

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewConfirmOrderCommandHandler(factory, events, notifications)
	err = handler.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, order.Confirmed, stored.Status())
	assert.Equal(t, 25, stored.EstimatedPrepMinutes())
	orderRepo.AssertExpectations(t)
	uow.AssertExpectations(t)
	events.AssertExpectations(t)
}

func TestConfirmOrderCommandHandler_Handle_InvalidTransition(t *testing.T) {
	ctx := t.Context()
	stored := newReadyOrder(t) // already past Pending
	cmd, err := commands.NewConfirmOrderCommand(stored.ID(), stored.RestaurantID(), 25)
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	uow := new(MockUoW)
	events := new(MockEventPublisher)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("Get", ctx, stored.ID()).Return(stored, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewConfirmOrderCommandHandler(factory, events, nil)
	err = handler.Handle(ctx, cmd)

	require.ErrorIs(t, err, order.ErrInvalidTransition)
	orderRepo.AssertNotCalled(t, "Update", ctx, stored)
	events.AssertNotCalled(t, "Publish")
}

func TestConfirmOrderCommandHandler_Handle_WrongRestaurant(t *testing.T) {
	ctx := t.Context()
	stored := newStoredOrder(t)
	cmd, err := commands.NewConfirmOrderCommand(stored.ID(), kernel.NewUUID(), 25)
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	uow := new(MockUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("Get", ctx, stored.ID()).Return(stored, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	events := new(MockEventPublisher)
	handler := commands.NewConfirmOrderCommandHandler(factory, events, nil)
	err = handler.Handle(ctx, cmd)

	require.ErrorIs(t, err, order.ErrNotOrderRestaurant)
	assert.Equal(t, order.Pending, stored.Status())
	orderRepo.AssertNotCalled(t, "Update", ctx, stored)
	events.AssertNotCalled(t, "Publish")
}
