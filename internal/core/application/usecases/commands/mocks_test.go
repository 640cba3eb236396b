package commands_test

import (
	"context"

	"khabarlagbe/internal/core/application/usecases/commands"
	"khabarlagbe/internal/core/domain/model/kernel"
	"khabarlagbe/internal/core/domain/model/offer"
	"khabarlagbe/internal/core/domain/model/order"
	"khabarlagbe/internal/core/domain/model/rider"
	"khabarlagbe/internal/core/ports"

	"github.com/stretchr/testify/mock"
)

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) GetAllAwaitingDispatch(ctx context.Context) ([]*order.Order, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}

func (m *MockOrderRepository) GetAllActiveForCustomer(ctx context.Context, id kernel.UUID) ([]*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}

func (m *MockOrderRepository) GetAllActiveForRestaurant(ctx context.Context, id kernel.UUID) ([]*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}

func (m *MockOrderRepository) GetAllActiveForRider(ctx context.Context, id kernel.UUID) ([]*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}

type MockRiderRepository struct{ mock.Mock }

func (m *MockRiderRepository) Add(ctx context.Context, r *rider.Rider) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockRiderRepository) Update(ctx context.Context, r *rider.Rider) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockRiderRepository) Get(ctx context.Context, id kernel.UUID) (*rider.Rider, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*rider.Rider), args.Error(1)
}

func (m *MockRiderRepository) GetAllDispatchable(ctx context.Context) ([]*rider.Rider, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*rider.Rider), args.Error(1)
}

type MockUoW struct{ mock.Mock }

func (m *MockUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}

func (m *MockUoW) RiderRepository() ports.RiderRepository {
	args := m.Called()
	return args.Get(0).(ports.RiderRepository)
}

type MockOrderUoWFactory struct{ mock.Mock }

func (m *MockOrderUoWFactory) Create() commands.OrderUoW {
	args := m.Called()
	return args.Get(0).(commands.OrderUoW)
}

type MockUoWFactory struct{ mock.Mock }

func (m *MockUoWFactory) Create() commands.UoW {
	args := m.Called()
	return args.Get(0).(commands.UoW)
}

type MockEventPublisher struct{ mock.Mock }

func (m *MockEventPublisher) Publish(ctx context.Context, event order.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

type MockNotificationPublisher struct{ mock.Mock }

func (m *MockNotificationPublisher) Notify(ctx context.Context, event order.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

type MockOfferPublisher struct{ mock.Mock }

func (m *MockOfferPublisher) PublishOffer(ctx context.Context, o *offer.Offer) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

type MockOfferStore struct{ mock.Mock }

func (m *MockOfferStore) Put(ctx context.Context, o *offer.Offer) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOfferStore) Get(ctx context.Context, id kernel.UUID) (*offer.Offer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*offer.Offer), args.Error(1)
}

func (m *MockOfferStore) GetPendingForOrder(ctx context.Context, orderID kernel.UUID) (*offer.Offer, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*offer.Offer), args.Error(1)
}

func (m *MockOfferStore) Resolve(
	ctx context.Context,
	id kernel.UUID,
	fn func(*offer.Offer) error,
) (*offer.Offer, error) {
	args := m.Called(ctx, id, fn)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*offer.Offer), args.Error(1)
}

func (m *MockOfferStore) DeclinedRiders(ctx context.Context, orderID kernel.UUID) ([]kernel.UUID, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]kernel.UUID), args.Error(1)
}

func (m *MockOfferStore) GetAllExpired(ctx context.Context) ([]*offer.Offer, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*offer.Offer), args.Error(1)
}

type MockSampleStore struct{ mock.Mock }

func (m *MockSampleStore) Record(ctx context.Context, sample rider.LocationSample) (bool, error) {
	args := m.Called(ctx, sample)
	return args.Bool(0), args.Error(1)
}

func (m *MockSampleStore) Latest(ctx context.Context, riderID kernel.UUID) (rider.LocationSample, bool, error) {
	args := m.Called(ctx, riderID)
	return args.Get(0).(rider.LocationSample), args.Bool(1), args.Error(2)
}

type MockOtpVerifier struct{ mock.Mock }

func (m *MockOtpVerifier) Issue(ctx context.Context, orderID kernel.UUID, stage ports.OtpStage) (string, error) {
	args := m.Called(ctx, orderID, stage)
	return args.String(0), args.Error(1)
}

func (m *MockOtpVerifier) Verify(ctx context.Context, orderID kernel.UUID, stage ports.OtpStage, code string) error {
	args := m.Called(ctx, orderID, stage, code)
	return args.Error(0)
}
