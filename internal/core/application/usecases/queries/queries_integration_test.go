package queries_test

import (
	"context"
	"testing"
	"time"

	"khabarlagbe/internal/adapters/out/postgres/orderrepo"
	"khabarlagbe/internal/core/application/usecases/queries"
	"khabarlagbe/internal/core/domain/model/kernel"
	"khabarlagbe/internal/core/domain/model/order"
	"khabarlagbe/internal/pkg/errs"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// nopTracker satisfies the repository's tracker dependency for seeding rows.
type nopTracker struct {
	mock.Mock
}

func (t *nopTracker) TrackAggregate(kernel.UUID, interface{}) {}

// OrderQueriesIntegrationTestSuite verifies the read side against a real
// PostgreSQL database. Rows are seeded through the write-side repository so
// the queries read exactly what commands persist.
type OrderQueriesIntegrationTestSuite struct {
	suite.Suite
	container *postgres.PostgresContainer
	db        *gorm.DB
	repo      *orderrepo.GormOrderRepository
}

func (suite *OrderQueriesIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	suite.Require().NoError(err)
	suite.container = container

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(postgresdriver.Open(connStr), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	suite.Require().NoError(db.AutoMigrate(&orderrepo.OrderDTO{}))
	suite.repo = orderrepo.NewGormOrderRepository(db, new(nopTracker))
}

func (suite *OrderQueriesIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE orders").Error)
}

func (suite *OrderQueriesIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *OrderQueriesIntegrationTestSuite) TestGetOrder_ReturnsSnapshot() {
	ctx := context.Background()

	aggregate := suite.seedReadyOrder(kernel.NewUUID(), kernel.NewUUID())

	handler := queries.NewGetOrderQueryHandler(suite.db)
	query, err := queries.NewGetOrderQuery(aggregate.ID())
	suite.Require().NoError(err)

	snap, err := handler.Handle(ctx, query)
	suite.Require().NoError(err)

	suite.Equal(aggregate.ID(), snap.ID)
	suite.Equal(aggregate.CustomerID(), snap.CustomerID)
	suite.Equal(aggregate.RestaurantID(), snap.RestaurantID)
	suite.Nil(snap.RiderID)
	suite.Equal(order.ReadyForPickup, snap.Status)
	suite.Equal(int64(3), snap.Version)
	suite.Equal(25, snap.EstimatedPrepMin)
	suite.False(snap.NeedsManualDispatch)
	suite.Require().Len(snap.Timeline, 4)
	suite.Equal(order.Pending, snap.Timeline[0].Status)
	suite.Equal(order.ReadyForPickup, snap.Timeline[3].Status)
}

func (suite *OrderQueriesIntegrationTestSuite) TestGetOrder_NotFound() {
	ctx := context.Background()

	handler := queries.NewGetOrderQueryHandler(suite.db)
	query, err := queries.NewGetOrderQuery(kernel.NewUUID())
	suite.Require().NoError(err)

	_, err = handler.Handle(ctx, query)
	suite.Require().Error(err)
	suite.ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *OrderQueriesIntegrationTestSuite) TestGetOrder_IncludesAssignedRider() {
	ctx := context.Background()

	aggregate := suite.seedReadyOrder(kernel.NewUUID(), kernel.NewUUID())
	riderID := kernel.NewUUID()

	loaded, err := suite.repo.Get(ctx, aggregate.ID())
	suite.Require().NoError(err)
	suite.Require().NoError(loaded.AssignRider(riderID))
	suite.Require().NoError(suite.repo.Update(ctx, loaded))

	handler := queries.NewGetOrderQueryHandler(suite.db)
	query, err := queries.NewGetOrderQuery(aggregate.ID())
	suite.Require().NoError(err)

	snap, err := handler.Handle(ctx, query)
	suite.Require().NoError(err)

	suite.Require().NotNil(snap.RiderID)
	suite.Equal(riderID, *snap.RiderID)
	suite.Equal(order.ReadyForPickup, snap.Status)
	suite.Equal(int64(4), snap.Version)
}

func (suite *OrderQueriesIntegrationTestSuite) TestGetOrderChanges_FullHistory() {
	ctx := context.Background()

	aggregate := suite.seedReadyOrder(kernel.NewUUID(), kernel.NewUUID())

	handler := queries.NewGetOrderChangesQueryHandler(suite.db)
	query, err := queries.NewGetOrderChangesQuery(aggregate.ID(), -1)
	suite.Require().NoError(err)

	response, err := handler.Handle(ctx, query)
	suite.Require().NoError(err)

	suite.Equal(int64(3), response.Snapshot.Version)
	suite.Require().Len(response.Events, 4)
	suite.Equal(order.KindNewOrder, response.Events[0].Kind)
	for i, event := range response.Events {
		suite.Equal(int64(i), event.Version)
		suite.Equal(aggregate.ID(), event.OrderID)
	}
}

func (suite *OrderQueriesIntegrationTestSuite) TestGetOrderChanges_Delta() {
	ctx := context.Background()

	aggregate := suite.seedReadyOrder(kernel.NewUUID(), kernel.NewUUID())

	handler := queries.NewGetOrderChangesQueryHandler(suite.db)
	query, err := queries.NewGetOrderChangesQuery(aggregate.ID(), 1)
	suite.Require().NoError(err)

	response, err := handler.Handle(ctx, query)
	suite.Require().NoError(err)

	suite.Require().Len(response.Events, 2)
	suite.Equal(int64(2), response.Events[0].Version)
	suite.Equal(order.Preparing, response.Events[0].Status)
	suite.Equal(int64(3), response.Events[1].Version)
	suite.Equal(order.ReadyForPickup, response.Events[1].Status)
}

func (suite *OrderQueriesIntegrationTestSuite) TestGetOrderChanges_ClientUpToDate() {
	ctx := context.Background()

	aggregate := suite.seedReadyOrder(kernel.NewUUID(), kernel.NewUUID())

	handler := queries.NewGetOrderChangesQueryHandler(suite.db)

	// A client at the current version, and one claiming a version the
	// server has never issued, both get the snapshot and no events.
	for _, since := range []int64{3, 42} {
		query, err := queries.NewGetOrderChangesQuery(aggregate.ID(), since)
		suite.Require().NoError(err)

		response, err := handler.Handle(ctx, query)
		suite.Require().NoError(err)
		suite.Empty(response.Events)
		suite.Equal(int64(3), response.Snapshot.Version)
	}
}

func (suite *OrderQueriesIntegrationTestSuite) TestGetActiveOrders_ForCustomer() {
	ctx := context.Background()

	customerID := kernel.NewUUID()

	first := suite.seedReadyOrder(customerID, kernel.NewUUID())
	second := suite.seedPendingOrder(customerID, kernel.NewUUID())
	suite.seedCancelledOrder(customerID, kernel.NewUUID())
	suite.seedPendingOrder(kernel.NewUUID(), kernel.NewUUID())

	handler := queries.NewGetActiveOrdersQueryHandler(suite.db)
	query, err := queries.NewGetActiveOrdersQuery(kernel.RoleCustomer, customerID)
	suite.Require().NoError(err)

	snapshots, err := handler.Handle(ctx, query)
	suite.Require().NoError(err)

	suite.Require().Len(snapshots, 2)
	// Ordered by version: the pending order (version 0) comes first.
	suite.Equal(second.ID(), snapshots[0].ID)
	suite.Equal(first.ID(), snapshots[1].ID)
}

func (suite *OrderQueriesIntegrationTestSuite) TestGetActiveOrders_ForRestaurant() {
	ctx := context.Background()

	restaurantID := kernel.NewUUID()

	suite.seedPendingOrder(kernel.NewUUID(), restaurantID)
	suite.seedPendingOrder(kernel.NewUUID(), restaurantID)
	suite.seedPendingOrder(kernel.NewUUID(), kernel.NewUUID())

	handler := queries.NewGetActiveOrdersQueryHandler(suite.db)
	query, err := queries.NewGetActiveOrdersQuery(kernel.RoleRestaurant, restaurantID)
	suite.Require().NoError(err)

	snapshots, err := handler.Handle(ctx, query)
	suite.Require().NoError(err)

	suite.Len(snapshots, 2)
}

func (suite *OrderQueriesIntegrationTestSuite) TestGetActiveOrders_ForRider() {
	ctx := context.Background()

	riderID := kernel.NewUUID()

	assigned := suite.seedReadyOrder(kernel.NewUUID(), kernel.NewUUID())
	loaded, err := suite.repo.Get(ctx, assigned.ID())
	suite.Require().NoError(err)
	suite.Require().NoError(loaded.AssignRider(riderID))
	suite.Require().NoError(suite.repo.Update(ctx, loaded))

	suite.seedReadyOrder(kernel.NewUUID(), kernel.NewUUID())

	handler := queries.NewGetActiveOrdersQueryHandler(suite.db)
	query, err := queries.NewGetActiveOrdersQuery(kernel.RoleRider, riderID)
	suite.Require().NoError(err)

	snapshots, err := handler.Handle(ctx, query)
	suite.Require().NoError(err)

	suite.Require().Len(snapshots, 1)
	suite.Equal(assigned.ID(), snapshots[0].ID)
}

func (suite *OrderQueriesIntegrationTestSuite) TestGetActiveOrders_NoOrders_ReturnsEmptySlice() {
	ctx := context.Background()

	handler := queries.NewGetActiveOrdersQueryHandler(suite.db)
	query, err := queries.NewGetActiveOrdersQuery(kernel.RoleCustomer, kernel.NewUUID())
	suite.Require().NoError(err)

	snapshots, err := handler.Handle(ctx, query)
	suite.Require().NoError(err)
	suite.Empty(snapshots)
}

func (suite *OrderQueriesIntegrationTestSuite) seedPendingOrder(customerID, restaurantID kernel.UUID) *order.Order {
	pickup, err := kernel.NewGeoPoint(23.8103, 90.4125)
	suite.Require().NoError(err)
	dropoff, err := kernel.NewGeoPoint(23.7947, 90.4043)
	suite.Require().NoError(err)

	aggregate, err := order.NewOrder(kernel.NewUUID(), customerID, restaurantID, pickup, dropoff)
	suite.Require().NoError(err)
	aggregate.PullEvents()

	suite.Require().NoError(suite.repo.Add(context.Background(), aggregate))
	return aggregate
}

func (suite *OrderQueriesIntegrationTestSuite) seedReadyOrder(customerID, restaurantID kernel.UUID) *order.Order {
	pickup, err := kernel.NewGeoPoint(23.8103, 90.4125)
	suite.Require().NoError(err)
	dropoff, err := kernel.NewGeoPoint(23.7947, 90.4043)
	suite.Require().NoError(err)

	aggregate, err := order.NewOrder(kernel.NewUUID(), customerID, restaurantID, pickup, dropoff)
	suite.Require().NoError(err)
	suite.Require().NoError(aggregate.Confirm(25))
	suite.Require().NoError(aggregate.StartPreparing())
	suite.Require().NoError(aggregate.MarkReady())
	aggregate.PullEvents()

	suite.Require().NoError(suite.repo.Add(context.Background(), aggregate))
	return aggregate
}

func (suite *OrderQueriesIntegrationTestSuite) seedCancelledOrder(customerID, restaurantID kernel.UUID) *order.Order {
	aggregate := suite.seedPendingOrder(customerID, restaurantID)

	loaded, err := suite.repo.Get(context.Background(), aggregate.ID())
	suite.Require().NoError(err)
	suite.Require().NoError(loaded.Cancel(kernel.RoleCustomer, "ordered by mistake"))
	suite.Require().NoError(suite.repo.Update(context.Background(), loaded))
	return loaded
}

func TestOrderQueriesIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(OrderQueriesIntegrationTestSuite))
}
