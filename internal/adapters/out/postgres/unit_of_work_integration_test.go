package postgres_test

import (
	"context"
	"testing"

	postgres_adapter "khabarlagbe/internal/adapters/out/postgres"
	"khabarlagbe/internal/adapters/out/postgres/orderrepo"
	"khabarlagbe/internal/adapters/out/postgres/riderrepo"
	"khabarlagbe/internal/core/domain/model/kernel"
	"khabarlagbe/internal/core/domain/model/order"
	"khabarlagbe/internal/core/domain/model/rider"
	"khabarlagbe/internal/core/ports"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// UnitOfWorkIntegrationTestSuite provides integration testing for the
// GORM-based Unit of Work implementation with a real PostgreSQL database.
type UnitOfWorkIntegrationTestSuite struct {
	suite.Suite
	container *postgres.PostgresContainer
	db        *gorm.DB
	factory   ports.UnitOfWorkFactory
}

func (suite *UnitOfWorkIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2)),
	)
	suite.Require().NoError(err)
	suite.container = container

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(gorm_postgres.Open(dsn), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	err = db.AutoMigrate(&orderrepo.OrderDTO{}, &riderrepo.RiderDTO{})
	suite.Require().NoError(err)

	suite.factory = postgres_adapter.NewGormUnitOfWorkFactory(db)
}

func (suite *UnitOfWorkIntegrationTestSuite) SetupTest() {
	err := suite.db.Exec("TRUNCATE TABLE orders, riders").Error
	suite.Require().NoError(err)
}

func (suite *UnitOfWorkIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		err := suite.container.Terminate(context.Background())
		suite.Require().NoError(err)
	}
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWorkFactory_Create() {
	uow1 := suite.factory.Create()
	uow2 := suite.factory.Create()

	suite.NotSame(uow1, uow2, "Factory should create separate instances")

	suite.NotNil(uow1.OrderRepository())
	suite.NotNil(uow1.RiderRepository())
	suite.NotNil(uow2.OrderRepository())
	suite.NotNil(uow2.RiderRepository())
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_TransactionLifecycle() {
	ctx := context.Background()
	uow := suite.factory.Create()

	err := uow.Begin(ctx)
	suite.Require().NoError(err)

	// Repeated begin on an active transaction is a no-op.
	err = uow.Begin(ctx)
	suite.Require().NoError(err)

	err = uow.Commit(ctx)
	suite.Require().NoError(err)

	err = uow.Begin(ctx)
	suite.Require().NoError(err)

	err = uow.Rollback(ctx)
	suite.Require().NoError(err)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_TransactionErrors() {
	ctx := context.Background()
	uow := suite.factory.Create()

	err := uow.Commit(ctx)
	suite.Require().Error(err, "Should error when committing without active transaction")

	err = uow.Rollback(ctx)
	suite.Require().Error(err, "Should error when rolling back without active transaction")
}

// TestUnitOfWork_OfferAcceptanceWorkflow exercises the write pattern the
// offer-resolution command uses: order and rider loaded, mutated and updated
// in one transaction.
func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_OfferAcceptanceWorkflow() {
	ctx := context.Background()

	readyOrder := createReadyOrder(suite)
	winner := createOnlineRider(suite)

	setupUow := suite.factory.Create()
	suite.Require().NoError(setupUow.OrderRepository().Add(ctx, readyOrder))
	suite.Require().NoError(setupUow.RiderRepository().Add(ctx, winner))

	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))

	loadedOrder, err := uow.OrderRepository().Get(ctx, readyOrder.ID())
	suite.Require().NoError(err)
	loadedRider, err := uow.RiderRepository().Get(ctx, winner.ID())
	suite.Require().NoError(err)

	suite.Require().NoError(loadedOrder.AssignRider(loadedRider.ID()))
	suite.Require().NoError(loadedRider.SetAvailable(false))

	suite.Require().NoError(uow.OrderRepository().Update(ctx, loadedOrder))
	suite.Require().NoError(uow.RiderRepository().Update(ctx, loadedRider))

	suite.Require().NoError(uow.Commit(ctx))

	verifyUow := suite.factory.Create()
	persistedOrder, err := verifyUow.OrderRepository().Get(ctx, readyOrder.ID())
	suite.Require().NoError(err)
	suite.Require().NotNil(persistedOrder.Rider())
	suite.Equal(winner.ID(), *persistedOrder.Rider())

	persistedRider, err := verifyUow.RiderRepository().Get(ctx, winner.ID())
	suite.Require().NoError(err)
	suite.False(persistedRider.IsAvailable())
	suite.True(persistedRider.IsOnline())
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_TransactionRollback() {
	ctx := context.Background()
	uow := suite.factory.Create()

	testOrder := createReadyOrder(suite)
	testRider := createOnlineRider(suite)

	suite.Require().NoError(uow.Begin(ctx))

	suite.Require().NoError(uow.OrderRepository().Add(ctx, testOrder))
	suite.Require().NoError(uow.RiderRepository().Add(ctx, testRider))

	// Visible inside the transaction.
	_, err := uow.OrderRepository().Get(ctx, testOrder.ID())
	suite.Require().NoError(err)
	_, err = uow.RiderRepository().Get(ctx, testRider.ID())
	suite.Require().NoError(err)

	suite.Require().NoError(uow.Rollback(ctx))

	newUow := suite.factory.Create()
	_, err = newUow.OrderRepository().Get(ctx, testOrder.ID())
	suite.Require().Error(err, "Order should not exist after rollback")
	_, err = newUow.RiderRepository().Get(ctx, testRider.ID())
	suite.Require().Error(err, "Rider should not exist after rollback")
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_RepositoryIsolation() {
	ctx := context.Background()

	uow1 := suite.factory.Create()
	uow2 := suite.factory.Create()

	order1 := createReadyOrder(suite)
	order2 := createReadyOrder(suite)

	suite.Require().NoError(uow1.Begin(ctx))
	suite.Require().NoError(uow2.Begin(ctx))

	suite.Require().NoError(uow1.OrderRepository().Add(ctx, order1))
	suite.Require().NoError(uow2.OrderRepository().Add(ctx, order2))

	_, err := uow1.OrderRepository().Get(ctx, order1.ID())
	suite.Require().NoError(err, "UOW1 should see order1")
	_, err = uow1.OrderRepository().Get(ctx, order2.ID())
	suite.Require().Error(err, "UOW1 should not see order2")

	_, err = uow2.OrderRepository().Get(ctx, order2.ID())
	suite.Require().NoError(err, "UOW2 should see order2")
	_, err = uow2.OrderRepository().Get(ctx, order1.ID())
	suite.Require().Error(err, "UOW2 should not see order1")

	suite.Require().NoError(uow1.Commit(ctx))
	suite.Require().NoError(uow2.Rollback(ctx))

	newUow := suite.factory.Create()
	_, err = newUow.OrderRepository().Get(ctx, order1.ID())
	suite.Require().NoError(err, "Order1 should persist after commit")
	_, err = newUow.OrderRepository().Get(ctx, order2.ID())
	suite.Require().Error(err, "Order2 should not persist after rollback")
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_WithoutTransaction() {
	ctx := context.Background()
	uow := suite.factory.Create()

	testOrder := createReadyOrder(suite)

	// Without Begin, repository writes auto-commit.
	err := uow.OrderRepository().Add(ctx, testOrder)
	suite.Require().NoError(err)

	newUow := suite.factory.Create()
	retrieved, err := newUow.OrderRepository().Get(ctx, testOrder.ID())
	suite.Require().NoError(err)
	suite.Equal(testOrder.ID(), retrieved.ID())
}

// TestUnitOfWork_DispatchQueryConsistency verifies the awaiting-dispatch and
// dispatchable-rider queries see uncommitted writes within the transaction.
func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_DispatchQueryConsistency() {
	ctx := context.Background()

	readyOrder := createReadyOrder(suite)
	freeRider := createOnlineRider(suite)

	setupUow := suite.factory.Create()
	suite.Require().NoError(setupUow.OrderRepository().Add(ctx, readyOrder))
	suite.Require().NoError(setupUow.RiderRepository().Add(ctx, freeRider))

	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))

	awaiting, err := uow.OrderRepository().GetAllAwaitingDispatch(ctx)
	suite.Require().NoError(err)
	suite.Require().Len(awaiting, 1)

	dispatchable, err := uow.RiderRepository().GetAllDispatchable(ctx)
	suite.Require().NoError(err)
	suite.Require().Len(dispatchable, 1)

	// Assign within the transaction; the queries reflect it immediately.
	suite.Require().NoError(awaiting[0].AssignRider(dispatchable[0].ID()))
	suite.Require().NoError(dispatchable[0].SetAvailable(false))
	suite.Require().NoError(uow.OrderRepository().Update(ctx, awaiting[0]))
	suite.Require().NoError(uow.RiderRepository().Update(ctx, dispatchable[0]))

	awaiting, err = uow.OrderRepository().GetAllAwaitingDispatch(ctx)
	suite.Require().NoError(err)
	suite.Empty(awaiting)

	dispatchable, err = uow.RiderRepository().GetAllDispatchable(ctx)
	suite.Require().NoError(err)
	suite.Empty(dispatchable)

	suite.Require().NoError(uow.Commit(ctx))

	newUow := suite.factory.Create()
	awaiting, err = newUow.OrderRepository().GetAllAwaitingDispatch(ctx)
	suite.Require().NoError(err)
	suite.Empty(awaiting)
}

// createReadyOrder creates an order driven to ReadyForPickup with pending
// events drained.
func createReadyOrder(suite *UnitOfWorkIntegrationTestSuite) *order.Order {
	pickup, err := kernel.NewGeoPoint(23.7465, 90.3760)
	suite.Require().NoError(err)
	dropoff, err := kernel.NewGeoPoint(23.7509, 90.3935)
	suite.Require().NoError(err)

	testOrder, err := order.NewOrder(kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(), pickup, dropoff)
	suite.Require().NoError(err)
	suite.Require().NoError(testOrder.Confirm(15))
	suite.Require().NoError(testOrder.StartPreparing())
	suite.Require().NoError(testOrder.MarkReady())
	testOrder.PullEvents()
	return testOrder
}

// createOnlineRider creates an online, available rider.
func createOnlineRider(suite *UnitOfWorkIntegrationTestSuite) *rider.Rider {
	testRider, err := rider.NewRider(kernel.NewUUID(), "Test Rider")
	suite.Require().NoError(err)
	testRider.SetOnline(true)
	suite.Require().NoError(testRider.SetAvailable(true))
	return testRider
}

func TestUnitOfWorkIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(UnitOfWorkIntegrationTestSuite))
}
