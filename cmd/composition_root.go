package cmd

import (
	"log/slog"

	"khabarlagbe/internal/adapters/in/ws"
	"khabarlagbe/internal/adapters/out/inmemory/offerstore"
	"khabarlagbe/internal/adapters/out/inmemory/otp"
	"khabarlagbe/internal/adapters/out/inmemory/samplestore"
	"khabarlagbe/internal/adapters/out/postgres"
	"khabarlagbe/internal/core/application/usecases/commands"
	"khabarlagbe/internal/core/application/usecases/queries"
	"khabarlagbe/internal/core/ports"

	"gorm.io/gorm"
)

type CompositionRoot struct {
	config     Config
	gormDB     *gorm.DB
	uowFactory postgres.GormUnitOfWorkFactory

	hub           *ws.Hub
	offerStore    *offerstore.Store
	sampleStore   *samplestore.Store
	otpVerifier   *otp.Verifier
	notifications ports.NotificationPublisher
}

func NewCompositionRoot(
	config Config,
	gormDB *gorm.DB,
	notifications ports.NotificationPublisher,
	logger *slog.Logger,
) CompositionRoot {
	return CompositionRoot{
		config:        config,
		gormDB:        gormDB,
		uowFactory:    *postgres.NewGormUnitOfWorkFactory(gormDB),
		hub:           ws.NewHub(logger),
		offerStore:    offerstore.NewStore(),
		sampleStore:   samplestore.NewStore(),
		otpVerifier:   otp.NewVerifier(),
		notifications: notifications,
	}
}

// Hub returns the shared event channel hub.
func (c *CompositionRoot) Hub() *ws.Hub { return c.hub }

// SampleStore returns the shared location sample store.
func (c *CompositionRoot) SampleStore() *samplestore.Store { return c.sampleStore }

// OtpVerifier returns the shared hand-off code verifier.
func (c *CompositionRoot) OtpVerifier() ports.OtpVerifier { return c.otpVerifier }

func (c *CompositionRoot) orderUoWFactory() commands.OrderUoWFactory {
	return FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) fullUoWFactory() commands.UoWFactory {
	return FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) CreatePlaceOrderCommandHandler() commands.PlaceOrderCommandHandler {
	return commands.NewPlaceOrderCommandHandler(c.orderUoWFactory(), c.hub, c.notifications)
}

func (c *CompositionRoot) CreateConfirmOrderCommandHandler() commands.ConfirmOrderCommandHandler {
	return commands.NewConfirmOrderCommandHandler(c.orderUoWFactory(), c.hub, c.notifications)
}

func (c *CompositionRoot) CreateRejectOrderCommandHandler() commands.RejectOrderCommandHandler {
	return commands.NewRejectOrderCommandHandler(c.orderUoWFactory(), c.hub, c.notifications)
}

func (c *CompositionRoot) CreateStartPreparingCommandHandler() commands.StartPreparingCommandHandler {
	return commands.NewStartPreparingCommandHandler(c.orderUoWFactory(), c.hub, c.notifications)
}

func (c *CompositionRoot) CreateMarkOrderReadyCommandHandler() commands.MarkOrderReadyCommandHandler {
	return commands.NewMarkOrderReadyCommandHandler(c.orderUoWFactory(), c.hub, c.notifications)
}

func (c *CompositionRoot) CreateCancelOrderCommandHandler() commands.CancelOrderCommandHandler {
	return commands.NewCancelOrderCommandHandler(c.orderUoWFactory(), c.hub, c.notifications)
}

func (c *CompositionRoot) CreateReportRiderArrivalCommandHandler() commands.ReportRiderArrivalCommandHandler {
	return commands.NewReportRiderArrivalCommandHandler(c.orderUoWFactory(), c.hub, c.notifications)
}

func (c *CompositionRoot) CreatePickupOrderCommandHandler() commands.PickupOrderCommandHandler {
	return commands.NewPickupOrderCommandHandler(c.orderUoWFactory(), c.otpVerifier, c.hub, c.notifications)
}

func (c *CompositionRoot) CreateStartDeliveryCommandHandler() commands.StartDeliveryCommandHandler {
	return commands.NewStartDeliveryCommandHandler(c.orderUoWFactory(), c.hub, c.notifications)
}

func (c *CompositionRoot) CreateCompleteDeliveryCommandHandler() commands.CompleteDeliveryCommandHandler {
	return commands.NewCompleteDeliveryCommandHandler(c.fullUoWFactory(), c.otpVerifier, c.hub, c.notifications)
}

func (c *CompositionRoot) CreateResolveOfferCommandHandler() commands.ResolveOfferCommandHandler {
	return commands.NewResolveOfferCommandHandler(c.fullUoWFactory(), c.offerStore, c.hub, c.notifications)
}

func (c *CompositionRoot) CreateDispatchOrdersCommandHandler() commands.DispatchOrdersCommandHandler {
	return commands.NewDispatchOrdersCommandHandler(
		c.fullUoWFactory(),
		c.offerStore,
		c.sampleStore,
		c.config.OfferWindow,
		c.hub,
		c.hub,
		c.notifications,
	)
}

func (c *CompositionRoot) CreateRecordRiderLocationCommandHandler() commands.RecordRiderLocationCommandHandler {
	return commands.NewRecordRiderLocationCommandHandler(c.orderUoWFactory(), c.sampleStore, c.hub)
}

func (c *CompositionRoot) CreateRegisterRiderCommandHandler() commands.RegisterRiderCommandHandler {
	return commands.NewRegisterRiderCommandHandler(c.fullUoWFactory())
}

func (c *CompositionRoot) CreateSetRiderAvailabilityCommandHandler() commands.SetRiderAvailabilityCommandHandler {
	return commands.NewSetRiderAvailabilityCommandHandler(c.fullUoWFactory())
}

func (c *CompositionRoot) CreateGetOrderQueryHandler() queries.GetOrderQueryHandler {
	return queries.NewGetOrderQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetOrderChangesQueryHandler() queries.GetOrderChangesQueryHandler {
	return queries.NewGetOrderChangesQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetActiveOrdersQueryHandler() queries.GetActiveOrdersQueryHandler {
	return queries.NewGetActiveOrdersQueryHandler(c.gormDB)
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}
