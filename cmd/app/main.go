package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"time"

	"khabarlagbe/cmd"
	inhttp "khabarlagbe/internal/adapters/in/http"
	"khabarlagbe/internal/adapters/in/ws"
	"khabarlagbe/internal/adapters/out/kafka"
	"khabarlagbe/internal/adapters/out/postgres/orderrepo"
	"khabarlagbe/internal/adapters/out/postgres/riderrepo"
	"khabarlagbe/internal/core/ports"
	"khabarlagbe/internal/jobs"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	configs := getConfigs()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	gormDB := mustConnectDB(configs)

	var notifications ports.NotificationPublisher
	if configs.KafkaHost != "" {
		publisher, err := kafka.NewNotificationPublisher(
			[]string{configs.KafkaHost},
			configs.KafkaOrderChangedTopic,
			logger,
		)
		if err != nil {
			log.Fatalf("Failed to connect to Kafka: %v", err)
		}
		defer publisher.Close()
		notifications = publisher
	}

	app := cmd.NewCompositionRoot(configs, gormDB, notifications, logger)

	jobManager := jobs.NewJobManager(
		app.CreateDispatchOrdersCommandHandler(),
		app.SampleStore(),
		configs.SampleMaxAge,
		logger,
	)
	if err := jobManager.StartAll(); err != nil {
		log.Fatalf("Failed to start jobs: %v", err)
	}
	defer jobManager.StopAll()

	startWebServer(&app, logger, configs.HTTPPort)
}

func getConfigs() cmd.Config {
	config := cmd.Config{
		HTTPPort:               goDotEnvVariable("HTTP_PORT"),
		DBHost:                 goDotEnvVariable("DB_HOST"),
		DBPort:                 goDotEnvVariable("DB_PORT"),
		DBUser:                 goDotEnvVariable("DB_USER"),
		DBPassword:             goDotEnvVariable("DB_PASSWORD"),
		DBName:                 goDotEnvVariable("DB_NAME"),
		DBSslMode:              goDotEnvVariable("DB_SSLMODE"),
		KafkaHost:              goDotEnvVariable("KAFKA_HOST"),
		KafkaOrderChangedTopic: goDotEnvVariable("KAFKA_ORDER_CHANGED_TOPIC"),
		OfferWindow:            durationFromEnvSeconds("OFFER_WINDOW_SECONDS"),
		SampleMaxAge:           durationFromEnvSeconds("SAMPLE_MAX_AGE_SECONDS"),
	}
	config.ApplyDefaults()
	return config
}

func goDotEnvVariable(key string) string {
	err := godotenv.Load(".env")
	if err != nil {
		log.Fatalf("Error loading .env file")
	}
	return os.Getenv(key)
}

func durationFromEnvSeconds(key string) time.Duration {
	raw := goDotEnvVariable(key)
	if raw == "" {
		return 0
	}
	seconds, err := strconv.Atoi(raw)
	if err != nil {
		log.Fatalf("Invalid %s: %v", key, err)
	}
	return time.Duration(seconds) * time.Second
}

func mustConnectDB(configs cmd.Config) *gorm.DB {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		configs.DBHost,
		configs.DBPort,
		configs.DBUser,
		configs.DBPassword,
		configs.DBName,
		configs.DBSslMode,
	)

	gormDB, err := gorm.Open(gormpostgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err = gormDB.AutoMigrate(&orderrepo.OrderDTO{}, &riderrepo.RiderDTO{}); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	return gormDB
}

func startWebServer(app *cmd.CompositionRoot, logger *slog.Logger, port string) {
	e := echo.New()
	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})

	restServer := inhttp.NewServer(
		app.CreatePlaceOrderCommandHandler(),
		app.CreateRegisterRiderCommandHandler(),
		app.CreateSetRiderAvailabilityCommandHandler(),
		app.CreateGetOrderQueryHandler(),
		app.CreateGetOrderChangesQueryHandler(),
		app.CreateGetActiveOrdersQueryHandler(),
		app.OtpVerifier(),
	)
	restServer.Register(e)

	channelServer := ws.NewServer(
		app.Hub(),
		app.CreateGetOrderChangesQueryHandler(),
		ws.Commands{
			ConfirmOrder:     app.CreateConfirmOrderCommandHandler(),
			RejectOrder:      app.CreateRejectOrderCommandHandler(),
			StartPreparing:   app.CreateStartPreparingCommandHandler(),
			MarkOrderReady:   app.CreateMarkOrderReadyCommandHandler(),
			CancelOrder:      app.CreateCancelOrderCommandHandler(),
			ReportArrival:    app.CreateReportRiderArrivalCommandHandler(),
			PickupOrder:      app.CreatePickupOrderCommandHandler(),
			StartDelivery:    app.CreateStartDeliveryCommandHandler(),
			CompleteDelivery: app.CreateCompleteDeliveryCommandHandler(),
			ResolveOffer:     app.CreateResolveOfferCommandHandler(),
			RecordLocation:   app.CreateRecordRiderLocationCommandHandler(),
		},
		logger,
	)
	e.GET("/ws", channelServer.Handle)

	e.Logger.Fatal(e.Start(fmt.Sprintf("0.0.0.0:%s", port)))
}
