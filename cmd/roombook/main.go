package main

import (
	"context"

	adminHandler "roombook/internal/admin/handler"
	adminService "roombook/internal/admin/service"
	"roombook/internal/bookings/handler"
	"roombook/internal/bookings/repository"
	"roombook/internal/bookings/service"
	"roombook/internal/bookings/validator"
	"roombook/internal/health"
	"roombook/internal/notifications"
	"roombook/internal/slots"
	"roombook/pkg/app"
	"roombook/pkg/clock"
	"roombook/pkg/config"
	"roombook/pkg/contracts"
	"roombook/pkg/kafka"
	kafka_config "roombook/pkg/kafka/config"
	kafka_middleware "roombook/pkg/kafka/middleware"
	"roombook/pkg/password"
)

const ServiceName = "roombook"

func main() {
	cfg := config.Load(ServiceName)
	if cfg.StorageDriver == config.DriverMongo {
		cfg.SetMongo()
	}
	defer cfg.GracefulShutdown()

	cfg.Log.Info("Starting room booking service")
	serverApp := app.NewApplication()

	stores, err := repository.NewStores(cfg)
	if err != nil {
		cfg.Log.Fatal("Failed to initialise storage", "error", err)
	}

	grid, err := slots.NewGrid(cfg.Ledger.DayStart, cfg.Ledger.DayEnd, cfg.Ledger.SlotMinutes)
	if err != nil {
		cfg.Log.Fatal("Invalid slot grid", "error", err)
	}

	clk := clock.NewRealClock()
	bookingValidator := validator.NewBookingValidator(cfg.Log, cfg.Ledger, grid)
	notifier := initNotifier(cfg, serverApp, clk)

	bookingService := service.NewBookingService(
		stores,
		bookingValidator,
		grid,
		password.NewHasher(cfg.BcryptCost),
		notifier,
		clk,
		cfg,
	)
	handlers := []contracts.Handler{handler.NewBookingHandler(bookingService, cfg.Log)}

	if cfg.AdminEnabled() {
		admin := adminService.NewAdminService(stores, bookingValidator, grid, clk, cfg)
		handlers = append(handlers, adminHandler.NewAdminHandler(admin, cfg.AdminPasswordHash, cfg.Log))
		cfg.Log.Info("Admin endpoints enabled")
	} else {
		cfg.Log.Info("Admin endpoints disabled, no admin password hash configured")
	}

	serverApp.SetApp(cfg, readiness(cfg), handlers...)
	serverApp.Run()
}

func initNotifier(cfg *config.Config, serverApp *app.Application, clk clock.Clock) service.Notifier {
	if !cfg.Ledger.NotifyOnChange {
		return notifications.NopNotifier{}
	}

	kafkaCfg, err := kafka_config.Load()
	if err != nil {
		cfg.Log.Fatal("Invalid Kafka configuration", "error", err)
	}
	kafkaCfg.LogConfiguration(cfg.Log.Info)

	producer, err := kafka.NewProducer(kafkaCfg, cfg.NotifyTopic, kafkaCfg.DLQTopic, cfg.Log)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka producer", "error", err)
	}

	metrics := kafka_middleware.NewMetrics()
	producer.Use(kafka_middleware.LoggingProducerMiddleware(cfg.Log))
	producer.Use(metrics.Producer())

	serverApp.OnShutdown("kafka-producer", func() error {
		cfg.Log.Info("Kafka producer metrics", metrics.Snapshot().LogAttrs()...)
		return producer.Close()
	})

	cfg.Log.Info("Booking notifications enabled", "topic", cfg.NotifyTopic)
	return notifications.NewPublisher(producer, cfg.NotifyRecipient, cfg.NotifyTimeout, clk, cfg.Log)
}

// readiness pings mongo; the file and memory drivers are always ready.
func readiness(cfg *config.Config) health.Pinger {
	if cfg.StorageDriver != config.DriverMongo {
		return nil
	}
	return func(ctx context.Context) error {
		return cfg.Client.Mongo.Ping(ctx, nil)
	}
}
