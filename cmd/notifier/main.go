package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"roombook/internal/notifications"
	"roombook/pkg/config"
	"roombook/pkg/kafka"
	kafka_config "roombook/pkg/kafka/config"
	kafka_middleware "roombook/pkg/kafka/middleware"
)

const ServiceName = "roombook-notifier"

func main() {
	cfg := config.Load(ServiceName)
	if cfg.SMTPAddr == "" || cfg.SMTPFrom == "" {
		cfg.Log.Fatal("SMTP_ADDR and SMTP_FROM are required")
	}

	kafkaCfg, err := kafka_config.Load()
	if err != nil {
		cfg.Log.Fatal("Invalid Kafka configuration", "error", err)
	}
	kafkaCfg.LogConfiguration(cfg.Log.Info)

	mailer := notifications.NewSMTPMailer(cfg.SMTPAddr, cfg.SMTPFrom, cfg.SMTPTimeout)
	worker := notifications.NewWorker(mailer, cfg.NotifyRecipient, cfg.Log)

	consumer, err := kafka.NewConsumer(kafkaCfg, cfg.NotifyTopic, worker.Handle, cfg.Log)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka consumer", "error", err)
	}

	metrics := kafka_middleware.NewMetrics()
	consumer.Use(kafka_middleware.LoggingConsumerMiddleware(cfg.Log))
	consumer.Use(metrics.Consumer())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg.Log.Info("Starting notification worker", "topic", cfg.NotifyTopic, "group_id", kafkaCfg.ConsumerGroupID)
	if err := consumer.Start(ctx); err != nil && ctx.Err() == nil {
		cfg.Log.Error("Consumer stopped unexpectedly", "error", err)
	}

	if err := consumer.Close(); err != nil {
		cfg.Log.Error("Failed to close Kafka consumer", "error", err)
	}
	cfg.Log.Info("Kafka consumer metrics", metrics.Snapshot().LogAttrs()...)
	cfg.Log.Info("Notification worker stopped")
}
