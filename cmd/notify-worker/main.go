package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"ayurclinic/internal/notifications"
	"ayurclinic/pkg/kafka"
	kafka_config "ayurclinic/pkg/kafka/config"
	kafka_middleware "ayurclinic/pkg/kafka/middleware"
	"ayurclinic/pkg/logger"
)

const ServiceName = "notify-worker"

func main() {
	_ = godotenv.Load()

	log := logger.New(logger.Config{
		Level:   os.Getenv("LOG_LEVEL"),
		Format:  logger.JSON,
		Service: ServiceName,
	})

	groupID := os.Getenv("NOTIFY_CONSUMER_GROUP")
	if groupID == "" {
		groupID = "clinic-notify-worker"
	}

	kafkaCfg := kafka_config.Load()
	kafkaCfg.LogConfiguration(log.Info)

	notifier := notifications.NewLogNotifier(log)
	handler := notifications.NewEventHandler(notifier, log)

	consumer, err := kafka.NewConsumer(kafkaCfg, kafka.TopicAppointments, groupID, kafka.TopicAppointmentsDLQ, handler)
	if err != nil {
		log.Fatal("Failed to create Kafka consumer", "error", err)
	}
	if kafkaCfg.EnableMiddleware {
		consumer.Use(kafka_middleware.LoggingConsumerMiddleware(log))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("Starting notification worker", "topic", kafka.TopicAppointments, "group_id", groupID)

	if err := consumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("Consumer stopped with error", "error", err)
	}

	if err := consumer.Close(); err != nil {
		log.Error("Failed to close consumer", "error", err)
	}
	log.Info("Notification worker stopped")
}
