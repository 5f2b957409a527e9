package main

import (
	"github.com/joho/godotenv"

	"ayurclinic/internal/appointments/events"
	appointmenthandler "ayurclinic/internal/appointments/handler"
	appointmentrepo "ayurclinic/internal/appointments/repository"
	appointmentservice "ayurclinic/internal/appointments/service"
	appointmentvalidator "ayurclinic/internal/appointments/validator"
	availabilityhandler "ayurclinic/internal/availability/handler"
	availabilityrepo "ayurclinic/internal/availability/repository"
	availabilityservice "ayurclinic/internal/availability/service"
	availabilityvalidator "ayurclinic/internal/availability/validator"
	slothandler "ayurclinic/internal/slots/handler"
	slotservice "ayurclinic/internal/slots/service"
	"ayurclinic/pkg/app"
	"ayurclinic/pkg/config"
	"ayurclinic/pkg/kafka"
	kafka_config "ayurclinic/pkg/kafka/config"
	kafka_middleware "ayurclinic/pkg/kafka/middleware"
)

const ServiceName = "clinic"

func main() {
	_ = godotenv.Load()

	cfg := config.Load(ServiceName)
	cfg.SetMongo()

	publisher, closePublisher := initPublisher(cfg)
	defer closePublisher()

	availabilityService, slotService, appointmentService := initServices(cfg, publisher)

	cfg.Log.Info("Starting Clinic service")
	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(
		availabilityhandler.NewAvailabilityHandler(availabilityService, cfg.Log),
		slothandler.NewSlotHandler(slotService, cfg.Log),
		appointmenthandler.NewAppointmentHandler(appointmentService, cfg.Log),
	)
	serverApp.Run()
}

func initServices(cfg *config.Config, publisher events.Publisher) (
	availabilityservice.AvailabilityService,
	slotservice.SlotService,
	appointmentservice.AppointmentService,
) {
	availabilityRepo := availabilityrepo.NewMongoAvailabilityRepository(cfg)
	unavailableDateRepo := availabilityrepo.NewMongoUnavailableDateRepository(cfg)
	availabilityService := availabilityservice.NewAvailabilityService(
		availabilityRepo,
		unavailableDateRepo,
		availabilityvalidator.NewAvailabilityValidator(cfg.Log),
		cfg,
	)

	appointmentRepo := appointmentrepo.NewMongoAppointmentRepository(cfg)

	// The availability service supplies both the config and the blackout
	// calendar; the appointment repository supplies the active holds.
	slotService := slotservice.NewSlotService(
		availabilityService,
		availabilityService,
		appointmentRepo,
		cfg,
	)

	appointmentService := appointmentservice.NewAppointmentService(
		appointmentRepo,
		appointmentrepo.NewBookingLockRepository(cfg),
		slotService,
		appointmentvalidator.NewAppointmentValidator(cfg.Log),
		publisher,
		cfg,
	)

	cfg.Log.Info("Clinic services initialized", "database", cfg.MongoDatabaseName)
	return availabilityService, slotService, appointmentService
}

func initPublisher(cfg *config.Config) (events.Publisher, func()) {
	if !cfg.KafkaEnabled {
		cfg.Log.Info("Kafka disabled, appointment events will not be published")
		return events.NewNoopPublisher(), func() {}
	}

	kafkaCfg := kafka_config.Load()
	kafkaCfg.LogConfiguration(cfg.Log.Info)

	producer, err := kafka.NewProducer(kafkaCfg, kafka.TopicAppointments, kafka.TopicAppointmentsDLQ)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka producer", "error", err)
	}
	if kafkaCfg.EnableMiddleware {
		producer.Use(kafka_middleware.LoggingProducerMiddleware(cfg.Log))
	}

	return events.NewKafkaPublisher(producer, cfg.Log), func() {
		if err := producer.Close(); err != nil {
			cfg.Log.Error("Failed to close Kafka producer", "error", err)
		}
	}
}
