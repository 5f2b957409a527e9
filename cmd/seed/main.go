package main

import (
	"context"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/bson/primitive"

	appointmentrepo "ayurclinic/internal/appointments/repository"
	availabilityrepo "ayurclinic/internal/availability/repository"
	availabilityservice "ayurclinic/internal/availability/service"
	availabilityvalidator "ayurclinic/internal/availability/validator"
	slotservice "ayurclinic/internal/slots/service"
	"ayurclinic/pkg/config"
	apperrors "ayurclinic/pkg/errors"
	"ayurclinic/pkg/model"
)

const (
	JobName          = "seed"
	practitioners    = 3
	seedDays         = 7
	bookingsPerDay   = 2
	blackoutOffset   = 14
	appointmentNotes = 8
)

func main() {
	_ = godotenv.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	cfg := config.Load(JobName)
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	availabilityService := availabilityservice.NewAvailabilityService(
		availabilityrepo.NewMongoAvailabilityRepository(cfg),
		availabilityrepo.NewMongoUnavailableDateRepository(cfg),
		availabilityvalidator.NewAvailabilityValidator(cfg.Log),
		cfg,
	)
	appointmentRepo := appointmentrepo.NewMongoAppointmentRepository(cfg)
	slotService := slotservice.NewSlotService(
		availabilityService,
		availabilityService,
		appointmentRepo,
		cfg,
	)

	cfg.Log.Info("Seeding clinic data",
		"practitioners", practitioners,
		"days", seedDays,
	)

	for i := 0; i < practitioners; i++ {
		practitionerID := primitive.NewObjectID().Hex()
		seedPractitioner(ctx, cfg, availabilityService, slotService, appointmentRepo, practitionerID)
	}

	cfg.Log.Info("Seeding completed")
}

func seedPractitioner(
	ctx context.Context,
	cfg *config.Config,
	availabilityService availabilityservice.AvailabilityService,
	slotService slotservice.SlotService,
	appointmentRepo appointmentrepo.AppointmentRepository,
	practitionerID string,
) {
	if _, err := availabilityService.GetOrCreate(ctx, practitionerID); err != nil {
		cfg.Log.Error("Failed to create availability config", "practitioner_id", practitionerID, "error", err)
		return
	}

	blackout := time.Now().UTC().AddDate(0, 0, blackoutOffset).Format("2006-01-02")
	err := availabilityService.AddUnavailableDate(ctx, &model.UnavailableDate{
		PractitionerID: practitionerID,
		Date:           blackout,
		Reason:         gofakeit.Sentence(4),
	})
	if err != nil && !apperrors.IsConflict(err) {
		cfg.Log.Error("Failed to add unavailable date", "practitioner_id", practitionerID, "error", err)
	}

	for day := 1; day <= seedDays; day++ {
		date := time.Now().UTC().AddDate(0, 0, day).Format("2006-01-02")

		schedule, err := slotService.Generate(ctx, practitionerID, date)
		if err != nil {
			cfg.Log.Error("Failed to generate slots", "practitioner_id", practitionerID, "date", date, "error", err)
			continue
		}

		booked := 0
		for _, slot := range schedule.Slots {
			if booked >= bookingsPerDay {
				break
			}
			if !slot.Available || !gofakeit.Bool() {
				continue
			}

			appointment := &model.Appointment{
				PractitionerID: practitionerID,
				PatientID:      primitive.NewObjectID().Hex(),
				Date:           date,
				StartTime:      slot.StartTime,
				EndTime:        slot.EndTime,
				DurationMin:    slot.DurationMin,
				Status:         gofakeit.RandomString([]string{model.StatusRequested, model.StatusConfirmed}),
				Notes:          gofakeit.Sentence(appointmentNotes),
			}
			if err := appointmentRepo.Create(ctx, appointment); err != nil {
				cfg.Log.Error("Failed to seed appointment", "practitioner_id", practitionerID, "date", date, "error", err)
				continue
			}
			booked++
		}

		cfg.Log.Info("Seeded day", "practitioner_id", practitionerID, "date", date, "appointments", booked)
	}
}
