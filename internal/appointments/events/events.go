package events

import (
	"context"
	"time"

	"ayurclinic/pkg/kafka"
	"ayurclinic/pkg/logger"
	"ayurclinic/pkg/model"
)

// AppointmentEvent is the payload published for every lifecycle change.
type AppointmentEvent struct {
	AppointmentID  string `json:"appointment_id"`
	PractitionerID string `json:"practitioner_id"`
	PatientID      string `json:"patient_id"`
	Date           string `json:"date"`
	StartTime      string `json:"start_time"`
	EndTime        string `json:"end_time"`
	Status         string `json:"status"`
}

// Publisher emits appointment lifecycle events. Publishing is best-effort:
// a failed publish never fails the committed booking.
type Publisher interface {
	Publish(ctx context.Context, eventType string, appointment *model.Appointment)
}

type kafkaPublisher struct {
	producer *kafka.Producer
	log      *logger.Logger
}

func NewKafkaPublisher(producer *kafka.Producer, log *logger.Logger) Publisher {
	return &kafkaPublisher{
		producer: producer,
		log:      log,
	}
}

func (p *kafkaPublisher) Publish(ctx context.Context, eventType string, appointment *model.Appointment) {
	msg := kafka.NewMessage().
		WithKey(appointment.PractitionerID).
		WithEventType(eventType).
		WithSource("clinic").
		WithSchemaVersion("1").
		WithValue(AppointmentEvent{
			AppointmentID:  appointment.ID,
			PractitionerID: appointment.PractitionerID,
			PatientID:      appointment.PatientID,
			Date:           appointment.Date,
			StartTime:      appointment.StartTime.UTC().Format(time.RFC3339),
			EndTime:        appointment.EndTime.UTC().Format(time.RFC3339),
			Status:         appointment.Status,
		}).
		Build()

	if err := p.producer.Publish(ctx, msg); err != nil {
		p.log.Error("Failed to publish appointment event",
			"event_type", eventType,
			"appointment_id", appointment.ID,
			"error", err,
		)
	}
}

type noopPublisher struct{}

// NewNoopPublisher is used when Kafka is disabled.
func NewNoopPublisher() Publisher {
	return noopPublisher{}
}

func (noopPublisher) Publish(context.Context, string, *model.Appointment) {}
