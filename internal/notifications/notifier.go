package notifications

import (
	"context"
	"fmt"

	"ayurclinic/internal/appointments/events"
	"ayurclinic/pkg/kafka"
	"ayurclinic/pkg/logger"
)

// Notification is one message destined for a patient.
type Notification struct {
	PatientID      string
	PractitionerID string
	AppointmentID  string
	Message        string
}

// Notifier delivers notifications. Delivery channels (SMS, email) plug in
// behind this interface; the worker ships with a log-only implementation.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

type logNotifier struct {
	log *logger.Logger
}

func NewLogNotifier(log *logger.Logger) Notifier {
	return &logNotifier{log: log}
}

func (n *logNotifier) Notify(ctx context.Context, notification Notification) error {
	n.log.Info("Notification dispatched",
		"patient_id", notification.PatientID,
		"practitioner_id", notification.PractitionerID,
		"appointment_id", notification.AppointmentID,
		"message", notification.Message,
	)
	return nil
}

// NewEventHandler turns appointment lifecycle events into patient
// notifications. Unknown event types are acknowledged without action so
// schema additions never pile up in the DLQ.
func NewEventHandler(notifier Notifier, log *logger.Logger) kafka.MessageHandler {
	return func(ctx context.Context, msg kafka.Message) error {
		var event events.AppointmentEvent
		if err := msg.DecodeValue(&event); err != nil {
			return kafka.NewPermanentError("failed to decode appointment event", err)
		}

		message, ok := notificationMessage(msg.GetEventType(), event)
		if !ok {
			log.Warn("Ignoring unknown event type", "event_type", msg.GetEventType(), "event_id", msg.GetEventID())
			return nil
		}

		return notifier.Notify(ctx, Notification{
			PatientID:      event.PatientID,
			PractitionerID: event.PractitionerID,
			AppointmentID:  event.AppointmentID,
			Message:        message,
		})
	}
}

func notificationMessage(eventType string, event events.AppointmentEvent) (string, bool) {
	switch eventType {
	case kafka.EventAppointmentBooked:
		return fmt.Sprintf("Your appointment on %s at %s has been requested.", event.Date, event.StartTime), true
	case kafka.EventAppointmentConfirmed:
		return fmt.Sprintf("Your appointment on %s at %s is confirmed.", event.Date, event.StartTime), true
	case kafka.EventAppointmentCancelled:
		return fmt.Sprintf("Your appointment on %s has been cancelled.", event.Date), true
	case kafka.EventAppointmentCompleted:
		return fmt.Sprintf("Thank you for visiting. Your appointment on %s is complete.", event.Date), true
	case kafka.EventAppointmentRescheduled:
		return fmt.Sprintf("Your appointment has been moved to %s at %s.", event.Date, event.StartTime), true
	default:
		return "", false
	}
}
