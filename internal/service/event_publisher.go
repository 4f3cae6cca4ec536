package service

import (
	"context"
	"time"

	"go-appointment-booking/internal/domain/entity"

	"github.com/google/uuid"
)

// Appointment event types, also used as the Kafka event_type header
const (
	EventAppointmentBooked        = "appointment.booked"
	EventAppointmentStatusChanged = "appointment.status_changed"
)

// Timeout for publishing one event after the transaction committed
const eventPublishTimeout = 5 * time.Second

// AppointmentEvent is published after an appointment change has committed.
type AppointmentEvent struct {
	EventID       uuid.UUID `json:"event_id"`
	EventType     string    `json:"event_type"`
	AppointmentID uuid.UUID `json:"appointment_id"`
	ProviderID    uuid.UUID `json:"provider_id"`
	PatientID     uuid.UUID `json:"patient_id"`
	Date          string    `json:"date"`
	StartTime     string    `json:"start_time"`
	Status        string    `json:"status"`
	OldStatus     string    `json:"old_status,omitempty"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// NewAppointmentEvent snapshots appointment into an event of the given type.
func NewAppointmentEvent(eventType string, appointment *entity.Appointment, oldStatus entity.AppointmentStatus) AppointmentEvent {
	return AppointmentEvent{
		EventID:       uuid.New(),
		EventType:     eventType,
		AppointmentID: appointment.ID,
		ProviderID:    appointment.ProviderID,
		PatientID:     appointment.PatientID,
		Date:          entity.FormatDate(appointment.Date),
		StartTime:     entity.FormatClock(appointment.StartTime),
		Status:        string(appointment.Status),
		OldStatus:     string(oldStatus),
		OccurredAt:    time.Now().UTC(),
	}
}

type EventPublisher interface {
	Publish(ctx context.Context, event AppointmentEvent) error
}

// NoopEventPublisher is used when no broker is configured.
type NoopEventPublisher struct{}

func (NoopEventPublisher) Publish(context.Context, AppointmentEvent) error { return nil }

// PublishDetached publishes without the request context so a client disconnect
// after commit does not drop the event. Failures are logged by the caller.
func PublishDetached(ctx context.Context, publisher EventPublisher, event AppointmentEvent) error {
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), eventPublishTimeout)
	defer cancel()
	return publisher.Publish(pubCtx, event)
}
