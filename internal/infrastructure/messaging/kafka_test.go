package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	"go-appointment-booking/internal/domain/entity"
	"go-appointment-booking/internal/service"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/datatypes"
)

type recordingWriter struct {
	messages []kafka.Message
	err      error
}

func (w *recordingWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *recordingWriter) Close() error { return nil }

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func sampleEvent() service.AppointmentEvent {
	appt := &entity.Appointment{
		ID:         uuid.New(),
		PatientID:  uuid.New(),
		ProviderID: uuid.New(),
		Date:       datatypes.Date(time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)),
		StartTime:  datatypes.NewTime(9, 30, 0, 0),
		Status:     entity.AppointmentStatusPending,
	}
	return service.NewAppointmentEvent(service.EventAppointmentBooked, appt, "")
}

func TestKafkaEventPublisher_Publish(t *testing.T) {
	otel.SetTextMapPropagator(propagation.TraceContext{})

	writer := &recordingWriter{}
	publisher := &KafkaEventPublisher{writer: writer, log: quietLogger()}
	event := sampleEvent()

	spanCtx := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    trace.TraceID{0x01},
		SpanID:     trace.SpanID{0x02},
		TraceFlags: trace.FlagsSampled,
	})
	ctx := trace.ContextWithSpanContext(context.Background(), spanCtx)

	require.NoError(t, publisher.Publish(ctx, event))
	require.Len(t, writer.messages, 1)

	msg := writer.messages[0]
	assert.Equal(t, event.ProviderID.String(), string(msg.Key))

	headers := map[string]string{}
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	assert.Equal(t, event.EventID.String(), headers["event_id"])
	assert.Equal(t, service.EventAppointmentBooked, headers["event_type"])
	assert.NotEmpty(t, headers["traceparent"])

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, "2026-10-19", decoded["date"])
	assert.Equal(t, "09:30", decoded["start_time"])
	assert.Equal(t, "pending", decoded["status"])
}

func TestKafkaEventPublisher_WriteError(t *testing.T) {
	writer := &recordingWriter{err: errors.New("broker down")}
	publisher := &KafkaEventPublisher{writer: writer, log: quietLogger()}

	err := publisher.Publish(context.Background(), sampleEvent())
	assert.ErrorContains(t, err, "broker down")
}

func TestSplitBrokers(t *testing.T) {
	assert.Equal(t, []string{"a:9092", "b:9092"}, SplitBrokers(" a:9092, ,b:9092 "))
	assert.Empty(t, SplitBrokers(""))
}
