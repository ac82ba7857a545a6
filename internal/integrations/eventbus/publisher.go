package eventbus

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"github.com/m04kA/SMC-DetailingService/internal/domain"
)

// Writer часть kafka.Writer, которая нужна издателю
type Writer interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Publisher публикует события о записях в Kafka
// Ключ сообщения — ID записи, чтобы события одной записи шли в одну партицию
type Publisher struct {
	writer Writer
	log    Logger
	now    func() time.Time
}

// NewPublisher создает издателя поверх kafka.Writer
func NewPublisher(brokers []string, topic string, log Logger) *Publisher {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		BatchTimeout: 10 * time.Millisecond,
	}
	return NewPublisherWithWriter(writer, log)
}

// NewPublisherWithWriter создает издателя с произвольным writer (для тестов)
func NewPublisherWithWriter(writer Writer, log Logger) *Publisher {
	return &Publisher{writer: writer, log: log, now: time.Now}
}

// AppointmentBooked публикует событие о новой записи
func (p *Publisher) AppointmentBooked(ctx context.Context, appt *domain.Appointment) error {
	return p.publish(ctx, newEvent(EventAppointmentBooked, appt, "", p.now()))
}

// AppointmentStatusChanged публикует событие о смене статуса
func (p *Publisher) AppointmentStatusChanged(ctx context.Context, appt *domain.Appointment, previous domain.AppointmentStatus) error {
	return p.publish(ctx, newEvent(EventAppointmentStatusChanged, appt, previous, p.now()))
}

// Close закрывает writer
func (p *Publisher) Close() error {
	return p.writer.Close()
}

func (p *Publisher) publish(ctx context.Context, evt AppointmentEvent) error {
	payload, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMarshal, err)
	}

	msg := kafka.Message{
		Key:   []byte(evt.AppointmentID),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event_id", Value: []byte(evt.EventID)},
			{Key: "event_type", Value: []byte(evt.EventType)},
		},
	}
	msg.Headers = injectTraceHeaders(ctx, msg.Headers)

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.log.Error("Eventbus: failed to publish %s for appointment=%s: %v", evt.EventType, evt.AppointmentID, err)
		return fmt.Errorf("%w: %v", ErrPublish, err)
	}

	p.log.Info("Eventbus: published %s for appointment=%s", evt.EventType, evt.AppointmentID)
	return nil
}

func newEvent(eventType string, appt *domain.Appointment, previous domain.AppointmentStatus, now time.Time) AppointmentEvent {
	return AppointmentEvent{
		EventID:         uuid.NewString(),
		EventType:       eventType,
		AppointmentID:   appt.ID.String(),
		UserID:          appt.UserID.String(),
		ServiceID:       appt.ServiceID.String(),
		AppointmentDate: appt.AppointmentDate.Format(domain.DateFormat),
		StartTime:       appt.StartTime.String(),
		EndTime:         appt.EndTime.String(),
		Status:          string(appt.Status),
		PreviousStatus:  string(previous),
		OccurredAt:      now.UTC(),
	}
}

// Noop издатель, который ничего не отправляет (Kafka выключена)
type Noop struct{}

func (Noop) AppointmentBooked(context.Context, *domain.Appointment) error { return nil }

func (Noop) AppointmentStatusChanged(context.Context, *domain.Appointment, domain.AppointmentStatus) error {
	return nil
}

func (Noop) Close() error { return nil }

// injectTraceHeaders добавляет W3C trace context в заголовки сообщения
func injectTraceHeaders(ctx context.Context, headers []kafka.Header) []kafka.Header {
	carrier := &headerCarrier{headers: headers}
	otel.GetTextMapPropagator().Inject(ctx, carrier)
	return carrier.headers
}

type headerCarrier struct {
	headers []kafka.Header
}

func (c *headerCarrier) Get(key string) string {
	for _, h := range c.headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}

func (c *headerCarrier) Set(key, value string) {
	for i := range c.headers {
		if c.headers[i].Key == key {
			c.headers[i].Value = []byte(value)
			return
		}
	}
	c.headers = append(c.headers, kafka.Header{Key: key, Value: []byte(value)})
}

func (c *headerCarrier) Keys() []string {
	keys := make([]string, 0, len(c.headers))
	for _, h := range c.headers {
		keys = append(keys, h.Key)
	}
	return keys
}

var _ propagation.TextMapCarrier = (*headerCarrier)(nil)
