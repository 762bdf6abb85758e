package notifications

import (
	"context"
	"time"

	"roombook/pkg/clock"
	"roombook/pkg/kafka"
	"roombook/pkg/logger"
	"roombook/pkg/model"

	"github.com/google/uuid"
)

// MessagePublisher is the part of kafka.Producer the publisher needs.
type MessagePublisher interface {
	Publish(ctx context.Context, msg kafka.Message) error
}

// Publisher turns committed booking changes into events on the notification
// topic. Failures are logged and never returned.
type Publisher struct {
	producer  MessagePublisher
	recipient string
	timeout   time.Duration
	clock     clock.Clock
	log       *logger.Logger
}

func NewPublisher(producer MessagePublisher, recipient string, timeout time.Duration, clk clock.Clock, log *logger.Logger) *Publisher {
	if clk == nil {
		clk = clock.NewRealClock()
	}
	return &Publisher{
		producer:  producer,
		recipient: recipient,
		timeout:   timeout,
		clock:     clk,
		log:       log,
	}
}

func (p *Publisher) Notify(ctx context.Context, action model.Action, booking *model.Booking) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	now := p.clock.Now().UTC()
	event := NewEvent(uuid.NewString(), action, booking, p.recipient, now)

	msg, err := kafka.NewMessage().
		WithKey(booking.ID).
		WithValue(event).
		WithEventID(event.EventID).
		WithEventType(EventType(action)).
		WithSource(EventSource).
		WithSchemaVersion(EventSchemaVersion).
		WithTimestamp(now).
		Build()
	if err != nil {
		p.log.Error("Failed to build booking event", "booking_id", booking.ID, "action", action, "error", err)
		return
	}

	if err := p.producer.Publish(ctx, msg); err != nil {
		p.log.Error("Failed to publish booking event",
			"booking_id", booking.ID,
			"action", action,
			"event_id", event.EventID,
			"error", err,
		)
		return
	}

	p.log.Debug("Booking event published", "booking_id", booking.ID, "event_id", event.EventID)
}

// NopNotifier drops every notification.
type NopNotifier struct{}

func (NopNotifier) Notify(context.Context, model.Action, *model.Booking) {}
