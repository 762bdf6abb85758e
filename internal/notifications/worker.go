package notifications

import (
	"context"
	"fmt"
	"net/mail"

	"roombook/pkg/kafka"
	"roombook/pkg/logger"
)

// Worker relays booking events from the notification topic as e-mail.
type Worker struct {
	mailer           Mailer
	defaultRecipient string
	log              *logger.Logger
}

func NewWorker(mailer Mailer, defaultRecipient string, log *logger.Logger) *Worker {
	return &Worker{
		mailer:           mailer,
		defaultRecipient: defaultRecipient,
		log:              log,
	}
}

// Handle is a kafka.MessageHandler. Undecodable events and refused addresses
// are permanent; relay outages are transient.
func (w *Worker) Handle(ctx context.Context, msg kafka.Message) error {
	var event Event
	if err := msg.DecodeValue(&event); err != nil {
		return err
	}
	if event.BookingID == "" || event.Action == "" {
		return kafka.NewPermanentError("invalid message", fmt.Errorf("event %s is missing booking id or action", msg.GetEventID()))
	}

	to := event.Recipient
	if to == "" {
		to = w.defaultRecipient
	}
	if _, err := mail.ParseAddress(to); err != nil {
		return kafka.NewPermanentError("invalid recipient", err)
	}

	if err := w.mailer.Send(ctx, to, event.Subject(), event.Body()); err != nil {
		if IsPermanentSMTPError(err) {
			return kafka.NewPermanentError("relay refused message", err)
		}
		return kafka.NewTransientError("relay unavailable", err)
	}

	w.log.Info("Booking notification sent",
		"event_id", event.EventID,
		"booking_id", event.BookingID,
		"action", event.Action,
		"to", to,
	)
	return nil
}
