package notifications

import (
	"context"
	"errors"
	"net/textproto"
	"testing"
	"time"

	"roombook/pkg/kafka"
	"roombook/pkg/logger"
	"roombook/pkg/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sentMail struct {
	to, subject, body string
}

type fakeMailer struct {
	sent []sentMail
	err  error
}

func (m *fakeMailer) Send(_ context.Context, to, subject, body string) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentMail{to: to, subject: subject, body: body})
	return nil
}

func eventMessage(t *testing.T, recipient string) kafka.Message {
	t.Helper()
	e := NewEvent("e-1", model.ActionBooking, sampleBooking(), recipient, time.Date(2025, 3, 3, 8, 0, 0, 0, time.UTC))
	msg, err := kafka.NewMessage().WithKey(e.BookingID).WithValue(e).Build()
	require.NoError(t, err)
	return msg
}

func TestWorker_SendsMail(t *testing.T) {
	mailer := &fakeMailer{}
	w := NewWorker(mailer, "fallback@example.com", logger.NewNop())

	require.NoError(t, w.Handle(context.Background(), eventMessage(t, "facilities@example.com")))
	require.NoError(t, w.Handle(context.Background(), eventMessage(t, "")))

	require.Len(t, mailer.sent, 2)
	assert.Equal(t, "facilities@example.com", mailer.sent[0].to)
	assert.Equal(t, "fallback@example.com", mailer.sent[1].to)
	assert.Contains(t, mailer.sent[0].subject, "New booking")
}

func TestWorker_ErrorClassification(t *testing.T) {
	tests := []struct {
		name      string
		msg       func(t *testing.T) kafka.Message
		mailerErr error
		want      kafka.ErrorType
	}{
		{
			name: "garbage payload",
			msg: func(*testing.T) kafka.Message {
				return kafka.Message{Key: "k", Value: []byte("{"), Headers: map[string]string{}}
			},
			want: kafka.ErrorTypePermanent,
		},
		{
			name: "missing booking id",
			msg: func(*testing.T) kafka.Message {
				return kafka.Message{Key: "k", Value: []byte(`{"action":"Edit"}`), Headers: map[string]string{}}
			},
			want: kafka.ErrorTypePermanent,
		},
		{
			name: "bad recipient",
			msg:  func(t *testing.T) kafka.Message { return eventMessage(t, "not an address") },
			want: kafka.ErrorTypePermanent,
		},
		{
			name:      "relay down",
			msg:       func(t *testing.T) kafka.Message { return eventMessage(t, "a@example.com") },
			mailerErr: errors.New("dial tcp: connection refused"),
			want:      kafka.ErrorTypeTransient,
		},
		{
			name:      "relay refuses",
			msg:       func(t *testing.T) kafka.Message { return eventMessage(t, "a@example.com") },
			mailerErr: &textproto.Error{Code: 550, Msg: "mailbox unavailable"},
			want:      kafka.ErrorTypePermanent,
		},
		{
			name:      "relay greylists",
			msg:       func(t *testing.T) kafka.Message { return eventMessage(t, "a@example.com") },
			mailerErr: &textproto.Error{Code: 451, Msg: "try again later"},
			want:      kafka.ErrorTypeTransient,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := NewWorker(&fakeMailer{err: tt.mailerErr}, "", logger.NewNop())
			err := w.Handle(context.Background(), tt.msg(t))
			require.Error(t, err)
			assert.Equal(t, tt.want, kafka.ClassifyError(err))
		})
	}
}
