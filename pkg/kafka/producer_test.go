package kafka

import (
	"context"
	"errors"
	"testing"

	"roombook/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildMessage(t *testing.T) Message {
	t.Helper()
	msg, err := NewMessage().
		WithKey("booking-1").
		WithValue(map[string]string{"room": "I-Room"}).
		WithEventType("booking.created").
		Build()
	require.NoError(t, err)
	return msg
}

func TestProducer_Publish(t *testing.T) {
	w := &fakeWriter{}
	p := newProducer(w, nil, "booking-events", logger.NewNop())

	var seen []string
	p.Use(func(ctx context.Context, msg Message, next MessageHandler) error {
		seen = append(seen, msg.Topic)
		return next(ctx, msg)
	})

	require.NoError(t, p.Publish(context.Background(), buildMessage(t)))

	written := w.messages()
	require.Len(t, written, 1)
	assert.Equal(t, "booking-1", string(written[0].Key))
	assert.JSONEq(t, `{"room":"I-Room"}`, string(written[0].Value))
	assert.Equal(t, "booking.created", headerValue(written[0], HeaderEventType))
	assert.NotEmpty(t, headerValue(written[0], HeaderEventID))
	assert.Equal(t, []string{"booking-events"}, seen)
}

func TestProducer_RejectsIncompleteMessages(t *testing.T) {
	p := newProducer(&fakeWriter{}, nil, "t", logger.NewNop())
	ctx := context.Background()

	assert.ErrorIs(t, p.Publish(ctx, Message{Value: []byte("x")}), ErrEmptyKey)
	assert.ErrorIs(t, p.Publish(ctx, Message{Key: "k"}), ErrEmptyValue)

	require.NoError(t, p.Close())
	assert.ErrorIs(t, p.Publish(ctx, buildMessage(t)), ErrProducerClosed)
}

func TestProducer_FailedWriteGoesToDLQ(t *testing.T) {
	cause := errors.New("connection refused")
	dlq := &fakeWriter{}
	p := newProducer(&fakeWriter{err: cause}, dlq, "booking-events", logger.NewNop())

	err := p.Publish(context.Background(), buildMessage(t))
	assert.ErrorIs(t, err, cause)

	parked := dlq.messages()
	require.Len(t, parked, 1)
	assert.Equal(t, "booking-events", headerValue(parked[0], HeaderOriginalTopic))
	assert.Equal(t, "connection refused", headerValue(parked[0], HeaderDLQError))
}

func TestProducer_CloseIsIdempotent(t *testing.T) {
	w, dlq := &fakeWriter{}, &fakeWriter{}
	p := newProducer(w, dlq, "t", logger.NewNop())

	require.NoError(t, p.Close())
	require.NoError(t, p.Close())
	assert.True(t, w.closed)
	assert.True(t, dlq.closed)
}
