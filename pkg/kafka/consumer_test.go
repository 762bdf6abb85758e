package kafka

import (
	"context"
	"errors"
	"testing"

	"roombook/pkg/logger"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConsumer_ProcessesAndCommits(t *testing.T) {
	reader := &fakeReader{queue: []kafka.Message{
		{Key: []byte("a"), Value: []byte(`{}`), Offset: 1},
		{Key: []byte("b"), Value: []byte(`{}`), Offset: 2},
	}}

	var keys []string
	c := newConsumer(reader, nil, "booking-events", "group", func(_ context.Context, msg Message) error {
		keys = append(keys, msg.Key)
		return nil
	}, logger.NewNop())

	require.NoError(t, c.Start(context.Background()))
	assert.Equal(t, []string{"a", "b"}, keys)
	assert.Len(t, reader.committed, 2)
}

func TestConsumer_RetriesTransientFailures(t *testing.T) {
	reader := &fakeReader{queue: []kafka.Message{{Key: []byte("a"), Value: []byte(`{}`)}}}

	attempts := 0
	c := newConsumer(reader, nil, "t", "g", func(context.Context, Message) error {
		attempts++
		if attempts < 3 {
			return NewTransientError("smtp", errors.New("i/o timeout"))
		}
		return nil
	}, logger.NewNop())
	c.maxRetries = 3

	require.NoError(t, c.Start(context.Background()))
	assert.Equal(t, 3, attempts)
	assert.Len(t, reader.committed, 1)
}

func TestConsumer_PermanentFailureGoesToDLQ(t *testing.T) {
	reader := &fakeReader{queue: []kafka.Message{{Key: []byte("a"), Value: []byte(`not json`)}}}
	dlq := &fakeWriter{}

	attempts := 0
	c := newConsumer(reader, dlq, "booking-events", "notifier", func(_ context.Context, msg Message) error {
		attempts++
		var v map[string]any
		return msg.DecodeValue(&v)
	}, logger.NewNop())
	c.maxRetries = 3

	require.NoError(t, c.Start(context.Background()))
	assert.Equal(t, 1, attempts)

	parked := dlq.messages()
	require.Len(t, parked, 1)
	assert.Equal(t, "notifier", headerValue(parked[0], HeaderDLQGroup))
	assert.Len(t, reader.committed, 1, "failed messages are committed after parking")
}

func TestConsumer_RetriesExhausted(t *testing.T) {
	reader := &fakeReader{queue: []kafka.Message{{Key: []byte("a"), Value: []byte(`{}`)}}}
	dlq := &fakeWriter{}

	attempts := 0
	c := newConsumer(reader, dlq, "t", "g", func(context.Context, Message) error {
		attempts++
		return errors.New("connection reset by peer")
	}, logger.NewNop())
	c.maxRetries = 2

	require.NoError(t, c.Start(context.Background()))
	assert.Equal(t, 3, attempts)
	require.Len(t, dlq.messages(), 1)
	assert.Equal(t, "2", headerValue(dlq.messages()[0], HeaderRetryCount))
}

func TestConsumer_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := newConsumer(&fakeReader{}, nil, "t", "g", func(context.Context, Message) error { return nil }, logger.NewNop())
	assert.ErrorIs(t, c.Start(ctx), context.Canceled)
}

func TestConsumer_Middleware(t *testing.T) {
	reader := &fakeReader{queue: []kafka.Message{{Key: []byte("a"), Value: []byte(`{}`)}}}

	var order []string
	c := newConsumer(reader, nil, "t", "g", func(context.Context, Message) error {
		order = append(order, "handler")
		return nil
	}, logger.NewNop())
	c.Use(func(ctx context.Context, msg Message, next MessageHandler) error {
		order = append(order, "outer")
		return next(ctx, msg)
	})
	c.Use(func(ctx context.Context, msg Message, next MessageHandler) error {
		order = append(order, "inner")
		return next(ctx, msg)
	})

	require.NoError(t, c.Start(context.Background()))
	assert.Equal(t, []string{"outer", "inner", "handler"}, order)
}

func TestConsumer_StartAfterClose(t *testing.T) {
	c := newConsumer(&fakeReader{}, nil, "t", "g", func(context.Context, Message) error { return nil }, logger.NewNop())
	require.NoError(t, c.Close())
	assert.ErrorIs(t, c.Start(context.Background()), ErrConsumerClosed)
}
