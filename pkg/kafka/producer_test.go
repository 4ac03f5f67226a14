package kafka

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	mu       sync.Mutex
	messages []kafka.Message
	err      error
	closed   bool
}

func (w *fakeWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func headerValue(msg kafka.Message, key string) string {
	for _, h := range msg.Headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}

func buildMessage(t *testing.T) Message {
	t.Helper()
	msg, err := NewMessage().
		WithKey("booking-1").
		WithValue(map[string]string{"id": "booking-1"}).
		WithEventType("booking.confirmed").
		WithSource("booking-flow").
		WithSchemaVersion("1").
		Build()
	require.NoError(t, err)
	return msg
}

func TestPublish_WritesHeaders(t *testing.T) {
	w := &fakeWriter{}
	p := newProducer(w, nil, "booking.events", "")

	require.NoError(t, p.Publish(context.Background(), buildMessage(t)))

	require.Len(t, w.messages, 1)
	got := w.messages[0]
	assert.Equal(t, "booking-1", string(got.Key))
	assert.JSONEq(t, `{"id":"booking-1"}`, string(got.Value))
	assert.Equal(t, "booking.confirmed", headerValue(got, HeaderEventType))
	assert.Equal(t, "booking-flow", headerValue(got, HeaderSource))
	assert.NotEmpty(t, headerValue(got, HeaderEventID))
	assert.NotEmpty(t, headerValue(got, HeaderTimestamp))
}

func TestPublish_RejectsEmptyKeyAndValue(t *testing.T) {
	p := newProducer(&fakeWriter{}, nil, "t", "")

	err := p.Publish(context.Background(), Message{Value: []byte("x")})
	assert.ErrorIs(t, err, ErrEmptyKey)

	err = p.Publish(context.Background(), Message{Key: "k"})
	assert.ErrorIs(t, err, ErrEmptyValue)
}

func TestPublish_AfterClose(t *testing.T) {
	w := &fakeWriter{}
	p := newProducer(w, nil, "t", "")
	require.NoError(t, p.Close())
	assert.True(t, w.closed)

	err := p.Publish(context.Background(), buildMessage(t))
	assert.ErrorIs(t, err, ErrProducerClosed)
	assert.NoError(t, p.Close())
}

func TestPublish_FailureGoesToDLQ(t *testing.T) {
	writeErr := errors.New("leader not available")
	main := &fakeWriter{err: writeErr}
	dlq := &fakeWriter{}
	p := newProducer(main, dlq, "booking.events", "booking.events.dlq")

	err := p.Publish(context.Background(), buildMessage(t))

	assert.ErrorIs(t, err, writeErr)
	require.Len(t, dlq.messages, 1)
	assert.Equal(t, "booking.events", headerValue(dlq.messages[0], HeaderOriginalTopic))
	assert.Equal(t, "leader not available", headerValue(dlq.messages[0], HeaderDLQError))
}

func TestPublish_MiddlewareOrder(t *testing.T) {
	p := newProducer(&fakeWriter{}, nil, "booking.events", "")
	var calls []string
	p.Use(func(ctx context.Context, msg Message, next func(context.Context, Message) error) error {
		calls = append(calls, "first:"+msg.Topic)
		return next(ctx, msg)
	})
	p.Use(func(ctx context.Context, msg Message, next func(context.Context, Message) error) error {
		calls = append(calls, "second")
		return next(ctx, msg)
	})

	require.NoError(t, p.Publish(context.Background(), buildMessage(t)))
	assert.Equal(t, []string{"first:booking.events", "second"}, calls)
}

func TestBuild_InvalidValue(t *testing.T) {
	_, err := NewMessage().WithKey("k").WithValue(make(chan int)).Build()
	assert.ErrorIs(t, err, ErrInvalidMessage)
}
