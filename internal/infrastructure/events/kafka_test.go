package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	kafkaGo "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pix-checkout/internal/domain"
)

type fakeWriter struct {
	msgs []kafkaGo.Message
	err  error
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafkaGo.Message) error {
	f.msgs = append(f.msgs, msgs...)
	return f.err
}

func (f *fakeWriter) Close() error { return nil }

func TestPublishKeysByOrder(t *testing.T) {
	w := &fakeWriter{}
	p := &KafkaPublisher{w: w}
	at := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

	err := p.Publish(context.Background(), domain.OrderEvent{
		Type:    domain.EventOrderStatusChanged,
		OrderID: "o1",
		Status:  domain.OrderDeclined,
		At:      at,
	})
	require.NoError(t, err)
	require.Len(t, w.msgs, 1)

	msg := w.msgs[0]
	assert.Equal(t, "o1", string(msg.Key))
	assert.Equal(t, at, msg.Time)
	require.Len(t, msg.Headers, 1)
	assert.Equal(t, domain.EventOrderStatusChanged, string(msg.Headers[0].Value))

	var got domain.OrderEvent
	require.NoError(t, json.Unmarshal(msg.Value, &got))
	assert.Equal(t, domain.OrderDeclined, got.Status)
}

func TestPublishReturnsWriterError(t *testing.T) {
	w := &fakeWriter{err: errors.New("broker down")}
	p := &KafkaPublisher{w: w}
	err := p.Publish(context.Background(), domain.OrderEvent{Type: domain.EventOrderCreated, OrderID: "o1"})
	assert.EqualError(t, err, "broker down")
}
