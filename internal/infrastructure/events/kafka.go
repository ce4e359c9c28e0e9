// Package events publishes order lifecycle events.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	kafkaGo "github.com/segmentio/kafka-go"

	"pix-checkout/internal/domain"
)

// messageWriter is the subset of *kafkaGo.Writer used here.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkaGo.Message) error
	Close() error
}

type KafkaPublisher struct {
	w messageWriter
}

func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return &KafkaPublisher{w: &kafkaGo.Writer{
		Addr:         kafkaGo.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafkaGo.Hash{},
		RequiredAcks: kafkaGo.RequireOne,
		BatchTimeout: 10 * time.Millisecond,
	}}
}

// Publish writes e keyed by order id so events of one order stay ordered.
func (p *KafkaPublisher) Publish(ctx context.Context, e domain.OrderEvent) error {
	msg, err := message(e)
	if err != nil {
		return err
	}
	return p.w.WriteMessages(ctx, msg)
}

func (p *KafkaPublisher) Close() error { return p.w.Close() }

func message(e domain.OrderEvent) (kafkaGo.Message, error) {
	payload, err := json.Marshal(e)
	if err != nil {
		return kafkaGo.Message{}, fmt.Errorf("failed to marshal event: %w", err)
	}
	return kafkaGo.Message{
		Key:     []byte(e.OrderID),
		Value:   payload,
		Time:    e.At,
		Headers: []kafkaGo.Header{{Key: "type", Value: []byte(e.Type)}},
	}, nil
}

// Nop discards events. Used when no brokers are configured.
type Nop struct{}

func (Nop) Publish(context.Context, domain.OrderEvent) error { return nil }

func (Nop) Close() error { return nil }
