// Package events publishes rate lifecycle events to Kafka.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/SscSPs/rental_fx/internal/core/domain"
	portssvc "github.com/SscSPs/rental_fx/internal/core/ports/services"
	"github.com/segmentio/kafka-go"
)

// messageWriter is the part of *kafka.Writer the publisher needs.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes JSON encoded events to a single topic.
type KafkaPublisher struct {
	writer messageWriter
	topic  string
}

var _ portssvc.RateEventPublisher = (*KafkaPublisher)(nil)

// NewKafkaPublisher creates a publisher writing to topic on brokers.
func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.LeastBytes{},
			RequiredAcks: kafka.RequireOne,
			WriteTimeout: 10 * time.Second,
		},
		topic: topic,
	}
}

func newKafkaPublisherWithWriter(w messageWriter, topic string) *KafkaPublisher {
	return &KafkaPublisher{writer: w, topic: topic}
}

// PublishRatesRefreshed writes event keyed by its base currency.
func (p *KafkaPublisher) PublishRatesRefreshed(ctx context.Context, event domain.RatesRefreshedEvent) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal rates refreshed event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(event.Base.String()),
		Value: value,
		Time:  event.FetchedAt,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte("rates.refreshed")},
			{Key: "event_id", Value: []byte(event.EventID)},
		},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", p.topic, err)
	}
	return nil
}

// Close flushes and closes the underlying writer.
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// NoopPublisher discards events. Used when no brokers are configured.
type NoopPublisher struct{}

var _ portssvc.RateEventPublisher = NoopPublisher{}

func (NoopPublisher) PublishRatesRefreshed(context.Context, domain.RatesRefreshedEvent) error {
	return nil
}

func (NoopPublisher) Close() error { return nil }
