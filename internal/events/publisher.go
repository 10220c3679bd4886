// Package events publishes order lifecycle events to kafka for the
// downstream notification and reporting consumers.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

const (
	OrderPlaced        = "order.placed"
	OrderStatusChanged = "order.status_changed"
	OrderDelivered     = "order.delivered"
)

type OrderEvent struct {
	EventID      string    `json:"event_id"`
	Type         string    `json:"type"`
	OrderID      int64     `json:"order_id"`
	OrderCode    string    `json:"order_code"`
	RestaurantID int64     `json:"restaurant_id"`
	Status       string    `json:"status"`
	FinalTotal   float64   `json:"final_total,omitempty"`
	OccurredAt   time.Time `json:"occurred_at"`
}

// Publisher is what the order service needs; the kafka writer
// satisfies it and tests substitute a recorder.
type Publisher interface {
	Publish(ctx context.Context, ev OrderEvent) error
	Close() error
}

type kafkaPublisher struct {
	writer *kafka.Writer
}

func NewKafkaPublisher(brokers []string, topic string) Publisher {
	return &kafkaPublisher{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Topic:                  topic,
			Balancer:               &kafka.CRC32Balancer{},
			AllowAutoTopicCreation: true,
		},
	}
}

func (p *kafkaPublisher) Publish(ctx context.Context, ev OrderEvent) error {
	if ev.EventID == "" {
		ev.EventID = uuid.NewString()
	}
	if ev.OccurredAt.IsZero() {
		ev.OccurredAt = time.Now().UTC()
	}

	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}

	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(ev.OrderCode),
		Value: payload,
	})
}

func (p *kafkaPublisher) Close() error {
	return p.writer.Close()
}
