// Package events publishes order lifecycle events to Kafka. Publishing is
// best-effort: a broker failure is logged by the caller and never fails
// the originating request.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/buyapp/order-service/internal/domain"
)

const (
	TypeOrderCreated       = "order.created"
	TypeOrderStatusChanged = "order.status_changed"
	TypeOrderCancelled     = "order.cancelled"
)

type Envelope struct {
	EventID    string          `json:"eventId"`
	EventType  string          `json:"eventType"`
	OccurredAt time.Time       `json:"occurredAt"`
	Payload    json.RawMessage `json:"payload"`
}

type OrderEventPayload struct {
	OrderID     string             `json:"orderId"`
	UserID      string             `json:"userId"`
	Status      domain.OrderStatus `json:"status"`
	PrevStatus  domain.OrderStatus `json:"prevStatus,omitempty"`
	TotalAmount float64            `json:"totalAmount"`
}

type Publisher interface {
	PublishOrderCreated(ctx context.Context, order *domain.Order) error
	PublishOrderStatusChanged(ctx context.Context, order *domain.Order, prev domain.OrderStatus) error
	PublishOrderCancelled(ctx context.Context, order *domain.Order) error
	Close() error
}

type KafkaPublisher struct {
	writer *kafka.Writer
}

func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireOne,
			BatchTimeout: 10 * time.Millisecond,
		},
	}
}

func (p *KafkaPublisher) PublishOrderCreated(ctx context.Context, order *domain.Order) error {
	return p.publish(ctx, TypeOrderCreated, OrderEventPayload{
		OrderID:     order.ID,
		UserID:      order.UserID,
		Status:      order.Status,
		TotalAmount: order.TotalAmount,
	})
}

func (p *KafkaPublisher) PublishOrderStatusChanged(ctx context.Context, order *domain.Order, prev domain.OrderStatus) error {
	return p.publish(ctx, TypeOrderStatusChanged, OrderEventPayload{
		OrderID:     order.ID,
		UserID:      order.UserID,
		Status:      order.Status,
		PrevStatus:  prev,
		TotalAmount: order.TotalAmount,
	})
}

func (p *KafkaPublisher) PublishOrderCancelled(ctx context.Context, order *domain.Order) error {
	return p.publish(ctx, TypeOrderCancelled, OrderEventPayload{
		OrderID:     order.ID,
		UserID:      order.UserID,
		Status:      order.Status,
		TotalAmount: order.TotalAmount,
	})
}

func (p *KafkaPublisher) publish(ctx context.Context, eventType string, payload OrderEventPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal event payload: %w", err)
	}

	envelope := Envelope{
		EventID:    uuid.NewString(),
		EventType:  eventType,
		OccurredAt: time.Now().UTC(),
		Payload:    body,
	}

	value, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("marshal event envelope: %w", err)
	}

	// Keyed by order id so consumers see one order's events in order.
	msg := kafka.Message{
		Key:   []byte(payload.OrderID),
		Value: value,
		Headers: []kafka.Header{
			{Key: "event-type", Value: []byte(eventType)},
		},
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write kafka message: %w", err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// NoopPublisher is used when event publishing is disabled by configuration.
type NoopPublisher struct{}

func (NoopPublisher) PublishOrderCreated(context.Context, *domain.Order) error {
	return nil
}

func (NoopPublisher) PublishOrderStatusChanged(context.Context, *domain.Order, domain.OrderStatus) error {
	return nil
}

func (NoopPublisher) PublishOrderCancelled(context.Context, *domain.Order) error {
	return nil
}

func (NoopPublisher) Close() error { return nil }
