package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mlukyanov/airticket/internal/domain"
	"github.com/segmentio/kafka-go"
)

// OrderEvent is published after a booking commits. It is the only event
// the system emits; consumers (the notifications worker) treat it as
// informational and never feed back into booking.
type OrderEvent struct {
	Type      string                  `json:"type"`
	Reference string                  `json:"reference"`
	UserID    int64                   `json:"user_id"`
	FlightID  int64                   `json:"flight_id"`
	Seats     []domain.SeatCoordinate `json:"seats"`
	CreatedAt time.Time               `json:"created_at"`
}

type Producer struct {
	writer *kafka.Writer
}

func NewProducer(brokers []string) *Producer {
	return &Producer{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Balancer:     &kafka.LeastBytes{},
			BatchTimeout: 50 * time.Millisecond,
			RequiredAcks: kafka.RequireOne,
		},
	}
}

func (p *Producer) Publish(ctx context.Context, topic, key string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	msg := kafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: data,
		Time:  time.Now(),
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to write message to kafka: %w", err)
	}
	return nil
}

func (p *Producer) Close() error {
	if p.writer != nil {
		return p.writer.Close()
	}
	return nil
}
