package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

const (
	EventBookingConfirmed = "booking_confirmed"
	EventBookingCancelled = "booking_cancelled"
)

// BookingEvent is the notification payload consumed by the email worker.
type BookingEvent struct {
	Type         string    `json:"type"`
	BookingID    string    `json:"booking_id"`
	PNR          string    `json:"pnr"`
	Email        string    `json:"email"`
	FlightNumber string    `json:"flight_number"`
	From         string    `json:"from"`
	To           string    `json:"to"`
	Departure    time.Time `json:"departure"`
	Passengers   int       `json:"passengers"`
	TotalAmount  int64     `json:"total_amount"`
	RefundAmount int64     `json:"refund_amount,omitempty"`
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

	return p.writer.WriteMessages(ctx, kafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: data,
		Time:  time.Now(),
	})
}

func (p *Producer) Close() error {
	if p.writer != nil {
		return p.writer.Close()
	}
	return nil
}
