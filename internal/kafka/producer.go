package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Domenick1991/flightbooking/internal/domain"
	"github.com/segmentio/kafka-go"
)

const (
	EventBookingCreated   = "booking_created"
	EventBookingConfirmed = "booking_confirmed"
	EventBookingCancelled = "booking_cancelled"
)

// BookingEvent carries the full booking so the notification worker
// never has to read the store.
type BookingEvent struct {
	Type       string                `json:"type"`
	BookingID  string                `json:"booking_id"`
	FlightID   string                `json:"flight_id"`
	PNR        string                `json:"pnr"`
	Status     string                `json:"status"`
	Passengers []domain.Passenger    `json:"passengers"`
	Payment    domain.PaymentDetails `json:"payment"`
	OccurredAt time.Time             `json:"occurred_at"`
}

func NewBookingEvent(eventType string, b *domain.Booking) BookingEvent {
	return BookingEvent{
		Type:       eventType,
		BookingID:  b.BookingID,
		FlightID:   b.FlightID,
		PNR:        b.PNR,
		Status:     string(b.Status),
		Passengers: b.Passengers,
		Payment:    b.PaymentDetails,
		OccurredAt: time.Now().UTC(),
	}
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
		return fmt.Errorf("marshal payload: %w", err)
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
