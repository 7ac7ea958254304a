package email

import (
	"context"
	"testing"

	"github.com/Domenick1991/flightbooking/internal/domain"
	"github.com/Domenick1991/flightbooking/internal/kafka"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func confirmedEvent() kafka.BookingEvent {
	return kafka.BookingEvent{
		Type:      kafka.EventBookingConfirmed,
		BookingID: "b-1",
		FlightID:  "AI101",
		PNR:       "A1B2C3",
		Status:    string(domain.BookingStatusConfirmed),
		Passengers: []domain.Passenger{
			{FirstName: "John", LastName: "Doe", Email: "john.doe@example.com", Phone: "+1234567890"},
			{FirstName: "Jane", LastName: "Doe", Email: "jane.doe@example.com", Phone: "+1234567891"},
		},
	}
}

func TestBody(t *testing.T) {
	body := Body(confirmedEvent())

	assert.Contains(t, body, "Dear John Doe")
	assert.Contains(t, body, "PNR: A1B2C3")
	assert.Contains(t, body, "Booking ID: b-1")
	assert.Contains(t, body, "Status: CONFIRMED")
	assert.Contains(t, body, "Passengers: 2")
}

func TestSend(t *testing.T) {
	sender := NewSender(zap.NewNop())
	assert.NoError(t, sender.Send(context.Background(), confirmedEvent()))
}

func TestSend_NoPassengers(t *testing.T) {
	sender := NewSender(zap.NewNop())
	event := confirmedEvent()
	event.Passengers = nil

	assert.Error(t, sender.Send(context.Background(), event))
}
