package email

import (
	"context"
	"fmt"
	"strings"

	"github.com/Domenick1991/flightbooking/internal/kafka"
	"go.uber.org/zap"
)

// Sender formats booking confirmations for the lead passenger. Actual
// SMTP delivery is out of scope; the rendered message is logged so the
// worker's pipeline stays observable end to end.
type Sender struct {
	log *zap.Logger
}

func NewSender(log *zap.Logger) *Sender {
	return &Sender{log: log}
}

func (s *Sender) Send(ctx context.Context, event kafka.BookingEvent) error {
	if len(event.Passengers) == 0 {
		return fmt.Errorf("event %s for booking %s has no passengers", event.Type, event.BookingID)
	}

	lead := event.Passengers[0]
	subject := fmt.Sprintf("Booking Confirmation - PNR: %s", event.PNR)
	body := Body(event)

	s.log.Info("sending confirmation email",
		zap.String("to", lead.Email),
		zap.String("subject", subject),
		zap.String("booking_id", event.BookingID),
	)
	s.log.Debug("email body", zap.String("body", body))
	return nil
}

func Body(event kafka.BookingEvent) string {
	lead := event.Passengers[0]
	var b strings.Builder
	fmt.Fprintf(&b, "Dear %s %s,\n\n", lead.FirstName, lead.LastName)
	b.WriteString("Your booking has been confirmed with the following details:\n")
	fmt.Fprintf(&b, "  PNR: %s\n", event.PNR)
	fmt.Fprintf(&b, "  Booking ID: %s\n", event.BookingID)
	fmt.Fprintf(&b, "  Status: %s\n", event.Status)
	fmt.Fprintf(&b, "  Passengers: %d\n", len(event.Passengers))
	b.WriteString("\nThank you for your booking!\n")
	return b.String()
}
