package domain

import "time"

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "PENDING"
	BookingStatusConfirmed BookingStatus = "CONFIRMED"
	BookingStatusCancelled BookingStatus = "CANCELLED"
)

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "PENDING"
	PaymentStatusCompleted PaymentStatus = "COMPLETED"
	PaymentStatusFailed    PaymentStatus = "FAILED"
)

type Passenger struct {
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	SeatNumber string `json:"seatNumber,omitempty"`
}

type PaymentDetails struct {
	Amount        float64       `json:"amount"`
	Currency      string        `json:"currency"`
	Status        PaymentStatus `json:"status"`
	TransactionID string        `json:"transactionId,omitempty"`
}

type Booking struct {
	BookingID      string
	FlightID       string
	Status         BookingStatus
	Passengers     []Passenger
	PaymentDetails PaymentDetails
	PNR            string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// validNext lists the transitions a client may request directly.
// PENDING -> CONFIRMED is deliberately absent: confirmation only
// happens through payment recording.
var validNext = map[BookingStatus]map[BookingStatus]bool{
	BookingStatusPending:   {BookingStatusCancelled: true},
	BookingStatusConfirmed: {BookingStatusCancelled: true},
	BookingStatusCancelled: {},
}

func CanTransition(from, to BookingStatus) bool {
	return validNext[from][to]
}

func ValidStatus(s BookingStatus) bool {
	switch s {
	case BookingStatusPending, BookingStatusConfirmed, BookingStatusCancelled:
		return true
	}
	return false
}
