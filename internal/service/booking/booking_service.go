package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Domenick1991/flightbooking/internal/domain"
	"github.com/Domenick1991/flightbooking/internal/kafka"
	"github.com/Domenick1991/flightbooking/internal/pnr"
	"github.com/Domenick1991/flightbooking/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type BookingUseCase interface {
	Create(ctx context.Context, input CreateBookingInput) (*domain.Booking, error)
	Get(ctx context.Context, bookingID string) (*domain.Booking, error)
	FindByPNR(ctx context.Context, pnr string) (*domain.Booking, error)
	Update(ctx context.Context, bookingID string, input UpdateBookingInput) (*domain.Booking, error)
	Cancel(ctx context.Context, bookingID string) (*domain.Booking, error)
	RecordPayment(ctx context.Context, bookingID string, input PaymentInput) (*domain.Booking, error)
	ReservationSummary(ctx context.Context, bookingID string) (*ReservationSummary, error)
}

// AvailabilityClient is a point-in-time read against the flight-search
// service. It holds no seats, so availability can change between the
// check and the insert; the window is accepted.
type AvailabilityClient interface {
	GetFlight(ctx context.Context, flightID string) (*domain.Flight, error)
}

type Cache interface {
	GetFlight(ctx context.Context, flightID string) (*domain.Flight, error)
	SetFlight(ctx context.Context, flightID string, flight *domain.Flight) error
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

type BookingService struct {
	bookings           repository.BookingRepository
	flights            AvailabilityClient
	cache              Cache
	producer           Producer
	log                *zap.Logger
	eventsTopic        string
	notificationsTopic string
	pnrAttempts        int
}

type CreateBookingInput struct {
	FlightID   string
	Passengers []domain.Passenger
	Amount     float64
	Currency   string
}

type UpdateBookingInput struct {
	Passengers []domain.Passenger   // nil keeps the current list
	Status     domain.BookingStatus // empty keeps the current status
}

type PaymentInput struct {
	Amount         float64
	Currency       string
	TransactionRef string
}

type ReservationSummary struct {
	PNR             string               `json:"pnr"`
	Status          domain.BookingStatus `json:"status"`
	PassengersCount int                  `json:"passengersCount"`
	CreatedAt       time.Time            `json:"createdAt"`
}

const defaultPNRAttempts = 5

type BookingServiceOption func(*BookingService)

func WithNotificationsTopic(topic string) BookingServiceOption {
	return func(s *BookingService) {
		s.notificationsTopic = topic
	}
}

func WithPNRAttempts(attempts int) BookingServiceOption {
	return func(s *BookingService) {
		if attempts > 0 {
			s.pnrAttempts = attempts
		}
	}
}

func NewBookingService(
	bookings repository.BookingRepository,
	flights AvailabilityClient,
	cache Cache,
	producer Producer,
	log *zap.Logger,
	eventsTopic string,
	opts ...BookingServiceOption,
) *BookingService {
	service := &BookingService{
		bookings:    bookings,
		flights:     flights,
		cache:       cache,
		producer:    producer,
		log:         log,
		eventsTopic: eventsTopic,
		pnrAttempts: defaultPNRAttempts,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

func (s *BookingService) Create(ctx context.Context, input CreateBookingInput) (*domain.Booking, error) {
	if input.FlightID == "" {
		return nil, errors.New("flight id is required")
	}
	if err := validatePassengers(input.Passengers); err != nil {
		return nil, err
	}
	if input.Amount < 0 {
		return nil, errors.New("amount must not be negative")
	}

	currency := input.Currency
	if currency == "" {
		currency = "USD"
	}

	flight, err := s.availability(ctx, input.FlightID)
	if err != nil {
		return nil, err
	}
	if flight.AvailableSeats < len(input.Passengers) {
		return nil, domain.ErrNotEnoughSeats
	}

	booking := &domain.Booking{
		BookingID:  uuid.NewString(),
		FlightID:   input.FlightID,
		Status:     domain.BookingStatusPending,
		Passengers: input.Passengers,
		PaymentDetails: domain.PaymentDetails{
			Amount:   input.Amount,
			Currency: currency,
			Status:   domain.PaymentStatusPending,
		},
	}

	// The generator gives no uniqueness guarantee; the store's unique
	// index arbitrates and we draw a fresh code on each collision.
	inserted := false
	for attempt := 0; attempt < s.pnrAttempts; attempt++ {
		booking.PNR = pnr.Generate()
		err = s.bookings.Insert(ctx, booking)
		if err == nil {
			inserted = true
			break
		}
		if !errors.Is(err, domain.ErrPNRTaken) {
			return nil, err
		}
	}
	if !inserted {
		return nil, fmt.Errorf("%w after %d attempts", domain.ErrPNRExhausted, s.pnrAttempts)
	}

	s.publish(ctx, kafka.EventBookingCreated, booking)
	return booking, nil
}

func (s *BookingService) Get(ctx context.Context, bookingID string) (*domain.Booking, error) {
	return s.bookings.GetByID(ctx, bookingID)
}

func (s *BookingService) FindByPNR(ctx context.Context, pnr string) (*domain.Booking, error) {
	return s.bookings.GetByPNR(ctx, pnr)
}

func (s *BookingService) Update(ctx context.Context, bookingID string, input UpdateBookingInput) (*domain.Booking, error) {
	if input.Passengers == nil && input.Status == "" {
		return nil, errors.New("nothing to update")
	}

	// Both fields are validated before the first write: a combined
	// update must not commit the passenger list and then reject the
	// status.
	var from []domain.BookingStatus
	if input.Status != "" {
		if !domain.ValidStatus(input.Status) {
			return nil, fmt.Errorf("%w: unknown status %q", domain.ErrInvalidTransition, input.Status)
		}
		from = allowedFrom(input.Status)
		if len(from) == 0 {
			return nil, domain.ErrInvalidTransition
		}
	}
	if input.Passengers != nil {
		if err := validatePassengers(input.Passengers); err != nil {
			return nil, err
		}
	}

	var updated *domain.Booking
	var err error

	if input.Passengers != nil {
		updated, err = s.bookings.ReplacePassengers(ctx, bookingID, input.Passengers)
		if err != nil {
			return nil, err
		}
	}

	if input.Status != "" {
		updated, err = s.bookings.UpdateStatus(ctx, bookingID, from, input.Status)
		if err != nil {
			return nil, err
		}
		if input.Status == domain.BookingStatusCancelled {
			s.publish(ctx, kafka.EventBookingCancelled, updated)
		}
	}

	return updated, nil
}

func (s *BookingService) Cancel(ctx context.Context, bookingID string) (*domain.Booking, error) {
	updated, err := s.bookings.UpdateStatus(ctx, bookingID,
		[]domain.BookingStatus{domain.BookingStatusPending, domain.BookingStatusConfirmed},
		domain.BookingStatusCancelled)
	if errors.Is(err, domain.ErrInvalidTransition) {
		// Already cancelled: a repeated cancel is a no-op success.
		return s.bookings.GetByID(ctx, bookingID)
	}
	if err != nil {
		return nil, err
	}

	s.publish(ctx, kafka.EventBookingCancelled, updated)
	return updated, nil
}

func (s *BookingService) RecordPayment(ctx context.Context, bookingID string, input PaymentInput) (*domain.Booking, error) {
	if input.Amount <= 0 {
		return nil, errors.New("valid payment amount is required")
	}
	if input.Currency == "" {
		return nil, errors.New("currency is required")
	}

	current, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if current.Status == domain.BookingStatusCancelled {
		return nil, domain.ErrInvalidTransition
	}
	// A zero quote means price-on-request; anything else must be paid
	// exactly as quoted.
	if quote := current.PaymentDetails; quote.Amount > 0 &&
		(input.Amount != quote.Amount || input.Currency != quote.Currency) {
		return nil, domain.ErrPaymentMismatch
	}

	ref := input.TransactionRef
	if ref == "" {
		ref = generateTransactionRef()
	}

	// Payment and confirmation land in one guarded write, so a cancel
	// racing this call cannot end up with a confirmed-cancelled hybrid.
	updated, err := s.bookings.RecordPayment(ctx, bookingID, domain.PaymentDetails{
		Amount:        input.Amount,
		Currency:      input.Currency,
		Status:        domain.PaymentStatusCompleted,
		TransactionID: ref,
	})
	if err != nil {
		return nil, err
	}

	// The payment is committed; a failed notification is recorded, not
	// rolled back.
	s.publish(ctx, kafka.EventBookingConfirmed, updated)
	return updated, nil
}

func (s *BookingService) ReservationSummary(ctx context.Context, bookingID string) (*ReservationSummary, error) {
	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	return &ReservationSummary{
		PNR:             booking.PNR,
		Status:          booking.Status,
		PassengersCount: len(booking.Passengers),
		CreatedAt:       booking.CreatedAt,
	}, nil
}

func (s *BookingService) availability(ctx context.Context, flightID string) (*domain.Flight, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetFlight(ctx, flightID); err == nil && cached != nil {
			return cached, nil
		}
	}

	flight, err := s.flights.GetFlight(ctx, flightID)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.SetFlight(ctx, flightID, flight); err != nil {
			s.log.Warn("cache flight availability", zap.String("flight_id", flightID), zap.Error(err))
		}
	}
	return flight, nil
}

func (s *BookingService) publish(ctx context.Context, eventType string, booking *domain.Booking) {
	if s.producer == nil {
		return
	}
	event := kafka.NewBookingEvent(eventType, booking)
	topics := []string{s.eventsTopic}
	if s.notificationsTopic != "" && eventType == kafka.EventBookingConfirmed {
		topics = append(topics, s.notificationsTopic)
	}
	for _, topic := range topics {
		if topic == "" {
			continue
		}
		if err := s.producer.Publish(ctx, topic, booking.BookingID, event); err != nil {
			s.log.Warn("publish booking event",
				zap.String("type", eventType),
				zap.String("topic", topic),
				zap.String("booking_id", booking.BookingID),
				zap.Error(err),
			)
		}
	}
}

func validatePassengers(passengers []domain.Passenger) error {
	if len(passengers) == 0 {
		return domain.ErrNoPassengers
	}
	for i, p := range passengers {
		if p.FirstName == "" || p.LastName == "" || p.Email == "" || p.Phone == "" {
			return fmt.Errorf("passenger %d: firstName, lastName, email and phone are required", i)
		}
	}
	return nil
}

// allowedFrom lists the statuses a row must currently hold for a
// client-requested transition to target. Empty means the transition is
// never reachable through Update (CONFIRMED is payment-only).
func allowedFrom(target domain.BookingStatus) []domain.BookingStatus {
	var from []domain.BookingStatus
	for _, status := range []domain.BookingStatus{
		domain.BookingStatusPending,
		domain.BookingStatusConfirmed,
		domain.BookingStatusCancelled,
	} {
		if domain.CanTransition(status, target) {
			from = append(from, status)
		}
	}
	return from
}

func generateTransactionRef() string {
	return fmt.Sprintf("PAY-%d-%s", time.Now().UnixMilli(), uuid.NewString()[:8])
}

var _ BookingUseCase = (*BookingService)(nil)
