package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Domenick1991/flightbooking/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type BookingRepository interface {
	// Insert persists a new booking and returns domain.ErrPNRTaken when
	// the generated pnr is already in use, so the caller can retry with
	// a fresh code without a read-then-write race.
	Insert(ctx context.Context, booking *domain.Booking) error
	GetByID(ctx context.Context, bookingID string) (*domain.Booking, error)
	GetByPNR(ctx context.Context, pnr string) (*domain.Booking, error)
	// ReplacePassengers swaps the passenger list unless the booking is
	// cancelled. The guard lives in the UPDATE itself: a concurrent
	// cancellation cannot be overwritten from a stale snapshot.
	ReplacePassengers(ctx context.Context, bookingID string, passengers []domain.Passenger) (*domain.Booking, error)
	// UpdateStatus applies the transition only while the current status
	// is one of from.
	UpdateStatus(ctx context.Context, bookingID string, from []domain.BookingStatus, to domain.BookingStatus) (*domain.Booking, error)
	// RecordPayment sets the payment details and moves the booking to
	// CONFIRMED in one statement; this is the only write path into
	// CONFIRMED.
	RecordPayment(ctx context.Context, bookingID string, payment domain.PaymentDetails) (*domain.Booking, error)
}

// querier is the slice of pgxpool.Pool the repository uses; tests
// substitute a pgxmock pool.
type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type PGBookingRepository struct {
	db querier
}

func NewBookingRepository(db querier) BookingRepository {
	return &PGBookingRepository{db: db}
}

const bookingColumns = `booking_id, flight_id, status, passengers, payment, pnr, created_at, updated_at`

func (r *PGBookingRepository) Insert(ctx context.Context, booking *domain.Booking) error {
	passengers, err := json.Marshal(booking.Passengers)
	if err != nil {
		return err
	}
	payment, err := json.Marshal(booking.PaymentDetails)
	if err != nil {
		return err
	}

	err = r.db.QueryRow(ctx, `INSERT INTO bookings (booking_id, flight_id, status, passengers, payment, pnr)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at`,
		booking.BookingID, booking.FlightID, booking.Status, passengers, payment, booking.PNR).
		Scan(&booking.CreatedAt, &booking.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" && pgErr.ConstraintName == "bookings_pnr_key" {
			return domain.ErrPNRTaken
		}
		return storeErr(err)
	}
	return nil
}

func (r *PGBookingRepository) GetByID(ctx context.Context, bookingID string) (*domain.Booking, error) {
	row := r.db.QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE booking_id=$1`, bookingID)
	return scanBooking(row)
}

func (r *PGBookingRepository) GetByPNR(ctx context.Context, pnr string) (*domain.Booking, error) {
	row := r.db.QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE pnr=$1`, pnr)
	return scanBooking(row)
}

func (r *PGBookingRepository) ReplacePassengers(ctx context.Context, bookingID string, passengers []domain.Passenger) (*domain.Booking, error) {
	payload, err := json.Marshal(passengers)
	if err != nil {
		return nil, err
	}

	row := r.db.QueryRow(ctx, `UPDATE bookings SET passengers=$2, updated_at=now()
		WHERE booking_id=$1 AND status <> $3
		RETURNING `+bookingColumns,
		bookingID, payload, domain.BookingStatusCancelled)
	booking, err := scanBooking(row)
	if errors.Is(err, domain.ErrBookingNotFound) {
		return nil, r.explainGuardMiss(ctx, bookingID)
	}
	return booking, err
}

func (r *PGBookingRepository) UpdateStatus(ctx context.Context, bookingID string, from []domain.BookingStatus, to domain.BookingStatus) (*domain.Booking, error) {
	allowed := make([]string, len(from))
	for i, s := range from {
		allowed[i] = string(s)
	}

	row := r.db.QueryRow(ctx, `UPDATE bookings SET status=$2, updated_at=now()
		WHERE booking_id=$1 AND status = ANY($3)
		RETURNING `+bookingColumns,
		bookingID, to, allowed)
	booking, err := scanBooking(row)
	if errors.Is(err, domain.ErrBookingNotFound) {
		return nil, r.explainGuardMiss(ctx, bookingID)
	}
	return booking, err
}

func (r *PGBookingRepository) RecordPayment(ctx context.Context, bookingID string, payment domain.PaymentDetails) (*domain.Booking, error) {
	payload, err := json.Marshal(payment)
	if err != nil {
		return nil, err
	}

	row := r.db.QueryRow(ctx, `UPDATE bookings SET payment=$2, status=$3, updated_at=now()
		WHERE booking_id=$1 AND status <> $4
		RETURNING `+bookingColumns,
		bookingID, payload, domain.BookingStatusConfirmed, domain.BookingStatusCancelled)
	booking, err := scanBooking(row)
	if errors.Is(err, domain.ErrBookingNotFound) {
		return nil, r.explainGuardMiss(ctx, bookingID)
	}
	return booking, err
}

// explainGuardMiss distinguishes "row absent" from "guard rejected the
// transition" after a conditional UPDATE matched nothing.
func (r *PGBookingRepository) explainGuardMiss(ctx context.Context, bookingID string) error {
	if _, err := r.GetByID(ctx, bookingID); err != nil {
		return err
	}
	return domain.ErrInvalidTransition
}

func scanBooking(row pgx.Row) (*domain.Booking, error) {
	var (
		b          domain.Booking
		passengers []byte
		payment    []byte
	)
	if err := row.Scan(&b.BookingID, &b.FlightID, &b.Status, &passengers, &payment, &b.PNR, &b.CreatedAt, &b.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBookingNotFound
		}
		return nil, storeErr(err)
	}
	if err := json.Unmarshal(passengers, &b.Passengers); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(payment, &b.PaymentDetails); err != nil {
		return nil, err
	}
	return &b, nil
}

func storeErr(err error) error {
	return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
}

var _ BookingRepository = (*PGBookingRepository)(nil)
