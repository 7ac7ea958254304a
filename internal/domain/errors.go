package domain

import "errors"

var (
	ErrBookingNotFound     = errors.New("booking not found")
	ErrFlightNotFound      = errors.New("flight not found")
	ErrNotEnoughSeats      = errors.New("not enough seats available")
	ErrInvalidTransition   = errors.New("invalid status transition")
	ErrNoPassengers        = errors.New("at least one passenger is required")
	ErrPaymentMismatch     = errors.New("payment does not match quoted price")
	ErrUpstreamUnavailable = errors.New("flight service unavailable")
	ErrStoreUnavailable    = errors.New("booking store unavailable")
	ErrPNRTaken            = errors.New("pnr already taken")
	ErrPNRExhausted        = errors.New("pnr generation attempts exhausted")
)
