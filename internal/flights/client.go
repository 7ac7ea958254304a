// Package flights talks to the external flight-search service.
//
// The availability read is point-in-time: the inventory service is not
// asked to hold seats, so a booking created right after a successful
// check can still race another booking for the same seats. The check is
// an admission hint, not a guarantee.
package flights

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/Domenick1991/flightbooking/internal/domain"
	circuit "github.com/rubyist/circuitbreaker"
)

type Client struct {
	baseURL string
	http    *circuit.HTTPClient
}

// NewClient wraps the flight-search service behind a circuit breaker:
// after threshold consecutive failures the breaker opens and calls fail
// fast with ErrUpstreamUnavailable instead of waiting out the timeout.
func NewClient(baseURL string, timeout time.Duration, threshold int64) *Client {
	return &Client{
		baseURL: baseURL,
		http:    circuit.NewHTTPClient(timeout, threshold, nil),
	}
}

type flightResponse struct {
	FlightNumber   string `json:"flightNumber"`
	Airline        string `json:"airline"`
	TotalSeats     int    `json:"totalSeats"`
	AvailableSeats int    `json:"availableSeats"`
	Price          struct {
		Amount   float64 `json:"amount"`
		Currency string  `json:"currency"`
	} `json:"price"`
}

func (c *Client) GetFlight(ctx context.Context, flightID string) (*domain.Flight, error) {
	url := fmt.Sprintf("%s/api/v1/flights/%s", c.baseURL, flightID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, domain.ErrFlightNotFound
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("%w: flight service returned %d", domain.ErrUpstreamUnavailable, resp.StatusCode)
	}

	var payload flightResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: decode flight response: %v", domain.ErrUpstreamUnavailable, err)
	}

	return &domain.Flight{
		FlightNumber:   payload.FlightNumber,
		Airline:        payload.Airline,
		TotalSeats:     payload.TotalSeats,
		AvailableSeats: payload.AvailableSeats,
		PriceAmount:    payload.Price.Amount,
		PriceCurrency:  payload.Price.Currency,
	}, nil
}
