package domain

// Flight is the subset of the flight-search service's representation
// that the booking flow reads. The record is owned by that service;
// availableSeats is a point-in-time value, not a hold.
type Flight struct {
	FlightNumber   string  `json:"flightNumber"`
	Airline        string  `json:"airline"`
	TotalSeats     int     `json:"totalSeats"`
	AvailableSeats int     `json:"availableSeats"`
	PriceAmount    float64 `json:"priceAmount"`
	PriceCurrency  string  `json:"priceCurrency"`
}
