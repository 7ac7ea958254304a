package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Domenick1991/flightbooking/internal/domain"
	"github.com/Domenick1991/flightbooking/internal/service/booking"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type BookingHandler struct {
	service booking.BookingUseCase
}

type passengerPayload struct {
	FirstName  string `json:"firstName" binding:"required"`
	LastName   string `json:"lastName" binding:"required"`
	Email      string `json:"email" binding:"required,email"`
	Phone      string `json:"phone" binding:"required"`
	SeatNumber string `json:"seatNumber"`
}

type createBookingRequest struct {
	FlightID   string             `json:"flightId" binding:"required"`
	Passengers []passengerPayload `json:"passengers" binding:"required,min=1,dive"`
	Amount     float64            `json:"amount" binding:"omitempty,gte=0"`
	Currency   string             `json:"currency"`
}

type updateBookingRequest struct {
	Passengers []passengerPayload `json:"passengers" binding:"omitempty,min=1,dive"`
	Status     string             `json:"status" binding:"omitempty,oneof=PENDING CONFIRMED CANCELLED"`
}

type paymentRequest struct {
	Amount        float64 `json:"amount" binding:"required,gt=0"`
	Currency      string  `json:"currency" binding:"required"`
	TransactionID string  `json:"transactionId"`
}

type bookingResponse struct {
	BookingID      string                `json:"bookingId"`
	FlightID       string                `json:"flightId"`
	Status         string                `json:"status"`
	Passengers     []domain.Passenger    `json:"passengers"`
	PaymentDetails domain.PaymentDetails `json:"paymentDetails"`
	PNR            string                `json:"pnr"`
	CreatedAt      string                `json:"createdAt"`
	UpdatedAt      string                `json:"updatedAt"`
}

func NewBookingHandler(service booking.BookingUseCase) *BookingHandler {
	return &BookingHandler{service: service}
}

// Register mounts the booking routes on the versioned API group.
func (h *BookingHandler) Register(router *gin.RouterGroup) {
	bookings := router.Group("/bookings")
	bookings.POST("", h.create)
	bookings.GET("/:id", h.get)
	bookings.PUT("/:id", h.update)
	bookings.DELETE("/:id", h.cancel)
	bookings.POST("/:id/payment", h.pay)
	bookings.GET("/:id/pnr", h.pnrSummary)

	router.GET("/pnr/:pnr", h.getByPNR)
}

func (h *BookingHandler) create(c *gin.Context) {
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": bindingMessage(err)})
		return
	}

	created, err := h.service.Create(c.Request.Context(), booking.CreateBookingInput{
		FlightID:   req.FlightID,
		Passengers: toPassengers(req.Passengers),
		Amount:     req.Amount,
		Currency:   req.Currency,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toResponse(created))
}

func (h *BookingHandler) get(c *gin.Context) {
	found, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toResponse(found))
}

func (h *BookingHandler) update(c *gin.Context) {
	var req updateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": bindingMessage(err)})
		return
	}
	if req.Passengers == nil && req.Status == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "nothing to update"})
		return
	}

	updated, err := h.service.Update(c.Request.Context(), c.Param("id"), booking.UpdateBookingInput{
		Passengers: toPassengers(req.Passengers),
		Status:     domain.BookingStatus(req.Status),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toResponse(updated))
}

func (h *BookingHandler) cancel(c *gin.Context) {
	cancelled, err := h.service.Cancel(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toResponse(cancelled))
}

func (h *BookingHandler) pay(c *gin.Context) {
	var req paymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": bindingMessage(err)})
		return
	}

	confirmed, err := h.service.RecordPayment(c.Request.Context(), c.Param("id"), booking.PaymentInput{
		Amount:         req.Amount,
		Currency:       req.Currency,
		TransactionRef: req.TransactionID,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toResponse(confirmed))
}

func (h *BookingHandler) getByPNR(c *gin.Context) {
	found, err := h.service.FindByPNR(c.Request.Context(), c.Param("pnr"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toResponse(found))
}

func (h *BookingHandler) pnrSummary(c *gin.Context) {
	summary, err := h.service.ReservationSummary(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrBookingNotFound),
		errors.Is(err, domain.ErrFlightNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrNotEnoughSeats),
		errors.Is(err, domain.ErrInvalidTransition),
		errors.Is(err, domain.ErrNoPassengers),
		errors.Is(err, domain.ErrPaymentMismatch):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrUpstreamUnavailable):
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrStoreUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": domain.ErrStoreUnavailable.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// bindingMessage flattens validator errors into one line so clients see
// which field failed instead of the struct dump gin produces.
func bindingMessage(err error) string {
	var validateErr validator.ValidationErrors
	if errors.As(err, &validateErr) {
		fields := make([]string, len(validateErr))
		for i, fe := range validateErr {
			fields[i] = fmt.Sprintf("%s is invalid (%s)", fe.Field(), fe.Tag())
		}
		return strings.Join(fields, "; ")
	}
	return "invalid request body"
}

func toPassengers(payload []passengerPayload) []domain.Passenger {
	if payload == nil {
		return nil
	}
	passengers := make([]domain.Passenger, len(payload))
	for i, p := range payload {
		passengers[i] = domain.Passenger{
			FirstName:  p.FirstName,
			LastName:   p.LastName,
			Email:      p.Email,
			Phone:      p.Phone,
			SeatNumber: p.SeatNumber,
		}
	}
	return passengers
}

func toResponse(b *domain.Booking) bookingResponse {
	return bookingResponse{
		BookingID:      b.BookingID,
		FlightID:       b.FlightID,
		Status:         string(b.Status),
		Passengers:     b.Passengers,
		PaymentDetails: b.PaymentDetails,
		PNR:            b.PNR,
		CreatedAt:      b.CreatedAt.Format(time.RFC3339),
		UpdatedAt:      b.UpdatedAt.Format(time.RFC3339),
	}
}
