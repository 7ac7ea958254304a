package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Domenick1991/flightbooking/internal/domain"
	"github.com/Domenick1991/flightbooking/internal/service/booking"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockBookingUseCase is a mock implementation of booking.BookingUseCase
type MockBookingUseCase struct {
	mock.Mock
}

func (m *MockBookingUseCase) Create(ctx context.Context, input booking.CreateBookingInput) (*domain.Booking, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingUseCase) Get(ctx context.Context, bookingID string) (*domain.Booking, error) {
	args := m.Called(ctx, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingUseCase) FindByPNR(ctx context.Context, pnr string) (*domain.Booking, error) {
	args := m.Called(ctx, pnr)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingUseCase) Update(ctx context.Context, bookingID string, input booking.UpdateBookingInput) (*domain.Booking, error) {
	args := m.Called(ctx, bookingID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingUseCase) Cancel(ctx context.Context, bookingID string) (*domain.Booking, error) {
	args := m.Called(ctx, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingUseCase) RecordPayment(ctx context.Context, bookingID string, input booking.PaymentInput) (*domain.Booking, error) {
	args := m.Called(ctx, bookingID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingUseCase) ReservationSummary(ctx context.Context, bookingID string) (*booking.ReservationSummary, error) {
	args := m.Called(ctx, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*booking.ReservationSummary), args.Error(1)
}

func sampleBooking(status domain.BookingStatus) *domain.Booking {
	return &domain.Booking{
		BookingID: "b-1",
		FlightID:  "AI101",
		Status:    status,
		Passengers: []domain.Passenger{
			{FirstName: "John", LastName: "Doe", Email: "john.doe@example.com", Phone: "+1234567890"},
			{FirstName: "Jane", LastName: "Doe", Email: "jane.doe@example.com", Phone: "+1234567891"},
		},
		PaymentDetails: domain.PaymentDetails{Amount: 850, Currency: "USD", Status: domain.PaymentStatusPending},
		PNR:            "A1B2C3",
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
	}
}

const createBody = `{
	"flightId": "AI101",
	"passengers": [
		{"firstName": "John", "lastName": "Doe", "email": "john.doe@example.com", "phone": "+1234567890"},
		{"firstName": "Jane", "lastName": "Doe", "email": "jane.doe@example.com", "phone": "+1234567891"}
	],
	"amount": 850,
	"currency": "USD"
}`

func TestBookingHandler_create(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("POST", "/bookings", bytes.NewReader([]byte(createBody)))
	c.Request.Header.Set("Content-Type", "application/json")

	mockService.On("Create", c.Request.Context(), mock.MatchedBy(func(in booking.CreateBookingInput) bool {
		return in.FlightID == "AI101" && len(in.Passengers) == 2 && in.Amount == 850 && in.Currency == "USD"
	})).Return(sampleBooking(domain.BookingStatusPending), nil)

	handler.create(c)

	assert.Equal(t, http.StatusCreated, w.Code)

	var response bookingResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, "b-1", response.BookingID)
	assert.Equal(t, string(domain.BookingStatusPending), response.Status)
	assert.Equal(t, "A1B2C3", response.PNR)
	assert.Len(t, response.Passengers, 2)

	mockService.AssertExpectations(t)
}

func TestBookingHandler_create_validation(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService)

	gin.SetMode(gin.TestMode)

	testCases := []struct {
		name string
		body string
	}{
		{"missing flight id", `{"passengers":[{"firstName":"A","lastName":"B","email":"a@b.com","phone":"+1"}]}`},
		{"empty passengers", `{"flightId":"AI101","passengers":[]}`},
		{"passenger missing phone", `{"flightId":"AI101","passengers":[{"firstName":"A","lastName":"B","email":"a@b.com"}]}`},
		{"bad email", `{"flightId":"AI101","passengers":[{"firstName":"A","lastName":"B","email":"not-an-email","phone":"+1"}]}`},
		{"not json", `not json`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest("POST", "/bookings", bytes.NewReader([]byte(tc.body)))
			c.Request.Header.Set("Content-Type", "application/json")

			handler.create(c)

			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}

	mockService.AssertNotCalled(t, "Create")
}

func TestBookingHandler_create_flightNotFound(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("POST", "/bookings", bytes.NewReader([]byte(createBody)))
	c.Request.Header.Set("Content-Type", "application/json")

	mockService.On("Create", c.Request.Context(), mock.Anything).Return(nil, domain.ErrFlightNotFound)

	handler.create(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestBookingHandler_create_upstreamDown(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("POST", "/bookings", bytes.NewReader([]byte(createBody)))
	c.Request.Header.Set("Content-Type", "application/json")

	mockService.On("Create", c.Request.Context(), mock.Anything).Return(nil, domain.ErrUpstreamUnavailable)

	handler.create(c)

	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestBookingHandler_create_admissionDenied(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("POST", "/bookings", bytes.NewReader([]byte(createBody)))
	c.Request.Header.Set("Content-Type", "application/json")

	mockService.On("Create", c.Request.Context(), mock.Anything).Return(nil, domain.ErrNotEnoughSeats)

	handler.create(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBookingHandler_get(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "id", Value: "b-1"}}
	c.Request = httptest.NewRequest("GET", "/bookings/b-1", nil)

	mockService.On("Get", c.Request.Context(), "b-1").Return(sampleBooking(domain.BookingStatusPending), nil)

	handler.get(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var response bookingResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "b-1", response.BookingID)
}

func TestBookingHandler_get_notFound(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "id", Value: "missing"}}
	c.Request = httptest.NewRequest("GET", "/bookings/missing", nil)

	mockService.On("Get", c.Request.Context(), "missing").Return(nil, domain.ErrBookingNotFound)

	handler.get(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestBookingHandler_update_nothingToUpdate(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "id", Value: "b-1"}}
	c.Request = httptest.NewRequest("PUT", "/bookings/b-1", bytes.NewReader([]byte(`{}`)))
	c.Request.Header.Set("Content-Type", "application/json")

	handler.update(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "Update")
}

func TestBookingHandler_update_status(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "id", Value: "b-1"}}
	c.Request = httptest.NewRequest("PUT", "/bookings/b-1", bytes.NewReader([]byte(`{"status":"CANCELLED"}`)))
	c.Request.Header.Set("Content-Type", "application/json")

	mockService.On("Update", c.Request.Context(), "b-1", booking.UpdateBookingInput{
		Status: domain.BookingStatusCancelled,
	}).Return(sampleBooking(domain.BookingStatusCancelled), nil)

	handler.update(c)

	assert.Equal(t, http.StatusOK, w.Code)
	mockService.AssertExpectations(t)
}

func TestBookingHandler_cancel(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "id", Value: "b-1"}}
	c.Request = httptest.NewRequest("DELETE", "/bookings/b-1", nil)

	mockService.On("Cancel", c.Request.Context(), "b-1").Return(sampleBooking(domain.BookingStatusCancelled), nil)

	handler.cancel(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var response bookingResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, string(domain.BookingStatusCancelled), response.Status)
}

func TestBookingHandler_pay(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "id", Value: "b-1"}}
	c.Request = httptest.NewRequest("POST", "/bookings/b-1/payment",
		bytes.NewReader([]byte(`{"amount":850,"currency":"USD","transactionId":"TXN-1"}`)))
	c.Request.Header.Set("Content-Type", "application/json")

	confirmed := sampleBooking(domain.BookingStatusConfirmed)
	confirmed.PaymentDetails.Status = domain.PaymentStatusCompleted
	mockService.On("RecordPayment", c.Request.Context(), "b-1", booking.PaymentInput{
		Amount: 850, Currency: "USD", TransactionRef: "TXN-1",
	}).Return(confirmed, nil)

	handler.pay(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var response bookingResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, string(domain.BookingStatusConfirmed), response.Status)
	assert.Equal(t, domain.PaymentStatusCompleted, response.PaymentDetails.Status)
}

func TestBookingHandler_pay_cancelledBooking(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "id", Value: "b-1"}}
	c.Request = httptest.NewRequest("POST", "/bookings/b-1/payment",
		bytes.NewReader([]byte(`{"amount":850,"currency":"USD"}`)))
	c.Request.Header.Set("Content-Type", "application/json")

	mockService.On("RecordPayment", c.Request.Context(), "b-1", mock.Anything).Return(nil, domain.ErrInvalidTransition)

	handler.pay(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBookingHandler_pay_missingAmount(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "id", Value: "b-1"}}
	c.Request = httptest.NewRequest("POST", "/bookings/b-1/payment", bytes.NewReader([]byte(`{"currency":"USD"}`)))
	c.Request.Header.Set("Content-Type", "application/json")

	handler.pay(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "RecordPayment")
}

func TestBookingHandler_getByPNR(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "pnr", Value: "A1B2C3"}}
	c.Request = httptest.NewRequest("GET", "/pnr/A1B2C3", nil)

	mockService.On("FindByPNR", c.Request.Context(), "A1B2C3").Return(sampleBooking(domain.BookingStatusConfirmed), nil)

	handler.getByPNR(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var response bookingResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "A1B2C3", response.PNR)
	assert.Equal(t, "b-1", response.BookingID)
}

func TestBookingHandler_getByPNR_notFound(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "pnr", Value: "ZZZZZZ"}}
	c.Request = httptest.NewRequest("GET", "/pnr/ZZZZZZ", nil)

	mockService.On("FindByPNR", c.Request.Context(), "ZZZZZZ").Return(nil, domain.ErrBookingNotFound)

	handler.getByPNR(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestBookingHandler_pnrSummary(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "id", Value: "b-1"}}
	c.Request = httptest.NewRequest("GET", "/bookings/b-1/pnr", nil)

	created := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	mockService.On("ReservationSummary", c.Request.Context(), "b-1").Return(&booking.ReservationSummary{
		PNR:             "A1B2C3",
		Status:          domain.BookingStatusPending,
		PassengersCount: 2,
		CreatedAt:       created,
	}, nil)

	handler.pnrSummary(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var response booking.ReservationSummary
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "A1B2C3", response.PNR)
	assert.Equal(t, 2, response.PassengersCount)
}
