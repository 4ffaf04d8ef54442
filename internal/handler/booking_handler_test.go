package handler

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/atlastrips/travel-booking/internal/domain"
	"github.com/atlastrips/travel-booking/internal/dto"
	"github.com/atlastrips/travel-booking/internal/gateway"
)

type bookingServiceStub struct {
	createFunc func(ctx context.Context, user domain.User, req *dto.CreateBookingRequest) (*dto.CreateBookingResult, error)
	getFunc    func(ctx context.Context, user domain.User, id string) (*dto.BookingResponse, error)
	cancelFunc func(ctx context.Context, user domain.User, id string) (*dto.BookingResponse, error)
}

func (s *bookingServiceStub) CreateBooking(ctx context.Context, user domain.User, req *dto.CreateBookingRequest) (*dto.CreateBookingResult, error) {
	return s.createFunc(ctx, user, req)
}

func (s *bookingServiceStub) GetBooking(ctx context.Context, user domain.User, id string) (*dto.BookingResponse, error) {
	return s.getFunc(ctx, user, id)
}

func (s *bookingServiceStub) ListBookings(ctx context.Context, user domain.User, page, pageSize int) (*dto.PaginatedResponse, error) {
	return &dto.PaginatedResponse{Page: page, PageSize: pageSize}, nil
}

func (s *bookingServiceStub) CancelBooking(ctx context.Context, user domain.User, id string) (*dto.BookingResponse, error) {
	return s.cancelFunc(ctx, user, id)
}

func (s *bookingServiceStub) ConfirmBooking(ctx context.Context, id string) (*dto.BookingResponse, error) {
	return &dto.BookingResponse{ID: id}, nil
}

func (s *bookingServiceStub) PayRemaining(ctx context.Context, user domain.User, id string) (*dto.CheckoutRedirect, error) {
	return &dto.CheckoutRedirect{}, nil
}

func (s *bookingServiceStub) FinalizeCheckout(ctx context.Context, ev *gateway.CheckoutEvent) error {
	return nil
}

func (s *bookingServiceStub) ExpireOverdue(ctx context.Context, batchSize int) (int, error) {
	return 0, nil
}

func bookingRouter(h *BookingHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/api/v1/bookings", h.Create)
	router.GET("/api/v1/bookings/:id", h.Get)
	router.POST("/api/v1/bookings/:id/cancel", h.Cancel)
	return router
}

func TestBookingHandler_ErrorClassification(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"validation", domain.ErrAdultRequired, http.StatusBadRequest},
		{"not found", domain.ErrBookingNotFound, http.StatusNotFound},
		{"conflict", domain.ErrInsufficientSeats, http.StatusConflict},
		{"authorization", domain.ErrNotBookingOwner, http.StatusForbidden},
		{"provider down", fmt.Errorf("failed to open checkout: %w", gateway.ErrGatewayDisabled), http.StatusBadGateway},
		{"internal", context.DeadlineExceeded, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewBookingHandler(&bookingServiceStub{
				getFunc: func(ctx context.Context, user domain.User, id string) (*dto.BookingResponse, error) {
					return nil, tt.err
				},
			})

			req := httptest.NewRequest(http.MethodGet, "/api/v1/bookings/b-1", nil)
			rec := httptest.NewRecorder()
			bookingRouter(h).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), `"success":false`)
		})
	}
}

func TestBookingHandler_CreateMalformedBody(t *testing.T) {
	h := NewBookingHandler(&bookingServiceStub{
		createFunc: func(ctx context.Context, user domain.User, req *dto.CreateBookingRequest) (*dto.CreateBookingResult, error) {
			t.Fatal("service must not be called for an unparseable body")
			return nil, nil
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", strings.NewReader(`{"adults":`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	bookingRouter(h).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBookingHandler_CreateCash(t *testing.T) {
	h := NewBookingHandler(&bookingServiceStub{
		createFunc: func(ctx context.Context, user domain.User, req *dto.CreateBookingRequest) (*dto.CreateBookingResult, error) {
			return &dto.CreateBookingResult{
				Booking: &dto.BookingResponse{ID: "b-1", BookingNumber: "BK-20260310-AAAAAA"},
			}, nil
		},
	})

	body := `{"item_id":"pkg-1","booking_type":"package","adults":2,"payment_type":"full","payment_method":"cash"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	bookingRouter(h).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), "BK-20260310-AAAAAA")
}

func TestBookingHandler_CancelConflict(t *testing.T) {
	h := NewBookingHandler(&bookingServiceStub{
		cancelFunc: func(ctx context.Context, user domain.User, id string) (*dto.BookingResponse, error) {
			return nil, domain.ErrBookingCancelled
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings/b-1/cancel", nil)
	rec := httptest.NewRecorder()
	bookingRouter(h).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
}
