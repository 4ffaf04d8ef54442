package handler

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/atlastrips/travel-booking/internal/domain"
	"github.com/atlastrips/travel-booking/internal/dto"
	"github.com/atlastrips/travel-booking/internal/gateway"
)

type stubGateway struct {
	verifyFunc func(payload []byte, signature string) (*gateway.CheckoutEvent, error)
}

func (s *stubGateway) CreateCheckoutSession(ctx context.Context, req *gateway.CheckoutSessionRequest) (*gateway.CheckoutSession, error) {
	return nil, errors.New("not used")
}

func (s *stubGateway) Refund(ctx context.Context, paymentIntentID string, amountMinor int64) (string, error) {
	return "", errors.New("not used")
}

func (s *stubGateway) VerifyWebhook(payload []byte, signature string) (*gateway.CheckoutEvent, error) {
	return s.verifyFunc(payload, signature)
}

type stubService struct {
	finalizeFunc func(ctx context.Context, ev *gateway.CheckoutEvent) error
}

func (s *stubService) CreateBooking(ctx context.Context, user domain.User, req *dto.CreateBookingRequest) (*dto.CreateBookingResult, error) {
	return nil, errors.New("not used")
}

func (s *stubService) GetBooking(ctx context.Context, user domain.User, id string) (*dto.BookingResponse, error) {
	return nil, errors.New("not used")
}

func (s *stubService) ListBookings(ctx context.Context, user domain.User, page, pageSize int) (*dto.PaginatedResponse, error) {
	return nil, errors.New("not used")
}

func (s *stubService) CancelBooking(ctx context.Context, user domain.User, id string) (*dto.BookingResponse, error) {
	return nil, errors.New("not used")
}

func (s *stubService) ConfirmBooking(ctx context.Context, id string) (*dto.BookingResponse, error) {
	return nil, errors.New("not used")
}

func (s *stubService) PayRemaining(ctx context.Context, user domain.User, id string) (*dto.CheckoutRedirect, error) {
	return nil, errors.New("not used")
}

func (s *stubService) FinalizeCheckout(ctx context.Context, ev *gateway.CheckoutEvent) error {
	if s.finalizeFunc != nil {
		return s.finalizeFunc(ctx, ev)
	}
	return nil
}

func (s *stubService) ExpireOverdue(ctx context.Context, batchSize int) (int, error) {
	return 0, errors.New("not used")
}

func postWebhook(t *testing.T, h *WebhookHandler, signature string, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.POST("/api/v1/webhooks/stripe", h.HandleStripe)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/stripe", bytes.NewReader(body))
	if signature != "" {
		req.Header.Set("Stripe-Signature", signature)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHandleStripe_MissingSignature(t *testing.T) {
	h := NewWebhookHandler(&stubGateway{
		verifyFunc: func(payload []byte, signature string) (*gateway.CheckoutEvent, error) {
			t.Fatal("verification must not run without a signature header")
			return nil, nil
		},
	}, &stubService{})

	rec := postWebhook(t, h, "", []byte(`{}`))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleStripe_BadSignature(t *testing.T) {
	finalized := false
	h := NewWebhookHandler(&stubGateway{
		verifyFunc: func(payload []byte, signature string) (*gateway.CheckoutEvent, error) {
			return nil, errors.New("signature mismatch")
		},
	}, &stubService{
		finalizeFunc: func(ctx context.Context, ev *gateway.CheckoutEvent) error {
			finalized = true
			return nil
		},
	})

	rec := postWebhook(t, h, "t=1,v1=bogus", []byte(`{}`))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, finalized)
}

func TestHandleStripe_DuplicateDeliveryAcknowledged(t *testing.T) {
	h := NewWebhookHandler(&stubGateway{
		verifyFunc: func(payload []byte, signature string) (*gateway.CheckoutEvent, error) {
			return &gateway.CheckoutEvent{Type: gateway.EventCheckoutCompleted, SessionID: "cs_dup"}, nil
		},
	}, &stubService{
		finalizeFunc: func(ctx context.Context, ev *gateway.CheckoutEvent) error {
			return domain.ErrDuplicateSession
		},
	})

	rec := postWebhook(t, h, "t=1,v1=good", []byte(`{}`))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"duplicate":true`)
}

func TestHandleStripe_ProcessingFailureRetriable(t *testing.T) {
	h := NewWebhookHandler(&stubGateway{
		verifyFunc: func(payload []byte, signature string) (*gateway.CheckoutEvent, error) {
			return &gateway.CheckoutEvent{Type: gateway.EventCheckoutCompleted, SessionID: "cs_err"}, nil
		},
	}, &stubService{
		finalizeFunc: func(ctx context.Context, ev *gateway.CheckoutEvent) error {
			return errors.New("database down")
		},
	})

	rec := postWebhook(t, h, "t=1,v1=good", []byte(`{}`))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestHandleStripe_Success(t *testing.T) {
	var got *gateway.CheckoutEvent
	h := NewWebhookHandler(&stubGateway{
		verifyFunc: func(payload []byte, signature string) (*gateway.CheckoutEvent, error) {
			return &gateway.CheckoutEvent{Type: gateway.EventCheckoutCompleted, SessionID: "cs_ok"}, nil
		},
	}, &stubService{
		finalizeFunc: func(ctx context.Context, ev *gateway.CheckoutEvent) error {
			got = ev
			return nil
		},
	})

	rec := postWebhook(t, h, "t=1,v1=good", []byte(`{}`))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotNil(t, got)
	assert.Equal(t, "cs_ok", got.SessionID)
}
