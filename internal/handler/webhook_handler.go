package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/atlastrips/travel-booking/internal/domain"
	"github.com/atlastrips/travel-booking/internal/gateway"
	"github.com/atlastrips/travel-booking/internal/logger"
	"github.com/atlastrips/travel-booking/internal/response"
	"github.com/atlastrips/travel-booking/internal/service"
)

// maxWebhookBody bounds the payload we are willing to read
const maxWebhookBody = 64 * 1024

// WebhookHandler handles payment provider webhooks
type WebhookHandler struct {
	gateway gateway.PaymentGateway
	service service.BookingService
}

// NewWebhookHandler creates a new webhook handler
func NewWebhookHandler(gw gateway.PaymentGateway, svc service.BookingService) *WebhookHandler {
	return &WebhookHandler{gateway: gw, service: svc}
}

// HandleStripe handles POST /api/v1/webhooks/stripe. The raw body is
// required for signature verification, so nothing may consume it first.
func (h *WebhookHandler) HandleStripe(c *gin.Context) {
	signature := c.GetHeader("Stripe-Signature")
	if signature == "" {
		response.BadRequest(c, "missing Stripe-Signature header")
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxWebhookBody)
	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		response.BadRequest(c, "failed to read webhook payload")
		return
	}

	event, err := h.gateway.VerifyWebhook(payload, signature)
	if err != nil {
		logger.Get().Warn("rejected webhook with bad signature", zap.Error(err))
		response.BadRequest(c, "webhook signature verification failed")
		return
	}

	if err := h.service.FinalizeCheckout(c.Request.Context(), event); err != nil {
		// A replayed delivery already did its work; acknowledge it so
		// the provider stops retrying.
		if errors.Is(err, domain.ErrDuplicateSession) {
			logger.Get().Info("acknowledged duplicate webhook delivery",
				zap.String("session_id", event.SessionID))
			c.JSON(http.StatusOK, gin.H{"received": true, "duplicate": true})
			return
		}

		logger.Get().Error("failed to process webhook",
			zap.String("session_id", event.SessionID),
			zap.String("type", event.Type),
			zap.Error(err),
		)
		response.InternalError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}
