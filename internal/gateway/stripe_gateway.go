package gateway

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/checkout/session"
	"github.com/stripe/stripe-go/v82/refund"
	"github.com/stripe/stripe-go/v82/webhook"
)

// StripeGateway implements PaymentGateway using Stripe hosted checkout
type StripeGateway struct {
	config *StripeGatewayConfig
}

// StripeGatewayConfig holds configuration for the Stripe gateway
type StripeGatewayConfig struct {
	SecretKey     string
	WebhookSecret string
	Currency      string
	SuccessURL    string
	CancelURL     string
}

// NewStripeGateway creates a new Stripe gateway
func NewStripeGateway(config *StripeGatewayConfig) (*StripeGateway, error) {
	if config == nil {
		return nil, fmt.Errorf("stripe config is required")
	}
	if config.SecretKey == "" {
		return nil, fmt.Errorf("stripe secret key is required")
	}
	if config.WebhookSecret == "" {
		return nil, fmt.Errorf("stripe webhook secret is required")
	}

	// Set Stripe API key globally
	stripe.Key = config.SecretKey

	return &StripeGateway{config: config}, nil
}

// CreateCheckoutSession opens a hosted checkout page. The amount is in
// minor units already; Stripe expects exactly that.
func (g *StripeGateway) CreateCheckoutSession(ctx context.Context, req *CheckoutSessionRequest) (*CheckoutSession, error) {
	if req == nil {
		return nil, fmt.Errorf("checkout session request is required")
	}
	if req.AmountMinor <= 0 {
		return nil, fmt.Errorf("checkout amount must be positive, got %d", req.AmountMinor)
	}

	params := &stripe.CheckoutSessionParams{
		Mode:              stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL:        stripe.String(g.config.SuccessURL),
		CancelURL:         stripe.String(g.config.CancelURL),
		CustomerEmail:     stripe.String(req.CustomerEmail),
		ClientReferenceID: stripe.String(req.ClientReferenceID),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String(g.config.Currency),
					UnitAmount: stripe.Int64(req.AmountMinor),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(req.ProductName),
					},
				},
				Quantity: stripe.Int64(1),
			},
		},
		PaymentIntentData: &stripe.CheckoutSessionPaymentIntentDataParams{
			Metadata: req.Metadata,
		},
	}
	params.Context = ctx

	for k, v := range req.Metadata {
		params.AddMetadata(k, v)
	}

	s, err := session.New(params)
	if err != nil {
		return nil, fmt.Errorf("failed to create checkout session: %w: %w", ErrProviderUnavailable, err)
	}

	return &CheckoutSession{
		SessionID: s.ID,
		URL:       s.URL,
	}, nil
}

// Refund returns amountMinor of a captured payment
func (g *StripeGateway) Refund(ctx context.Context, paymentIntentID string, amountMinor int64) (string, error) {
	if paymentIntentID == "" {
		return "", fmt.Errorf("payment intent ID is required")
	}
	if amountMinor <= 0 {
		return "", fmt.Errorf("refund amount must be positive, got %d", amountMinor)
	}

	params := &stripe.RefundParams{
		PaymentIntent: stripe.String(paymentIntentID),
		Amount:        stripe.Int64(amountMinor),
	}
	params.Context = ctx
	// One refund per captured intent, so a retried cancellation collapses
	// into the original refund instead of paying out twice
	params.SetIdempotencyKey("refund-" + paymentIntentID)

	r, err := refund.New(params)
	if err != nil {
		return "", fmt.Errorf("failed to create refund: %w: %w", ErrProviderUnavailable, err)
	}
	return r.ID, nil
}

// VerifyWebhook checks the signature and reduces the event to the
// checkout fields the booking flow consumes
func (g *StripeGateway) VerifyWebhook(payload []byte, signature string) (*CheckoutEvent, error) {
	event, err := webhook.ConstructEvent(payload, signature, g.config.WebhookSecret)
	if err != nil {
		return nil, fmt.Errorf("webhook signature verification failed: %w", err)
	}

	ev := &CheckoutEvent{Type: string(event.Type)}
	if ev.Type != EventCheckoutCompleted {
		return ev, nil
	}

	var s stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &s); err != nil {
		return nil, fmt.Errorf("failed to decode checkout session: %w", err)
	}

	ev.SessionID = s.ID
	ev.ClientReferenceID = s.ClientReferenceID
	ev.AmountTotal = s.AmountTotal
	ev.Metadata = s.Metadata
	if s.PaymentIntent != nil {
		ev.PaymentIntentID = s.PaymentIntent.ID
	}
	return ev, nil
}
