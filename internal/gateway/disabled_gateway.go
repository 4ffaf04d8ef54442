package gateway

import (
	"context"
	"fmt"
)

// ErrGatewayDisabled is returned when no payment provider is configured
var ErrGatewayDisabled = fmt.Errorf("%w: no provider configured", ErrProviderUnavailable)

// DisabledGateway rejects every payment operation. Cash bookings still
// work without provider keys; card flows fail loudly instead of
// pretending to charge.
type DisabledGateway struct{}

// NewDisabledGateway creates a gateway that rejects everything
func NewDisabledGateway() *DisabledGateway {
	return &DisabledGateway{}
}

func (g *DisabledGateway) CreateCheckoutSession(ctx context.Context, req *CheckoutSessionRequest) (*CheckoutSession, error) {
	return nil, ErrGatewayDisabled
}

func (g *DisabledGateway) Refund(ctx context.Context, paymentIntentID string, amountMinor int64) (string, error) {
	return "", ErrGatewayDisabled
}

func (g *DisabledGateway) VerifyWebhook(payload []byte, signature string) (*CheckoutEvent, error) {
	return nil, ErrGatewayDisabled
}
