package gateway

import (
	"context"
	"errors"
)

// ErrProviderUnavailable marks a failure of the payment provider itself
// rather than bad input. Handlers map it to 502 so clients know the
// request may succeed on retry.
var ErrProviderUnavailable = errors.New("payment provider unavailable")

// EventCheckoutCompleted is the only provider event the booking flow
// consumes. Everything else is acknowledged and dropped.
const EventCheckoutCompleted = "checkout.session.completed"

// Metadata keys attached to checkout sessions. The webhook rebuilds the
// booking from these, never from client-supplied state.
const (
	MetaKind          = "kind"
	MetaBookingID     = "booking_id"
	MetaBookingType   = "booking_type"
	MetaItemID        = "item_id"
	MetaUserID        = "user_id"
	MetaUserEmail     = "user_email"
	MetaAdults        = "adults"
	MetaChildren      = "children"
	MetaForeigners    = "foreigners"
	MetaPickupCity    = "pickup_city"
	MetaPaymentType   = "payment_type"
	MetaDepartureDate = "departure_date"
	MetaTotalPrice    = "total_price"
)

// Session kinds carried in MetaKind
const (
	KindBooking          = "booking"
	KindRemainingPayment = "remaining_payment"
)

// CheckoutSessionRequest describes a hosted checkout session to open
type CheckoutSessionRequest struct {
	AmountMinor       int64
	ProductName       string
	CustomerEmail     string
	ClientReferenceID string
	Metadata          map[string]string
}

// CheckoutSession is the redirect handed back to the client
type CheckoutSession struct {
	SessionID string
	URL       string
}

// CheckoutEvent is a verified provider event, reduced to the fields the
// booking flow needs
type CheckoutEvent struct {
	Type              string
	SessionID         string
	PaymentIntentID   string
	ClientReferenceID string
	AmountTotal       int64
	Metadata          map[string]string
}

// PaymentGateway abstracts the payment provider
type PaymentGateway interface {
	// CreateCheckoutSession opens a hosted payment page for the amount
	CreateCheckoutSession(ctx context.Context, req *CheckoutSessionRequest) (*CheckoutSession, error)

	// Refund returns amountMinor of a captured payment. Returns the
	// provider refund ID.
	Refund(ctx context.Context, paymentIntentID string, amountMinor int64) (string, error)

	// VerifyWebhook checks the payload signature and decodes the event.
	// A bad signature is an error; an event type the flow does not
	// consume is returned as-is for the caller to ignore.
	VerifyWebhook(payload []byte, signature string) (*CheckoutEvent, error)
}
