package domain

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

// BookingType identifies which catalog item a booking refers to
type BookingType string

const (
	BookingTypeTrip    BookingType = "trip"
	BookingTypePackage BookingType = "package"
)

// String returns the string representation
func (t BookingType) String() string {
	return string(t)
}

// Valid reports whether the booking type is one of the supported kinds
func (t BookingType) Valid() bool {
	return t == BookingTypeTrip || t == BookingTypePackage
}

// ParseBookingType parses a booking type from user input
func ParseBookingType(s string) (BookingType, error) {
	t := BookingType(strings.ToLower(s))
	if !t.Valid() {
		return "", ErrInvalidBookingType
	}
	return t, nil
}

// PaymentMethod is how the customer pays
type PaymentMethod string

const (
	PaymentMethodCash PaymentMethod = "cash"
	PaymentMethodCard PaymentMethod = "card"
)

// Valid reports whether the payment method is supported
func (m PaymentMethod) Valid() bool {
	return m == PaymentMethodCash || m == PaymentMethodCard
}

// PaymentType is full payment up front or a deposit with a remainder
type PaymentType string

const (
	PaymentTypeFull    PaymentType = "full"
	PaymentTypeDeposit PaymentType = "deposit"
)

// Valid reports whether the payment type is supported
func (t PaymentType) Valid() bool {
	return t == PaymentTypeFull || t == PaymentTypeDeposit
}

// PaymentStatus tracks how much of the total has been settled
type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPartial  PaymentStatus = "partial"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

// BookingStatus is the primary lifecycle state machine
type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
	BookingStatusExpired   BookingStatus = "expired"
)

// String returns the string representation
func (s BookingStatus) String() string {
	return string(s)
}

// Terminal reports whether no further transitions are permitted
func (s BookingStatus) Terminal() bool {
	return s == BookingStatusCancelled || s == BookingStatusExpired
}

// DepositPercent is the deposit fraction of the total price. The source
// policy drifted between 30% and 50%; 50% is the adopted value and it
// must only ever be referenced through this constant.
const DepositPercent = 50

// CashPaymentWindow is how long an unpaid cash booking holds its seats
const CashPaymentWindow = 48 * time.Hour

// TravelerCounts holds the party composition for a booking
type TravelerCounts struct {
	Adults     int `json:"adults"`
	Children   int `json:"children"`
	Foreigners int `json:"foreigners"`
}

// Total returns the total number of travelers
func (c TravelerCounts) Total() int {
	return c.Adults + c.Children + c.Foreigners
}

// Validate checks the party composition
func (c TravelerCounts) Validate() error {
	if c.Adults < 0 || c.Children < 0 || c.Foreigners < 0 {
		return ErrNegativeTravelers
	}
	if c.Adults < 1 {
		return ErrAdultRequired
	}
	return nil
}

// Booking is one reservation of a trip or package
type Booking struct {
	ID            string         `json:"id"`
	BookingNumber string         `json:"booking_number"`
	UserID        string         `json:"user_id"`
	UserEmail     string         `json:"user_email"`
	BookingType   BookingType    `json:"booking_type"`
	ItemID        string         `json:"item_id"`
	Travelers     TravelerCounts `json:"travelers"`
	PickupCity    string         `json:"pickup_city,omitempty"`
	DepartureDate time.Time      `json:"departure_date"`

	// Money, in minor units (piastres)
	TotalPrice      int64 `json:"total_price"`
	PaidAmount      int64 `json:"paid_amount"`
	RemainingAmount int64 `json:"remaining_amount"`

	PaymentType   PaymentType   `json:"payment_type"`
	PaymentMethod PaymentMethod `json:"payment_method"`
	PaymentStatus PaymentStatus `json:"payment_status"`
	Status        BookingStatus `json:"status"`

	StripeSessionID string `json:"stripe_session_id,omitempty"`
	PaymentIntentID string `json:"payment_intent_id,omitempty"`

	RefundAmount int64      `json:"refund_amount"`
	RefundDate   *time.Time `json:"refund_date,omitempty"`

	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
	CancelledAt *time.Time `json:"cancelled_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// BelongsToUser checks if the booking belongs to the given user
func (b *Booking) BelongsToUser(userID string) bool {
	return b.UserID == userID
}

// SeatBound reports whether the booking holds seats in a package ledger
func (b *Booking) SeatBound() bool {
	return b.BookingType == BookingTypePackage
}

// CheckMoneyInvariant verifies paid + remaining == total. A violation is
// a bug, never a recoverable condition.
func (b *Booking) CheckMoneyInvariant() error {
	if b.PaidAmount < 0 || b.RemainingAmount < 0 {
		return fmt.Errorf("booking %s: negative money state (paid=%d remaining=%d)",
			b.BookingNumber, b.PaidAmount, b.RemainingAmount)
	}
	if b.PaidAmount+b.RemainingAmount != b.TotalPrice {
		return fmt.Errorf("booking %s: paid %d + remaining %d != total %d",
			b.BookingNumber, b.PaidAmount, b.RemainingAmount, b.TotalPrice)
	}
	return nil
}

// PaymentSplit is the paid/remaining division of a total
type PaymentSplit struct {
	PaidAmount      int64
	RemainingAmount int64
	PaymentStatus   PaymentStatus
}

// SplitPayment computes the paid/remaining amounts for a total. Deposit
// pays DepositPercent now; integer division rounds the deposit down so
// the remainder absorbs the odd minor unit and the sum always equals the
// total.
func SplitPayment(total int64, paymentType PaymentType) PaymentSplit {
	if paymentType == PaymentTypeDeposit {
		deposit := total * DepositPercent / 100
		return PaymentSplit{
			PaidAmount:      deposit,
			RemainingAmount: total - deposit,
			PaymentStatus:   PaymentStatusPartial,
		}
	}
	return PaymentSplit{
		PaidAmount:      total,
		RemainingAmount: 0,
		PaymentStatus:   PaymentStatusPaid,
	}
}

// AmountDueNow is what a checkout session is opened for at creation time
func AmountDueNow(total int64, paymentType PaymentType) int64 {
	return SplitPayment(total, paymentType).PaidAmount
}

// NewBookingNumber generates a human-readable booking number,
// e.g. BK-20260828-9F3A1C. Never reused; uniqueness is enforced by the
// bookings table.
func NewBookingNumber(now time.Time) string {
	buf := make([]byte, 3)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand failing means the platform is broken; fall back to
		// the clock rather than panic in a request path.
		return fmt.Sprintf("BK-%s-%06X", now.Format("20060102"), now.UnixNano()&0xFFFFFF)
	}
	return fmt.Sprintf("BK-%s-%s", now.Format("20060102"), strings.ToUpper(hex.EncodeToString(buf)))
}
