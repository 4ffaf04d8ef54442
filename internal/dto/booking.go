package dto

import (
	"time"

	"github.com/atlastrips/travel-booking/internal/domain"
)

// CreateBookingRequest is the payload for creating a booking
type CreateBookingRequest struct {
	ItemID        string `json:"item_id" binding:"required"`
	BookingType   string `json:"booking_type" binding:"required"`
	Adults        int    `json:"adults" binding:"required,min=1"`
	Children      int    `json:"children" binding:"min=0"`
	Foreigners    int    `json:"foreigners" binding:"min=0"`
	PaymentType   string `json:"payment_type" binding:"required"`
	PaymentMethod string `json:"payment_method" binding:"required"`
	PickupCity    string `json:"pickup_city"`
	DepartureDate string `json:"departure_date"` // YYYY-MM-DD, trips only
}

// Counts returns the traveler counts from the request
func (r *CreateBookingRequest) Counts() domain.TravelerCounts {
	return domain.TravelerCounts{
		Adults:     r.Adults,
		Children:   r.Children,
		Foreigners: r.Foreigners,
	}
}

// CheckoutRedirect is returned for card bookings: no booking exists yet,
// the customer completes payment on the hosted page
type CheckoutRedirect struct {
	SessionID  string `json:"session_id"`
	SessionURL string `json:"session_url"`
}

// CreateBookingResult is either a persisted cash booking or a checkout
// redirect for card payments
type CreateBookingResult struct {
	Booking  *BookingResponse  `json:"booking,omitempty"`
	Checkout *CheckoutRedirect `json:"checkout,omitempty"`
}

// BookingResponse is the client-facing booking shape
type BookingResponse struct {
	ID              string                `json:"id"`
	BookingNumber   string                `json:"booking_number"`
	UserID          string                `json:"user_id"`
	BookingType     string                `json:"booking_type"`
	ItemID          string                `json:"item_id"`
	Travelers       domain.TravelerCounts `json:"travelers"`
	PickupCity      string                `json:"pickup_city,omitempty"`
	DepartureDate   time.Time             `json:"departure_date"`
	TotalPrice      int64                 `json:"total_price"`
	PaidAmount      int64                 `json:"paid_amount"`
	RemainingAmount int64                 `json:"remaining_amount"`
	PaymentType     string                `json:"payment_type"`
	PaymentMethod   string                `json:"payment_method"`
	PaymentStatus   string                `json:"payment_status"`
	Status          string                `json:"status"`
	RefundAmount    int64                 `json:"refund_amount,omitempty"`
	RefundDate      *time.Time            `json:"refund_date,omitempty"`
	ExpiresAt       *time.Time            `json:"expires_at,omitempty"`
	CreatedAt       time.Time             `json:"created_at"`
	UpdatedAt       time.Time             `json:"updated_at"`
}

// FromDomain converts a domain booking to its response shape
func FromDomain(b *domain.Booking) *BookingResponse {
	return &BookingResponse{
		ID:              b.ID,
		BookingNumber:   b.BookingNumber,
		UserID:          b.UserID,
		BookingType:     b.BookingType.String(),
		ItemID:          b.ItemID,
		Travelers:       b.Travelers,
		PickupCity:      b.PickupCity,
		DepartureDate:   b.DepartureDate,
		TotalPrice:      b.TotalPrice,
		PaidAmount:      b.PaidAmount,
		RemainingAmount: b.RemainingAmount,
		PaymentType:     string(b.PaymentType),
		PaymentMethod:   string(b.PaymentMethod),
		PaymentStatus:   string(b.PaymentStatus),
		Status:          b.Status.String(),
		RefundAmount:    b.RefundAmount,
		RefundDate:      b.RefundDate,
		ExpiresAt:       b.ExpiresAt,
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}
}

// PaginatedResponse wraps a page of results
type PaginatedResponse struct {
	Data     interface{} `json:"data"`
	Page     int         `json:"page"`
	PageSize int         `json:"page_size"`
	HasMore  bool        `json:"has_more"`
}
