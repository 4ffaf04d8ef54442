package repository

import (
	"context"
	"time"

	"github.com/atlastrips/travel-booking/internal/domain"
)

// BookingRepository persists bookings and owns every status transition.
// Transitions are guarded conditional updates so concurrent writers
// cannot double-apply them.
type BookingRepository interface {
	// Create inserts a booking and, for seat-bound bookings, reserves its
	// seats in the same transaction. A stripe_session_id collision returns
	// domain.ErrDuplicateSession; a failed reservation returns
	// domain.ErrInsufficientSeats and nothing is written.
	Create(ctx context.Context, booking *domain.Booking) error

	GetByID(ctx context.Context, id string) (*domain.Booking, error)
	GetBySessionID(ctx context.Context, sessionID string) (*domain.Booking, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]*domain.Booking, error)
	ListAll(ctx context.Context, limit, offset int) ([]*domain.Booking, error)

	// Confirm moves a pending booking to confirmed and settles its full
	// amount. Applied only while the booking is still pending.
	Confirm(ctx context.Context, id string) (*domain.Booking, error)

	// Cancel moves a pending or confirmed booking to cancelled, records
	// the refund, and releases held seats in the same transaction.
	Cancel(ctx context.Context, booking *domain.Booking, refundAmount int64, refundDate time.Time) (*domain.Booking, error)

	// MarkExpired moves a pending booking to expired and releases its
	// seats. Returns false when the booking was no longer pending, which
	// is not an error for the caller.
	MarkExpired(ctx context.Context, booking *domain.Booking) (bool, error)

	// SettleRemaining clears the outstanding balance of a deposit
	// booking. A second delivery for the same settlement returns
	// domain.ErrDuplicateSession.
	SettleRemaining(ctx context.Context, id, paymentIntentID string) (*domain.Booking, error)

	// ListExpiredCash returns unpaid cash bookings whose payment window
	// has closed as of now. The boundary is inclusive.
	ListExpiredCash(ctx context.Context, now time.Time, limit int) ([]*domain.Booking, error)
}

// CatalogRepository reads the bookable catalog
type CatalogRepository interface {
	GetTrip(ctx context.Context, id string) (*domain.Trip, error)
	GetPackage(ctx context.Context, id string) (*domain.Package, error)
}
