package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/atlastrips/travel-booking/internal/database"
	"github.com/atlastrips/travel-booking/internal/domain"
)

const uniqueViolationCode = "23505"

const bookingColumns = `
	id, booking_number, user_id, user_email, booking_type, item_id,
	adults, children, foreigners, pickup_city, departure_date,
	total_price, paid_amount, remaining_amount,
	payment_type, payment_method, payment_status, status,
	stripe_session_id, payment_intent_id,
	refund_amount, refund_date,
	expires_at, cancelled_at, created_at, updated_at`

// PostgresBookingRepository implements BookingRepository backed by pgx
type PostgresBookingRepository struct {
	db *database.PostgresDB
}

// NewPostgresBookingRepository creates a new PostgreSQL booking repository
func NewPostgresBookingRepository(db *database.PostgresDB) *PostgresBookingRepository {
	return &PostgresBookingRepository{db: db}
}

// Create inserts the booking and reserves its seats atomically. The
// insert runs first so a replayed checkout session is rejected by the
// unique index before the seat ledger is touched.
func (r *PostgresBookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	tx, err := r.db.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO bookings (
			id, booking_number, user_id, user_email, booking_type, item_id,
			adults, children, foreigners, pickup_city, departure_date,
			total_price, paid_amount, remaining_amount,
			payment_type, payment_method, payment_status, status,
			stripe_session_id, payment_intent_id,
			expires_at, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6,
			$7, $8, $9, $10, $11,
			$12, $13, $14,
			$15, $16, $17, $18,
			$19, $20,
			$21, $22, $23
		)`

	_, err = tx.Exec(ctx, query,
		b.ID, b.BookingNumber, b.UserID, b.UserEmail, b.BookingType, b.ItemID,
		b.Travelers.Adults, b.Travelers.Children, b.Travelers.Foreigners,
		nullString(b.PickupCity), b.DepartureDate,
		b.TotalPrice, b.PaidAmount, b.RemainingAmount,
		b.PaymentType, b.PaymentMethod, b.PaymentStatus, b.Status,
		nullString(b.StripeSessionID), nullString(b.PaymentIntentID),
		b.ExpiresAt, b.CreatedAt, b.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return domain.ErrDuplicateSession
		}
		return fmt.Errorf("failed to insert booking: %w", err)
	}

	if b.SeatBound() {
		if err := reserveSeats(ctx, tx, b.ItemID, b.Travelers.Total()); err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit booking: %w", err)
	}
	return nil
}

// GetByID retrieves a booking by ID
func (r *PostgresBookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	query := `SELECT` + bookingColumns + ` FROM bookings WHERE id = $1`
	return r.scanOne(r.db.Pool().QueryRow(ctx, query, id))
}

// GetBySessionID retrieves a booking by its checkout session
func (r *PostgresBookingRepository) GetBySessionID(ctx context.Context, sessionID string) (*domain.Booking, error) {
	query := `SELECT` + bookingColumns + ` FROM bookings WHERE stripe_session_id = $1`
	return r.scanOne(r.db.Pool().QueryRow(ctx, query, sessionID))
}

// ListByUser retrieves a user's bookings, newest first
func (r *PostgresBookingRepository) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*domain.Booking, error) {
	query := `SELECT` + bookingColumns + `
		FROM bookings
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`

	rows, err := r.db.Pool().Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	defer rows.Close()

	return r.scanAll(rows)
}

// ListAll retrieves all bookings, newest first
func (r *PostgresBookingRepository) ListAll(ctx context.Context, limit, offset int) ([]*domain.Booking, error) {
	query := `SELECT` + bookingColumns + `
		FROM bookings
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`

	rows, err := r.db.Pool().Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	defer rows.Close()

	return r.scanAll(rows)
}

// Confirm settles the full amount and moves pending -> confirmed
func (r *PostgresBookingRepository) Confirm(ctx context.Context, id string) (*domain.Booking, error) {
	query := `
		UPDATE bookings
		SET status = $1,
		    payment_status = $2,
		    paid_amount = total_price,
		    remaining_amount = 0,
		    updated_at = NOW()
		WHERE id = $3 AND status = $4`

	tag, err := r.db.Pool().Exec(ctx, query,
		domain.BookingStatusConfirmed, domain.PaymentStatusPaid,
		id, domain.BookingStatusPending,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to confirm booking: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, r.transitionConflict(ctx, id)
	}
	return r.GetByID(ctx, id)
}

// Cancel moves the booking to cancelled, records the refund, and
// releases seats in one transaction. Guarded on the non-terminal states
// so a concurrent cancel or expiry wins exactly once.
func (r *PostgresBookingRepository) Cancel(ctx context.Context, b *domain.Booking, refundAmount int64, refundDate time.Time) (*domain.Booking, error) {
	tx, err := r.db.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		UPDATE bookings
		SET status = $1,
		    payment_status = CASE WHEN $2::bigint > 0 THEN $3 ELSE payment_status END,
		    refund_amount = $2,
		    refund_date = CASE WHEN $2::bigint > 0 THEN $4::timestamptz ELSE refund_date END,
		    cancelled_at = NOW(),
		    updated_at = NOW()
		WHERE id = $5 AND status IN ($6, $7)`

	tag, err := tx.Exec(ctx, query,
		domain.BookingStatusCancelled, refundAmount, domain.PaymentStatusRefunded, refundDate,
		b.ID, domain.BookingStatusPending, domain.BookingStatusConfirmed,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to cancel booking: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, r.transitionConflict(ctx, b.ID)
	}

	if b.SeatBound() {
		if err := releaseSeats(ctx, tx, b.ItemID, b.Travelers.Total()); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit cancellation: %w", err)
	}
	return r.GetByID(ctx, b.ID)
}

// MarkExpired moves a pending cash booking to expired and releases its
// seats. A booking that already left pending reports applied=false.
func (r *PostgresBookingRepository) MarkExpired(ctx context.Context, b *domain.Booking) (bool, error) {
	tx, err := r.db.BeginTx(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		UPDATE bookings
		SET status = $1, updated_at = NOW()
		WHERE id = $2 AND status = $3 AND payment_method = $4`

	tag, err := tx.Exec(ctx, query,
		domain.BookingStatusExpired, b.ID,
		domain.BookingStatusPending, domain.PaymentMethodCash,
	)
	if err != nil {
		return false, fmt.Errorf("failed to expire booking: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return false, nil
	}

	if b.SeatBound() {
		if err := releaseSeats(ctx, tx, b.ItemID, b.Travelers.Total()); err != nil {
			return false, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return false, fmt.Errorf("failed to commit expiry: %w", err)
	}
	return true, nil
}

// SettleRemaining clears the balance of a deposit booking. The guard on
// remaining_amount makes a replayed settlement a no-op, surfaced as
// ErrDuplicateSession so webhook delivery can be acknowledged.
func (r *PostgresBookingRepository) SettleRemaining(ctx context.Context, id, paymentIntentID string) (*domain.Booking, error) {
	query := `
		UPDATE bookings
		SET paid_amount = total_price,
		    remaining_amount = 0,
		    payment_status = $1,
		    payment_intent_id = COALESCE(NULLIF($2, ''), payment_intent_id),
		    updated_at = NOW()
		WHERE id = $3 AND payment_type = $4 AND remaining_amount > 0 AND status NOT IN ($5, $6)`

	tag, err := r.db.Pool().Exec(ctx, query,
		domain.PaymentStatusPaid, paymentIntentID,
		id, domain.PaymentTypeDeposit,
		domain.BookingStatusCancelled, domain.BookingStatusExpired,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to settle remaining payment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		b, err := r.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if b.RemainingAmount == 0 && b.PaymentType == domain.PaymentTypeDeposit {
			return nil, domain.ErrDuplicateSession
		}
		return nil, r.classifyBooking(b)
	}
	return r.GetByID(ctx, id)
}

// ListExpiredCash returns unpaid cash bookings whose window has closed
func (r *PostgresBookingRepository) ListExpiredCash(ctx context.Context, now time.Time, limit int) ([]*domain.Booking, error) {
	query := `SELECT` + bookingColumns + `
		FROM bookings
		WHERE status = $1 AND payment_method = $2 AND expires_at <= $3
		ORDER BY expires_at ASC
		LIMIT $4`

	rows, err := r.db.Pool().Query(ctx, query,
		domain.BookingStatusPending, domain.PaymentMethodCash, now, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list expired bookings: %w", err)
	}
	defer rows.Close()

	return r.scanAll(rows)
}

// transitionConflict re-reads the booking to name the state that blocked
// a guarded update
func (r *PostgresBookingRepository) transitionConflict(ctx context.Context, id string) error {
	b, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	return r.classifyBooking(b)
}

func (r *PostgresBookingRepository) classifyBooking(b *domain.Booking) error {
	switch b.Status {
	case domain.BookingStatusCancelled:
		return domain.ErrBookingCancelled
	case domain.BookingStatusExpired:
		return domain.ErrBookingExpired
	case domain.BookingStatusConfirmed:
		return domain.ErrAlreadyConfirmed
	default:
		return domain.ErrNotPending
	}
}

func (r *PostgresBookingRepository) scanOne(row pgx.Row) (*domain.Booking, error) {
	b, err := scanBooking(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBookingNotFound
		}
		return nil, fmt.Errorf("failed to scan booking: %w", err)
	}
	return b, nil
}

func (r *PostgresBookingRepository) scanAll(rows pgx.Rows) ([]*domain.Booking, error) {
	var bookings []*domain.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate bookings: %w", err)
	}
	return bookings, nil
}

func scanBooking(row pgx.Row) (*domain.Booking, error) {
	var b domain.Booking
	var pickupCity, sessionID, intentID *string

	err := row.Scan(
		&b.ID, &b.BookingNumber, &b.UserID, &b.UserEmail, &b.BookingType, &b.ItemID,
		&b.Travelers.Adults, &b.Travelers.Children, &b.Travelers.Foreigners,
		&pickupCity, &b.DepartureDate,
		&b.TotalPrice, &b.PaidAmount, &b.RemainingAmount,
		&b.PaymentType, &b.PaymentMethod, &b.PaymentStatus, &b.Status,
		&sessionID, &intentID,
		&b.RefundAmount, &b.RefundDate,
		&b.ExpiresAt, &b.CancelledAt, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if pickupCity != nil {
		b.PickupCity = *pickupCity
	}
	if sessionID != nil {
		b.StripeSessionID = *sessionID
	}
	if intentID != nil {
		b.PaymentIntentID = *intentID
	}
	return &b, nil
}

// nullString maps empty strings to NULL so partial unique indexes and
// COALESCE defaults behave
func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
