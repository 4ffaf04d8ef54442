package repository

import (
	"context"
	"errors"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/atlastrips/travel-booking/internal/database"
	"github.com/atlastrips/travel-booking/internal/domain"
)

// skipIfNoIntegration skips the test if INTEGRATION_TEST env var is not set
func skipIfNoIntegration(t *testing.T) {
	if os.Getenv("INTEGRATION_TEST") != "true" {
		t.Skip("Skipping integration test. Set INTEGRATION_TEST=true to run")
	}
}

func setupTestDB(t *testing.T) *database.PostgresDB {
	skipIfNoIntegration(t)

	cfg := database.DefaultPostgresConfig()
	cfg.Database = "travel_booking_test"
	cfg.MaxRetries = 0

	if host := os.Getenv("TEST_POSTGRES_HOST"); host != "" {
		cfg.Host = host
	}
	if port := os.Getenv("TEST_POSTGRES_PORT"); port != "" {
		p, err := strconv.Atoi(port)
		if err != nil {
			t.Fatalf("Invalid TEST_POSTGRES_PORT %q: %v", port, err)
		}
		cfg.Port = p
	}
	if user := os.Getenv("TEST_POSTGRES_USER"); user != "" {
		cfg.User = user
	}
	if password := os.Getenv("TEST_POSTGRES_PASSWORD"); password != "" {
		cfg.Password = password
	}
	if dbname := os.Getenv("TEST_POSTGRES_DB"); dbname != "" {
		cfg.Database = dbname
	}

	db, err := database.NewPostgres(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Failed to connect to PostgreSQL: %v", err)
	}
	t.Cleanup(db.Close)

	return db
}

// seedTestPackage inserts a package and removes it when the test ends
func seedTestPackage(t *testing.T, db *database.PostgresDB, capacity, available int) string {
	id := uuid.New().String()
	_, err := db.Pool().Exec(context.Background(), `
		INSERT INTO packages (id, title, adult_price, capacity, available_seats, departure_date)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		id, "Seat Ledger Test Package", int64(100000), capacity, available,
		time.Now().UTC().AddDate(0, 1, 0),
	)
	if err != nil {
		t.Fatalf("Failed to seed package: %v", err)
	}
	t.Cleanup(func() {
		_, _ = db.Pool().Exec(context.Background(), "DELETE FROM packages WHERE id = $1", id)
	})
	return id
}

func availableSeats(t *testing.T, db *database.PostgresDB, packageID string) int {
	var seats int
	err := db.Pool().QueryRow(context.Background(),
		"SELECT available_seats FROM packages WHERE id = $1", packageID).Scan(&seats)
	if err != nil {
		t.Fatalf("Failed to read available seats: %v", err)
	}
	return seats
}

func newCashPackageBooking(packageID string, adults int) *domain.Booking {
	now := time.Now().UTC().Truncate(time.Microsecond)
	expires := now.Add(domain.CashPaymentWindow)
	total := int64(adults) * 100000
	return &domain.Booking{
		ID:            uuid.New().String(),
		BookingNumber: domain.NewBookingNumber(now),
		UserID:        "repo-test-user",
		UserEmail:     "repo-test@example.com",
		BookingType:   domain.BookingTypePackage,
		ItemID:        packageID,
		Travelers:     domain.TravelerCounts{Adults: adults},
		DepartureDate: now.AddDate(0, 1, 0),
		TotalPrice:    total,
		PaidAmount:    total,
		PaymentType:   domain.PaymentTypeFull,
		PaymentMethod: domain.PaymentMethodCash,
		PaymentStatus: domain.PaymentStatusPending,
		Status:        domain.BookingStatusPending,
		ExpiresAt:     &expires,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func cleanupBooking(t *testing.T, db *database.PostgresDB, id string) {
	t.Cleanup(func() {
		_, _ = db.Pool().Exec(context.Background(), "DELETE FROM bookings WHERE id = $1", id)
	})
}

func TestPostgresBookingRepository_Create_TakesLastSeats(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostgresBookingRepository(db)
	ctx := context.Background()

	packageID := seedTestPackage(t, db, 5, 5)
	booking := newCashPackageBooking(packageID, 5)
	cleanupBooking(t, db, booking.ID)

	if err := repo.Create(ctx, booking); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if seats := availableSeats(t, db, packageID); seats != 0 {
		t.Errorf("available_seats = %d, want 0", seats)
	}

	retrieved, err := repo.GetByID(ctx, booking.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if retrieved.BookingNumber != booking.BookingNumber {
		t.Errorf("BookingNumber = %v, want %v", retrieved.BookingNumber, booking.BookingNumber)
	}
}

func TestPostgresBookingRepository_Create_OneSeatShortRollsBack(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostgresBookingRepository(db)
	ctx := context.Background()

	packageID := seedTestPackage(t, db, 5, 4)
	booking := newCashPackageBooking(packageID, 5)
	cleanupBooking(t, db, booking.ID)

	err := repo.Create(ctx, booking)
	if !errors.Is(err, domain.ErrInsufficientSeats) {
		t.Fatalf("Create() error = %v, want %v", err, domain.ErrInsufficientSeats)
	}

	// No partial decrement and no orphaned booking row
	if seats := availableSeats(t, db, packageID); seats != 4 {
		t.Errorf("available_seats = %d, want 4", seats)
	}
	if _, err := repo.GetByID(ctx, booking.ID); !errors.Is(err, domain.ErrBookingNotFound) {
		t.Errorf("GetByID() after rollback error = %v, want %v", err, domain.ErrBookingNotFound)
	}
}

func TestPostgresBookingRepository_Create_DuplicateSessionRejected(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostgresBookingRepository(db)
	ctx := context.Background()

	packageID := seedTestPackage(t, db, 10, 10)
	sessionID := "cs_test_" + uuid.New().String()

	first := newCashPackageBooking(packageID, 2)
	first.PaymentMethod = domain.PaymentMethodCard
	first.Status = domain.BookingStatusConfirmed
	first.PaymentStatus = domain.PaymentStatusPaid
	first.StripeSessionID = sessionID
	first.ExpiresAt = nil
	cleanupBooking(t, db, first.ID)

	if err := repo.Create(ctx, first); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	replay := newCashPackageBooking(packageID, 2)
	replay.PaymentMethod = domain.PaymentMethodCard
	replay.Status = domain.BookingStatusConfirmed
	replay.PaymentStatus = domain.PaymentStatusPaid
	replay.StripeSessionID = sessionID
	replay.ExpiresAt = nil
	cleanupBooking(t, db, replay.ID)

	err := repo.Create(ctx, replay)
	if !errors.Is(err, domain.ErrDuplicateSession) {
		t.Fatalf("Create() replay error = %v, want %v", err, domain.ErrDuplicateSession)
	}

	// The replay must not reserve a second set of seats
	if seats := availableSeats(t, db, packageID); seats != 8 {
		t.Errorf("available_seats = %d, want 8", seats)
	}
}

func TestPostgresBookingRepository_Cancel_ReleaseClampedAtCapacity(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostgresBookingRepository(db)
	ctx := context.Background()

	packageID := seedTestPackage(t, db, 10, 10)
	booking := newCashPackageBooking(packageID, 4)
	cleanupBooking(t, db, booking.ID)

	if err := repo.Create(ctx, booking); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	// Simulate an operator topping the pool back up while the booking
	// still holds its seats; releasing must not drive it past capacity
	_, err := db.Pool().Exec(ctx,
		"UPDATE packages SET available_seats = 9 WHERE id = $1", packageID)
	if err != nil {
		t.Fatalf("Failed to adjust seats: %v", err)
	}

	cancelled, err := repo.Cancel(ctx, booking, 0, time.Now().UTC())
	if err != nil {
		t.Fatalf("Cancel() error = %v", err)
	}
	if cancelled.Status != domain.BookingStatusCancelled {
		t.Errorf("Status = %v, want %v", cancelled.Status, domain.BookingStatusCancelled)
	}

	if seats := availableSeats(t, db, packageID); seats != 10 {
		t.Errorf("available_seats = %d, want 10 (clamped at capacity)", seats)
	}
}

func TestPostgresBookingRepository_ListExpiredCash_InclusiveBoundary(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostgresBookingRepository(db)
	ctx := context.Background()

	packageID := seedTestPackage(t, db, 10, 10)
	booking := newCashPackageBooking(packageID, 1)
	cutoff := time.Now().UTC().Truncate(time.Microsecond)
	booking.ExpiresAt = &cutoff
	cleanupBooking(t, db, booking.ID)

	if err := repo.Create(ctx, booking); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	// A booking expiring exactly at the sweep time is already overdue
	expired, err := repo.ListExpiredCash(ctx, cutoff, 100)
	if err != nil {
		t.Fatalf("ListExpiredCash() error = %v", err)
	}
	if !containsBooking(expired, booking.ID) {
		t.Errorf("ListExpiredCash(cutoff) missing booking expiring at the cutoff")
	}

	early, err := repo.ListExpiredCash(ctx, cutoff.Add(-time.Microsecond), 100)
	if err != nil {
		t.Fatalf("ListExpiredCash() error = %v", err)
	}
	if containsBooking(early, booking.ID) {
		t.Errorf("ListExpiredCash(cutoff-1us) returned a booking that is not yet overdue")
	}
}

func containsBooking(bookings []*domain.Booking, id string) bool {
	for _, b := range bookings {
		if b.ID == id {
			return true
		}
	}
	return false
}
