package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/atlastrips/travel-booking/internal/database"
	"github.com/atlastrips/travel-booking/internal/domain"
)

// PostgresCatalogRepository implements CatalogRepository backed by pgx
type PostgresCatalogRepository struct {
	db *database.PostgresDB
}

// NewPostgresCatalogRepository creates a new PostgreSQL catalog repository
func NewPostgresCatalogRepository(db *database.PostgresDB) *PostgresCatalogRepository {
	return &PostgresCatalogRepository{db: db}
}

// GetTrip retrieves a trip by ID
func (r *PostgresCatalogRepository) GetTrip(ctx context.Context, id string) (*domain.Trip, error) {
	query := `
		SELECT id, title, adult_price, child_price, foreigner_price, created_at, updated_at
		FROM trips
		WHERE id = $1`

	var t domain.Trip
	err := r.db.Pool().QueryRow(ctx, query, id).Scan(
		&t.ID, &t.Title, &t.AdultPrice, &t.ChildPrice, &t.ForeignerPrice,
		&t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTripNotFound
		}
		return nil, fmt.Errorf("failed to get trip: %w", err)
	}
	return &t, nil
}

// GetPackage retrieves a package with its pickup locations
func (r *PostgresCatalogRepository) GetPackage(ctx context.Context, id string) (*domain.Package, error) {
	query := `
		SELECT id, title, adult_price, child_price, foreigner_price,
		       capacity, available_seats, departure_date, created_at, updated_at
		FROM packages
		WHERE id = $1`

	var p domain.Package
	err := r.db.Pool().QueryRow(ctx, query, id).Scan(
		&p.ID, &p.Title, &p.AdultPrice, &p.ChildPrice, &p.ForeignerPrice,
		&p.Capacity, &p.AvailableSeats, &p.DepartureDate,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPackageNotFound
		}
		return nil, fmt.Errorf("failed to get package: %w", err)
	}

	pickupQuery := `
		SELECT city, place, pickup_time, price_adjustment
		FROM package_pickup_locations
		WHERE package_id = $1
		ORDER BY city`

	rows, err := r.db.Pool().Query(ctx, pickupQuery, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get pickup locations: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var loc domain.PickupLocation
		if err := rows.Scan(&loc.City, &loc.Place, &loc.Time, &loc.PriceAdjustment); err != nil {
			return nil, fmt.Errorf("failed to scan pickup location: %w", err)
		}
		p.PickupLocations = append(p.PickupLocations, loc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate pickup locations: %w", err)
	}

	return &p, nil
}

// reserveSeats decrements available_seats only when enough remain. Zero
// rows affected means another booking took the seats first; the ledger
// is never driven negative.
func reserveSeats(ctx context.Context, tx pgx.Tx, packageID string, seats int) error {
	query := `
		UPDATE packages
		SET available_seats = available_seats - $2, updated_at = NOW()
		WHERE id = $1 AND available_seats >= $2`

	tag, err := tx.Exec(ctx, query, packageID, seats)
	if err != nil {
		return fmt.Errorf("failed to reserve seats: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrInsufficientSeats
	}
	return nil
}

// releaseSeats returns seats to the pool, clamped at capacity so a
// double release cannot oversell the next departure
func releaseSeats(ctx context.Context, tx pgx.Tx, packageID string, seats int) error {
	query := `
		UPDATE packages
		SET available_seats = LEAST(capacity, available_seats + $2), updated_at = NOW()
		WHERE id = $1`

	tag, err := tx.Exec(ctx, query, packageID, seats)
	if err != nil {
		return fmt.Errorf("failed to release seats: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrPackageNotFound
	}
	return nil
}
