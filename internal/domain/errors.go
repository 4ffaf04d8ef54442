package domain

import "errors"

// Domain errors
var (
	// Booking errors
	ErrBookingNotFound   = errors.New("booking not found")
	ErrBookingCancelled  = errors.New("booking is already cancelled")
	ErrBookingExpired    = errors.New("booking has expired")
	ErrAlreadyConfirmed  = errors.New("booking already confirmed")
	ErrNotPending        = errors.New("booking is not pending")
	ErrDuplicateSession  = errors.New("booking already exists for this checkout session")
	ErrNoRemainingAmount = errors.New("no remaining payment for this booking")
	ErrMissingPaymentRef = errors.New("no payment intent recorded for refund")

	// Validation errors
	ErrInvalidBookingType   = errors.New("invalid booking type, must be trip or package")
	ErrInvalidPaymentMethod = errors.New("invalid payment method, must be cash or card")
	ErrInvalidPaymentType   = errors.New("invalid payment type, must be full or deposit")
	ErrAdultRequired        = errors.New("at least one adult is required")
	ErrNegativeTravelers    = errors.New("traveler counts cannot be negative")
	ErrPastDepartureDate    = errors.New("departure date must be after today")
	ErrMissingDeparture     = errors.New("departure date is required for trip bookings")

	// Catalog errors
	ErrTripNotFound    = errors.New("trip not found")
	ErrPackageNotFound = errors.New("package not found")

	// Inventory errors
	ErrInsufficientSeats = errors.New("insufficient seats available")

	// Authorization errors
	ErrNotBookingOwner = errors.New("not authorized to access this booking")
)

// IsNotFoundError checks if the error is a not found error
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrBookingNotFound) ||
		errors.Is(err, ErrTripNotFound) ||
		errors.Is(err, ErrPackageNotFound)
}

// IsValidationError checks if the error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidBookingType) ||
		errors.Is(err, ErrInvalidPaymentMethod) ||
		errors.Is(err, ErrInvalidPaymentType) ||
		errors.Is(err, ErrAdultRequired) ||
		errors.Is(err, ErrNegativeTravelers) ||
		errors.Is(err, ErrPastDepartureDate) ||
		errors.Is(err, ErrMissingDeparture)
}

// IsConflictError checks if the error is a conflict error
func IsConflictError(err error) bool {
	return errors.Is(err, ErrBookingCancelled) ||
		errors.Is(err, ErrBookingExpired) ||
		errors.Is(err, ErrAlreadyConfirmed) ||
		errors.Is(err, ErrNotPending) ||
		errors.Is(err, ErrInsufficientSeats) ||
		errors.Is(err, ErrNoRemainingAmount) ||
		errors.Is(err, ErrMissingPaymentRef)
}

// IsAuthorizationError checks if the error is an authorization error
func IsAuthorizationError(err error) bool {
	return errors.Is(err, ErrNotBookingOwner)
}
