package domain

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitPayment_Full(t *testing.T) {
	split := SplitPayment(100000, PaymentTypeFull)

	assert.Equal(t, int64(100000), split.PaidAmount)
	assert.Equal(t, int64(0), split.RemainingAmount)
	assert.Equal(t, PaymentStatusPaid, split.PaymentStatus)
}

func TestSplitPayment_Deposit(t *testing.T) {
	split := SplitPayment(100000, PaymentTypeDeposit)

	assert.Equal(t, int64(50000), split.PaidAmount)
	assert.Equal(t, int64(50000), split.RemainingAmount)
	assert.Equal(t, PaymentStatusPartial, split.PaymentStatus)
}

func TestSplitPayment_OddTotalNeverDrifts(t *testing.T) {
	// The odd minor unit lands on the remainder
	for _, total := range []int64{1, 99, 100001, 333333} {
		split := SplitPayment(total, PaymentTypeDeposit)
		assert.Equal(t, total, split.PaidAmount+split.RemainingAmount, "total=%d", total)
		assert.LessOrEqual(t, split.PaidAmount, split.RemainingAmount, "total=%d", total)
	}
}

func TestAmountDueNow(t *testing.T) {
	assert.Equal(t, int64(200000), AmountDueNow(200000, PaymentTypeFull))
	assert.Equal(t, int64(100000), AmountDueNow(200000, PaymentTypeDeposit))
}

func TestBooking_CheckMoneyInvariant(t *testing.T) {
	b := &Booking{BookingNumber: "BK-20260101-AAAAAA", TotalPrice: 1000, PaidAmount: 500, RemainingAmount: 500}
	assert.NoError(t, b.CheckMoneyInvariant())

	b.RemainingAmount = 400
	assert.Error(t, b.CheckMoneyInvariant())

	b.PaidAmount = -100
	assert.Error(t, b.CheckMoneyInvariant())
}

func TestBookingStatus_Terminal(t *testing.T) {
	assert.False(t, BookingStatusPending.Terminal())
	assert.False(t, BookingStatusConfirmed.Terminal())
	assert.True(t, BookingStatusCancelled.Terminal())
	assert.True(t, BookingStatusExpired.Terminal())
}

func TestParseBookingType(t *testing.T) {
	typ, err := ParseBookingType("Trip")
	require.NoError(t, err)
	assert.Equal(t, BookingTypeTrip, typ)

	typ, err = ParseBookingType("package")
	require.NoError(t, err)
	assert.Equal(t, BookingTypePackage, typ)

	_, err = ParseBookingType("cruise")
	assert.ErrorIs(t, err, ErrInvalidBookingType)
}

func TestTravelerCounts_Validate(t *testing.T) {
	assert.NoError(t, TravelerCounts{Adults: 1}.Validate())
	assert.NoError(t, TravelerCounts{Adults: 2, Children: 3, Foreigners: 1}.Validate())

	// Children without an adult is rejected
	assert.ErrorIs(t, TravelerCounts{Children: 2}.Validate(), ErrAdultRequired)
	assert.ErrorIs(t, TravelerCounts{Adults: 1, Children: -1}.Validate(), ErrNegativeTravelers)
}

func TestTravelerCounts_Total(t *testing.T) {
	assert.Equal(t, 6, TravelerCounts{Adults: 2, Children: 3, Foreigners: 1}.Total())
}

func TestNewBookingNumber(t *testing.T) {
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	pattern := regexp.MustCompile(`^BK-20260828-[0-9A-F]{6}$`)

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		num := NewBookingNumber(now)
		assert.Regexp(t, pattern, num)
		assert.False(t, seen[num], "booking number repeated: %s", num)
		seen[num] = true
	}
}
