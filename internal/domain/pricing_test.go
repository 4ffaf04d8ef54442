package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculatePrice_Breakdown(t *testing.T) {
	rates := RateCard{AdultPrice: 100000, ChildPrice: 60000, ForeignerPrice: 150000}
	counts := TravelerCounts{Adults: 2, Children: 1, Foreigners: 1}

	quote := CalculatePrice(rates, counts, 0)

	assert.Equal(t, int64(2*100000+60000+150000), quote.Total)
	require.Len(t, quote.Breakdown, 3)
	assert.Equal(t, "adults", quote.Breakdown[0].Category)
	assert.Equal(t, int64(200000), quote.Breakdown[0].LineTotal)
	assert.Equal(t, int64(60000), quote.Breakdown[1].LineTotal)
	assert.Equal(t, int64(150000), quote.Breakdown[2].LineTotal)
}

func TestCalculatePrice_ForeignerMarkupFallback(t *testing.T) {
	// No explicit foreigner rate: 40% markup over the adult rate
	rates := RateCard{AdultPrice: 100000}
	quote := CalculatePrice(rates, TravelerCounts{Adults: 1, Foreigners: 1}, 0)

	assert.Equal(t, int64(140000), quote.Breakdown[2].UnitPrice)
	assert.Equal(t, int64(240000), quote.Total)
}

func TestCalculatePrice_ChildFallbackToAdultRate(t *testing.T) {
	rates := RateCard{AdultPrice: 80000}
	quote := CalculatePrice(rates, TravelerCounts{Adults: 1, Children: 2}, 0)

	assert.Equal(t, int64(80000), quote.Breakdown[1].UnitPrice)
	assert.Equal(t, int64(240000), quote.Total)
}

func TestCalculatePrice_PickupAdjustment(t *testing.T) {
	rates := RateCard{AdultPrice: 100000, ChildPrice: 50000, ForeignerPrice: 140000}
	counts := TravelerCounts{Adults: 2, Children: 1, Foreigners: 1}

	base := CalculatePrice(rates, counts, 0)
	adjusted := CalculatePrice(rates, counts, 5000)

	// Flat adjustment applies to every traveler
	assert.Equal(t, base.Total+int64(counts.Total())*5000, adjusted.Total)

	negative := CalculatePrice(rates, counts, -2000)
	assert.Equal(t, base.Total-int64(counts.Total())*2000, negative.Total)
}

func TestCalculatePrice_Deterministic(t *testing.T) {
	rates := RateCard{AdultPrice: 123450, ChildPrice: 67890}
	counts := TravelerCounts{Adults: 3, Children: 2, Foreigners: 1}

	first := CalculatePrice(rates, counts, 1500)
	second := CalculatePrice(rates, counts, 1500)

	assert.Equal(t, first, second)
}

func TestCalculatePrice_ZeroCountCategories(t *testing.T) {
	rates := RateCard{AdultPrice: 100000}
	quote := CalculatePrice(rates, TravelerCounts{Adults: 1}, 0)

	assert.Equal(t, int64(100000), quote.Total)
	assert.Equal(t, int64(0), quote.Breakdown[1].LineTotal)
	assert.Equal(t, int64(0), quote.Breakdown[2].LineTotal)
}

func TestPackage_PickupAdjustment(t *testing.T) {
	pkg := &Package{
		PickupLocations: []PickupLocation{
			{City: "Cairo", Place: "Ramses Square", Time: "06:00", PriceAdjustment: 5000},
			{City: "Alexandria", Place: "Sidi Gaber", Time: "05:00", PriceAdjustment: -2000},
		},
	}

	assert.Equal(t, int64(5000), pkg.PickupAdjustment("Cairo"))
	assert.Equal(t, int64(5000), pkg.PickupAdjustment("cairo"))
	assert.Equal(t, int64(-2000), pkg.PickupAdjustment("Alexandria"))
	// Unmatched city adjusts nothing, it is not an error
	assert.Equal(t, int64(0), pkg.PickupAdjustment("Luxor"))
	assert.Equal(t, int64(0), pkg.PickupAdjustment(""))
}
