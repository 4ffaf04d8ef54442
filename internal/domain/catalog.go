package domain

import (
	"strings"
	"time"
)

// ForeignerMarkupPercent is applied over the local adult rate when an
// item has no explicit foreigner rate.
const ForeignerMarkupPercent = 40

// Trip is a fixed-departure excursion. Trips are not seat-limited; the
// customer picks the departure date.
type Trip struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	AdultPrice     int64     `json:"adult_price"`
	ChildPrice     int64     `json:"child_price"`
	ForeignerPrice int64     `json:"foreigner_price"` // 0 means derive from adult rate
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// RateCard returns the trip's per-category rates
func (t *Trip) RateCard() RateCard {
	return RateCard{
		AdultPrice:     t.AdultPrice,
		ChildPrice:     t.ChildPrice,
		ForeignerPrice: t.ForeignerPrice,
	}
}

// PickupLocation is a package pickup point with a per-traveler price
// adjustment (may be negative for cities close to the departure point).
type PickupLocation struct {
	City            string `json:"city"`
	Place           string `json:"place"`
	Time            string `json:"time"`
	PriceAdjustment int64  `json:"price_adjustment"`
}

// Package is a capacity-bounded tour with a fixed departure date. Its
// available_seats column is the inventory ledger contended by concurrent
// bookings; it is only ever mutated through conditional updates.
type Package struct {
	ID              string           `json:"id"`
	Title           string           `json:"title"`
	AdultPrice      int64            `json:"adult_price"`
	ChildPrice      int64            `json:"child_price"`
	ForeignerPrice  int64            `json:"foreigner_price"`
	Capacity        int              `json:"capacity"`
	AvailableSeats  int              `json:"available_seats"`
	DepartureDate   time.Time        `json:"departure_date"`
	PickupLocations []PickupLocation `json:"pickup_locations"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

// RateCard returns the package's per-category rates
func (p *Package) RateCard() RateCard {
	return RateCard{
		AdultPrice:     p.AdultPrice,
		ChildPrice:     p.ChildPrice,
		ForeignerPrice: p.ForeignerPrice,
	}
}

// PickupAdjustment returns the per-traveler adjustment for a pickup
// city. An unmatched city is not an error, it simply adjusts nothing.
func (p *Package) PickupAdjustment(city string) int64 {
	if city == "" {
		return 0
	}
	for _, loc := range p.PickupLocations {
		if strings.EqualFold(loc.City, city) {
			return loc.PriceAdjustment
		}
	}
	return 0
}
