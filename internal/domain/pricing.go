package domain

// RateCard holds an item's per-category unit prices in minor units.
// ChildPrice or ForeignerPrice of 0 means the rate is not set explicitly
// and falls back: children to the adult rate, foreigners to the adult
// rate plus ForeignerMarkupPercent.
type RateCard struct {
	AdultPrice     int64
	ChildPrice     int64
	ForeignerPrice int64
}

// PriceLine is one traveler category's contribution to the total
type PriceLine struct {
	Category  string `json:"category"`
	Count     int    `json:"count"`
	UnitPrice int64  `json:"unit_price"`
	LineTotal int64  `json:"line_total"`
}

// PriceQuote is the result of a price calculation
type PriceQuote struct {
	Total     int64       `json:"total"`
	Breakdown []PriceLine `json:"breakdown"`
}

// CalculatePrice computes the total and per-category breakdown for a
// party. pickupAdjustment is a flat per-traveler amount applied to every
// category's unit price (packages only; callers pass 0 for trips).
// Pure: no I/O, no rounding, identical inputs yield identical quotes.
func CalculatePrice(rates RateCard, counts TravelerCounts, pickupAdjustment int64) PriceQuote {
	adultPrice := rates.AdultPrice
	childPrice := rates.ChildPrice
	if childPrice == 0 {
		childPrice = adultPrice
	}
	foreignerPrice := rates.ForeignerPrice
	if foreignerPrice == 0 {
		foreignerPrice = adultPrice * (100 + ForeignerMarkupPercent) / 100
	}

	lines := []PriceLine{
		priceLine("adults", counts.Adults, adultPrice+pickupAdjustment),
		priceLine("children", counts.Children, childPrice+pickupAdjustment),
		priceLine("foreigners", counts.Foreigners, foreignerPrice+pickupAdjustment),
	}

	var total int64
	for _, l := range lines {
		total += l.LineTotal
	}
	return PriceQuote{Total: total, Breakdown: lines}
}

func priceLine(category string, count int, unitPrice int64) PriceLine {
	return PriceLine{
		Category:  category,
		Count:     count,
		UnitPrice: unitPrice,
		LineTotal: int64(count) * unitPrice,
	}
}
