package domain

import "math"

const (
	ServiceFeeRate = 0.05
	TaxRate        = 0.10
)

// PriceBreakdown is the result of pricing a booking. Values are not rounded.
type PriceBreakdown struct {
	BasePrice  float64 `json:"basePrice"`
	ServiceFee float64 `json:"serviceFee"`
	Tax        float64 `json:"tax"`
	TotalPrice float64 `json:"totalPrice"`
}

// CalculatePrice prices travelersCount seats at pricePerPerson plus the fixed
// service fee and tax.
func CalculatePrice(pricePerPerson float64, travelersCount int) (PriceBreakdown, error) {
	if math.IsNaN(pricePerPerson) || math.IsInf(pricePerPerson, 0) {
		return PriceBreakdown{}, invalidArgument("pricePerPerson", "must be finite")
	}
	if pricePerPerson <= 0 {
		return PriceBreakdown{}, invalidArgument("pricePerPerson", "must be positive")
	}
	if travelersCount <= 0 {
		return PriceBreakdown{}, invalidArgument("travelersCount", "must be positive")
	}

	base := pricePerPerson * float64(travelersCount)
	fee := base * ServiceFeeRate
	tax := base * TaxRate
	return PriceBreakdown{
		BasePrice:  base,
		ServiceFee: fee,
		Tax:        tax,
		TotalPrice: base + fee + tax,
	}, nil
}

// SamePrice compares two money amounts at cent precision.
func SamePrice(a, b float64) bool {
	return math.Abs(a-b) < 0.005
}
