package domain

import (
	"fmt"
	"math"
	"strings"
)

// FeeType says how an agent's QRIS fee is added to the booking amount.
type FeeType string

const (
	FeeRupiah     FeeType = "rupiah"
	FeePercentage FeeType = "percentage"
)

// ParseFeeType defaults an empty value to rupiah.
func ParseFeeType(s string) (FeeType, error) {
	switch FeeType(strings.ToLower(strings.TrimSpace(s))) {
	case "", FeeRupiah:
		return FeeRupiah, nil
	case FeePercentage:
		return FeePercentage, nil
	default:
		return "", invalidArgument("fee_type", fmt.Sprintf("unknown fee type %q", s))
	}
}

func ValidateFee(t FeeType, value float64) error {
	if math.IsNaN(value) || math.IsInf(value, 0) || value < 0 {
		return invalidArgument("fee_value", "must be a non-negative number")
	}
	if t == FeePercentage && value > 100 {
		return invalidArgument("fee_value", "percentage must not exceed 100")
	}
	return nil
}

// ApplyQRISFee returns the amount the payer scans for.
func ApplyQRISFee(amount float64, t FeeType, value float64) float64 {
	switch t {
	case FeePercentage:
		return amount + amount*value/100
	default:
		return amount + value
	}
}

func ValidateAmount(amount float64) error {
	if math.IsNaN(amount) || math.IsInf(amount, 0) || amount <= 0 {
		return invalidArgument("amount", "must be a positive number")
	}
	return nil
}
