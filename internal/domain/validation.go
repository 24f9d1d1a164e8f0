package domain

import (
	"fmt"
	"strings"
	"time"
)

const (
	// MinDaysAhead and MaxDaysAhead bound the travel date window; both are exclusive.
	MinDaysAhead = 3
	MaxDaysAhead = 365

	MaxProofSize int64 = 5 << 20

	DateLayout = "2006-01-02"
)

// ValidateTravelDate requires the date to be more than MinDaysAhead and less than
// MaxDaysAhead calendar days after now.
func ValidateTravelDate(travel, now time.Time) error {
	days := daysBetween(now, travel)
	if days <= MinDaysAhead {
		return invalidArgument("travelDate", fmt.Sprintf("must be more than %d days from today", MinDaysAhead))
	}
	if days >= MaxDaysAhead {
		return invalidArgument("travelDate", fmt.Sprintf("must be less than %d days from today", MaxDaysAhead))
	}
	return nil
}

func daysBetween(from, to time.Time) int {
	a := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	b := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a).Hours() / 24)
}

// ParseTravelDate parses YYYY-MM-DD.
func ParseTravelDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, ValidationError{Field: "travelDate", Msg: "must be YYYY-MM-DD", Err: ErrInvalidArgument}
	}
	return t, nil
}

func ValidateTravelersCount(count, maxTravelers int) error {
	if count <= 0 {
		return invalidArgument("travelersCount", "must be at least 1")
	}
	if maxTravelers > 0 && count > maxTravelers {
		return invalidArgument("travelersCount", fmt.Sprintf("package allows at most %d travelers", maxTravelers))
	}
	return nil
}

// ValidateProofFile checks a payment proof before it is uploaded or stored.
func ValidateProofFile(contentType string, size int64) error {
	if size <= 0 {
		return invalidArgument("file", "file is empty")
	}
	if size > MaxProofSize {
		return invalidArgument("file", "file must be 5MB or smaller")
	}
	if !strings.HasPrefix(strings.ToLower(strings.TrimSpace(contentType)), "image/") {
		return invalidArgument("file", "file must be an image")
	}
	return nil
}

// NormalizeReason trims a rejection reason and rejects blanks.
func NormalizeReason(reason string) (string, error) {
	r := strings.TrimSpace(reason)
	if r == "" {
		return "", invalidArgument("reason", "rejection reason is required")
	}
	return r, nil
}

func ValidateRating(rating int) error {
	if rating < 1 || rating > 5 {
		return invalidArgument("rating", "must be between 1 and 5")
	}
	return nil
}
