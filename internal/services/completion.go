package services

import (
	"context"
	"fmt"
	"time"

	"tripbook/internal/utils"
)

// CompletionSweeper periodically completes confirmed bookings whose travel date has passed.
type CompletionSweeper struct {
	Bookings BookingService
	Interval time.Duration
}

// Run sweeps once immediately and then on every tick until ctx is done.
func (s CompletionSweeper) Run(ctx context.Context) error {
	interval := s.Interval
	if interval <= 0 {
		interval = time.Hour
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		s.sweep(ctx)
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func (s CompletionSweeper) sweep(ctx context.Context) {
	n, err := s.Bookings.CompleteDue(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		utils.LogError("", "sweeper", "complete_due", err)
		return
	}
	if n > 0 {
		utils.LogEvent("", "sweeper", "complete_due", fmt.Sprintf("completed=%d", n))
	}
}
