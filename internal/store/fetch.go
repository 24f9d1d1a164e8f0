package store

import (
	"context"

	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"tripbook/internal/domain/models"
)

func (s *BookingStore) FetchTouristBookings(ctx context.Context, touristID int64) error {
	return s.replaceBookings(func() ([]models.Booking, error) {
		return s.bookings.ListByTourist(ctx, touristID)
	})
}

func (s *BookingStore) FetchAllBookings(ctx context.Context) error {
	return s.replaceBookings(func() ([]models.Booking, error) {
		return s.bookings.List(ctx)
	})
}

func (s *BookingStore) FetchPendingPayments(ctx context.Context) error {
	s.begin()
	list, err := s.payments.Pending(ctx)
	if err != nil {
		return s.fail(err)
	}
	s.succeed(func(st *State) { st.PendingPayments = cloneBookings(list) })
	return nil
}

// FetchAgentBookings gathers bookings of each package. A package whose request
// fails is skipped; the rest are kept in package order.
func (s *BookingStore) FetchAgentBookings(ctx context.Context, packageIDs []int64) error {
	return s.replaceBookings(func() ([]models.Booking, error) {
		results := make([][]models.Booking, len(packageIDs))
		g, gctx := errgroup.WithContext(ctx)
		limit := s.FanOut
		if limit <= 0 {
			limit = defaultFanOut
		}
		g.SetLimit(limit)
		for i, id := range packageIDs {
			i, id := i, id
			g.Go(func() error {
				list, err := s.bookings.ListByPackage(gctx, id)
				if err != nil {
					logSkipped("fetch_agent_bookings", id, err)
					return nil
				}
				results[i] = list
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return lo.Flatten(results), nil
	})
}

func (s *BookingStore) replaceBookings(load func() ([]models.Booking, error)) error {
	s.begin()
	list, err := load()
	if err != nil {
		return s.fail(err)
	}
	s.succeed(func(st *State) { st.Bookings = cloneBookings(list) })
	return nil
}
