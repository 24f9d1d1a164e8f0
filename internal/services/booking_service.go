package services

import (
	"context"
	"fmt"

	"tripbook/internal/domain"
	"tripbook/internal/domain/models"
	"tripbook/internal/metrics"
	"tripbook/internal/utils"
)

type BookingService struct {
	Bookings BookingRepo
	Packages PackageRepo
	Clock    utils.Clock
}

type CreateBookingInput struct {
	PackageID      int64   `json:"packageId"`
	TravelDate     string  `json:"travelDate"`
	TravelersCount int     `json:"travelersCount"`
	TotalPrice     float64 `json:"totalPrice"`
}

// Create validates the request against the package and stores a pending,
// unpaid booking. The submitted totalPrice must match the server's own
// calculation; the stored price is the server's.
func (s BookingService) Create(ctx context.Context, actor domain.Actor, in CreateBookingInput) (models.Booking, error) {
	if err := requireRole(actor, domain.RoleTourist); err != nil {
		return models.Booking{}, err
	}
	if in.PackageID <= 0 {
		return models.Booking{}, domain.ValidationError{Field: "packageId", Msg: "packageId wajib diisi", Err: domain.ErrInvalidArgument}
	}
	pkg, err := s.Packages.GetByID(ctx, in.PackageID)
	if err != nil {
		return models.Booking{}, err
	}

	travel, err := domain.ParseTravelDate(in.TravelDate)
	if err != nil {
		return models.Booking{}, err
	}
	if err := domain.ValidateTravelDate(travel, s.Clock.Now()); err != nil {
		return models.Booking{}, err
	}
	if err := domain.ValidateTravelersCount(in.TravelersCount, pkg.MaxTravelers); err != nil {
		return models.Booking{}, err
	}
	price, err := domain.CalculatePrice(pkg.PricePerPerson, in.TravelersCount)
	if err != nil {
		return models.Booking{}, err
	}
	if in.TotalPrice != 0 && !domain.SamePrice(in.TotalPrice, price.TotalPrice) {
		return models.Booking{}, domain.ValidationError{
			Field: "totalPrice",
			Msg:   fmt.Sprintf("totalPrice %.2f does not match %.2f", in.TotalPrice, price.TotalPrice),
			Err:   domain.ErrInvalidArgument,
		}
	}

	b := models.NewBooking(actor.UserID, pkg.ID, travel.Format(domain.DateLayout), in.TravelersCount, price.TotalPrice)
	if err := s.Bookings.Create(ctx, &b); err != nil {
		return models.Booking{}, err
	}
	utils.LogEvent(utils.RequestIDFrom(ctx), "booking", "create", fmt.Sprintf("booking_id=%d package_id=%d travelers=%d", b.ID, pkg.ID, b.TravelersCount))
	return b, nil
}

func (s BookingService) Get(ctx context.Context, actor domain.Actor, id int64) (models.Booking, error) {
	b, err := s.Bookings.GetByID(ctx, id)
	if err != nil {
		return models.Booking{}, err
	}
	if _, err := authorizeBooking(ctx, s.Packages, actor, b); err != nil {
		return models.Booking{}, err
	}
	return b, nil
}

func (s BookingService) ListForTourist(ctx context.Context, actor domain.Actor, touristID int64) ([]models.Booking, error) {
	if actor.Role != domain.RoleTourist || actor.UserID != touristID {
		return nil, domain.ForbiddenError{Msg: "hanya bisa melihat booking sendiri"}
	}
	return s.Bookings.ListByTourist(ctx, touristID)
}

func (s BookingService) ListForPackage(ctx context.Context, actor domain.Actor, packageID int64) ([]models.Booking, error) {
	if err := requireRole(actor, domain.RoleAgent); err != nil {
		return nil, err
	}
	pkg, err := s.Packages.GetByID(ctx, packageID)
	if err != nil {
		return nil, err
	}
	if pkg.AgentID != actor.UserID {
		return nil, domain.ForbiddenError{Msg: "paket milik agent lain"}
	}
	return s.Bookings.ListByPackage(ctx, packageID)
}

// List returns the caller's own bookings (tourist) or bookings on the caller's packages (agent).
func (s BookingService) List(ctx context.Context, actor domain.Actor) ([]models.Booking, error) {
	switch actor.Role {
	case domain.RoleTourist:
		return s.Bookings.ListByTourist(ctx, actor.UserID)
	case domain.RoleAgent:
		return s.Bookings.ListByAgent(ctx, actor.UserID)
	default:
		return nil, domain.ForbiddenError{}
	}
}

// UpdateStatus applies a confirm/cancel request from a tourist or agent.
func (s BookingService) UpdateStatus(ctx context.Context, actor domain.Actor, id int64, status string) (models.Booking, error) {
	to, err := domain.ParseBookingStatus(status)
	if err != nil {
		return models.Booking{}, err
	}
	prev, err := s.Bookings.GetByID(ctx, id)
	if err != nil {
		return models.Booking{}, err
	}
	if _, err := authorizeBooking(ctx, s.Packages, actor, prev); err != nil {
		return models.Booking{}, err
	}
	return s.transition(ctx, actor, prev, to)
}

func (s BookingService) transition(ctx context.Context, actor domain.Actor, prev models.Booking, to domain.BookingStatus) (models.Booking, error) {
	if err := domain.AuthorizeStatusChange(actor, prev.TouristID, prev.Status, to); err != nil {
		return models.Booking{}, err
	}
	now := s.Clock.Now()
	next := prev.Clone()
	if err := next.SetStatus(to, now); err != nil {
		return models.Booking{}, err
	}
	next.UpdatedAt = now
	if err := s.Bookings.SaveLifecycle(ctx, prev, next, nil); err != nil {
		return models.Booking{}, err
	}
	metrics.BookingTransitions.WithLabelValues(string(prev.Status), string(to)).Inc()
	utils.LogEvent(utils.RequestIDFrom(ctx), "booking", "status", fmt.Sprintf("booking_id=%d %s->%s actor=%s:%d", prev.ID, prev.Status, to, actor.Role, actor.UserID))
	return next, nil
}

// CompleteDue marks confirmed bookings whose travel date has passed as completed.
// Bookings changed concurrently are skipped and picked up on the next run.
func (s BookingService) CompleteDue(ctx context.Context) (int, error) {
	today := s.Clock.Now().Format(domain.DateLayout)
	due, err := s.Bookings.ListCompletable(ctx, today)
	if err != nil {
		return 0, err
	}
	done := 0
	for _, b := range due {
		if err := ctx.Err(); err != nil {
			return done, err
		}
		if _, err := s.transition(ctx, domain.SystemActor, b, domain.BookingCompleted); err != nil {
			if domain.IsConflict(err) {
				continue
			}
			return done, err
		}
		done++
	}
	return done, nil
}
