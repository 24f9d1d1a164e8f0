package services

import (
	"context"
	"fmt"
	"strings"

	"tripbook/internal/domain"
	"tripbook/internal/domain/models"
	"tripbook/internal/utils"
)

type ReviewService struct {
	Bookings BookingRepo
	Reviews  ReviewRepo
}

type SubmitReviewInput struct {
	BookingID int64  `json:"bookingId"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment"`
}

// Submit stores a review for a completed booking and sets hasReviewed in the same transaction.
func (s ReviewService) Submit(ctx context.Context, actor domain.Actor, in SubmitReviewInput) (models.Review, error) {
	if err := requireRole(actor, domain.RoleTourist); err != nil {
		return models.Review{}, err
	}
	if err := domain.ValidateRating(in.Rating); err != nil {
		return models.Review{}, err
	}
	prev, err := s.Bookings.GetByID(ctx, in.BookingID)
	if err != nil {
		return models.Review{}, err
	}
	if prev.TouristID != actor.UserID {
		return models.Review{}, domain.ForbiddenError{Msg: "booking milik tourist lain"}
	}
	next := prev.Clone()
	if err := next.MarkReviewed(); err != nil {
		return models.Review{}, err
	}

	rv := models.Review{
		BookingID: prev.ID,
		TouristID: actor.UserID,
		PackageID: prev.PackageID,
		Rating:    in.Rating,
		Comment:   strings.TrimSpace(in.Comment),
	}
	if err := s.Reviews.CreateForBooking(ctx, &rv, prev, next); err != nil {
		return models.Review{}, err
	}
	utils.LogEvent(utils.RequestIDFrom(ctx), "review", "submit", fmt.Sprintf("booking_id=%d rating=%d", prev.ID, rv.Rating))
	return rv, nil
}

func (s ReviewService) ListForPackage(ctx context.Context, packageID int64) ([]models.Review, error) {
	return s.Reviews.ListByPackage(ctx, packageID)
}
