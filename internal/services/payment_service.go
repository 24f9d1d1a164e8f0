package services

import (
	"context"
	"fmt"
	"io"
	"time"

	"tripbook/internal/domain"
	"tripbook/internal/domain/models"
	"tripbook/internal/metrics"
	"tripbook/internal/utils"
)

const proofFolder = "payment-proofs"

type PaymentService struct {
	Bookings BookingRepo
	Packages PackageRepo
	Events   PaymentEventRepo
	Store    ImageStore
	Clock    utils.Clock
}

// SubmitProof stores the uploaded image and moves the payment to
// pending_verification. The booking state is checked before the file is
// written, and the file is removed again if the booking update fails.
func (s PaymentService) SubmitProof(ctx context.Context, actor domain.Actor, bookingID int64, file io.Reader) (models.ProofUpload, error) {
	if err := requireRole(actor, domain.RoleTourist); err != nil {
		return models.ProofUpload{}, err
	}
	prev, err := s.Bookings.GetByID(ctx, bookingID)
	if err != nil {
		return models.ProofUpload{}, err
	}
	if _, err := authorizeBooking(ctx, s.Packages, actor, prev); err != nil {
		return models.ProofUpload{}, err
	}

	// dry run against a copy; the real URL is only known after storing
	check := prev.Clone()
	if err := check.SubmitProof("", s.Clock.Now()); err != nil {
		return models.ProofUpload{}, err
	}

	stored, err := s.Store.SaveImage(ctx, proofFolder, file, domain.MaxProofSize)
	if err != nil {
		return models.ProofUpload{}, err
	}

	now := s.Clock.Now()
	next := prev.Clone()
	if err := next.SubmitProof(stored.URL, now); err != nil {
		discardUpload(ctx, s.Store, stored.URL)
		return models.ProofUpload{}, err
	}
	event := &models.PaymentEvent{
		BookingID:     prev.ID,
		PaymentStatus: next.PaymentStatus,
		ProofURL:      &stored.URL,
		ActorID:       actor.UserID,
		CreatedAt:     now,
	}
	if err := s.Bookings.SaveLifecycle(ctx, prev, next, event); err != nil {
		discardUpload(ctx, s.Store, stored.URL)
		return models.ProofUpload{}, err
	}
	s.observe(ctx, prev, next, actor)
	return models.ProofUpload{
		PaymentProofURL:        stored.URL,
		PaymentStatus:          next.PaymentStatus,
		PaymentProofUploadedAt: now,
	}, nil
}

// Verify accepts the pending proof; the booking becomes confirmed.
func (s PaymentService) Verify(ctx context.Context, actor domain.Actor, bookingID int64) (models.Booking, error) {
	return s.review(ctx, actor, bookingID, func(b *models.Booking, at time.Time) error {
		return b.VerifyPayment(at)
	})
}

// Reject refuses the pending proof with a non-empty reason.
func (s PaymentService) Reject(ctx context.Context, actor domain.Actor, bookingID int64, reason string) (models.Booking, error) {
	if _, err := domain.NormalizeReason(reason); err != nil {
		return models.Booking{}, err
	}
	return s.review(ctx, actor, bookingID, func(b *models.Booking, _ time.Time) error {
		return b.RejectPayment(reason)
	})
}

func (s PaymentService) review(ctx context.Context, actor domain.Actor, bookingID int64, apply func(*models.Booking, time.Time) error) (models.Booking, error) {
	if err := requireRole(actor, domain.RoleAgent); err != nil {
		return models.Booking{}, err
	}
	prev, err := s.Bookings.GetByID(ctx, bookingID)
	if err != nil {
		return models.Booking{}, err
	}
	if _, err := authorizeBooking(ctx, s.Packages, actor, prev); err != nil {
		return models.Booking{}, err
	}

	now := s.Clock.Now()
	next := prev.Clone()
	if err := apply(&next, now); err != nil {
		return models.Booking{}, err
	}
	next.UpdatedAt = now
	event := &models.PaymentEvent{
		BookingID:     prev.ID,
		PaymentStatus: next.PaymentStatus,
		Reason:        next.PaymentRejectionReason,
		ActorID:       actor.UserID,
		CreatedAt:     now,
	}
	if err := s.Bookings.SaveLifecycle(ctx, prev, next, event); err != nil {
		return models.Booking{}, err
	}
	s.observe(ctx, prev, next, actor)
	return next, nil
}

// Pending lists bookings on the agent's packages that wait for verification.
func (s PaymentService) Pending(ctx context.Context, actor domain.Actor) ([]models.Booking, error) {
	if err := requireRole(actor, domain.RoleAgent); err != nil {
		return nil, err
	}
	return s.Bookings.ListPendingByAgent(ctx, actor.UserID)
}

// History returns the payment events of a booking, oldest first.
func (s PaymentService) History(ctx context.Context, actor domain.Actor, bookingID int64) ([]models.PaymentEvent, error) {
	b, err := s.Bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if _, err := authorizeBooking(ctx, s.Packages, actor, b); err != nil {
		return nil, err
	}
	return s.Events.ListByBooking(ctx, bookingID)
}

func (s PaymentService) observe(ctx context.Context, prev, next models.Booking, actor domain.Actor) {
	metrics.PaymentTransitions.WithLabelValues(string(prev.PaymentStatus), string(next.PaymentStatus)).Inc()
	if prev.Status != next.Status {
		metrics.BookingTransitions.WithLabelValues(string(prev.Status), string(next.Status)).Inc()
	}
	utils.LogEvent(utils.RequestIDFrom(ctx), "payment", string(next.PaymentStatus),
		fmt.Sprintf("booking_id=%d payment %s->%s status %s->%s actor=%s:%d",
			prev.ID, prev.PaymentStatus, next.PaymentStatus, prev.Status, next.Status, actor.Role, actor.UserID))
}
